// Package callback reconciles an OAuth or email-link redirect into a session.
//
// A Controller owns one callback page load. It drives a Scheduler, which
// repeats a Prober under bounded exponential backoff, and hands the final
// Resolution to a Dispatcher that redirects exactly once.
package callback

import (
	"context"
	"errors"
	"time"
)

// TokenKey is the fixed slot the bearer token is persisted under for each device.
const TokenKey = "planify.auth.token"

var (
	// ErrConfiguration is fatal: the identity provider is missing or not initialized.
	ErrConfiguration = errors.New("identity provider configuration error")
	// ErrProviderDenied is fatal: the provider redirected back with an error.
	ErrProviderDenied = errors.New("identity provider returned an error")
	// ErrCredential marks a rejected callback credential such as a state mismatch.
	ErrCredential = errors.New("callback credential rejected")
	// ErrExchangeFailed is non-fatal; the prober falls through to the next strategy.
	ErrExchangeFailed = errors.New("authorization code exchange failed")
	// ErrRefreshFailed is non-fatal.
	ErrRefreshFailed = errors.New("session refresh failed")
	// ErrTimeout is returned when the attempt budget is exhausted without a session.
	ErrTimeout = errors.New("timed out waiting for session")
	// ErrAlreadyRunning is returned by a second Controller.Run.
	ErrAlreadyRunning = errors.New("callback reconciliation already started")
	// ErrCancelled is returned when the controller is torn down before it redirects.
	ErrCancelled = errors.New("callback reconciliation cancelled")
)

// Outcome classifies a single probe attempt.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeSessionFound
	OutcomeRetryable
	OutcomeFatal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSessionFound:
		return "session_found"
	case OutcomeRetryable:
		return "retryable"
	case OutcomeFatal:
		return "fatal"
	default:
		return "pending"
	}
}

// Attempt records one probe: its index, the delay waited before it and its outcome.
type Attempt struct {
	Index   int
	Delay   time.Duration
	Outcome Outcome
}

// Identity references the authenticated user.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// Session is the provider-issued proof of authentication.
type Session struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
	User         Identity
}

// Expired reports whether the session has a known expiry at or before now.
func (s *Session) Expired(now time.Time) bool {
	return !s.Expiry.IsZero() && !now.Before(s.Expiry)
}

// TokenStore is the durable per-device token slot.
// Load returns nil, nil when the slot is empty.
type TokenStore interface {
	Save(ctx context.Context, deviceID, key string, s *Session) error
	Load(ctx context.Context, deviceID, key string) (*Session, error)
}

// Request is everything one callback page load knows when it starts probing.
type Request struct {
	Params        Params
	DeviceID      string
	ExpectedState string
	CodeVerifier  string
}

// ErrorCode is the machine-readable reason appended to the sign-in redirect.
type ErrorCode string

const (
	CodeConfigError    ErrorCode = "config_error"
	CodeCallbackFailed ErrorCode = "callback_failed"
	CodeSessionTimeout ErrorCode = "session_timeout"
	CodeOAuthFailed    ErrorCode = "oauth_failed"
)

// Message is the human-readable text shown on the sign-in page.
func (c ErrorCode) Message() string {
	switch c {
	case CodeConfigError:
		return "Sign-in is temporarily unavailable. Please try again later."
	case CodeCallbackFailed:
		return "We could not verify your sign-in link. Please sign in again."
	case CodeSessionTimeout:
		return "Signing you in took too long. Please try again."
	case CodeOAuthFailed:
		return "The sign-in provider did not complete the request."
	default:
		return ""
	}
}

// CodeFor maps a resolution error to its redirect code. Cancellation has no code.
func CodeFor(err error) ErrorCode {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return ""
	case errors.Is(err, ErrConfiguration):
		return CodeConfigError
	case errors.Is(err, ErrProviderDenied):
		return CodeOAuthFailed
	case errors.Is(err, ErrCredential):
		return CodeCallbackFailed
	default:
		return CodeSessionTimeout
	}
}

// Resolution is the final result of a probe sequence.
type Resolution struct {
	Session  *Session
	Err      error
	Code     ErrorCode
	Attempts []Attempt
	Strategy string
	Elapsed  time.Duration
}

// Found reports whether a session was obtained.
func (r Resolution) Found() bool {
	return r.Session != nil && r.Err == nil
}
