package callback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ProbeStatus is the uniform result of one probe.
type ProbeStatus int

const (
	NoSessionYet ProbeStatus = iota
	SessionFound
	ProbeFatal
)

// ProbeResult carries the status, the session when found, the strategy that
// decided it and the error behind a fatal or retryable result.
type ProbeResult struct {
	Status   ProbeStatus
	Session  *Session
	Strategy string
	Err      error
}

// SessionProber answers "is there a valid session right now".
type SessionProber interface {
	Probe(ctx context.Context, req *Request) ProbeResult
}

// Prober walks an ordered strategy chain and persists the token of the first session found.
type Prober struct {
	strategies []Strategy
	store      TokenStore
	logger     *slog.Logger
}

func NewProber(store TokenStore, logger *slog.Logger, strategies ...Strategy) *Prober {
	return &Prober{
		strategies: strategies,
		store:      store,
		logger:     logger,
	}
}

func (p *Prober) Probe(ctx context.Context, req *Request) ProbeResult {
	var softErr, credErr error

	for _, s := range p.strategies {
		sess, err := s.Probe(ctx, req)
		switch {
		case err == nil && sess != nil:
			if err := p.store.Save(ctx, req.DeviceID, TokenKey, sess); err != nil {
				return ProbeResult{
					Status:   NoSessionYet,
					Strategy: s.Name(),
					Err:      fmt.Errorf("failed to persist session: %w", err),
				}
			}
			return ProbeResult{Status: SessionFound, Session: sess, Strategy: s.Name()}
		case err == nil:
			continue
		case errors.Is(err, ErrConfiguration), errors.Is(err, ErrProviderDenied):
			return ProbeResult{Status: ProbeFatal, Strategy: s.Name(), Err: err}
		case errors.Is(err, ErrCredential):
			if credErr == nil {
				credErr = err
			}
		default:
			softErr = err
		}
		p.logger.Debug("strategy failed, falling through", "strategy", s.Name(), "err", err)
	}

	if credErr != nil {
		return ProbeResult{Status: ProbeFatal, Strategy: "credential", Err: credErr}
	}
	return ProbeResult{Status: NoSessionYet, Err: softErr}
}
