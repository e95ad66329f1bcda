package callback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
)

var errNoSessionYet = errors.New("no session yet")

// Scheduler repeats a SessionProber under Policy until a session is found, a
// fatal error is classified or the attempt budget runs out.
type Scheduler struct {
	policy Policy
	prober SessionProber
	timer  retry.Timer
	logger *slog.Logger
	now    func() time.Time
}

type SchedulerOption func(*Scheduler)

// WithTimer replaces the wall-clock timer used between attempts.
func WithTimer(t retry.Timer) SchedulerOption {
	return func(s *Scheduler) { s.timer = t }
}

// WithClock replaces the clock used to measure elapsed time.
func WithClock(now func() time.Time) SchedulerOption {
	return func(s *Scheduler) { s.now = now }
}

func NewScheduler(policy Policy, prober SessionProber, logger *slog.Logger, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		policy: policy,
		prober: prober,
		timer:  wallTimer{},
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.policy.MaxAttempts < 1 {
		s.policy.MaxAttempts = 1
	}
	return s
}

// Run probes sequentially, never more than Policy.MaxAttempts times. Pending
// waits are abandoned as soon as ctx is done.
func (s *Scheduler) Run(ctx context.Context, req *Request) Resolution {
	start := s.now()
	inFlight := req.Params.HasAuthParams()

	var (
		attempts []Attempt
		last     ProbeResult
	)

	probe := func() error {
		if err := ctx.Err(); err != nil {
			return retry.Unrecoverable(err)
		}

		i := len(attempts)
		last = s.prober.Probe(ctx, req)
		a := Attempt{Index: i, Delay: s.policy.DelayBefore(i), Outcome: OutcomePending}

		var err error
		switch last.Status {
		case SessionFound:
			a.Outcome = OutcomeSessionFound
		case ProbeFatal:
			if errors.Is(last.Err, ErrCredential) && inFlight && i < s.policy.InFlightAttempts {
				a.Outcome = OutcomeRetryable
				err = last.Err
			} else {
				a.Outcome = OutcomeFatal
				err = retry.Unrecoverable(last.Err)
			}
		default:
			a.Outcome = OutcomeRetryable
			err = errNoSessionYet
			if last.Err != nil {
				err = last.Err
			}
		}
		attempts = append(attempts, a)
		return err
	}

	err := retry.Do(probe,
		retry.Context(ctx),
		retry.Attempts(uint(s.policy.MaxAttempts)),
		retry.DelayType(func(uint, error, *retry.Config) time.Duration {
			return s.policy.Delay(len(attempts) - 1)
		}),
		retry.MaxDelay(s.policy.MaxDelay),
		retry.LastErrorOnly(true),
		retry.WithTimer(s.timer),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Debug("probe attempt did not resolve", "attempt", n, "err", err)
		}),
	)

	res := Resolution{
		Attempts: attempts,
		Strategy: last.Strategy,
	}

	var lastOutcome Outcome
	if len(attempts) > 0 {
		lastOutcome = attempts[len(attempts)-1].Outcome
	}

	switch {
	case err == nil && last.Status == SessionFound:
		res.Session = last.Session
	case lastOutcome == OutcomeFatal:
		res.Err = last.Err
	case ctx.Err() != nil:
		res.Err = ctx.Err()
	case last.Err != nil:
		// The last probe error is detail only; an exhausted budget is always a timeout.
		res.Err = fmt.Errorf("%w after %d attempts: %v", ErrTimeout, len(attempts), last.Err)
	default:
		res.Err = fmt.Errorf("%w after %d attempts", ErrTimeout, len(attempts))
	}
	res.Code = CodeFor(res.Err)
	res.Elapsed = s.now().Sub(start)

	return res
}

type wallTimer struct{}

func (wallTimer) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
