package layout

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultTickRate is the number of simulation steps per second when a
// Runner drives the layout.
const DefaultTickRate = 60.0

// Stepper is what a Runner drives. Implementations serialize access to the
// underlying Simulation.
type Stepper interface {
	Step() Frame
	Active() bool
}

// Runner advances a Stepper on a fixed cadence until it comes to rest,
// publishing each frame. A resting runner sleeps until woken (for example
// by a drag) or until its context is cancelled. Cancelling the context is
// how a superseded layout is stopped.
type Runner struct {
	stepper Stepper
	limiter *rate.Limiter
	sink    func(Frame)
	logger  *zap.Logger
	wake    chan struct{}
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithTickRate sets the maximum steps per second.
func WithTickRate(perSecond float64) RunnerOption {
	return func(r *Runner) {
		if perSecond > 0 {
			r.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithUnlimitedRate steps as fast as possible. Useful for tests and for
// batch layout.
func WithUnlimitedRate() RunnerOption {
	return func(r *Runner) {
		r.limiter = rate.NewLimiter(rate.Inf, 1)
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRunner creates a runner publishing frames to sink.
func NewRunner(s Stepper, sink func(Frame), opts ...RunnerOption) *Runner {
	r := &Runner{
		stepper: s,
		limiter: rate.NewLimiter(rate.Limit(DefaultTickRate), 1),
		sink:    sink,
		logger:  zap.NewNop(),
		wake:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Wake resumes a resting runner. It never blocks.
func (r *Runner) Wake() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Run blocks until ctx is done and returns the cancellation error.
func (r *Runner) Run(ctx context.Context) error {
	resting := false
	for {
		if !r.stepper.Active() {
			if !resting {
				r.logger.Debug("layout at rest")
				resting = true
			}
			select {
			case <-ctx.Done():
				r.logger.Debug("layout runner cancelled")
				return ctx.Err()
			case <-r.wake:
				continue
			}
		}
		if resting {
			r.logger.Debug("layout resumed")
			resting = false
		}
		if err := r.limiter.Wait(ctx); err != nil {
			r.logger.Debug("layout runner cancelled", zap.Error(err))
			return err
		}
		f := r.stepper.Step()
		if r.sink != nil {
			r.sink(f)
		}
	}
}
