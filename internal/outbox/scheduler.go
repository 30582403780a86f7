package outbox

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Scheduler struct {
	relay     *Relay
	interval  time.Duration
	purgeEach time.Duration
	grace     time.Duration // how long Stop waits before cancelling a stuck batch
	log       *zap.Logger
	cancel    context.CancelFunc
	stopCh    chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

func NewScheduler(relay *Relay, interval time.Duration, log *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Scheduler{
		relay:     relay,
		interval:  interval,
		purgeEach: time.Hour,
		grace:     5 * time.Second,
		log:       log,
		stopCh:    make(chan struct{}),
	}
}

// Start runs the delivery and purge loops until Stop or ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("starting outbox scheduler", zap.Duration("interval", s.interval))
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(2)
	go s.runDelivery(ctx)
	go s.runPurge(ctx)
}

// Stop signals both loops and waits for an in-flight batch to finish. A
// batch still running after the grace period is cancelled; its rows stay
// unsent and are retried on the next start.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.log.Info("stopping outbox scheduler")
		close(s.stopCh)
	})

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(s.grace):
		s.log.Warn("outbox batch still running, cancelling", zap.Duration("grace", s.grace))
		if s.cancel != nil {
			s.cancel()
		}
		<-done
	}
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *Scheduler) runDelivery(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.relay.RunOnce(ctx); err != nil && ctx.Err() == nil {
			s.log.Error("outbox delivery run failed", zap.Error(err))
		}
		select {
		case <-ticker.C:
		case <-s.stopCh:
			s.log.Info("outbox delivery stopped")
			return
		case <-ctx.Done():
			s.log.Info("outbox delivery cancelled")
			return
		}
	}
}

func (s *Scheduler) runPurge(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.purgeEach)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.relay.Purge(ctx); err != nil {
				s.log.Error("outbox purge failed", zap.Error(err))
			}
			if n, err := s.relay.Pending(ctx); err != nil {
				s.log.Error("count pending outbox messages", zap.Error(err))
			} else if n > 0 {
				s.log.Info("outbox backlog", zap.Int64("pending", n))
			}
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}
