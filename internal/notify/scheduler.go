package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Scheduler drives the notifier on a fixed interval. Time sensing lives here;
// what runs on each tick lives in the Notifier.
type Scheduler struct {
	notifier *Notifier
	interval time.Duration
	log      *zap.SugaredLogger
}

func NewScheduler(notifier *Notifier, interval time.Duration, log *zap.SugaredLogger) *Scheduler {
	return &Scheduler{notifier: notifier, interval: interval, log: log}
}

// Run blocks until ctx is cancelled. A failed tick is logged and abandoned;
// the eligibility check is level-triggered, so the next tick starts fresh and
// picks up whatever the failed one left behind.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Infow("notification scheduler started", "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("notification scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	sent, err := s.notifier.ScanOnce(ctx)
	if err != nil {
		s.log.Errorw("reminder scan aborted", "err", err)
	} else if sent > 0 {
		s.log.Infow("reminder scan finished", "sent", sent)
	}

	reported, err := s.notifier.MaybeSendMonthlyReport(ctx)
	if err != nil {
		s.log.Errorw("monthly report failed", "err", err)
	} else if reported {
		s.log.Info("monthly report sent")
	}
}
