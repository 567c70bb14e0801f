package service

import (
	"context"
	"errors"
	"time"

	"github.com/nametrends/nametrends/pkg/logger"
)

// Run builds immediately, then rebuilds daily at the configured wall-clock
// time in the configured timezone. It returns when ctx is canceled or the
// service is stopped. The first build's failure is fatal; scheduled rebuild
// failures are logged and the schedule keeps going.
func (s *Service) Run(ctx context.Context) error {
	if _, err := s.Build(ctx); err != nil {
		return err
	}

	for {
		next := s.nextRun(time.Now().In(s.location))
		s.logger.Info(ctx, "next build scheduled",
			logger.String("at", next.Format(time.RFC3339)),
		)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-s.stopCh:
			timer.Stop()
			return nil
		case <-timer.C:
		}

		if _, err := s.Build(ctx); err != nil {
			if errors.Is(err, ErrBuildInFlight) {
				s.logger.Warn(ctx, "scheduled build skipped, previous build still running")
				continue
			}
			s.logger.Error(ctx, "scheduled build failed", logger.Error(err))
		}
	}
}

// nextRun computes the next scheduled build strictly after now, in the
// configured location.
func (s *Service) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(),
		s.scheduleHour, s.scheduleMinute, 0, 0, s.location)
	if !next.After(now) {
		next = time.Date(now.Year(), now.Month(), now.Day()+1,
			s.scheduleHour, s.scheduleMinute, 0, 0, s.location)
	}
	return next
}
