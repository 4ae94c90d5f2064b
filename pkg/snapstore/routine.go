package snapstore

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// GCRoutine runs a garbage collection pass every interval until ctx is
// canceled. The store arms no timer of its own; periodic invocation is the
// caller's responsibility.
func (s *Store) GCRoutine(ctx context.Context, interval, minAge time.Duration) error {
	l := s.l.Named("routine.gc")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			l.Debug("routine canceled", zap.Error(ctx.Err()))
			return nil
		case <-ticker.C:
			if _, err := s.DeleteOldData(ctx, minAge); err != nil {
				l.Error("scheduled gc pass failed", zap.Error(err))
			}
		}
	}
}
