package holidays

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RefreshScheduler runs the periodic holiday cache refresh.
type RefreshScheduler struct {
	cron   *cron.Cron
	source *Source
	logger *zap.Logger
}

// NewRefreshScheduler creates the scheduler without starting it.
func NewRefreshScheduler(source *Source, logger *zap.Logger) *RefreshScheduler {
	return &RefreshScheduler{
		cron:   cron.New(),
		source: source,
		logger: logger,
	}
}

// Start registers the refresh job and starts the cron loop. The expression
// uses standard five-field cron syntax, e.g. "0 3 * * *" for daily at 03:00.
func (s *RefreshScheduler) Start(cronExpression string) error {
	_, err := s.cron.AddFunc(cronExpression, func() {
		s.logger.Info("refreshing holiday cache")
		s.source.Refresh(context.Background())
	})
	if err != nil {
		return fmt.Errorf("schedule holiday refresh: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for a running refresh to finish.
func (s *RefreshScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
