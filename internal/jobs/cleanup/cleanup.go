package cleanup

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ConnectionStore removes rejected requests whose retention has lapsed.
type ConnectionStore interface {
	DeleteRejectedOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// MeetingStore removes cancelled and completed meetings past retention.
type MeetingStore interface {
	DeleteFinishedOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type Config struct {
	Interval          time.Duration
	RejectedRetention time.Duration
	MeetingRetention  time.Duration
}

// Job periodically prunes rows that only exist for audit trails with a
// bounded lifetime. Accepted connections and open reports are never touched.
type Job struct {
	connections ConnectionStore
	meetings    MeetingStore
	cfg         Config
	logger      *zap.Logger
	now         func() time.Time
}

func NewJob(connections ConnectionStore, meetings MeetingStore, cfg Config, logger *zap.Logger) *Job {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 6 * time.Hour
	}
	return &Job{
		connections: connections,
		meetings:    meetings,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// Run blocks until ctx is cancelled. The first sweep happens after one
// full interval so startup is not slowed by maintenance work.
func (j *Job) Run(ctx context.Context) {
	ticker := time.NewTicker(j.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.RunOnce(ctx)
		}
	}
}

func (j *Job) RunOnce(ctx context.Context) {
	now := j.now()

	if j.connections != nil && j.cfg.RejectedRetention > 0 {
		cutoff := now.Add(-j.cfg.RejectedRetention)
		removed, err := j.connections.DeleteRejectedOlderThan(ctx, cutoff)
		if err != nil {
			j.logger.Warn("cleanup of rejected requests failed", zap.Error(err))
		} else if removed > 0 {
			j.logger.Info("pruned rejected requests",
				zap.Int64("removed", removed),
				zap.Time("cutoff", cutoff),
			)
		}
	}

	if j.meetings != nil && j.cfg.MeetingRetention > 0 {
		cutoff := now.Add(-j.cfg.MeetingRetention)
		removed, err := j.meetings.DeleteFinishedOlderThan(ctx, cutoff)
		if err != nil {
			j.logger.Warn("cleanup of finished meetings failed", zap.Error(err))
		} else if removed > 0 {
			j.logger.Info("pruned finished meetings",
				zap.Int64("removed", removed),
				zap.Time("cutoff", cutoff),
			)
		}
	}
}
