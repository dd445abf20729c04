package jobs

import (
	"context"
	"time"

	"github.com/kinfolkhq/kinfolk/config"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// sweepTimeout bounds a single background sweep
const sweepTimeout = 5 * time.Minute

// InviteSweeper is the slice of the invitation service the recurring
// sweeps call into
type InviteSweeper interface {
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
	EnqueueDueReminders(ctx context.Context, now time.Time) (int, error)
	ArchiveBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Drainer sends due outbox entries
type Drainer interface {
	Drain(ctx context.Context) (int, error)
}

// Scheduler runs the recurring maintenance jobs, every job is a cron
// entry whose spec comes from the configuration
type Scheduler struct {
	cron    *cron.Cron
	log     *zap.Logger
	cfg     *config.Configuration
	invites InviteSweeper
	drain   Drainer
}

func NewScheduler(
	log *zap.Logger,
	cfg *config.Configuration,
	invites InviteSweeper,
	drain Drainer,
) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		log:     log,
		cfg:     cfg,
		invites: invites,
		drain:   drain,
	}
}

// Start registers the configured jobs and starts the cron loop,
// jobs with an empty spec are skipped
func (s *Scheduler) Start() error {
	jobs := []struct {
		name string
		spec string
		run  func(ctx context.Context)
	}{
		{"expire_sweep", s.cfg.Jobs.ExpireSweep, s.expireSweep},
		{"reminder_sweep", s.cfg.Jobs.ReminderSweep, s.reminderSweep},
		{"outbox_drain", s.cfg.Jobs.OutboxDrain, s.outboxDrain},
		{"retention_sweep", s.cfg.Jobs.RetentionSweep, s.retentionSweep},
	}
	for _, j := range jobs {
		if j.spec == "" {
			s.log.Info("job has no schedule, skipping", zap.String("job", j.name))
			continue
		}
		run := j.run
		name := j.name
		_, err := s.cron.AddFunc(j.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
			defer cancel()
			run(ctx)
		})
		if err != nil {
			s.log.Error(
				"unable to schedule job",
				zap.String("job", name),
				zap.String("spec", j.spec),
				zap.Error(err),
			)
			return err
		}
		s.log.Info("scheduled job", zap.String("job", name), zap.String("spec", j.spec))
	}
	s.cron.Start()
	return nil
}

// Stop halts the cron loop, already running jobs finish
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) expireSweep(ctx context.Context) {
	affected, err := s.invites.ExpireOverdue(ctx, time.Now().UTC())
	if err != nil {
		s.log.Error("expire sweep failed", zap.Error(err))
		return
	}
	if affected > 0 {
		s.log.Info("expired overdue invitations", zap.Int64("affected", affected))
	}
}

func (s *Scheduler) reminderSweep(ctx context.Context) {
	enqueued, err := s.invites.EnqueueDueReminders(ctx, time.Now().UTC())
	if err != nil {
		s.log.Error("reminder sweep failed", zap.Error(err))
		return
	}
	if enqueued > 0 {
		s.log.Info("enqueued reminder mails", zap.Int("enqueued", enqueued))
	}
}

func (s *Scheduler) outboxDrain(ctx context.Context) {
	sent, err := s.drain.Drain(ctx)
	if err != nil {
		s.log.Error("outbox drain failed", zap.Error(err))
		return
	}
	if sent > 0 {
		s.log.Info("sent outbox mails", zap.Int("sent", sent))
	}
}

func (s *Scheduler) retentionSweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-s.cfg.Behaviour.InviteRetention)
	affected, err := s.invites.ArchiveBefore(ctx, cutoff)
	if err != nil {
		s.log.Error("retention sweep failed", zap.Error(err))
		return
	}
	if affected > 0 {
		s.log.Info("archived old invitations", zap.Int64("affected", affected))
	}
}
