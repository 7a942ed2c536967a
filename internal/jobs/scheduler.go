// Package jobs schedules the recurring batch work: the daily bonus run and
// the operational alerts.
package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pms-parking/parkwash/internal/payroll"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Default cron specs.
const (
	DefaultBonusSchedule = "5 0 * * *"
	DefaultAlertSchedule = "0 * * * *"
)

// BonusRunner computes the daily bonuses.
type BonusRunner interface {
	CalculateDaily(ctx context.Context, date time.Time) (*payroll.Run, error)
}

// Config holds the job schedules.
type Config struct {
	BonusSchedule string
	AlertSchedule string
}

// Scheduler runs the recurring jobs on cron schedules.
type Scheduler struct {
	cron    *cron.Cron
	bonuses BonusRunner
	alerts  *Alerts
	now     func() time.Time
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewScheduler registers the jobs. Empty schedules take the defaults; "-" disables a job.
func NewScheduler(cfg Config, bonuses BonusRunner, alerts *Alerts, now func() time.Time) (*Scheduler, error) {
	if now == nil {
		now = time.Now
	}
	logger := cron.VerbosePrintfLogger(log.StandardLogger())
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		bonuses: bonuses,
		alerts:  alerts,
		now:     now,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	if spec := scheduleOrDefault(cfg.BonusSchedule, DefaultBonusSchedule); spec != "" && bonuses != nil {
		if _, errAdd := s.cron.AddFunc(spec, s.RunBonuses); errAdd != nil {
			return nil, fmt.Errorf("jobs: schedule bonuses %q: %w", spec, errAdd)
		}
	}
	if spec := scheduleOrDefault(cfg.AlertSchedule, DefaultAlertSchedule); spec != "" && alerts != nil {
		if _, errAdd := s.cron.AddFunc(spec, s.RunAlerts); errAdd != nil {
			return nil, fmt.Errorf("jobs: schedule alerts %q: %w", spec, errAdd)
		}
	}
	return s, nil
}

func scheduleOrDefault(spec, fallback string) string {
	spec = strings.TrimSpace(spec)
	switch spec {
	case "":
		return fallback
	case "-":
		return ""
	default:
		return spec
	}
}

// Start begins firing the scheduled jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.WithField("jobs", len(s.cron.Entries())).Info("jobs: scheduler started")
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	log.Info("jobs: scheduler stopped")
}

// RunBonuses calculates the bonuses of the previous day.
func (s *Scheduler) RunBonuses() {
	day := s.now().UTC().AddDate(0, 0, -1)
	if _, errRun := s.bonuses.CalculateDaily(s.ctx, day); errRun != nil {
		log.WithError(errRun).WithField("date", day.Format(time.DateOnly)).Error("jobs: bonus run failed")
	}
}

// RunAlerts checks long stays and expiring subscriptions.
func (s *Scheduler) RunAlerts() {
	if _, errLong := s.alerts.LongParking(s.ctx); errLong != nil {
		log.WithError(errLong).Warn("jobs: long parking check failed")
	}
	if _, errExpiring := s.alerts.ExpiringSubscriptions(s.ctx); errExpiring != nil {
		log.WithError(errExpiring).Warn("jobs: subscription check failed")
	}
}
