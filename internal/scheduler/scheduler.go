package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"

	"github.com/mkovac/journal-insights/internal/insight"
)

// HealthChecker is the slice of the backend client the scheduler pings
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Scheduler triggers the orchestrator periodically. It is only a
// trigger: the staleness evaluator decides per type whether a sweep
// actually generates anything, so sweeping more often than the
// configured intervals is harmless.
type Scheduler struct {
	scheduler gocron.Scheduler
	orch      *insight.Orchestrator
	health    HealthChecker
	timezone  *time.Location
	cfg       Config
}

// Config holds scheduler configuration
type Config struct {
	Timezone      string
	SweepInterval time.Duration
	SweepCron     string // optional, overrides SweepInterval when set
}

// New creates a new scheduler
func New(orch *insight.Orchestrator, health HealthChecker, cfg Config) (*Scheduler, error) {
	tz, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("WARNING: invalid timezone %q, falling back to UTC: %v", cfg.Timezone, err)
		tz = time.UTC
	}

	if cfg.SweepCron != "" {
		if _, err := cron.ParseStandard(cfg.SweepCron); err != nil {
			return nil, err
		}
	}

	s, err := gocron.NewScheduler(gocron.WithLocation(tz))
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		scheduler: s,
		orch:      orch,
		health:    health,
		timezone:  tz,
		cfg:       cfg,
	}, nil
}

// Start registers the jobs and starts the scheduler
func (s *Scheduler) Start() error {
	var sweepDef gocron.JobDefinition
	if s.cfg.SweepCron != "" {
		sweepDef = gocron.CronJob(s.cfg.SweepCron, false)
	} else {
		sweepDef = gocron.DurationJob(s.cfg.SweepInterval)
	}

	_, err := s.scheduler.NewJob(
		sweepDef,
		gocron.NewTask(s.sweep),
		gocron.WithName("insight-sweep"),
	)
	if err != nil {
		return err
	}

	_, err = s.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(s.healthCheck),
		gocron.WithName("health-check"),
	)
	if err != nil {
		return err
	}

	s.scheduler.Start()
	log.Println("Scheduler started")
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}

func (s *Scheduler) sweep() {
	log.Println("Running insight sweep...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	for _, outcome := range s.orch.RunAll(ctx, false) {
		switch outcome.Status {
		case insight.StatusGenerated:
			log.Printf("Sweep: %s generated", outcome.Type)
		case insight.StatusFailed:
			log.Printf("Sweep: %s failed: %v", outcome.Type, outcome.Err)
		}
		// Skips are normal outcomes; the orchestrator already logs them.
	}
}

func (s *Scheduler) healthCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.health.HealthCheck(ctx); err != nil {
		log.Printf("Health check failed - generation backend unreachable: %v", err)
	}
}
