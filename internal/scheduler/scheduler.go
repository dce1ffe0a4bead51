package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"realty-cms/internal/cleanup"
	"realty-cms/internal/config"
)

// Scheduler runs the orphan-media cleanup on a daily schedule.
type Scheduler struct {
	cron      *cron.Cron
	cleanup   *cleanup.Service
	config    *config.Config
	isRunning bool
}

// NewScheduler creates a scheduler driving the given cleanup service.
func NewScheduler(cleanupService *cleanup.Service, cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		cleanup: cleanupService,
		config:  cfg,
	}
}

// Start registers the daily cleanup job and starts the cron loop.
func (s *Scheduler) Start() error {
	if !s.config.Cleanup.DailyRunEnabled {
		log.Println("Scheduler: Daily cleanup is disabled in configuration")
		return nil
	}

	cronSpec := s.parseDailyRunTime(s.config.Cleanup.DailyRunTime)

	_, err := s.cron.AddFunc(cronSpec, func() {
		log.Println("Scheduler: Starting daily media cleanup...")
		if err := s.RunNow(); err != nil {
			log.Printf("Scheduler: Daily cleanup failed: %v", err)
		} else {
			log.Println("Scheduler: Daily cleanup completed successfully")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Scheduler: Started with daily cleanup at %s (cron: %s)", s.config.Cleanup.DailyRunTime, cronSpec)

	return nil
}

// Stop stops the cron loop.
func (s *Scheduler) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		log.Println("Scheduler: Stopped")
	}
}

// RunNow immediately executes the cleanup job (for manual trigger).
func (s *Scheduler) RunNow() error {
	cfg := cleanup.DefaultConfig()
	cfg.DryRun = s.config.Cleanup.DryRun
	if s.config.Cleanup.MaxDeletionCount > 0 {
		cfg.MaxDeletionCount = s.config.Cleanup.MaxDeletionCount
	}

	_, err := s.cleanup.Run(cfg)
	return err
}

// parseDailyRunTime converts "HH:MM" to a cron specification.
// Example: "02:00" -> "0 2 * * *" (run at 2:00 AM every day)
func (s *Scheduler) parseDailyRunTime(timeStr string) string {
	var hour, minute int
	n, _ := fmt.Sscanf(timeStr, "%d:%d", &hour, &minute)
	if n == 2 {
		return fmt.Sprintf("%d %d * * *", minute, hour)
	}

	// Default to 3:00 AM if parsing fails
	log.Printf("Scheduler: Failed to parse time '%s', using default 03:00", timeStr)
	return "0 3 * * *"
}
