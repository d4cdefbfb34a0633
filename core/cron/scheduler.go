package cron

import (
	"log"
	"time"

	"ladder-api/core/models"
	"ladder-api/core/services"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Scheduler runs the nightly integrity sweep: every active season is
// replayed from scratch so drift from missed triggers or crashed
// replays never survives more than a day.
type Scheduler struct {
	cron   *cron.Cron
	db     *gorm.DB
	recalc *services.RecalculationService
}

func NewScheduler(db *gorm.DB, recalc *services.RecalculationService) *Scheduler {
	c := cron.New(cron.WithSeconds(), cron.WithLogger(cron.VerbosePrintfLogger(log.Default())))

	return &Scheduler{
		cron:   c,
		db:     db,
		recalc: recalc,
	}
}

// Start registers and starts all scheduled jobs
func (s *Scheduler) Start() error {
	log.Println("Starting cron scheduler...")

	// At 03:00:00 every night, when nobody is recording matches.
	_, err := s.cron.AddFunc("0 0 3 * * *", s.runIntegritySweep)
	if err != nil {
		log.Printf("Error scheduling integrity sweep: %v", err)
		return err
	}

	s.cron.Start()
	log.Println("Cron scheduler started successfully")

	return nil
}

// Stop gracefully shuts down the scheduler
func (s *Scheduler) Stop() {
	log.Println("Stopping cron scheduler...")
	s.cron.Stop()
	log.Println("Cron scheduler stopped")
}

// runIntegritySweep replays every season whose window contains now.
func (s *Scheduler) runIntegritySweep() {
	log.Println("Running rating integrity sweep...")

	nowMs := time.Now().UnixMilli()

	var seasons []models.Season
	if err := s.db.Where("starts_at <= ? AND ends_at >= ?", nowMs, nowMs).Find(&seasons).Error; err != nil {
		log.Printf("Error loading active seasons for sweep: %v", err)
		return
	}

	if len(seasons) == 0 {
		log.Println("No active seasons to sweep")
		return
	}

	for _, season := range seasons {
		result, err := s.recalc.RecalculateSeason(season.ID, nil)
		if err != nil {
			log.Printf("Error sweeping season %d: %v", season.ID, err)
			continue
		}
		log.Printf("Swept season %d: %d players, %d matches", season.ID, result.PlayersProcessed, result.MatchesProcessed)
	}

	log.Println("Rating integrity sweep completed")
}

// RunNow manually triggers the integrity sweep (useful for testing)
func (s *Scheduler) RunNow() {
	log.Println("Manually triggering integrity sweep...")
	s.runIntegritySweep()
}
