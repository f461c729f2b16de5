package scheduler

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"plantgarden/internal/plant"
)

// PlantSweeper is the slice of the plant lifecycle manager the sweep needs.
type PlantSweeper interface {
	DecreasePlantHealth() ([]plant.HealthDelta, error)
}

// MissionSweeper deactivates expired missions.
type MissionSweeper interface {
	CleanupExpiredMissions() (int64, error)
}

// Scheduler runs the periodic garden maintenance: plant health decay and
// expired-mission cleanup. One run at a time; requests racing the sweep go
// through the same transactional update path and stay consistent.
type Scheduler struct {
	plants   PlantSweeper
	missions MissionSweeper
	interval time.Duration
	ticker   *time.Ticker
	ctx      context.Context
	cancel   context.CancelFunc

	// Written by Start/Stop and the run loop, read by health checks.
	isRunning atomic.Bool
}

func NewScheduler(plants PlantSweeper, missions MissionSweeper, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		plants:   plants,
		missions: missions,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the background sweep loop.
func (s *Scheduler) Start() {
	if !s.isRunning.CompareAndSwap(false, true) {
		log.Printf("⚠️ Garden sweep scheduler already running")
		return
	}

	s.ticker = time.NewTicker(s.interval)

	log.Printf("🕐 Garden sweep scheduler started (%s interval)", s.interval)

	// Run an initial sweep so a restarted server catches up immediately.
	go func() {
		log.Printf("🧹 Running initial garden sweep...")
		s.runSweep()
	}()

	go s.run()
}

// Stop shuts the scheduler down.
func (s *Scheduler) Stop() {
	if !s.isRunning.CompareAndSwap(true, false) {
		log.Printf("⚠️ Garden sweep scheduler not running")
		return
	}

	s.cancel()
	if s.ticker != nil {
		s.ticker.Stop()
	}

	log.Printf("🛑 Garden sweep scheduler stopped")
}

func (s *Scheduler) run() {
	defer func() {
		s.isRunning.Store(false)
		if s.ticker != nil {
			s.ticker.Stop()
		}
	}()

	for {
		select {
		case <-s.ctx.Done():
			log.Printf("🛑 Garden sweep context cancelled")
			return

		case <-s.ticker.C:
			log.Printf("⏰ Scheduled garden sweep triggered at %s", time.Now().Format("15:04:05"))
			s.runSweep()
		}
	}
}

func (s *Scheduler) runSweep() {
	deltas, err := s.plants.DecreasePlantHealth()
	if err != nil {
		log.Printf("❌ Health decay sweep failed: %v", err)
	} else if len(deltas) > 0 {
		log.Printf("🥀 Health decay applied to %d plants", len(deltas))
		for _, delta := range deltas {
			log.Printf("   💧 Plant %s: %d → %d (%d days dry)",
				delta.PlantID, delta.HealthBefore, delta.HealthAfter, delta.DaysDry)
		}
	} else {
		log.Printf("✅ No plants needed health decay")
	}

	expired, err := s.missions.CleanupExpiredMissions()
	if err != nil {
		log.Printf("❌ Mission cleanup failed: %v", err)
	} else if expired > 0 {
		log.Printf("🗑️ Deactivated %d expired missions", expired)
	}
}

// ForceSweep triggers an immediate sweep, used by the admin endpoint.
func (s *Scheduler) ForceSweep() {
	log.Printf("🔧 Force garden sweep triggered manually")
	s.runSweep()
}

// IsHealthy reports whether the loop is running.
func (s *Scheduler) IsHealthy() bool {
	return s.isRunning.Load()
}
