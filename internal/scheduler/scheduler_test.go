package scheduler

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"plantgarden/internal/plant"
)

type stubPlantSweeper struct {
	sweeps atomic.Int32
}

func (s *stubPlantSweeper) DecreasePlantHealth() ([]plant.HealthDelta, error) {
	s.sweeps.Add(1)
	return nil, nil
}

type stubMissionSweeper struct {
	cleanups atomic.Int32
}

func (s *stubMissionSweeper) CleanupExpiredMissions() (int64, error) {
	s.cleanups.Add(1)
	return 0, nil
}

func TestSchedulerStartStop(t *testing.T) {
	s := NewScheduler(&stubPlantSweeper{}, &stubMissionSweeper{}, time.Hour)

	if s.IsHealthy() {
		t.Fatal("expected scheduler to report not running before Start")
	}

	s.Start()
	if !s.IsHealthy() {
		t.Fatal("expected scheduler to report running after Start")
	}

	// A second Start must not spawn another loop.
	s.Start()

	s.Stop()
	if s.IsHealthy() {
		t.Fatal("expected scheduler to report not running after Stop")
	}

	// Stopping twice is a logged no-op.
	s.Stop()
}

func TestForceSweepRunsBothSweeps(t *testing.T) {
	plants := &stubPlantSweeper{}
	missions := &stubMissionSweeper{}
	s := NewScheduler(plants, missions, time.Hour)

	s.ForceSweep()

	if got := plants.sweeps.Load(); got != 1 {
		t.Errorf("expected 1 health sweep, got %d", got)
	}
	if got := missions.cleanups.Load(); got != 1 {
		t.Errorf("expected 1 mission cleanup, got %d", got)
	}
}

func TestIsHealthyConcurrentWithLifecycle(t *testing.T) {
	s := NewScheduler(&stubPlantSweeper{}, &stubMissionSweeper{}, time.Hour)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.IsHealthy()
		}
	}()

	s.Start()
	s.ForceSweep()
	s.Stop()
	wg.Wait()
}
