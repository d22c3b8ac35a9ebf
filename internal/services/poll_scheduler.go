package services

import (
	"log"
	"sync"
	"time"
)

// PollScheduler triggers the poll cycle on a fixed interval. The cycle's
// own in-flight guard keeps a slow run from overlapping the next tick.
type PollScheduler struct {
	pollService *PollService
	interval    time.Duration
	stopChan    chan struct{}
	running     bool
	mu          sync.Mutex
}

// NewPollScheduler creates a new poll scheduler
func NewPollScheduler(pollService *PollService, interval time.Duration) *PollScheduler {
	return &PollScheduler{
		pollService: pollService,
		interval:    interval,
		stopChan:    make(chan struct{}),
	}
}

// Start begins the periodic polling
func (s *PollScheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	log.Printf("[PollScheduler] Starting with interval: %v", s.interval)

	go func() {
		// Short delay before the first cycle so the server is ready
		select {
		case <-time.After(2 * time.Second):
			log.Println("[PollScheduler] Running first poll...")
			s.pollService.PollAll()
		case <-s.stopChan:
			return
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.pollService.PollAll()
			case <-s.stopChan:
				log.Println("[PollScheduler] Stopping")
				return
			}
		}
	}()
}

// Stop stops the periodic polling
func (s *PollScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	close(s.stopChan)
	s.running = false
}
