package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// PendingAnalysisProcessor defines the interface for processing posts
// that still lack an AI annotation
type PendingAnalysisProcessor interface {
	ProcessPendingAnalyses(ctx context.Context) error
}

// Scheduler handles periodic processing of pending analyses
type Scheduler struct {
	processor PendingAnalysisProcessor
	interval  time.Duration
	logger    *slog.Logger
	stopCh    chan struct{}
	wg        sync.WaitGroup
	running   bool
	mu        sync.Mutex
}

// New creates a new scheduler
func New(processor PendingAnalysisProcessor, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		processor: processor,
		interval:  interval,
		logger:    logger,
		stopCh:    make(chan struct{}),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("analysis scheduler started", "interval", s.interval)

	s.wg.Add(1)
	go s.run(ctx)
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	s.logger.Info("analysis scheduler stopped")
}

// run is the main scheduler loop
func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run immediately on start
	s.process(ctx)

	for {
		select {
		case <-ticker.C:
			s.process(ctx)
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// process runs one annotation batch
func (s *Scheduler) process(ctx context.Context) {
	s.logger.Debug("processing pending analyses")

	if err := s.processor.ProcessPendingAnalyses(ctx); err != nil {
		s.logger.Error("failed to process pending analyses", "error", err)
	}
}
