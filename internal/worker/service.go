// Package worker manages the background workers for the proxy.
package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"corgi/internal/candidates"
	"corgi/internal/config"
	"corgi/internal/ingest"

	"gorm.io/gorm"
)

// poolRetention is how long a pool entry stays active without resurfacing.
const poolRetention = 7 * 24 * time.Hour

// Service manages background workers: the streaming pool ingester and the
// periodic pool maintenance tasks.
type Service struct {
	streamConsumer  *ingest.StreamConsumer
	trendingService *candidates.TrendingService
	startedAt       time.Time
	ctx             context.Context
	cancel          context.CancelFunc
	wg              sync.WaitGroup
	running         bool
	mu              sync.RWMutex
}

// NewService creates a new worker service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	var streamConsumer *ingest.StreamConsumer
	if cfg.StreamingURL != "" {
		streamConsumer = ingest.NewStreamConsumer(db, cfg.StreamingURL)
	}

	return &Service{
		streamConsumer:  streamConsumer,
		trendingService: candidates.NewTrendingService(db),
		ctx:             ctx,
		cancel:          cancel,
	}
}

// Start starts all background workers
func (ws *Service) Start() error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.running {
		return nil // Already running
	}

	log.Println("Starting background workers...")

	if ws.streamConsumer != nil {
		ws.wg.Add(1)
		go func() {
			defer ws.wg.Done()
			ws.runStreamConsumer()
		}()
	}

	ws.wg.Add(1)
	go func() {
		defer ws.wg.Done()
		ws.runPeriodicTasks()
	}()

	ws.running = true
	ws.startedAt = time.Now()
	log.Println("Background workers started successfully")

	return nil
}

// Stop stops all background workers
func (ws *Service) Stop() {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if !ws.running {
		return // Not running
	}

	log.Println("Stopping background workers...")

	ws.cancel()
	ws.wg.Wait()

	ws.running = false
	log.Println("Background workers stopped")
}

// IsRunning returns whether the worker service is currently running
func (ws *Service) IsRunning() bool {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.running
}

// runStreamConsumer runs the public stream ingester with restart on failure.
func (ws *Service) runStreamConsumer() {
	log.Println("Starting candidate pool stream ingester...")

	for {
		select {
		case <-ws.ctx.Done():
			log.Println("Stream ingester stopped")
			return
		default:
			if err := ws.streamConsumer.StartConsuming(ws.ctx); err != nil {
				if ws.ctx.Err() != nil {
					return
				}

				log.Printf("Stream ingester error: %v. Restarting in 30 seconds...", err)

				select {
				case <-time.After(30 * time.Second):
					continue
				case <-ws.ctx.Done():
					return
				}
			}
		}
	}
}

// runPeriodicTasks runs pool maintenance on tickers.
func (ws *Service) runPeriodicTasks() {
	log.Println("Starting periodic tasks worker...")

	trendingTicker := time.NewTicker(15 * time.Minute)
	pruneTicker := time.NewTicker(1 * time.Hour)

	defer trendingTicker.Stop()
	defer pruneTicker.Stop()

	for {
		select {
		case <-ws.ctx.Done():
			log.Println("Periodic tasks worker stopped")
			return

		case <-trendingTicker.C:
			if err := ws.trendingService.UpdateTrendingScores(ws.ctx); err != nil {
				log.Printf("Failed to update trending scores: %v", err)
			}

		case <-pruneTicker.C:
			if err := ws.trendingService.PruneStale(ws.ctx, poolRetention); err != nil {
				log.Printf("Failed to prune stale candidates: %v", err)
			}
		}
	}
}

// GetStatus returns the current status of the worker service
func (ws *Service) GetStatus() map[string]interface{} {
	ws.mu.RLock()
	defer ws.mu.RUnlock()

	status := map[string]interface{}{
		"running":         ws.running,
		"stream_ingester": ws.streamConsumer != nil,
		"periodic_tasks":  true,
	}
	if ws.running {
		status["uptime"] = time.Since(ws.startedAt).String()
	}

	return status
}
