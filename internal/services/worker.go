package services

import (
	"context"
	"log"
	"sync"
	"time"

	"alfredoptarigan/ats-scanner/internal/repositories"
)

// scanPool fans the résumés of one batch scan out to a fixed number of workers.
type scanPool struct {
	concurrency int
	jobQueue    chan int
	wg          sync.WaitGroup
}

func newScanPool(concurrency, jobs int) *scanPool {
	if concurrency <= 0 {
		concurrency = 1
	}
	if concurrency > jobs && jobs > 0 {
		concurrency = jobs
	}
	return &scanPool{
		concurrency: concurrency,
		jobQueue:    make(chan int, jobs),
	}
}

// run calls process once per job index and returns when every job is done or
// ctx is cancelled. Jobs not started before cancellation are skipped.
func (p *scanPool) run(ctx context.Context, jobs int, process func(ctx context.Context, workerID, job int)) {
	for i := 0; i < p.concurrency; i++ {
		p.wg.Add(1)
		go p.processJobs(ctx, i+1, process)
	}

	for job := 0; job < jobs; job++ {
		p.jobQueue <- job
	}
	close(p.jobQueue)

	p.wg.Wait()
}

func (p *scanPool) processJobs(ctx context.Context, workerID int, process func(ctx context.Context, workerID, job int)) {
	defer p.wg.Done()

	for job := range p.jobQueue {
		select {
		case <-ctx.Done():
			continue
		default:
		}
		process(ctx, workerID, job)
	}
}

type Worker interface {
	Start(ctx context.Context)
	Stop()
}

// staleRunSweeper marks scan runs abandoned in "processing" as failed.
type staleRunSweeper struct {
	runRepo  repositories.ScanRunRepository
	maxAge   time.Duration
	interval time.Duration
	wg       sync.WaitGroup
	stopChan chan struct{}
}

func NewStaleRunSweeper(runRepo repositories.ScanRunRepository, maxAge, interval time.Duration) Worker {
	return &staleRunSweeper{
		runRepo:  runRepo,
		maxAge:   maxAge,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start implements Worker.
func (w *staleRunSweeper) Start(ctx context.Context) {
	w.sweep()

	w.wg.Add(1)
	go w.poll(ctx)

	log.Println("✅ Stale scan run sweeper started")
}

// Stop implements Worker.
func (w *staleRunSweeper) Stop() {
	log.Println("🛑 Stopping stale scan run sweeper...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Stale scan run sweeper stopped")
}

func (w *staleRunSweeper) poll(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *staleRunSweeper) sweep() {
	n, err := w.runRepo.FailStale(w.maxAge)
	if err != nil {
		log.Printf("⚠️  Failed to sweep stale scan runs: %v\n", err)
		return
	}
	if n > 0 {
		log.Printf("📋 Marked %d stale scan run(s) as failed\n", n)
	}
}
