package services

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"denisetiawan/ai-recruiter/internal/models"
	"denisetiawan/ai-recruiter/internal/repositories"
)

// Worker consumes resume source names from the shared work queue and
// drives each through ingestion and the evaluation workflow. One item
// at a time per process; scale-out is more worker processes on the
// same queue, each pop delivering to exactly one of them.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}

type worker struct {
	queue          repositories.WorkQueue
	candidateRepo  repositories.CandidateRepository
	storage        StorageService
	ingest         IngestService
	orchestrator   OrchestratorService
	notifier       NotifierService
	jobDescription string
	popTimeout     time.Duration
	alertThreshold float64

	wg       sync.WaitGroup
	stopChan chan struct{}
}

func NewWorker(
	queue repositories.WorkQueue,
	candidateRepo repositories.CandidateRepository,
	storage StorageService,
	ingest IngestService,
	orchestrator OrchestratorService,
	notifier NotifierService,
	jobDescription string,
	popTimeout time.Duration,
	alertThreshold float64,
) Worker {
	return &worker{
		queue:          queue,
		candidateRepo:  candidateRepo,
		storage:        storage,
		ingest:         ingest,
		orchestrator:   orchestrator,
		notifier:       notifier,
		jobDescription: jobDescription,
		popTimeout:     popTimeout,
		alertThreshold: alertThreshold,
		stopChan:       make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Println("👷 Worker started. Waiting for jobs...")
	w.wg.Add(1)
	go w.consumeLoop(ctx)
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Worker stopped")
}

func (w *worker) consumeLoop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		default:
		}

		item, err := w.queue.BlockingPop(ctx, w.popTimeout)
		if err != nil {
			log.Printf("❌ Queue error: %v\n", err)
			time.Sleep(time.Second)
			continue
		}
		if item == "" {
			// No work within the timeout; not an error.
			continue
		}

		w.processCandidate(ctx, item)
	}
}

func (w *worker) processCandidate(ctx context.Context, filename string) {
	log.Printf("⚡ EVENT: Picked up %s from queue\n", filename)

	if err := w.candidateRepo.UpdateStatus(ctx, filename, models.StatusProcessing); err != nil {
		log.Printf("⚠️  Failed to mark %s processing: %v\n", filename, err)
	}

	filePath := w.storage.InboxPath(filename)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		log.Printf("⚠️  File missing: %s\n", filePath)
		w.markFailed(ctx, filename)
		return
	}

	if err := w.ingest.IngestFile(ctx, filePath, filename); err != nil {
		log.Printf("❌ Ingestion failed for %s: %v\n", filename, err)
		// Move the file out of the inbox anyway so a bad document
		// cannot block the queue head.
		w.moveOut(filename)
		w.markFailed(ctx, filename)
		return
	}

	finalStates, err := w.orchestrator.RunWorkflow(ctx, w.jobDescription)
	if err != nil {
		log.Printf("❌ Workflow failed for %s: %v\n", filename, err)
		w.moveOut(filename)
		w.markFailed(ctx, filename)
		return
	}

	w.alertHighMatches(finalStates)

	w.moveOut(filename)
	if err := w.candidateRepo.UpdateStatus(ctx, filename, models.StatusCompleted); err != nil {
		log.Printf("⚠️  Failed to mark %s completed: %v\n", filename, err)
	}
	log.Printf("✅ Finished processing %s\n", filename)
}

func (w *worker) alertHighMatches(states []*models.EvaluationState) {
	for _, state := range states {
		if state.Screening == nil || state.Screening.MatchScore < w.alertThreshold {
			continue
		}
		if err := w.notifier.SendAlert(state.CandidateID, state.CandidateEmail, state.Screening.MatchScore, state.Screening.Reasoning); err != nil {
			log.Printf("⚠️  Alert failed for %s: %v\n", state.CandidateID, err)
		}
	}
}

func (w *worker) moveOut(filename string) {
	if err := w.storage.MoveToProcessed(filename); err != nil {
		log.Printf("⚠️  Failed to move %s out of inbox: %v\n", filename, err)
	}
}

func (w *worker) markFailed(ctx context.Context, filename string) {
	if err := w.candidateRepo.UpdateStatus(ctx, filename, models.StatusFailed); err != nil {
		log.Printf("⚠️  Failed to mark %s failed: %v\n", filename, err)
	}
}
