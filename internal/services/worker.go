package services

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wntjdus12/jobverse/internal/models"
	"github.com/wntjdus12/jobverse/internal/repositories"
)

// Worker drains queued batch analysis jobs through the feedback pipeline.
// Jobs over independent document chains run concurrently; colliding chains
// serialize on the orchestrator's per-chain lock.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(jobID uuid.UUID)
}

type worker struct {
	jobRepo      repositories.AnalysisJobRepository
	orchestrator FeedbackOrchestrator
	jobQueue     chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	wg           sync.WaitGroup
	stopChan     chan struct{}
}

func NewWorker(
	jobRepo repositories.AnalysisJobRepository,
	orchestrator FeedbackOrchestrator,
	concurrency int,
	pollInterval time.Duration,
) Worker {
	return &worker{
		jobRepo:      jobRepo,
		orchestrator: orchestrator,
		jobQueue:     make(chan uuid.UUID, 100),
		concurrency:  concurrency,
		pollInterval: pollInterval,
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs()

	log.Println("✅ Worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Worker stopped")
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(jobID uuid.UUID) {
	select {
	case w.jobQueue <- jobID:
		log.Printf("📥 Analysis job %s enqueued\n", jobID)
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue job %s\n", jobID)
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case jobID := <-w.jobQueue:
			log.Printf("👷 Worker #%d processing job %s\n", workerID, jobID)
			if err := w.processJob(ctx, jobID); err != nil {
				log.Printf("❌ Worker #%d failed to process job %s: %v\n", workerID, jobID, err)
			} else {
				log.Printf("✅ Worker #%d completed job %s\n", workerID, jobID)
			}
		}
	}
}

func (w *worker) processJob(ctx context.Context, jobID uuid.UUID) error {
	if err := w.jobRepo.UpdateStatus(jobID, models.StatusProcessing); err != nil {
		return err
	}

	job, err := w.jobRepo.FindByID(jobID)
	if err != nil {
		w.jobRepo.UpdateError(jobID, err.Error())
		return err
	}

	var content models.StructuredContent
	if err := json.Unmarshal([]byte(job.ContentRaw), &content); err != nil {
		w.jobRepo.UpdateError(jobID, "job content is not valid JSON: "+err.Error())
		return err
	}

	result, err := w.orchestrator.SubmitRevision(ctx, SubmitRequest{
		Owner:       job.Owner,
		JobTitle:    job.JobTitle,
		DocType:     job.DocType,
		Content:     content,
		Version:     job.Version,
		UserRemarks: job.UserRemarks,
		CompanyName: job.CompanyName,
	})
	if err != nil {
		w.jobRepo.UpdateError(jobID, err.Error())
		return err
	}

	return w.jobRepo.UpdateResult(jobID, result.Current.Feedback, result.Next.Version)
}

func (w *worker) pollPendingJobs() {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			pendingJobs, err := w.jobRepo.FindPendingJobs(10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch pending jobs: %v\n", err)
				continue
			}

			if len(pendingJobs) > 0 {
				log.Printf("📋 Found %d pending jobs\n", len(pendingJobs))
			}

			for _, job := range pendingJobs {
				w.EnqueueJob(job.ID)
			}
		}
	}
}
