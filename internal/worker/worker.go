package worker

import (
	"context"
	"log"
	"time"

	"scenecast/internal/database"
	"scenecast/internal/models"
	"scenecast/internal/services"
)

// runProcessor is the narrow surface Worker depends on, declared locally so
// tests can drive processNext with a stub instead of a real *Processor.
type runProcessor interface {
	Process(ctx context.Context, run *models.RunManifest) (string, error)
}

// Worker polls the run store for queued runs and drives them through the
// render pipeline one at a time.
type Worker struct {
	runRepo      *database.RunRepository
	broadcaster  *services.ProgressBroadcaster
	processor    runProcessor
	pollInterval time.Duration
	ctx          context.Context
	cancel       context.CancelFunc
}

// NewWorker creates a new run worker. Scene persistence happens inside
// processor, which holds its own scene repository.
func NewWorker(runRepo *database.RunRepository, broadcaster *services.ProgressBroadcaster, processor runProcessor, pollInterval time.Duration) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		runRepo:      runRepo,
		broadcaster:  broadcaster,
		processor:    processor,
		pollInterval: pollInterval,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start begins polling for queued runs. Blocks until Stop is called.
func (w *Worker) Start() {
	log.Println("run worker started")

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.processNext()

	for {
		select {
		case <-w.ctx.Done():
			log.Println("run worker stopped")
			return
		case <-ticker.C:
			w.processNext()
		}
	}
}

// Stop gracefully stops the worker, cancelling any in-flight run.
func (w *Worker) Stop() {
	log.Println("stopping run worker...")
	w.cancel()
}

func (w *Worker) processNext() {
	run, err := w.runRepo.GetNextPending()
	if err != nil {
		log.Printf("error getting next pending run: %v", err)
		return
	}
	if run == nil {
		return
	}

	log.Printf("processing run %s", run.ID)

	if err := w.runRepo.UpdateProgress(run.ID, models.RunProcessing, "starting", 0); err != nil {
		log.Printf("error marking run %s processing: %v", run.ID, err)
		return
	}
	run.Status = models.RunProcessing
	w.broadcaster.BroadcastFromRun(run, "processing started")

	outputPath, err := w.processor.Process(w.ctx, run)
	if err != nil {
		log.Printf("run %s failed: %v", run.ID, err)
		if err := w.runRepo.Complete(run.ID, "", err.Error()); err != nil {
			log.Printf("error recording run %s failure: %v", run.ID, err)
		}
		run.Status, run.Error = models.RunFailed, err.Error()
		w.broadcaster.BroadcastFromRun(run, "processing failed")
		return
	}

	if err := w.runRepo.Complete(run.ID, outputPath, ""); err != nil {
		log.Printf("error recording run %s completion: %v", run.ID, err)
		return
	}
	run.Status, run.OutputPath, run.Progress = models.RunCompleted, outputPath, 1
	w.broadcaster.BroadcastFromRun(run, "processing completed successfully")
	log.Printf("run %s completed successfully: %s", run.ID, outputPath)
}
