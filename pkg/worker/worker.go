package worker

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// ErrShutdown is returned by Submit once the worker has been shut down.
var ErrShutdown = errors.New("worker is shut down")

// Task is one source file to import under a pre-assigned book id.
type Task struct {
	BookID     string
	SourcePath string

	ctx  context.Context
	done chan *Result
}

// Result is what processing a task produced. Err is set when any step
// failed; the paths are set for whatever was written before the failure so
// the caller can clean up.
type Result struct {
	BookID        string
	SourcePath    string
	DocumentPath  string
	ThumbnailPath string
	FileSize      int64
	PageCount     int
	Err           error
}

// ProcessFunc does the work for a single task. It must always return a
// non-nil result.
type ProcessFunc func(ctx context.Context, task *Task) *Result

// Worker runs import tasks on a fixed number of goroutines. Results are
// delivered per task, so callers can consume them in submission order while
// the work itself runs in parallel.
type Worker struct {
	processes int
	log       logger.Logger
	process   ProcessFunc

	queue          chan *Task
	shutdown       chan struct{}
	doneProcessing chan struct{}

	started      bool
	startOnce    sync.Once
	shutdownOnce sync.Once
}

func New(processes int, fn ProcessFunc) *Worker {
	if processes < 1 {
		processes = 1
	}
	return &Worker{
		processes: processes,
		log:       logger.New(),
		process:   fn,

		queue:          make(chan *Task, processes),
		shutdown:       make(chan struct{}),
		doneProcessing: make(chan struct{}, processes),
	}
}

func (w *Worker) Start() {
	w.startOnce.Do(func() {
		w.started = true
		for i := 0; i < w.processes; i++ {
			go w.processTasks()
		}
	})
}

// Submit queues a task. It blocks while every process is busy and the queue
// is full.
func (w *Worker) Submit(ctx context.Context, bookID, sourcePath string) (*Task, error) {
	task := &Task{
		BookID:     bookID,
		SourcePath: sourcePath,
		ctx:        ctx,
		done:       make(chan *Result, 1),
	}

	select {
	case <-w.shutdown:
		return nil, ErrShutdown
	default:
	}

	select {
	case <-w.shutdown:
		return nil, ErrShutdown
	case <-ctx.Done():
		return nil, errors.WithStack(ctx.Err())
	case w.queue <- task:
		return task, nil
	}
}

// Wait blocks until the task has been processed.
func (t *Task) Wait() *Result {
	return <-t.done
}

func (w *Worker) processTasks() {
	for {
		select {
		case <-w.shutdown:
			w.doneProcessing <- struct{}{}
			return
		case task := <-w.queue:
			task.done <- w.run(task)
		}
	}
}

func (w *Worker) run(task *Task) (result *Result) {
	id, err := uuid.NewRandom()
	if err != nil {
		w.log.Err(err).Error("new uuid error")
		return &Result{BookID: task.BookID, SourcePath: task.SourcePath, Err: errors.WithStack(err)}
	}
	log := logger.FromContext(task.ctx).ID(id.String()).Data(logger.Data{"book_id": task.BookID, "source": task.SourcePath})
	ctx := log.WithContext(task.ctx)

	defer func() {
		if r := recover(); r != nil {
			err := errors.Errorf("panic while importing: %v", r)
			log.Err(err).Error("import task panicked")
			result = &Result{BookID: task.BookID, SourcePath: task.SourcePath, Err: err}
		}
	}()

	if err := ctx.Err(); err != nil {
		return &Result{BookID: task.BookID, SourcePath: task.SourcePath, Err: errors.WithStack(err)}
	}

	result = w.process(ctx, task)
	if result == nil {
		result = &Result{Err: errors.New("import produced no result")}
	}
	result.BookID = task.BookID
	result.SourcePath = task.SourcePath
	return result
}

// Shutdown stops the processes after their current task. Tasks still queued
// are not processed; nothing waits on them once their submitter is gone.
func (w *Worker) Shutdown() {
	w.shutdownOnce.Do(func() {
		close(w.shutdown)
		// Stops a later Start from launching processes.
		w.startOnce.Do(func() {})
		if !w.started {
			return
		}
		for i := 0; i < w.processes; i++ {
			<-w.doneProcessing
		}
	})
}
