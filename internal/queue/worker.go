package queue

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/youbairia/marketplace/internal/metrics"
)

// JobHandler processes a dequeued job
type JobHandler func(ctx context.Context, job *Job) error

// Worker pulls jobs off registered queues and dispatches them to
// handlers, retrying with backoff on failure
type Worker struct {
	queue    *RedisQueue
	handlers map[string]JobHandler
	stop     chan struct{}
	wg       sync.WaitGroup
}

// NewWorker creates a worker for the given queue
func NewWorker(queue *RedisQueue) *Worker {
	return &Worker{
		queue:    queue,
		handlers: make(map[string]JobHandler),
		stop:     make(chan struct{}),
	}
}

// Register binds a handler to a queue name
func (w *Worker) Register(queueName string, handler JobHandler) {
	w.handlers[queueName] = handler
}

// Start launches one processing goroutine per registered queue
func (w *Worker) Start(ctx context.Context) {
	for queueName := range w.handlers {
		w.wg.Add(1)
		go w.run(ctx, queueName)
	}
}

// Stop signals the worker to finish and waits for goroutines to exit
func (w *Worker) Stop() {
	close(w.stop)
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context, queueName string) {
	defer w.wg.Done()
	handler := w.handlers[queueName]

	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		default:
		}

		job, err := w.queue.Dequeue(ctx, queueName)
		if err != nil {
			log.Printf("worker %s: dequeue error: %v", queueName, err)
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}

		if err := handler(ctx, job); err != nil {
			log.Printf("worker %s: job %s failed: %v", queueName, job.ID, err)
			w.handleFailure(ctx, job)
			continue
		}

		w.queue.Complete(ctx, job)
		metrics.QueueJobsTotal.WithLabelValues(queueName, "completed").Inc()
	}
}

// handleFailure retries a job with exponential backoff until its retry
// budget runs out
func (w *Worker) handleFailure(ctx context.Context, job *Job) {
	if job.RetryCount >= job.MaxRetries {
		w.queue.Fail(ctx, job)
		metrics.QueueJobsTotal.WithLabelValues(job.Queue, "failed").Inc()
		return
	}

	backoff := time.Duration(1<<uint(job.RetryCount)) * time.Minute
	if err := w.queue.Retry(ctx, job, backoff); err != nil {
		log.Printf("worker %s: failed to schedule retry for job %s: %v", job.Queue, job.ID, err)
		w.queue.Fail(ctx, job)
		metrics.QueueJobsTotal.WithLabelValues(job.Queue, "failed").Inc()
		return
	}
	metrics.QueueJobsTotal.WithLabelValues(job.Queue, "retried").Inc()
}
