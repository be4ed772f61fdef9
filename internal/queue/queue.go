package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	// QueuePayoutStatusCheck holds rail status checks for payouts that
	// did not settle on the first attempt
	QueuePayoutStatusCheck = "payout_status_check"

	// DefaultRetryCount is the retry budget for a job
	DefaultRetryCount = 3
	// DefaultTTL is how long job detail records are kept
	DefaultTTL = 24 * time.Hour
)

// JobStatus represents the lifecycle state of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Job represents a background job
type Job struct {
	ID         string          `json:"id"`
	Queue      string          `json:"queue"`
	Payload    json.RawMessage `json:"payload"`
	Status     JobStatus       `json:"status"`
	RetryCount int             `json:"retry_count"`
	MaxRetries int             `json:"max_retries"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	RunAt      time.Time       `json:"run_at"`
}

// RedisQueue is a Redis-backed job queue with delayed delivery
type RedisQueue struct {
	client *redis.Client
}

// NewRedisQueue creates a new Redis queue
func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client}
}

// EnqueueOption customizes a job before it is enqueued
type EnqueueOption func(*Job)

// WithMaxRetries sets the retry budget for a job
func WithMaxRetries(maxRetries int) EnqueueOption {
	return func(j *Job) {
		j.MaxRetries = maxRetries
	}
}

func newJob(queueName string, payload interface{}, runAt time.Time, opts ...EnqueueOption) (*Job, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	job := &Job{
		ID:         uuid.New().String(),
		Queue:      queueName,
		Payload:    payloadBytes,
		Status:     JobStatusPending,
		MaxRetries: DefaultRetryCount,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
		RunAt:      runAt,
	}
	for _, opt := range opts {
		opt(job)
	}
	return job, nil
}

// Enqueue adds a job to the queue for immediate processing
func (q *RedisQueue) Enqueue(ctx context.Context, queueName string, payload interface{}, opts ...EnqueueOption) (string, error) {
	job, err := newJob(queueName, payload, time.Now(), opts...)
	if err != nil {
		return "", err
	}

	jobBytes, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to marshal job: %w", err)
	}

	if err := q.client.LPush(ctx, queueName, jobBytes).Err(); err != nil {
		return "", fmt.Errorf("failed to push job to queue: %w", err)
	}

	q.storeJobDetails(ctx, job.ID, jobBytes)
	return job.ID, nil
}

// EnqueueIn adds a job to the queue after a delay
func (q *RedisQueue) EnqueueIn(ctx context.Context, queueName string, payload interface{}, delay time.Duration, opts ...EnqueueOption) (string, error) {
	runAt := time.Now().Add(delay)
	job, err := newJob(queueName, payload, runAt, opts...)
	if err != nil {
		return "", err
	}

	jobBytes, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to marshal job: %w", err)
	}

	err = q.client.ZAdd(ctx, "delayed:"+queueName, &redis.Z{
		Score:  float64(runAt.Unix()),
		Member: jobBytes,
	}).Err()
	if err != nil {
		return "", fmt.Errorf("failed to add job to delayed queue: %w", err)
	}

	q.storeJobDetails(ctx, job.ID, jobBytes)
	return job.ID, nil
}

// Dequeue gets one job from the queue, waiting briefly when it is empty.
// Returns nil when no job is available.
func (q *RedisQueue) Dequeue(ctx context.Context, queueName string) (*Job, error) {
	q.moveReadyDelayedJobs(ctx, queueName)

	result := q.client.BRPop(ctx, 1*time.Second, queueName)
	if result.Err() != nil {
		if result.Err() == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop job from queue: %w", result.Err())
	}

	if len(result.Val()) < 2 {
		return nil, fmt.Errorf("unexpected result format from BRPOP")
	}

	var job Job
	if err := json.Unmarshal([]byte(result.Val()[1]), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}

	job.Status = JobStatusProcessing
	job.UpdatedAt = time.Now()
	q.updateJobDetails(ctx, &job)

	return &job, nil
}

// Complete marks a job as finished
func (q *RedisQueue) Complete(ctx context.Context, job *Job) {
	job.Status = JobStatusCompleted
	job.UpdatedAt = time.Now()
	q.updateJobDetails(ctx, job)
}

// Fail marks a job as failed
func (q *RedisQueue) Fail(ctx context.Context, job *Job) {
	job.Status = JobStatusFailed
	job.UpdatedAt = time.Now()
	q.updateJobDetails(ctx, job)
}

// Retry re-enqueues a job after a delay, consuming one retry
func (q *RedisQueue) Retry(ctx context.Context, job *Job, delay time.Duration) error {
	job.RetryCount++
	job.Status = JobStatusPending
	job.UpdatedAt = time.Now()
	job.RunAt = time.Now().Add(delay)

	jobBytes, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	err = q.client.ZAdd(ctx, "delayed:"+job.Queue, &redis.Z{
		Score:  float64(job.RunAt.Unix()),
		Member: jobBytes,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to re-enqueue job: %w", err)
	}

	q.storeJobDetails(ctx, job.ID, jobBytes)
	return nil
}

// moveReadyDelayedJobs moves due delayed jobs onto the main queue
func (q *RedisQueue) moveReadyDelayedJobs(ctx context.Context, queueName string) {
	now := time.Now().Unix()
	delayedKey := "delayed:" + queueName

	jobs, err := q.client.ZRangeByScore(ctx, delayedKey, &redis.ZRangeBy{
		Min: "0",
		Max: fmt.Sprintf("%d", now),
	}).Result()
	if err != nil {
		log.Printf("queue %s: error reading delayed jobs: %v", queueName, err)
		return
	}

	for _, jobBytes := range jobs {
		if err := q.client.LPush(ctx, queueName, jobBytes).Err(); err != nil {
			log.Printf("queue %s: failed to promote delayed job: %v", queueName, err)
			continue
		}
		q.client.ZRem(ctx, delayedKey, jobBytes)
	}
}

func (q *RedisQueue) storeJobDetails(ctx context.Context, jobID string, jobBytes []byte) {
	if err := q.client.HSet(ctx, "jobs:"+jobID, "data", jobBytes).Err(); err != nil {
		log.Printf("warning: failed to store job details for %s: %v", jobID, err)
		return
	}
	if err := q.client.Expire(ctx, "jobs:"+jobID, DefaultTTL).Err(); err != nil {
		log.Printf("warning: failed to set TTL on job %s: %v", jobID, err)
	}
}

func (q *RedisQueue) updateJobDetails(ctx context.Context, job *Job) {
	jobBytes, err := json.Marshal(job)
	if err != nil {
		return
	}
	q.storeJobDetails(ctx, job.ID, jobBytes)
}
