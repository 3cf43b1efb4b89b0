// ABOUTME: Annotation save queue serializes word annotation snapshots per article
// ABOUTME: Sharded worker pool; stale snapshots are dropped in favour of the newest

package workers

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"paperread-app/core/domain"
	"paperread-app/core/interfaces"

	"github.com/cespare/xxhash/v2"
)

// AnnotationSaver stores a full replace-all snapshot of an article's word annotations
type AnnotationSaver interface {
	SaveAnnotations(ctx context.Context, articleID int64, username string, annotations []domain.WordAnnotation) error
}

// SaveJob is one snapshot waiting to be written
type SaveJob struct {
	Username    string
	ArticleID   int64
	Annotations []domain.WordAnnotation
	Generation  uint64
}

func (j *SaveJob) key() string {
	return fmt.Sprintf("%s/%d", j.Username, j.ArticleID)
}

// QueueConfig holds configuration for the save queue
type QueueConfig struct {
	// Workers is the number of shards; jobs for one article always use the same shard
	Workers int
	// QueueSize is the buffer per shard
	QueueSize int
	// SaveTimeout bounds one backend save
	SaveTimeout time.Duration
	// EnqueueTimeout bounds how long Enqueue waits for buffer space
	EnqueueTimeout time.Duration
}

// DefaultQueueConfig returns the default queue configuration
func DefaultQueueConfig() QueueConfig {
	return QueueConfig{
		Workers:        4,
		QueueSize:      64,
		SaveTimeout:    10 * time.Second,
		EnqueueTimeout: 5 * time.Second,
	}
}

// QueueStats counts processed jobs
type QueueStats struct {
	Saved   int64
	Dropped int64
	Failed  int64
}

// SaveQueue writes annotation snapshots in enqueue order per article. Before
// a job is sent, it is dropped if a newer snapshot for the same article has
// been enqueued, since the newer one replaces it entirely.
type SaveQueue struct {
	saver  AnnotationSaver
	logger interfaces.Logger
	config QueueConfig

	shards []chan *SaveJob
	wg     sync.WaitGroup

	// sendMu guards shards against close while Enqueue is sending
	sendMu  sync.RWMutex
	running bool

	mu sync.Mutex
	// issued numbers jobs; latest is the newest generation actually queued
	issued  map[string]uint64
	latest  map[string]uint64
	pending int
	idle    chan struct{}

	saved, dropped, failed atomic.Int64
}

// NewSaveQueue creates a stopped queue
func NewSaveQueue(saver AnnotationSaver, logger interfaces.Logger, config QueueConfig) *SaveQueue {
	def := DefaultQueueConfig()
	if config.Workers <= 0 {
		config.Workers = def.Workers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = def.QueueSize
	}
	if config.SaveTimeout <= 0 {
		config.SaveTimeout = def.SaveTimeout
	}
	if config.EnqueueTimeout <= 0 {
		config.EnqueueTimeout = def.EnqueueTimeout
	}

	idle := make(chan struct{})
	close(idle)

	return &SaveQueue{
		saver:  saver,
		logger: logger,
		config: config,
		issued: make(map[string]uint64),
		latest: make(map[string]uint64),
		idle:   idle,
	}
}

// Start launches the workers
func (q *SaveQueue) Start() error {
	q.sendMu.Lock()
	defer q.sendMu.Unlock()

	if q.running {
		return nil
	}

	q.shards = make([]chan *SaveJob, q.config.Workers)
	for i := range q.shards {
		ch := make(chan *SaveJob, q.config.QueueSize)
		q.shards[i] = ch
		q.wg.Add(1)
		go q.run(ch)
	}
	q.running = true
	return nil
}

// Stop drains queued jobs and stops the workers
func (q *SaveQueue) Stop() error {
	q.sendMu.Lock()
	if !q.running {
		q.sendMu.Unlock()
		return nil
	}
	q.running = false
	for _, ch := range q.shards {
		close(ch)
	}
	q.sendMu.Unlock()

	q.wg.Wait()
	return nil
}

// Enqueue schedules a snapshot and returns its generation
func (q *SaveQueue) Enqueue(username string, articleID int64, annotations []domain.WordAnnotation) (uint64, error) {
	snapshot := make([]domain.WordAnnotation, len(annotations))
	copy(snapshot, annotations)
	job := &SaveJob{Username: username, ArticleID: articleID, Annotations: snapshot}

	q.sendMu.RLock()
	defer q.sendMu.RUnlock()

	if !q.running {
		return 0, ErrWorkerNotRunning
	}

	key := job.key()
	q.mu.Lock()
	q.issued[key]++
	job.Generation = q.issued[key]
	if q.pending == 0 {
		q.idle = make(chan struct{})
	}
	q.pending++
	q.mu.Unlock()

	shard := q.shards[xxhash.Sum64String(key)%uint64(len(q.shards))]
	timer := time.NewTimer(q.config.EnqueueTimeout)
	defer timer.Stop()

	select {
	case shard <- job:
		q.mu.Lock()
		if job.Generation > q.latest[key] {
			q.latest[key] = job.Generation
		}
		q.mu.Unlock()
		return job.Generation, nil
	case <-timer.C:
		// a rejected job never supersedes the ones already queued
		q.done()
		return 0, ErrQueueFull
	}
}

// Flush waits until every enqueued job has been saved or dropped
func (q *SaveQueue) Flush(ctx context.Context) error {
	q.mu.Lock()
	idle := q.idle
	q.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns processed job counts
func (q *SaveQueue) Stats() QueueStats {
	return QueueStats{
		Saved:   q.saved.Load(),
		Dropped: q.dropped.Load(),
		Failed:  q.failed.Load(),
	}
}

func (q *SaveQueue) done() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending--
	if q.pending == 0 {
		close(q.idle)
	}
}

func (q *SaveQueue) stale(job *SaveJob) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return job.Generation < q.latest[job.key()]
}

func (q *SaveQueue) run(jobs <-chan *SaveJob) {
	defer q.wg.Done()
	for job := range jobs {
		q.process(job)
		q.done()
	}
}

func (q *SaveQueue) process(job *SaveJob) {
	fields := map[string]interface{}{
		"article_id": job.ArticleID,
		"username":   job.Username,
		"generation": job.Generation,
	}

	if q.stale(job) {
		q.dropped.Add(1)
		q.logger.Debug("Dropping superseded annotation snapshot", fields)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), q.config.SaveTimeout)
	defer cancel()

	if err := q.saver.SaveAnnotations(ctx, job.ArticleID, job.Username, job.Annotations); err != nil {
		q.failed.Add(1)
		fields["error"] = err.Error()
		q.logger.Error("Failed to save word annotations", fields)
		return
	}
	q.saved.Add(1)
	fields["count"] = len(job.Annotations)
	q.logger.Debug("Saved word annotations", fields)
}

// Error definitions
var (
	ErrWorkerNotRunning = &WorkerError{Message: "save queue is not running"}
	ErrQueueFull        = &WorkerError{Message: "save queue is full"}
)

// WorkerError represents a queue-specific error
type WorkerError struct {
	Message string
}

func (e *WorkerError) Error() string {
	return e.Message
}
