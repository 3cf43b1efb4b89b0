package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"paperread-app/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

type savedSnapshot struct {
	username    string
	articleID   int64
	annotations []domain.WordAnnotation
}

// gatedSaver blocks each save until the test releases it when gate is set
type gatedSaver struct {
	mu      sync.Mutex
	saved   []savedSnapshot
	gate    chan struct{}
	started chan struct{}
	err     error
}

func (s *gatedSaver) SaveAnnotations(ctx context.Context, articleID int64, username string, annotations []domain.WordAnnotation) error {
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.gate != nil {
		<-s.gate
	}
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, savedSnapshot{username, articleID, annotations})
	return nil
}

func (s *gatedSaver) snapshots() []savedSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]savedSnapshot(nil), s.saved...)
}

func words(n int) []domain.WordAnnotation {
	out := make([]domain.WordAnnotation, n)
	for i := range out {
		out[i] = domain.WordAnnotation{Word: string(rune('a'+i)) + "x", Color: domain.DefaultAnnotationColor}
	}
	return out
}

func TestSaveQueue_NotRunning(t *testing.T) {
	q := NewSaveQueue(&gatedSaver{}, nopLogger{}, QueueConfig{})

	_, err := q.Enqueue("guest", 1, nil)
	assert.Equal(t, ErrWorkerNotRunning, err)
}

func TestSaveQueue_SavesAndFlushes(t *testing.T) {
	saver := &gatedSaver{}
	q := NewSaveQueue(saver, nopLogger{}, QueueConfig{Workers: 2})
	require.NoError(t, q.Start())
	defer q.Stop()

	gen, err := q.Enqueue("guest", 7, words(2))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), gen)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, q.Flush(ctx))

	snaps := saver.snapshots()
	require.Len(t, snaps, 1)
	assert.Equal(t, int64(7), snaps[0].articleID)
	assert.Equal(t, "guest", snaps[0].username)
	assert.Len(t, snaps[0].annotations, 2)
	assert.Equal(t, int64(1), q.Stats().Saved)
}

func TestSaveQueue_DropsSupersededSnapshots(t *testing.T) {
	saver := &gatedSaver{gate: make(chan struct{}), started: make(chan struct{}, 8)}
	q := NewSaveQueue(saver, nopLogger{}, QueueConfig{Workers: 1})
	require.NoError(t, q.Start())
	defer q.Stop()

	_, err := q.Enqueue("guest", 1, words(1))
	require.NoError(t, err)
	<-saver.started

	// queued behind the in-flight save
	_, _ = q.Enqueue("guest", 1, words(2))
	gen, _ := q.Enqueue("guest", 1, words(3))
	assert.Equal(t, uint64(3), gen)

	close(saver.gate)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, q.Flush(ctx))

	snaps := saver.snapshots()
	require.Len(t, snaps, 2)
	assert.Len(t, snaps[0].annotations, 1)
	assert.Len(t, snaps[1].annotations, 3, "newest snapshot wins")
	assert.Equal(t, QueueStats{Saved: 2, Dropped: 1}, q.Stats())
}

func TestSaveQueue_RejectedSnapshotDoesNotSupersede(t *testing.T) {
	saver := &gatedSaver{gate: make(chan struct{}), started: make(chan struct{}, 8)}
	q := NewSaveQueue(saver, nopLogger{}, QueueConfig{Workers: 1, QueueSize: 1, EnqueueTimeout: 20 * time.Millisecond})
	require.NoError(t, q.Start())
	defer q.Stop()

	_, err := q.Enqueue("guest", 1, words(1))
	require.NoError(t, err)
	<-saver.started

	_, err = q.Enqueue("guest", 1, words(2))
	require.NoError(t, err)
	_, err = q.Enqueue("guest", 1, words(3))
	require.ErrorIs(t, err, ErrQueueFull)

	close(saver.gate)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, q.Flush(ctx))

	snaps := saver.snapshots()
	require.Len(t, snaps, 2)
	assert.Len(t, snaps[1].annotations, 2, "buffered snapshot is still saved")
	assert.Equal(t, QueueStats{Saved: 2}, q.Stats())
}

func TestSaveQueue_GenerationsArePerArticle(t *testing.T) {
	saver := &gatedSaver{}
	q := NewSaveQueue(saver, nopLogger{}, QueueConfig{})
	require.NoError(t, q.Start())
	defer q.Stop()

	a, _ := q.Enqueue("guest", 1, nil)
	b, _ := q.Enqueue("guest", 2, nil)
	c, _ := q.Enqueue("alice", 1, nil)

	assert.Equal(t, uint64(1), a)
	assert.Equal(t, uint64(1), b)
	assert.Equal(t, uint64(1), c)
	require.NoError(t, q.Flush(context.Background()))
	assert.Equal(t, int64(3), q.Stats().Saved)
}

func TestSaveQueue_EnqueueCopiesSnapshot(t *testing.T) {
	saver := &gatedSaver{}
	q := NewSaveQueue(saver, nopLogger{}, QueueConfig{})
	require.NoError(t, q.Start())
	defer q.Stop()

	anns := []domain.WordAnnotation{{Word: "data", Color: "#28a745"}}
	_, _ = q.Enqueue("guest", 1, anns)
	anns[0].Word = "mutated"

	require.NoError(t, q.Flush(context.Background()))
	assert.Equal(t, "data", saver.snapshots()[0].annotations[0].Word)
}

func TestSaveQueue_FailuresAreCounted(t *testing.T) {
	saver := &gatedSaver{err: errors.New("backend down")}
	q := NewSaveQueue(saver, nopLogger{}, QueueConfig{})
	require.NoError(t, q.Start())
	defer q.Stop()

	_, err := q.Enqueue("guest", 1, words(1))
	require.NoError(t, err)
	require.NoError(t, q.Flush(context.Background()))

	assert.Equal(t, int64(1), q.Stats().Failed)
}

func TestSaveQueue_StopDrains(t *testing.T) {
	saver := &gatedSaver{}
	q := NewSaveQueue(saver, nopLogger{}, QueueConfig{})
	require.NoError(t, q.Start())

	for i := int64(1); i <= 5; i++ {
		_, err := q.Enqueue("guest", i, words(1))
		require.NoError(t, err)
	}
	require.NoError(t, q.Stop())
	require.NoError(t, q.Stop())

	assert.Len(t, saver.snapshots(), 5)
	_, err := q.Enqueue("guest", 1, nil)
	assert.Equal(t, ErrWorkerNotRunning, err)
}

func TestSaveQueue_FlushHonoursContext(t *testing.T) {
	saver := &gatedSaver{gate: make(chan struct{})}
	q := NewSaveQueue(saver, nopLogger{}, QueueConfig{})
	require.NoError(t, q.Start())
	defer func() {
		close(saver.gate)
		q.Stop()
	}()

	_, _ = q.Enqueue("guest", 1, words(1))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Flush(ctx), context.DeadlineExceeded)
}
