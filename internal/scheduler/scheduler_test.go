package scheduler

import (
	"context"
	"testing"
	"time"

	"groenportaal_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

type testConfig struct {
	redisURL string
}

func (c testConfig) GetRedisURL() string       { return c.redisURL }
func (c testConfig) GetRedisTLSInsecure() bool { return false }
func (c testConfig) GetAsynqQueueName() string { return "test" }
func (c testConfig) GetAsynqConcurrency() int  { return 1 }

func TestClientEnqueue(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(testConfig{redisURL: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	defer client.Close()

	if err := client.EnqueueOfferteVerloop(context.Background()); err != nil {
		t.Fatalf("enqueue offerte verloop failed: %v", err)
	}
	if err := client.EnqueueNacalculatieSnapshot(context.Background(), time.Now().Add(-48*time.Hour)); err != nil {
		t.Fatalf("enqueue nacalculatie snapshot failed: %v", err)
	}

	// Beide taken staan in de pending lijst van de queue.
	pending, err := mr.List("asynq:{test}:pending")
	if err != nil {
		t.Fatalf("read pending list: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("expected 2 pending tasks, got %d", len(pending))
	}
}

func TestNewClientZonderRedisURL(t *testing.T) {
	if _, err := NewClient(testConfig{}); err == nil {
		t.Error("missing redis url should fail")
	}
}

type fakeVerloper struct {
	aantal int
}

func (f *fakeVerloper) MarkeerVerlopen(_ context.Context) (int, error) {
	f.aantal++
	return 1, nil
}

type fakeSnapshotter struct {
	sinds time.Time
}

func (f *fakeSnapshotter) SnapshotNacalculaties(_ context.Context, sinds time.Time) (int, error) {
	f.sinds = sinds
	return 1, nil
}

func TestHandleOfferteVerloop(t *testing.T) {
	verloper := &fakeVerloper{}
	w := &Worker{offertes: verloper, log: logger.New("test")}

	if err := w.handleOfferteVerloop(context.Background(), NewOfferteVerloopTask()); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if verloper.aantal != 1 {
		t.Errorf("expected one sweep, got %d", verloper.aantal)
	}
}

func TestHandleNacalculatieSnapshot(t *testing.T) {
	snapshotter := &fakeSnapshotter{}
	w := &Worker{projecten: snapshotter, log: logger.New("test")}

	sinds := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	task, err := NewNacalculatieSnapshotTask(NacalculatieSnapshotPayload{Sinds: sinds})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}

	if err := w.handleNacalculatieSnapshot(context.Background(), task); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if !snapshotter.sinds.Equal(sinds) {
		t.Errorf("expected sinds %v, got %v", sinds, snapshotter.sinds)
	}
}

func TestHandleNacalculatieSnapshotOngeldigePayload(t *testing.T) {
	w := &Worker{log: logger.New("test")}

	task := asynq.NewTask(TaskNacalculatieSnapshot, []byte("{"))
	if err := w.handleNacalculatieSnapshot(context.Background(), task); err == nil {
		t.Error("invalid payload should fail")
	}
}
