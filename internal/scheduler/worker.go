package scheduler

import (
	"context"
	"fmt"
	"time"

	"groenportaal_backend/platform/config"
	"groenportaal_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// OfferteVerloper marks sent offertes past their validity as expired.
type OfferteVerloper interface {
	MarkeerVerlopen(ctx context.Context) (int, error)
}

// NacalculatieSnapshotter stores variance snapshots for completed projects.
type NacalculatieSnapshotter interface {
	SnapshotNacalculaties(ctx context.Context, sinds time.Time) (int, error)
}

// Worker consumes the background task queue.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	offertes  OfferteVerloper
	projecten NacalculatieSnapshotter
	log       *logger.Logger
}

// NewWorker creates the asynq server and registers the task handlers.
func NewWorker(cfg config.SchedulerConfig, offertes OfferteVerloper, projecten NacalculatieSnapshotter, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		offertes:  offertes,
		projecten: projecten,
		log:       log,
	}

	mux.HandleFunc(TaskOfferteVerloop, w.handleOfferteVerloop)
	mux.HandleFunc(TaskNacalculatieSnapshot, w.handleNacalculatieSnapshot)

	return w, nil
}

// Run serves the queue until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleOfferteVerloop(ctx context.Context, _ *asynq.Task) error {
	aantal, err := w.offertes.MarkeerVerlopen(ctx)
	w.log.JobEvent(TaskOfferteVerloop, err)
	if err != nil {
		return err
	}
	if aantal > 0 {
		w.log.Info("offertes expired", "aantal", aantal)
	}
	return nil
}

func (w *Worker) handleNacalculatieSnapshot(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseNacalculatieSnapshotPayload(task)
	if err != nil {
		return err
	}

	aantal, err := w.projecten.SnapshotNacalculaties(ctx, payload.Sinds)
	w.log.JobEvent(TaskNacalculatieSnapshot, err)
	if err != nil {
		return err
	}
	if aantal > 0 {
		w.log.Info("nacalculaties snapshotted", "aantal", aantal)
	}
	return nil
}
