// Package scheduler runs the background jobs over asynq: the daily offerte
// expiry sweep and the nacalculatie snapshot pass for completed projects.
package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskOfferteVerloop = "offertes.verloop"

const TaskNacalculatieSnapshot = "projecten.nacalculatie"

type NacalculatieSnapshotPayload struct {
	Sinds time.Time `json:"sinds"`
}

func NewOfferteVerloopTask() *asynq.Task {
	return asynq.NewTask(TaskOfferteVerloop, nil)
}

func NewNacalculatieSnapshotTask(payload NacalculatieSnapshotPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNacalculatieSnapshot, data), nil
}

func ParseNacalculatieSnapshotPayload(task *asynq.Task) (NacalculatieSnapshotPayload, error) {
	var payload NacalculatieSnapshotPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return NacalculatieSnapshotPayload{}, err
	}
	return payload, nil
}
