package tasks

import (
	"encoding/json"
	"time"

	"beamhealth/models"

	"github.com/hibiken/asynq"
)

const (
	TypeSendEmail = "email:send"
	EmailQueue    = "default"
)

func NewEmailTask(payload models.EmailPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendEmail, b)
	opts := []asynq.Option{
		asynq.Queue(EmailQueue),
		asynq.MaxRetry(3),
		asynq.Timeout(30 * time.Second),
	}
	if payload.ID != "" {
		opts = append(opts, asynq.TaskID(payload.ID))
	}
	return task, opts, nil
}

// ParseEmailTask decodes a task built by NewEmailTask.
func ParseEmailTask(task *asynq.Task) (models.EmailPayload, error) {
	var p models.EmailPayload
	err := json.Unmarshal(task.Payload(), &p)
	return p, err
}
