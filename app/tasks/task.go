package tasks

import (
	"time"

	"github.com/google/uuid"
)

type TaskType string

const (
	TaskTypeSync TaskType = "sync"
)

// Trigger names what started a run.
type Trigger string

const (
	TriggerAPI      Trigger = "api"
	TriggerCLI      Trigger = "cli"
	TriggerSchedule Trigger = "schedule"
)

type Task struct {
	ID        string
	Type      TaskType
	Trigger   Trigger
	StartedAt *time.Time
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}

func NewTask(taskType TaskType, trigger Trigger) Task {
	return Task{
		ID:      uuid.NewString(),
		Type:    taskType,
		Trigger: trigger,
	}
}
