package domain

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

// Feed frame types emitted by the backend.
const (
	TaskCreated = "TASK_CREATED"
	TaskUpdated = "TASK_UPDATED"
)

var (
	errEmptyFrame  = errors.New("empty frame")
	errMissingType = errors.New("frame missing type")
	errMissingTask = errors.New("frame missing payload id")
)

// TaskEvent is a single feed frame: a lifecycle kind plus a full task
// snapshot. Events are transient; they are applied once and discarded.
type TaskEvent struct {
	Type    string `json:"type"`
	Payload Task   `json:"payload"`
}

// ParseTaskEvent decodes a raw feed frame. It returns an error for frames
// that are not JSON, lack a type or payload id, or carry an unknown type;
// callers discard such frames without mutating state.
func ParseTaskEvent(data []byte) (TaskEvent, error) {
	if len(data) == 0 {
		return TaskEvent{}, errEmptyFrame
	}
	var ev TaskEvent
	if err := sonic.ConfigStd.Unmarshal(data, &ev); err != nil {
		return TaskEvent{}, err
	}
	if ev.Type == "" {
		return TaskEvent{}, errMissingType
	}
	if ev.Type != TaskCreated && ev.Type != TaskUpdated {
		return TaskEvent{}, fmt.Errorf("unknown frame type %q", ev.Type)
	}
	if ev.Payload.ID == "" {
		return TaskEvent{}, errMissingTask
	}
	return ev, nil
}
