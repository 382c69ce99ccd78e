// Package events publishes todo list and task changes to in-process
// subscribers and to external brokers.
package events

import (
	"context"
	"errors"
	"time"
)

const (
	TodoListCreated = "todolist.created"
	TodoListUpdated = "todolist.updated"
	TodoListDeleted = "todolist.deleted"
	TaskCreated     = "task.created"
	TaskUpdated     = "task.updated"
	TaskDeleted     = "task.deleted"
)

// Event describes a change to a resource owned by UserID.
type Event struct {
	Name       string      `json:"name"`
	UserID     string      `json:"userId"`
	TodoListID string      `json:"todoListId,omitempty"`
	TaskID     string      `json:"taskId,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	OccurredAt time.Time   `json:"occurredAt"`
}

// Entity is the first segment of the event name, "todolist" or "task".
func (e Event) Entity() string {
	for i := 0; i < len(e.Name); i++ {
		if e.Name[i] == '.' {
			return e.Name[:i]
		}
	}
	return e.Name
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Multi publishes every event to all of its publishers.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
