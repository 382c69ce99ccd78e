package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/biosecret/todolist-api/config"
	"github.com/biosecret/todolist-api/models"
)

// ErrNotFound is returned when an id has no backing record. Malformed ids
// are reported the same way.
var ErrNotFound = errors.New("database: record not found")

// DuplicateKeyError reports a unique constraint violation on Field.
type DuplicateKeyError struct {
	Field string
	Err   error
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("database: duplicate value for %s", e.Field)
}

func (e *DuplicateKeyError) Unwrap() error { return e.Err }

// Store persists users, todo lists and tasks. Multi-record writes (an entity
// plus its owner's back-reference, cascades) are not atomic.
type Store interface {
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	// DeleteUser removes the user, their todo lists and those lists' tasks.
	DeleteUser(ctx context.Context, id string) error

	// CreateTodoList assigns l an id, links it to author on both sides and
	// persists the list and the author's back-reference.
	CreateTodoList(ctx context.Context, author *models.User, l *models.TodoList) error
	// FindTodoList returns the list with its author populated.
	FindTodoList(ctx context.Context, id string) (*models.TodoList, error)
	FindTodoListByAuthor(ctx context.Context, id, authorID string) (*models.TodoList, error)
	// ListTodoLists pages through an author's lists, newest first, and
	// returns the total count for that author.
	ListTodoLists(ctx context.Context, authorID string, limit, offset int) ([]*models.TodoList, int64, error)
	UpdateTodoList(ctx context.Context, l *models.TodoList) error
	// DeleteTodoList removes the list, its tasks and the author's reference.
	DeleteTodoList(ctx context.Context, l *models.TodoList) error

	// CreateTask assigns t an id, links it to list on both sides and
	// persists the task and the list's back-reference.
	CreateTask(ctx context.Context, list *models.TodoList, t *models.Task) error
	FindTask(ctx context.Context, id string) (*models.Task, error)
	ListTasks(ctx context.Context, todoListID string) ([]*models.Task, int64, error)
	UpdateTask(ctx context.Context, t *models.Task) error
	// DeleteTask detaches t from its list and removes it.
	DeleteTask(ctx context.Context, t *models.Task) error

	// Truncate drops every record. Used by the seed command.
	Truncate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Open connects the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "mongo":
		return StartMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case "postgres":
		return StartPostgreSQL(ctx, cfg.PostgresURI)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
