package database

import (
	"context"
	"fmt"
	"time"

	"github.com/biosecret/todolist-api/models"
)

// SeedPassword is the password of every demo user.
const SeedPassword = "demodemo"

var (
	seedUsers = []struct{ FullName, Email string }{
		{"Demo Demo", "demo@demo.com"},
		{"Second Demo Demo", "second@demo.com"},
		{"Third Demo Demo", "third@demo.com"},
	}
	seedTodoLists = []struct{ Name, Description string }{
		{"Work projects", "My work tasks."},
		{"Home projects", "My home tasks."},
		{"Other projects", "Other tasks."},
	}
	seedTasks = []string{"Blue print draft 1", "Blue print draft 2", "Blue print draft 3"}
)

// SeedReport counts what Seed created.
type SeedReport struct {
	Users     int
	TodoLists int
	Tasks     int
}

// Seed wipes the store and loads demo data: three users with three lists
// each. The i-th user's i-th list gets three tasks.
func Seed(ctx context.Context, store Store) (*SeedReport, error) {
	if err := store.Truncate(ctx); err != nil {
		return nil, fmt.Errorf("truncate: %w", err)
	}

	report := &SeedReport{}
	for i, su := range seedUsers {
		user := &models.User{FullName: su.FullName, Email: su.Email}
		if err := user.SetPassword(SeedPassword); err != nil {
			return nil, err
		}
		if err := store.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("create user %s: %w", su.Email, err)
		}
		report.Users++

		for j, sl := range seedTodoLists {
			name, description := sl.Name, sl.Description
			list := models.NewTodoList(models.TodoListPatch{Name: &name, Description: &description})
			if err := store.CreateTodoList(ctx, user, list); err != nil {
				return nil, fmt.Errorf("create todo list %q: %w", name, err)
			}
			report.TodoLists++

			if i != j {
				continue
			}
			for _, taskName := range seedTasks {
				taskName := taskName
				task := models.NewTask(models.TaskPatch{Name: &taskName, Description: &taskName}, time.Now())
				if err := store.CreateTask(ctx, list, task); err != nil {
					return nil, fmt.Errorf("create task %q: %w", taskName, err)
				}
				report.Tasks++
			}
		}
	}
	return report, nil
}
