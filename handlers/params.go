package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/todolist-api/database"
	"github.com/biosecret/todolist-api/models"
)

const (
	todoListKey = "todoList"
	taskKey     = "task"
)

// ResolveTodoList loads the list named by the :id parameter, with its author.
// A missing list is left for the route handler to report.
func (h *Handler) ResolveTodoList(c *fiber.Ctx) error {
	list, err := h.store.FindTodoList(c.UserContext(), c.Params("id"))
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return err
	}
	c.Locals(todoListKey, list)
	return c.Next()
}

// ResolveTask loads the task named by the :taskId parameter.
func (h *Handler) ResolveTask(c *fiber.Ctx) error {
	task, err := h.store.FindTask(c.UserContext(), c.Params("taskId"))
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return err
	}
	c.Locals(taskKey, task)
	return c.Next()
}

func todoListFrom(c *fiber.Ctx) *models.TodoList {
	list, _ := c.Locals(todoListKey).(*models.TodoList)
	return list
}

func taskFrom(c *fiber.Ctx) *models.Task {
	task, _ := c.Locals(taskKey).(*models.Task)
	return task
}
