package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/todolist-api/events"
	"github.com/biosecret/todolist-api/middleware"
	"github.com/biosecret/todolist-api/models"
)

// ListTasks godoc
// @Summary      List the tasks of a todo list
// @Tags         tasks
// @Produce      json
// @Param        id  path  string  true  "todo list id"
// @Success      200  {object}  tasksResponse
// @Failure      403
// @Failure      404  {object}  middleware.ErrorEnvelope
// @Security     Token
// @Router       /todolists/{id}/tasks [get]
func (h *Handler) ListTasks(c *fiber.Ctx) error {
	list := todoListFrom(c)
	if list == nil {
		return fiber.ErrNotFound
	}
	if !list.OwnedBy(middleware.UserID(c)) {
		return fiber.ErrForbidden
	}

	tasks, count, err := h.store.ListTasks(c.UserContext(), list.ID)
	if err != nil {
		return err
	}

	views := make([]models.TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, t.View())
	}
	return c.JSON(tasksResponse{TodoList: list.View(), Tasks: views, Count: count})
}

// CreateTask godoc
// @Summary      Add a task to a todo list
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path  string       true  "todo list id"
// @Param        body  body  taskRequest  true  "task"
// @Success      200  {object}  taskResponse
// @Failure      403
// @Failure      404  {object}  middleware.ErrorEnvelope
// @Failure      422  {object}  middleware.ErrorEnvelope
// @Security     Token
// @Router       /todolists/{id}/tasks [post]
func (h *Handler) CreateTask(c *fiber.Ctx) error {
	list := todoListFrom(c)
	if list == nil {
		return fiber.ErrNotFound
	}
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}
	if !list.OwnedBy(user.ID) {
		return fiber.ErrForbidden
	}

	var req taskRequest
	if err := bindBody(c, models.TaskSchema, &req); err != nil {
		return err
	}

	task := models.NewTask(req.Task, h.now())
	if err := task.Validate(); err != nil {
		return err
	}
	if err := h.store.CreateTask(c.UserContext(), list, task); err != nil {
		return err
	}

	h.publish(c.UserContext(), events.TaskCreated, user.ID, list, task)
	return c.JSON(taskResponse{Status: "created", Task: task.View()})
}

// ownedTask resolves the list and task of a nested task route and checks that
// the task belongs to the list and the list to the caller.
func ownedTask(c *fiber.Ctx) (*models.TodoList, *models.Task, error) {
	uid := middleware.UserID(c)
	if uid == "" {
		return nil, nil, fiber.ErrForbidden
	}

	list, task := todoListFrom(c), taskFrom(c)
	if list == nil || task == nil {
		return nil, nil, fiber.ErrNotFound
	}
	if task.TodoListID != list.ID || !list.OwnedBy(uid) {
		return nil, nil, fiber.ErrForbidden
	}
	return list, task, nil
}

// GetTask godoc
// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Param        id      path  string  true  "todo list id"
// @Param        taskId  path  string  true  "task id"
// @Success      200  {object}  taskResponse
// @Failure      403
// @Failure      404  {object}  middleware.ErrorEnvelope
// @Security     Token
// @Router       /todolists/{id}/tasks/{taskId} [get]
func (h *Handler) GetTask(c *fiber.Ctx) error {
	_, task, err := ownedTask(c)
	if err != nil {
		return err
	}
	return c.JSON(taskResponse{Task: task.View()})
}

// UpdateTask godoc
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id      path  string       true  "todo list id"
// @Param        taskId  path  string       true  "task id"
// @Param        body    body  taskRequest  true  "fields to change"
// @Success      200  {object}  taskResponse
// @Failure      403
// @Failure      404  {object}  middleware.ErrorEnvelope
// @Security     Token
// @Router       /todolists/{id}/tasks/{taskId} [put]
func (h *Handler) UpdateTask(c *fiber.Ctx) error {
	list, task, err := ownedTask(c)
	if err != nil {
		return err
	}

	var req taskRequest
	if err := bindBody(c, models.TaskSchema, &req); err != nil {
		return err
	}

	task.Apply(req.Task)
	if err := task.Validate(); err != nil {
		return err
	}
	if err := h.store.UpdateTask(c.UserContext(), task); err != nil {
		return err
	}

	h.publish(c.UserContext(), events.TaskUpdated, list.AuthorID, list, task)
	return c.JSON(taskResponse{Status: "updated", Task: task.View()})
}

// DeleteTask godoc
// @Summary      Delete a task
// @Tags         tasks
// @Param        id      path  string  true  "todo list id"
// @Param        taskId  path  string  true  "task id"
// @Success      204
// @Failure      403
// @Failure      404  {object}  middleware.ErrorEnvelope
// @Security     Token
// @Router       /todolists/{id}/tasks/{taskId} [delete]
func (h *Handler) DeleteTask(c *fiber.Ctx) error {
	list, task, err := ownedTask(c)
	if err != nil {
		return err
	}

	if err := h.store.DeleteTask(c.UserContext(), task); err != nil {
		return err
	}

	h.publish(c.UserContext(), events.TaskDeleted, list.AuthorID, list, task)
	return c.SendStatus(fiber.StatusNoContent)
}
