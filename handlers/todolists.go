package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/todolist-api/database"
	"github.com/biosecret/todolist-api/events"
	"github.com/biosecret/todolist-api/middleware"
	"github.com/biosecret/todolist-api/models"
)

// ListTodoLists godoc
// @Summary      List the caller's todo lists
// @Tags         todolists
// @Produce      json
// @Param        limit   query  int  false  "page size"  default(20)
// @Param        offset  query  int  false  "page start" default(0)
// @Success      200  {object}  todoListsResponse
// @Failure      401  {object}  middleware.ErrorEnvelope
// @Security     Token
// @Router       /todolists [get]
func (h *Handler) ListTodoLists(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	limit := c.QueryInt("limit", h.pageLimit)
	if limit <= 0 {
		limit = h.pageLimit
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	lists, count, err := h.store.ListTodoLists(c.UserContext(), user.ID, limit, offset)
	if err != nil {
		return err
	}

	views := make([]models.TodoListView, 0, len(lists))
	for _, l := range lists {
		views = append(views, l.View())
	}
	return c.JSON(todoListsResponse{TodoLists: views, Count: count, Limit: limit, Offset: offset})
}

// CreateTodoList godoc
// @Summary      Create a todo list
// @Tags         todolists
// @Accept       json
// @Produce      json
// @Param        body  body  todoListRequest  true  "todo list"
// @Success      200  {object}  todoListResponse
// @Failure      422  {object}  middleware.ErrorEnvelope
// @Security     Token
// @Router       /todolists [post]
func (h *Handler) CreateTodoList(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	var req todoListRequest
	if err := bindBody(c, models.TodoListSchema, &req); err != nil {
		return err
	}

	list := models.NewTodoList(req.TodoList)
	if err := list.Validate(); err != nil {
		return err
	}
	if err := h.store.CreateTodoList(c.UserContext(), user, list); err != nil {
		return err
	}

	h.publish(c.UserContext(), events.TodoListCreated, user.ID, list, nil)
	return c.JSON(todoListResponse{Status: "created", TodoList: list.View()})
}

// GetTodoList godoc
// @Summary      Get one of the caller's todo lists
// @Tags         todolists
// @Produce      json
// @Param        id  path  string  true  "todo list id"
// @Success      200  {object}  todoListResponse
// @Failure      404  {object}  middleware.ErrorEnvelope
// @Security     Token
// @Router       /todolists/{id} [get]
func (h *Handler) GetTodoList(c *fiber.Ctx) error {
	list := todoListFrom(c)
	if list == nil {
		return fiber.ErrNotFound
	}

	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	owned, err := h.store.FindTodoListByAuthor(c.UserContext(), list.ID, user.ID)
	if errors.Is(err, database.ErrNotFound) {
		return fiber.ErrNotFound
	}
	if err != nil {
		return err
	}
	return c.JSON(todoListResponse{TodoList: owned.View()})
}

// UpdateTodoList godoc
// @Summary      Update the name or description of a todo list
// @Tags         todolists
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "todo list id"
// @Param        body  body  todoListRequest  true  "fields to change"
// @Success      200  {object}  todoListResponse
// @Failure      403
// @Failure      404  {object}  middleware.ErrorEnvelope
// @Security     Token
// @Router       /todolists/{id} [put]
func (h *Handler) UpdateTodoList(c *fiber.Ctx) error {
	list := todoListFrom(c)
	if list == nil {
		return fiber.ErrNotFound
	}
	uid := middleware.UserID(c)
	if !list.OwnedBy(uid) {
		return fiber.ErrForbidden
	}

	var req todoListRequest
	if err := bindBody(c, models.TodoListSchema, &req); err != nil {
		return err
	}

	list.Apply(req.TodoList)
	if err := list.Validate(); err != nil {
		return err
	}
	if err := h.store.UpdateTodoList(c.UserContext(), list); err != nil {
		return err
	}

	h.publish(c.UserContext(), events.TodoListUpdated, uid, list, nil)
	return c.JSON(todoListResponse{Status: "updated", TodoList: list.View()})
}

// DeleteTodoList godoc
// @Summary      Delete a todo list and its tasks
// @Tags         todolists
// @Param        id  path  string  true  "todo list id"
// @Success      204
// @Failure      403
// @Failure      404  {object}  middleware.ErrorEnvelope
// @Security     Token
// @Router       /todolists/{id} [delete]
func (h *Handler) DeleteTodoList(c *fiber.Ctx) error {
	list := todoListFrom(c)
	if list == nil {
		return fiber.ErrNotFound
	}
	uid := middleware.UserID(c)
	if !list.OwnedBy(uid) {
		return fiber.ErrForbidden
	}

	if err := h.store.DeleteTodoList(c.UserContext(), list); err != nil {
		return err
	}

	h.publish(c.UserContext(), events.TodoListDeleted, uid, list, nil)
	return c.SendStatus(fiber.StatusNoContent)
}
