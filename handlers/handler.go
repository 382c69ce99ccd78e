package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/biosecret/todolist-api/auth"
	"github.com/biosecret/todolist-api/database"
	"github.com/biosecret/todolist-api/events"
	"github.com/biosecret/todolist-api/middleware"
	"github.com/biosecret/todolist-api/models"
)

// DefaultPageLimit is used when a list request has no usable limit.
const DefaultPageLimit = 20

type Config struct {
	Store  database.Store
	Tokens *auth.Issuer
	// Events receives every todo list and task change. It should include Bus.
	Events events.Publisher
	// Bus feeds the server-sent events stream.
	Bus       *events.Bus
	PageLimit int
}

// Handler serves the REST API on top of a Store.
type Handler struct {
	store     database.Store
	tokens    *auth.Issuer
	events    events.Publisher
	bus       *events.Bus
	pageLimit int
	now       func() time.Time
}

func New(cfg Config) *Handler {
	h := &Handler{
		store:     cfg.Store,
		tokens:    cfg.Tokens,
		events:    cfg.Events,
		bus:       cfg.Bus,
		pageLimit: cfg.PageLimit,
		now:       func() time.Time { return time.Now().UTC() },
	}
	if h.bus == nil {
		h.bus = events.NewBus()
	}
	if h.events == nil {
		h.events = h.bus
	}
	if h.pageLimit <= 0 {
		h.pageLimit = DefaultPageLimit
	}
	return h
}

// currentUser loads the record of the authenticated caller. A caller whose
// record no longer exists gets 403.
func (h *Handler) currentUser(c *fiber.Ctx) (*models.User, error) {
	uid := middleware.UserID(c)
	if uid == "" {
		return nil, fiber.ErrForbidden
	}
	user, err := h.store.FindUserByID(c.UserContext(), uid)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fiber.ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (h *Handler) publish(ctx context.Context, name string, userID string, list *models.TodoList, task *models.Task) {
	event := events.Event{Name: name, UserID: userID, OccurredAt: h.now()}
	if list != nil {
		event.TodoListID = list.ID
		event.Data = list.View()
	}
	if task != nil {
		event.TaskID = task.ID
		event.Data = task.View()
	}
	if err := h.events.Publish(ctx, event); err != nil {
		log.Warnf("publish %s: %v", name, err)
	}
}

// bindBody checks the raw body against schema and decodes it into dst. An
// empty body leaves dst untouched.
func bindBody(c *fiber.Ctx, schema *jsonschema.Schema, dst interface{}) error {
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed JSON body")
	}
	if err := models.CheckSchema(schema, doc); err != nil {
		return err
	}
	if err := c.App().Config().JSONDecoder(body, dst); err != nil {
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			return ve
		}
		return fiber.NewError(fiber.StatusBadRequest, "Malformed JSON body")
	}
	return nil
}
