package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/valyala/fasthttp"

	"github.com/biosecret/todolist-api/events"
	"github.com/biosecret/todolist-api/middleware"
)

const (
	keepAliveInterval = 15 * time.Second
	keepAliveMsg      = ":keepalive\n\n"
	retryMillis       = 15000
)

func formatSSEMessage(event events.Event) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", err
	}

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("event: %s\n", event.Name))
	sb.WriteString(fmt.Sprintf("data: %s\n\n", data))
	return sb.String(), nil
}

// StreamEvents godoc
// @Summary      Stream the caller's todo list and task changes
// @Description  Server-sent events. Each message is named after the change, e.g. task.created.
// @Tags         events
// @Produce      text/event-stream
// @Success      200
// @Failure      401  {object}  middleware.ErrorEnvelope
// @Security     Token
// @Router       /events [get]
func (h *Handler) StreamEvents(c *fiber.Ctx) error {
	uid := middleware.UserID(c)
	if uid == "" {
		return fiber.ErrForbidden
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	stream, cancel := h.bus.Subscribe(uid)
	log.Debugf("events: stream opened for %s", uid)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		keepAlive := time.NewTicker(keepAliveInterval)
		defer func() {
			keepAlive.Stop()
			cancel()
			log.Debugf("events: stream closed for %s", uid)
		}()

		fmt.Fprintf(w, "retry: %d\n\n", retryMillis)
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case event, ok := <-stream:
				if !ok {
					return
				}
				msg, err := formatSSEMessage(event)
				if err != nil {
					log.Errorf("events: format %s: %v", event.Name, err)
					continue
				}
				if _, err := w.WriteString(msg); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-keepAlive.C:
				if _, err := w.WriteString(keepAliveMsg); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}
