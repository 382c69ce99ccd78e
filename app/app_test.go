package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biosecret/todolist-api/config"
	"github.com/biosecret/todolist-api/database"
	"github.com/biosecret/todolist-api/events"
	"github.com/biosecret/todolist-api/middleware"
	"github.com/biosecret/todolist-api/models"
)

type testServer struct {
	t     *testing.T
	app   *fiber.App
	store *database.MemoryStore
	bus   *events.Bus
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := config.Default()
	cfg.Env = config.EnvTest
	cfg.JWTSecret = "test-secret"
	cfg.Store.Driver = "memory"

	store := database.NewMemoryStore()
	bus := events.NewBus()
	t.Cleanup(func() { bus.Close() })

	return &testServer{
		t:     t,
		app:   NewServer(cfg, Services{Store: store, Events: bus, Bus: bus}),
		store: store,
		bus:   bus,
	}
}

// do sends body (a raw string or a value to encode) and returns the status
// and raw response body.
func (s *testServer) do(method, path, token string, body interface{}) (int, []byte) {
	s.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Token "+token)
	}

	res, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	require.NoError(s.t, err)
	return res.StatusCode, data
}

// json is like do and decodes the response into out.
func (s *testServer) json(method, path, token string, body, out interface{}) int {
	s.t.Helper()
	status, data := s.do(method, path, token, body)
	if out != nil && len(data) > 0 {
		require.NoError(s.t, json.Unmarshal(data, out), string(data))
	}
	return status
}

type userBody struct {
	Status string             `json:"status"`
	User   models.AuthPayload `json:"user"`
}

type todoListBody struct {
	Status   string              `json:"status"`
	TodoList models.TodoListView `json:"todoList"`
}

type todoListsBody struct {
	TodoLists []models.TodoListView `json:"todoLists"`
	Count     int64                 `json:"count"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
}

type taskBody struct {
	Status string          `json:"status"`
	Task   models.TaskView `json:"task"`
}

type tasksBody struct {
	TodoList models.TodoListView `json:"todoList"`
	Tasks    []models.TaskView   `json:"tasks"`
	Count    int64               `json:"count"`
}

func userPayload(fullName, email, password string) map[string]interface{} {
	return map[string]interface{}{"user": map[string]interface{}{
		"fullname": fullName, "email": email, "password": password,
	}}
}

func todoListPayload(fields map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"todoList": fields}
}

func taskPayload(fields map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"task": fields}
}

func (s *testServer) register(fullName, email string) models.AuthPayload {
	s.t.Helper()
	var out userBody
	status := s.json(fiber.MethodPost, "/api/v1/users", "", userPayload(fullName, email, "demodemo"), &out)
	require.Equal(s.t, fiber.StatusOK, status)
	require.NotEmpty(s.t, out.User.Token)
	return out.User
}

func (s *testServer) createTodoList(token, name, description string) models.TodoListView {
	s.t.Helper()
	var out todoListBody
	status := s.json(fiber.MethodPost, "/api/v1/todolists", token,
		todoListPayload(map[string]interface{}{"name": name, "description": description}), &out)
	require.Equal(s.t, fiber.StatusOK, status)
	require.Equal(s.t, "created", out.Status)
	return out.TodoList
}

func (s *testServer) createTask(token, listID, name string) models.TaskView {
	s.t.Helper()
	var out taskBody
	status := s.json(fiber.MethodPost, "/api/v1/todolists/"+listID+"/tasks", token,
		taskPayload(map[string]interface{}{"name": name}), &out)
	require.Equal(s.t, fiber.StatusOK, status)
	require.Equal(s.t, "created", out.Status)
	return out.Task
}

func decodeEnvelope(t *testing.T, data []byte) middleware.ErrorEnvelope {
	t.Helper()
	var env middleware.ErrorEnvelope
	require.NoError(t, json.Unmarshal(data, &env), string(data))
	return env
}

func TestDemoScenario(t *testing.T) {
	s := newTestServer(t)

	var registered userBody
	status := s.json(fiber.MethodPost, "/api/v1/users", "",
		userPayload("Demo Demo", "demo@demo.com", "demodemo"), &registered)
	require.Equal(t, fiber.StatusOK, status)
	require.NotEmpty(t, registered.User.Token)
	require.Equal(t, "Demo Demo", registered.User.FullName)
	require.Equal(t, "demo@demo.com", registered.User.Email)

	token := registered.User.Token
	var created todoListBody
	status = s.json(fiber.MethodPost, "/api/v1/todolists", token,
		todoListPayload(map[string]interface{}{"name": "Work", "description": ""}), &created)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "created", created.Status)
	require.Equal(t, "Work", created.TodoList.Name)
	require.Equal(t, registered.User.ID, created.TodoList.Author.ID)

	path := "/api/v1/todolists/" + created.TodoList.ID
	status, _ = s.do(fiber.MethodDelete, path, token, nil)
	require.Equal(t, fiber.StatusNoContent, status)

	status, body := s.do(fiber.MethodGet, path, token, nil)
	require.Equal(t, fiber.StatusNotFound, status)
	require.Equal(t, middleware.NotFoundEnvelope, decodeEnvelope(t, body))
}

func TestRegister(t *testing.T) {
	s := newTestServer(t)
	s.register("Demo Demo", "demo@demo.com")

	tests := []struct {
		name   string
		body   interface{}
		errors map[string]string
	}{
		{
			name: "no user",
			body: map[string]interface{}{},
			errors: map[string]string{
				"fullname": models.MsgBlank, "email": models.MsgBlank, "password": models.MsgBlank,
			},
		},
		{
			name:   "blank password",
			body:   userPayload("Other", "other@demo.com", ""),
			errors: map[string]string{"password": models.MsgBlank},
		},
		{
			name:   "malformed email",
			body:   userPayload("Other", "not-an-email", "secret"),
			errors: map[string]string{"email": models.MsgInvalid},
		},
		{
			name:   "duplicate email",
			body:   userPayload("Other", "demo@demo.com", "secret"),
			errors: map[string]string{"email": models.MsgTaken},
		},
		{
			name:   "duplicate email in another case",
			body:   userPayload("Other", "Demo@Demo.com", "secret"),
			errors: map[string]string{"email": models.MsgTaken},
		},
		{
			name: "duplicate email with other failures",
			body: userPayload("", "demo@demo.com", ""),
			errors: map[string]string{
				"fullname": models.MsgBlank, "email": models.MsgTaken, "password": models.MsgBlank,
			},
		},
		{
			name:   "wrong type",
			body:   `{"user":{"fullname":1,"email":"x@y.z","password":"p"}}`,
			errors: map[string]string{"fullname": models.MsgInvalid},
		},
		{
			name: "wrong type with other failures",
			body: `{"user":{"fullname":"","email":"demo@demo.com","password":7}}`,
			errors: map[string]string{
				"fullname": models.MsgBlank, "email": models.MsgTaken, "password": models.MsgInvalid,
			},
		},
		{
			name: "null user",
			body: `{"user":null}`,
			errors: map[string]string{
				"fullname": models.MsgBlank, "email": models.MsgBlank, "password": models.MsgBlank,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := s.do(fiber.MethodPost, "/api/v1/users", "", tt.body)
			require.Equal(t, fiber.StatusUnprocessableEntity, status)

			env := decodeEnvelope(t, body)
			require.Equal(t, fiber.StatusUnprocessableEntity, env.Status)
			require.Equal(t, "error", env.StatusMessage)
			require.Equal(t, tt.errors, env.Errors)
		})
	}

	t.Run("malformed JSON", func(t *testing.T) {
		status, _ := s.do(fiber.MethodPost, "/api/v1/users", "", `{"user":`)
		require.Equal(t, fiber.StatusBadRequest, status)
	})
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	registered := s.register("Demo Demo", "demo@demo.com")

	t.Run("success", func(t *testing.T) {
		var out userBody
		status := s.json(fiber.MethodPost, "/api/v1/users/login", "",
			map[string]interface{}{"user": map[string]interface{}{"email": "DEMO@demo.com", "password": "demodemo"}}, &out)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, registered.ID, out.User.ID)
		require.NotEmpty(t, out.User.Token)
	})

	t.Run("blank fields", func(t *testing.T) {
		status, body := s.do(fiber.MethodPost, "/api/v1/users/login", "", map[string]interface{}{})
		require.Equal(t, fiber.StatusUnprocessableEntity, status)
		require.Equal(t, map[string]string{"email": models.MsgBlank, "password": models.MsgBlank},
			decodeEnvelope(t, body).Errors)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		wrongStatus, wrongBody := s.do(fiber.MethodPost, "/api/v1/users/login", "",
			map[string]interface{}{"user": map[string]interface{}{"email": "demo@demo.com", "password": "nope"}})
		unknownStatus, unknownBody := s.do(fiber.MethodPost, "/api/v1/users/login", "",
			map[string]interface{}{"user": map[string]interface{}{"email": "ghost@demo.com", "password": "nope"}})

		require.Equal(t, fiber.StatusUnprocessableEntity, wrongStatus)
		require.Equal(t, wrongStatus, unknownStatus)
		require.JSONEq(t, string(wrongBody), string(unknownBody))
		require.Equal(t, map[string]string{"email or password": models.MsgInvalid}, decodeEnvelope(t, wrongBody).Errors)
	})
}

func TestRequiredAuth(t *testing.T) {
	s := newTestServer(t)

	routes := []struct{ method, path string }{
		{fiber.MethodGet, "/api/v1/todolists"},
		{fiber.MethodPost, "/api/v1/todolists"},
		{fiber.MethodGet, "/api/v1/todolists/abc"},
		{fiber.MethodPut, "/api/v1/todolists/abc"},
		{fiber.MethodDelete, "/api/v1/todolists/abc"},
		{fiber.MethodGet, "/api/v1/todolists/abc/tasks"},
		{fiber.MethodPost, "/api/v1/todolists/abc/tasks"},
		{fiber.MethodGet, "/api/v1/todolists/abc/tasks/def"},
		{fiber.MethodPut, "/api/v1/todolists/abc/tasks/def"},
		{fiber.MethodDelete, "/api/v1/todolists/abc/tasks/def"},
		{fiber.MethodGet, "/api/v1/user"},
		{fiber.MethodPut, "/api/v1/user"},
		{fiber.MethodDelete, "/api/v1/user/abc"},
		{fiber.MethodGet, "/api/v1/events"},
	}

	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			for _, token := range []string{"", "garbage"} {
				status, body := s.do(r.method, r.path, token, nil)
				require.Equal(t, fiber.StatusUnauthorized, status)
				require.Equal(t, middleware.TokenErrorEnvelope, decodeEnvelope(t, body))
			}
		})
	}
}

func TestTodoLists(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("Alice", "alice@demo.com")

	t.Run("create then get", func(t *testing.T) {
		created := s.createTodoList(alice.Token, "Groceries", "weekly")

		var out todoListBody
		status := s.json(fiber.MethodGet, "/api/v1/todolists/"+created.ID, alice.Token, nil, &out)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, created.Name, out.TodoList.Name)
		require.Equal(t, created.Description, out.TodoList.Description)
		require.Equal(t, alice.Profile, out.TodoList.Author)
	})

	t.Run("blank name", func(t *testing.T) {
		status, body := s.do(fiber.MethodPost, "/api/v1/todolists", alice.Token,
			todoListPayload(map[string]interface{}{"description": "no name"}))
		require.Equal(t, fiber.StatusUnprocessableEntity, status)
		require.Equal(t, map[string]string{"name": models.MsgBlank}, decodeEnvelope(t, body).Errors)
	})

	t.Run("partial update", func(t *testing.T) {
		created := s.createTodoList(alice.Token, "Home", "chores")

		var out todoListBody
		status := s.json(fiber.MethodPut, "/api/v1/todolists/"+created.ID, alice.Token,
			todoListPayload(map[string]interface{}{"name": "House"}), &out)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, "updated", out.Status)
		require.Equal(t, "House", out.TodoList.Name)
		require.Equal(t, "chores", out.TodoList.Description)

		stored, err := s.store.FindTodoList(context.Background(), created.ID)
		require.NoError(t, err)
		require.Equal(t, "House", stored.Name)
		require.Equal(t, "chores", stored.Description)
	})

	t.Run("missing", func(t *testing.T) {
		for _, method := range []string{fiber.MethodGet, fiber.MethodPut, fiber.MethodDelete} {
			status, body := s.do(method, "/api/v1/todolists/does-not-exist", alice.Token, nil)
			require.Equal(t, fiber.StatusNotFound, status, method)
			require.Equal(t, middleware.NotFoundEnvelope, decodeEnvelope(t, body))
		}
	})
}

func TestListTodoLists(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("Alice", "alice@demo.com")
	bob := s.register("Bob", "bob@demo.com")

	for i := 1; i <= 3; i++ {
		s.createTodoList(alice.Token, fmt.Sprintf("List %d", i), "")
	}
	s.createTodoList(bob.Token, "Bob's", "")

	t.Run("defaults", func(t *testing.T) {
		var out todoListsBody
		status := s.json(fiber.MethodGet, "/api/v1/todolists", alice.Token, nil, &out)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, int64(3), out.Count)
		require.Equal(t, 20, out.Limit)
		require.Equal(t, 0, out.Offset)
		require.Len(t, out.TodoLists, 3)
		require.Equal(t, "List 3", out.TodoLists[0].Name)
		require.Equal(t, "List 1", out.TodoLists[2].Name)
	})

	t.Run("paging", func(t *testing.T) {
		var first todoListsBody
		s.json(fiber.MethodGet, "/api/v1/todolists?limit=2", alice.Token, nil, &first)
		require.Equal(t, int64(3), first.Count)
		require.Equal(t, 2, first.Limit)
		require.Len(t, first.TodoLists, 2)

		var rest todoListsBody
		s.json(fiber.MethodGet, "/api/v1/todolists?limit=2&offset=2", alice.Token, nil, &rest)
		require.Equal(t, int64(3), rest.Count)
		require.Equal(t, 2, rest.Offset)
		require.Len(t, rest.TodoLists, 1)
		require.Equal(t, "List 1", rest.TodoLists[0].Name)
	})

	t.Run("bad values fall back", func(t *testing.T) {
		var out todoListsBody
		s.json(fiber.MethodGet, "/api/v1/todolists?limit=0&offset=-4", alice.Token, nil, &out)
		require.Equal(t, 20, out.Limit)
		require.Equal(t, 0, out.Offset)
		require.Len(t, out.TodoLists, 3)
	})
}

func TestTodoListOwnership(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("Alice", "alice@demo.com")
	bob := s.register("Bob", "bob@demo.com")

	list := s.createTodoList(alice.Token, "Private", "alice only")
	task := s.createTask(alice.Token, list.ID, "Secret")
	path := "/api/v1/todolists/" + list.ID

	status, body := s.do(fiber.MethodGet, path, bob.Token, nil)
	require.Equal(t, fiber.StatusNotFound, status)
	require.NotContains(t, string(body), "alice only")

	status, body = s.do(fiber.MethodPut, path, bob.Token, todoListPayload(map[string]interface{}{"name": "Mine"}))
	require.Equal(t, fiber.StatusForbidden, status)
	require.Empty(t, body)

	status, _ = s.do(fiber.MethodDelete, path, bob.Token, nil)
	require.Equal(t, fiber.StatusForbidden, status)

	status, _ = s.do(fiber.MethodGet, path+"/tasks", bob.Token, nil)
	require.Equal(t, fiber.StatusForbidden, status)

	status, _ = s.do(fiber.MethodPost, path+"/tasks", bob.Token, taskPayload(map[string]interface{}{"name": "Sneaky"}))
	require.Equal(t, fiber.StatusForbidden, status)

	for _, method := range []string{fiber.MethodGet, fiber.MethodPut, fiber.MethodDelete} {
		status, _ = s.do(method, path+"/tasks/"+task.ID, bob.Token, taskPayload(map[string]interface{}{"name": "x"}))
		require.Equal(t, fiber.StatusForbidden, status, method)
	}

	stored, err := s.store.FindTodoList(context.Background(), list.ID)
	require.NoError(t, err)
	require.Equal(t, "Private", stored.Name)
	require.Equal(t, []string{task.ID}, stored.Tasks)

	storedTask, err := s.store.FindTask(context.Background(), task.ID)
	require.NoError(t, err)
	require.Equal(t, "Secret", storedTask.Name)
}

func TestTasks(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("Alice", "alice@demo.com")
	list := s.createTodoList(alice.Token, "Work", "")
	other := s.createTodoList(alice.Token, "Other", "")
	base := "/api/v1/todolists/" + list.ID + "/tasks"

	t.Run("create with defaults", func(t *testing.T) {
		before := time.Now().Add(-time.Second)
		task := s.createTask(alice.Token, list.ID, "Draft")
		require.Equal(t, "", task.Description)
		require.False(t, task.Completed)
		require.True(t, task.DueDate.After(before))
	})

	t.Run("create with every field", func(t *testing.T) {
		var out taskBody
		status := s.json(fiber.MethodPost, base, alice.Token, taskPayload(map[string]interface{}{
			"name": "Ship", "description": "v1", "dueDate": "2030-01-02T03:04:05Z", "completed": true,
		}), &out)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, "Ship", out.Task.Name)
		require.Equal(t, "v1", out.Task.Description)
		require.True(t, out.Task.Completed)
		require.True(t, time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC).Equal(out.Task.DueDate))
	})

	t.Run("lenient due dates", func(t *testing.T) {
		tests := map[string]time.Time{
			"2030-01-02t03:04:05z": time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC),
			"2016-12-31T23:59:60Z": time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		for in, want := range tests {
			var out taskBody
			status := s.json(fiber.MethodPost, "/api/v1/todolists/"+other.ID+"/tasks", alice.Token,
				taskPayload(map[string]interface{}{"name": "Leap", "dueDate": in}), &out)
			require.Equal(t, fiber.StatusOK, status, in)
			require.True(t, want.Equal(out.Task.DueDate), "%s decoded as %s", in, out.Task.DueDate)
		}
	})

	t.Run("invalid fields", func(t *testing.T) {
		status, body := s.do(fiber.MethodPost, base, alice.Token,
			taskPayload(map[string]interface{}{"name": "x", "completed": "yes", "dueDate": "tomorrow"}))
		require.Equal(t, fiber.StatusUnprocessableEntity, status)
		require.Equal(t, map[string]string{"completed": models.MsgInvalid, "dueDate": models.MsgInvalid},
			decodeEnvelope(t, body).Errors)

		status, body = s.do(fiber.MethodPost, base, alice.Token, taskPayload(map[string]interface{}{}))
		require.Equal(t, fiber.StatusUnprocessableEntity, status)
		require.Equal(t, map[string]string{"name": models.MsgBlank}, decodeEnvelope(t, body).Errors)
	})

	t.Run("list", func(t *testing.T) {
		var out tasksBody
		status := s.json(fiber.MethodGet, base, alice.Token, nil, &out)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, int64(2), out.Count)
		require.Equal(t, list.ID, out.TodoList.ID)
		require.Equal(t, "Ship", out.Tasks[0].Name)
		require.Equal(t, "Draft", out.Tasks[1].Name)
	})

	t.Run("get update delete", func(t *testing.T) {
		task := s.createTask(alice.Token, list.ID, "Review")
		path := base + "/" + task.ID

		var got taskBody
		require.Equal(t, fiber.StatusOK, s.json(fiber.MethodGet, path, alice.Token, nil, &got))
		require.Equal(t, task, got.Task)

		var updated taskBody
		status := s.json(fiber.MethodPut, path, alice.Token,
			taskPayload(map[string]interface{}{"completed": true}), &updated)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, "updated", updated.Status)
		require.True(t, updated.Task.Completed)
		require.Equal(t, "Review", updated.Task.Name)

		status, _ = s.do(fiber.MethodDelete, path, alice.Token, nil)
		require.Equal(t, fiber.StatusNoContent, status)

		status, _ = s.do(fiber.MethodGet, path, alice.Token, nil)
		require.Equal(t, fiber.StatusNotFound, status)

		stored, err := s.store.FindTodoList(context.Background(), list.ID)
		require.NoError(t, err)
		require.NotContains(t, stored.Tasks, task.ID)
	})

	t.Run("task under the wrong list", func(t *testing.T) {
		task := s.createTask(alice.Token, list.ID, "Misplaced")
		status, _ := s.do(fiber.MethodGet, "/api/v1/todolists/"+other.ID+"/tasks/"+task.ID, alice.Token, nil)
		require.Equal(t, fiber.StatusForbidden, status)
	})

	t.Run("missing list or task", func(t *testing.T) {
		status, _ := s.do(fiber.MethodGet, base+"/nope", alice.Token, nil)
		require.Equal(t, fiber.StatusNotFound, status)

		status, _ = s.do(fiber.MethodGet, "/api/v1/todolists/nope/tasks", alice.Token, nil)
		require.Equal(t, fiber.StatusNotFound, status)

		status, _ = s.do(fiber.MethodPost, "/api/v1/todolists/nope/tasks", alice.Token, taskPayload(map[string]interface{}{"name": "x"}))
		require.Equal(t, fiber.StatusNotFound, status)
	})
}

func TestDeleteTodoListRemovesTasks(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("Alice", "alice@demo.com")
	list := s.createTodoList(alice.Token, "Doomed", "")

	var ids []string
	for i := 0; i < 3; i++ {
		ids = append(ids, s.createTask(alice.Token, list.ID, fmt.Sprintf("Task %d", i)).ID)
	}

	status, _ := s.do(fiber.MethodDelete, "/api/v1/todolists/"+list.ID, alice.Token, nil)
	require.Equal(t, fiber.StatusNoContent, status)

	for _, id := range ids {
		_, err := s.store.FindTask(context.Background(), id)
		require.ErrorIs(t, err, database.ErrNotFound)
	}

	user, err := s.store.FindUserByID(context.Background(), alice.ID)
	require.NoError(t, err)
	require.NotContains(t, user.TodoLists, list.ID)
}

func TestCurrentUser(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("Alice", "alice@demo.com")

	t.Run("get", func(t *testing.T) {
		var out userBody
		status := s.json(fiber.MethodGet, "/api/v1/user", alice.Token, nil, &out)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, alice.Profile, out.User.Profile)
		require.NotEmpty(t, out.User.Token)
	})

	t.Run("update requires current password", func(t *testing.T) {
		status, body := s.do(fiber.MethodPut, "/api/v1/user", alice.Token,
			map[string]interface{}{"user": map[string]interface{}{"fullname": "Al"}})
		require.Equal(t, fiber.StatusUnprocessableEntity, status)
		require.Equal(t, map[string]string{"currentPassword": models.MsgBlank}, decodeEnvelope(t, body).Errors)
	})

	t.Run("wrong current password keeps the hash", func(t *testing.T) {
		before, err := s.store.FindUserByID(context.Background(), alice.ID)
		require.NoError(t, err)

		status, body := s.do(fiber.MethodPut, "/api/v1/user", alice.Token,
			map[string]interface{}{"user": map[string]interface{}{"currentPassword": "wrong", "password": "newpassword"}})
		require.Equal(t, fiber.StatusUnprocessableEntity, status)
		require.Equal(t, map[string]string{"currentPassword": "Current password isn't correct."},
			decodeEnvelope(t, body).Errors)

		after, err := s.store.FindUserByID(context.Background(), alice.ID)
		require.NoError(t, err)
		require.Equal(t, before.Hash, after.Hash)
		require.Equal(t, before.Salt, after.Salt)
	})

	t.Run("blank new values", func(t *testing.T) {
		status, body := s.do(fiber.MethodPut, "/api/v1/user", alice.Token,
			map[string]interface{}{"user": map[string]interface{}{"currentPassword": "demodemo", "fullname": "", "password": ""}})
		require.Equal(t, fiber.StatusUnprocessableEntity, status)
		require.Equal(t, map[string]string{"fullname": models.MsgBlank, "password": models.MsgBlank},
			decodeEnvelope(t, body).Errors)
	})

	t.Run("update", func(t *testing.T) {
		var out userBody
		status := s.json(fiber.MethodPut, "/api/v1/user", alice.Token,
			map[string]interface{}{"user": map[string]interface{}{
				"currentPassword": "demodemo", "fullname": "Alice Liddell", "password": "rabbit-hole",
			}}, &out)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, "updated", out.Status)
		require.Equal(t, "Alice Liddell", out.User.FullName)

		status, _ = s.do(fiber.MethodPost, "/api/v1/users/login", "",
			map[string]interface{}{"user": map[string]interface{}{"email": "alice@demo.com", "password": "rabbit-hole"}})
		require.Equal(t, fiber.StatusOK, status)

		status, _ = s.do(fiber.MethodPost, "/api/v1/users/login", "",
			map[string]interface{}{"user": map[string]interface{}{"email": "alice@demo.com", "password": "demodemo"}})
		require.Equal(t, fiber.StatusUnprocessableEntity, status)
	})
}

func TestDeleteUser(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("Alice", "alice@demo.com")
	bob := s.register("Bob", "bob@demo.com")
	bobsList := s.createTodoList(bob.Token, "Bob's", "")

	t.Run("self", func(t *testing.T) {
		status, body := s.do(fiber.MethodDelete, "/api/v1/user/"+alice.ID, alice.Token, nil)
		require.Equal(t, fiber.StatusUnprocessableEntity, status)
		require.Equal(t, middleware.ErrorEnvelope{
			Status:        fiber.StatusUnprocessableEntity,
			Message:       "Unprocessable Entity",
			StatusMessage: "error",
			Errors:        map[string]string{"user": "Can't delete current user."},
		}, decodeEnvelope(t, body))
	})

	t.Run("unknown", func(t *testing.T) {
		status, _ := s.do(fiber.MethodDelete, "/api/v1/user/nobody", alice.Token, nil)
		require.Equal(t, fiber.StatusNotFound, status)
	})

	t.Run("other", func(t *testing.T) {
		status, _ := s.do(fiber.MethodDelete, "/api/v1/user/"+bob.ID, alice.Token, nil)
		require.Equal(t, fiber.StatusNoContent, status)

		_, err := s.store.FindTodoList(context.Background(), bobsList.ID)
		require.ErrorIs(t, err, database.ErrNotFound)

		// Bob's token is still valid but no longer names a user.
		status, body := s.do(fiber.MethodGet, "/api/v1/user", bob.Token, nil)
		require.Equal(t, fiber.StatusForbidden, status)
		require.Empty(t, body)
	})
}

func TestChangeEvents(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("Alice", "alice@demo.com")
	bob := s.register("Bob", "bob@demo.com")

	aliceEvents, cancelAlice := s.bus.Subscribe(alice.ID)
	defer cancelAlice()
	bobEvents, cancelBob := s.bus.Subscribe(bob.ID)
	defer cancelBob()

	list := s.createTodoList(alice.Token, "Watched", "")
	task := s.createTask(alice.Token, list.ID, "First")

	created := <-aliceEvents
	assert.Equal(t, events.TodoListCreated, created.Name)
	assert.Equal(t, list.ID, created.TodoListID)

	taskCreated := <-aliceEvents
	assert.Equal(t, events.TaskCreated, taskCreated.Name)
	assert.Equal(t, task.ID, taskCreated.TaskID)
	assert.Equal(t, list.ID, taskCreated.TodoListID)

	require.Empty(t, bobEvents)
}

func TestEventStream(t *testing.T) {
	s := newTestServer(t)
	alice := s.register("Alice", "alice@demo.com")

	type result struct {
		status int
		header string
		body   string
		err    error
	}
	done := make(chan result, 1)
	go func() {
		req := httptest.NewRequest(fiber.MethodGet, "/api/v1/events", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Token "+alice.Token)
		res, err := s.app.Test(req, -1)
		if err != nil {
			done <- result{err: err}
			return
		}
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		done <- result{
			status: res.StatusCode,
			header: res.Header.Get(fiber.HeaderContentType),
			body:   string(data),
			err:    err,
		}
	}()

	require.Eventually(t, func() bool { return s.bus.Subscribers() == 1 }, 5*time.Second, 10*time.Millisecond)
	list := s.createTodoList(alice.Token, "Streamed", "")
	require.NoError(t, s.bus.Close())

	var res result
	select {
	case res = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("event stream did not end after the bus closed")
	}
	require.NoError(t, res.err)
	require.Equal(t, fiber.StatusOK, res.status)
	require.Equal(t, "text/event-stream", res.header)
	require.True(t, strings.HasPrefix(res.body, "retry: 15000\n\n"), res.body)
	require.Contains(t, res.body, "event: "+events.TodoListCreated+"\ndata: {")
	require.Contains(t, res.body, `"todoListId":"`+list.ID+`"`)
	require.Contains(t, res.body, `"userId":"`+alice.ID+`"`)
}

// blockedBroker holds every delivery until the test ends.
type blockedBroker struct {
	release chan struct{}
}

func (b *blockedBroker) Publish(context.Context, events.Event) error {
	<-b.release
	return nil
}

func (b *blockedBroker) Close() error { return nil }

func TestSlowBrokerDoesNotDelayRequests(t *testing.T) {
	cfg := config.Default()
	cfg.Env = config.EnvTest
	cfg.JWTSecret = "test-secret"

	bus := events.NewBus()
	broker := &blockedBroker{release: make(chan struct{})}
	publisher := events.Multi{bus, events.NewAsync(broker, 4)}
	t.Cleanup(func() {
		close(broker.release)
		require.NoError(t, publisher.Close())
	})

	store := database.NewMemoryStore()
	s := &testServer{
		t:     t,
		app:   NewServer(cfg, Services{Store: store, Events: publisher, Bus: bus}),
		store: store,
		bus:   bus,
	}
	alice := s.register("Alice", "alice@demo.com")
	stream, cancel := bus.Subscribe(alice.ID)
	defer cancel()

	begin := time.Now()
	list := s.createTodoList(alice.Token, "Work", "")
	s.createTask(alice.Token, list.ID, "Draft")
	require.Less(t, time.Since(begin), 2*time.Second)

	require.Equal(t, events.TodoListCreated, (<-stream).Name)
	require.Equal(t, events.TaskCreated, (<-stream).Name)
}

func TestOpenPublishersWithoutBrokers(t *testing.T) {
	publisher, bus, err := OpenPublishers(config.EventsConfig{})
	require.NoError(t, err)
	require.Same(t, bus, publisher)
	require.NoError(t, publisher.Close())
}

func TestHealthAndUnknownRoutes(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(fiber.MethodGet, "/health", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.JSONEq(t, `{"status":"ok","store":"up"}`, string(body))

	status, body = s.do(fiber.MethodGet, "/api/v1/nothing-here", "", nil)
	require.Equal(t, fiber.StatusNotFound, status)
	require.Equal(t, middleware.NotFoundEnvelope, decodeEnvelope(t, body))
}
