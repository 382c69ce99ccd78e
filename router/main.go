package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/todolist-api/auth"
	"github.com/biosecret/todolist-api/handlers"
	"github.com/biosecret/todolist-api/middleware"
)

func SetupRoutes(app *fiber.App, h *handlers.Handler, tokens *auth.Issuer) {
	app.Get("/health", h.HealthCheck)

	required := middleware.Auth(tokens, true)
	optional := middleware.Auth(tokens, false)

	api := app.Group("/api/v1")

	api.Post("/users", optional, h.Register)
	api.Post("/users/login", optional, h.Login)
	api.Get("/user", required, h.CurrentUser)
	api.Put("/user", required, h.UpdateCurrentUser)
	api.Delete("/user/:userId", required, h.DeleteUser)

	todoLists := api.Group("/todolists", required)
	todoLists.Get("/", h.ListTodoLists)
	todoLists.Post("/", h.CreateTodoList)
	todoLists.Get("/:id", h.ResolveTodoList, h.GetTodoList)
	todoLists.Put("/:id", h.ResolveTodoList, h.UpdateTodoList)
	todoLists.Delete("/:id", h.ResolveTodoList, h.DeleteTodoList)
	todoLists.Get("/:id/tasks", h.ResolveTodoList, h.ListTasks)
	todoLists.Post("/:id/tasks", h.ResolveTodoList, h.CreateTask)
	todoLists.Get("/:id/tasks/:taskId", h.ResolveTodoList, h.ResolveTask, h.GetTask)
	todoLists.Put("/:id/tasks/:taskId", h.ResolveTodoList, h.ResolveTask, h.UpdateTask)
	todoLists.Delete("/:id/tasks/:taskId", h.ResolveTodoList, h.ResolveTask, h.DeleteTask)

	api.Get("/events", required, h.StreamEvents)
}
