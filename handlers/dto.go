package handlers

import "github.com/biosecret/todolist-api/models"

type todoListRequest struct {
	TodoList models.TodoListPatch `json:"todoList"`
}

type taskRequest struct {
	Task models.TaskPatch `json:"task"`
}

type userInput struct {
	FullName        *string `json:"fullname"`
	Email           *string `json:"email"`
	Password        *string `json:"password"`
	CurrentPassword *string `json:"currentPassword"`
}

type userRequest struct {
	User *userInput `json:"user"`
}

type todoListResponse struct {
	Status   string              `json:"status,omitempty"`
	TodoList models.TodoListView `json:"todoList"`
}

type todoListsResponse struct {
	TodoLists []models.TodoListView `json:"todoLists"`
	Count     int64                 `json:"count"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
}

type tasksResponse struct {
	TodoList models.TodoListView `json:"todoList"`
	Tasks    []models.TaskView   `json:"tasks"`
	Count    int64               `json:"count"`
}

type taskResponse struct {
	Status string          `json:"status,omitempty"`
	Task   models.TaskView `json:"task"`
}

type userResponse struct {
	Status string             `json:"status,omitempty"`
	User   models.AuthPayload `json:"user"`
}

type healthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// value returns *s, or "" for nil.
func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
