package models

import (
	"encoding/json"
	"strings"
	"time"
)

// TodoList is a named collection of tasks owned by one user.
type TodoList struct {
	ID          string
	Name        string
	Description string
	AuthorID    string
	// Author is populated by stores on lookup; it may be nil.
	Author    *User
	Tasks     []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TodoListView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Author      Profile   `json:"author"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TodoListPatch holds the mutable fields of a todo list; nil means absent.
type TodoListPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func NewTodoList(p TodoListPatch) *TodoList {
	l := &TodoList{Tasks: []string{}}
	l.Apply(p)
	return l
}

// Apply sets every field present in p.
func (l *TodoList) Apply(p TodoListPatch) {
	if p.Name != nil {
		l.Name = *p.Name
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
}

func (l *TodoList) OwnedBy(userID string) bool {
	return userID != "" && l.AuthorID == userID
}

// AddTask links t to l on both sides.
func (l *TodoList) AddTask(t *Task) {
	l.Tasks = append(l.Tasks, t.ID)
	t.TodoListID = l.ID
}

func (l *TodoList) Validate() error {
	v := NewValidationError()
	if l.Name == "" {
		v.Add("name", MsgBlank)
	}
	return v.OrNil()
}

func (l *TodoList) View() TodoListView {
	author := Profile{ID: l.AuthorID}
	if l.Author != nil {
		author = l.Author.Profile()
	}
	return TodoListView{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		Author:      author,
		CreatedAt:   l.CreatedAt,
	}
}

// Task is a unit of work inside a todo list.
type Task struct {
	ID          string
	Name        string
	Description string
	DueDate     time.Time
	Completed   bool
	TodoListID  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type TaskView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type TaskPatch struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Completed   *bool      `json:"completed"`
}

// UnmarshalJSON reads dueDate with ParseDateTime so every RFC 3339 form the
// task schema admits decodes.
func (p *TaskPatch) UnmarshalJSON(data []byte) error {
	type plain TaskPatch
	var aux struct {
		*plain
		DueDate *string `json:"dueDate"`
	}
	aux.plain = (*plain)(p)
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.DueDate == nil {
		p.DueDate = nil
		return nil
	}
	due, err := ParseDateTime(*aux.DueDate)
	if err != nil {
		return FieldError("dueDate", MsgInvalid)
	}
	p.DueDate = &due
	return nil
}

// ParseDateTime parses an RFC 3339 date-time. Lowercase t and z separators
// are accepted, and a leap second rolls over into the next minute.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.ToUpper(s)
	leap := len(s) >= 19 && s[17:19] == "60"
	if leap {
		s = s[:17] + "59" + s[19:]
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	if leap {
		t = t.Add(time.Second)
	}
	return t, nil
}

// NewTask builds a task from p. The due date defaults to now.
func NewTask(p TaskPatch, now time.Time) *Task {
	t := &Task{DueDate: now}
	t.Apply(p)
	return t
}

func (t *Task) Apply(p TaskPatch) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}

func (t *Task) Validate() error {
	v := NewValidationError()
	if t.Name == "" {
		v.Add("name", MsgBlank)
	}
	return v.OrNil()
}

func (t *Task) View() TaskView {
	return TaskView{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		DueDate:     t.DueDate,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
