package database

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/biosecret/todolist-api/models"
)

type memRecord[T any] struct {
	seq   int64
	value T
}

// MemoryStore is a process-local Store. Records are copied in and out so
// callers never share memory with it.
type MemoryStore struct {
	mu    sync.RWMutex
	seq   int64
	users map[string]memRecord[models.User]
	lists map[string]memRecord[models.TodoList]
	tasks map[string]memRecord[models.Task]
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: map[string]memRecord[models.User]{},
		lists: map[string]memRecord[models.TodoList]{},
		tasks: map[string]memRecord[models.Task]{},
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Ping(context.Context) error  { return nil }
func (s *MemoryStore) Close(context.Context) error { return nil }

func (s *MemoryStore) Truncate(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = map[string]memRecord[models.User]{}
	s.lists = map[string]memRecord[models.TodoList]{}
	s.tasks = map[string]memRecord[models.Task]{}
	return nil
}

func (s *MemoryStore) newID() (string, int64, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", 0, fmt.Errorf("failed to generate ID: %w", err)
	}
	s.seq++
	return id, s.seq, nil
}

// Users

func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.users {
		if r.value.Email == u.Email {
			return &DuplicateKeyError{Field: "email"}
		}
	}

	id, seq, err := s.newID()
	if err != nil {
		return err
	}
	now := s.now()
	u.ID = id
	u.CreatedAt, u.UpdatedAt = now, now
	if u.TodoLists == nil {
		u.TodoLists = []string{}
	}

	s.users[id] = memRecord[models.User]{seq: seq, value: copyUser(u)}
	return nil
}

func (s *MemoryStore) FindUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.findUser(id)
}

func (s *MemoryStore) findUser(id string) (*models.User, error) {
	r, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u := copyUser(&r.value)
	return &u, nil
}

func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.users {
		if r.value.Email == email {
			u := copyUser(&r.value)
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpdateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.users[u.ID]
	if !ok {
		return ErrNotFound
	}
	for id, other := range s.users {
		if id != u.ID && other.value.Email == u.Email {
			return &DuplicateKeyError{Field: "email"}
		}
	}

	u.UpdatedAt = s.now()
	r.value.FullName = u.FullName
	r.value.Email = u.Email
	r.value.Hash = u.Hash
	r.value.Salt = u.Salt
	r.value.UpdatedAt = u.UpdatedAt
	s.users[u.ID] = r
	return nil
}

func (s *MemoryStore) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)

	for listID, r := range s.lists {
		if r.value.AuthorID == id {
			s.deleteTasksOf(listID)
			delete(s.lists, listID)
		}
	}
	return nil
}

// Todo lists

func (s *MemoryStore) CreateTodoList(_ context.Context, author *models.User, l *models.TodoList) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, ok := s.users[author.ID]
	if !ok {
		return ErrNotFound
	}

	id, seq, err := s.newID()
	if err != nil {
		return err
	}
	now := s.now()
	l.ID = id
	l.CreatedAt, l.UpdatedAt = now, now
	if l.Tasks == nil {
		l.Tasks = []string{}
	}
	author.AddTodoList(l)

	s.lists[id] = memRecord[models.TodoList]{seq: seq, value: copyTodoList(l)}

	owner.value.TodoLists = append(owner.value.TodoLists, id)
	owner.value.UpdatedAt = now
	s.users[author.ID] = owner
	return nil
}

func (s *MemoryStore) FindTodoList(_ context.Context, id string) (*models.TodoList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.lists[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.populate(r.value), nil
}

func (s *MemoryStore) FindTodoListByAuthor(_ context.Context, id, authorID string) (*models.TodoList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.lists[id]
	if !ok || r.value.AuthorID != authorID {
		return nil, ErrNotFound
	}
	return s.populate(r.value), nil
}

func (s *MemoryStore) populate(stored models.TodoList) *models.TodoList {
	l := copyTodoList(&stored)
	if author, err := s.findUser(l.AuthorID); err == nil {
		l.Author = author
	}
	return &l
}

func (s *MemoryStore) ListTodoLists(_ context.Context, authorID string, limit, offset int) ([]*models.TodoList, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []memRecord[models.TodoList]
	for _, r := range s.lists {
		if r.value.AuthorID == authorID {
			records = append(records, r)
		}
	}
	sortNewestFirst(records, func(l models.TodoList) time.Time { return l.CreatedAt })

	count := int64(len(records))
	records = page(records, limit, offset)

	lists := make([]*models.TodoList, 0, len(records))
	for _, r := range records {
		lists = append(lists, s.populate(r.value))
	}
	return lists, count, nil
}

func (s *MemoryStore) UpdateTodoList(_ context.Context, l *models.TodoList) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.lists[l.ID]
	if !ok {
		return ErrNotFound
	}

	l.UpdatedAt = s.now()
	r.value.Name = l.Name
	r.value.Description = l.Description
	r.value.UpdatedAt = l.UpdatedAt
	s.lists[l.ID] = r
	return nil
}

func (s *MemoryStore) DeleteTodoList(_ context.Context, l *models.TodoList) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.lists[l.ID]
	if !ok {
		return ErrNotFound
	}

	s.deleteTasksOf(l.ID)
	delete(s.lists, l.ID)

	if owner, ok := s.users[r.value.AuthorID]; ok {
		owner.value.TodoLists = slices.DeleteFunc(owner.value.TodoLists, func(id string) bool { return id == l.ID })
		s.users[r.value.AuthorID] = owner
	}
	return nil
}

func (s *MemoryStore) deleteTasksOf(listID string) {
	for id, r := range s.tasks {
		if r.value.TodoListID == listID {
			delete(s.tasks, id)
		}
	}
}

// Tasks

func (s *MemoryStore) CreateTask(_ context.Context, list *models.TodoList, t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, ok := s.lists[list.ID]
	if !ok {
		return ErrNotFound
	}

	id, seq, err := s.newID()
	if err != nil {
		return err
	}
	now := s.now()
	t.ID = id
	t.CreatedAt, t.UpdatedAt = now, now
	list.AddTask(t)

	s.tasks[id] = memRecord[models.Task]{seq: seq, value: *t}

	parent.value.Tasks = append(parent.value.Tasks, id)
	parent.value.UpdatedAt = now
	s.lists[list.ID] = parent
	return nil
}

func (s *MemoryStore) FindTask(_ context.Context, id string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	t := r.value
	return &t, nil
}

func (s *MemoryStore) ListTasks(_ context.Context, todoListID string) ([]*models.Task, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []memRecord[models.Task]
	for _, r := range s.tasks {
		if r.value.TodoListID == todoListID {
			records = append(records, r)
		}
	}
	sortNewestFirst(records, func(t models.Task) time.Time { return t.CreatedAt })

	tasks := make([]*models.Task, 0, len(records))
	for _, r := range records {
		t := r.value
		tasks = append(tasks, &t)
	}
	return tasks, int64(len(tasks)), nil
}

func (s *MemoryStore) UpdateTask(_ context.Context, t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.tasks[t.ID]
	if !ok {
		return ErrNotFound
	}

	t.UpdatedAt = s.now()
	r.value.Name = t.Name
	r.value.Description = t.Description
	r.value.DueDate = t.DueDate
	r.value.Completed = t.Completed
	r.value.UpdatedAt = t.UpdatedAt
	s.tasks[t.ID] = r
	return nil
}

func (s *MemoryStore) DeleteTask(_ context.Context, t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[t.ID]; !ok {
		return ErrNotFound
	}
	delete(s.tasks, t.ID)

	if parent, ok := s.lists[t.TodoListID]; ok {
		parent.value.Tasks = slices.DeleteFunc(parent.value.Tasks, func(id string) bool { return id == t.ID })
		s.lists[t.TodoListID] = parent
	}
	return nil
}

// helpers

func sortNewestFirst[T any](records []memRecord[T], createdAt func(T) time.Time) {
	sort.Slice(records, func(i, j int) bool {
		a, b := createdAt(records[i].value), createdAt(records[j].value)
		if !a.Equal(b) {
			return a.After(b)
		}
		return records[i].seq > records[j].seq
	})
}

func page[T any](records []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(records) {
		return nil
	}
	records = records[offset:]
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records
}

func copyUser(u *models.User) models.User {
	c := *u
	c.TodoLists = slices.Clone(u.TodoLists)
	if c.TodoLists == nil {
		c.TodoLists = []string{}
	}
	return c
}

func copyTodoList(l *models.TodoList) models.TodoList {
	c := *l
	c.Author = nil
	c.Tasks = slices.Clone(l.Tasks)
	if c.Tasks == nil {
		c.Tasks = []string{}
	}
	return c
}
