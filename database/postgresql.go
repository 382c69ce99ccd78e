package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/biosecret/todolist-api/models"
)

const uniqueViolation = "23505"

// PostgresStore keeps entities in three tables. Back-references are not
// stored; they are read from the foreign keys, which also cascade deletes.
type PostgresStore struct {
	db *sql.DB
}

// StartPostgreSQL opens a connection pool to uri and creates the tables if
// they do not exist.
func StartPostgreSQL(ctx context.Context, uri string) (*PostgresStore, error) {
	if uri == "" {
		return nil, errors.New("you must set your 'POSTGRESQL_URI' environmental variable")
	}

	db, err := sql.Open("pgx", uri)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cannot connect to PostgreSQL: %w", err)
	}

	log.Info("Connected to PostgreSQL successfully")

	s := &PostgresStore{db: db}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// createTables creates the tables if they do not exist
func (s *PostgresStore) createTables(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(32) PRIMARY KEY,
		fullname TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		hash TEXT NOT NULL,
		salt TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS todo_lists (
		id VARCHAR(32) PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		author_id VARCHAR(32) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS todo_lists_author_idx ON todo_lists (author_id, created_at DESC);

	CREATE TABLE IF NOT EXISTS todo_list_tasks (
		id VARCHAR(32) PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		due_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		todo_list_id VARCHAR(32) NOT NULL REFERENCES todo_lists(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS todo_list_tasks_list_idx ON todo_list_tasks (todo_list_id, created_at DESC);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return err
	}

	log.Info("Tables created or already exist")
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close(context.Context) error {
	if err := s.db.Close(); err != nil {
		return err
	}
	log.Info("Database connection closed")
	return nil
}

func (s *PostgresStore) Truncate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "TRUNCATE todo_list_tasks, todo_lists, users")
	return err
}

// Users

const userColumns = "id, fullname, email, hash, salt, created_at, updated_at"

func (s *PostgresStore) CreateUser(ctx context.Context, u *models.User) error {
	id, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("failed to generate ID: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7)",
		id, u.FullName, u.Email, u.Hash, u.Salt, now, now,
	)
	if err != nil {
		return pgError(err)
	}

	u.ID = id
	u.CreatedAt, u.UpdatedAt = now, now
	if u.TodoLists == nil {
		u.TodoLists = []string{}
	}
	return nil
}

func (s *PostgresStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (s *PostgresStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

func (s *PostgresStore) findUser(ctx context.Context, query string, arg string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.FullName, &u.Email, &u.Hash, &u.Salt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, pgError(err)
	}

	u.TodoLists, err = s.ids(ctx, "SELECT id FROM todo_lists WHERE author_id = $1 ORDER BY created_at", u.ID)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PostgresStore) UpdateUser(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET fullname=$1, email=$2, hash=$3, salt=$4, updated_at=$5 WHERE id=$6",
		u.FullName, u.Email, u.Hash, u.Salt, now, u.ID,
	)
	if err != nil {
		return pgError(err)
	}
	if err := expectRow(res); err != nil {
		return err
	}

	u.UpdatedAt = now
	return nil
}

func (s *PostgresStore) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// Todo lists

const todoListColumns = "id, name, description, author_id, created_at, updated_at"

func (s *PostgresStore) CreateTodoList(ctx context.Context, author *models.User, l *models.TodoList) error {
	id, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("failed to generate ID: %w", err)
	}

	now := time.Now().UTC()
	l.ID = id
	l.CreatedAt, l.UpdatedAt = now, now
	author.AddTodoList(l)

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO todo_lists ("+todoListColumns+") VALUES ($1, $2, $3, $4, $5, $6)",
		l.ID, l.Name, l.Description, l.AuthorID, now, now,
	)
	if err != nil {
		return pgError(err)
	}

	_, err = s.db.ExecContext(ctx, "UPDATE users SET updated_at = $1 WHERE id = $2", now, author.ID)
	if err != nil {
		return fmt.Errorf("link todo list to author: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindTodoList(ctx context.Context, id string) (*models.TodoList, error) {
	return s.findTodoList(ctx, "SELECT "+todoListColumns+" FROM todo_lists WHERE id = $1", id)
}

func (s *PostgresStore) FindTodoListByAuthor(ctx context.Context, id, authorID string) (*models.TodoList, error) {
	return s.findTodoList(ctx, "SELECT "+todoListColumns+" FROM todo_lists WHERE id = $1 AND author_id = $2", id, authorID)
}

func (s *PostgresStore) findTodoList(ctx context.Context, query string, args ...interface{}) (*models.TodoList, error) {
	l, err := scanTodoList(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, pgError(err)
	}

	l.Tasks, err = s.ids(ctx, "SELECT id FROM todo_list_tasks WHERE todo_list_id = $1 ORDER BY created_at", l.ID)
	if err != nil {
		return nil, err
	}

	author, err := s.FindUserByID(ctx, l.AuthorID)
	switch {
	case err == nil:
		l.Author = author
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}
	return l, nil
}

func (s *PostgresStore) ListTodoLists(ctx context.Context, authorID string, limit, offset int) ([]*models.TodoList, int64, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+todoListColumns+" FROM todo_lists WHERE author_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3",
		authorID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	lists := []*models.TodoList{}
	for rows.Next() {
		l, err := scanTodoList(rows)
		if err != nil {
			return nil, 0, err
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM todo_lists WHERE author_id = $1", authorID).Scan(&count); err != nil {
		return nil, 0, err
	}

	if len(lists) > 0 {
		author, err := s.FindUserByID(ctx, authorID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, 0, err
		}
		for _, l := range lists {
			l.Author = author
		}
	}
	return lists, count, nil
}

func (s *PostgresStore) UpdateTodoList(ctx context.Context, l *models.TodoList) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		"UPDATE todo_lists SET name=$1, description=$2, updated_at=$3 WHERE id=$4",
		l.Name, l.Description, now, l.ID,
	)
	if err != nil {
		return pgError(err)
	}
	if err := expectRow(res); err != nil {
		return err
	}

	l.UpdatedAt = now
	return nil
}

func (s *PostgresStore) DeleteTodoList(ctx context.Context, l *models.TodoList) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM todo_lists WHERE id = $1", l.ID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// Tasks

const taskColumns = "id, name, description, due_date, completed, todo_list_id, created_at, updated_at"

func (s *PostgresStore) CreateTask(ctx context.Context, list *models.TodoList, t *models.Task) error {
	id, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("failed to generate ID: %w", err)
	}

	now := time.Now().UTC()
	t.ID = id
	t.CreatedAt, t.UpdatedAt = now, now
	list.AddTask(t)

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO todo_list_tasks ("+taskColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		t.ID, t.Name, t.Description, t.DueDate, t.Completed, t.TodoListID, now, now,
	)
	if err != nil {
		return pgError(err)
	}

	_, err = s.db.ExecContext(ctx, "UPDATE todo_lists SET updated_at = $1 WHERE id = $2", now, list.ID)
	if err != nil {
		return fmt.Errorf("link task to todo list: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindTask(ctx context.Context, id string) (*models.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM todo_list_tasks WHERE id = $1", id))
	if err != nil {
		return nil, pgError(err)
	}
	return t, nil
}

func (s *PostgresStore) ListTasks(ctx context.Context, todoListID string) ([]*models.Task, int64, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+taskColumns+" FROM todo_list_tasks WHERE todo_list_id = $1 ORDER BY created_at DESC, id DESC",
		todoListID,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tasks := []*models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return tasks, int64(len(tasks)), nil
}

func (s *PostgresStore) UpdateTask(ctx context.Context, t *models.Task) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		"UPDATE todo_list_tasks SET name=$1, description=$2, due_date=$3, completed=$4, updated_at=$5 WHERE id=$6",
		t.Name, t.Description, t.DueDate, t.Completed, now, t.ID,
	)
	if err != nil {
		return pgError(err)
	}
	if err := expectRow(res); err != nil {
		return err
	}

	t.UpdatedAt = now
	return nil
}

func (s *PostgresStore) DeleteTask(ctx context.Context, t *models.Task) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM todo_list_tasks WHERE id = $1", t.ID)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// helpers

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTodoList(row scanner) (*models.TodoList, error) {
	var l models.TodoList
	if err := row.Scan(&l.ID, &l.Name, &l.Description, &l.AuthorID, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.Tasks = []string{}
	return &l, nil
}

func scanTask(row scanner) (*models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.DueDate, &t.Completed, &t.TodoListID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *PostgresStore) ids(ctx context.Context, query, arg string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func expectRow(res sql.Result) error {
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func pgError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &DuplicateKeyError{Field: "email", Err: err}
	}
	return err
}
