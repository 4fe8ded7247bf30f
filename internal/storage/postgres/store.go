package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hongminglow/taskdesk/internal/models"
	"github.com/hongminglow/taskdesk/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// uniqueViolation is the SQLSTATE Postgres reports for duplicate keys.
const uniqueViolation = "23505"

// Store provides Postgres-backed persistence for users, records, and tasks.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to databaseURL and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			role TEXT NOT NULL,
			department TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			status TEXT NOT NULL,
			priority TEXT NOT NULL,
			access_level TEXT NOT NULL DEFAULT 'public',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS records_user_id_idx ON records (user_id);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			task_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			assigned_to TEXT NOT NULL,
			assigned_by TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'Not Started',
			priority TEXT NOT NULL DEFAULT 'Medium',
			due_date TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS tasks_assigned_to_idx ON tasks (assigned_to, created_at DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

const userColumns = `user_id, name, email, role, department, password_hash, created_at`

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (user_id, name, email, role, department, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, user.UserID, user.Name, user.Email, user.Role, user.Department, user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, err
	}
	return created, nil
}

// FindUser fetches a user by identifier.
func (s *Store) FindUser(ctx context.Context, userID string) (models.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, userID)
	return scanUser(row)
}

// ListUsers returns every user ordered by identifier.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateUser overwrites the mutable columns of an existing user.
func (s *Store) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		UPDATE users SET name = $2, email = $3, role = $4, department = $5, password_hash = $6
		WHERE user_id = $1
		RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, query, user.UserID, user.Name, user.Email, user.Role, user.Department, user.PasswordHash)
	return scanUser(row)
}

// DeleteUser removes a user by identifier.
func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

const recordColumns = `id, user_id, title, description, status, priority, access_level, created_at`

// CreateRecord inserts a record, generating an id when none is set.
func (s *Store) CreateRecord(ctx context.Context, rec models.Record) (models.Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	const query = `
		INSERT INTO records (id, user_id, title, description, status, priority, access_level, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + recordColumns
	row := s.pool.QueryRow(ctx, query, rec.ID, rec.UserID, rec.Title, rec.Description, rec.Status, rec.Priority, rec.AccessLevel, rec.CreatedAt)
	created, err := scanRecord(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Record{}, storage.ErrAlreadyExists
		}
		return models.Record{}, err
	}
	return created, nil
}

// ListRecords returns records matching filter, newest first.
func (s *Store) ListRecords(ctx context.Context, filter storage.RecordFilter) ([]models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records`
	var args []any
	if filter.Scoped {
		query += ` WHERE (user_id = $1 AND $1 <> '') OR access_level = $2`
		args = append(args, filter.VisibleTo, models.AccessPublic)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	records := []models.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

const taskColumns = `task_id, title, description, assigned_to, assigned_by, status, priority, due_date, created_at, updated_at`

// CreateTask inserts a task row.
func (s *Store) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	const query = `
		INSERT INTO tasks (task_id, title, description, assigned_to, assigned_by, status, priority, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + taskColumns
	row := s.pool.QueryRow(ctx, query,
		task.TaskID, task.Title, task.Description, task.AssignedTo, task.AssignedBy,
		task.Status, task.Priority, task.DueDate, task.CreatedAt, task.UpdatedAt)
	created, err := scanTask(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Task{}, storage.ErrAlreadyExists
		}
		return models.Task{}, err
	}
	return created, nil
}

// FindTask fetches a task by id.
func (s *Store) FindTask(ctx context.Context, taskID string) (models.Task, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE task_id = $1`, taskID)
	return scanTask(row)
}

// ListTasks returns tasks matching filter, newest-created first.
func (s *Store) ListTasks(ctx context.Context, filter storage.TaskFilter) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	var args []any
	if filter.Scoped {
		query += ` WHERE assigned_to = $1 AND $1 <> ''`
		args = append(args, filter.AssignedTo)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// UpdateTask overwrites the mutable columns of an existing task.
func (s *Store) UpdateTask(ctx context.Context, task models.Task) (models.Task, error) {
	const query = `
		UPDATE tasks SET title = $2, description = $3, assigned_to = $4, status = $5,
			priority = $6, due_date = $7, updated_at = $8
		WHERE task_id = $1
		RETURNING ` + taskColumns
	row := s.pool.QueryRow(ctx, query,
		task.TaskID, task.Title, task.Description, task.AssignedTo,
		task.Status, task.Priority, task.DueDate, task.UpdatedAt)
	return scanTask(row)
}

// DeleteTask removes a task by id.
func (s *Store) DeleteTask(ctx context.Context, taskID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE task_id = $1`, taskID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.UserID, &user.Name, &user.Email, &user.Role, &user.Department, &user.PasswordHash, &user.CreatedAt); err != nil {
		return models.User{}, notFound(err)
	}
	return user, nil
}

func scanRecord(row pgx.Row) (models.Record, error) {
	var rec models.Record
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.Title, &rec.Description, &rec.Status, &rec.Priority, &rec.AccessLevel, &rec.CreatedAt); err != nil {
		return models.Record{}, notFound(err)
	}
	return rec, nil
}

func scanTask(row pgx.Row) (models.Task, error) {
	var task models.Task
	if err := row.Scan(&task.TaskID, &task.Title, &task.Description, &task.AssignedTo, &task.AssignedBy,
		&task.Status, &task.Priority, &task.DueDate, &task.CreatedAt, &task.UpdatedAt); err != nil {
		return models.Task{}, notFound(err)
	}
	return task, nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
