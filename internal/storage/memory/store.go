// Package memory is an in-process storage.Store used by tests and local demos.
// It applies the same filter and ordering rules as the database drivers.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/taskdesk/internal/models"
	"github.com/hongminglow/taskdesk/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps documents in maps guarded by a single RWMutex. Values are
// copied in and out so callers never share memory with the store.
type Store struct {
	mu      sync.RWMutex
	seq     uint64
	users   map[string]models.User
	records map[string]entry[models.Record]
	tasks   map[string]entry[models.Task]
}

// entry remembers insertion order to break createdAt ties deterministically.
type entry[T any] struct {
	seq uint64
	doc T
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		users:   make(map[string]models.User),
		records: make(map[string]entry[models.Record]),
		tasks:   make(map[string]entry[models.Task]),
	}
}

// Close is a no-op.
func (s *Store) Close() {}

func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.UserID]; ok {
		return models.User{}, storage.ErrAlreadyExists
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.users[user.UserID] = user
	return user, nil
}

func (s *Store) FindUser(_ context.Context, userID string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UserID < users[j].UserID })
	return users, nil
}

func (s *Store) UpdateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[user.UserID]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	user.CreatedAt = current.CreatedAt
	s.users[user.UserID] = user
	return user, nil
}

func (s *Store) DeleteUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, userID)
	return nil
}

func (s *Store) CreateRecord(_ context.Context, rec models.Record) (models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if _, ok := s.records[rec.ID]; ok {
		return models.Record{}, storage.ErrAlreadyExists
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	s.seq++
	s.records[rec.ID] = entry[models.Record]{seq: s.seq, doc: rec}
	return rec, nil
}

func (s *Store) ListRecords(_ context.Context, filter storage.RecordFilter) ([]models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]entry[models.Record], 0, len(s.records))
	for _, e := range s.records {
		if filter.Matches(e.doc) {
			matched = append(matched, e)
		}
	}
	return newestFirst(matched, func(r models.Record) time.Time { return r.CreatedAt }), nil
}

func (s *Store) CreateTask(_ context.Context, task models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.TaskID]; ok {
		return models.Task{}, storage.ErrAlreadyExists
	}
	s.seq++
	s.tasks[task.TaskID] = entry[models.Task]{seq: s.seq, doc: task}
	return task, nil
}

func (s *Store) FindTask(_ context.Context, taskID string) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.tasks[taskID]
	if !ok {
		return models.Task{}, storage.ErrNotFound
	}
	return e.doc, nil
}

func (s *Store) ListTasks(_ context.Context, filter storage.TaskFilter) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]entry[models.Task], 0, len(s.tasks))
	for _, e := range s.tasks {
		if filter.Matches(e.doc) {
			matched = append(matched, e)
		}
	}
	return newestFirst(matched, func(t models.Task) time.Time { return t.CreatedAt }), nil
}

func (s *Store) UpdateTask(_ context.Context, task models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.tasks[task.TaskID]
	if !ok {
		return models.Task{}, storage.ErrNotFound
	}
	task.AssignedBy = e.doc.AssignedBy
	task.CreatedAt = e.doc.CreatedAt
	e.doc = task
	s.tasks[task.TaskID] = e
	return task, nil
}

func (s *Store) DeleteTask(_ context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[taskID]; !ok {
		return storage.ErrNotFound
	}
	delete(s.tasks, taskID)
	return nil
}

func newestFirst[T any](entries []entry[T], createdAt func(T) time.Time) []T {
	sort.Slice(entries, func(i, j int) bool {
		ti, tj := createdAt(entries[i].doc), createdAt(entries[j].doc)
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return entries[i].seq > entries[j].seq
	})
	out := make([]T, len(entries))
	for i, e := range entries {
		out[i] = e.doc
	}
	return out
}
