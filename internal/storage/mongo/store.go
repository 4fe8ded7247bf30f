package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hongminglow/taskdesk/internal/models"
	"github.com/hongminglow/taskdesk/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

const (
	usersCollection   = "users"
	recordsCollection = "records"
	tasksCollection   = "tasks"

	disconnectTimeout = 5 * time.Second
)

// Store provides MongoDB-backed persistence. Every document is keyed by its
// natural identifier (userId, taskId) through a unique index.
type Store struct {
	client  *mongo.Client
	users   *mongo.Collection
	records *mongo.Collection
	tasks   *mongo.Collection
}

// NewStore connects to uri, selects database, and ensures indexes exist.
func NewStore(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client:  client,
		users:   db.Collection(usersCollection),
		records: db.Collection(recordsCollection),
		tasks:   db.Collection(tasksCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

// Close disconnects the client.
func (s *Store) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		slog.Default().Warn("mongodb disconnect failed", "error", err)
	}
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{s.users, mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{s.tasks, mongo.IndexModel{Keys: bson.D{{Key: "taskId", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{s.tasks, mongo.IndexModel{Keys: bson.D{{Key: "assignedTo", Value: 1}, {Key: "createdAt", Value: -1}}}},
		{s.records, mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}}}},
	}
	for _, idx := range indexes {
		if _, err := idx.coll.Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("create index on %s: %w", idx.coll.Name(), err)
		}
	}
	return nil
}

// CreateUser inserts a new user document.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		return models.User{}, insertErr(err)
	}
	return user, nil
}

// FindUser fetches a user by identifier.
func (s *Store) FindUser(ctx context.Context, userID string) (models.User, error) {
	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"userId": userID}).Decode(&user); err != nil {
		return models.User{}, notFound(err)
	}
	return user, nil
}

// ListUsers returns every user ordered by identifier.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	cursor, err := s.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "userId", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

// UpdateUser replaces the mutable fields of an existing user.
func (s *Store) UpdateUser(ctx context.Context, user models.User) (models.User, error) {
	update := bson.M{"$set": bson.M{
		"name":       user.Name,
		"email":      user.Email,
		"role":       user.Role,
		"department": user.Department,
		"password":   user.PasswordHash,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.User
	if err := s.users.FindOneAndUpdate(ctx, bson.M{"userId": user.UserID}, update, opts).Decode(&updated); err != nil {
		return models.User{}, notFound(err)
	}
	return updated, nil
}

// DeleteUser removes a user by identifier.
func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	return deleteOne(ctx, s.users, bson.M{"userId": userID})
}

// CreateRecord inserts a record, generating an id when none is set.
func (s *Store) CreateRecord(ctx context.Context, rec models.Record) (models.Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if _, err := s.records.InsertOne(ctx, rec); err != nil {
		return models.Record{}, insertErr(err)
	}
	return rec, nil
}

// ListRecords returns records matching filter, newest first.
func (s *Store) ListRecords(ctx context.Context, filter storage.RecordFilter) ([]models.Record, error) {
	query := bson.M{}
	if filter.Scoped {
		clauses := bson.A{bson.M{"accessLevel": models.AccessPublic}}
		if filter.VisibleTo != "" {
			clauses = append(clauses, bson.M{"userId": filter.VisibleTo})
		}
		query = bson.M{"$or": clauses}
	}
	cursor, err := s.records.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	records := []models.Record{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

// CreateTask inserts a task document.
func (s *Store) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	if _, err := s.tasks.InsertOne(ctx, task); err != nil {
		return models.Task{}, insertErr(err)
	}
	return task, nil
}

// FindTask fetches a task by id.
func (s *Store) FindTask(ctx context.Context, taskID string) (models.Task, error) {
	var task models.Task
	if err := s.tasks.FindOne(ctx, bson.M{"taskId": taskID}).Decode(&task); err != nil {
		return models.Task{}, notFound(err)
	}
	return task, nil
}

// ListTasks returns tasks matching filter, newest-created first.
func (s *Store) ListTasks(ctx context.Context, filter storage.TaskFilter) ([]models.Task, error) {
	query := bson.M{}
	if filter.Scoped {
		if filter.AssignedTo == "" {
			return []models.Task{}, nil
		}
		query = bson.M{"assignedTo": filter.AssignedTo}
	}
	cursor, err := s.tasks.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask replaces the mutable fields of an existing task.
func (s *Store) UpdateTask(ctx context.Context, task models.Task) (models.Task, error) {
	update := bson.M{"$set": bson.M{
		"title":       task.Title,
		"description": task.Description,
		"assignedTo":  task.AssignedTo,
		"status":      task.Status,
		"priority":    task.Priority,
		"dueDate":     task.DueDate,
		"updatedAt":   task.UpdatedAt,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Task
	if err := s.tasks.FindOneAndUpdate(ctx, bson.M{"taskId": task.TaskID}, update, opts).Decode(&updated); err != nil {
		return models.Task{}, notFound(err)
	}
	return updated, nil
}

// DeleteTask removes a task by id.
func (s *Store) DeleteTask(ctx context.Context, taskID string) error {
	return deleteOne(ctx, s.tasks, bson.M{"taskId": taskID})
}

func deleteOne(ctx context.Context, coll *mongo.Collection, filter bson.M) error {
	res, err := coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func insertErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return storage.ErrAlreadyExists
	}
	return err
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.ErrNotFound
	}
	return err
}
