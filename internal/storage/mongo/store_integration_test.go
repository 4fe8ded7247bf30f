package mongo

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/taskdesk/internal/models"
	"github.com/hongminglow/taskdesk/internal/storage"
)

// TestStoreIntegration exercises the MongoDB driver against a live server.
// It uses a throwaway database that is dropped afterwards.
func TestStoreIntegration(t *testing.T) {
	if os.Getenv("RUN_MONGO_INTEGRATION") != "true" {
		t.Skip("set RUN_MONGO_INTEGRATION=true to run this integration test")
	}

	for _, path := range []string{".env", "../.env", "../../.env", "../../../.env"} {
		_ = godotenv.Overload(path)
	}
	uri := strings.TrimSpace(os.Getenv("MONGODB_URI"))
	if uri == "" {
		t.Fatal("MONGODB_URI is required")
	}

	ctx := context.Background()
	database := fmt.Sprintf("taskdesk_itest_%d", time.Now().UnixNano())
	store, err := NewStore(ctx, uri, database)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.client.Database(database).Drop(context.Background())
		store.Close()
	})

	_, err = store.CreateUser(ctx, models.User{UserID: "user001", Name: "John", Role: models.RoleGeneralUser, PasswordHash: "hash"})
	require.NoError(t, err)
	_, err = store.CreateUser(ctx, models.User{UserID: "user001"})
	require.ErrorIs(t, err, storage.ErrAlreadyExists)

	found, err := store.FindUser(ctx, "user001")
	require.NoError(t, err)
	assert.Equal(t, "hash", found.PasswordHash)

	_, err = store.UpdateUser(ctx, models.User{UserID: "ghost"})
	require.ErrorIs(t, err, storage.ErrNotFound)

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i, rec := range []models.Record{
		{ID: "r1", UserID: "user001", AccessLevel: models.AccessRestricted},
		{ID: "r2", UserID: "user002", AccessLevel: models.AccessRestricted},
		{ID: "r3", UserID: "user002", AccessLevel: models.AccessPublic},
	} {
		rec.CreatedAt = base.Add(time.Duration(i) * time.Second)
		_, err := store.CreateRecord(ctx, rec)
		require.NoError(t, err)
	}
	visible, err := store.ListRecords(ctx, storage.RecordFilter{Scoped: true, VisibleTo: "user001"})
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, "r3", visible[0].ID)
	assert.Equal(t, "r1", visible[1].ID)

	for i, id := range []string{"TASK001", "TASK002"} {
		created := base.Add(time.Duration(i) * time.Second)
		_, err := store.CreateTask(ctx, models.Task{
			TaskID:     id,
			AssignedTo: "user001",
			AssignedBy: "admin001",
			Status:     models.StatusNotStarted,
			Priority:   models.PriorityLow,
			DueDate:    created.Add(48 * time.Hour),
			CreatedAt:  created,
			UpdatedAt:  created,
		})
		require.NoError(t, err)
	}
	tasks, err := store.ListTasks(ctx, storage.TaskFilter{Scoped: true, AssignedTo: "user001"})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "TASK002", tasks[0].TaskID)

	task := tasks[1]
	task.Status = models.StatusOnHold
	task.UpdatedAt = base.Add(time.Hour)
	updated, err := store.UpdateTask(ctx, task)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOnHold, updated.Status)
	assert.Equal(t, "admin001", updated.AssignedBy)

	require.NoError(t, store.DeleteTask(ctx, "TASK001"))
	require.ErrorIs(t, store.DeleteTask(ctx, "TASK001"), storage.ErrNotFound)
}
