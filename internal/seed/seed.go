// Package seed loads the demo dataset: one admin, two general users, five
// records, and four tasks. All accounts share DemoPassword.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hongminglow/taskdesk/internal/auth"
	"github.com/hongminglow/taskdesk/internal/models"
	"github.com/hongminglow/taskdesk/internal/storage"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "password123"

// Users returns the seeded identities without password hashes.
func Users() []models.User {
	return []models.User{
		{UserID: "admin001", Role: models.RoleAdmin, Name: "Admin User", Email: "admin@example.com", Department: "IT"},
		{UserID: "user001", Role: models.RoleGeneralUser, Name: "John Doe", Email: "john@example.com", Department: "Sales"},
		{UserID: "user002", Role: models.RoleGeneralUser, Name: "Jane Smith", Email: "jane@example.com", Department: "Marketing"},
	}
}

// Records returns the seeded records, oldest first.
func Records(now time.Time) []models.Record {
	recs := []models.Record{
		{ID: "rec-001", UserID: "user001", Title: "Q1 Sales Report", Description: "Quarterly sales analysis and projections", Status: "Completed", Priority: "High", AccessLevel: models.AccessRestricted},
		{ID: "rec-002", UserID: "user001", Title: "Client Meeting Notes", Description: "Notes from ABC Corp meeting", Status: "In Progress", Priority: "Medium", AccessLevel: models.AccessPublic},
		{ID: "rec-003", UserID: "user002", Title: "Marketing Campaign Plan", Description: "Social media campaign strategy", Status: "Pending", Priority: "High", AccessLevel: models.AccessRestricted},
		{ID: "rec-004", UserID: "user002", Title: "Brand Guidelines", Description: "Updated brand identity guidelines", Status: "Completed", Priority: "Low", AccessLevel: models.AccessPublic},
		{ID: "rec-005", UserID: "admin001", Title: "System Maintenance", Description: "Scheduled server maintenance", Status: "Scheduled", Priority: "Critical", AccessLevel: models.AccessPublic},
	}
	for i := range recs {
		recs[i].CreatedAt = now.Add(time.Duration(i-len(recs)) * time.Second)
	}
	return recs
}

// Tasks returns the seeded tasks, oldest first.
func Tasks(now time.Time) []models.Task {
	date := func(s string) time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return t
	}
	tasks := []models.Task{
		{TaskID: "TASK001", Title: "Complete Project Proposal", Description: "Finalize and submit the Q2 project proposal", AssignedTo: "user001", Status: models.StatusInProgress, Priority: models.PriorityHigh, DueDate: date("2026-03-15")},
		{TaskID: "TASK002", Title: "Update Client Documentation", Description: "Revise and update documentation for client deliverables", AssignedTo: "user002", Status: models.StatusNotStarted, Priority: models.PriorityMedium, DueDate: date("2026-03-20")},
		{TaskID: "TASK003", Title: "Code Review - Authentication Module", Description: "Review and approve authentication module implementation", AssignedTo: "user001", Status: models.StatusCompleted, Priority: models.PriorityCritical, DueDate: date("2026-02-28")},
		{TaskID: "TASK004", Title: "Marketing Campaign Analysis", Description: "Analyze campaign metrics and prepare report", AssignedTo: "user002", Status: models.StatusInProgress, Priority: models.PriorityMedium, DueDate: date("2026-03-10")},
	}
	for i := range tasks {
		created := now.Add(time.Duration(i-len(tasks)) * time.Second)
		tasks[i].AssignedBy = "admin001"
		tasks[i].CreatedAt = created
		tasks[i].UpdatedAt = created
	}
	return tasks
}

// Load inserts the demo dataset into store. Documents whose key already
// exists are left as they are, so Load is safe to run on every start.
func Load(ctx context.Context, store storage.Store, hasher *auth.PasswordHasher, logger *slog.Logger) error {
	hash, err := hasher.Hash(DemoPassword)
	if err != nil {
		return err
	}
	now := time.Now().UTC()

	var created, skipped int
	tally := func(kind, key string, err error) error {
		switch {
		case err == nil:
			created++
		case errors.Is(err, storage.ErrAlreadyExists):
			skipped++
		default:
			return fmt.Errorf("seed %s %s: %w", kind, key, err)
		}
		return nil
	}

	for _, user := range Users() {
		user.PasswordHash = hash
		_, err := store.CreateUser(ctx, user)
		if err := tally("user", user.UserID, err); err != nil {
			return err
		}
	}
	for _, rec := range Records(now) {
		_, err := store.CreateRecord(ctx, rec)
		if err := tally("record", rec.ID, err); err != nil {
			return err
		}
	}
	for _, task := range Tasks(now) {
		_, err := store.CreateTask(ctx, task)
		if err := tally("task", task.TaskID, err); err != nil {
			return err
		}
	}

	logger.Info("demo data loaded", "created", created, "skipped", skipped)
	return nil
}
