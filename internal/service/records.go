package service

import (
	"context"

	"github.com/hongminglow/taskdesk/internal/access"
	"github.com/hongminglow/taskdesk/internal/auth"
	"github.com/hongminglow/taskdesk/internal/models"
	"github.com/hongminglow/taskdesk/internal/storage"
)

// RecordService serves record reads scoped to the caller.
type RecordService struct {
	records storage.RecordStore
}

// NewRecordService constructs the service.
func NewRecordService(records storage.RecordStore) *RecordService {
	return &RecordService{records: records}
}

// List returns every record id may read.
func (s *RecordService) List(ctx context.Context, id auth.Identity) ([]models.Record, error) {
	if err := access.AuthorizeRole(id, access.OpReadRecord); err != nil {
		return nil, err
	}
	return s.records.ListRecords(ctx, access.RecordScope(id))
}
