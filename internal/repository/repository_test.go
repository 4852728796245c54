package repository

import (
	"context"
	"testing"

	"github.com/jadamsuryateja/feedback-console/internal/model"
)

func TestNewRepository_NilDBIsNoop(t *testing.T) {
	repo := NewRepository(nil)
	ctx := context.Background()

	if err := repo.ActivityLog.Create(ctx, &model.ActivityLog{Username: "u"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	logs, total, err := repo.ActivityLog.List(ctx, ActivityFilter{Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 0 || len(logs) != 0 || logs == nil {
		t.Errorf("expected empty non-nil list, got %v (%d)", logs, total)
	}
}
