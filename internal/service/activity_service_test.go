package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jadamsuryateja/feedback-console/internal/dto"
	"github.com/jadamsuryateja/feedback-console/internal/model"
	"github.com/jadamsuryateja/feedback-console/internal/repository"
)

func TestRecord_StoresAndPublishes(t *testing.T) {
	repo := &mockActivityRepo{}
	pub := &mockPublisher{}
	svc := NewActivityService(&repository.Repository{ActivityLog: repo}, pub, testLogger())

	svc.Record(context.Background(), &model.ActivityLog{
		Username: "admin", Role: "admin", Action: model.ActionCreate,
		Title: "CSE-D-4-1", Branch: "CSE", Outcome: model.OutcomeOK,
	})

	entries := repo.snapshot()
	if len(entries) != 1 || entries[0].CreatedAt.IsZero() {
		t.Fatalf("expected one timestamped entry, got %+v", entries)
	}
	if len(pub.keys) != 1 || pub.keys[0] != "CSE-D-4-1" {
		t.Errorf("events should be keyed by title, got %v", pub.keys)
	}
}

func TestRecord_FailuresAreSwallowed(t *testing.T) {
	repo := &mockActivityRepo{failErr: errors.New("db down")}
	pub := &mockPublisher{err: errors.New("broker down")}
	svc := NewActivityService(&repository.Repository{ActivityLog: repo}, pub, testLogger())

	// must not panic or block
	svc.Record(context.Background(), &model.ActivityLog{Action: model.ActionDelete, Outcome: model.OutcomeOK})
	if len(pub.keys) != 1 {
		t.Error("publish is attempted even when the store fails")
	}
}

func TestActivityList_Pagination(t *testing.T) {
	repo := &mockActivityRepo{}
	svc := NewActivityService(&repository.Repository{ActivityLog: repo}, nil, testLogger())
	for _, title := range []string{"A", "B", "C", "B"} {
		svc.Record(context.Background(), &model.ActivityLog{Title: title, Action: model.ActionCreate, Outcome: model.OutcomeOK})
	}

	req := &dto.ActivityListRequest{PaginationRequest: dto.PaginationRequest{Page: 1, PageSize: 2}}
	logs, total, err := svc.List(context.Background(), req)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 4 || len(logs) != 2 {
		t.Errorf("expected 2 of 4, got %d of %d", len(logs), total)
	}
	if logs[0].Title != "B" || logs[1].Title != "C" {
		t.Errorf("expected newest first, got %s %s", logs[0].Title, logs[1].Title)
	}

	req.Title = "B"
	_, total, _ = svc.List(context.Background(), req)
	if total != 2 {
		t.Errorf("title filter: expected 2, got %d", total)
	}
}
