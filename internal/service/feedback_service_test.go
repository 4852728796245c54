package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/jadamsuryateja/feedback-console/internal/dto"
	"github.com/jadamsuryateja/feedback-console/internal/gateway"
	"github.com/jadamsuryateja/feedback-console/internal/model"
)

func uniformScores(pct float64) model.QuestionScores {
	qs := model.QuestionScores{}
	for i := 1; i <= model.QuestionCount; i++ {
		qs[model.QuestionKey(i)] = model.QuestionScore{Score: pct / 20, Percentage: pct}
	}
	return qs
}

func setupTestFeedbackService(policy string) (FeedbackService, *mockUpstream, *mockNotifier) {
	cfg := testConfig()
	cfg.Report.AggregationPolicy = policy
	up := newMockUpstream()
	up.summary = &gateway.Summary{
		Summary: []model.FeedbackSummaryRecord{
			{TeacherName: "Dr. Rao", SubjectName: "Compiler Design", Type: model.FeedbackTheory, TotalResponses: 40, QuestionScores: uniformScores(80)},
			{TeacherName: "Mrs. Devi", SubjectName: "Compiler Lab", Type: model.FeedbackLab, TotalResponses: 38, QuestionScores: uniformScores(90)},
		},
		Comments: []model.Comment{{CollegeComments: "Good", DepartmentComments: ""}},
	}
	notifier := &mockNotifier{}
	return NewFeedbackService(cfg, up, notifier, testLogger()), up, notifier
}

func classQuery() *dto.SummaryQuery {
	return &dto.SummaryQuery{AcademicYear: "2024-2025", Year: 4, Semester: 1, Section: "D", Branch: "CSE"}
}

func TestSummary_Success(t *testing.T) {
	svc, _, _ := setupTestFeedbackService("mean")

	res, err := svc.Summary(context.Background(), testActor(model.RoleAdmin, ""), classQuery())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(res.Summary) != 2 {
		t.Fatalf("expected 2 records, got %d", len(res.Summary))
	}
	if res.Summary[0].OverallPercentage != "80.00" || res.Summary[1].OverallPercentage != "90.00" {
		t.Errorf("unexpected overall values %s %s", res.Summary[0].OverallPercentage, res.Summary[1].OverallPercentage)
	}
	if res.Policy != "mean" {
		t.Errorf("expected mean policy, got %s", res.Policy)
	}
	if len(res.Comments) != 1 {
		t.Errorf("comments should pass through")
	}
}

func TestSummary_RequiredFilters(t *testing.T) {
	svc, _, _ := setupTestFeedbackService("mean")
	admin := testActor(model.RoleAdmin, "")

	q := classQuery()
	q.Section = ""
	if _, err := svc.Summary(context.Background(), admin, q); !errors.Is(err, ErrMissingSummaryFilters) {
		t.Errorf("expected ErrMissingSummaryFilters, got %v", err)
	}

	q = classQuery()
	q.Branch = ""
	if _, err := svc.Summary(context.Background(), admin, q); !errors.Is(err, ErrBranchRequired) {
		t.Errorf("expected ErrBranchRequired, got %v", err)
	}

	q.IsBSH = true
	if _, err := svc.Summary(context.Background(), admin, q); !errors.Is(err, ErrBSHBranchRequired) {
		t.Errorf("expected ErrBSHBranchRequired, got %v", err)
	}
}

func TestSummary_RoleScoping(t *testing.T) {
	svc, up, _ := setupTestFeedbackService("mean")

	q := classQuery()
	q.Branch = "ECE"
	if _, err := svc.Summary(context.Background(), testActor(model.RoleCoordinator, "CSE"), q); err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if up.lastSummary.Branch != "CSE" || up.lastSummary.IsBSH {
		t.Errorf("coordinator should be pinned to own branch, got %+v", up.lastSummary)
	}

	if _, err := svc.Summary(context.Background(), testActor(model.RoleBSH, ""), classQuery()); err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if !up.lastSummary.IsBSH {
		t.Error("BSH queries always set isBSH")
	}
}

func TestSummary_NoData(t *testing.T) {
	svc, up, _ := setupTestFeedbackService("mean")
	up.summary = nil

	_, err := svc.Summary(context.Background(), testActor(model.RoleAdmin, ""), classQuery())
	if !errors.Is(err, ErrNoFeedbackData) {
		t.Errorf("expected ErrNoFeedbackData, got %v", err)
	}
}

func TestSummary_WeightedPolicy(t *testing.T) {
	svc, up, _ := setupTestFeedbackService("weighted")
	up.summary.Summary = up.summary.Summary[:1]
	up.summary.Summary[0].QuestionScores = model.QuestionScores{
		"Q1": {Score: 4, Percentage: 80},
		"Q2": {Score: 0, Percentage: 0},
	}

	res, err := svc.Summary(context.Background(), testActor(model.RoleAdmin, ""), classQuery())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if got := res.Summary[0].OverallPercentage; got != "80.00" {
		t.Errorf("weighted overall = %s, want 80.00", got)
	}
}

func TestSubmit_ForwardsAndNotifies(t *testing.T) {
	svc, up, notifier := setupTestFeedbackService("mean")
	payload := json.RawMessage(`{"branch":"ECE","section":"A","ratings":{"Q1":5}}`)

	out, err := svc.Submit(context.Background(), payload)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !strings.Contains(string(out), "submitted") {
		t.Errorf("unexpected upstream reply %s", out)
	}
	if len(up.submitted) != 1 || string(up.submitted[0]) != string(payload) {
		t.Error("payload should be forwarded unchanged")
	}
	calls := notifier.snapshot()
	if len(calls) != 1 || calls[0] != (refreshCall{"feedback", "ECE"}) {
		t.Errorf("expected feedback refresh for ECE, got %v", calls)
	}

	if _, err := svc.Submit(context.Background(), json.RawMessage("  ")); !errors.Is(err, ErrEmptySubmission) {
		t.Errorf("expected ErrEmptySubmission, got %v", err)
	}
}

func TestResponses(t *testing.T) {
	svc, up, _ := setupTestFeedbackService("mean")
	up.responses = []model.FeedbackResponse{{Title: "CSE-D-4-1", CollegeComments: "ok"}}

	got, err := svc.Responses(context.Background(), testActor(model.RoleAdmin, ""), classQuery())
	if err != nil {
		t.Fatalf("Responses: %v", err)
	}
	if len(got) != 1 || got[0].Title != "CSE-D-4-1" {
		t.Errorf("unexpected responses %+v", got)
	}
}

func TestReport_RendersWorkbook(t *testing.T) {
	svc, _, _ := setupTestFeedbackService("mean")

	file, err := svc.Report(context.Background(), testActor(model.RoleAdmin, ""), classQuery())
	if err != nil {
		t.Fatalf("Report: %v", err)
	}
	if file.Name != "feedback-report-CSE-4-1-D.xlsx" {
		t.Errorf("unexpected file name %s", file.Name)
	}

	wb, err := excelize.OpenReader(file.Content)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer wb.Close()
	title, _ := wb.GetCellValue("Feedback Report", "A1")
	if title != "TEST COLLEGE" {
		t.Errorf("A1 = %q", title)
	}
}
