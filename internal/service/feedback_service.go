package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/jadamsuryateja/feedback-console/config"
	"github.com/jadamsuryateja/feedback-console/internal/aggregate"
	"github.com/jadamsuryateja/feedback-console/internal/dto"
	"github.com/jadamsuryateja/feedback-console/internal/gateway"
	"github.com/jadamsuryateja/feedback-console/internal/model"
	"github.com/jadamsuryateja/feedback-console/internal/report"
)

// The texts are shown to the user verbatim.
var (
	ErrMissingSummaryFilters = errors.New("Please fill all required fields")
	ErrBranchRequired        = errors.New("Please select a branch")
	ErrBSHBranchRequired     = errors.New("Please select a BSH branch")
	ErrNoFeedbackData        = errors.New("No feedback data found for the selected criteria")
	ErrEmptySubmission       = errors.New("feedback payload is empty")
)

// ReportFile is a rendered report ready for download.
type ReportFile struct {
	Name    string
	Content *bytes.Buffer
}

// FeedbackService feedback summaries, responses and reports
type FeedbackService interface {
	Summary(ctx context.Context, actor *Actor, q *dto.SummaryQuery) (*dto.SummaryResponse, error)
	Responses(ctx context.Context, actor *Actor, q *dto.SummaryQuery) ([]model.FeedbackResponse, error)
	// Submit forwards a student response unchanged.
	Submit(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)
	Report(ctx context.Context, actor *Actor, q *dto.SummaryQuery) (*ReportFile, error)
}

type feedbackService struct {
	upstream Upstream
	notifier RefreshNotifier
	policy   aggregate.Policy
	opts     report.Options
	logger   *zap.Logger
}

// NewFeedbackService creates a FeedbackService. The aggregation policy was
// validated by config.Validate.
func NewFeedbackService(cfg *config.Config, upstream Upstream, notifier RefreshNotifier, logger *zap.Logger) FeedbackService {
	policy, err := aggregate.ParsePolicy(cfg.Report.AggregationPolicy)
	if err != nil {
		logger.Warn("unknown aggregation policy, using default",
			zap.String("policy", cfg.Report.AggregationPolicy))
		policy = aggregate.DefaultPolicy
	}
	return &feedbackService{
		upstream: upstream,
		notifier: notifier,
		policy:   policy,
		opts: report.Options{
			InstitutionName: cfg.Report.InstitutionName,
			Title:           cfg.Report.ReportTitle,
			Signatory:       cfg.Report.Signatory,
			Policy:          policy,
		},
		logger: logger,
	}
}

// selector resolves the upstream query for actor. Coordinators only see
// their own branch; BSH users always query the BSH side.
func selector(actor *Actor, q *dto.SummaryQuery) (gateway.SummaryQuery, error) {
	if q.AcademicYear == "" || q.Year == 0 || q.Semester == 0 || q.Section == "" {
		return gateway.SummaryQuery{}, ErrMissingSummaryFilters
	}
	sq := gateway.SummaryQuery{
		AcademicYear: q.AcademicYear,
		Year:         q.Year,
		Semester:     q.Semester,
		Section:      q.Section,
		Branch:       q.Branch,
		IsBSH:        q.IsBSH,
	}
	switch actor.Role() {
	case model.RoleCoordinator:
		if actor.Identity.Branch != "" {
			sq.Branch = actor.Identity.Branch
		}
	case model.RoleBSH:
		sq.IsBSH = true
	}
	if sq.Branch == "" {
		if sq.IsBSH {
			return gateway.SummaryQuery{}, ErrBSHBranchRequired
		}
		return gateway.SummaryQuery{}, ErrBranchRequired
	}
	return sq, nil
}

func (s *feedbackService) fetch(ctx context.Context, actor *Actor, q *dto.SummaryQuery) (gateway.SummaryQuery, *gateway.Summary, error) {
	sq, err := selector(actor, q)
	if err != nil {
		return sq, nil, err
	}
	sum, err := s.upstream.FeedbackSummary(ctx, actor.UpstreamToken, sq)
	if err != nil {
		s.logger.Error("fetch feedback summary", zap.String("branch", sq.Branch), zap.Error(err))
		return sq, nil, err
	}
	if sum.Empty() {
		return sq, nil, ErrNoFeedbackData
	}
	return sq, sum, nil
}

func (s *feedbackService) Summary(ctx context.Context, actor *Actor, q *dto.SummaryQuery) (*dto.SummaryResponse, error) {
	_, sum, err := s.fetch(ctx, actor, q)
	if err != nil {
		return nil, err
	}

	out := &dto.SummaryResponse{
		Summary:  make([]dto.SummaryRecord, 0, len(sum.Summary)),
		Comments: sum.Comments,
		Policy:   s.policy.String(),
	}
	if out.Comments == nil {
		out.Comments = []model.Comment{}
	}
	for _, rec := range sum.Summary {
		out.Summary = append(out.Summary, dto.SummaryRecord{
			FeedbackSummaryRecord: rec,
			OverallPercentage:     aggregate.Overall(rec.QuestionScores, s.policy),
		})
	}
	return out, nil
}

func (s *feedbackService) Responses(ctx context.Context, actor *Actor, q *dto.SummaryQuery) ([]model.FeedbackResponse, error) {
	sq, err := selector(actor, q)
	if err != nil {
		return nil, err
	}
	resp, err := s.upstream.FeedbackResponses(ctx, actor.UpstreamToken, sq)
	if err != nil {
		s.logger.Error("fetch feedback responses", zap.String("branch", sq.Branch), zap.Error(err))
		return nil, err
	}
	return resp, nil
}

func (s *feedbackService) Submit(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, ErrEmptySubmission
	}
	out, err := s.upstream.SubmitFeedback(ctx, payload)
	if err != nil {
		s.logger.Error("submit feedback", zap.Error(err))
		return nil, err
	}

	var hint struct {
		Branch string `json:"branch"`
	}
	_ = json.Unmarshal(payload, &hint)
	if s.notifier != nil {
		if err := s.notifier.FeedbackChanged(ctx, hint.Branch); err != nil {
			s.logger.Warn("notify feedback change", zap.Error(err))
		}
	}
	return out, nil
}

func (s *feedbackService) Report(ctx context.Context, actor *Actor, q *dto.SummaryQuery) (*ReportFile, error) {
	sq, sum, err := s.fetch(ctx, actor, q)
	if err != nil {
		return nil, err
	}

	filter := report.Filter{
		AcademicYear: sq.AcademicYear,
		Year:         sq.Year,
		Semester:     sq.Semester,
		Branch:       sq.Branch,
		Section:      sq.Section,
	}
	doc := report.Build(filter, sum.Summary, sum.Comments, s.opts)
	buf, err := report.WriteExcel(doc)
	if err != nil {
		s.logger.Error("render report", zap.String("branch", sq.Branch), zap.Error(err))
		return nil, err
	}
	return &ReportFile{Name: report.FileName(filter), Content: buf}, nil
}
