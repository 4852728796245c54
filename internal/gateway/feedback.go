package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jadamsuryateja/feedback-console/internal/model"
)

// SummaryQuery selects one class's feedback.
type SummaryQuery struct {
	AcademicYear string
	Year         int
	Semester     int
	Section      string
	Branch       string
	IsBSH        bool
}

// Values encodes q the way the upstream expects.
func (q SummaryQuery) Values() url.Values {
	v := url.Values{}
	setNonEmpty(v, "academicYear", q.AcademicYear)
	if q.Year > 0 {
		v.Set("year", strconv.Itoa(q.Year))
	}
	if q.Semester > 0 {
		v.Set("semester", strconv.Itoa(q.Semester))
	}
	setNonEmpty(v, "section", q.Section)
	setNonEmpty(v, "branch", q.Branch)
	v.Set("isBSH", strconv.FormatBool(q.IsBSH))
	return v
}

// Summary is the upstream's aggregated feedback for a class.
type Summary struct {
	Summary  []model.FeedbackSummaryRecord `json:"summary"`
	Comments []model.Comment               `json:"comments"`
}

// Empty reports whether there is no summary data.
func (s *Summary) Empty() bool { return s == nil || len(s.Summary) == 0 }

// SubmitFeedback forwards a student response. No credential is needed.
func (c *Client) SubmitFeedback(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	data, err := c.send(ctx, request{
		op:     "submit feedback",
		method: http.MethodPost,
		path:   "/feedback/submit",
		body:   payload,
	})
	if err != nil {
		return nil, mapError(err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return json.RawMessage("{}"), nil
	}
	if !json.Valid(data) {
		return nil, mapError(&upstreamError{status: http.StatusBadGateway, message: genericServerMessage})
	}
	return data, nil
}

// FeedbackSummary fetches the summary for q. An empty body is an empty
// summary rather than an error.
func (c *Client) FeedbackSummary(ctx context.Context, token string, q SummaryQuery) (*Summary, error) {
	data, err := c.send(ctx, request{
		op:     "feedback summary",
		method: http.MethodGet,
		path:   "/feedback/summary",
		query:  q.Values(),
		token:  token,
	})
	if err != nil {
		return nil, mapError(err)
	}

	out := &Summary{}
	if t := bytes.TrimSpace(data); len(t) == 0 || bytes.Equal(t, []byte("null")) {
		return out, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return nil, mapError(&upstreamError{status: http.StatusBadGateway, message: genericServerMessage})
	}
	return out, nil
}

// FeedbackResponses fetches the raw responses for q.
func (c *Client) FeedbackResponses(ctx context.Context, token string, q SummaryQuery) ([]model.FeedbackResponse, error) {
	var out []model.FeedbackResponse
	if err := c.do(ctx, request{
		op:     "feedback responses",
		method: http.MethodGet,
		path:   "/feedback/responses",
		query:  q.Values(),
		token:  token,
	}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.FeedbackResponse{}
	}
	return out, nil
}
