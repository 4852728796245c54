package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jadamsuryateja/feedback-console/internal/model"
	apperrors "github.com/jadamsuryateja/feedback-console/pkg/errors"
)

// duplicateTitleMessage is the upstream's text for a title collision.
const duplicateTitleMessage = "Configuration with this title already exists"

// CreateOutcome tags a CreateResult.
type CreateOutcome int

const (
	Created CreateOutcome = iota + 1
	Duplicate
)

// CreateResult is the outcome of CreateConfig. Config is set for Created;
// Title echoes the offending title for Duplicate.
type CreateResult struct {
	Outcome CreateOutcome
	Config  *model.Configuration
	Title   string
}

// DuplicateError converts a Duplicate result into the typed error, or nil.
func (r *CreateResult) DuplicateError() error {
	if r == nil || r.Outcome != Duplicate {
		return nil
	}
	return &apperrors.DuplicateIdentityError{Title: r.Title}
}

// ListQuery holds the optional list filters. Zero values are omitted.
type ListQuery struct {
	AcademicYear string
	Year         int
	Semester     int
	Branch       string
	Section      string
	Role         model.Role
}

// Values encodes the non-empty filters.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	setNonEmpty(v, "academicYear", q.AcademicYear)
	if q.Year > 0 {
		v.Set("year", strconv.Itoa(q.Year))
	}
	if q.Semester > 0 {
		v.Set("semester", strconv.Itoa(q.Semester))
	}
	setNonEmpty(v, "branch", q.Branch)
	setNonEmpty(v, "section", q.Section)
	setNonEmpty(v, "role", string(q.Role))
	return v
}

func setNonEmpty(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func isDuplicate(err error) bool {
	var ue *upstreamError
	if !errors.As(err, &ue) {
		return false
	}
	return ue.message == duplicateTitleMessage ||
		(ue.status == http.StatusConflict && strings.Contains(ue.message, "already exists"))
}

// CreateConfig submits a new configuration. A title collision is reported
// as a Duplicate result, not an error.
func (c *Client) CreateConfig(ctx context.Context, token string, cfg model.Configuration) (*CreateResult, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	cfg.ID = ""
	cfg.CreatedAt, cfg.UpdatedAt = nil, nil

	data, err := c.send(ctx, request{
		op:     "create config",
		method: http.MethodPost,
		path:   "/config",
		token:  token,
		body:   cfg,
	})
	if err != nil {
		if isDuplicate(err) {
			return &CreateResult{Outcome: Duplicate, Title: cfg.Title}, nil
		}
		return nil, mapError(err)
	}

	var created model.Configuration
	if err := decode(data, &created); err != nil {
		c.logger.Warn("malformed create payload")
		return nil, &apperrors.ServerError{Status: http.StatusBadGateway, Message: genericServerMessage}
	}
	return &CreateResult{Outcome: Created, Config: &created, Title: created.Title}, nil
}

// ListConfigs returns the configurations matching q.
func (c *Client) ListConfigs(ctx context.Context, token string, q ListQuery) ([]model.Configuration, error) {
	var out []model.Configuration
	if err := c.do(ctx, request{
		op:     "list configs",
		method: http.MethodGet,
		path:   "/config",
		query:  q.Values(),
		token:  token,
	}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Configuration{}
	}
	return out, nil
}

// GetConfigByTitle fetches one configuration. A missing title is ErrNotFound.
func (c *Client) GetConfigByTitle(ctx context.Context, title string) (*model.Configuration, error) {
	var out model.Configuration
	if err := c.do(ctx, request{
		op:     "get config",
		method: http.MethodGet,
		path:   "/config/title/" + url.PathEscape(title),
	}, &out); err != nil {
		return nil, err
	}
	// a 2xx null or {} carries no record
	if out.ID == "" && out.Title == "" {
		return nil, apperrors.ErrNotFound
	}
	return &out, nil
}

// UpdateConfig replaces the configuration with upstream id.
func (c *Client) UpdateConfig(ctx context.Context, token, id string, cfg model.Configuration) (*model.Configuration, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	cfg.ID = ""
	cfg.CreatedAt, cfg.UpdatedAt = nil, nil

	var out model.Configuration
	if err := c.do(ctx, request{
		op:     "update config",
		method: http.MethodPut,
		path:   "/config/" + url.PathEscape(id),
		token:  token,
		body:   cfg,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteConfig removes the configuration with upstream id.
func (c *Client) DeleteConfig(ctx context.Context, token, id string) error {
	if err := requireToken(token); err != nil {
		return err
	}
	_, err := c.send(ctx, request{
		op:     "delete config",
		method: http.MethodDelete,
		path:   "/config/" + url.PathEscape(id),
		token:  token,
	})
	return mapError(err)
}
