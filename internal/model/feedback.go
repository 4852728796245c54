package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// FeedbackType distinguishes theory and lab summaries.
type FeedbackType string

const (
	FeedbackTheory FeedbackType = "Theory"
	FeedbackLab    FeedbackType = "Lab"
)

// QuestionCount is the number of questions on the feedback form.
const QuestionCount = 10

// QuestionKey returns the map key for question i (1-based).
func QuestionKey(i int) string { return "Q" + strconv.Itoa(i) }

// QuestionScore is one question's aggregated score and percentage.
type QuestionScore struct {
	Score      float64 `json:"score"`
	Percentage float64 `json:"percentage"`
}

// UnmarshalJSON accepts numbers or numeric strings; the upstream emits both.
func (q *QuestionScore) UnmarshalJSON(b []byte) error {
	var raw struct {
		Score      json.RawMessage `json:"score"`
		Percentage json.RawMessage `json:"percentage"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var err error
	if q.Score, err = flexibleFloat(raw.Score); err != nil {
		return fmt.Errorf("score: %w", err)
	}
	if q.Percentage, err = flexibleFloat(raw.Percentage); err != nil {
		return fmt.Errorf("percentage: %w", err)
	}
	return nil
}

func flexibleFloat(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite number %q", s)
	}
	return f, nil
}

// QuestionScores maps Q1..Q10 to their scores.
type QuestionScores map[string]QuestionScore

// At returns question i (1-based); missing keys read as zero.
func (q QuestionScores) At(i int) QuestionScore {
	return q[QuestionKey(i)]
}

// FeedbackSummaryRecord is one teacher/subject summary produced upstream.
type FeedbackSummaryRecord struct {
	TeacherName    string         `json:"teacherName"`
	SubjectName    string         `json:"subjectName"`
	Type           FeedbackType   `json:"type"`
	TotalResponses int            `json:"totalResponses"`
	QuestionScores QuestionScores `json:"questionScores"`
}

// Comment pairs the two free-text comments of one submission.
type Comment struct {
	CollegeComments    string    `json:"collegeComments"`
	DepartmentComments string    `json:"departmentComments"`
	SubmittedAt        time.Time `json:"submittedAt"`
}

// FeedbackResponse is a raw student response as returned by the upstream.
type FeedbackResponse struct {
	ID                 string                     `json:"_id,omitempty"`
	Title              string                     `json:"title,omitempty"`
	AcademicYear       string                     `json:"academicYear,omitempty"`
	Branch             string                     `json:"branch,omitempty"`
	Section            string                     `json:"section,omitempty"`
	Ratings            map[string]json.RawMessage `json:"ratings,omitempty"`
	CollegeComments    string                     `json:"collegeComments"`
	DepartmentComments string                     `json:"departmentComments"`
	SubmittedAt        time.Time                  `json:"submittedAt"`
}
