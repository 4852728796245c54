package dto

import "github.com/jadamsuryateja/feedback-console/internal/model"

// ── feedback ──

// SummaryQuery class selector for summaries, responses and reports.
// Required fields are checked by the service so the messages match the
// dashboard's.
type SummaryQuery struct {
	AcademicYear string `form:"academicYear" binding:"omitempty,academic_year"`
	Year         int    `form:"year"         binding:"omitempty,min=1,max=4"`
	Semester     int    `form:"semester"     binding:"omitempty,min=1,max=2"`
	Section      string `form:"section"      binding:"omitempty,section"`
	Branch       string `form:"branch"`
	IsBSH        bool   `form:"isBSH"`
}

// SummaryRecord one teacher/subject summary with its overall percentage
type SummaryRecord struct {
	model.FeedbackSummaryRecord
	OverallPercentage string `json:"overallPercentage"`
}

// SummaryResponse summary records plus comments
type SummaryResponse struct {
	Summary  []SummaryRecord `json:"summary"`
	Comments []model.Comment `json:"comments"`
	Policy   string          `json:"policy"`
}
