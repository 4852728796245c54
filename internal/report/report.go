// Package report lays out the printable feedback report and renders it as
// an xlsx workbook.
package report

import (
	"fmt"
	"strconv"

	"github.com/jadamsuryateja/feedback-console/internal/aggregate"
	"github.com/jadamsuryateja/feedback-console/internal/model"
)

// Placeholders and labels.
const (
	NoCollegeFeedback    = "No college feedback provided"
	NoDepartmentFeedback = "No department feedback provided"
	OverallLabel         = "Overall"
	ScoreLabel           = "Score"
	PercentageLabel      = "Percentage (%)"
	CollegeCommentsLabel = "College Comments"
	DepartmentLabel      = "Department Comments"
)

// Filter is the class the report was requested for.
type Filter struct {
	AcademicYear string
	Year         int
	Semester     int
	Branch       string
	Section      string
}

// Options controls the report header, footer and overall formula.
type Options struct {
	InstitutionName string
	Title           string
	Signatory       string
	Policy          aggregate.Policy
}

// Field is one label/value row of a block's identity table.
type Field struct {
	Label string
	Value string
}

// Block is one teacher/subject section of the report.
type Block struct {
	Identity    []Field
	Scores      []string // Q1..Q10 then Overall
	Percentages []string // Q1..Q10 then Overall
	Overall     string
}

// CommentRow pairs the comments of one submission with placeholders filled.
type CommentRow struct {
	College    string
	Department string
}

// Report is the full printable document.
type Report struct {
	Institution string
	Title       string
	Filter      Filter
	Blocks      []Block
	Comments    []CommentRow
	Signatory   string
}

// QuestionHeaders is the score table header row: Q1..Q10, Overall.
func QuestionHeaders() []string {
	out := make([]string, 0, model.QuestionCount+1)
	for i := 1; i <= model.QuestionCount; i++ {
		out = append(out, model.QuestionKey(i))
	}
	return append(out, OverallLabel)
}

// Build arranges summary records and comments in upstream order.
func Build(f Filter, summary []model.FeedbackSummaryRecord, comments []model.Comment, opts Options) Report {
	r := Report{
		Institution: opts.InstitutionName,
		Title:       opts.Title,
		Filter:      f,
		Blocks:      make([]Block, 0, len(summary)),
		Signatory:   opts.Signatory,
	}
	for _, rec := range summary {
		r.Blocks = append(r.Blocks, buildBlock(f, rec, opts.Policy))
	}
	for _, c := range comments {
		row := CommentRow{College: c.CollegeComments, Department: c.DepartmentComments}
		if row.College == "" {
			row.College = NoCollegeFeedback
		}
		if row.Department == "" {
			row.Department = NoDepartmentFeedback
		}
		r.Comments = append(r.Comments, row)
	}
	return r
}

func buildBlock(f Filter, rec model.FeedbackSummaryRecord, p aggregate.Policy) Block {
	b := Block{
		Identity: []Field{
			{"Academic Year", f.AcademicYear},
			{"Year", strconv.Itoa(f.Year)},
			{"Semester", strconv.Itoa(f.Semester)},
			{"Branch", f.Branch},
			{"Section", f.Section},
			{"Total Responses", strconv.Itoa(rec.TotalResponses)},
			{"Subject", rec.SubjectName},
			{"Teacher", rec.TeacherName},
			{"Type", string(rec.Type)},
		},
		Overall: aggregate.Overall(rec.QuestionScores, p),
	}
	for i := 1; i <= model.QuestionCount; i++ {
		q := rec.QuestionScores.At(i)
		b.Scores = append(b.Scores, number(q.Score))
		b.Percentages = append(b.Percentages, number(q.Percentage)+"%")
	}
	b.Scores = append(b.Scores, b.Overall)
	b.Percentages = append(b.Percentages, b.Overall+"%")
	return b
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FileName is the suggested download name for f.
func FileName(f Filter) string {
	return fmt.Sprintf("feedback-report-%s-%d-%d-%s.xlsx", f.Branch, f.Year, f.Semester, f.Section)
}
