package dto

import "github.com/jadamsuryateja/feedback-console/internal/model"

// ── configurations ──

// TheorySubjectRequest one theory row
type TheorySubjectRequest struct {
	TeacherName string `json:"teacherName"`
	SubjectName string `json:"subjectName"`
}

// LabSubjectRequest one lab row
type LabSubjectRequest struct {
	LabTeacherName string `json:"labTeacherName"`
	LabName        string `json:"labName"`
}

// ConfigRequest create/update/validate body. Field rules are enforced by the
// identity form, so binding only checks the shape.
type ConfigRequest struct {
	Title          string                 `json:"title"`
	Branch         string                 `json:"branch"`
	AcademicYear   string                 `json:"academicYear"`
	Year           int                    `json:"year"`
	Semester       int                    `json:"semester"`
	Section        string                 `json:"section"`
	TheorySubjects []TheorySubjectRequest `json:"theorySubjects"`
	LabSubjects    []LabSubjectRequest    `json:"labSubjects"`
}

// ToModel converts the request into a Configuration.
func (r *ConfigRequest) ToModel() model.Configuration {
	cfg := model.Configuration{
		Title:          r.Title,
		Branch:         r.Branch,
		AcademicYear:   r.AcademicYear,
		Year:           r.Year,
		Semester:       r.Semester,
		Section:        r.Section,
		TheorySubjects: make([]model.TheorySubject, 0, len(r.TheorySubjects)),
		LabSubjects:    make([]model.LabSubject, 0, len(r.LabSubjects)),
	}
	for _, t := range r.TheorySubjects {
		cfg.TheorySubjects = append(cfg.TheorySubjects, model.TheorySubject(t))
	}
	for _, l := range r.LabSubjects {
		cfg.LabSubjects = append(cfg.LabSubjects, model.LabSubject(l))
	}
	return cfg
}

// ConfigListQuery list filters, passed through to the upstream
type ConfigListQuery struct {
	AcademicYear string `form:"academicYear" binding:"omitempty,academic_year"`
	Year         int    `form:"year"         binding:"omitempty,min=1,max=4"`
	Semester     int    `form:"semester"     binding:"omitempty,min=1,max=2"`
	Branch       string `form:"branch"       binding:"omitempty,branch"`
	Section      string `form:"section"      binding:"omitempty,section"`
	Role         string `form:"role"         binding:"omitempty,oneof=admin coordinator bsh"`

	// Refresh skips the list cache; dashboards set it on manual refresh.
	Refresh bool `form:"refresh"`
}

// DeleteConfigQuery delete needs explicit confirmation
type DeleteConfigQuery struct {
	Confirm bool   `form:"confirm"`
	Branch  string `form:"branch"`
}
