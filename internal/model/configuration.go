package model

import "time"

// TheorySubject pairs a teacher with a theory subject.
type TheorySubject struct {
	TeacherName string `json:"teacherName"`
	SubjectName string `json:"subjectName"`
}

// LabSubject pairs a lab teacher with a lab.
type LabSubject struct {
	LabTeacherName string `json:"labTeacherName"`
	LabName        string `json:"labName"`
}

// Configuration is a unique academic-unit descriptor. Title is the unique key.
// ID is the upstream's opaque identifier and is empty until created.
type Configuration struct {
	ID             string          `json:"_id,omitempty"`
	Title          string          `json:"title"`
	Branch         string          `json:"branch"`
	AcademicYear   string          `json:"academicYear"`
	Year           int             `json:"year"`
	Semester       int             `json:"semester"`
	Section        string          `json:"section"`
	TheorySubjects []TheorySubject `json:"theorySubjects"`
	LabSubjects    []LabSubject    `json:"labSubjects"`
	CreatedAt      *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time      `json:"updatedAt,omitempty"`
}

// Clone returns a deep copy so edits never alias the receiver's slices.
func (c Configuration) Clone() Configuration {
	out := c
	out.TheorySubjects = append([]TheorySubject(nil), c.TheorySubjects...)
	out.LabSubjects = append([]LabSubject(nil), c.LabSubjects...)
	return out
}
