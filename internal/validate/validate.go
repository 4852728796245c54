// Package validate holds the string-format predicates for configuration
// fields and the struct validator used at submit time.
package validate

import (
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/jadamsuryateja/feedback-console/pkg/errors"
)

// Failure messages. Callers render these verbatim.
const (
	MsgTitleFormat  = "Title must be in format BRANCH-SECTION-SEMESTER-YEAR"
	MsgTitleEmpty   = "Title cannot be empty"
	MsgSection      = "Section must be a single uppercase letter (A-Z)"
	MsgAcademicYear = "Academic year must be in format YYYY-YYYY with consecutive years"
)

// Field names used in ValidationError.Field.
const (
	FieldTitle        = "title"
	FieldSection      = "section"
	FieldAcademicYear = "academicYear"
)

const (
	minStartYear = 2000
	maxEndYear   = 2100
)

var (
	titlePattern        = regexp.MustCompile(`^[A-Z]+-[A-Z]-[1-4]-[1-2]$`)
	sectionPattern      = regexp.MustCompile(`^[A-Z]$`)
	academicYearPattern = regexp.MustCompile(`^\d{4}-\d{4}$`)
)

// ValidateTitle checks a configuration title. BSH titles only need to be
// non-blank; every other title must look like CSE-D-4-1. Uppercasing is the
// caller's job.
func ValidateTitle(title string, isBSH bool) bool {
	if isBSH {
		return strings.TrimSpace(title) != ""
	}
	return titlePattern.MatchString(title)
}

// ValidateSection checks for a single uppercase letter.
func ValidateSection(section string) bool {
	return sectionPattern.MatchString(section)
}

// ValidateAcademicYear checks YYYY-YYYY with end == start+1 inside [2000, 2100].
func ValidateAcademicYear(value string) bool {
	if !academicYearPattern.MatchString(value) {
		return false
	}
	parts := strings.SplitN(value, "-", 2)
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	return end == start+1 && start >= minStartYear && end <= maxEndYear
}

// CheckTitle returns the title failure, or nil.
func CheckTitle(title string, isBSH bool) *apperrors.ValidationError {
	if ValidateTitle(title, isBSH) {
		return nil
	}
	if isBSH {
		return apperrors.NewValidation(FieldTitle, MsgTitleEmpty)
	}
	return apperrors.NewValidation(FieldTitle, MsgTitleFormat)
}

// CheckSection returns the section failure, or nil.
func CheckSection(section string) *apperrors.ValidationError {
	if ValidateSection(section) {
		return nil
	}
	return apperrors.NewValidation(FieldSection, MsgSection)
}

// CheckAcademicYear returns the academic year failure, or nil.
func CheckAcademicYear(value string) *apperrors.ValidationError {
	if ValidateAcademicYear(value) {
		return nil
	}
	return apperrors.NewValidation(FieldAcademicYear, MsgAcademicYear)
}
