package validate

import (
	"errors"
	"testing"

	"github.com/jadamsuryateja/feedback-console/internal/model"
	apperrors "github.com/jadamsuryateja/feedback-console/pkg/errors"
)

func TestValidateTitle_NonBSH(t *testing.T) {
	cases := map[string]bool{
		"CSE-D-4-1":   true,
		"AIML-A-1-2":  true,
		"cse-d-4-1":   false,
		"CSE-D-5-1":   false,
		"CSE-D-4-3":   false,
		"CSE-DD-4-1":  false,
		"CSE-D-4":     false,
		"CSE-D-4-1 ":  false,
		"-D-4-1":      false,
		"CSE1-D-4-1":  false,
		"CSE-D-4-1-X": false,
		"":            false,
	}
	for in, want := range cases {
		if got := ValidateTitle(in, false); got != want {
			t.Errorf("ValidateTitle(%q, false) = %v, want %v", in, got, want)
		}
	}
}

func TestValidateTitle_BSH(t *testing.T) {
	if ValidateTitle("  ", true) {
		t.Error("blank title must fail for BSH")
	}
	if ValidateTitle("", true) {
		t.Error("empty title must fail for BSH")
	}
	if !ValidateTitle("Anything", true) {
		t.Error("any non-blank title passes for BSH")
	}
}

func TestValidateAcademicYear(t *testing.T) {
	cases := map[string]bool{
		"2024-2025": true,
		"2000-2001": true,
		"2099-2100": true,
		"2025-2024": false,
		"1999-2000": false,
		"2024-2026": false,
		"2100-2101": false,
		"2024/2025": false,
		"24-25":     false,
		"":          false,
	}
	for in, want := range cases {
		if got := ValidateAcademicYear(in); got != want {
			t.Errorf("ValidateAcademicYear(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestValidateSection(t *testing.T) {
	cases := map[string]bool{"A": true, "Z": true, "AB": false, "a": false, "": false, "1": false}
	for in, want := range cases {
		if got := ValidateSection(in); got != want {
			t.Errorf("ValidateSection(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestCheckMessages(t *testing.T) {
	if err := CheckTitle("bad", false); err == nil || err.Message != MsgTitleFormat || err.Field != FieldTitle {
		t.Errorf("unexpected title error %+v", err)
	}
	if err := CheckTitle(" ", true); err == nil || err.Message != MsgTitleEmpty {
		t.Errorf("unexpected BSH title error %+v", err)
	}
	if err := CheckSection("ab"); err == nil || err.Message != MsgSection {
		t.Errorf("unexpected section error %+v", err)
	}
	if err := CheckAcademicYear("2024-2026"); err == nil || err.Message != MsgAcademicYear {
		t.Errorf("unexpected academic year error %+v", err)
	}
	if CheckTitle("CSE-D-4-1", false) != nil || CheckSection("D") != nil || CheckAcademicYear("2024-2025") != nil {
		t.Error("valid inputs must not produce errors")
	}
}

func validConfig() model.Configuration {
	return model.Configuration{
		Title:          "CSE-D-4-1",
		Branch:         "CSE",
		AcademicYear:   "2024-2025",
		Year:           4,
		Semester:       1,
		Section:        "D",
		TheorySubjects: []model.TheorySubject{{TeacherName: "A", SubjectName: "Maths"}},
		LabSubjects:    []model.LabSubject{{LabTeacherName: "B", LabName: "Physics Lab"}},
	}
}

func TestConfiguration_Valid(t *testing.T) {
	if err := Configuration(validConfig(), model.RoleAdmin); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	bsh := validConfig()
	bsh.Title = "First years maths"
	bsh.Branch = "CSE-BSH"
	bsh.Year = 1
	if err := Configuration(bsh, model.RoleBSH); err != nil {
		t.Fatalf("expected valid BSH config, got %v", err)
	}
}

func TestConfiguration_FirstFailureWins(t *testing.T) {
	cfg := validConfig()
	cfg.Title = "bad"
	cfg.Section = "dd"

	err := Configuration(cfg, model.RoleAdmin)
	var ve *apperrors.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Field != FieldTitle {
		t.Errorf("title is checked first, got field %s", ve.Field)
	}
}

func TestConfiguration_StructRules(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *model.Configuration)
		want   string
	}{
		{"year too high", func(c *model.Configuration) { c.Year = 5 }, MsgYear},
		{"year zero", func(c *model.Configuration) { c.Year = 0 }, MsgYear},
		{"semester", func(c *model.Configuration) { c.Semester = 3 }, MsgSemester},
		{"branch", func(c *model.Configuration) { c.Branch = "PHYS" }, MsgBranch},
		{"no theory", func(c *model.Configuration) { c.TheorySubjects = nil }, MsgTheorySubjects},
		{"no lab", func(c *model.Configuration) { c.LabSubjects = []model.LabSubject{} }, MsgLabSubjects},
		{"blank teacher", func(c *model.Configuration) { c.TheorySubjects[0].TeacherName = " " }, MsgTeacherName},
		{"blank subject", func(c *model.Configuration) { c.TheorySubjects[0].SubjectName = "" }, MsgSubjectName},
		{"blank lab teacher", func(c *model.Configuration) { c.LabSubjects[0].LabTeacherName = "" }, MsgLabTeacherName},
		{"blank lab", func(c *model.Configuration) { c.LabSubjects[0].LabName = "" }, MsgLabName},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := Configuration(cfg, model.RoleAdmin)
			if err == nil || err.Error() != tc.want {
				t.Errorf("expected %q, got %v", tc.want, err)
			}
		})
	}
}

type listQuery struct {
	Section      string `form:"section"      binding:"omitempty,section"`
	AcademicYear string `form:"academicYear" binding:"omitempty,academic_year"`
	Role         string `form:"role"         binding:"omitempty,oneof=admin coordinator bsh"`
}

func TestBindingValidator(t *testing.T) {
	bv := NewBindingValidator()

	if err := bv.ValidateStruct(&listQuery{Section: "A", AcademicYear: "2024-2025"}); err != nil {
		t.Fatalf("valid query rejected: %v", err)
	}
	if err := bv.ValidateStruct(&listQuery{}); err != nil {
		t.Fatalf("empty optional fields should pass: %v", err)
	}
	if err := bv.ValidateStruct("not a struct"); err != nil {
		t.Errorf("non-struct values pass, got %v", err)
	}

	err := bv.ValidateStruct(&listQuery{Section: "a1", Role: "root"})
	msgs := Messages(err)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %+v", msgs)
	}
	if msgs[0].Field != "section" || msgs[0].Message != MsgSection {
		t.Errorf("section should use the form name and fixed message, got %+v", msgs[0])
	}
	if msgs[1].Field != "role" || msgs[1].Message == "" {
		t.Errorf("role should be translated, got %+v", msgs[1])
	}
}
