package identity

import (
	"testing"

	"github.com/jadamsuryateja/feedback-console/internal/model"
	"github.com/jadamsuryateja/feedback-console/internal/validate"
)

func filledForm(t *testing.T, role model.Role) Form {
	t.Helper()
	f, err := NewForm(role).WithBranch("CSE")
	if err != nil {
		t.Fatalf("WithBranch: %v", err)
	}
	return f.
		WithTitle("cse-d-4-1").
		WithAcademicYear("2024-2025").
		WithYear(4).
		WithSemester(1).
		WithSection("D").
		SetTheorySubject(0, TheoryTeacher, "A").
		SetTheorySubject(0, TheorySubject, "Maths").
		SetLabSubject(0, LabTeacher, "B").
		SetLabSubject(0, LabName, "Physics Lab")
}

func TestNewForm_Defaults(t *testing.T) {
	f := NewForm(model.RoleCoordinator)
	v := f.Value()
	if v.Branch != "CSE" || v.Year != 1 || v.Semester != 1 || v.Section != "A" {
		t.Errorf("unexpected defaults %+v", v)
	}
	if len(v.TheorySubjects) != 1 || len(v.LabSubjects) != 1 {
		t.Errorf("expected one blank row of each kind")
	}

	if b := NewForm(model.RoleBSH).Branch(); b != "CSE-BSH" {
		t.Errorf("BSH default branch = %s", b)
	}
}

func TestWithTitle_Uppercases(t *testing.T) {
	f := NewForm(model.RoleAdmin).WithTitle("cse-d-4-1")
	if got := f.Value().Title; got != "CSE-D-4-1" {
		t.Errorf("title = %s", got)
	}
}

func TestWithSection_SyncsFourSegmentTitle(t *testing.T) {
	f := NewForm(model.RoleAdmin).WithTitle("CSE-D-4-1").WithSection("b")
	v := f.Value()
	if v.Section != "B" || v.Title != "CSE-B-4-1" {
		t.Errorf("got section %s title %s", v.Section, v.Title)
	}

	// other shapes are left alone
	f = NewForm(model.RoleAdmin).WithTitle("CSE-D-4").WithSection("C")
	if got := f.Value().Title; got != "CSE-D-4" {
		t.Errorf("three-segment title changed to %s", got)
	}
}

func TestWithBranch_ReplacesPrefix(t *testing.T) {
	f := NewForm(model.RoleAdmin).WithTitle("CSE-D-4-1")
	f, err := f.WithBranch("ECE")
	if err != nil {
		t.Fatal(err)
	}
	if v := f.Value(); v.Branch != "ECE" || v.Title != "ECE-D-4-1" {
		t.Errorf("got branch %s title %s", v.Branch, v.Title)
	}

	f = NewForm(model.RoleAdmin).WithTitle("CUSTOM")
	f, _ = f.WithBranch("IT")
	if got := f.Value().Title; got != "CUSTOM" {
		t.Errorf("unrelated title changed to %s", got)
	}

	if _, err := NewForm(model.RoleAdmin).WithBranch("PHYS"); err == nil {
		t.Error("expected error for unknown branch")
	}
}

func TestWithBranch_BSHPrefix(t *testing.T) {
	f := NewForm(model.RoleBSH).WithTitle("CSE-BSH FIRST YEARS")
	f, _ = f.WithBranch("ECE")
	v := f.Value()
	if v.Branch != "ECE-BSH" || v.Title != "ECE-BSH FIRST YEARS" {
		t.Errorf("got branch %s title %s", v.Branch, v.Title)
	}
}

func TestEditsDoNotMutateReceiver(t *testing.T) {
	base := NewForm(model.RoleAdmin)
	_ = base.WithTitle("X").AddTheorySubject().SetLabSubject(0, LabName, "L")
	v := base.Value()
	if v.Title != "" || len(v.TheorySubjects) != 1 || v.LabSubjects[0].LabName != "" {
		t.Errorf("receiver was modified: %+v", v)
	}
}

func TestRemoveSubject(t *testing.T) {
	f := NewForm(model.RoleAdmin)
	if got := len(f.RemoveTheorySubject(0).Value().TheorySubjects); got != 1 {
		t.Errorf("last theory row removed")
	}
	if got := len(f.RemoveLabSubject(0).Value().LabSubjects); got != 1 {
		t.Errorf("last lab row removed")
	}

	f = f.AddTheorySubject().SetTheorySubject(1, TheorySubject, "Second")
	f = f.RemoveTheorySubject(0)
	v := f.Value()
	if len(v.TheorySubjects) != 1 || v.TheorySubjects[0].SubjectName != "Second" {
		t.Errorf("unexpected rows %+v", v.TheorySubjects)
	}

	f = f.AddLabSubject()
	if got := len(f.RemoveLabSubject(5).Value().LabSubjects); got != 2 {
		t.Errorf("out of range remove changed rows")
	}
}

func TestFieldErrors_SkipsEmpty(t *testing.T) {
	f := NewForm(model.RoleAdmin).WithSection("")
	if errs := f.FieldErrors(); len(errs) != 0 {
		t.Errorf("empty fields must not be reported: %v", errs)
	}

	f = f.WithTitle("bad").WithSection("1").WithAcademicYear("2024-2026")
	errs := f.FieldErrors()
	if errs[validate.FieldTitle] != validate.MsgTitleFormat ||
		errs[validate.FieldSection] != validate.MsgSection ||
		errs[validate.FieldAcademicYear] != validate.MsgAcademicYear {
		t.Errorf("unexpected errors %v", errs)
	}
	if f.Valid() {
		t.Error("form with errors reported valid")
	}
}

func TestFinalize(t *testing.T) {
	cfg, err := filledForm(t, model.RoleAdmin).Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if cfg.Title != "CSE-D-4-1" || cfg.Branch != "CSE" || cfg.Section != "D" {
		t.Errorf("unexpected record %+v", cfg)
	}

	if _, err := NewForm(model.RoleAdmin).Finalize(); err == nil {
		t.Error("blank form must not finalize")
	}
}

func TestBranchSuffixRoundTrip(t *testing.T) {
	f := filledForm(t, model.RoleBSH).WithTitle("First years")
	stored, err := f.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if stored.Branch != "CSE-BSH" {
		t.Fatalf("stored branch = %s", stored.Branch)
	}

	reloaded := LoadForEdit(stored, model.RoleBSH)
	if got := reloaded.SelectedBranch(); got != "CSE" {
		t.Errorf("picker shows %s", got)
	}
	again, err := reloaded.Finalize()
	if err != nil {
		t.Fatalf("Finalize after reload: %v", err)
	}
	if again.Branch != "CSE-BSH" {
		t.Errorf("round trip produced %s", again.Branch)
	}
}

func TestLoadForEdit_SuffixByRole(t *testing.T) {
	cfg := model.Configuration{Title: "cse-d-4-1", Branch: "CSE"}
	if b := LoadForEdit(cfg, model.RoleBSH).Branch(); b != "CSE-BSH" {
		t.Errorf("BSH load branch = %s", b)
	}

	cfg.Branch = "ECE-BSH"
	f := LoadForEdit(cfg, model.RoleAdmin)
	if f.Branch() != "ECE" {
		t.Errorf("admin load branch = %s", f.Branch())
	}
	if f.Value().Title != "CSE-D-4-1" {
		t.Errorf("title not uppercased on load")
	}
}

func TestBaseAndEffectiveBranch(t *testing.T) {
	if EffectiveBranch("CSE", model.RoleBSH) != "CSE-BSH" {
		t.Error("BSH effective branch")
	}
	if EffectiveBranch("CSE-BSH", model.RoleAdmin) != "CSE" {
		t.Error("admin effective branch")
	}
	if BaseBranch("IT-BSH") != "IT" || BaseBranch("IT") != "IT" {
		t.Error("BaseBranch")
	}
}
