package identity

import (
	"fmt"
	"strings"

	"github.com/jadamsuryateja/feedback-console/internal/model"
	"github.com/jadamsuryateja/feedback-console/internal/validate"
)

// TheoryField names an editable column of a theory row.
type TheoryField string

const (
	TheoryTeacher TheoryField = "teacherName"
	TheorySubject TheoryField = "subjectName"
)

// LabField names an editable column of a lab row.
type LabField string

const (
	LabTeacher LabField = "labTeacherName"
	LabName    LabField = "labName"
)

// Form is an immutable in-progress configuration. Every edit returns a new
// Form; the receiver is never modified.
type Form struct {
	role model.Role
	cfg  model.Configuration
}

// NewForm returns the blank form a user of role starts from.
func NewForm(role model.Role) Form {
	return Form{
		role: role,
		cfg: model.Configuration{
			Branch:         EffectiveBranch(model.Branches[0], role),
			Year:           1,
			Semester:       1,
			Section:        "A",
			TheorySubjects: []model.TheorySubject{{}},
			LabSubjects:    []model.LabSubject{{}},
		},
	}
}

// LoadForEdit pre-populates a form from a stored record. The branch suffix
// is added or stripped to match role.
func LoadForEdit(cfg model.Configuration, role model.Role) Form {
	c := cfg.Clone()
	c.Title = NormalizeTitle(c.Title)
	c.Branch = branchForEdit(c.Branch, role)
	return Form{role: role, cfg: c}
}

// Role is the role the form was opened for.
func (f Form) Role() model.Role { return f.role }

// Value returns a copy of the current form contents.
func (f Form) Value() model.Configuration { return f.cfg.Clone() }

// Branch is the effective branch held by the form.
func (f Form) Branch() string { return f.cfg.Branch }

// SelectedBranch is the enumeration value shown in the branch picker.
func (f Form) SelectedBranch() string { return BaseBranch(f.cfg.Branch) }

func (f Form) with(edit func(c *model.Configuration)) Form {
	c := f.cfg.Clone()
	edit(&c)
	return Form{role: f.role, cfg: c}
}

// WithTitle sets the title, uppercased.
func (f Form) WithTitle(title string) Form {
	return f.with(func(c *model.Configuration) { c.Title = NormalizeTitle(title) })
}

// WithSection sets the section and, for four-segment titles, the title's
// section segment.
func (f Form) WithSection(section string) Form {
	section = strings.ToUpper(section)
	return f.with(func(c *model.Configuration) {
		c.Section = section
		c.Title = syncSection(c.Title, section)
	})
}

// WithBranch selects a branch from the enumeration. A title that starts
// with the previous effective branch gets the new one as its prefix.
func (f Form) WithBranch(base string) (Form, error) {
	if !model.IsBranch(base) {
		return f, fmt.Errorf("identity: unknown branch %q", base)
	}
	next := EffectiveBranch(base, f.role)
	return f.with(func(c *model.Configuration) {
		c.Title = syncBranch(c.Title, c.Branch, next)
		c.Branch = next
	}), nil
}

// WithYear sets the year of study.
func (f Form) WithYear(year int) Form {
	return f.with(func(c *model.Configuration) { c.Year = year })
}

// WithSemester sets the semester.
func (f Form) WithSemester(semester int) Form {
	return f.with(func(c *model.Configuration) { c.Semester = semester })
}

// WithAcademicYear sets the academic year.
func (f Form) WithAcademicYear(value string) Form {
	return f.with(func(c *model.Configuration) { c.AcademicYear = value })
}

// AddTheorySubject appends a blank theory row.
func (f Form) AddTheorySubject() Form {
	return f.with(func(c *model.Configuration) {
		c.TheorySubjects = append(c.TheorySubjects, model.TheorySubject{})
	})
}

// RemoveTheorySubject drops row i. The last remaining row is never removed.
func (f Form) RemoveTheorySubject(i int) Form {
	if len(f.cfg.TheorySubjects) <= 1 || i < 0 || i >= len(f.cfg.TheorySubjects) {
		return f
	}
	return f.with(func(c *model.Configuration) {
		c.TheorySubjects = append(c.TheorySubjects[:i], c.TheorySubjects[i+1:]...)
	})
}

// SetTheorySubject edits one column of row i.
func (f Form) SetTheorySubject(i int, field TheoryField, value string) Form {
	if i < 0 || i >= len(f.cfg.TheorySubjects) {
		return f
	}
	return f.with(func(c *model.Configuration) {
		switch field {
		case TheoryTeacher:
			c.TheorySubjects[i].TeacherName = value
		case TheorySubject:
			c.TheorySubjects[i].SubjectName = value
		}
	})
}

// AddLabSubject appends a blank lab row.
func (f Form) AddLabSubject() Form {
	return f.with(func(c *model.Configuration) {
		c.LabSubjects = append(c.LabSubjects, model.LabSubject{})
	})
}

// RemoveLabSubject drops row i. The last remaining row is never removed.
func (f Form) RemoveLabSubject(i int) Form {
	if len(f.cfg.LabSubjects) <= 1 || i < 0 || i >= len(f.cfg.LabSubjects) {
		return f
	}
	return f.with(func(c *model.Configuration) {
		c.LabSubjects = append(c.LabSubjects[:i], c.LabSubjects[i+1:]...)
	})
}

// SetLabSubject edits one column of lab row i.
func (f Form) SetLabSubject(i int, field LabField, value string) Form {
	if i < 0 || i >= len(f.cfg.LabSubjects) {
		return f
	}
	return f.with(func(c *model.Configuration) {
		switch field {
		case LabTeacher:
			c.LabSubjects[i].LabTeacherName = value
		case LabName:
			c.LabSubjects[i].LabName = value
		}
	})
}

// FieldErrors runs the advisory checks shown while typing. Empty fields are
// not reported yet.
func (f Form) FieldErrors() map[string]string {
	errs := make(map[string]string)
	if f.cfg.Title != "" {
		if ve := validate.CheckTitle(f.cfg.Title, f.role.IsBSH()); ve != nil {
			errs[ve.Field] = ve.Message
		}
	}
	if f.cfg.Section != "" {
		if ve := validate.CheckSection(f.cfg.Section); ve != nil {
			errs[ve.Field] = ve.Message
		}
	}
	if f.cfg.AcademicYear != "" {
		if ve := validate.CheckAcademicYear(f.cfg.AcademicYear); ve != nil {
			errs[ve.Field] = ve.Message
		}
	}
	return errs
}

// Valid reports whether the advisory checks pass and no field is empty.
func (f Form) Valid() bool {
	return f.cfg.Title != "" && f.cfg.Section != "" && f.cfg.AcademicYear != "" &&
		len(f.FieldErrors()) == 0
}

// Finalize produces the record to submit. It reapplies the BSH suffix and
// runs every submit-time check; nothing is returned on failure.
func (f Form) Finalize() (model.Configuration, error) {
	c := f.cfg.Clone()
	c.Title = NormalizeTitle(c.Title)
	if f.role.IsBSH() && !model.HasBSHSuffix(c.Branch) {
		c.Branch += model.BSHSuffix
	}
	if err := validate.Configuration(c, f.role); err != nil {
		return model.Configuration{}, err
	}
	return c, nil
}
