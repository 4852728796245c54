package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/jadamsuryateja/feedback-console/internal/model"
	apperrors "github.com/jadamsuryateja/feedback-console/pkg/errors"
)

// custom tags
const (
	sectionTag      = "section"
	academicYearTag = "academic_year"
	branchTag       = "branch"
	notBlankTag     = "notblank"
)

// messages for fields checked by the struct validator
const (
	MsgYear           = "Year must be between 1 and 4"
	MsgSemester       = "Semester must be 1 or 2"
	MsgBranch         = "Branch must be one of CSE, ECE, EEE, MECH, CIVIL, AI, AIML, DS, CS, IT, MBA, MCA"
	MsgTheorySubjects = "At least one theory subject is required"
	MsgLabSubjects    = "At least one lab subject is required"
	MsgTeacherName    = "Teacher name is required for every theory subject"
	MsgSubjectName    = "Subject name is required for every theory subject"
	MsgLabTeacherName = "Lab teacher name is required for every lab subject"
	MsgLabName        = "Lab name is required for every lab subject"
)

var fieldMessages = map[string]string{
	"year":           MsgYear,
	"semester":       MsgSemester,
	"branch":         MsgBranch,
	"theorySubjects": MsgTheorySubjects,
	"labSubjects":    MsgLabSubjects,
	"teacherName":    MsgTeacherName,
	"subjectName":    MsgSubjectName,
	"labTeacherName": MsgLabTeacherName,
	"labName":        MsgLabName,
	"section":        MsgSection,
	"academicYear":   MsgAcademicYear,
}

type theoryRow struct {
	TeacherName string `json:"teacherName" validate:"notblank"`
	SubjectName string `json:"subjectName" validate:"notblank"`
}

type labRow struct {
	LabTeacherName string `json:"labTeacherName" validate:"notblank"`
	LabName        string `json:"labName"        validate:"notblank"`
}

type submission struct {
	Branch         string      `json:"branch"         validate:"branch"`
	Year           int         `json:"year"           validate:"min=1,max=4"`
	Semester       int         `json:"semester"       validate:"min=1,max=2"`
	TheorySubjects []theoryRow `json:"theorySubjects" validate:"min=1,dive"`
	LabSubjects    []labRow    `json:"labSubjects"    validate:"min=1,dive"`
}

var (
	engineOnce sync.Once
	engine     *validator.Validate
	translator = newTranslator()

	// gin binding uses its own engine; translations cannot be registered
	// twice on one translator
	bindingOnce       sync.Once
	bindingEngine     *validator.Validate
	bindingTranslator = newTranslator()
)

func newTranslator() ut.Translator {
	locale := en.New()
	trans, _ := ut.New(locale, locale).GetTranslator("en")
	return trans
}

func defaultEngine() *validator.Validate {
	engineOnce.Do(func() {
		engine = validator.New()
		_ = RegisterTags(engine, translator)
	})
	return engine
}

// RegisterTags installs the console's custom tags and English translations on
// v and makes field errors report JSON (or form) names.
func RegisterTags(v *validator.Validate, trans ut.Translator) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return ""
	})

	for tag, fn := range map[string]validator.Func{
		sectionTag:      func(fl validator.FieldLevel) bool { return ValidateSection(fl.Field().String()) },
		academicYearTag: func(fl validator.FieldLevel) bool { return ValidateAcademicYear(fl.Field().String()) },
		branchTag:       func(fl validator.FieldLevel) bool { return validBranch(fl.Field().String()) },
		notBlankTag:     func(fl validator.FieldLevel) bool { return strings.TrimSpace(fl.Field().String()) != "" },
	} {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return en_translations.RegisterDefaultTranslations(v, trans)
}

// BindingValidator plugs the console's tags into gin request binding.
// Install it with binding.Validator = validate.NewBindingValidator().
type BindingValidator struct{}

// NewBindingValidator returns the gin StructValidator.
func NewBindingValidator() *BindingValidator { return &BindingValidator{} }

func (b *BindingValidator) engine() *validator.Validate {
	bindingOnce.Do(func() {
		bindingEngine = validator.New()
		bindingEngine.SetTagName("binding")
		_ = RegisterTags(bindingEngine, bindingTranslator)
	})
	return bindingEngine
}

// ValidateStruct validates structs and pointers to structs; anything else
// passes.
func (b *BindingValidator) ValidateStruct(obj interface{}) error {
	if obj == nil {
		return nil
	}
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	return b.engine().Struct(obj)
}

// Engine exposes the underlying validator.
func (b *BindingValidator) Engine() interface{} { return b.engine() }

func validBranch(b string) bool {
	return model.IsBranch(strings.TrimSuffix(b, model.BSHSuffix))
}

// Configuration runs every submit-time check on cfg and returns the first
// failure as a *ValidationError. Title, section and academic year are checked
// first, in that order.
func Configuration(cfg model.Configuration, role model.Role) error {
	if err := CheckTitle(cfg.Title, role.IsBSH()); err != nil {
		return err
	}
	if err := CheckSection(cfg.Section); err != nil {
		return err
	}
	if err := CheckAcademicYear(cfg.AcademicYear); err != nil {
		return err
	}
	return Struct(toSubmission(cfg))
}

func toSubmission(cfg model.Configuration) submission {
	s := submission{
		Branch:         cfg.Branch,
		Year:           cfg.Year,
		Semester:       cfg.Semester,
		TheorySubjects: make([]theoryRow, 0, len(cfg.TheorySubjects)),
		LabSubjects:    make([]labRow, 0, len(cfg.LabSubjects)),
	}
	for _, t := range cfg.TheorySubjects {
		s.TheorySubjects = append(s.TheorySubjects, theoryRow(t))
	}
	for _, l := range cfg.LabSubjects {
		s.LabSubjects = append(s.LabSubjects, labRow(l))
	}
	return s
}

// Struct validates v with the default engine and returns the first failure
// as a *ValidationError.
func Struct(v interface{}) error {
	err := defaultEngine().Struct(v)
	if err == nil {
		return nil
	}
	msgs := Messages(err)
	if len(msgs) == 0 {
		return err
	}
	return apperrors.NewValidation(msgs[0].Field, msgs[0].Message)
}

// FieldMessage is a user-facing message for one field.
type FieldMessage struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Messages turns validator errors into per-field messages. Errors that are
// not validator.ValidationErrors yield nil.
func Messages(err error) []FieldMessage {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return nil
	}
	out := make([]FieldMessage, 0, len(ves))
	for _, fe := range ves {
		msg, ok := fieldMessages[fe.Field()]
		if !ok {
			msg = translate(fe)
		}
		out = append(out, FieldMessage{Field: fe.Field(), Message: msg})
	}
	return out
}

// translate renders fe with whichever engine's translator knows its tag.
func translate(fe validator.FieldError) string {
	for _, trans := range []ut.Translator{translator, bindingTranslator} {
		if msg := fe.Translate(trans); msg != fe.Error() {
			return msg
		}
	}
	return fe.Error()
}
