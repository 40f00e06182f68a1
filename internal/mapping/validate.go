package mapping

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/uhco-curriculum/lomap/pkg/core"
)

// Validation messages shown to the user.
const (
	MsgObjectiveRequired = "Learning Objective is required."
	MsgQuestionsRequired = "At least one question is required when LO is assessed."
)

// custom validation tags
const (
	notBlankTag          = "notblank"
	questionsRequiredTag = "questions_when_assessed"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Use JSON tag names for errors instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(notBlankTag, notBlankValidation)
	v.RegisterStructValidation(draftStructValidation, Draft{})
	return v
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

// draftStructValidation requires a question when the objective is assessed.
func draftStructValidation(sl validator.StructLevel) {
	d, ok := sl.Current().Interface().(Draft)
	if !ok {
		return
	}
	if d.Assessed() && len(cleanQuestions(d.Questions)) == 0 {
		sl.ReportError(d.Questions, "questions", "Questions", questionsRequiredTag, "")
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		if fe.Field() == "learning_objective" {
			return MsgObjectiveRequired
		}
		return "this field cannot be blank"
	case questionsRequiredTag:
		return MsgQuestionsRequired
	default:
		return fe.Error()
	}
}

// Validate checks a draft before it is saved.
// It returns a *core.ValidationError listing every failing field.
func Validate(d Draft) error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]core.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, core.FieldError{Field: fe.Field(), Error: message(fe)})
	}
	return core.NewValidationError(errors.New(fields[0].Error), fields...)
}
