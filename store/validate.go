package store

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"edoura-server-go/generators"
)

var (
	ErrTeacherNotFound = errors.New("teacher not found")
	ErrGradeNotFound   = errors.New("grade not found")
	ErrStudentNotFound = errors.New("student not found")
	ErrExamNotFound    = errors.New("exam not found")
	ErrStudentExists   = errors.New("a student with this student id already exists")
	ErrScoreOutOfRange = errors.New("score is outside the exam's range")
)

var (
	studentIDTag  = "studentid"
	studentIDText = "{0} must look like ST- followed by 8 digits"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Error)
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

func newValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()

	enLocale := en.New()
	translator, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(studentIDTag, func(fl validator.FieldLevel) bool {
		return generators.IsStudentID(fl.Field().String())
	})
	_ = validate.RegisterTranslation(studentIDTag, translator,
		func(t ut.Translator) error { return t.Add(studentIDTag, studentIDText, false) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(studentIDTag, fe.Field())
			return s
		},
	)
	return validate, translator
}

// check validates v and converts validator errors into a *ValidationError.
func (s *DataStore) check(v interface{}) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Error: fe.Translate(s.translator)})
	}
	return &ValidationError{Fields: fields}
}

// checkVar validates a single value against tag under the given field name.
func (s *DataStore) checkVar(field string, v interface{}, tag string) error {
	err := s.validate.Var(v, tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg := strings.TrimSpace(field + fe.Translate(s.translator))
		fields = append(fields, FieldError{Field: field, Error: msg})
	}
	return &ValidationError{Fields: fields}
}
