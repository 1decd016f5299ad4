package service

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/Freeeeeet/college_scheduler/internal/model"
)

// Имена полей входной формы
const (
	FieldName       = "name"
	FieldRoomNumber = "roomNumber"
	FieldTeacherID  = "teacherId"
	FieldDay        = "day"
	FieldStartTime  = "startTime"
	FieldEndTime    = "endTime"
	FieldCourseID   = "courseId"
	FieldClassID    = "classId"
	FieldID         = "id"
)

// Form плоский набор "поле -> значение", как его присылает форма
type Form map[string]string

// Get возвращает значение поля без пробелов по краям; отсутствующее поле = ""
func (f Form) Get(field string) string {
	return strings.TrimSpace(f[field])
}

// TeacherInput поля для addTeacher
type TeacherInput struct {
	Name string `form:"name" validate:"required"`
}

// ClassInput поля для addClass
type ClassInput struct {
	Name       string `form:"name" validate:"required"`
	RoomNumber string `form:"roomNumber" validate:"required"`
}

// CourseInput поля для addCourse
type CourseInput struct {
	Name      string `form:"name" validate:"required"`
	TeacherID string `form:"teacherId" validate:"required"`
}

// ScheduleItemInput поля для addScheduleItem
type ScheduleItemInput struct {
	Day       string `form:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday"`
	StartTime string `form:"startTime" validate:"required,clock"`
	EndTime   string `form:"endTime" validate:"required,clock"`
	CourseID  string `form:"courseId" validate:"required"`
	ClassID   string `form:"classId" validate:"required"`
}

var (
	// custom validation tags & texts
	clockTag   = "clock"
	clockText  = "{0} must be a time in HH:MM format"
	clockRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

	requiredTag  = "required"
	requiredText = "{0} is required"

	oneOfTag  = "oneof"
	oneOfText = "{0} must be one of Monday, Tuesday, Wednesday, Thursday, Friday, Saturday"
)

// inputValidator проверка входных структур с человекочитаемыми сообщениями
type inputValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func newInputValidator() *inputValidator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	locale := en.New()
	translator, _ := ut.New(locale, locale).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// в ошибках используем имена полей формы, а не Go-структуры
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(clockTag, func(fl validator.FieldLevel) bool {
		return clockRegex.MatchString(fl.Field().String())
	})
	registerTranslation(validate, translator, clockTag, clockText)
	registerTranslation(validate, translator, requiredTag, requiredText, true)
	registerTranslation(validate, translator, oneOfTag, oneOfText, true)

	return &inputValidator{validate: validate, translator: translator}
}

// registerTranslation регистрирует текст ошибки для тега валидации
func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// check валидирует input. Если не хватает только обязательных полей, текст ошибки = missingText,
// иначе перечисляются сообщения по полям.
func (iv *inputValidator) check(input any, missingText string) error {
	err := iv.validate.Struct(input)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return model.NewValidationError(err)
	}

	fields := make([]model.FieldError, 0, len(vErrs))
	messages := make([]string, 0, len(vErrs))
	onlyMissing := true
	for _, fe := range vErrs {
		msg := fe.Translate(iv.translator)
		fields = append(fields, model.FieldError{Field: fe.Field(), Error: msg})
		messages = append(messages, msg)
		if fe.Tag() != requiredTag {
			onlyMissing = false
		}
	}

	text := missingText
	if !onlyMissing {
		text = strings.Join(messages, "; ")
	}
	return model.NewValidationError(errors.New(text), fields...)
}

// requireID проверяет что идентификатор передан
func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return model.NewValidationError(errors.New("ID is required"),
			model.FieldError{Field: FieldID, Error: "id is required"})
	}
	return nil
}
