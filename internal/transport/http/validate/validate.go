package validate

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/groupware-kr/calendar-service/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("event_type", validateEventType)
}

// validateEventType accepts the known calendar categories. Empty is fine,
// storage normalizes it to "other".
func validateEventType(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	if v == "" {
		return true
	}
	return domain.EventType(v).Valid()
}

func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// Struct validates a request DTO against its tags and folds failures
// into one validation_error message.
func Struct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.ErrValidation(err.Error())
	}

	var messages []string
	for _, fe := range verrs {
		messages = append(messages, formatFieldError(fe))
	}
	return domain.ErrValidation(strings.Join(messages, "; "))
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "event_type":
		return fmt.Sprintf("%s must be one of meeting, training, event, volunteer, other", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
