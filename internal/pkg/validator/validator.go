package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate - валидация структуры
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// GetValidator - получить валидатор для кастомной конфигурации
func GetValidator() *validator.Validate {
	return validate
}

// Describe превращает ошибки валидатора в читаемые сообщения по полям
func Describe(err error) []string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "min", "gte":
			messages = append(messages, fmt.Sprintf("%s must be >= %s", field, fe.Param()))
		case "max", "lte":
			messages = append(messages, fmt.Sprintf("%s must be <= %s", field, fe.Param()))
		case "latitude":
			messages = append(messages, fmt.Sprintf("%s must be a valid latitude (-90..90)", field))
		case "longitude":
			messages = append(messages, fmt.Sprintf("%s must be a valid longitude (-180..180)", field))
		default:
			messages = append(messages, fmt.Sprintf("%s failed on %s", field, fe.Tag()))
		}
	}
	return messages
}
