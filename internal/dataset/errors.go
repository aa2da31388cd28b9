package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoDataLoaded возвращается запросом, когда активного набора данных нет
var ErrNoDataLoaded = errors.New("no POI data loaded")

// ValidationError - загрузка отклонена; Problems перечисляет конкретные нарушения
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid dataset: " + strings.Join(e.Problems, "; ")
}

func newValidationError(problems ...string) *ValidationError {
	return &ValidationError{Problems: problems}
}

// UnknownCategoryError - запрошенной категории нет в активном наборе данных
type UnknownCategoryError struct {
	Category  string
	Available []string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("category %q does not exist; available categories: %s",
		e.Category, strings.Join(e.Available, ", "))
}

// IsValidation сообщает, является ли err ошибкой валидации
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsUnknownCategory сообщает, является ли err ошибкой неизвестной категории
func IsUnknownCategory(err error) bool {
	var u *UnknownCategoryError
	return errors.As(err, &u)
}
