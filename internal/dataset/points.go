package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Обязательные колонки входного набора
const (
	ColumnName     = "name"
	ColumnCategory = "category"
	ColumnLat      = "lat"
	ColumnLng      = "lng"
)

// RequiredColumns - порядок важен только для сообщений об ошибках
var RequiredColumns = []string{ColumnName, ColumnCategory, ColumnLat, ColumnLng}

// Field - значение ячейки; Present=false означает отсутствующее значение (null)
type Field struct {
	Value   string
	Present bool
}

// FieldOf создаёт присутствующее значение
func FieldOf(s string) Field {
	return Field{Value: s, Present: true}
}

// Row - сырая строка-кандидат, как её извлёк внешний слой
type Row struct {
	Name     Field
	Category Field
	Lat      Field
	Lng      Field
}

// Point - провалидированная точка, неизменяемая после сохранения
type Point struct {
	Name     string
	Category string
	Lat      float64
	Lng      float64
}

// Points - точки, сгруппированные по категориям с сохранением входного порядка
type Points struct {
	Groups     map[string][]Point
	Categories []string
	Total      int
}

// BuildPoints валидирует строки и группирует их по категориям.
// Строки с отсутствующими обязательными значениями отбрасываются; всё остальное - жёсткая ошибка.
func BuildPoints(columns []string, rows []Row) (*Points, error) {
	if missing := missingColumns(columns); len(missing) > 0 {
		return nil, newValidationError(fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")))
	}
	if len(rows) == 0 {
		return nil, newValidationError("dataset has no rows")
	}

	// Первый проход: отбрасываем строки с пропущенными значениями
	kept := make([]Row, 0, len(rows))
	nullFields := make(map[string]bool)
	for _, r := range rows {
		ok := true
		for col, f := range r.fields() {
			if !f.Present {
				nullFields[col] = true
				ok = false
			}
		}
		if ok {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return nil, newValidationError(fmt.Sprintf(
			"no valid rows left after dropping rows with missing values; columns with missing values: %s",
			strings.Join(sortedKeys(nullFields), ", ")))
	}

	// Второй проход: собираем все нарушения и только потом решаем
	var (
		nonNumeric, badLat, badLng int
		emptyNames, emptyCategories int
	)
	points := make([]Point, 0, len(kept))
	for _, r := range kept {
		lat, latErr := parseCoord(r.Lat.Value)
		lng, lngErr := parseCoord(r.Lng.Value)
		name := strings.TrimSpace(r.Name.Value)
		category := strings.TrimSpace(r.Category.Value)

		valid := true
		if latErr != nil || lngErr != nil {
			nonNumeric++
			valid = false
		} else {
			if lat < -90 || lat > 90 {
				badLat++
				valid = false
			}
			if lng < -180 || lng > 180 {
				badLng++
				valid = false
			}
		}
		if name == "" {
			emptyNames++
			valid = false
		}
		if category == "" {
			emptyCategories++
			valid = false
		}
		if valid {
			points = append(points, Point{Name: name, Category: category, Lat: lat, Lng: lng})
		}
	}

	var problems []string
	if nonNumeric > 0 {
		problems = append(problems, fmt.Sprintf("%d rows have coordinates that are not numbers", nonNumeric))
	}
	if badLat > 0 {
		problems = append(problems, fmt.Sprintf("%d rows with invalid latitude (must be between -90 and 90)", badLat))
	}
	if badLng > 0 {
		problems = append(problems, fmt.Sprintf("%d rows with invalid longitude (must be between -180 and 180)", badLng))
	}
	if emptyNames > 0 {
		problems = append(problems, fmt.Sprintf("%d rows with empty name", emptyNames))
	}
	if emptyCategories > 0 {
		problems = append(problems, fmt.Sprintf("%d rows with empty category", emptyCategories))
	}
	if len(problems) > 0 {
		return nil, newValidationError(problems...)
	}

	return group(points), nil
}

func group(points []Point) *Points {
	groups := make(map[string][]Point)
	for _, p := range points {
		groups[p.Category] = append(groups[p.Category], p)
	}
	categories := make([]string, 0, len(groups))
	for c := range groups {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	return &Points{Groups: groups, Categories: categories, Total: len(points)}
}

func (r Row) fields() map[string]Field {
	return map[string]Field{
		ColumnName:     r.Name,
		ColumnCategory: r.Category,
		ColumnLat:      r.Lat,
		ColumnLng:      r.Lng,
	}
}

func parseCoord(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return v, nil
}

func missingColumns(columns []string) []string {
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		seen[strings.TrimSpace(c)] = true
	}
	var missing []string
	for _, c := range RequiredColumns {
		if !seen[c] {
			missing = append(missing, c)
		}
	}
	sort.Strings(missing)
	return missing
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
