// Package csvrows разбирает загруженный CSV в строки-кандидаты для dataset.BuildPoints.
package csvrows

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/poi-service/internal/dataset"
)

var (
	ErrEmptyFile   = errors.New("file is empty")
	ErrTooManyRows = errors.New("too many rows")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// columnAliases - альтернативные имена колонок, принятые в старых выгрузках
var columnAliases = map[string]string{
	"poi_type": dataset.ColumnCategory,
}

// Table - результат разбора: заголовок и строки с обязательными полями
type Table struct {
	Columns []string
	Rows    []dataset.Row
}

// Parse читает CSV с заголовком. Пустые ячейки и отсутствующие хвостовые
// ячейки помечаются как отсутствующие значения. maxRows <= 0 снимает лимит.
func Parse(data []byte, maxRows int) (*Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if canonical, ok := columnAliases[name]; ok && !contains(header, canonical) {
			name = canonical
		}
		columns[i] = name
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	cell := func(record []string, column string) dataset.Field {
		i, ok := index[column]
		if !ok || i >= len(record) || record[i] == "" {
			return dataset.Field{}
		}
		return dataset.FieldOf(record[i])
	}

	var rows []dataset.Row
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		if maxRows > 0 && len(rows) >= maxRows {
			return nil, fmt.Errorf("%w: limit is %d", ErrTooManyRows, maxRows)
		}

		rows = append(rows, dataset.Row{
			Name:     cell(record, dataset.ColumnName),
			Category: cell(record, dataset.ColumnCategory),
			Lat:      cell(record, dataset.ColumnLat),
			Lng:      cell(record, dataset.ColumnLng),
		})
	}

	return &Table{Columns: columns, Rows: rows}, nil
}

func contains(header []string, name string) bool {
	for _, h := range header {
		if strings.TrimSpace(h) == name {
			return true
		}
	}
	return false
}
