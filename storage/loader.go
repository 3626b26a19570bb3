package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"caregrid-listings/models"
)

var (
	// ErrInputMissing means the input file does not exist or cannot be opened.
	ErrInputMissing = errors.New("input file missing or unreadable")
	// ErrInputEmpty means the input file holds no data rows.
	ErrInputEmpty = errors.New("input file contains no records")
)

var rowNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("listings.caregrid"))

// LoadRows reads a .csv (header row first) or .json (array of objects) file
// into raw rows. Header keys are lower-cased with spaces turned into
// underscores and every value is trimmed.
func LoadRows(path string) ([]models.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInputMissing, path, err)
	}
	defer f.Close()

	var fields []map[string]string
	if strings.EqualFold(filepath.Ext(path), ".json") {
		fields, err = readJSON(f)
	} else {
		fields, err = readCSV(f)
	}
	if err != nil {
		return nil, fmt.Errorf("loader: parse %s: %w", path, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrInputEmpty, path)
	}

	base := filepath.Base(path)
	rows := make([]models.RawRow, 0, len(fields))
	for i, f := range fields {
		line := i + 1
		rows = append(rows, models.RawRow{
			ID:     RowID(base, line),
			Line:   line,
			Fields: f,
		})
	}
	return rows, nil
}

// RowID derives a stable listing ID from the source name and 1-based row number.
func RowID(source string, line int) string {
	return uuid.NewSHA1(rowNamespace, []byte(fmt.Sprintf("%s#%d", source, line))).String()
}

// NormaliseKey folds a header name: "Phone Number" -> "phone_number".
func NormaliseKey(k string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(k)), " ", "_")
}

func readCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range headers {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		headers[i] = NormaliseKey(h)
	}

	var out []map[string]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(out)+1, err)
		}
		if blankRow(row) {
			continue
		}

		m := make(map[string]string, len(headers))
		for j, h := range headers {
			if j < len(row) {
				m[h] = strings.TrimSpace(row[j])
			} else {
				m[h] = ""
			}
		}
		out = append(out, m)
	}
	return out, nil
}

func readJSON(r io.Reader) ([]map[string]string, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var items []map[string]any
	if err := dec.Decode(&items); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode: %w", err)
	}

	out := make([]map[string]string, 0, len(items))
	for _, item := range items {
		m := make(map[string]string, len(item))
		for k, v := range item {
			m[NormaliseKey(k)] = strings.TrimSpace(stringify(v))
		}
		out = append(out, m)
	}
	return out, nil
}

// stringify flattens a decoded JSON value to text. No type coercion beyond
// that happens here; lists are joined with ";" so they split like CSV cells.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, stringify(e))
		}
		return strings.Join(parts, ";")
	default:
		return fmt.Sprint(t)
	}
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
