package csvimport

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Fields reads typed values from a row, recording problems in errs
type Fields struct {
	row  *Row
	errs *ErrorCollection
}

// NewFields binds row to errs
func NewFields(row *Row, errs *ErrorCollection) Fields {
	return Fields{row: row, errs: errs}
}

// String returns the value, recording an error when it is required and
// blank or longer than maxLen runes (maxLen <= 0 disables the check).
func (f Fields) String(column string, required bool, maxLen int) string {
	v := f.row.Get(column)
	if v == "" {
		if required {
			f.errs.Required(f.row.Line, column)
		}
		return ""
	}
	if maxLen > 0 && utf8.RuneCountInString(v) > maxLen {
		f.errs.Add(RowError{Row: f.row.Line, Column: column, Code: CodeTooLong, Message: "value is too long", Value: v})
	}
	return v
}

// Decimal parses a decimal. A comma decimal separator is accepted.
// Blank optional values return nil.
func (f Fields) Decimal(column string, required bool) *decimal.Decimal {
	v := f.row.Get(column)
	if v == "" {
		if required {
			f.errs.Required(f.row.Line, column)
		}
		return nil
	}
	d, err := decimal.NewFromString(strings.Replace(v, ",", ".", 1))
	if err != nil {
		f.errs.Format(f.row.Line, column, "a decimal number", v)
		return nil
	}
	return &d
}

// Bool parses true/false, yes/no, 1/0 and their Russian equivalents.
// Blank is false.
func (f Fields) Bool(column string) bool {
	v := strings.ToLower(f.row.Get(column))
	switch v {
	case "", "0", "false", "no", "n", "нет":
		return false
	case "1", "true", "yes", "y", "да":
		return true
	default:
		f.errs.Format(f.row.Line, column, "true or false", v)
		return false
	}
}

// List splits a value on '|' or ',' and drops blanks
func (f Fields) List(column string) []string {
	v := f.row.Get(column)
	if v == "" {
		return nil
	}
	parts := strings.FieldsFunc(v, func(r rune) bool { return r == '|' || r == ',' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
