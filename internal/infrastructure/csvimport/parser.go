// Package csvimport reads spreadsheet exports for bulk catalog updates.
package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Parser reads a header row followed by data rows. Header names are
// trimmed and lower-cased.
type Parser struct {
	delimiter  rune
	autoDetect bool
	headers    []string
	headerMap  map[string]int
	currentRow int
	reader     *csv.Reader
	buf        *bufio.Reader
}

// ParserOption configures a Parser
type ParserOption func(*Parser)

// WithDelimiter fixes the field delimiter and disables detection
func WithDelimiter(d rune) ParserOption {
	return func(p *Parser) {
		p.delimiter = d
		p.autoDetect = false
	}
}

// NewParser prepares r for reading. A UTF-8 BOM is skipped. Unless a
// delimiter is given, ';' is used when the first line holds more semicolons
// than commas, as spreadsheet exports in many locales do.
func NewParser(r io.Reader, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		delimiter:  ',',
		autoDetect: true,
		headerMap:  make(map[string]int),
		buf:        bufio.NewReader(r),
	}
	for _, opt := range opts {
		opt(p)
	}

	head, err := p.buf.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if bytes.HasPrefix(head, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = p.buf.Discard(3)
	}

	const checkSize = 4096
	sample, err := p.buf.Peek(checkSize)
	if err != nil && err != io.EOF && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(bytes.TrimSpace(sample)) == 0 {
		return nil, ErrEmptyFile
	}
	if !validUTF8Prefix(sample, len(sample) == checkSize) {
		return nil, ErrInvalidEncoding
	}
	if p.autoDetect {
		p.delimiter = detectDelimiter(sample)
	}

	p.reader = csv.NewReader(p.buf)
	p.reader.Comma = p.delimiter
	p.reader.LazyQuotes = true
	p.reader.TrimLeadingSpace = true
	p.reader.FieldsPerRecord = -1
	return p, nil
}

// validUTF8Prefix checks sample, tolerating a rune cut at the end of a
// truncated sample.
func validUTF8Prefix(sample []byte, truncated bool) bool {
	if utf8.Valid(sample) {
		return true
	}
	if !truncated {
		return false
	}
	for i := 1; i < utf8.UTFMax && i < len(sample); i++ {
		if utf8.Valid(sample[:len(sample)-i]) {
			return true
		}
	}
	return false
}

func detectDelimiter(sample []byte) rune {
	line := sample
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		line = sample[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

// Delimiter returns the delimiter in use
func (p *Parser) Delimiter() rune {
	return p.delimiter
}

// ParseHeader reads the header row
func (p *Parser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, len(record))
	for i, h := range record {
		h = strings.ToLower(strings.TrimSpace(h))
		p.headers[i] = h
		if _, dup := p.headerMap[h]; !dup && h != "" {
			p.headerMap[h] = i
		}
	}
	if len(p.headerMap) == 0 {
		return ErrMissingHeader
	}
	p.currentRow = 1
	return nil
}

// Headers returns the header names in file order
func (p *Parser) Headers() []string {
	return p.headers
}

// HasHeader reports whether a column is present
func (p *Parser) HasHeader(name string) bool {
	_, ok := p.headerMap[name]
	return ok
}

// MissingHeaders returns the required columns absent from the header
func (p *Parser) MissingHeaders(required ...string) []string {
	var missing []string
	for _, h := range required {
		if !p.HasHeader(h) {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row is one data row keyed by header name. Line is the 1-based line
// number in the file, counting the header.
type Row struct {
	Line int
	Data map[string]string
}

// Get returns the trimmed value of a column, or "" when absent
func (r *Row) Get(column string) string {
	return r.Data[column]
}

// IsEmpty reports whether every value is blank
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow returns the next row or io.EOF
func (p *Parser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	p.currentRow++
	if err != nil {
		return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedRow, p.currentRow, err)
	}

	row := &Row{Line: p.currentRow, Data: make(map[string]string, len(p.headerMap))}
	for name, i := range p.headerMap {
		if i < len(record) {
			row.Data[name] = strings.TrimSpace(record[i])
		} else {
			row.Data[name] = ""
		}
	}
	return row, nil
}

// ReadAll returns the remaining non-empty rows. It stops with
// ErrTooManyRows once more than maxRows rows are read; maxRows <= 0 means
// no limit.
func (p *Parser) ReadAll(maxRows int) ([]*Row, error) {
	var rows []*Row
	for {
		row, err := p.ReadRow()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
		if maxRows > 0 && len(rows) > maxRows {
			return rows, ErrTooManyRows
		}
	}
}
