package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Cell is one value of a data row paired with its header.
type Cell struct {
	Column string
	Value  string
}

// Row is one data row in file column order. Number is the 1-based position
// of the row in the file, not counting the header.
type Row struct {
	Number int
	Cells  []Cell
}

// RowSource yields data rows one at a time. Next returns io.EOF once the
// file is exhausted; any other error means the file could not be read.
type RowSource interface {
	Next() (Row, error)
	Close() error
}

// OpenRowSource picks a reader from the original filename's extension.
func OpenRowSource(path, filename string) (RowSource, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return openCSVSource(path)
	case ".xlsx", ".xlsm":
		return openExcelSource(path)
	default:
		return nil, fmt.Errorf("%w (%q)", ErrUnsupportedFileType, filepath.Ext(filename))
	}
}

func streamError(err error) error {
	return fmt.Errorf("%w: %w", ErrStreamFailed, err)
}

// headerRow pairs the trimmed header names with a record. Columns without a
// header are dropped and missing trailing values read as "".
type headerRow []string

func newHeaderRow(record []string) headerRow {
	header := make(headerRow, len(record))
	for i, name := range record {
		header[i] = strings.TrimSpace(name)
	}
	return header
}

func (h headerRow) cells(record []string) []Cell {
	cells := make([]Cell, 0, len(h))
	for i, column := range h {
		if column == "" {
			continue
		}
		value := ""
		if i < len(record) {
			value = record[i]
		}
		cells = append(cells, Cell{Column: column, Value: value})
	}
	return cells
}

type csvSource struct {
	file    *os.File
	reader  *csv.Reader
	header  headerRow
	counter int
	done    bool
}

func openCSVSource(path string) (*csvSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, streamError(err)
	}

	// Strip a UTF-8 BOM and decode UTF-16 exports from Excel
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := csv.NewReader(transform.NewReader(file, decoder))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	src := &csvSource{file: file, reader: reader}

	first, err := reader.Read()
	if errors.Is(err, io.EOF) {
		src.done = true
		return src, nil
	}
	if err != nil {
		file.Close()
		return nil, streamError(err)
	}
	src.header = newHeaderRow(first)
	return src, nil
}

func (s *csvSource) Next() (Row, error) {
	if s.done {
		return Row{}, io.EOF
	}

	record, err := s.reader.Read()
	if errors.Is(err, io.EOF) {
		s.done = true
		return Row{}, io.EOF
	}
	if err != nil {
		return Row{}, streamError(err)
	}

	s.counter++
	return Row{Number: s.counter, Cells: s.header.cells(record)}, nil
}

func (s *csvSource) Close() error {
	return s.file.Close()
}

type excelSource struct {
	file    *excelize.File
	rows    *excelize.Rows
	header  headerRow
	counter int
	done    bool
}

// openExcelSource streams the first sheet of the workbook.
func openExcelSource(path string) (*excelSource, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, streamError(err)
	}

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		f.Close()
		return nil, streamError(errors.New("workbook has no sheets"))
	}

	rows, err := f.Rows(sheetName)
	if err != nil {
		f.Close()
		return nil, streamError(err)
	}

	src := &excelSource{file: f, rows: rows}
	if !rows.Next() {
		if err := rows.Error(); err != nil {
			src.Close()
			return nil, streamError(err)
		}
		src.done = true
		return src, nil
	}

	first, err := rows.Columns()
	if err != nil {
		src.Close()
		return nil, streamError(err)
	}
	src.header = newHeaderRow(first)
	return src, nil
}

func (s *excelSource) Next() (Row, error) {
	for !s.done {
		if !s.rows.Next() {
			s.done = true
			if err := s.rows.Error(); err != nil {
				return Row{}, streamError(err)
			}
			break
		}

		record, err := s.rows.Columns()
		if err != nil {
			return Row{}, streamError(err)
		}
		s.counter++

		// Formatted but empty rows are common in spreadsheets
		if isBlankRecord(record) {
			continue
		}
		return Row{Number: s.counter, Cells: s.header.cells(record)}, nil
	}
	return Row{}, io.EOF
}

func (s *excelSource) Close() error {
	rowsErr := s.rows.Close()
	fileErr := s.file.Close()
	return errors.Join(rowsErr, fileErr)
}

func isBlankRecord(record []string) bool {
	for _, value := range record {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
