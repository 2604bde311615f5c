package services

import "errors"

// Input errors are reported before any row is read.
var (
	ErrMissingFile         = errors.New("no file was uploaded")
	ErrInvalidMapping      = errors.New("mapping must be a JSON object of column names to contact fields")
	ErrUnsupportedFileType = errors.New("unsupported file type: upload a .csv, .xlsx or .xlsm file")
)

// ErrStreamFailed wraps any failure to read the uploaded file. The import is
// aborted and nothing is written.
var ErrStreamFailed = errors.New("failed to read uploaded file")

// IsInputError reports whether err should be answered with a client error.
func IsInputError(err error) bool {
	return errors.Is(err, ErrMissingFile) ||
		errors.Is(err, ErrInvalidMapping) ||
		errors.Is(err, ErrUnsupportedFileType)
}
