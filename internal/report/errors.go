package report

import (
	"errors"
	"fmt"
)

// ErrReportGeneration is matched by every failure of the spreadsheet writer.
var ErrReportGeneration = errors.New("report generation failed")

// ErrCellTooLong reports a value longer than a spreadsheet cell can hold.
var ErrCellTooLong = errors.New("value exceeds cell size limit")

// GenerationError records which part of the workbook could not be written.
type GenerationError struct {
	Stage string
	Err   error
}

// Error implements the error interface
func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s (%s): %v", ErrReportGeneration, e.Stage, e.Err)
}

// Unwrap returns the underlying writer error.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrReportGeneration) match.
func (e *GenerationError) Is(target error) bool {
	return target == ErrReportGeneration
}

func stageError(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &GenerationError{Stage: stage, Err: err}
}
