package ml

import "errors"

var (
	// ErrDataUnavailable is returned when the dataset cannot be read or parsed.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrTraining is returned when no model can be fit from the dataset.
	ErrTraining = errors.New("training error")
	// ErrSchemaMismatch is returned when prediction input does not match the training schema.
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// ErrorKind names the pipeline error class of err, or "" for anything else.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrDataUnavailable):
		return "DataUnavailable"
	case errors.Is(err, ErrTraining):
		return "TrainingError"
	case errors.Is(err, ErrSchemaMismatch):
		return "SchemaMismatch"
	default:
		return ""
	}
}
