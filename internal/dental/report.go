package dental

import (
	"errors"
	"time"
)

// ErrorPrefix starts the display text of every failed analysis.
const ErrorPrefix = "Error analyzing image: "

// ErrNoImage is reported when an analysis is requested without an image.
var ErrNoImage = errors.New("no image uploaded")

// InferenceError wraps any failure between encoding the image and reading the model's reply.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	if e.Err == nil {
		return "inference failed"
	}
	return e.Err.Error()
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// Report is the outcome of one analysis: either the model text or an inference error.
type Report struct {
	Text      string
	Err       error
	Model     string
	CreatedAt time.Time
	Duration  time.Duration
}

// Failed reports whether the analysis ended in an error.
func (r Report) Failed() bool {
	return r.Err != nil
}

// Display returns what the user sees: the model text as-is, or the error string.
func (r Report) Display() string {
	if r.Err != nil {
		return FormatError(r.Err)
	}
	return r.Text
}

// FormatError renders an error the way failed analyses are shown to users.
func FormatError(err error) string {
	if err == nil {
		return ErrorPrefix + "unknown error"
	}
	return ErrorPrefix + err.Error()
}
