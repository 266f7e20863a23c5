package dental

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dentalAssistant/internal/llm"
	"dentalAssistant/internal/media"
	"dentalAssistant/internal/prompts"
)

// Analyzer turns an uploaded image into a preliminary dental report.
type Analyzer struct {
	client llm.VisionClient
	now    func() time.Time
}

// NewAnalyzer constructs an analyzer backed by the given vision client.
func NewAnalyzer(client llm.VisionClient) *Analyzer {
	return &Analyzer{client: client, now: time.Now}
}

// Analyze encodes the image, sends it with the dental prompt and returns the result.
// It never returns a bare error; failures are carried in Report.Err as *InferenceError.
func (a *Analyzer) Analyze(ctx context.Context, img *media.Image) Report {
	now := time.Now
	if a != nil && a.now != nil {
		now = a.now
	}
	started := now()
	report := Report{CreatedAt: started}

	fail := func(err error) Report {
		report.Err = &InferenceError{Err: err}
		report.Duration = now().Sub(started)
		return report
	}

	if a == nil || a.client == nil {
		return fail(errors.New("inference client unavailable"))
	}
	report.Model = a.client.Model()

	if img == nil || img.Bitmap == nil {
		return fail(ErrNoImage)
	}

	dataURI, err := media.EncodeDataURI(img.Bitmap)
	if err != nil {
		return fail(fmt.Errorf("encode image: %w", err))
	}

	text, err := a.client.VisionCompletion(ctx, prompts.DentalAnalysis(), dataURI)
	if err != nil {
		return fail(err)
	}

	report.Text = text
	report.Duration = now().Sub(started)
	return report
}
