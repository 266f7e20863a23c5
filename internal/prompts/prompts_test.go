package prompts

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDentalAnalysisSectionsInOrder(t *testing.T) {
	prompt := DentalAnalysis()

	last := -1
	for i, label := range ReportSections() {
		heading := fmt.Sprintf("%d. **%s:**", i+1, label)
		idx := strings.Index(prompt, heading)
		require.GreaterOrEqual(t, idx, 0, "missing section %q", heading)
		assert.Greater(t, idx, last, "section %q out of order", label)
		last = idx
	}
}

func TestDentalAnalysisDisclaimers(t *testing.T) {
	prompt := DentalAnalysis()

	for _, sentence := range []string{
		"**IMPORTANT DISCLAIMERS:**",
		"This is a preliminary assessment only and cannot replace professional dental examination",
		"Always consult with a licensed dentist for definitive diagnosis and treatment",
		"In case of severe pain, swelling, or emergency symptoms, seek immediate dental care",
	} {
		assert.Contains(t, prompt, sentence)
	}
}

func TestDentalAnalysisRequestsSeverityAndUrgency(t *testing.T) {
	prompt := DentalAnalysis()

	assert.Contains(t, prompt, "severity of each issue (mild, moderate, severe)")
	assert.Contains(t, prompt, "urgency level (routine, soon, urgent, emergency)")
	assert.True(t, strings.HasPrefix(prompt, "You are a professional dental assistant AI"))
}
