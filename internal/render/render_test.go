package render

import (
	"strings"
	"testing"
	"time"

	"github.com/lshigami/Kindred/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrint(t *testing.T) {
	questions := []report.Question{
		{ID: 1, Section: "Money", Text: "Joint account?"},
		{ID: 2, Section: "Kids", Text: "Want <kids>?", DiscussionPrompt: &report.DiscussionPrompt{QuestionText: "What does family look like?", TipText: "Take turns."}},
	}
	rep := report.Build(questions,
		[]report.Answer{{QuestionID: 1, Value: "Yes"}, {QuestionID: 2, Value: "Yes"}},
		[]report.Answer{{QuestionID: 1, Value: "Yes"}},
	)

	var b strings.Builder
	err := Print(&b, Document{
		Partner1Name: "Ana",
		Partner2Name: "Ben",
		Report:       rep,
		Summary:      report.Summarize(rep.Comparisons),
		GeneratedAt:  time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	html := b.String()
	assert.Contains(t, html, "<title>Ana &amp; Ben: Relationship Report</title>")
	assert.Contains(t, html, "50% aligned")
	assert.Contains(t, html, "Generated March 14, 2026")
	assert.Contains(t, html, "<h2>Money</h2>")
	assert.Contains(t, html, "<h2>Kids</h2>")
	assert.Contains(t, html, "Want &lt;kids&gt;?")
	assert.Contains(t, html, `class="missing">Not Answered`)
	assert.Contains(t, html, "What does family look like?")
	assert.Less(t, strings.Index(html, "Money"), strings.Index(html, "Kids"))
}
