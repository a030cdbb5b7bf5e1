// Package report compares two partners' answers question by question and
// groups the result by questionnaire section.
package report

import "math"

// NotAnswered is shown in place of a value the respondent never submitted.
const NotAnswered = "Not Answered"

// DiscussionPrompt is the follow-up shown to a couple when their answers differ.
type DiscussionPrompt struct {
	QuestionText string `json:"question_text"`
	TipText      string `json:"tip_text,omitempty"`
}

type Question struct {
	ID               uint
	Section          string
	Text             string
	Explainer        string
	DiscussionPrompt *DiscussionPrompt
}

type Answer struct {
	QuestionID   uint
	RespondentID uint
	Value        string
}

// Comparison is the alignment verdict for one question.
type Comparison struct {
	Question         Question
	Partner1Answer   string
	Partner2Answer   string
	Partner1Answered bool
	Partner2Answered bool
	IsAligned        bool
	DiscussionPrompt *DiscussionPrompt
}

type Section struct {
	Name        string
	Comparisons []Comparison
}

// Report holds the comparisons grouped by section (first-seen order) and the
// same comparisons as a flat list in question order.
type Report struct {
	Sections    []Section
	Comparisons []Comparison
}

type Summary struct {
	Total      int `json:"total"`
	Aligned    int `json:"aligned"`
	Misaligned int `json:"misaligned"`
	Percentage int `json:"percentage"`
}

// Build produces one comparison per question. It never fails: a missing
// answer becomes NotAnswered and counts as misaligned. If a respondent has
// more than one answer for a question the first one wins.
func Build(questions []Question, answersA, answersB []Answer) Report {
	byQuestionA := indexAnswers(answersA)
	byQuestionB := indexAnswers(answersB)

	rep := Report{Comparisons: make([]Comparison, 0, len(questions))}
	sectionIdx := make(map[string]int)

	for _, q := range questions {
		a, okA := byQuestionA[q.ID]
		b, okB := byQuestionB[q.ID]

		c := Comparison{
			Question:         q,
			Partner1Answer:   NotAnswered,
			Partner2Answer:   NotAnswered,
			Partner1Answered: okA,
			Partner2Answered: okB,
			IsAligned:        okA && okB && a == b,
		}
		if okA {
			c.Partner1Answer = a
		}
		if okB {
			c.Partner2Answer = b
		}
		if !c.IsAligned && q.DiscussionPrompt != nil {
			prompt := *q.DiscussionPrompt
			c.DiscussionPrompt = &prompt
		}

		rep.Comparisons = append(rep.Comparisons, c)

		i, seen := sectionIdx[q.Section]
		if !seen {
			i = len(rep.Sections)
			sectionIdx[q.Section] = i
			rep.Sections = append(rep.Sections, Section{Name: q.Section})
		}
		rep.Sections[i].Comparisons = append(rep.Sections[i].Comparisons, c)
	}
	return rep
}

func indexAnswers(answers []Answer) map[uint]string {
	m := make(map[uint]string, len(answers))
	for _, a := range answers {
		if _, dup := m[a.QuestionID]; dup {
			continue
		}
		m[a.QuestionID] = a.Value
	}
	return m
}

// Summarize counts aligned comparisons. Percentage is 0 for an empty list.
func Summarize(comparisons []Comparison) Summary {
	s := Summary{Total: len(comparisons)}
	for _, c := range comparisons {
		if c.IsAligned {
			s.Aligned++
		}
	}
	s.Misaligned = s.Total - s.Aligned
	s.Percentage = Percentage(s.Aligned, s.Total)
	return s
}

func Percentage(aligned, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(aligned) / float64(total) * 100))
}

// Misaligned returns the comparisons that need a conversation, in order.
func (r Report) Misaligned() []Comparison {
	var out []Comparison
	for _, c := range r.Comparisons {
		if !c.IsAligned {
			out = append(out, c)
		}
	}
	return out
}
