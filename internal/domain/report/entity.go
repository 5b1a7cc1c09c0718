// Package report implements the Report bounded context: sentences, sentence
// groups, paragraphs, and the report aggregate, together with the structural
// invariants that duplicate detection and AI restructuring rely on.  All
// business rules about report structure live here; persistence and transport
// are handled by separate repository and adapter layers.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/radassist/report-engine/pkg/errors"
	"github.com/radassist/report-engine/pkg/types/common"
)

// SentenceType tags a sentence's structural position in a paragraph.
type SentenceType string

const (
	// SentenceHead is a primary anchor sentence of a paragraph slot.
	SentenceHead SentenceType = "head"
	// SentenceBody is an elaboration attached beneath a specific head
	// sentence.
	SentenceBody SentenceType = "body"
	// SentenceTail is attached at the paragraph level, typically
	// impression or summary text.
	SentenceTail SentenceType = "tail"
)

// ParseSentenceType converts s to a SentenceType, case-insensitively.
func ParseSentenceType(s string) (SentenceType, error) {
	t := SentenceType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", errors.InvalidParam("unknown sentence_type: " + s)
	}
	return t, nil
}

// IsValid reports whether t is one of the three known types.
func (t SentenceType) IsValid() bool {
	switch t {
	case SentenceHead, SentenceBody, SentenceTail:
		return true
	}
	return false
}

func (t SentenceType) String() string { return string(t) }

// Sentence is a unit of report text.  Head and tail sentences are owned by a
// paragraph; body sentences are owned by the head sentence they elaborate.
type Sentence struct {
	common.BaseEntity

	// GroupID identifies the sentence group this sentence belongs to.
	GroupID common.ID `json:"group_id,omitempty"`

	// ParagraphID is set for head and tail sentences.
	ParagraphID common.ID `json:"paragraph_id,omitempty"`

	// HeadSentenceID is set for body sentences.
	HeadSentenceID common.ID `json:"head_sentence_id,omitempty"`

	Text        string          `json:"text"`
	CleanedText string          `json:"cleaned_text,omitempty"`
	Type        SentenceType    `json:"type"`
	Weight      int             `json:"weight"`
	Tags        []string        `json:"tags,omitempty"`
	Comment     string          `json:"comment,omitempty"`
	Modality    common.Modality `json:"modality,omitempty"`
}

// NewSentence constructs a Sentence and enforces the ownership invariants:
// body sentences must reference a head sentence, head and tail sentences must
// reference a paragraph, and the text must be non-empty.
func NewSentence(text string, typ SentenceType, paragraphID, headSentenceID common.ID) (*Sentence, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.InvalidParam("text must not be empty")
	}
	if !typ.IsValid() {
		return nil, errors.InvalidParam("unknown sentence type: " + string(typ))
	}
	switch typ {
	case SentenceBody:
		if headSentenceID.IsZero() {
			return nil, errors.InvalidParam("head_sentence_id is required for body sentences")
		}
	default:
		if paragraphID.IsZero() {
			return nil, errors.InvalidParam("paragraph_id is required for head and tail sentences")
		}
	}

	s := &Sentence{
		Text:           text,
		Type:           typ,
		ParagraphID:    paragraphID,
		HeadSentenceID: headSentenceID,
		Weight:         1,
	}
	s.BaseEntity.ID = common.NewID()
	s.Touch()
	return s, nil
}

// BumpWeight increments the sentence's usage weight.
func (s *Sentence) BumpWeight() {
	s.Weight++
	s.Touch()
}

// SetText replaces the sentence text and clears the stale cleaned form.
func (s *Sentence) SetText(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.InvalidParam("text must not be empty")
	}
	s.Text = text
	s.CleanedText = ""
	s.Touch()
	return nil
}

// SentenceGroup is a set of interchangeable alternative sentences at one
// structural slot.  All members share the same owner: the paragraph for head
// and tail groups, the head sentence for body groups.
type SentenceGroup struct {
	ID             common.ID    `json:"id"`
	ParagraphID    common.ID    `json:"paragraph_id,omitempty"`
	HeadSentenceID common.ID    `json:"head_sentence_id,omitempty"`
	Type           SentenceType `json:"type"`
	Sentences      []*Sentence  `json:"sentences"`
}

// Add appends a sentence to the group after checking it shares the group's
// owner and type.
func (g *SentenceGroup) Add(s *Sentence) error {
	if s.Type != g.Type {
		return errors.InvalidParam(fmt.Sprintf("sentence type %s does not match group type %s", s.Type, g.Type))
	}
	if g.Type == SentenceBody {
		if s.HeadSentenceID != g.HeadSentenceID {
			return errors.InvalidParam("sentence belongs to a different head")
		}
	} else if s.ParagraphID != g.ParagraphID {
		return errors.InvalidParam("sentence belongs to a different paragraph")
	}
	s.GroupID = g.ID
	g.Sentences = append(g.Sentences, s)
	return nil
}

// Texts returns the member texts in group order.
func (g *SentenceGroup) Texts() []string {
	out := make([]string, len(g.Sentences))
	for i, s := range g.Sentences {
		out[i] = s.Text
	}
	return out
}

// Paragraph is a titled section of a report.  It owns zero or more
// head-sentence groups and at most one tail-sentence group.
type Paragraph struct {
	common.BaseEntity

	ReportID common.ID `json:"report_id"`
	Index    int       `json:"index"`
	Title    string    `json:"title"`

	IsImpression bool `json:"is_impression"`
	IsAdditional bool `json:"is_additional"`
	IsActive     bool `json:"is_active"`
	Visible      bool `json:"visible"`
	Bold         bool `json:"bold"`

	HeadGroups []*SentenceGroup `json:"head_groups,omitempty"`
	TailGroup  *SentenceGroup   `json:"tail_group,omitempty"`
}

// NewParagraph constructs an active, visible paragraph.
func NewParagraph(reportID common.ID, index int, title string) (*Paragraph, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.InvalidParam("title must not be empty")
	}
	p := &Paragraph{
		ReportID: reportID,
		Index:    index,
		Title:    title,
		IsActive: true,
		Visible:  true,
	}
	p.BaseEntity.ID = common.NewID()
	p.Touch()
	return p, nil
}

// HeadSentences returns the representative (first) sentence of each head
// group, in paragraph order.  This is the projection used for the AI
// round-trip and for title-level report rendering.
func (p *Paragraph) HeadSentences() []*Sentence {
	var out []*Sentence
	for _, g := range p.HeadGroups {
		if len(g.Sentences) > 0 {
			out = append(out, g.Sentences[0])
		}
	}
	return out
}

// Report is the aggregate root: a named, modality-scoped ordered list of
// paragraphs.
type Report struct {
	common.BaseEntity

	Name       string              `json:"name"`
	ProfileID  common.ID           `json:"profile_id"`
	Modality   common.Modality     `json:"modality"`
	Language   common.LanguageCode `json:"language"`
	Paragraphs []*Paragraph        `json:"paragraphs,omitempty"`
}

// Renumber restores the paragraph-index invariant: after any structural edit
// indexes must be unique and contiguous starting at 1.
func (r *Report) Renumber() {
	RenumberParagraphs(r.Paragraphs)
}

// RenumberParagraphs sorts paragraphs by their current index (stable, so
// equal indexes keep arrival order) and reassigns contiguous indexes 1..n.
func RenumberParagraphs(paragraphs []*Paragraph) {
	sort.SliceStable(paragraphs, func(i, j int) bool {
		return paragraphs[i].Index < paragraphs[j].Index
	})
	for i, p := range paragraphs {
		if p.Index != i+1 {
			p.Index = i + 1
			p.Touch()
		}
	}
}
