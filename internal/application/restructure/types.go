// Package restructure implements the AI round-trip for report structure:
// projecting a report tree into a durable skeleton plus an AI-facing editable
// subset, and reconciling the AI response back into the skeleton by ID with
// fuzzy title verification on the legacy path.
package restructure

import (
	"github.com/radassist/report-engine/internal/domain/report"
	"github.com/radassist/report-engine/pkg/types/common"
)

// MiscellaneousID marks the synthetic catch-all paragraph appended to the
// AI input.  Content the AI cannot place elsewhere lands here and is
// extracted separately during merge, never injected into the skeleton.
const MiscellaneousID common.ID = "miscellaneous"

// MiscellaneousTitle is the display title of the catch-all paragraph.
const MiscellaneousTitle = "Miscellaneous"

// HeadSentence is the {id, text} projection of a head sentence used on both
// sides of the round-trip.
type HeadSentence struct {
	ID   common.ID `json:"id"`
	Text string    `json:"text"`
}

// SkeletonParagraph carries everything needed to reconstruct a paragraph,
// including the structural flags the AI must never see.
type SkeletonParagraph struct {
	ID            common.ID      `json:"id"`
	Title         string         `json:"title"`
	IsActive      bool           `json:"is_active"`
	IsAdditional  bool           `json:"is_additional"`
	HeadSentences []HeadSentence `json:"head_sentences"`
}

// Skeleton is the durable source of truth for reconstruction: every
// paragraph of the report, verbatim.
type Skeleton struct {
	ReportID   common.ID           `json:"report_id"`
	Paragraphs []SkeletonParagraph `json:"paragraphs"`
}

// AIParagraph is the editable projection sent to the AI: flags stripped.
// The AI response comes back in the same shape.
type AIParagraph struct {
	ID            common.ID      `json:"id"`
	Title         string         `json:"title"`
	HeadSentences []HeadSentence `json:"head_sentences"`
}

// AIInput is the structure handed to the external AI call.
type AIInput struct {
	Paragraphs []AIParagraph `json:"paragraphs"`
}

// AIResponse is the structure handed back by the external AI call.
type AIResponse struct {
	Paragraphs []AIParagraph `json:"paragraphs"`
}

// SkeletonOf projects a loaded report tree into its skeleton.
func SkeletonOf(r *report.Report) Skeleton {
	sk := Skeleton{ReportID: r.BaseEntity.ID}
	for _, p := range r.Paragraphs {
		sp := SkeletonParagraph{
			ID:           p.BaseEntity.ID,
			Title:        p.Title,
			IsActive:     p.IsActive,
			IsAdditional: p.IsAdditional,
		}
		for _, h := range p.HeadSentences() {
			sp.HeadSentences = append(sp.HeadSentences, HeadSentence{
				ID:   h.BaseEntity.ID,
				Text: h.Text,
			})
		}
		sk.Paragraphs = append(sk.Paragraphs, sp)
	}
	return sk
}
