package report

import (
	"context"

	"github.com/radassist/report-engine/pkg/types/common"
)

// SentenceRepository defines the persistence contract for sentences.
// Implementations must return ErrCodeSentenceNotFound for missing ids and
// keep list results ordered by weight descending, then creation time.
type SentenceRepository interface {
	Create(ctx context.Context, s *Sentence) error
	GetByID(ctx context.Context, id common.ID) (*Sentence, error)
	Update(ctx context.Context, s *Sentence) error
	Delete(ctx context.Context, id common.ID) error

	// ListByGroup returns the ordered members of a sentence group.
	ListByGroup(ctx context.Context, groupID common.ID) ([]*Sentence, error)

	// ListBodiesByHead returns the body sentences attached to the given
	// head sentence, in group order.  The head itself is not included.
	ListBodiesByHead(ctx context.Context, headSentenceID common.ID) ([]*Sentence, error)

	BatchCreate(ctx context.Context, sentences []*Sentence) (int, error)
}

// ParagraphRepository defines the persistence contract for paragraphs and
// their sentence groups.
type ParagraphRepository interface {
	Create(ctx context.Context, p *Paragraph) error
	GetByID(ctx context.Context, id common.ID) (*Paragraph, error)
	Update(ctx context.Context, p *Paragraph) error
	Delete(ctx context.Context, id common.ID) error

	// ListByReport returns the report's paragraphs ordered by index.
	ListByReport(ctx context.Context, reportID common.ID) ([]*Paragraph, error)

	// GetTailGroup returns the paragraph's tail group with its ordered
	// sentences, or (nil, nil) when the paragraph has no tail group yet.
	GetTailGroup(ctx context.Context, paragraphID common.ID) (*SentenceGroup, error)

	// Renumber rewrites the report's paragraph indexes to be unique and
	// contiguous, preserving relative order.
	Renumber(ctx context.Context, reportID common.ID) error
}

// ReportRepository defines the persistence contract for report aggregates.
type ReportRepository interface {
	Create(ctx context.Context, r *Report) error
	GetByID(ctx context.Context, id common.ID) (*Report, error)
	Update(ctx context.Context, r *Report) error

	// GetTree loads the report with its full paragraph and sentence-group
	// hierarchy attached, ready for skeleton projection.
	GetTree(ctx context.Context, id common.ID) (*Report, error)

	ListByProfile(ctx context.Context, profileID common.ID, page common.Pagination) ([]*Report, int64, error)
}
