// Package dedup provides the application-level duplicate detection services:
// batch classification of candidate sentences against the stored report
// structure, and the aggregate save flow built on top of it.  This package
// sits between HTTP handlers and the report/profile domain logic.
package dedup

import (
	"context"
	"strings"

	"github.com/radassist/report-engine/internal/domain/profile"
	"github.com/radassist/report-engine/internal/domain/report"
	"github.com/radassist/report-engine/internal/infrastructure/monitoring/logging"
	"github.com/radassist/report-engine/internal/textproc"
	"github.com/radassist/report-engine/pkg/errors"
	"github.com/radassist/report-engine/pkg/types/common"
)

// Candidate is one submitted sentence awaiting classification.
type Candidate struct {
	ParagraphID    common.ID           `json:"paragraph_id,omitempty"`
	HeadSentenceID common.ID           `json:"head_sentence_id,omitempty"`
	Type           report.SentenceType `json:"sentence_type"`
	Text           string              `json:"text"`
}

// DuplicateRecord describes a candidate that matched a stored sentence.
type DuplicateRecord struct {
	Candidate   Candidate `json:"candidate"`
	MatchedID   common.ID `json:"matched_id"`
	MatchedText string    `json:"matched_text"`
	Score       int       `json:"score"`
}

// BatchResult is the classification outcome.  Every valid candidate appears
// in exactly one of Unique/Duplicates, in input order; invalid candidates
// appear in neither and are tallied in ErrorsCount.
type BatchResult struct {
	Unique      []Candidate       `json:"unique"`
	Duplicates  []DuplicateRecord `json:"duplicates"`
	ErrorsCount int               `json:"errors_count"`
}

// Classifier partitions candidate batches into unique and duplicate
// sentences by fuzzy comparison against the stored comparison pools.
type Classifier struct {
	sentences  report.SentenceRepository
	paragraphs report.ParagraphRepository
	logger     logging.Logger
}

// NewClassifier builds a Classifier.
func NewClassifier(sentences report.SentenceRepository, paragraphs report.ParagraphRepository, logger logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Classifier{sentences: sentences, paragraphs: paragraphs, logger: logger}
}

// ClassifyBatch classifies candidates sequentially, in input order, so the
// partition is stable and the error tally deterministic.
//
// Content-level problems (empty text, missing context reference, unresolvable
// head sentence or paragraph) are counted in ErrorsCount and never abort the
// batch; only infrastructure failures propagate as errors.
func (c *Classifier) ClassifyBatch(ctx context.Context, candidates []Candidate, profCtx profile.Context) (*BatchResult, error) {
	if err := profCtx.Validate(); err != nil {
		return nil, err
	}
	threshold := profCtx.SimilarityThreshold
	if threshold == 0 {
		threshold = textproc.DefaultDuplicateThreshold
	}

	result := &BatchResult{}
	for _, cand := range candidates {
		if !c.valid(cand) {
			result.ErrorsCount++
			continue
		}

		pool, ok, err := c.resolvePool(ctx, cand)
		if err != nil {
			return nil, err
		}
		if !ok {
			result.ErrorsCount++
			continue
		}
		if len(pool) == 0 {
			result.Unique = append(result.Unique, cand)
			continue
		}

		stripped := make([]string, len(pool))
		for i, s := range pool {
			stripped[i] = textproc.Strip(s.Text, profCtx.Keywords, profCtx.ExceptWords)
		}
		cleaned := textproc.Strip(cand.Text, profCtx.Keywords, profCtx.ExceptWords)

		m := textproc.FirstMatch(cleaned, stripped, threshold)
		if m.Index < 0 {
			result.Unique = append(result.Unique, cand)
			continue
		}
		result.Duplicates = append(result.Duplicates, DuplicateRecord{
			Candidate:   cand,
			MatchedID:   pool[m.Index].BaseEntity.ID,
			MatchedText: pool[m.Index].Text,
			Score:       m.Score,
		})
	}
	return result, nil
}

func (c *Classifier) valid(cand Candidate) bool {
	if strings.TrimSpace(cand.Text) == "" || !cand.Type.IsValid() {
		return false
	}
	if cand.Type == report.SentenceBody {
		return !cand.HeadSentenceID.IsZero()
	}
	return !cand.ParagraphID.IsZero()
}

// resolvePool loads the comparison pool for a candidate.  ok is false when
// the candidate's context reference does not resolve, which counts as a
// content error; a genuinely absent tail group yields an empty pool instead,
// making the candidate automatically unique.
func (c *Classifier) resolvePool(ctx context.Context, cand Candidate) (pool []*report.Sentence, ok bool, err error) {
	switch cand.Type {
	case report.SentenceBody:
		siblings, err := c.sentences.ListBodiesByHead(ctx, cand.HeadSentenceID)
		if err != nil {
			if errors.IsNotFound(err) {
				c.logger.Warn("head sentence not found for body candidate",
					logging.String("head_sentence_id", string(cand.HeadSentenceID)))
				return nil, false, nil
			}
			return nil, false, err
		}
		return siblings, true, nil

	case report.SentenceTail:
		group, err := c.paragraphs.GetTailGroup(ctx, cand.ParagraphID)
		if err != nil {
			if errors.IsNotFound(err) {
				c.logger.Warn("paragraph not found for tail candidate",
					logging.String("paragraph_id", string(cand.ParagraphID)))
				return nil, false, nil
			}
			return nil, false, err
		}
		if group == nil {
			return nil, true, nil
		}
		return group.Sentences, true, nil

	default: // head
		p, err := c.paragraphs.GetByID(ctx, cand.ParagraphID)
		if err != nil {
			if errors.IsNotFound(err) {
				c.logger.Warn("paragraph not found for head candidate",
					logging.String("paragraph_id", string(cand.ParagraphID)))
				return nil, false, nil
			}
			return nil, false, err
		}
		return p.HeadSentences(), true, nil
	}
}
