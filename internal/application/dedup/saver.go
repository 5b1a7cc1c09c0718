package dedup

import (
	"context"

	"github.com/radassist/report-engine/internal/domain/profile"
	"github.com/radassist/report-engine/internal/domain/report"
	"github.com/radassist/report-engine/internal/infrastructure/monitoring/logging"
	"github.com/radassist/report-engine/internal/textproc"
	"github.com/radassist/report-engine/pkg/types/common"
)

// EventPublisher is the outbound port for domain events raised by the save
// flow.  Publish failures are logged, never propagated: event delivery is
// best-effort and must not block a clinical save.
type EventPublisher interface {
	Publish(ctx context.Context, event common.DomainEvent) error
}

// Recorder receives save-flow counters for metrics exposition.
type Recorder interface {
	RecordClassification(unique, duplicates, errors int)
	RecordSave(saved, skipped, missed int)
}

type nopRecorder struct{}

func (nopRecorder) RecordClassification(int, int, int) {}
func (nopRecorder) RecordSave(int, int, int)           {}

// SaveResult is the aggregate outcome of a batch save: itemized counts plus
// the persisted sentences and the duplicate records, so the caller can render
// partial success instead of all-or-nothing failure.
type SaveResult struct {
	SavedCount      int                `json:"saved_count"`
	SkippedCount    int                `json:"skipped_count"`
	MissedCount     int                `json:"missed_count"`
	DuplicatesCount int                `json:"duplicates_count"`
	ErrorsCount     int                `json:"errors_count"`
	SavedSentences  []*report.Sentence `json:"saved_sentences"`
	Duplicates      []DuplicateRecord  `json:"duplicates"`
}

// Saver runs the full save flow: normalize and split each submitted text,
// re-type split results, classify the expanded batch, persist the unique
// sentences, bump weights on duplicates, and publish events.
type Saver struct {
	classifier *Classifier
	splitter   *textproc.Splitter
	sentences  report.SentenceRepository
	publisher  EventPublisher
	recorder   Recorder
	logger     logging.Logger
}

// NewSaver builds a Saver.  publisher and recorder may be nil.
func NewSaver(
	classifier *Classifier,
	splitter *textproc.Splitter,
	sentences report.SentenceRepository,
	publisher EventPublisher,
	recorder Recorder,
	logger logging.Logger,
) *Saver {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Saver{
		classifier: classifier,
		splitter:   splitter,
		sentences:  sentences,
		publisher:  publisher,
		recorder:   recorder,
		logger:     logger,
	}
}

// SaveBatch processes candidates for one report under the given profile
// context.  It returns a hard error only for configuration problems
// (invalid profile context, unsupported language); everything content-level
// lands in the result counters.
//
// Counter semantics:
//   - saved: unique sentences persisted;
//   - skipped: submissions rejected by normalization or splitting (not a
//     sentence);
//   - missed: unique sentences that failed to persist (logged, not fatal);
//   - duplicates: matches against stored sentences (weight bumped);
//   - errors: classification validation failures.
func (sv *Saver) SaveBatch(ctx context.Context, reportID common.ID, candidates []Candidate, profCtx profile.Context) (*SaveResult, error) {
	if err := profCtx.Validate(); err != nil {
		return nil, err
	}

	result := &SaveResult{}

	expanded, err := sv.expand(candidates, profCtx, result)
	if err != nil {
		return nil, err
	}

	batch, err := sv.classifier.ClassifyBatch(ctx, expanded, profCtx)
	if err != nil {
		return nil, err
	}
	result.ErrorsCount = batch.ErrorsCount
	result.Duplicates = batch.Duplicates
	result.DuplicatesCount = len(batch.Duplicates)
	sv.recorder.RecordClassification(len(batch.Unique), len(batch.Duplicates), batch.ErrorsCount)

	for _, cand := range batch.Unique {
		s, err := report.NewSentence(cand.Text, cand.Type, cand.ParagraphID, cand.HeadSentenceID)
		if err != nil {
			// Should have been caught by classification validation.
			result.ErrorsCount++
			continue
		}
		if err := sv.sentences.Create(ctx, s); err != nil {
			sv.logger.Error("failed to persist unique sentence",
				logging.Err(err),
				logging.String("paragraph_id", string(cand.ParagraphID)))
			result.MissedCount++
			continue
		}
		result.SavedCount++
		result.SavedSentences = append(result.SavedSentences, s)
		sv.publish(ctx, report.NewSentenceSavedEvent(reportID, s))
	}

	for _, dup := range batch.Duplicates {
		sv.bumpWeight(ctx, dup.MatchedID)
		sv.publish(ctx, report.NewDuplicateDetectedEvent(reportID, dup.Candidate.Text, dup.MatchedID, dup.Score))
	}

	sv.recorder.RecordSave(result.SavedCount, result.SkippedCount, result.MissedCount)
	return result, nil
}

// expand normalizes and splits each candidate text, re-typing multi-sentence
// results: a body submission keeps its first sentence as body and demotes the
// rest to paragraph-level tails; any other submission becomes all tails.
func (sv *Saver) expand(candidates []Candidate, profCtx profile.Context, result *SaveResult) ([]Candidate, error) {
	var out []Candidate
	for _, cand := range candidates {
		normalized := textproc.Normalize(cand.Text)
		if normalized == "" {
			result.SkippedCount++
			continue
		}

		unsplit, split, err := sv.splitter.Split(normalized, string(profCtx.Language))
		if err != nil {
			return nil, err
		}

		switch {
		case len(unsplit) == 1:
			c := cand
			c.Text = unsplit[0]
			out = append(out, c)

		case len(split) > 1:
			for i, text := range split {
				c := Candidate{
					ParagraphID: cand.ParagraphID,
					Type:        report.SentenceTail,
					Text:        text,
				}
				if cand.Type == report.SentenceBody && i == 0 {
					c.Type = report.SentenceBody
					c.HeadSentenceID = cand.HeadSentenceID
				}
				out = append(out, c)
			}

		default:
			// Nothing survived segmentation.
			result.SkippedCount++
		}
	}
	return out, nil
}

func (sv *Saver) bumpWeight(ctx context.Context, id common.ID) {
	s, err := sv.sentences.GetByID(ctx, id)
	if err != nil {
		sv.logger.Warn("failed to load matched sentence for weight bump",
			logging.Err(err), logging.String("sentence_id", string(id)))
		return
	}
	s.BumpWeight()
	if err := sv.sentences.Update(ctx, s); err != nil {
		sv.logger.Warn("failed to bump matched sentence weight",
			logging.Err(err), logging.String("sentence_id", string(id)))
	}
}

func (sv *Saver) publish(ctx context.Context, event common.DomainEvent) {
	if sv.publisher == nil {
		return
	}
	if err := sv.publisher.Publish(ctx, event); err != nil {
		sv.logger.Warn("failed to publish domain event",
			logging.Err(err), logging.String("event_id", event.EventID()))
	}
}
