package restructure

import (
	"context"

	"github.com/radassist/report-engine/internal/domain/report"
	"github.com/radassist/report-engine/internal/infrastructure/monitoring/logging"
	"github.com/radassist/report-engine/internal/textproc"
	"github.com/radassist/report-engine/pkg/errors"
	"github.com/radassist/report-engine/pkg/types/common"
)

// EventPublisher is the outbound port for restructure events.
type EventPublisher interface {
	Publish(ctx context.Context, event common.DomainEvent) error
}

// Service performs the structure round-trip operations.
type Service struct {
	titleThreshold int
	publisher      EventPublisher
	logger         logging.Logger
}

// NewService builds a Service.  titleThreshold <= 0 selects the default
// title-match threshold; publisher may be nil.
func NewService(titleThreshold int, publisher EventPublisher, logger logging.Logger) *Service {
	if titleThreshold <= 0 {
		titleThreshold = textproc.DefaultTitleMatchThreshold
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Service{titleThreshold: titleThreshold, publisher: publisher, logger: logger}
}

// SplitForAI projects a report tree into the durable skeleton and the
// AI-facing input.  The AI input contains only paragraphs that are active,
// not additional, and non-empty, with the structural flags stripped, plus a
// synthetic trailing catch-all paragraph the AI may populate with content it
// cannot place elsewhere.
func (s *Service) SplitForAI(r *report.Report) (Skeleton, AIInput) {
	skeleton := SkeletonOf(r)

	var in AIInput
	for _, p := range skeleton.Paragraphs {
		if !p.IsActive || p.IsAdditional || len(p.HeadSentences) == 0 {
			continue
		}
		in.Paragraphs = append(in.Paragraphs, AIParagraph{
			ID:            p.ID,
			Title:         p.Title,
			HeadSentences: append([]HeadSentence(nil), p.HeadSentences...),
		})
	}
	in.Paragraphs = append(in.Paragraphs, AIParagraph{
		ID:    MiscellaneousID,
		Title: MiscellaneousTitle,
	})
	return skeleton, in
}

// MergeAIResponse reconciles the AI response into the skeleton by ID.
//
// Head sentences are replaced in place by id lookup; sentences the AI omitted
// keep their original text, AI sentences with unknown ids are ignored, and
// paragraphs absent from the response are copied through unmodified.  The
// catch-all paragraph is extracted into miscSentences for separate handling.
func (s *Service) MergeAIResponse(ctx context.Context, skeleton Skeleton, resp AIResponse) (Skeleton, []HeadSentence) {
	var misc []HeadSentence
	byID := make(map[common.ID]AIParagraph, len(resp.Paragraphs))
	for _, ap := range resp.Paragraphs {
		if ap.ID == MiscellaneousID {
			misc = append(misc, ap.HeadSentences...)
			continue
		}
		byID[ap.ID] = ap
	}

	merged := Skeleton{ReportID: skeleton.ReportID, Paragraphs: make([]SkeletonParagraph, len(skeleton.Paragraphs))}
	mergedCount := 0
	for i, sp := range skeleton.Paragraphs {
		out := sp
		out.HeadSentences = append([]HeadSentence(nil), sp.HeadSentences...)

		if ap, found := byID[sp.ID]; found {
			texts := make(map[common.ID]string, len(ap.HeadSentences))
			for _, hs := range ap.HeadSentences {
				texts[hs.ID] = hs.Text
			}
			for j, hs := range out.HeadSentences {
				if text, ok := texts[hs.ID]; ok {
					out.HeadSentences[j].Text = text
				}
			}
			mergedCount++
		}
		merged.Paragraphs[i] = out
	}

	s.publish(ctx, report.NewReportRestructuredEvent(
		skeleton.ReportID, len(skeleton.Paragraphs), mergedCount, len(misc)))
	return merged, misc
}

// FuzzyVerifyAndReplace is the legacy merge path: it requires the AI tree to
// mirror the main tree paragraph for paragraph.
//
// A paragraph-count mismatch is a soft failure: logged, and the main tree is
// returned unmodified, since partial AI output is common.  A title similarity
// below the threshold is a hard failure carrying both titles, because it
// means the AI reordered or hallucinated structure that must not be merged
// silently.
func (s *Service) FuzzyVerifyAndReplace(ctx context.Context, main Skeleton, ai AIResponse) (Skeleton, error) {
	if len(ai.Paragraphs) != len(main.Paragraphs) {
		s.logger.Warn("paragraph count mismatch, skipping merge",
			logging.Int("main_count", len(main.Paragraphs)),
			logging.Int("ai_count", len(ai.Paragraphs)))
		return main, nil
	}

	byID := make(map[common.ID]AIParagraph, len(ai.Paragraphs))
	for _, ap := range ai.Paragraphs {
		byID[ap.ID] = ap
	}

	for _, sp := range main.Paragraphs {
		ap, found := byID[sp.ID]
		if !found {
			continue
		}
		if score := textproc.Similarity(sp.Title, ap.Title); score < s.titleThreshold {
			return main, errors.StructureMismatch(sp.Title, ap.Title, score)
		}
	}

	merged, _ := s.MergeAIResponse(ctx, main, ai)
	return merged, nil
}

func (s *Service) publish(ctx context.Context, event common.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish restructure event",
			logging.Err(err), logging.String("event_id", event.EventID()))
	}
}
