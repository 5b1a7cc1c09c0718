package report

import (
	"github.com/radassist/report-engine/pkg/types/common"
)

type SentenceSavedEvent struct {
	common.BaseEvent
	SentenceID  string `json:"sentence_id"`
	ParagraphID string `json:"paragraph_id,omitempty"`
	Type        string `json:"type"`
	Text        string `json:"text"`
}

func NewSentenceSavedEvent(reportID common.ID, s *Sentence) *SentenceSavedEvent {
	return &SentenceSavedEvent{
		BaseEvent:   common.NewBaseEvent(string(reportID)),
		SentenceID:  string(s.BaseEntity.ID),
		ParagraphID: string(s.ParagraphID),
		Type:        s.Type.String(),
		Text:        s.Text,
	}
}

type DuplicateDetectedEvent struct {
	common.BaseEvent
	CandidateText string `json:"candidate_text"`
	MatchedID     string `json:"matched_id"`
	Score         int    `json:"score"`
}

func NewDuplicateDetectedEvent(reportID common.ID, candidateText string, matchedID common.ID, score int) *DuplicateDetectedEvent {
	return &DuplicateDetectedEvent{
		BaseEvent:     common.NewBaseEvent(string(reportID)),
		CandidateText: candidateText,
		MatchedID:     string(matchedID),
		Score:         score,
	}
}

type ReportRestructuredEvent struct {
	common.BaseEvent
	ParagraphCount int `json:"paragraph_count"`
	MergedCount    int `json:"merged_count"`
	MiscCount      int `json:"misc_count"`
}

func NewReportRestructuredEvent(reportID common.ID, paragraphCount, mergedCount, miscCount int) *ReportRestructuredEvent {
	return &ReportRestructuredEvent{
		BaseEvent:      common.NewBaseEvent(string(reportID)),
		ParagraphCount: paragraphCount,
		MergedCount:    mergedCount,
		MiscCount:      miscCount,
	}
}
