package dedup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/radassist/report-engine/internal/domain/report"
	"github.com/radassist/report-engine/internal/textproc"
	"github.com/radassist/report-engine/pkg/errors"
	"github.com/radassist/report-engine/pkg/types/common"
)

func newTestSaver(sentences *mockSentenceRepo, paragraphs *mockParagraphRepo, publisher EventPublisher) *Saver {
	classifier := NewClassifier(sentences, paragraphs, nil)
	splitter := textproc.NewSplitter(textproc.NewRegistry(), nil)
	return NewSaver(classifier, splitter, sentences, publisher, nil, nil)
}

func TestSaveBatch_SavesUniqueTail(t *testing.T) {
	sentences := new(mockSentenceRepo)
	paragraphs := new(mockParagraphRepo)
	publisher := new(mockPublisher)
	sv := newTestSaver(sentences, paragraphs, publisher)

	pid := common.NewID()
	paragraphs.On("GetTailGroup", mock.Anything, pid).Return(nil, nil)
	sentences.On("Create", mock.Anything, mock.Anything).Return(nil)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	result, err := sv.SaveBatch(context.Background(), common.NewID(), []Candidate{{
		ParagraphID: pid,
		Type:        report.SentenceTail,
		Text:        "свободной жидкости нет.",
	}}, testProfileContext())

	require.NoError(t, err)
	assert.Equal(t, 1, result.SavedCount)
	assert.Equal(t, 0, result.DuplicatesCount)
	require.Len(t, result.SavedSentences, 1)
	assert.Equal(t, "Свободной жидкости нет.", result.SavedSentences[0].Text)
	publisher.AssertNumberOfCalls(t, "Publish", 1)
}

func TestSaveBatch_SkipsNonSentences(t *testing.T) {
	sentences := new(mockSentenceRepo)
	paragraphs := new(mockParagraphRepo)
	sv := newTestSaver(sentences, paragraphs, nil)

	result, err := sv.SaveBatch(context.Background(), common.NewID(), []Candidate{{
		ParagraphID: common.NewID(),
		Type:        report.SentenceTail,
		Text:        "??",
	}}, testProfileContext())

	require.NoError(t, err)
	assert.Equal(t, 1, result.SkippedCount)
	assert.Equal(t, 0, result.SavedCount)
}

func TestSaveBatch_SplitRetypesBodySubmission(t *testing.T) {
	sentences := new(mockSentenceRepo)
	paragraphs := new(mockParagraphRepo)
	sv := newTestSaver(sentences, paragraphs, nil)

	pid := common.NewID()
	headID := common.NewID()
	sentences.On("ListBodiesByHead", mock.Anything, headID).Return([]*report.Sentence{}, nil)
	paragraphs.On("GetTailGroup", mock.Anything, pid).Return(nil, nil)

	var created []*report.Sentence
	sentences.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = append(created, args.Get(1).(*report.Sentence))
	}).Return(nil)

	result, err := sv.SaveBatch(context.Background(), common.NewID(), []Candidate{{
		ParagraphID:    pid,
		HeadSentenceID: headID,
		Type:           report.SentenceBody,
		Text:           "Отек определяется. Также выявлена киста.",
	}}, testProfileContext())

	require.NoError(t, err)
	assert.Equal(t, 2, result.SavedCount)
	require.Len(t, created, 2)
	// First split sentence keeps the body type, the rest become tails.
	assert.Equal(t, report.SentenceBody, created[0].Type)
	assert.Equal(t, headID, created[0].HeadSentenceID)
	assert.Equal(t, report.SentenceTail, created[1].Type)
	assert.Equal(t, pid, created[1].ParagraphID)
}

func TestSaveBatch_SplitRetypesNonBodyToTails(t *testing.T) {
	sentences := new(mockSentenceRepo)
	paragraphs := new(mockParagraphRepo)
	sv := newTestSaver(sentences, paragraphs, nil)

	pid := common.NewID()
	paragraphs.On("GetTailGroup", mock.Anything, pid).Return(nil, nil)

	var created []*report.Sentence
	sentences.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = append(created, args.Get(1).(*report.Sentence))
	}).Return(nil)

	_, err := sv.SaveBatch(context.Background(), common.NewID(), []Candidate{{
		ParagraphID: pid,
		Type:        report.SentenceHead,
		Text:        "Печень не увеличена. Контуры ровные.",
	}}, testProfileContext())

	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, report.SentenceTail, created[0].Type)
	assert.Equal(t, report.SentenceTail, created[1].Type)
}

func TestSaveBatch_DuplicateBumpsWeight(t *testing.T) {
	sentences := new(mockSentenceRepo)
	paragraphs := new(mockParagraphRepo)
	publisher := new(mockPublisher)
	sv := newTestSaver(sentences, paragraphs, publisher)

	pid := common.NewID()
	stored := tailSentence(t, pid, "Свободной жидкости нет.")
	paragraphs.On("GetTailGroup", mock.Anything, pid).Return(&report.SentenceGroup{
		ID: common.NewID(), ParagraphID: pid, Type: report.SentenceTail,
		Sentences: []*report.Sentence{stored},
	}, nil)
	sentences.On("GetByID", mock.Anything, stored.BaseEntity.ID).Return(stored, nil)
	sentences.On("Update", mock.Anything, stored).Return(nil)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	result, err := sv.SaveBatch(context.Background(), common.NewID(), []Candidate{{
		ParagraphID: pid,
		Type:        report.SentenceTail,
		Text:        "свободной жидкости нет",
	}}, testProfileContext())

	require.NoError(t, err)
	assert.Equal(t, 1, result.DuplicatesCount)
	assert.Equal(t, 0, result.SavedCount)
	assert.Equal(t, 2, stored.Weight)
}

func TestSaveBatch_PersistFailureCountsAsMissed(t *testing.T) {
	sentences := new(mockSentenceRepo)
	paragraphs := new(mockParagraphRepo)
	sv := newTestSaver(sentences, paragraphs, nil)

	pid := common.NewID()
	paragraphs.On("GetTailGroup", mock.Anything, pid).Return(nil, nil)
	sentences.On("Create", mock.Anything, mock.Anything).
		Return(errors.Internal("connection reset"))

	result, err := sv.SaveBatch(context.Background(), common.NewID(), []Candidate{{
		ParagraphID: pid,
		Type:        report.SentenceTail,
		Text:        "Свободной жидкости нет.",
	}}, testProfileContext())

	require.NoError(t, err)
	assert.Equal(t, 1, result.MissedCount)
	assert.Equal(t, 0, result.SavedCount)
}

func TestSaveBatch_UnsupportedLanguageIsHardError(t *testing.T) {
	sv := newTestSaver(new(mockSentenceRepo), new(mockParagraphRepo), nil)

	profCtx := testProfileContext()
	profCtx.Language = "xx"

	_, err := sv.SaveBatch(context.Background(), common.NewID(), []Candidate{{
		ParagraphID: common.NewID(),
		Type:        report.SentenceTail,
		Text:        "Some text here.",
	}}, profCtx)

	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeLanguageUnsupported, errors.GetCode(err))
}

func TestSaveBatch_MixedBatchCounts(t *testing.T) {
	sentences := new(mockSentenceRepo)
	paragraphs := new(mockParagraphRepo)
	sv := newTestSaver(sentences, paragraphs, nil)

	pid := common.NewID()
	paragraphs.On("GetTailGroup", mock.Anything, pid).Return(nil, nil)
	sentences.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := sv.SaveBatch(context.Background(), common.NewID(), []Candidate{
		{ParagraphID: pid, Type: report.SentenceTail, Text: "Свободной жидкости нет."},
		{Type: report.SentenceTail, Text: "Без контекста."}, // missing paragraph_id
		{ParagraphID: pid, Type: report.SentenceTail, Text: "!!"},
	}, testProfileContext())

	require.NoError(t, err)
	assert.Equal(t, 1, result.SavedCount)
	assert.Equal(t, 1, result.ErrorsCount)
	assert.Equal(t, 1, result.SkippedCount)
}
