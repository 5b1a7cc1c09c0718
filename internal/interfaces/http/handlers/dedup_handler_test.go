package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/radassist/report-engine/internal/application/dedup"
	"github.com/radassist/report-engine/internal/domain/profile"
	"github.com/radassist/report-engine/internal/domain/report"
	"github.com/radassist/report-engine/internal/textproc"
	"github.com/radassist/report-engine/pkg/errors"
	"github.com/radassist/report-engine/pkg/types/common"
)

type mockSentenceRepo struct {
	mock.Mock
}

func (m *mockSentenceRepo) Create(ctx context.Context, s *report.Sentence) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSentenceRepo) GetByID(ctx context.Context, id common.ID) (*report.Sentence, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Sentence), args.Error(1)
}

func (m *mockSentenceRepo) Update(ctx context.Context, s *report.Sentence) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockSentenceRepo) Delete(ctx context.Context, id common.ID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSentenceRepo) ListByGroup(ctx context.Context, groupID common.ID) ([]*report.Sentence, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*report.Sentence), args.Error(1)
}

func (m *mockSentenceRepo) ListBodiesByHead(ctx context.Context, headID common.ID) ([]*report.Sentence, error) {
	args := m.Called(ctx, headID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*report.Sentence), args.Error(1)
}

func (m *mockSentenceRepo) BatchCreate(ctx context.Context, sentences []*report.Sentence) (int, error) {
	args := m.Called(ctx, sentences)
	return args.Int(0), args.Error(1)
}

type mockParagraphRepo struct {
	mock.Mock
}

func (m *mockParagraphRepo) Create(ctx context.Context, p *report.Paragraph) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockParagraphRepo) GetByID(ctx context.Context, id common.ID) (*report.Paragraph, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Paragraph), args.Error(1)
}

func (m *mockParagraphRepo) Update(ctx context.Context, p *report.Paragraph) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockParagraphRepo) Delete(ctx context.Context, id common.ID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockParagraphRepo) ListByReport(ctx context.Context, reportID common.ID) ([]*report.Paragraph, error) {
	args := m.Called(ctx, reportID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*report.Paragraph), args.Error(1)
}

func (m *mockParagraphRepo) GetTailGroup(ctx context.Context, paragraphID common.ID) (*report.SentenceGroup, error) {
	args := m.Called(ctx, paragraphID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.SentenceGroup), args.Error(1)
}

func (m *mockParagraphRepo) Renumber(ctx context.Context, reportID common.ID) error {
	return m.Called(ctx, reportID).Error(0)
}

type stubContextLoader struct {
	ctx profile.Context
	err error
}

func (s *stubContextLoader) Load(context.Context, common.ID) (profile.Context, error) {
	return s.ctx, s.err
}

func dedupRouter(h *DedupHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/v1/reports/{id}/sentences/classify", h.Classify)
	r.Post("/api/v1/reports/{id}/sentences/save", h.Save)
	return r
}

func postJSON(t *testing.T, router http.Handler, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw)))
	return rec
}

func newDedupHandler(sentences *mockSentenceRepo, paragraphs *mockParagraphRepo, loader profile.ContextLoader) *DedupHandler {
	classifier := dedup.NewClassifier(sentences, paragraphs, nil)
	splitter := textproc.NewSplitter(textproc.NewRegistry(), nil)
	saver := dedup.NewSaver(classifier, splitter, sentences, nil, nil, nil)
	return NewDedupHandler(classifier, saver, loader, nil)
}

func TestDedupHandler_ClassifyUniqueTail(t *testing.T) {
	paragraphID := common.NewID()
	profileID := common.NewID()

	sentences := new(mockSentenceRepo)
	paragraphs := new(mockParagraphRepo)
	paragraphs.On("GetTailGroup", mock.Anything, paragraphID).Return(nil, nil)

	loader := &stubContextLoader{ctx: profile.Context{
		ProfileID:           profileID,
		Language:            "ru",
		SimilarityThreshold: 80,
	}}
	h := newDedupHandler(sentences, paragraphs, loader)

	rec := postJSON(t, dedupRouter(h),
		"/api/v1/reports/"+string(common.NewID())+"/sentences/classify",
		classifyRequest{
			ProfileID: profileID,
			Candidates: []dedup.Candidate{{
				ParagraphID: paragraphID,
				Type:        report.SentenceTail,
				Text:        "Свободной жидкости нет.",
			}},
		})

	require.Equal(t, http.StatusOK, rec.Code)
	var body dedup.BatchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Unique, 1)
	assert.Empty(t, body.Duplicates)
	assert.Zero(t, body.ErrorsCount)
}

func TestDedupHandler_ClassifyMissingProfileID(t *testing.T) {
	h := newDedupHandler(new(mockSentenceRepo), new(mockParagraphRepo), &stubContextLoader{})
	rec := postJSON(t, dedupRouter(h),
		"/api/v1/reports/"+string(common.NewID())+"/sentences/classify",
		classifyRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDedupHandler_ClassifyProfileNotFound(t *testing.T) {
	loader := &stubContextLoader{err: errors.New(errors.ErrCodeProfileNotFound, "profile not found")}
	h := newDedupHandler(new(mockSentenceRepo), new(mockParagraphRepo), loader)

	rec := postJSON(t, dedupRouter(h),
		"/api/v1/reports/"+string(common.NewID())+"/sentences/classify",
		classifyRequest{ProfileID: common.NewID()})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDedupHandler_SavePersistsUnique(t *testing.T) {
	paragraphID := common.NewID()
	profileID := common.NewID()
	reportID := common.NewID()

	sentences := new(mockSentenceRepo)
	sentences.On("Create", mock.Anything, mock.AnythingOfType("*report.Sentence")).Return(nil)
	paragraphs := new(mockParagraphRepo)
	paragraphs.On("GetTailGroup", mock.Anything, paragraphID).Return(nil, nil)

	loader := &stubContextLoader{ctx: profile.Context{
		ProfileID:           profileID,
		Language:            "ru",
		SimilarityThreshold: 80,
	}}
	h := newDedupHandler(sentences, paragraphs, loader)

	rec := postJSON(t, dedupRouter(h),
		"/api/v1/reports/"+string(reportID)+"/sentences/save",
		classifyRequest{
			ProfileID: profileID,
			Candidates: []dedup.Candidate{{
				ParagraphID: paragraphID,
				Type:        report.SentenceTail,
				Text:        "свободной жидкости нет",
			}},
		})

	require.Equal(t, http.StatusOK, rec.Code)
	var body dedup.SaveResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.SavedCount)
	require.Len(t, body.SavedSentences, 1)
	assert.Equal(t, "Свободной жидкости нет", body.SavedSentences[0].Text)
	sentences.AssertExpectations(t)
}
