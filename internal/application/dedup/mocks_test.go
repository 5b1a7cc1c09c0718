package dedup

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/radassist/report-engine/internal/domain/report"
	"github.com/radassist/report-engine/pkg/types/common"
)

type mockSentenceRepo struct {
	mock.Mock
}

func (m *mockSentenceRepo) Create(ctx context.Context, s *report.Sentence) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockSentenceRepo) GetByID(ctx context.Context, id common.ID) (*report.Sentence, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Sentence), args.Error(1)
}

func (m *mockSentenceRepo) Update(ctx context.Context, s *report.Sentence) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockSentenceRepo) Delete(ctx context.Context, id common.ID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockSentenceRepo) ListByGroup(ctx context.Context, groupID common.ID) ([]*report.Sentence, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*report.Sentence), args.Error(1)
}

func (m *mockSentenceRepo) ListBodiesByHead(ctx context.Context, headSentenceID common.ID) ([]*report.Sentence, error) {
	args := m.Called(ctx, headSentenceID)
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
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockParagraphRepo) GetByID(ctx context.Context, id common.ID) (*report.Paragraph, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.Paragraph), args.Error(1)
}

func (m *mockParagraphRepo) Update(ctx context.Context, p *report.Paragraph) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockParagraphRepo) Delete(ctx context.Context, id common.ID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
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
	args := m.Called(ctx, reportID)
	return args.Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event common.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
