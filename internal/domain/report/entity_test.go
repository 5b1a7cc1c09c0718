package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radassist/report-engine/pkg/errors"
	"github.com/radassist/report-engine/pkg/types/common"
)

func TestParseSentenceType(t *testing.T) {
	for _, in := range []string{"head", "HEAD", " Body ", "tail"} {
		typ, err := ParseSentenceType(in)
		require.NoError(t, err, in)
		assert.True(t, typ.IsValid())
	}

	_, err := ParseSentenceType("footer")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidParam, errors.GetCode(err))
}

func TestNewSentence_Valid(t *testing.T) {
	pid := common.NewID()
	s, err := NewSentence("Печень не увеличена.", SentenceHead, pid, "")
	require.NoError(t, err)
	assert.Equal(t, pid, s.ParagraphID)
	assert.Equal(t, 1, s.Weight)
	assert.False(t, s.BaseEntity.ID.IsZero())
}

func TestNewSentence_BodyRequiresHead(t *testing.T) {
	_, err := NewSentence("text here", SentenceBody, common.NewID(), "")
	require.Error(t, err)

	s, err := NewSentence("text here", SentenceBody, "", common.NewID())
	require.NoError(t, err)
	assert.Equal(t, SentenceBody, s.Type)
}

func TestNewSentence_RejectsEmptyText(t *testing.T) {
	_, err := NewSentence("   ", SentenceHead, common.NewID(), "")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidParam, errors.GetCode(err))
}

func TestSentence_BumpWeight(t *testing.T) {
	s, err := NewSentence("Контуры ровные.", SentenceTail, common.NewID(), "")
	require.NoError(t, err)

	v := s.Version
	s.BumpWeight()
	assert.Equal(t, 2, s.Weight)
	assert.Greater(t, s.Version, v)
}

func TestSentenceGroup_AddEnforcesOwnership(t *testing.T) {
	pid := common.NewID()
	g := &SentenceGroup{ID: common.NewID(), ParagraphID: pid, Type: SentenceTail}

	ok, err := NewSentence("Без динамики.", SentenceTail, pid, "")
	require.NoError(t, err)
	require.NoError(t, g.Add(ok))
	assert.Equal(t, g.ID, ok.GroupID)

	other, err := NewSentence("Киста почки.", SentenceTail, common.NewID(), "")
	require.NoError(t, err)
	assert.Error(t, g.Add(other))

	head, err := NewSentence("Печень не увеличена.", SentenceHead, pid, "")
	require.NoError(t, err)
	assert.Error(t, g.Add(head))
}

func TestParagraph_HeadSentences(t *testing.T) {
	pid := common.NewID()
	p := &Paragraph{}
	p.BaseEntity.ID = pid

	s1, _ := NewSentence("Первое предложение.", SentenceHead, pid, "")
	s2, _ := NewSentence("Вариант первого.", SentenceHead, pid, "")
	s3, _ := NewSentence("Второе предложение.", SentenceHead, pid, "")

	p.HeadGroups = []*SentenceGroup{
		{ID: common.NewID(), ParagraphID: pid, Type: SentenceHead, Sentences: []*Sentence{s1, s2}},
		{ID: common.NewID(), ParagraphID: pid, Type: SentenceHead, Sentences: []*Sentence{s3}},
		{ID: common.NewID(), ParagraphID: pid, Type: SentenceHead},
	}

	heads := p.HeadSentences()
	require.Len(t, heads, 2)
	assert.Equal(t, "Первое предложение.", heads[0].Text)
	assert.Equal(t, "Второе предложение.", heads[1].Text)
}

func TestRenumberParagraphs_MakesContiguous(t *testing.T) {
	rid := common.NewID()
	mk := func(idx int, title string) *Paragraph {
		p, err := NewParagraph(rid, idx, title)
		require.NoError(t, err)
		return p
	}

	ps := []*Paragraph{mk(7, "c"), mk(2, "a"), mk(2, "b"), mk(10, "d")}
	RenumberParagraphs(ps)

	assert.Equal(t, []int{1, 2, 3, 4}, []int{ps[0].Index, ps[1].Index, ps[2].Index, ps[3].Index})
	// Stable: the two index-2 paragraphs keep their relative order.
	assert.Equal(t, "a", ps[0].Title)
	assert.Equal(t, "b", ps[1].Title)
	assert.Equal(t, "c", ps[2].Title)
	assert.Equal(t, "d", ps[3].Title)
}

func TestRenumberParagraphs_AlreadyContiguousIsNoop(t *testing.T) {
	rid := common.NewID()
	p1, _ := NewParagraph(rid, 1, "a")
	p2, _ := NewParagraph(rid, 2, "b")
	v1, v2 := p1.Version, p2.Version

	RenumberParagraphs([]*Paragraph{p1, p2})

	assert.Equal(t, v1, p1.Version)
	assert.Equal(t, v2, p2.Version)
}

func TestSentenceSavedEvent(t *testing.T) {
	rid := common.NewID()
	s, _ := NewSentence("Очаговых изменений нет.", SentenceTail, common.NewID(), "")

	ev := NewSentenceSavedEvent(rid, s)
	assert.Equal(t, string(rid), ev.AggregateID())
	assert.Equal(t, "tail", ev.Type)
	assert.NotEmpty(t, ev.EventID())
	assert.False(t, ev.OccurredAt().IsZero())
}
