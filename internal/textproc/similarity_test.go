package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity_Identity(t *testing.T) {
	assert.Equal(t, 100, Similarity("отек костного мозга", "отек костного мозга"))
	assert.Equal(t, 100, Similarity("", ""))
}

func TestSimilarity_Disjoint(t *testing.T) {
	assert.Equal(t, 0, Similarity("abc", "xyz"))
	assert.Equal(t, 0, Similarity("", "anything"))
}

func TestSimilarity_Symmetric(t *testing.T) {
	a := "печень не увеличена"
	b := "печень увеличена"
	assert.Equal(t, Similarity(a, b), Similarity(b, a))
}

func TestSimilarity_RuneBasedForCyrillic(t *testing.T) {
	// One rune substituted out of 19: score must reflect rune count, not
	// UTF-8 byte count.
	a := "отек костного мозга"
	b := "отек костного мозгб"
	assert.Equal(t, (19-1)*100/19, Similarity(a, b))
}

func TestSimilarity_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"контуры ровные", "контуры неровные"},
		{"short", "a much longer unrelated sentence"},
		{"киста", ""},
	}
	for _, p := range pairs {
		s := Similarity(p[0], p[1])
		assert.GreaterOrEqual(t, s, 0)
		assert.LessOrEqual(t, s, 100)
	}
}

func TestIsDuplicate(t *testing.T) {
	assert.True(t, IsDuplicate("отек костного мозга", "отек костного мозга", 80))
	assert.True(t, IsDuplicate("отек костного мозга", "отек костного мозгб", 80))
	assert.False(t, IsDuplicate("отек костного мозга", "печень не увеличена", 80))
}

func TestFirstMatch_TakesFirstQualifyingNotBest(t *testing.T) {
	pool := []string{
		"отек костного мозга.", // qualifies at 95
		"отек костного мозга",  // would score 100
	}
	m := FirstMatch("отек костного мозга", pool, 80)
	assert.Equal(t, 0, m.Index)
}

func TestFirstMatch_NoMatch(t *testing.T) {
	m := FirstMatch("киста почки", []string{"печень не увеличена"}, 80)
	assert.Equal(t, -1, m.Index)
	assert.Equal(t, 0, m.Score)
}

func TestFirstMatch_EmptyPool(t *testing.T) {
	m := FirstMatch("киста почки", nil, 80)
	assert.Equal(t, -1, m.Index)
}
