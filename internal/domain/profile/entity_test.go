package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radassist/report-engine/pkg/types/common"
)

func TestNewProfile(t *testing.T) {
	p, err := NewProfile("Neuro MRI", "ru")
	require.NoError(t, err)
	assert.Equal(t, 80, p.SimilarityThreshold)
	assert.False(t, p.BaseEntity.ID.IsZero())

	_, err = NewProfile("  ", "ru")
	assert.Error(t, err)

	_, err = NewProfile("Neuro MRI", "")
	assert.Error(t, err)
}

func TestContext_Validate(t *testing.T) {
	valid := Context{
		ProfileID:           common.NewID(),
		Language:            "ru",
		SimilarityThreshold: 80,
	}
	assert.NoError(t, valid.Validate())

	missing := valid
	missing.ProfileID = ""
	assert.Error(t, missing.Validate())

	noLang := valid
	noLang.Language = ""
	assert.Error(t, noLang.Validate())

	outOfRange := valid
	outOfRange.SimilarityThreshold = 101
	assert.Error(t, outOfRange.Validate())

	negative := valid
	negative.SimilarityThreshold = -1
	assert.Error(t, negative.Validate())
}

func TestContextOf(t *testing.T) {
	p, err := NewProfile("Abdominal CT", "ru")
	require.NoError(t, err)
	p.ExceptWords = []string{"справа", "слева"}

	ctx := ContextOf(p, []string{"киста"})
	assert.Equal(t, p.BaseEntity.ID, ctx.ProfileID)
	assert.Equal(t, p.ExceptWords, ctx.ExceptWords)
	assert.Equal(t, []string{"киста"}, ctx.Keywords)
	assert.NoError(t, ctx.Validate())
}
