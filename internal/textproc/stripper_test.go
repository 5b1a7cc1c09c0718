package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrip_Lowercases(t *testing.T) {
	assert.Equal(t, "печень не увеличена", Strip("Печень НЕ увеличена.", nil, nil))
}

func TestStrip_RemovesKeywordsWholeWord(t *testing.T) {
	got := Strip("Отек костного мозга позвонка", []string{"мозга"}, nil)
	assert.Equal(t, "отек костного позвонка", got)
}

func TestStrip_KeywordIsCaseInsensitive(t *testing.T) {
	got := Strip("Отек КОСТНОГО мозга", []string{"костного"}, nil)
	assert.Equal(t, "отек мозга", got)
}

func TestStrip_DoesNotRemovePartialWords(t *testing.T) {
	// "кост" must not bite into "костного".
	got := Strip("Отек костного мозга", []string{"кост"}, nil)
	assert.Equal(t, "отек костного мозга", got)
}

func TestStrip_RemovesExceptWords(t *testing.T) {
	got := Strip("Справа киста почки", nil, []string{"справа", "слева"})
	assert.Equal(t, "киста почки", got)
}

func TestStrip_DropsDigitsAndPunctuation(t *testing.T) {
	got := Strip("Киста размером до 5 мм, контуры четкие!", nil, nil)
	assert.Equal(t, "киста размером до мм контуры четкие", got)
}

func TestStrip_CollapsesResidualWhitespace(t *testing.T) {
	got := Strip("Отек   костного   мозга", []string{"костного"}, nil)
	assert.Equal(t, "отек мозга", got)
}

func TestStrip_EmptyResult(t *testing.T) {
	assert.Equal(t, "", Strip("5, 10, 15.", nil, nil))
	assert.Equal(t, "", Strip("мозга", []string{"мозга"}, nil))
}

func TestStrip_MultiWordKeyword(t *testing.T) {
	got := Strip("Признаки отека костного мозга тела позвонка", []string{"костного мозга"}, nil)
	assert.Equal(t, "признаки отека тела позвонка", got)
}

func TestRemoveWholeWord_Boundaries(t *testing.T) {
	assert.Equal(t, " и после", removeWholeWord("до и после", "до"))
	assert.Equal(t, "доза и после", removeWholeWord("доза и после", "до"))
	assert.Equal(t, "unchanged", removeWholeWord("unchanged", ""))
}
