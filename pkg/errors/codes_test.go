package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusForCode_Known(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatusForCode(ErrCodeSentenceNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatusForCode(ErrCodeStructureMismatch))
	assert.Equal(t, http.StatusBadRequest, HTTPStatusForCode(ErrCodeLanguageUnsupported))
}

func TestHTTPStatusForCode_UnknownDefaultsTo500(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusForCode(ErrorCode("NOPE_999")))
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "sentence not found", DefaultMessageForCode(ErrCodeSentenceNotFound))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("NOPE_999")))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeBadRequest))
	assert.True(t, IsClientError(ErrCodeParagraphNotFound))
	assert.False(t, IsClientError(ErrCodeInternal))
}

func TestIsServerError(t *testing.T) {
	assert.True(t, IsServerError(ErrCodeDatabaseError))
	assert.False(t, IsServerError(ErrCodeKeywordNotFound))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "SNT", ModuleForCode(ErrCodeSentenceNotFound))
	assert.Equal(t, "RPT", ModuleForCode(ErrCodeStructureMismatch))
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
	assert.Equal(t, "OK", ModuleForCode(CodeOK))
}
