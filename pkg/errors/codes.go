package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeConfiguration      ErrorCode = "COMMON_015"
	ErrCodeNotImplemented     ErrorCode = "COMMON_016"
)

// Short aliases used throughout the codebase.
const (
	CodeInternal       = ErrCodeInternal
	CodeInvalidParam   = ErrCodeBadRequest
	CodeUnauthorized   = ErrCodeUnauthorized
	CodeForbidden      = ErrCodeForbidden
	CodeNotFound       = ErrCodeNotFound
	CodeConflict       = ErrCodeConflict
	CodeRateLimit      = ErrCodeTooManyRequests
	CodeConfiguration  = ErrCodeConfiguration
	CodeNotImplemented = ErrCodeNotImplemented
	CodeOK             = ErrorCode("OK")
	CodeUnknown        = ErrorCode("UNKNOWN")

	// Domain specific aliases
	CodeSentenceNotFound  = ErrCodeSentenceNotFound
	CodeParagraphNotFound = ErrCodeParagraphNotFound
	CodeProfileNotFound   = ErrCodeProfileNotFound
	CodeDBConnectionError = ErrCodeDatabaseError
	CodeDatabaseError     = ErrCodeDatabaseError
	CodeCacheError        = ErrCodeCacheError
)

// Sentence Module Error Codes
const (
	ErrCodeSentenceNotFound      ErrorCode = "SNT_001"
	ErrCodeSentenceGroupNotFound ErrorCode = "SNT_002"
	ErrCodeSentenceTypeInvalid   ErrorCode = "SNT_003"
	ErrCodeSentenceTextEmpty     ErrorCode = "SNT_004"
	ErrCodeDuplicateThresholdInvalid ErrorCode = "SNT_005"
	ErrCodeHeadSentenceNotFound  ErrorCode = "SNT_006"
)

// Report / Structure Module Error Codes
const (
	ErrCodeReportNotFound        ErrorCode = "RPT_001"
	ErrCodeParagraphNotFound     ErrorCode = "RPT_002"
	ErrCodeParagraphIndexInvalid ErrorCode = "RPT_003"
	ErrCodeStructureMismatch     ErrorCode = "RPT_004"
	ErrCodeParagraphCountMismatch ErrorCode = "RPT_005"
)

// Keyword Module Error Codes
const (
	ErrCodeKeywordNotFound     ErrorCode = "KWD_001"
	ErrCodeKeywordGroupInvalid ErrorCode = "KWD_002"
	ErrCodeGroupingModeInvalid ErrorCode = "KWD_003"
)

// Profile Module Error Codes
const (
	ErrCodeProfileNotFound ErrorCode = "PRF_001"
	ErrCodeProfileInvalid  ErrorCode = "PRF_002"
)

// Language / Segmentation Error Codes
const (
	ErrCodeLanguageUnsupported  ErrorCode = "LNG_001"
	ErrCodeSegmentationFailed   ErrorCode = "LNG_002"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeConfiguration:      http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeSentenceNotFound:          http.StatusNotFound,
	ErrCodeSentenceGroupNotFound:     http.StatusNotFound,
	ErrCodeSentenceTypeInvalid:       http.StatusBadRequest,
	ErrCodeSentenceTextEmpty:         http.StatusBadRequest,
	ErrCodeDuplicateThresholdInvalid: http.StatusBadRequest,
	ErrCodeHeadSentenceNotFound:      http.StatusNotFound,

	ErrCodeReportNotFound:         http.StatusNotFound,
	ErrCodeParagraphNotFound:      http.StatusNotFound,
	ErrCodeParagraphIndexInvalid:  http.StatusBadRequest,
	ErrCodeStructureMismatch:      http.StatusConflict,
	ErrCodeParagraphCountMismatch: http.StatusConflict,

	ErrCodeKeywordNotFound:     http.StatusNotFound,
	ErrCodeKeywordGroupInvalid: http.StatusBadRequest,
	ErrCodeGroupingModeInvalid: http.StatusBadRequest,

	ErrCodeProfileNotFound: http.StatusNotFound,
	ErrCodeProfileInvalid:  http.StatusBadRequest,

	ErrCodeLanguageUnsupported: http.StatusBadRequest,
	ErrCodeSegmentationFailed:  http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeConfiguration:      "invalid configuration",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeSentenceNotFound:          "sentence not found",
	ErrCodeSentenceGroupNotFound:     "sentence group not found",
	ErrCodeSentenceTypeInvalid:       "invalid sentence type",
	ErrCodeSentenceTextEmpty:         "sentence text is empty",
	ErrCodeDuplicateThresholdInvalid: "invalid duplicate threshold",
	ErrCodeHeadSentenceNotFound:      "head sentence not found",

	ErrCodeReportNotFound:         "report not found",
	ErrCodeParagraphNotFound:      "paragraph not found",
	ErrCodeParagraphIndexInvalid:  "invalid paragraph index",
	ErrCodeStructureMismatch:      "report structure mismatch",
	ErrCodeParagraphCountMismatch: "paragraph count mismatch",

	ErrCodeKeywordNotFound:     "keyword not found",
	ErrCodeKeywordGroupInvalid: "invalid keyword group",
	ErrCodeGroupingModeInvalid: "unsupported keyword grouping mode",

	ErrCodeProfileNotFound: "profile not found",
	ErrCodeProfileInvalid:  "invalid profile configuration",

	ErrCodeLanguageUnsupported: "unsupported language",
	ErrCodeSegmentationFailed:  "sentence segmentation failed",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
