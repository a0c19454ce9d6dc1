package processor

import (
	"errors"
	"fmt"
	"testing"

	"ats-filter-go/internal/parser"

	"github.com/stretchr/testify/assert"
)

func TestEvaluationError_Unwrap(t *testing.T) {
	cause := &parser.DocumentParseError{URI: "cv.pdf", Format: parser.FormatPDF, Err: errors.New("EOF")}
	err := NewExtractError("req-9", cause)

	assert.True(t, errors.Is(err, ErrExtractFailed))
	assert.True(t, errors.Is(err, parser.ErrDocumentParse))
	assert.Contains(t, err.Error(), "req-9")
	assert.Contains(t, err.Error(), "extract")

	wrapped := fmt.Errorf("handler: %w", err)
	var evalErr *EvaluationError
	assert.True(t, errors.As(wrapped, &evalErr))
	assert.Equal(t, "req-9", evalErr.RequestID)
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"empty", NewEmptyTextError("", "cv.pdf"), CodeEmptyExtraction},
		{"parse", NewExtractError("", &parser.DocumentParseError{Err: errors.New("x")}), CodeDocumentParse},
		{"unsupported", NewExtractError("", fmt.Errorf("%w", parser.ErrUnsupportedFormat)), CodeUnsupportedFormat},
		{"missing jd", NewJobDescriptionError("", ErrMissingJobDescription, "", nil), CodeMissingJobDescription},
		{"fetch disabled", NewJobDescriptionError("", ErrURLFetchDisabled, "", nil), CodeJDFetchFailed},
		{"too large", NewFetchError("", ErrDocumentTooLarge, "cv.pdf", nil), CodeDocumentTooLarge},
		{"no storage", NewFetchError("", ErrObjectStorageUnavailable, "cv.pdf", nil), CodeStorageUnavailable},
		{"other", errors.New("boom"), CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "could not extract text from the uploaded document", PublicMessage(NewEmptyTextError("req", "scan.pdf")))
	assert.Equal(t, "岗位不存在: job-1", PublicMessage(NewJobDescriptionError("req", ErrJobNotFound, "job-1", nil)))
	assert.Equal(t, "boom", PublicMessage(errors.New("boom")))
	assert.Equal(t, "", PublicMessage(nil))
}
