package qa_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"askdoc/features/qa"
	"askdoc/internal/adapter/gemini"
	"askdoc/internal/document"
	"askdoc/internal/vector"
)

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	CorrelationID string `json:"correlationId"`
}

func newTestHandler() (*qa.Handler, *MockGate, *MockRetriever, *MockGenerator) {
	gate := new(MockGate)
	retriever := new(MockRetriever)
	generator := new(MockGenerator)
	service := qa.NewService(gate, retriever, generator, nil)
	return qa.NewHandler(service), gate, retriever, generator
}

func postRun(t *testing.T, handler *qa.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/qa/run", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.Run(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestHandler_Run(t *testing.T) {
	handler, gate, retriever, generator := newTestHandler()
	gate.On("EnsureIndexed", mock.Anything, docURL).Return(nil)
	retriever.On("RetrieveAll", mock.Anything, []string{"What is the notice period?"}).
		Return(evidenceFrom("Ninety days notice."), nil)
	generator.On("Complete", mock.Anything, mock.Anything).
		Return("1. The notice period is ninety days.", nil)

	body := fmt.Sprintf(`{"documents": %q, "questions": ["What is the notice period?"]}`, docURL)
	w := postRun(t, handler, body)

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)

	var resp struct {
		Answers []string `json:"answers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"The notice period is ninety days."}, resp.Answers)
}

func TestHandler_Run_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"Malformed JSON", `{"documents": `},
		{"Missing Documents", `{"questions": ["First?"]}`},
		{"Empty Questions", fmt.Sprintf(`{"documents": %q, "questions": []}`, docURL)},
		{"Absent Questions", fmt.Sprintf(`{"documents": %q}`, docURL)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, gate, _, _ := newTestHandler()

			w := postRun(t, handler, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)
			assert.Equal(t, "VALIDATION_ERROR", decodeError(t, w).Error.Code)
			gate.AssertNotCalled(t, "EnsureIndexed", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_Run_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "Fetch Failure",
			err:        fmt.Errorf("%w: status 404", document.ErrFetchFailed),
			wantStatus: http.StatusBadRequest,
			wantCode:   "FETCH_ERROR",
		},
		{
			name:       "Unsupported Format",
			err:        fmt.Errorf("%w: %s", document.ErrUnsupportedFormat, docURL),
			wantStatus: http.StatusBadRequest,
			wantCode:   "DOCUMENT_ERROR",
		},
		{
			name:       "No Extractable Text",
			err:        document.ErrNoExtractableText,
			wantStatus: http.StatusBadRequest,
			wantCode:   "DOCUMENT_ERROR",
		},
		{
			name:       "Index Unavailable",
			err:        fmt.Errorf("%w: connection refused", vector.ErrUnavailable),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INDEX_UNAVAILABLE",
		},
		{
			name:       "Model Call Failure",
			err:        fmt.Errorf("%w: rate limited", gemini.ErrModelCall),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "MODEL_ERROR",
		},
		{
			name:       "Unknown Failure",
			err:        errors.New("something else entirely"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, gate, _, _ := newTestHandler()
			gate.On("EnsureIndexed", mock.Anything, docURL).Return(tt.err)

			body := fmt.Sprintf(`{"documents": %q, "questions": ["First?"]}`, docURL)
			w := postRun(t, handler, body)

			assert.Equal(t, tt.wantStatus, w.Result().StatusCode)
			envelope := decodeError(t, w)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
			assert.NotEmpty(t, envelope.Error.Message)
		})
	}
}
