package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"testing"

	"ats-filter-go/internal/api/handler"
	"ats-filter-go/internal/keyword"
	"ats-filter-go/internal/parser"
	"ats-filter-go/internal/processor"
	"ats-filter-go/internal/stopwords"
	"ats-filter-go/internal/storage"
	"ats-filter-go/internal/types"

	hertzconfig "github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testResume = "Experienced Python developer with AWS and Docker skills"
	testJob    = "Looking for a Python developer with Docker experience"
)

type fakeJobStore map[string]string

func (s fakeJobStore) GetJobDescriptionText(_ context.Context, jobID string) (string, error) {
	text, ok := s[jobID]
	if !ok {
		return "", storage.ErrRecordNotFound
	}
	return text, nil
}

func newTestEngine(t *testing.T, maxUpload int64) *route.Engine {
	t.Helper()
	set, err := stopwords.Load(context.Background(), stopwords.Builtin{}, "english")
	require.NoError(t, err)

	evaluator := processor.NewATSEvaluator(
		parser.NewMultiExtractor(),
		keyword.NewMatcher(keyword.NewNormalizer(set)),
		processor.WithJDProcessor(processor.NewJDProcessor(
			processor.WithJobStore(fakeJobStore{"job-1": testJob}),
		)),
	)
	h := handler.NewATSHandler(evaluator, maxUpload)

	engine := route.NewEngine(hertzconfig.NewOptions(nil))
	engine.GET("/api/v1/health", h.Health)
	engine.POST("/api/v1/ats/evaluate", h.Evaluate)
	engine.POST("/api/v1/ats/evaluate/text", h.EvaluateText)
	engine.POST("/api/v1/ats/evaluate/object", h.EvaluateObject)
	engine.POST("/api/v1/ats/normalize", h.Normalize)
	return engine
}

func postJSON(engine *route.Engine, path string, payload interface{}, headers ...ut.Header) *ut.ResponseRecorder {
	data, _ := json.Marshal(payload)
	headers = append(headers, ut.Header{Key: "Content-Type", Value: "application/json"})
	return ut.PerformRequest(engine, http.MethodPost, path, &ut.Body{Body: bytes.NewReader(data), Len: len(data)}, headers...)
}

// createMultipartForm 构造包含简历文件与表单字段的 multipart 请求体
func createMultipartForm(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func postForm(t *testing.T, engine *route.Engine, filename string, content []byte, fields map[string]string) *ut.ResponseRecorder {
	body, contentType := createMultipartForm(t, filename, content, fields)
	return ut.PerformRequest(engine, http.MethodPost, "/api/v1/ats/evaluate",
		&ut.Body{Body: body, Len: body.Len()},
		ut.Header{Key: "Content-Type", Value: contentType},
	)
}

func decodeEvaluation(t *testing.T, resp *ut.ResponseRecorder) types.EvaluationResponse {
	t.Helper()
	var out types.EvaluationResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out), resp.Body.String())
	return out
}

func decodeError(t *testing.T, resp *ut.ResponseRecorder) types.ErrorResponse {
	t.Helper()
	var out types.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out), resp.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	resp := ut.PerformRequest(newTestEngine(t, 0), http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"ok"}`, resp.Body.String())
}

func TestEvaluateText(t *testing.T) {
	engine := newTestEngine(t, 0)

	resp := postJSON(engine, "/api/v1/ats/evaluate/text", types.EvaluateTextRequest{
		ResumeText:           testResume,
		JobDescriptionFields: types.JobDescriptionFields{JobDescription: testJob},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	out := decodeEvaluation(t, resp)
	assert.Equal(t, 60.0, out.Score)
	assert.Equal(t, "somewhat relevant, consider optimizing", out.Verdict)
	assert.Equal(t, "warning", out.Level)
	assert.Equal(t, []string{"developer", "docker", "python"}, out.MatchedKeywords)
	assert.Equal(t, []string{"experience", "looking"}, out.MissingKeywords)
	assert.Equal(t, processor.JobSourceInline, out.JobSource)
	assert.NotEmpty(t, out.RequestID)
	assert.Equal(t, out.RequestID, resp.Header().Get(handler.RequestIDHeader))
}

func TestEvaluateText_RequestIDPassthrough(t *testing.T) {
	resp := postJSON(newTestEngine(t, 0), "/api/v1/ats/evaluate/text", types.EvaluateTextRequest{
		ResumeText:           testResume,
		JobDescriptionFields: types.JobDescriptionFields{JobDescription: testJob},
	}, ut.Header{Key: handler.RequestIDHeader, Value: "client-req-1"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "client-req-1", decodeEvaluation(t, resp).RequestID)
}

func TestEvaluateText_ByJobID(t *testing.T) {
	engine := newTestEngine(t, 0)

	resp := postJSON(engine, "/api/v1/ats/evaluate/text", types.EvaluateTextRequest{
		ResumeText:           testResume,
		JobDescriptionFields: types.JobDescriptionFields{JobID: "job-1"},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	out := decodeEvaluation(t, resp)
	assert.Equal(t, 60.0, out.Score)
	assert.Equal(t, processor.JobSourceDatabase, out.JobSource)

	resp = postJSON(engine, "/api/v1/ats/evaluate/text", types.EvaluateTextRequest{
		ResumeText:           testResume,
		JobDescriptionFields: types.JobDescriptionFields{JobID: "job-404"},
	})
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, processor.CodeJobNotFound, decodeError(t, resp).Code)
}

func TestEvaluateText_Errors(t *testing.T) {
	engine := newTestEngine(t, 0)

	tests := []struct {
		name       string
		req        types.EvaluateTextRequest
		wantStatus int
		wantCode   string
	}{
		{
			name:       "空简历文本",
			req:        types.EvaluateTextRequest{ResumeText: "   ", JobDescriptionFields: types.JobDescriptionFields{JobDescription: testJob}},
			wantStatus: http.StatusBadRequest,
			wantCode:   processor.CodeEmptyExtraction,
		},
		{
			name:       "缺少岗位描述",
			req:        types.EvaluateTextRequest{ResumeText: testResume},
			wantStatus: http.StatusBadRequest,
			wantCode:   processor.CodeMissingJobDescription,
		},
		{
			name:       "未启用URL抓取",
			req:        types.EvaluateTextRequest{ResumeText: testResume, JobDescriptionFields: types.JobDescriptionFields{JobURL: "https://jobs.example.com/1"}},
			wantStatus: http.StatusBadGateway,
			wantCode:   processor.CodeJDFetchFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(engine, "/api/v1/ats/evaluate/text", tt.req)
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())
			assert.Equal(t, tt.wantCode, decodeError(t, resp).Code)
		})
	}

	resp := ut.PerformRequest(engine, http.MethodPost, "/api/v1/ats/evaluate/text",
		&ut.Body{Body: bytes.NewBufferString("{not json"), Len: 9},
		ut.Header{Key: "Content-Type", Value: "application/json"})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeError(t, resp).Code)
}

func TestEvaluateText_EmptyExtractionMessage(t *testing.T) {
	resp := postJSON(newTestEngine(t, 0), "/api/v1/ats/evaluate/text", types.EvaluateTextRequest{
		ResumeText:           "",
		JobDescriptionFields: types.JobDescriptionFields{JobDescription: testJob},
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "could not extract text from the uploaded document", decodeError(t, resp).Error)
}

func TestEvaluateUpload(t *testing.T) {
	engine := newTestEngine(t, 1<<20)

	resp := postForm(t, engine, "resume.txt", []byte(testResume), map[string]string{"job_description": testJob})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	out := decodeEvaluation(t, resp)
	assert.Equal(t, 60.0, out.Score)
	assert.Equal(t, "text", out.ResumeFormat)
}

func TestEvaluateUpload_Errors(t *testing.T) {
	engine := newTestEngine(t, 64)

	resp := postForm(t, engine, "", nil, map[string]string{"job_description": testJob})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "MISSING_FILE", decodeError(t, resp).Code)

	resp = postForm(t, engine, "resume.txt", bytes.Repeat([]byte("python "), 20), map[string]string{"job_description": testJob})
	require.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
	assert.Equal(t, processor.CodeDocumentTooLarge, decodeError(t, resp).Code)

	resp = postForm(t, engine, "resume.bin", []byte{0x00, 0x01, 0x02, 0xff, 0x00}, map[string]string{"job_description": testJob})
	require.Equal(t, http.StatusUnsupportedMediaType, resp.Code)
	assert.Equal(t, processor.CodeUnsupportedFormat, decodeError(t, resp).Code)

	resp = postForm(t, engine, "blank.txt", []byte("  \n\n  "), map[string]string{"job_description": testJob})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, processor.CodeEmptyExtraction, decodeError(t, resp).Code)

	resp = postForm(t, engine, "resume.txt", []byte(testResume), nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, processor.CodeMissingJobDescription, decodeError(t, resp).Code)
}

func TestEvaluateObject_NoObjectStorage(t *testing.T) {
	engine := newTestEngine(t, 0)

	resp := postJSON(engine, "/api/v1/ats/evaluate/object", types.EvaluateObjectRequest{
		ObjectKey:            "cv/1.pdf",
		JobDescriptionFields: types.JobDescriptionFields{JobDescription: testJob},
	})
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Equal(t, processor.CodeStorageUnavailable, decodeError(t, resp).Code)

	resp = postJSON(engine, "/api/v1/ats/evaluate/object", types.EvaluateObjectRequest{})
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestNormalize(t *testing.T) {
	engine := newTestEngine(t, 0)

	resp := postJSON(engine, "/api/v1/ats/normalize", types.NormalizeRequest{Text: "Looking for a Python developer, with Docker experience!"})
	require.Equal(t, http.StatusOK, resp.Code)
	var out types.NormalizeResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, []string{"developer", "docker", "experience", "looking", "python"}, out.Keywords)
	assert.Equal(t, 5, out.Count)

	resp = postJSON(engine, "/api/v1/ats/normalize", types.NormalizeRequest{Text: "the and of"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"keywords":[],"count":0}`, resp.Body.String())
}

func TestStatusForCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, handler.StatusForCode(processor.CodeDocumentParse))
	assert.Equal(t, http.StatusNotFound, handler.StatusForCode(processor.CodeResumeNotFound))
	assert.Equal(t, http.StatusServiceUnavailable, handler.StatusForCode(processor.CodeJobLookupUnavailable))
	assert.Equal(t, http.StatusInternalServerError, handler.StatusForCode(processor.CodeInternal))
	assert.Equal(t, http.StatusInternalServerError, handler.StatusForCode("SOMETHING_NEW"))
}
