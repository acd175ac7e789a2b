package httpengine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	apperrors "meetscribe/internal/app/errors"
	"meetscribe/internal/app/engine"
	"meetscribe/internal/app/model"
)

// Config represents configuration for the asynchronous transcription engine
// HTTP API.
type Config struct {
	BaseURL    string            `yaml:"base_url"`
	SubmitPath string            `yaml:"submit_path"` // default "/v1/jobs"
	JobPath    string            `yaml:"job_path"`    // default "/v1/jobs/%s"
	APIKey     string            `yaml:"api_key"`
	Timeout    time.Duration     `yaml:"timeout"`
	Language   string            `yaml:"language"`
	Headers    map[string]string `yaml:"headers"`
}

// HTTPEngine talks to a remote transcription engine exposing a submit/fetch
// job API.
type HTTPEngine struct {
	config Config
	client *http.Client
}

type submitResponse struct {
	JobID string `json:"job_id"`
}

type jobResponse struct {
	JobID    string           `json:"job_id"`
	Status   string           `json:"status"`
	Text     string           `json:"text,omitempty"`
	Segments []engineSegment  `json:"segments,omitempty"`
	Error    string           `json:"error,omitempty"`
}

type engineSegment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker,omitempty"`
	Text    string  `json:"text"`
}

// New creates an HTTPEngine with defaults applied.
func New(config Config) *HTTPEngine {
	if config.SubmitPath == "" {
		config.SubmitPath = "/v1/jobs"
	}
	if config.JobPath == "" {
		config.JobPath = "/v1/jobs/%s"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	return &HTTPEngine{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// Submit posts the audio as multipart form data and returns the engine's
// job id.
func (e *HTTPEngine) Submit(ctx context.Context, req engine.SubmitRequest) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if req.Audio != nil {
		part, err := writer.CreateFormFile("audio", req.FileName)
		if err != nil {
			return "", fmt.Errorf("create form file: %w", err)
		}
		if _, err := io.Copy(part, req.Audio); err != nil {
			return "", fmt.Errorf("copy audio: %w", err)
		}
	} else {
		if err := writer.WriteField("object_key", req.ObjectKey); err != nil {
			return "", fmt.Errorf("write object_key field: %w", err)
		}
	}
	if req.Language != "" {
		if err := writer.WriteField("language", req.Language); err != nil {
			return "", fmt.Errorf("write language field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.config.BaseURL+e.config.SubmitPath, body)
	if err != nil {
		return "", fmt.Errorf("build submit request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	e.applyHeaders(httpReq)

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return "", apperrors.WrapSentinel(apperrors.ErrEngineUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", apperrors.WrapSentinel(apperrors.ErrEngineRejected,
			fmt.Errorf("engine returned %d: %s", resp.StatusCode, string(msg)))
	}

	var sr submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", apperrors.WrapSentinel(apperrors.ErrEngineRejected,
			fmt.Errorf("decode submit response: %w", err))
	}
	if sr.JobID == "" {
		return "", apperrors.WrapSentinel(apperrors.ErrEngineRejected,
			fmt.Errorf("engine returned empty job id"))
	}
	return sr.JobID, nil
}

// Fetch retrieves the remote job's status and result.
func (e *HTTPEngine) Fetch(ctx context.Context, externalJobID string) (*engine.Result, error) {
	url := e.config.BaseURL + fmt.Sprintf(e.config.JobPath, externalJobID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}
	e.applyHeaders(httpReq)

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, apperrors.WrapSentinel(apperrors.ErrEngineUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, apperrors.WrapSentinel(apperrors.ErrEngineRejected,
			fmt.Errorf("engine returned %d: %s", resp.StatusCode, string(msg)))
	}

	var jr jobResponse
	if err := json.NewDecoder(resp.Body).Decode(&jr); err != nil {
		return nil, fmt.Errorf("decode job response: %w", err)
	}
	return toResult(&jr), nil
}

// Endpoint returns the engine base URL.
func (e *HTTPEngine) Endpoint() string {
	return e.config.BaseURL
}

func (e *HTTPEngine) applyHeaders(req *http.Request) {
	if e.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.config.APIKey)
	}
	for k, v := range e.config.Headers {
		req.Header.Set(k, v)
	}
}

func toResult(jr *jobResponse) *engine.Result {
	result := &engine.Result{Text: jr.Text, Err: jr.Error}
	switch jr.Status {
	case "queued", "pending":
		result.Status = model.JobStatusQueued
	case "processing", "running":
		result.Status = model.JobStatusProcessing
	case "done", "completed":
		result.Status = model.JobStatusDone
	case "failed", "error":
		result.Status = model.JobStatusFailed
	default:
		result.Status = model.JobStatusProcessing
	}
	for _, s := range jr.Segments {
		result.Segments = append(result.Segments, model.Segment{
			Start:   s.Start,
			End:     s.End,
			Speaker: s.Speaker,
			Text:    s.Text,
		})
	}
	return result
}
