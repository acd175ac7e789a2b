package whisperengine

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"

	apperrors "meetscribe/internal/app/errors"
	"meetscribe/internal/app/engine"
	"meetscribe/internal/app/model"
)

// WhisperEngine adapts the OpenAI Whisper API to the Engine interface.
// Whisper transcribes synchronously, so Submit performs the whole
// transcription and parks the result under a generated external id; the
// poller finds the job already terminal on its first Fetch.
type WhisperEngine struct {
	client *openai.Client

	mu      sync.Mutex
	results map[string]*engine.Result
}

// New creates a WhisperEngine from an OpenAI client.
func New(client *openai.Client) *WhisperEngine {
	return &WhisperEngine{
		client:  client,
		results: make(map[string]*engine.Result),
	}
}

// NewFromToken builds the OpenAI client from an API token.
func NewFromToken(token string) *WhisperEngine {
	return New(openai.NewClient(token))
}

func (e *WhisperEngine) Submit(ctx context.Context, req engine.SubmitRequest) (string, error) {
	if req.Audio == nil {
		return "", apperrors.WrapSentinel(apperrors.ErrEngineRejected,
			apperrors.New("whisper engine requires inline audio"))
	}

	audioReq := openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   req.Audio,
		FilePath: req.FileName,
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: req.Language,
	}
	resp, err := e.client.CreateTranscription(ctx, audioReq)
	if err != nil {
		return "", apperrors.WrapSentinel(apperrors.ErrEngineRejected, err)
	}

	externalID := uuid.New().String()
	result := &engine.Result{
		Status: model.JobStatusDone,
		Text:   resp.Text,
	}
	for _, s := range resp.Segments {
		result.Segments = append(result.Segments, model.Segment{
			Start: s.Start,
			End:   s.End,
			Text:  s.Text,
		})
	}

	e.mu.Lock()
	e.results[externalID] = result
	e.mu.Unlock()

	return externalID, nil
}

func (e *WhisperEngine) Fetch(ctx context.Context, externalJobID string) (*engine.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	result, ok := e.results[externalJobID]
	if !ok {
		return nil, apperrors.NotFound("engine job", externalJobID)
	}
	return result, nil
}

func (e *WhisperEngine) Endpoint() string {
	return "openai/whisper-1"
}
