package httpengine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetscribe/internal/app/engine"
	apperrors "meetscribe/internal/app/errors"
	"meetscribe/internal/app/model"
)

func TestSubmitInlineAudio(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, "/v1/jobs", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("audio")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "standup.mp3", header.Filename)
		assert.Equal(t, "en", r.FormValue("language"))

		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"job_id": "remote-42"}`))
	}))
	defer srv.Close()

	eng := New(Config{BaseURL: srv.URL, APIKey: "secret"})
	jobID, err := eng.Submit(context.Background(), engine.SubmitRequest{
		MeetingID: "meeting-1",
		FileName:  "standup.mp3",
		Audio:     strings.NewReader("bytes"),
		Language:  "en",
	})
	require.NoError(t, err)
	assert.Equal(t, "remote-42", jobID)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestSubmitDeferredByObjectKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "audio/abc.mp3", r.FormValue("object_key"))
		w.Write([]byte(`{"job_id": "remote-43"}`))
	}))
	defer srv.Close()

	eng := New(Config{BaseURL: srv.URL})
	jobID, err := eng.Submit(context.Background(), engine.SubmitRequest{
		MeetingID: "meeting-1",
		ObjectKey: "audio/abc.mp3",
	})
	require.NoError(t, err)
	assert.Equal(t, "remote-43", jobID)
}

func TestSubmitRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unsupported sample rate", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	eng := New(Config{BaseURL: srv.URL})
	_, err := eng.Submit(context.Background(), engine.SubmitRequest{ObjectKey: "k"})
	assert.ErrorIs(t, err, apperrors.ErrEngineRejected)
}

func TestSubmitUnavailable(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close() // connection refused

	eng := New(Config{BaseURL: srv.URL})
	_, err := eng.Submit(context.Background(), engine.SubmitRequest{ObjectKey: "k"})
	assert.ErrorIs(t, err, apperrors.ErrEngineUnavailable)
}

func TestFetchMapsRemoteStatuses(t *testing.T) {
	tests := []struct {
		remote string
		want   model.JobStatus
	}{
		{"queued", model.JobStatusQueued},
		{"pending", model.JobStatusQueued},
		{"processing", model.JobStatusProcessing},
		{"running", model.JobStatusProcessing},
		{"done", model.JobStatusDone},
		{"completed", model.JobStatusDone},
		{"failed", model.JobStatusFailed},
		{"error", model.JobStatusFailed},
		{"something-new", model.JobStatusProcessing},
	}

	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/v1/jobs/remote-42", r.URL.Path)
				w.Write([]byte(`{"job_id": "remote-42", "status": "` + tt.remote + `"}`))
			}))
			defer srv.Close()

			eng := New(Config{BaseURL: srv.URL})
			result, err := eng.Fetch(context.Background(), "remote-42")
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Status)
		})
	}
}

func TestFetchCarriesPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"job_id": "remote-42",
			"status": "done",
			"text": "hello world",
			"segments": [{"start": 0, "end": 1.5, "speaker": "ana", "text": "hello world"}]
		}`))
	}))
	defer srv.Close()

	eng := New(Config{BaseURL: srv.URL})
	result, err := eng.Fetch(context.Background(), "remote-42")
	require.NoError(t, err)
	assert.Equal(t, "hello world", result.Text)
	require.Len(t, result.Segments, 1)
	assert.Equal(t, "ana", result.Segments[0].Speaker)
	assert.Equal(t, 1.5, result.Segments[0].End)
}
