package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitepass/notifier/pkg/api"
	"github.com/sitepass/notifier/pkg/dispatch"
)

// captureTransport records every task it is asked to deliver.
type captureTransport struct {
	mu    sync.Mutex
	tasks []dispatch.RecipientTask
}

func (t *captureTransport) SendOne(ctx context.Context, task dispatch.RecipientTask) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tasks = append(t.tasks, task)
	return nil
}

func (t *captureTransport) all() []dispatch.RecipientTask {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]dispatch.RecipientTask(nil), t.tasks...)
}

func newTestHandler(t *testing.T) (http.Handler, *captureTransport, *dispatch.Service) {
	t.Helper()

	transport := &captureTransport{}
	svc, err := dispatch.NewService(
		map[dispatch.Channel]dispatch.Transport{dispatch.ChannelEmail: transport},
		dispatch.WithChannelProfile(dispatch.ChannelEmail, dispatch.PacingProfile{BatchSize: 5}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	return api.NewHandler(svc, nil).Router(), transport, svc
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	encoded, err := json.Marshal(body)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(rec, req)
	return rec
}

func submitAndWait(t *testing.T, handler http.Handler, req api.SubmitRequest) string {
	t.Helper()

	rec := postJSON(t, handler, "/jobs", req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp api.SubmitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Eventually(t, func() bool {
		get := httptest.NewRecorder()
		handler.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/jobs/"+resp.JobID, nil))
		if get.Code != http.StatusOK {
			return false
		}
		var snap dispatch.ProgressSnapshot
		if err := json.Unmarshal(get.Body.Bytes(), &snap); err != nil {
			return false
		}
		return snap.Status.Terminal()
	}, 5*time.Second, 5*time.Millisecond)

	return resp.JobID
}

func TestHandler_SubmitJob(t *testing.T) {
	t.Parallel()

	t.Run("accepts a job and returns its ID", func(t *testing.T) {
		t.Parallel()

		handler, transport, _ := newTestHandler(t)

		jobID := submitAndWait(t, handler, api.SubmitRequest{
			Channel: dispatch.ChannelEmail,
			Recipients: []api.SubmitRecipient{
				{Address: "a@site.example.com", Label: "a", Subject: "Hi", Body: "<p>a</p>"},
				{Address: "b@site.example.com", Label: "b", Subject: "Hi", Body: "<p>b</p>"},
			},
		})

		_, err := uuid.Parse(jobID)
		require.NoError(t, err)
		assert.Len(t, transport.all(), 2)
	})

	t.Run("generates a QR pass attachment for access codes", func(t *testing.T) {
		t.Parallel()

		handler, transport, _ := newTestHandler(t)

		submitAndWait(t, handler, api.SubmitRequest{
			Channel: dispatch.ChannelEmail,
			Recipients: []api.SubmitRecipient{{
				Address:    "visitor@site.example.com",
				Label:      "visitor-1",
				Subject:    "Your pass",
				Body:       "<p>pass attached</p>",
				SiteID:     "site-7",
				AccessCode: "ZX41",
			}},
		})

		tasks := transport.all()
		require.Len(t, tasks, 1)
		assert.Equal(t, "access-pass.png", tasks[0].Payload.AttachmentName)
		assert.NotEmpty(t, tasks[0].Payload.Attachment)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()

		handler, _, _ := newTestHandler(t)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/jobs", bytes.NewReader([]byte("{not json")))
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects unknown channel", func(t *testing.T) {
		t.Parallel()

		handler, _, _ := newTestHandler(t)

		rec := postJSON(t, handler, "/jobs", api.SubmitRequest{
			Channel: "carrier-pigeon",
			Recipients: []api.SubmitRecipient{
				{Address: "a@site.example.com", Label: "a", Subject: "Hi", Body: "x"},
			},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects empty recipient list", func(t *testing.T) {
		t.Parallel()

		handler, _, _ := newTestHandler(t)

		rec := postJSON(t, handler, "/jobs", api.SubmitRequest{Channel: dispatch.ChannelEmail})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects access code without site", func(t *testing.T) {
		t.Parallel()

		handler, _, _ := newTestHandler(t)

		rec := postJSON(t, handler, "/jobs", api.SubmitRequest{
			Channel: dispatch.ChannelEmail,
			Recipients: []api.SubmitRecipient{{
				Address:    "v@site.example.com",
				Label:      "v",
				Subject:    "Pass",
				Body:       "x",
				AccessCode: "ZX41",
			}},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("answers 503 after shutdown", func(t *testing.T) {
		t.Parallel()

		handler, _, svc := newTestHandler(t)
		require.NoError(t, svc.Close())

		rec := postJSON(t, handler, "/jobs", api.SubmitRequest{
			Channel: dispatch.ChannelEmail,
			Recipients: []api.SubmitRecipient{
				{Address: "a@site.example.com", Label: "a", Subject: "Hi", Body: "x"},
			},
		})
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestHandler_GetJob(t *testing.T) {
	t.Parallel()

	t.Run("returns the job snapshot", func(t *testing.T) {
		t.Parallel()

		handler, _, _ := newTestHandler(t)

		jobID := submitAndWait(t, handler, api.SubmitRequest{
			Channel: dispatch.ChannelEmail,
			Recipients: []api.SubmitRecipient{
				{Address: "a@site.example.com", Label: "a", Subject: "Hi", Body: "x"},
			},
		})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/"+jobID, nil))

		require.Equal(t, http.StatusOK, rec.Code)

		var snap dispatch.ProgressSnapshot
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
		assert.Equal(t, dispatch.JobStatusCompleted, snap.Status)
		assert.Equal(t, 1, snap.SuccessCount)
		assert.Equal(t, 100, snap.Progress)
	})

	t.Run("invalid job ID", func(t *testing.T) {
		t.Parallel()

		handler, _, _ := newTestHandler(t)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/not-a-uuid", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown job ID", func(t *testing.T) {
		t.Parallel()

		handler, _, _ := newTestHandler(t)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/"+uuid.NewString(), nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandler_ListJobs(t *testing.T) {
	t.Parallel()

	handler, _, _ := newTestHandler(t)

	submitAndWait(t, handler, api.SubmitRequest{
		Channel: dispatch.ChannelEmail,
		Recipients: []api.SubmitRecipient{
			{Address: "a@site.example.com", Label: "a", Subject: "Hi", Body: "x"},
		},
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var jobs []dispatch.ProgressSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
	assert.Len(t, jobs, 1)
}

func TestHandler_CancelJob(t *testing.T) {
	t.Parallel()

	t.Run("cancelling a finished job answers conflict", func(t *testing.T) {
		t.Parallel()

		handler, _, _ := newTestHandler(t)

		jobID := submitAndWait(t, handler, api.SubmitRequest{
			Channel: dispatch.ChannelEmail,
			Recipients: []api.SubmitRecipient{
				{Address: "a@site.example.com", Label: "a", Subject: "Hi", Body: "x"},
			},
		})

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/jobs/"+jobID, nil))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown job answers conflict", func(t *testing.T) {
		t.Parallel()

		handler, _, _ := newTestHandler(t)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/jobs/"+uuid.NewString(), nil))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid job ID", func(t *testing.T) {
		t.Parallel()

		handler, _, _ := newTestHandler(t)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/jobs/not-a-uuid", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
