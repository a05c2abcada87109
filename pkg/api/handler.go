package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sitepass/notifier/pkg/dispatch"
	"github.com/sitepass/notifier/pkg/logger"
	"github.com/sitepass/notifier/pkg/qrcode"
)

// qrPassSize is the pixel size of generated access-pass attachments.
const qrPassSize = 256

// Handler exposes the dispatch service over HTTP.
type Handler struct {
	service *dispatch.Service
	logger  *slog.Logger
}

// NewHandler creates the HTTP handler for the dispatch service.
func NewHandler(service *dispatch.Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{service: service, logger: log}
}

// Router builds the chi router for the dispatch API.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Route("/jobs", func(r chi.Router) {
		r.Post("/", h.submitJob)
		r.Get("/", h.listJobs)
		r.Get("/{jobID}", h.getJob)
		r.Delete("/{jobID}", h.cancelJob)
	})

	return r
}

// submitJob handles POST /jobs: validates the request, builds recipient
// tasks (generating QR pass attachments where requested), and returns the
// job ID with 202 Accepted. Per-recipient outcomes are never surfaced here.
func (h *Handler) submitJob(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	tasks, err := h.buildTasks(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var opts []dispatch.SubmitOption
	if req.BatchSize > 0 {
		opts = append(opts, dispatch.WithJobBatchSize(req.BatchSize))
	}

	jobID, err := h.service.Submit(req.Channel, tasks, opts...)
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, SubmitResponse{JobID: jobID.String()})
	case errors.Is(err, dispatch.ErrNoRecipients), errors.Is(err, dispatch.ErrUnknownChannel):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, dispatch.ErrServiceClosed):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error("submit failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// getJob handles GET /jobs/{jobID}.
func (h *Handler) getJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job ID")
		return
	}

	snap, err := h.service.Progress(id)
	if err != nil {
		writeError(w, http.StatusNotFound, dispatch.ErrJobNotFound.Error())
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// listJobs handles GET /jobs.
func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.ListJobs())
}

// cancelJob handles DELETE /jobs/{jobID}. Cancelling an unknown or
// already-terminal job answers 409 rather than mutating anything.
func (h *Handler) cancelJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job ID")
		return
	}

	if !h.service.Cancel(id) {
		writeError(w, http.StatusConflict, "job not found or already finished")
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// buildTasks converts request recipients to dispatch tasks, generating QR
// access-pass attachments for recipients that carry an access code.
func (h *Handler) buildTasks(req SubmitRequest) ([]dispatch.RecipientTask, error) {
	tasks := make([]dispatch.RecipientTask, 0, len(req.Recipients))

	for _, recipient := range req.Recipients {
		payload := dispatch.Payload{
			Subject: recipient.Subject,
			Body:    recipient.Body,
		}

		if recipient.AccessCode != "" {
			pass, err := qrcode.AccessPass(recipient.SiteID, recipient.AccessCode, qrPassSize)
			if err != nil {
				return nil, errors.Join(errors.New("recipient "+recipient.Label), err)
			}
			payload.Attachment = pass
			payload.AttachmentName = "access-pass.png"
		}

		tasks = append(tasks, dispatch.RecipientTask{
			Address: recipient.Address,
			Label:   recipient.Label,
			Payload: payload,
		})
	}

	return tasks, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
