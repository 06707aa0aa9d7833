// Package api exposes the story workflow over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"storyflow/internal/logging"
	"storyflow/internal/story"
	"storyflow/internal/workflow"
)

// Response messages for rejected review requests.
const (
	MsgInvalidReviewStatus   = "Invalid review status! Must be of value: ACCEPTED, REJECTED, CHANGES_REQUIRED"
	MsgStoryNotFound         = "Story not found!"
	MsgStoryNotInPullRequest = "Story not in pull request!"
)

// WorkflowService is the part of [workflow.Service] the handlers use.
type WorkflowService interface {
	Start(ctx context.Context, in workflow.StoryInput) (*workflow.Execution, error)
	Review(ctx context.Context, key, review string) (*workflow.Execution, error)
	ActionNames() []string
}

// StoryReader loads stories by key.
type StoryReader interface {
	Get(key string) (*story.Story, error)
}

// Handler serves the workflow HTTP routes.
type Handler struct {
	svc     WorkflowService
	stories StoryReader
	metrics http.Handler
	logger  *slog.Logger
}

// NewHandler creates a [Handler]. A nil metrics handler leaves /metrics
// unrouted; a nil logger discards logs.
func NewHandler(svc WorkflowService, stories StoryReader, metrics http.Handler, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{svc: svc, stories: stories, metrics: metrics, logger: logger}
}

// Routes returns a mux with every route registered.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/action/execute", h.Execute)
	mux.HandleFunc("POST /v1/story/review", h.Review)
	mux.HandleFunc("GET /v1/actions", h.Actions)
	mux.HandleFunc("GET /v1/stories/{key}", h.Story)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics)
	}
	return mux
}

// Execute creates a story from the JSON body and runs the chain for it.
func (h *Handler) Execute(w http.ResponseWriter, r *http.Request) {
	var in workflow.StoryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid json", "details": err.Error()})
		return
	}

	exec, err := h.svc.Start(r.Context(), in)
	if err != nil {
		if errors.Is(err, workflow.ErrInvalidStory) {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		h.internalError(w, r, "execute", err)
		return
	}
	writeJSON(w, http.StatusOK, exec)
}

// Review applies the reviewStatus query parameter to the story named by storyKey.
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	exec, err := h.svc.Review(r.Context(), q.Get("storyKey"), q.Get("reviewStatus"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, exec)
	case errors.Is(err, story.ErrInvalidReviewStatus):
		writeMessage(w, http.StatusBadRequest, MsgInvalidReviewStatus)
	case errors.Is(err, story.ErrStoryNotFound):
		writeMessage(w, http.StatusNotFound, MsgStoryNotFound)
	case errors.Is(err, workflow.ErrStoryNotInPullRequest):
		writeMessage(w, http.StatusUnprocessableEntity, MsgStoryNotInPullRequest)
	default:
		h.internalError(w, r, "review", err)
	}
}

// Actions lists the action names in chain order.
func (h *Handler) Actions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ActionNames())
}

// Story returns a single story.
func (h *Handler) Story(w http.ResponseWriter, r *http.Request) {
	st, err := h.stories.Get(r.PathValue("key"))
	if err != nil {
		if errors.Is(err, story.ErrStoryNotFound) {
			writeMessage(w, http.StatusNotFound, MsgStoryNotFound)
			return
		}
		h.internalError(w, r, "get story", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.ErrorContext(r.Context(), "request failed", "op", op, "path", r.URL.Path, "error", err)
	writeMessage(w, http.StatusInternalServerError, "internal error")
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
