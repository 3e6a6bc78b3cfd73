package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/hszk-dev/vidcatalog/internal/domain/model"
	"github.com/hszk-dev/vidcatalog/internal/domain/repository"
	"github.com/hszk-dev/vidcatalog/internal/usecase"
	"github.com/hszk-dev/vidcatalog/internal/wire"
)

// BasePath is the mount point of the video routes.
const BasePath = "/api/v1/videos"

const defaultMinLabels = 1

// VideoHandler handles video-related HTTP requests.
type VideoHandler struct {
	svc usecase.VideoService
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(svc usecase.VideoService) *VideoHandler {
	return &VideoHandler{svc: svc}
}

// Routes registers the video endpoints on r, relative to BasePath.
func (h *VideoHandler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/search", h.Search)
	r.Get("/deleted", h.ListDeleted)
	r.Get("/movies", h.ListMovies)
	r.Get("/series", h.ListSeries)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/similar", h.Similar)
}

// Create handles POST /api/v1/videos
func (h *VideoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req wire.Video
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	video, err := h.svc.CreateVideo(r.Context(), req.Candidate())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.Header().Set("Location", BasePath+"/"+video.ID.String())
	JSON(w, http.StatusCreated, wire.FromVideo(video))
}

// Get handles GET /api/v1/videos/{id}
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	videoID, ok := parseVideoID(w, r)
	if !ok {
		return
	}

	video, err := h.svc.GetVideo(r.Context(), videoID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, wire.FromVideo(video))
}

// Search handles GET /api/v1/videos/search?title=
func (h *VideoHandler) Search(w http.ResponseWriter, r *http.Request) {
	if !r.URL.Query().Has("title") {
		Error(w, http.StatusBadRequest, "missing_title", "Query parameter title is required")
		return
	}

	videos, err := h.svc.SearchByTitle(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, wire.FromVideos(videos))
}

// Delete handles DELETE /api/v1/videos/{id}
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	videoID, ok := parseVideoID(w, r)
	if !ok {
		return
	}

	applied, err := h.svc.DeleteVideo(r.Context(), videoID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	if !applied {
		Error(w, http.StatusNotFound, "video_not_found", "Not found or already deleted")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListDeleted handles GET /api/v1/videos/deleted
func (h *VideoHandler) ListDeleted(w http.ResponseWriter, r *http.Request) {
	ids, err := h.svc.ListDeletedIDs(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	if ids == nil {
		ids = []uuid.UUID{}
	}
	JSON(w, http.StatusOK, ids)
}

// ListMovies handles GET /api/v1/videos/movies
func (h *VideoHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	h.listByType(w, r, model.TypeMovie)
}

// ListSeries handles GET /api/v1/videos/series
func (h *VideoHandler) ListSeries(w http.ResponseWriter, r *http.Request) {
	h.listByType(w, r, model.TypeSeries)
}

func (h *VideoHandler) listByType(w http.ResponseWriter, r *http.Request, t model.Type) {
	videos, err := h.svc.ListByType(r.Context(), t)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, wire.FromVideos(videos))
}

// Similar handles GET /api/v1/videos/{id}/similar?minLabels=
// minLabels defaults to 1 and is raised to 1 when lower.
func (h *VideoHandler) Similar(w http.ResponseWriter, r *http.Request) {
	videoID, ok := parseVideoID(w, r)
	if !ok {
		return
	}

	minLabels := defaultMinLabels
	if raw := r.URL.Query().Get("minLabels"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			Error(w, http.StatusBadRequest, "invalid_min_labels", "minLabels must be an integer")
			return
		}
		minLabels = max(n, defaultMinLabels)
	}

	videos, err := h.svc.FindSimilar(r.Context(), videoID, minLabels)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, wire.FromVideos(videos))
}

func parseVideoID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return uuid.Nil, false
	}
	return videoID, true
}

func (h *VideoHandler) handleServiceError(w http.ResponseWriter, err error) {
	var validationErr *model.ValidationError
	switch {
	case errors.As(err, &validationErr):
		Error(w, http.StatusBadRequest, "invalid_video", validationErr.Error())
	case errors.Is(err, repository.ErrDuplicateVideo):
		Error(w, http.StatusConflict, "video_exists", err.Error())
	case errors.Is(err, repository.ErrVideoNotFound):
		Error(w, http.StatusNotFound, "video_not_found", "Not found")
	default:
		slog.Error("catalog operation failed", "error", err)
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
