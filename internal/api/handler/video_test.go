package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/hszk-dev/vidcatalog/internal/domain/model"
	"github.com/hszk-dev/vidcatalog/internal/domain/repository"
	"github.com/hszk-dev/vidcatalog/internal/infrastructure/memory"
	"github.com/hszk-dev/vidcatalog/internal/infrastructure/queue"
	"github.com/hszk-dev/vidcatalog/internal/usecase"
	"github.com/hszk-dev/vidcatalog/internal/wire"
)

// Mock VideoService

type mockVideoService struct {
	createVideoFn func(ctx context.Context, candidate model.Candidate) (*model.Video, error)
	getVideoFn    func(ctx context.Context, videoID uuid.UUID) (*model.Video, error)
	searchFn      func(ctx context.Context, token string) ([]*model.Video, error)
	deleteVideoFn func(ctx context.Context, videoID uuid.UUID) (bool, error)
	listDeletedFn func(ctx context.Context) ([]uuid.UUID, error)
	listByTypeFn  func(ctx context.Context, t model.Type) ([]*model.Video, error)
	findSimilarFn func(ctx context.Context, videoID uuid.UUID, minCommon int) ([]*model.Video, error)
}

func (m *mockVideoService) CreateVideo(ctx context.Context, candidate model.Candidate) (*model.Video, error) {
	if m.createVideoFn != nil {
		return m.createVideoFn(ctx, candidate)
	}
	return nil, nil
}

func (m *mockVideoService) GetVideo(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
	if m.getVideoFn != nil {
		return m.getVideoFn(ctx, videoID)
	}
	return nil, repository.ErrVideoNotFound
}

func (m *mockVideoService) SearchByTitle(ctx context.Context, token string) ([]*model.Video, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, token)
	}
	return []*model.Video{}, nil
}

func (m *mockVideoService) DeleteVideo(ctx context.Context, videoID uuid.UUID) (bool, error) {
	if m.deleteVideoFn != nil {
		return m.deleteVideoFn(ctx, videoID)
	}
	return false, nil
}

func (m *mockVideoService) ListDeletedIDs(ctx context.Context) ([]uuid.UUID, error) {
	if m.listDeletedFn != nil {
		return m.listDeletedFn(ctx)
	}
	return []uuid.UUID{}, nil
}

func (m *mockVideoService) ListByType(ctx context.Context, t model.Type) ([]*model.Video, error) {
	if m.listByTypeFn != nil {
		return m.listByTypeFn(ctx, t)
	}
	return []*model.Video{}, nil
}

func (m *mockVideoService) FindSimilar(ctx context.Context, videoID uuid.UUID, minCommon int) ([]*model.Video, error) {
	if m.findSimilarFn != nil {
		return m.findSimilarFn(ctx, videoID, minCommon)
	}
	return []*model.Video{}, nil
}

func newTestRouter(svc usecase.VideoService) *chi.Mux {
	r := chi.NewRouter()
	r.Route(BasePath, NewVideoHandler(svc).Routes)
	return r
}

func serve(r http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestVideoHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    string
		setupMock      func(m *mockVideoService)
		wantStatusCode int
		checkResponse  func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name:        "successful creation",
			requestBody: `{"id":"550e8400-e29b-41d4-a716-446655440000","title":"Dark","type":"SERIES","labels":["tv"],"numberOfEpisodes":10}`,
			setupMock: func(m *mockVideoService) {
				m.createVideoFn = func(ctx context.Context, c model.Candidate) (*model.Video, error) {
					return model.NewVideo(c)
				}
			},
			wantStatusCode: http.StatusCreated,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				if loc := rec.Header().Get("Location"); loc != "/api/v1/videos/550e8400-e29b-41d4-a716-446655440000" {
					t.Errorf("Location = %q", loc)
				}
				var resp wire.Video
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if resp.NumberOfEpisodes == nil || *resp.NumberOfEpisodes != 10 {
					t.Errorf("numberOfEpisodes = %v, want 10", resp.NumberOfEpisodes)
				}
				if resp.Director != nil {
					t.Error("director should be omitted for SERIES")
				}
			},
		},
		{
			name:           "invalid JSON body",
			requestBody:    "invalid json",
			setupMock:      func(m *mockVideoService) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "malformed release date",
			requestBody:    `{"id":"550e8400-e29b-41d4-a716-446655440000","title":"x","director":"d","releaseDate":"yesterday"}`,
			setupMock:      func(m *mockVideoService) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:        "validation error",
			requestBody: `{"id":"550e8400-e29b-41d4-a716-446655440000","title":"Invalid Series","type":"SERIES","numberOfEpisodes":10,"director":"Not allowed"}`,
			setupMock: func(m *mockVideoService) {
				m.createVideoFn = func(ctx context.Context, c model.Candidate) (*model.Video, error) {
					return model.NewVideo(c)
				}
			},
			wantStatusCode: http.StatusBadRequest,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp ErrorResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if resp.Message != model.ErrMovieFieldsNotAllowed.Error() {
					t.Errorf("message = %q, want %q", resp.Message, model.ErrMovieFieldsNotAllowed.Error())
				}
			},
		},
		{
			name:        "duplicate id",
			requestBody: `{"id":"550e8400-e29b-41d4-a716-446655440000","title":"Dup"}`,
			setupMock: func(m *mockVideoService) {
				m.createVideoFn = func(ctx context.Context, c model.Candidate) (*model.Video, error) {
					return nil, repository.ErrDuplicateVideo
				}
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name:        "internal error",
			requestBody: `{"id":"550e8400-e29b-41d4-a716-446655440000","title":"Boom"}`,
			setupMock: func(m *mockVideoService) {
				m.createVideoFn = func(ctx context.Context, c model.Candidate) (*model.Video, error) {
					return nil, errors.New("insert video: connection refused")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockVideoService{}
			tt.setupMock(mock)

			rec := serve(newTestRouter(mock), http.MethodPost, BasePath, []byte(tt.requestBody))

			if rec.Code != tt.wantStatusCode {
				t.Errorf("expected status %d, got %d", tt.wantStatusCode, rec.Code)
			}

			if tt.checkResponse != nil {
				tt.checkResponse(t, rec)
			}
		})
	}
}

func TestVideoHandler_Get(t *testing.T) {
	tests := []struct {
		name           string
		videoID        string
		setupMock      func(m *mockVideoService)
		wantStatusCode int
		checkResponse  func(t *testing.T, body []byte)
	}{
		{
			name:    "successful get",
			videoID: uuid.New().String(),
			setupMock: func(m *mockVideoService) {
				m.getVideoFn = func(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
					return &model.Video{
						ID:      videoID,
						Title:   "Inception",
						Labels:  []string{"thriller"},
						Details: model.Movie{Director: "Someone", ReleaseDate: time.Date(2010, 7, 16, 0, 0, 0, 0, time.UTC)},
					}, nil
				}
			},
			wantStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, body []byte) {
				var resp wire.Video
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if resp.Type == nil || *resp.Type != "MOVIE" {
					t.Errorf("expected type MOVIE, got %v", resp.Type)
				}
				if strings.Contains(string(body), "deleted") {
					t.Error("deleted flag must not be serialized")
				}
			},
		},
		{
			name:           "invalid video ID",
			videoID:        "not-a-uuid",
			setupMock:      func(m *mockVideoService) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:    "video not found",
			videoID: uuid.New().String(),
			setupMock: func(m *mockVideoService) {
				m.getVideoFn = func(ctx context.Context, videoID uuid.UUID) (*model.Video, error) {
					return nil, repository.ErrVideoNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockVideoService{}
			tt.setupMock(mock)

			rec := serve(newTestRouter(mock), http.MethodGet, BasePath+"/"+tt.videoID, nil)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("expected status %d, got %d", tt.wantStatusCode, rec.Code)
			}

			if tt.checkResponse != nil {
				tt.checkResponse(t, rec.Body.Bytes())
			}
		})
	}
}

func TestVideoHandler_Delete(t *testing.T) {
	tests := []struct {
		name           string
		applied        bool
		err            error
		wantStatusCode int
	}{
		{"applied", true, nil, http.StatusNoContent},
		{"unknown or already deleted", false, nil, http.StatusNotFound},
		{"service error", false, errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockVideoService{
				deleteVideoFn: func(ctx context.Context, videoID uuid.UUID) (bool, error) {
					return tt.applied, tt.err
				},
			}

			rec := serve(newTestRouter(mock), http.MethodDelete, BasePath+"/"+uuid.New().String(), nil)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("expected status %d, got %d", tt.wantStatusCode, rec.Code)
			}
		})
	}
}

func TestVideoHandler_Search(t *testing.T) {
	var gotToken string
	mock := &mockVideoService{
		searchFn: func(ctx context.Context, token string) ([]*model.Video, error) {
			gotToken = token
			return []*model.Video{}, nil
		},
	}
	r := newTestRouter(mock)

	rec := serve(r, http.MethodGet, BasePath+"/search?title=ab", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("body = %q, want []", rec.Body.String())
	}
	if gotToken != "ab" {
		t.Errorf("token = %q, want %q", gotToken, "ab")
	}

	rec = serve(r, http.MethodGet, BasePath+"/search", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing title: expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestVideoHandler_ListByType(t *testing.T) {
	var requested []model.Type
	mock := &mockVideoService{
		listByTypeFn: func(ctx context.Context, typ model.Type) ([]*model.Video, error) {
			requested = append(requested, typ)
			return []*model.Video{}, nil
		},
	}
	r := newTestRouter(mock)

	for _, path := range []string{"/movies", "/series"} {
		if rec := serve(r, http.MethodGet, BasePath+path, nil); rec.Code != http.StatusOK {
			t.Errorf("GET %s: expected status %d, got %d", path, http.StatusOK, rec.Code)
		}
	}

	if len(requested) != 2 || requested[0] != model.TypeMovie || requested[1] != model.TypeSeries {
		t.Errorf("requested types = %v, want [MOVIE SERIES]", requested)
	}
}

func TestVideoHandler_ListDeleted(t *testing.T) {
	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	mock := &mockVideoService{
		listDeletedFn: func(ctx context.Context) ([]uuid.UUID, error) {
			return []uuid.UUID{id}, nil
		},
	}

	rec := serve(newTestRouter(mock), http.MethodGet, BasePath+"/deleted", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `["550e8400-e29b-41d4-a716-446655440000"]` {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestVideoHandler_Similar(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		err            error
		wantStatusCode int
		wantMinCommon  int
	}{
		{"default minLabels", "", nil, http.StatusOK, 1},
		{"explicit minLabels", "?minLabels=3", nil, http.StatusOK, 3},
		{"zero is raised to one", "?minLabels=0", nil, http.StatusOK, 1},
		{"negative is raised to one", "?minLabels=-4", nil, http.StatusOK, 1},
		{"non-integer", "?minLabels=many", nil, http.StatusBadRequest, 0},
		{"unknown origin", "", repository.ErrVideoNotFound, http.StatusNotFound, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMin := 0
			mock := &mockVideoService{
				findSimilarFn: func(ctx context.Context, videoID uuid.UUID, minCommon int) ([]*model.Video, error) {
					gotMin = minCommon
					if tt.err != nil {
						return nil, tt.err
					}
					return []*model.Video{}, nil
				},
			}

			rec := serve(newTestRouter(mock), http.MethodGet, BasePath+"/"+uuid.New().String()+"/similar"+tt.query, nil)

			if rec.Code != tt.wantStatusCode {
				t.Errorf("expected status %d, got %d", tt.wantStatusCode, rec.Code)
			}
			if gotMin != tt.wantMinCommon {
				t.Errorf("minCommon = %d, want %d", gotMin, tt.wantMinCommon)
			}
		})
	}
}

func TestVideoHandler_EndToEnd(t *testing.T) {
	svc := usecase.NewVideoService(memory.NewVideoRepository(), queue.NopPublisher{})
	r := newTestRouter(svc)
	id := uuid.New().String()

	body := []byte(`{"id":"` + id + `","title":"Base content","type":"BASE","labels":["test"]}`)
	if rec := serve(r, http.MethodPost, BasePath, body); rec.Code != http.StatusCreated {
		t.Fatalf("create: expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	if rec := serve(r, http.MethodPost, BasePath, body); rec.Code != http.StatusConflict {
		t.Errorf("duplicate create: expected status %d, got %d", http.StatusConflict, rec.Code)
	}

	if rec := serve(r, http.MethodGet, BasePath+"/"+id, nil); rec.Code != http.StatusOK {
		t.Errorf("get: expected status %d, got %d", http.StatusOK, rec.Code)
	}

	if rec := serve(r, http.MethodDelete, BasePath+"/"+id, nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete: expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	if rec := serve(r, http.MethodGet, BasePath+"/"+id, nil); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: expected status %d, got %d", http.StatusNotFound, rec.Code)
	}

	if rec := serve(r, http.MethodDelete, BasePath+"/"+id, nil); rec.Code != http.StatusNotFound {
		t.Errorf("second delete: expected status %d, got %d", http.StatusNotFound, rec.Code)
	}

	rec := serve(r, http.MethodGet, BasePath+"/deleted", nil)
	if !strings.Contains(rec.Body.String(), id) {
		t.Errorf("deleted ids = %s, want to contain %s", rec.Body.String(), id)
	}
}
