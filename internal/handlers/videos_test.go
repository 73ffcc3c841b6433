package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/viewtube/backend/internal/auth"
	"github.com/viewtube/backend/internal/httpapi"
	"github.com/viewtube/backend/internal/media"
	"github.com/viewtube/backend/internal/models"
	"github.com/viewtube/backend/internal/repositories"
)

type videoStoreStub struct {
	videos     map[string]models.Video
	lastFilter repositories.VideoFilter
	deleted    []string
}

func newVideoStoreStub(videos ...models.Video) *videoStoreStub {
	stub := &videoStoreStub{videos: make(map[string]models.Video)}
	for _, v := range videos {
		stub.videos[v.ID] = v
	}
	return stub
}

func (s *videoStoreStub) Create(_ context.Context, video models.Video) error {
	s.videos[video.ID] = video
	return nil
}

func (s *videoStoreStub) FindByID(_ context.Context, id string) (models.Video, error) {
	video, ok := s.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	return video, nil
}

func (s *videoStoreStub) List(_ context.Context, filter repositories.VideoFilter) (repositories.Page[models.Video], error) {
	s.lastFilter = filter
	var items []models.Video
	for _, v := range s.videos {
		items = append(items, v)
	}
	return repositories.NewPage(items, int64(len(items)), filter.ListOptions), nil
}

func (s *videoStoreStub) Update(_ context.Context, id, title, description, thumbnailURL string) (models.Video, error) {
	video, ok := s.videos[id]
	if !ok {
		return models.Video{}, repositories.ErrNotFound
	}
	if title != "" {
		video.Title = title
	}
	if description != "" {
		video.Description = description
	}
	if thumbnailURL != "" {
		video.ThumbnailURL = thumbnailURL
	}
	s.videos[id] = video
	return video, nil
}

func (s *videoStoreStub) SetPublished(_ context.Context, id string, published bool) error {
	video, ok := s.videos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	video.IsPublished = published
	s.videos[id] = video
	return nil
}

func (s *videoStoreStub) IncrementViews(_ context.Context, id string) error {
	video, ok := s.videos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	video.Views++
	s.videos[id] = video
	return nil
}

func (s *videoStoreStub) Delete(_ context.Context, id string) error {
	if _, ok := s.videos[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.videos, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func urlParamRequest(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestVideoHandlerListDefaultsToPublishedOnly(t *testing.T) {
	store := newVideoStoreStub()
	handler := VideoHandler{Videos: store, History: newInMemoryUserStore()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos?page=2&limit=5&sortBy=views", nil)
	rec := httptest.NewRecorder()

	httpapi.Wrap(handler.List)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
	if !store.lastFilter.PublishedOnly {
		t.Fatal("anonymous listing must be published-only")
	}
	if store.lastFilter.Page != 2 || store.lastFilter.Limit != 5 {
		t.Fatalf("pagination not forwarded: %+v", store.lastFilter.ListOptions)
	}
	if store.lastFilter.SortBy != "views" {
		t.Fatalf("expected views sort, got %q", store.lastFilter.SortBy)
	}
}

func TestVideoHandlerListOwnChannelIncludesUnpublished(t *testing.T) {
	store := newVideoStoreStub()
	handler := VideoHandler{Videos: store, History: newInMemoryUserStore()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos?userId=user-1", nil)
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "user-1"}))
	rec := httptest.NewRecorder()

	httpapi.Wrap(handler.List)(rec, req)

	if store.lastFilter.PublishedOnly {
		t.Fatal("owners filtering their own channel must see unpublished videos")
	}
}

func TestVideoHandlerPublishRequiresFiles(t *testing.T) {
	handler := VideoHandler{Videos: newVideoStoreStub(), Media: uploaderStub{duration: 12}}

	// Thumbnail missing.
	body, contentType := multipartBody(t,
		map[string]string{"title": "My video", "description": "Desc"},
		map[string]string{"videoFile": "clip.mp4"},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "user-1"}))
	rec := httptest.NewRecorder()

	httpapi.Wrap(handler.Publish)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestVideoHandlerPublish(t *testing.T) {
	store := newVideoStoreStub()
	handler := VideoHandler{
		Videos: store,
		Media:  uploaderStub{imageURL: "thumb.png", videoURL: "clip.mp4", duration: 42.5},
	}

	body, contentType := multipartBody(t,
		map[string]string{"title": "My video", "description": "Desc"},
		map[string]string{"videoFile": "clip.mp4", "thumbnail": "thumb.png"},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "user-1"}))
	rec := httptest.NewRecorder()

	httpapi.Wrap(handler.Publish)(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	if len(store.videos) != 1 {
		t.Fatalf("expected one stored video, got %d", len(store.videos))
	}
	for _, video := range store.videos {
		if video.OwnerID != "user-1" || video.Duration != 42.5 || !video.IsPublished {
			t.Fatalf("unexpected stored video: %+v", video)
		}
	}
}

func TestVideoHandlerPublishUnreadableDuration(t *testing.T) {
	store := newVideoStoreStub()
	handler := VideoHandler{Videos: store, Media: uploaderStub{err: media.ErrNoDuration}}

	body, contentType := multipartBody(t,
		map[string]string{"title": "My video", "description": "Desc"},
		map[string]string{"videoFile": "clip.mp4", "thumbnail": "thumb.png"},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "user-1"}))
	rec := httptest.NewRecorder()

	httpapi.Wrap(handler.Publish)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d: %s", http.StatusBadRequest, rec.Code, rec.Body.String())
	}
	if len(store.videos) != 0 {
		t.Fatalf("expected no stored video, got %d", len(store.videos))
	}
}

func TestVideoHandlerGetRecordsWatch(t *testing.T) {
	users := newInMemoryUserStore()
	store := newVideoStoreStub(models.Video{ID: "v1", OwnerID: "user-2", Views: 3})
	handler := VideoHandler{Videos: store, History: users}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/v1", nil)
	req = urlParamRequest(req, "videoId", "v1")
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "user-1"}))
	rec := httptest.NewRecorder()

	httpapi.Wrap(handler.Get)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
	if len(users.watched) != 1 || users.watched[0] != "user-1:v1" {
		t.Fatalf("expected watch to be recorded, got %v", users.watched)
	}

	var envelope struct {
		Data models.Video `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Views != 4 {
		t.Fatalf("expected view counter to be bumped, got %d", envelope.Data.Views)
	}
}

func TestVideoHandlerDeleteNonOwner(t *testing.T) {
	store := newVideoStoreStub(models.Video{ID: "v1", OwnerID: "user-2"})
	handler := VideoHandler{Videos: store, History: newInMemoryUserStore()}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/videos/v1", nil)
	req = urlParamRequest(req, "videoId", "v1")
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "user-1"}))
	rec := httptest.NewRecorder()

	httpapi.Wrap(handler.Delete)(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d got %d", http.StatusForbidden, rec.Code)
	}
	if len(store.deleted) != 0 {
		t.Fatal("non-owner delete must not remove the video")
	}
}

func TestVideoHandlerTogglePublish(t *testing.T) {
	store := newVideoStoreStub(models.Video{ID: "v1", OwnerID: "user-1", IsPublished: true})
	handler := VideoHandler{Videos: store, History: newInMemoryUserStore()}

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/videos/toggle/publish/v1", nil)
	req = urlParamRequest(req, "videoId", "v1")
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "user-1"}))
	rec := httptest.NewRecorder()

	httpapi.Wrap(handler.TogglePublish)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
	if store.videos["v1"].IsPublished {
		t.Fatal("expected publish flag to flip to false")
	}
}

func TestVideoHandlerGetUnknown(t *testing.T) {
	handler := VideoHandler{Videos: newVideoStoreStub(), History: newInMemoryUserStore()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/missing", nil)
	req = urlParamRequest(req, "videoId", "missing")
	rec := httptest.NewRecorder()

	httpapi.Wrap(handler.Get)(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}
