package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/viewtube/backend/internal/auth"
	"github.com/viewtube/backend/internal/httpapi"
	"github.com/viewtube/backend/internal/models"
	"github.com/viewtube/backend/internal/repositories"
)

type commentStoreStub struct {
	comments map[string]models.Comment
	lastOpts repositories.ListOptions
}

func newCommentStoreStub(comments ...models.Comment) *commentStoreStub {
	stub := &commentStoreStub{comments: make(map[string]models.Comment)}
	for _, c := range comments {
		stub.comments[c.ID] = c
	}
	return stub
}

func (s *commentStoreStub) Create(_ context.Context, comment models.Comment) error {
	s.comments[comment.ID] = comment
	return nil
}

func (s *commentStoreStub) FindByID(_ context.Context, id string) (models.Comment, error) {
	comment, ok := s.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	return comment, nil
}

func (s *commentStoreStub) ListForVideo(_ context.Context, videoID string, opts repositories.ListOptions) (repositories.Page[models.Comment], error) {
	s.lastOpts = opts
	var items []models.Comment
	for _, c := range s.comments {
		if c.VideoID == videoID {
			items = append(items, c)
		}
	}
	return repositories.NewPage(items, int64(len(items)), opts), nil
}

func (s *commentStoreStub) UpdateContent(_ context.Context, id, content string) (models.Comment, error) {
	comment, ok := s.comments[id]
	if !ok {
		return models.Comment{}, repositories.ErrNotFound
	}
	comment.Content = content
	s.comments[id] = comment
	return comment, nil
}

func (s *commentStoreStub) Delete(_ context.Context, id string) error {
	if _, ok := s.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

func TestCommentHandlerCreate(t *testing.T) {
	videos := newVideoStoreStub(models.Video{ID: "v1", OwnerID: "user-2"})
	store := newCommentStoreStub()
	handler := CommentHandler{Comments: store, Videos: videos}

	body, _ := json.Marshal(commentRequest{Content: "nice video"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/comments/v1", bytes.NewReader(body))
	req = urlParamRequest(req, "videoId", "v1")
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "user-1"}))
	rec := httptest.NewRecorder()

	httpapi.Wrap(handler.Create)(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	if len(store.comments) != 1 {
		t.Fatalf("expected one stored comment, got %d", len(store.comments))
	}
}

func TestCommentHandlerCreateUnknownVideo(t *testing.T) {
	handler := CommentHandler{Comments: newCommentStoreStub(), Videos: newVideoStoreStub()}

	body, _ := json.Marshal(commentRequest{Content: "hello"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/comments/missing", bytes.NewReader(body))
	req = urlParamRequest(req, "videoId", "missing")
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "user-1"}))
	rec := httptest.NewRecorder()

	httpapi.Wrap(handler.Create)(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}

func TestCommentHandlerCreateBlankContent(t *testing.T) {
	videos := newVideoStoreStub(models.Video{ID: "v1"})
	handler := CommentHandler{Comments: newCommentStoreStub(), Videos: videos}

	body, _ := json.Marshal(commentRequest{Content: "   "})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/comments/v1", bytes.NewReader(body))
	req = urlParamRequest(req, "videoId", "v1")
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "user-1"}))
	rec := httptest.NewRecorder()

	httpapi.Wrap(handler.Create)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestCommentHandlerUpdateNonOwner(t *testing.T) {
	store := newCommentStoreStub(models.Comment{ID: "c1", VideoID: "v1", OwnerID: "user-2", Content: "original"})
	handler := CommentHandler{Comments: store, Videos: newVideoStoreStub()}

	body, _ := json.Marshal(commentRequest{Content: "hijacked"})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/comments/c/c1", bytes.NewReader(body))
	req = urlParamRequest(req, "commentId", "c1")
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "user-1"}))
	rec := httptest.NewRecorder()

	httpapi.Wrap(handler.Update)(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d got %d", http.StatusForbidden, rec.Code)
	}
	if store.comments["c1"].Content != "original" {
		t.Fatal("non-owner update must not change the comment")
	}
}

func TestCommentHandlerDeleteOwner(t *testing.T) {
	store := newCommentStoreStub(models.Comment{ID: "c1", VideoID: "v1", OwnerID: "user-1"})
	handler := CommentHandler{Comments: store, Videos: newVideoStoreStub()}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/comments/c/c1", nil)
	req = urlParamRequest(req, "commentId", "c1")
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "user-1"}))
	rec := httptest.NewRecorder()

	httpapi.Wrap(handler.Delete)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}
	if len(store.comments) != 0 {
		t.Fatal("expected comment to be removed")
	}
}

func TestCommentHandlerListUnknownVideo(t *testing.T) {
	handler := CommentHandler{Comments: newCommentStoreStub(), Videos: newVideoStoreStub()}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/comments/missing", nil)
	req = urlParamRequest(req, "videoId", "missing")
	rec := httptest.NewRecorder()

	httpapi.Wrap(handler.List)(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}
