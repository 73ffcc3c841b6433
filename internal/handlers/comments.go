package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/viewtube/backend/internal/httpapi"
	"github.com/viewtube/backend/internal/models"
	"github.com/viewtube/backend/internal/repositories"
)

// CommentHandler implements the comment routes for a video.
type CommentHandler struct {
	Comments CommentStore
	Videos   VideoStore
	NowFunc  func() time.Time
}

// List handles GET /api/v1/comments/{videoId}.
func (h CommentHandler) List(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	videoID := chi.URLParam(r, "videoId")
	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return httpapi.NotFound("video not found")
		}
		return err
	}

	q := r.URL.Query()
	opts := repositories.ParseListOptions(q.Get("page"), q.Get("limit"), q.Get("sortBy"), q.Get("sortType"), repositories.CreatedAtSort)

	page, err := h.Comments.ListForVideo(ctx, videoID, opts)
	if err != nil {
		return err
	}

	httpapi.Respond(ctx, w, http.StatusOK, page, "comments fetched successfully")
	return nil
}

type commentRequest struct {
	Content string `json:"content" validate:"required"`
}

// Create handles POST /api/v1/comments/{videoId}.
func (h CommentHandler) Create(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	videoID := chi.URLParam(r, "videoId")
	if _, err := h.Videos.FindByID(ctx, videoID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return httpapi.NotFound("video not found")
		}
		return err
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := checkStruct(req); err != nil {
		return err
	}

	now := h.now()
	comment := models.Comment{
		ID:        uuid.NewString(),
		VideoID:   videoID,
		OwnerID:   user.ID,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.Comments.Create(ctx, comment); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return httpapi.NotFound("video not found")
		}
		return err
	}

	httpapi.Respond(ctx, w, http.StatusCreated, comment, "comment added successfully")
	return nil
}

// Update handles PATCH /api/v1/comments/c/{commentId}. Only the owner may
// update.
func (h CommentHandler) Update(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	comment, err := h.findOwned(ctx, chi.URLParam(r, "commentId"), user.ID)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		return err
	}
	req.Content = strings.TrimSpace(req.Content)
	if err := checkStruct(req); err != nil {
		return err
	}

	updated, err := h.Comments.UpdateContent(ctx, comment.ID, req.Content)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return httpapi.NotFound("comment not found")
		}
		return err
	}

	httpapi.Respond(ctx, w, http.StatusOK, updated, "comment updated successfully")
	return nil
}

// Delete handles DELETE /api/v1/comments/c/{commentId}. Only the owner may
// delete.
func (h CommentHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	comment, err := h.findOwned(ctx, chi.URLParam(r, "commentId"), user.ID)
	if err != nil {
		return err
	}

	if err := h.Comments.Delete(ctx, comment.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return httpapi.NotFound("comment not found")
		}
		return err
	}

	httpapi.Respond(ctx, w, http.StatusOK, struct{}{}, "comment deleted successfully")
	return nil
}

func (h CommentHandler) findOwned(ctx context.Context, id, requesterID string) (models.Comment, error) {
	comment, err := h.Comments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Comment{}, httpapi.NotFound("comment not found")
		}
		return models.Comment{}, err
	}
	if !models.OwnerEquals(comment.OwnerID, requesterID) {
		return models.Comment{}, httpapi.Forbidden("you do not own this comment")
	}
	return comment, nil
}

func (h CommentHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
