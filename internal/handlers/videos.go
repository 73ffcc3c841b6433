package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/viewtube/backend/internal/auth"
	"github.com/viewtube/backend/internal/httpapi"
	"github.com/viewtube/backend/internal/logging"
	"github.com/viewtube/backend/internal/media"
	"github.com/viewtube/backend/internal/models"
	"github.com/viewtube/backend/internal/repositories"
)

// WatchRecorder appends a video to a user's watch history.
type WatchRecorder interface {
	RecordWatch(ctx context.Context, userID, videoID string) error
}

// VideoHandler implements the video listing, upload, and mutation routes.
type VideoHandler struct {
	Videos  VideoStore
	History WatchRecorder
	Media   MediaUploader
	NowFunc func() time.Time
}

// List handles GET /api/v1/videos. Unpublished videos only appear when the
// authenticated requester filters by their own userId.
func (h VideoHandler) List(w http.ResponseWriter, r *http.Request) error {
	ctx, span := logging.StartSpan(r.Context(), "list_videos")
	defer span.End()

	q := r.URL.Query()
	filter := repositories.VideoFilter{
		ListOptions:   repositories.ParseListOptions(q.Get("page"), q.Get("limit"), q.Get("sortBy"), q.Get("sortType"), repositories.VideoSort),
		Query:         strings.TrimSpace(q.Get("query")),
		PublishedOnly: true,
		OwnerID:       strings.TrimSpace(q.Get("userId")),
	}

	if user, ok := auth.CurrentUser(ctx); ok && filter.OwnerID == user.ID {
		filter.PublishedOnly = false
	}

	page, err := h.Videos.List(ctx, filter)
	if err != nil {
		return err
	}

	httpapi.Respond(ctx, w, http.StatusOK, page, "videos fetched successfully")
	return nil
}

type publishRequest struct {
	Title       string `validate:"required,max=120"`
	Description string `validate:"required"`
}

// Publish handles POST /api/v1/videos (multipart). The video file and
// thumbnail are both required; the duration is probed from the uploaded file.
func (h VideoHandler) Publish(w http.ResponseWriter, r *http.Request) error {
	ctx, span := logging.StartSpan(r.Context(), "publish_video")
	defer span.End()

	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return httpapi.Validation("invalid multipart body")
	}

	req := publishRequest{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	if err := checkStruct(req); err != nil {
		return err
	}

	videoFile := formFile(r, "videoFile")
	if videoFile == nil {
		return httpapi.Validation("videoFile is required")
	}
	thumbFile := formFile(r, "thumbnail")
	if thumbFile == nil {
		return httpapi.Validation("thumbnail is required")
	}

	videoURL, duration, err := h.Media.SaveVideo(ctx, videoFile, "videos")
	if err != nil {
		if errors.Is(err, media.ErrNoDuration) {
			return httpapi.Validation("could not read a duration from the video file")
		}
		return err
	}
	thumbnailURL, err := h.Media.SaveImage(ctx, thumbFile, "thumbnails")
	if err != nil {
		return err
	}

	now := h.now()
	video := models.Video{
		ID:           uuid.NewString(),
		OwnerID:      user.ID,
		Title:        req.Title,
		Description:  req.Description,
		VideoURL:     videoURL,
		ThumbnailURL: thumbnailURL,
		Duration:     duration,
		IsPublished:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.Videos.Create(ctx, video); err != nil {
		return err
	}

	httpapi.Respond(ctx, w, http.StatusCreated, video, "video published successfully")
	return nil
}

// Get handles GET /api/v1/videos/{videoId}. Reads bump the view counter and,
// for authenticated requesters, record the watch; failures on either are
// logged but never fail the read.
func (h VideoHandler) Get(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	id := chi.URLParam(r, "videoId")
	video, err := h.Videos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return httpapi.NotFound("video not found")
		}
		return err
	}

	logger := logging.FromContext(ctx)
	if err := h.Videos.IncrementViews(ctx, id); err != nil {
		logger.Warn("increment views", "video_id", id, "error", err)
	} else {
		video.Views++
	}

	if user, ok := auth.CurrentUser(ctx); ok {
		if err := h.History.RecordWatch(ctx, user.ID, id); err != nil {
			logger.Warn("record watch", "video_id", id, "user_id", user.ID, "error", err)
		}
	}

	httpapi.Respond(ctx, w, http.StatusOK, video, "video fetched successfully")
	return nil
}

// Update handles PATCH /api/v1/videos/{videoId} (multipart). Only the owner
// may update; blank fields are left unchanged.
func (h VideoHandler) Update(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	video, err := h.findOwned(ctx, chi.URLParam(r, "videoId"), user.ID)
	if err != nil {
		return err
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return httpapi.Validation("invalid multipart body")
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))

	thumbnailURL := ""
	if thumbFile := formFile(r, "thumbnail"); thumbFile != nil {
		thumbnailURL, err = h.Media.SaveImage(ctx, thumbFile, "thumbnails")
		if err != nil {
			return err
		}
	}

	if title == "" && description == "" && thumbnailURL == "" {
		return httpapi.Validation("at least one of title, description, or thumbnail is required")
	}

	updated, err := h.Videos.Update(ctx, video.ID, title, description, thumbnailURL)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return httpapi.NotFound("video not found")
		}
		return err
	}

	httpapi.Respond(ctx, w, http.StatusOK, updated, "video updated successfully")
	return nil
}

// Delete handles DELETE /api/v1/videos/{videoId}. Only the owner may delete.
func (h VideoHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	video, err := h.findOwned(ctx, chi.URLParam(r, "videoId"), user.ID)
	if err != nil {
		return err
	}

	if err := h.Videos.Delete(ctx, video.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return httpapi.NotFound("video not found")
		}
		return err
	}

	httpapi.Respond(ctx, w, http.StatusOK, struct{}{}, "video deleted successfully")
	return nil
}

// TogglePublish handles PATCH /api/v1/videos/toggle/publish/{videoId}.
func (h VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	video, err := h.findOwned(ctx, chi.URLParam(r, "videoId"), user.ID)
	if err != nil {
		return err
	}

	video.IsPublished = !video.IsPublished
	if err := h.Videos.SetPublished(ctx, video.ID, video.IsPublished); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return httpapi.NotFound("video not found")
		}
		return err
	}

	httpapi.Respond(ctx, w, http.StatusOK, map[string]bool{"isPublished": video.IsPublished}, "publish status toggled")
	return nil
}

// findOwned fetches the video and rejects requesters who do not own it.
func (h VideoHandler) findOwned(ctx context.Context, id, requesterID string) (models.Video, error) {
	video, err := h.Videos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Video{}, httpapi.NotFound("video not found")
		}
		return models.Video{}, err
	}
	if !models.OwnerEquals(video.OwnerID, requesterID) {
		return models.Video{}, httpapi.Forbidden("you do not own this video")
	}
	return video, nil
}

func (h VideoHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
