package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/viewtube/backend/internal/httpapi"
	"github.com/viewtube/backend/internal/models"
	"github.com/viewtube/backend/internal/repositories"
)

// SubscriptionHandler implements the channel subscription routes.
type SubscriptionHandler struct {
	Subscriptions SubscriptionStore
	NowFunc       func() time.Time
}

// Toggle handles POST /api/v1/subscriptions/c/{channelId}. Subscribing to
// yourself is rejected.
func (h SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	user, err := requireUser(ctx)
	if err != nil {
		return err
	}

	channelID := chi.URLParam(r, "channelId")
	if channelID == "" {
		return httpapi.Validation("channelId is required")
	}
	if channelID == user.ID {
		return httpapi.Validation("you cannot subscribe to your own channel")
	}

	subscribed, err := h.Subscriptions.Toggle(ctx, models.Subscription{
		ID:           uuid.NewString(),
		ChannelID:    channelID,
		SubscriberID: user.ID,
		CreatedAt:    h.now(),
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return httpapi.NotFound("channel not found")
		}
		return err
	}

	message := "unsubscribed successfully"
	if subscribed {
		message = "subscribed successfully"
	}
	httpapi.Respond(ctx, w, http.StatusOK, map[string]bool{"subscribed": subscribed}, message)
	return nil
}

// SubscriberCount handles GET /api/v1/subscriptions/c/{channelId}/subscribers.
func (h SubscriptionHandler) SubscriberCount(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	channelID := chi.URLParam(r, "channelId")
	if channelID == "" {
		return httpapi.Validation("channelId is required")
	}

	count, err := h.Subscriptions.SubscriberCount(ctx, channelID)
	if err != nil {
		return err
	}

	httpapi.Respond(ctx, w, http.StatusOK, map[string]int64{"subscribersCount": count}, "subscriber count fetched")
	return nil
}

type subscribedChannelsResponse struct {
	Channels []models.OwnerProfile `json:"channels"`
	Total    int                   `json:"total"`
}

// SubscribedChannels handles GET /api/v1/subscriptions/u/{subscriberId}.
func (h SubscriptionHandler) SubscribedChannels(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	subscriberID := chi.URLParam(r, "subscriberId")
	if subscriberID == "" {
		return httpapi.Validation("subscriberId is required")
	}

	channels, err := h.Subscriptions.SubscribedChannels(ctx, subscriberID)
	if err != nil {
		return err
	}
	if channels == nil {
		channels = []models.OwnerProfile{}
	}

	httpapi.Respond(ctx, w, http.StatusOK, subscribedChannelsResponse{
		Channels: channels,
		Total:    len(channels),
	}, "subscribed channels fetched")
	return nil
}

func (h SubscriptionHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
