package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/viewtube/backend/internal/auth"
	"github.com/viewtube/backend/internal/httpapi"
	"github.com/viewtube/backend/internal/models"
	"github.com/viewtube/backend/internal/repositories"
)

type tweetStoreStub struct {
	tweets map[string]models.Tweet
}

func newTweetStoreStub(tweets ...models.Tweet) *tweetStoreStub {
	stub := &tweetStoreStub{tweets: make(map[string]models.Tweet)}
	for _, tw := range tweets {
		stub.tweets[tw.ID] = tw
	}
	return stub
}

func (s *tweetStoreStub) Create(_ context.Context, tweet models.Tweet) error {
	s.tweets[tweet.ID] = tweet
	return nil
}

func (s *tweetStoreStub) FindByID(_ context.Context, id string) (models.Tweet, error) {
	tweet, ok := s.tweets[id]
	if !ok {
		return models.Tweet{}, repositories.ErrNotFound
	}
	return tweet, nil
}

func (s *tweetStoreStub) ListForUser(_ context.Context, ownerID string, opts repositories.ListOptions) (repositories.Page[models.Tweet], error) {
	var items []models.Tweet
	for _, tw := range s.tweets {
		if tw.OwnerID == ownerID {
			items = append(items, tw)
		}
	}
	return repositories.NewPage(items, int64(len(items)), opts), nil
}

func (s *tweetStoreStub) UpdateContent(_ context.Context, id, content string) (models.Tweet, error) {
	tweet, ok := s.tweets[id]
	if !ok {
		return models.Tweet{}, repositories.ErrNotFound
	}
	tweet.Content = content
	s.tweets[id] = tweet
	return tweet, nil
}

func (s *tweetStoreStub) Delete(_ context.Context, id string) error {
	if _, ok := s.tweets[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.tweets, id)
	return nil
}

func TestTweetHandlerCreate(t *testing.T) {
	store := newTweetStoreStub()
	handler := TweetHandler{Tweets: store}

	body, _ := json.Marshal(tweetRequest{Content: "hello world"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tweets", bytes.NewReader(body))
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "user-1"}))
	rec := httptest.NewRecorder()

	httpapi.Wrap(handler.Create)(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	if len(store.tweets) != 1 {
		t.Fatalf("expected one stored tweet, got %d", len(store.tweets))
	}
}

func TestTweetHandlerCreateTooLong(t *testing.T) {
	handler := TweetHandler{Tweets: newTweetStoreStub()}

	body, _ := json.Marshal(tweetRequest{Content: strings.Repeat("a", 281)})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tweets", bytes.NewReader(body))
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "user-1"}))
	rec := httptest.NewRecorder()

	httpapi.Wrap(handler.Create)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestTweetHandlerUpdateNonOwner(t *testing.T) {
	store := newTweetStoreStub(models.Tweet{ID: "t1", OwnerID: "user-2", Content: "original"})
	handler := TweetHandler{Tweets: store}

	body, _ := json.Marshal(tweetRequest{Content: "hijacked"})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/tweets/t1", bytes.NewReader(body))
	req = urlParamRequest(req, "tweetId", "t1")
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "user-1"}))
	rec := httptest.NewRecorder()

	httpapi.Wrap(handler.Update)(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status %d got %d", http.StatusForbidden, rec.Code)
	}
	if store.tweets["t1"].Content != "original" {
		t.Fatal("non-owner update must not change the tweet")
	}
}

func TestTweetHandlerDeleteUnknown(t *testing.T) {
	handler := TweetHandler{Tweets: newTweetStoreStub()}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/tweets/missing", nil)
	req = urlParamRequest(req, "tweetId", "missing")
	req = req.WithContext(auth.WithUser(req.Context(), models.User{ID: "user-1"}))
	rec := httptest.NewRecorder()

	httpapi.Wrap(handler.Delete)(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d got %d", http.StatusNotFound, rec.Code)
	}
}

func TestTweetHandlerListForUser(t *testing.T) {
	store := newTweetStoreStub(
		models.Tweet{ID: "t1", OwnerID: "user-1", Content: "one"},
		models.Tweet{ID: "t2", OwnerID: "user-2", Content: "two"},
	)
	handler := TweetHandler{Tweets: store}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tweets/user/user-1", nil)
	req = urlParamRequest(req, "userId", "user-1")
	rec := httptest.NewRecorder()

	httpapi.Wrap(handler.ListForUser)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d got %d", http.StatusOK, rec.Code)
	}

	var envelope struct {
		Data repositories.Page[models.Tweet] `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TotalDocs != 1 || len(envelope.Data.Items) != 1 {
		t.Fatalf("expected only the owner's tweets, got %+v", envelope.Data)
	}
}
