package models

import (
	"errors"
	"time"
)

// User represents an account within the ViewTube platform. Password and
// RefreshToken never leave the server; use Public() for responses.
type User struct {
	ID            string
	Username      string
	Email         string
	FullName      string
	Password      string
	AvatarURL     string
	CoverImageURL string
	RefreshToken  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PublicUser is the sanitized shape of a user returned by the API.
type PublicUser struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	AvatarURL     string    `json:"avatar"`
	CoverImageURL string    `json:"coverImage,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Public strips credential fields from the user record.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: u.CoverImageURL,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// OwnerProfile is the reduced owner shape embedded in joined reads.
type OwnerProfile struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatar"`
}

// Video is an uploaded video with its stored media locations.
type Video struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"ownerId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"videoFile"`
	ThumbnailURL string    `json:"thumbnail"`
	Duration     float64   `json:"duration"`
	Views        int64     `json:"views"`
	IsPublished  bool      `json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Owner is populated by joined reads, nil otherwise.
	Owner *OwnerProfile `json:"owner,omitempty"`
}

// Comment is a comment left on a video.
type Comment struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"videoId"`
	OwnerID   string    `json:"ownerId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Owner *OwnerProfile `json:"owner,omitempty"`
}

// Tweet is a short text post attached to a user.
type Tweet struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Owner *OwnerProfile `json:"owner,omitempty"`
}

// Subscription records that SubscriberID follows ChannelID. At most one row
// exists per (channel, subscriber) pair, enforced by a unique index.
type Subscription struct {
	ID           string    `json:"id"`
	ChannelID    string    `json:"channelId"`
	SubscriberID string    `json:"subscriberId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ChannelProfile is the aggregated channel view for a username lookup.
type ChannelProfile struct {
	PublicUser
	SubscribersCount          int64 `json:"subscribersCount"`
	ChannelsSubscribedToCount int64 `json:"channelsSubscribedToCount"`
	IsSubscribed              bool  `json:"isSubscribed"`
}

// LikeKind identifies which entity a like targets.
type LikeKind string

const (
	LikeVideo   LikeKind = "video"
	LikeComment LikeKind = "comment"
	LikeTweet   LikeKind = "tweet"
)

// ErrInvalidLikeTarget indicates a like target with a bad kind or empty id.
var ErrInvalidLikeTarget = errors.New("like target must reference exactly one of video, comment, or tweet")

// LikeTarget is a tagged union over the three likeable entities. Exactly one
// branch is active; construct via NewLikeTarget so the invariant holds.
type LikeTarget struct {
	kind LikeKind
	id   string
}

// NewLikeTarget validates and builds a like target.
func NewLikeTarget(kind LikeKind, id string) (LikeTarget, error) {
	switch kind {
	case LikeVideo, LikeComment, LikeTweet:
	default:
		return LikeTarget{}, ErrInvalidLikeTarget
	}
	if id == "" {
		return LikeTarget{}, ErrInvalidLikeTarget
	}
	return LikeTarget{kind: kind, id: id}, nil
}

// Kind reports which entity the target references.
func (t LikeTarget) Kind() LikeKind { return t.kind }

// ID returns the referenced entity id.
func (t LikeTarget) ID() string { return t.id }

// Like records that UserID liked the target entity.
type Like struct {
	ID        string
	UserID    string
	Target    LikeTarget
	CreatedAt time.Time
}

// WatchEntry is one row of a user's watch history.
type WatchEntry struct {
	UserID    string
	VideoID   string
	WatchedAt time.Time
}

// OwnerEquals reports whether the record owner matches the requester. All
// ownership checks on mutations go through this predicate.
func OwnerEquals(ownerID, requesterID string) bool {
	return ownerID != "" && ownerID == requesterID
}
