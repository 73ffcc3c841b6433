package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestPublicStripsCredentials(t *testing.T) {
	user := User{
		ID:           "u1",
		Username:     "alice",
		Email:        "alice@example.com",
		Password:     "hash",
		RefreshToken: "token",
	}

	payload, err := json.Marshal(user.Public())
	if err != nil {
		t.Fatalf("marshal public user: %v", err)
	}

	body := string(payload)
	if strings.Contains(body, "hash") || strings.Contains(body, "token") {
		t.Fatalf("credentials leaked into public payload: %s", body)
	}
}

func TestNewLikeTarget(t *testing.T) {
	cases := []struct {
		name    string
		kind    LikeKind
		id      string
		wantErr bool
	}{
		{name: "video", kind: LikeVideo, id: "v1"},
		{name: "comment", kind: LikeComment, id: "c1"},
		{name: "tweet", kind: LikeTweet, id: "t1"},
		{name: "unknown kind", kind: LikeKind("playlist"), id: "p1", wantErr: true},
		{name: "empty id", kind: LikeVideo, id: "", wantErr: true},
		{name: "empty kind", kind: LikeKind(""), id: "v1", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target, err := NewLikeTarget(tc.kind, tc.id)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidLikeTarget) {
					t.Fatalf("expected ErrInvalidLikeTarget, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if target.Kind() != tc.kind || target.ID() != tc.id {
				t.Fatalf("target does not round-trip: %+v", target)
			}
		})
	}
}

func TestOwnerEquals(t *testing.T) {
	if !OwnerEquals("u1", "u1") {
		t.Fatal("expected matching owner to pass")
	}
	if OwnerEquals("u1", "u2") {
		t.Fatal("expected mismatched owner to fail")
	}
	if OwnerEquals("", "") {
		t.Fatal("empty owner must never match")
	}
}
