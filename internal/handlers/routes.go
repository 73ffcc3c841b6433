package handlers

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/viewtube/backend/internal/auth"
	"github.com/viewtube/backend/internal/httpapi"
	"github.com/viewtube/backend/internal/middleware"
)

// Dependencies bundles the services the HTTP routes need.
type Dependencies struct {
	Users         UserStore
	Videos        VideoStore
	Comments      CommentStore
	Tweets        TweetStore
	Subscriptions SubscriptionStore
	Likes         LikeStore
	Media         MediaUploader
	Tokens        *auth.TokenManager
	CookieSecure  bool
	LoginLimiter  middleware.RateLimiter
	NowFunc       func() time.Time
}

// RegisterRoutes mounts the API routes onto the router.
func RegisterRoutes(r chi.Router, deps Dependencies) {
	authn := &auth.Authenticator{Tokens: deps.Tokens, Users: deps.Users}

	users := UserHandler{
		Users:        deps.Users,
		Tokens:       deps.Tokens,
		Media:        deps.Media,
		CookieSecure: deps.CookieSecure,
		NowFunc:      deps.NowFunc,
	}
	videos := VideoHandler{
		Videos:  deps.Videos,
		History: deps.Users,
		Media:   deps.Media,
		NowFunc: deps.NowFunc,
	}
	comments := CommentHandler{Comments: deps.Comments, Videos: deps.Videos, NowFunc: deps.NowFunc}
	tweets := TweetHandler{Tweets: deps.Tweets, NowFunc: deps.NowFunc}
	subscriptions := SubscriptionHandler{Subscriptions: deps.Subscriptions, NowFunc: deps.NowFunc}
	likes := LikeHandler{Likes: deps.Likes, NowFunc: deps.NowFunc}

	r.Get("/healthz", httpapi.Wrap(Health))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if deps.LoginLimiter != nil {
					r.Use(middleware.Throttle(deps.LoginLimiter))
				}
				r.Post("/register", httpapi.Wrap(users.Register))
				r.Post("/login", httpapi.Wrap(users.Login))
			})
			r.Post("/refresh-token", httpapi.Wrap(users.Refresh))

			r.Group(func(r chi.Router) {
				r.Use(authn.Require)
				r.Post("/logout", httpapi.Wrap(users.Logout))
				r.Get("/current-user", httpapi.Wrap(users.Current))
				r.Patch("/update-account", httpapi.Wrap(users.UpdateAccount))
				r.Post("/change-password", httpapi.Wrap(users.ChangePassword))
				r.Patch("/avatar", httpapi.Wrap(users.UpdateAvatar))
				r.Patch("/cover-image", httpapi.Wrap(users.UpdateCoverImage))
				r.Get("/c/{username}", httpapi.Wrap(users.ChannelProfile))
				r.Get("/watch-history", httpapi.Wrap(users.WatchHistory))
			})
		})

		r.Route("/videos", func(r chi.Router) {
			r.With(authn.Optional).Get("/", httpapi.Wrap(videos.List))
			r.With(authn.Optional).Get("/{videoId}", httpapi.Wrap(videos.Get))

			r.Group(func(r chi.Router) {
				r.Use(authn.Require)
				r.Post("/", httpapi.Wrap(videos.Publish))
				r.Patch("/{videoId}", httpapi.Wrap(videos.Update))
				r.Delete("/{videoId}", httpapi.Wrap(videos.Delete))
				r.Patch("/toggle/publish/{videoId}", httpapi.Wrap(videos.TogglePublish))
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/{videoId}", httpapi.Wrap(comments.List))

			r.Group(func(r chi.Router) {
				r.Use(authn.Require)
				r.Post("/{videoId}", httpapi.Wrap(comments.Create))
				r.Patch("/c/{commentId}", httpapi.Wrap(comments.Update))
				r.Delete("/c/{commentId}", httpapi.Wrap(comments.Delete))
			})
		})

		r.Route("/tweets", func(r chi.Router) {
			r.Get("/user/{userId}", httpapi.Wrap(tweets.ListForUser))

			r.Group(func(r chi.Router) {
				r.Use(authn.Require)
				r.Post("/", httpapi.Wrap(tweets.Create))
				r.Patch("/{tweetId}", httpapi.Wrap(tweets.Update))
				r.Delete("/{tweetId}", httpapi.Wrap(tweets.Delete))
			})
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/c/{channelId}/subscribers", httpapi.Wrap(subscriptions.SubscriberCount))
			r.Get("/u/{subscriberId}", httpapi.Wrap(subscriptions.SubscribedChannels))
			r.With(authn.Require).Post("/c/{channelId}", httpapi.Wrap(subscriptions.Toggle))
		})

		r.Route("/likes", func(r chi.Router) {
			r.Use(authn.Require)
			r.Post("/toggle/v/{videoId}", httpapi.Wrap(likes.ToggleVideo))
			r.Post("/toggle/c/{commentId}", httpapi.Wrap(likes.ToggleComment))
			r.Post("/toggle/t/{tweetId}", httpapi.Wrap(likes.ToggleTweet))
			r.Get("/videos", httpapi.Wrap(likes.LikedVideos))
		})
	})
}
