package api

import (
	"context"

	leafclient "github.com/ydcloud-dy/leaf-client"
	"github.com/ydcloud-dy/leaf-client/session"
)

// UpdateProfileRequest matches the backend's profile update binding. Empty
// fields are omitted and left untouched server-side.
type UpdateProfileRequest struct {
	Nickname string `json:"nickname,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Email    string `json:"email,omitempty"`
}

// UserStats is the payload of GET /user/stats.
type UserStats struct {
	ArticlesCount  int64 `json:"articles_count"`
	LikesCount     int64 `json:"likes_count"`
	FavoritesCount int64 `json:"favorites_count"`
	CommentsCount  int64 `json:"comments_count"`
}

// Users wraps the current-user endpoints and keeps the session store's copy
// of the profile in sync after updates.
type Users struct {
	client *leafclient.Client
}

func NewUsers(client *leafclient.Client) *Users {
	return &Users{client: client}
}

// Me fetches the authenticated user's profile record.
func (u *Users) Me(ctx context.Context) (*session.User, error) {
	env, err := u.client.Get(ctx, "/auth/me")
	if err != nil {
		return nil, err
	}
	var user session.User
	if err := env.DecodeData(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile pushes profile changes to the backend and merges the same
// fields into the session store, so the local session reflects the update
// without a refetch.
func (u *Users) UpdateProfile(ctx context.Context, req UpdateProfileRequest) error {
	if _, err := u.client.Put(ctx, "/user/profile", req); err != nil {
		return err
	}

	partial := map[string]any{}
	if req.Nickname != "" {
		partial["nickname"] = req.Nickname
	}
	if req.Avatar != "" {
		partial["avatar"] = req.Avatar
	}
	if req.Bio != "" {
		partial["bio"] = req.Bio
	}
	if req.Email != "" {
		partial["email"] = req.Email
	}
	if len(partial) == 0 {
		return nil
	}
	return u.client.Session().UpdateUser(ctx, partial)
}

// Stats fetches the authenticated user's activity counters.
func (u *Users) Stats(ctx context.Context) (*UserStats, error) {
	env, err := u.client.Get(ctx, "/user/stats")
	if err != nil {
		return nil, err
	}
	var stats UserStats
	if err := env.DecodeData(&stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
