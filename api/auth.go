package api

import (
	"context"
	"errors"

	leafclient "github.com/ydcloud-dy/leaf-client"
	"github.com/ydcloud-dy/leaf-client/session"
)

// LoginRequest matches the backend's login binding.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest matches the backend's register binding.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Nickname string `json:"nickname,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// authPayload is the data half of a successful login or register envelope.
type authPayload struct {
	Token string        `json:"token"`
	User  *session.User `json:"user"`
}

// Auth calls the backend authentication endpoints and satisfies
// session.AuthProvider, closing the loop between the session store and the
// request layer: the store authenticates through Auth, Auth goes through the
// client, the client reads its token from the store.
type Auth struct {
	client *leafclient.Client
}

func NewAuth(client *leafclient.Client) *Auth {
	return &Auth{client: client}
}

// Login posts credentials to /auth/login. Credentials are forwarded verbatim;
// callers usually pass a LoginRequest.
func (a *Auth) Login(ctx context.Context, credentials any) (*session.AuthResult, error) {
	return a.call(ctx, "/auth/login", credentials)
}

// Register posts credentials to /auth/register.
func (a *Auth) Register(ctx context.Context, credentials any) (*session.AuthResult, error) {
	return a.call(ctx, "/auth/register", credentials)
}

func (a *Auth) call(ctx context.Context, path string, credentials any) (*session.AuthResult, error) {
	env, err := a.client.Post(ctx, path, credentials)
	if err != nil {
		return nil, err
	}

	var payload authPayload
	if err := env.DecodeData(&payload); err != nil {
		return nil, err
	}
	if payload.Token == "" || payload.User == nil {
		return nil, errors.New("auth response missing token or user")
	}
	return &session.AuthResult{Token: payload.Token, User: payload.User}, nil
}
