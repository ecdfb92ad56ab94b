package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Storage keys for the persisted session. The token is stored raw; the user
// record is stored as its JSON serialization.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// AdminRole is the role value that grants the IsAdmin projection.
const AdminRole = "admin"

var (
	// ErrNoUser is returned by UpdateUser when no user is logged in. Merging a
	// profile update into an empty session indicates a programming mistake
	// upstream, so it is surfaced instead of silently producing a partial user.
	ErrNoUser = errors.New("no user in session")
	// ErrStorageRequired is returned by NewStore when storage is nil.
	ErrStorageRequired = errors.New("storage required")
	// ErrNoAuthProvider is returned by Login and Register before a provider is bound.
	ErrNoAuthProvider = errors.New("auth provider not bound")
)

// Storage is the durable key-value port behind the store. Implementations
// must tolerate Remove of an absent key.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// AuthResult is what an authentication collaborator returns on success.
type AuthResult struct {
	Token string
	User  *User
}

// AuthProvider is the external authentication collaborator. The credentials
// value is opaque to the store and forwarded verbatim. Failure errors that
// expose a UserMessage() string (the request layer's application errors do)
// contribute the most specific failure message.
type AuthProvider interface {
	Login(ctx context.Context, credentials any) (*AuthResult, error)
	Register(ctx context.Context, credentials any) (*AuthResult, error)
}

// AuthFailure is the failure result of Login or Register. Message is the most
// specific human-readable text available: the application error's envelope
// message, then the generic error text, then a fixed fallback.
type AuthFailure struct {
	Message string
	Err     error
}

func (e *AuthFailure) Error() string { return e.Message }

func (e *AuthFailure) Unwrap() error { return e.Err }

// Store owns the current session and its durable persistence.
type Store struct {
	mu      sync.RWMutex
	storage Storage
	auth    AuthProvider
	token   string
	user    *User
}

// NewStore builds an empty store over the given storage. Call Initialize to
// hydrate a persisted session.
func NewStore(storage Storage) (*Store, error) {
	if storage == nil {
		return nil, ErrStorageRequired
	}
	return &Store{storage: storage}, nil
}

// SetAuthProvider binds the authentication collaborator. The provider usually
// sits on top of the request layer, which itself needs the store for token
// reads, so the binding happens after both are constructed.
func (s *Store) SetAuthProvider(p AuthProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = p
}

// Initialize hydrates the session from storage. Both keys present and the
// user record parseable: session installed. Anything else — a missing half or
// an unparsable user — is corrupt state, recovered silently by clearing both
// keys and leaving the session empty. The returned error reports storage I/O
// failures only, never corruption.
func (s *Store) Initialize(ctx context.Context) error {
	token, haveToken, err := s.storage.Get(ctx, KeyToken)
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	rawUser, haveUser, err := s.storage.Get(ctx, KeyUser)
	if err != nil {
		return fmt.Errorf("read user: %w", err)
	}

	if !haveToken && !haveUser {
		return nil
	}
	if !haveToken || !haveUser {
		return s.Logout(ctx)
	}

	var user User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return s.Logout(ctx)
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()
	return nil
}

// Login authenticates through the bound collaborator. On success the session
// holds exactly the returned token and user, both persisted before Login
// returns. On failure the session is unchanged and the error is an
// *AuthFailure carrying the display message.
func (s *Store) Login(ctx context.Context, credentials any) error {
	return s.authenticate(ctx, credentials, "login failed", AuthProvider.Login)
}

// Register creates an account through the collaborator and installs the
// session exactly as Login does.
func (s *Store) Register(ctx context.Context, credentials any) error {
	return s.authenticate(ctx, credentials, "register failed", AuthProvider.Register)
}

func (s *Store) authenticate(
	ctx context.Context,
	credentials any,
	fallback string,
	call func(AuthProvider, context.Context, any) (*AuthResult, error),
) error {
	s.mu.RLock()
	auth := s.auth
	s.mu.RUnlock()
	if auth == nil {
		return &AuthFailure{Message: fallback, Err: ErrNoAuthProvider}
	}

	result, err := call(auth, ctx, credentials)
	if err != nil {
		return &AuthFailure{Message: failureMessage(err, fallback), Err: err}
	}
	if result == nil || result.Token == "" || result.User == nil {
		return &AuthFailure{Message: fallback, Err: errors.New("incomplete auth result")}
	}

	if err := s.install(ctx, result.Token, result.User); err != nil {
		return &AuthFailure{Message: fallback, Err: err}
	}
	return nil
}

// install persists then swaps in the new session. Storage first, memory
// second: a crash in between leaves durable state that the next Initialize
// accepts, never a session that exists only in memory.
func (s *Store) install(ctx context.Context, token string, user *User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.storage.Set(ctx, KeyToken, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err := s.storage.Set(ctx, KeyUser, string(raw)); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.user = user.clone()
	s.mu.Unlock()
	return nil
}

// Logout clears the session and removes both persisted keys. Idempotent; the
// in-memory session is cleared even when storage removal fails.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	return errors.Join(
		s.storage.Remove(ctx, KeyToken),
		s.storage.Remove(ctx, KeyUser),
	)
}

// UpdateUser shallow-merges partial onto the current user record and
// re-persists it: fields present in partial override, fields absent are
// retained. Calling it with no user logged in returns ErrNoUser.
func (s *Store) UpdateUser(ctx context.Context, partial map[string]any) error {
	s.mu.RLock()
	current := s.user
	s.mu.RUnlock()
	if current == nil {
		return ErrNoUser
	}

	merged, err := current.merge(partial)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.storage.Set(ctx, KeyUser, string(raw)); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}

	s.mu.Lock()
	// Another update may have landed since the read; last write wins, same as
	// the storage layer underneath.
	s.user = merged
	s.mu.Unlock()
	return nil
}

// Token returns the current bearer token, "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current user record, nil when logged out.
func (s *Store) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.clone()
}

// IsLoggedIn reports whether a token is present.
func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// IsAdmin reports whether the current user's role is "admin".
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Role() == AdminRole
}

// Username returns the current user's username, "" when absent.
func (s *Store) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Username()
}

// Avatar returns the current user's avatar URL, "" when absent.
func (s *Store) Avatar() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Avatar()
}

// failureMessage picks the most specific display text for a failed login or
// register: the application error's own message, then the error text, then
// the fixed fallback.
func failureMessage(err error, fallback string) string {
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return fallback
}
