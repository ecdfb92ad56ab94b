package session

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/ydcloud-dy/leaf-client/storage"
)

type mockAuth struct {
	result    *AuthResult
	err       error
	loginReqs []any
	regReqs   []any
}

func (m *mockAuth) Login(_ context.Context, credentials any) (*AuthResult, error) {
	m.loginReqs = append(m.loginReqs, credentials)
	return m.result, m.err
}

func (m *mockAuth) Register(_ context.Context, credentials any) (*AuthResult, error) {
	m.regReqs = append(m.regReqs, credentials)
	return m.result, m.err
}

// envelopeError mimics the request layer's application error.
type envelopeError struct {
	message string
}

func (e *envelopeError) Error() string       { return e.message }
func (e *envelopeError) UserMessage() string { return e.message }

func newTestStore(t *testing.T) (*Store, *storage.Memory) {
	t.Helper()

	mem := storage.NewMemory()
	store, err := NewStore(mem)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return store, mem
}

func mustUser(t *testing.T, fields map[string]any) *User {
	t.Helper()

	u, err := NewUser(fields)
	if err != nil {
		t.Fatalf("NewUser failed: %v", err)
	}
	return u
}

func TestNewStoreRequiresStorage(t *testing.T) {
	if _, err := NewStore(nil); !errors.Is(err, ErrStorageRequired) {
		t.Fatalf("expected ErrStorageRequired, got %v", err)
	}
}

func TestLoginInstallsSessionAndPersists(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestStore(t)

	user := mustUser(t, map[string]any{"username": "a", "role": "admin"})
	store.SetAuthProvider(&mockAuth{result: &AuthResult{Token: "T1", User: user}})

	if err := store.Login(ctx, map[string]any{"user": "a", "pass": "b"}); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if store.Token() != "T1" {
		t.Fatalf("expected token T1, got %q", store.Token())
	}
	if !store.IsLoggedIn() {
		t.Fatal("expected logged-in session")
	}
	if !store.IsAdmin() {
		t.Fatal("expected admin projection")
	}
	if store.Username() != "a" {
		t.Fatalf("expected username a, got %q", store.Username())
	}

	tok, ok, err := mem.Get(ctx, KeyToken)
	if err != nil || !ok || tok != "T1" {
		t.Fatalf("expected persisted token T1, got %q ok=%v err=%v", tok, ok, err)
	}

	rawUser, ok, err := mem.Get(ctx, KeyUser)
	if err != nil || !ok {
		t.Fatalf("expected persisted user, ok=%v err=%v", ok, err)
	}
	var persisted User
	if err := json.Unmarshal([]byte(rawUser), &persisted); err != nil {
		t.Fatalf("persisted user does not parse: %v", err)
	}
	if persisted.Username() != "a" || persisted.Role() != "admin" {
		t.Fatalf("persisted user does not round-trip: %+v", persisted)
	}
}

func TestLoginFailureLeavesSessionUnchanged(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestStore(t)
	store.SetAuthProvider(&mockAuth{err: &envelopeError{message: "invalid credentials"}})

	err := store.Login(ctx, loginCreds("a", "bad"))
	var failure *AuthFailure
	if !errors.As(err, &failure) {
		t.Fatalf("expected *AuthFailure, got %v", err)
	}
	if failure.Message != "invalid credentials" {
		t.Fatalf("expected envelope message, got %q", failure.Message)
	}

	if store.IsLoggedIn() {
		t.Fatal("session must be unchanged on failure")
	}
	if mem.Len() != 0 {
		t.Fatalf("storage must be unchanged on failure, has %d keys", mem.Len())
	}
}

// loginCreds keeps the test call sites short; credentials are opaque to the store.
func loginCreds(user, pass string) map[string]string {
	return map[string]string{"username": user, "password": pass}
}

func TestFailureMessagePriority(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "envelope message first", err: &envelopeError{message: "nope"}, want: "nope"},
		{name: "generic error text second", err: errors.New("connection refused"), want: "connection refused"},
		{name: "fallback last", err: &envelopeError{message: ""}, want: "fallback"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := failureMessage(tc.err, "fallback"); got != tc.want {
				t.Fatalf("failureMessage = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFailureMessageEmptyEnvelopeFallsThrough(t *testing.T) {
	// An application error with an empty message should not shadow the error
	// text of a wrapped cause.
	if got := failureMessage(errors.New("boom"), "login failed"); got != "boom" {
		t.Fatalf("got %q", got)
	}
}

func TestRegisterInstallsSessionLikeLogin(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestStore(t)

	user := mustUser(t, map[string]any{"username": "newbie", "role": "user"})
	auth := &mockAuth{result: &AuthResult{Token: "T2", User: user}}
	store.SetAuthProvider(auth)

	if err := store.Register(ctx, map[string]string{"username": "newbie"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if len(auth.regReqs) != 1 || len(auth.loginReqs) != 0 {
		t.Fatal("Register must call the register collaborator")
	}
	if store.Token() != "T2" || store.Username() != "newbie" {
		t.Fatalf("unexpected session: token=%q username=%q", store.Token(), store.Username())
	}
	if mem.Len() != 2 {
		t.Fatalf("expected both keys persisted, got %d", mem.Len())
	}
}

func TestLoginWithoutProviderFails(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.Login(context.Background(), nil)
	var failure *AuthFailure
	if !errors.As(err, &failure) {
		t.Fatalf("expected *AuthFailure, got %v", err)
	}
	if !errors.Is(err, ErrNoAuthProvider) {
		t.Fatalf("expected ErrNoAuthProvider cause, got %v", failure.Err)
	}
}

func TestLogoutClearsSessionAndStorage(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestStore(t)

	user := mustUser(t, map[string]any{"username": "a"})
	store.SetAuthProvider(&mockAuth{result: &AuthResult{Token: "T1", User: user}})
	if err := store.Login(ctx, nil); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := store.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if store.IsLoggedIn() || store.User() != nil || store.Token() != "" {
		t.Fatal("expected empty session after logout")
	}
	if mem.Len() != 0 {
		t.Fatalf("expected empty storage after logout, got %d keys", mem.Len())
	}

	// Idempotent: a second logout ends in the same empty state.
	if err := store.Logout(ctx); err != nil {
		t.Fatalf("second Logout failed: %v", err)
	}
	if store.IsLoggedIn() || mem.Len() != 0 {
		t.Fatal("second logout must leave the same empty state")
	}
}

func TestInitializeHydratesPersistedSession(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestStore(t)

	if err := mem.Set(ctx, KeyToken, "T9"); err != nil {
		t.Fatal(err)
	}
	if err := mem.Set(ctx, KeyUser, `{"username":"a","role":"admin","avatar":"x.png","bio":"hi"}`); err != nil {
		t.Fatal(err)
	}

	if err := store.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if store.Token() != "T9" || !store.IsAdmin() || store.Avatar() != "x.png" {
		t.Fatalf("unexpected hydrated session: token=%q admin=%v", store.Token(), store.IsAdmin())
	}

	// Arbitrary fields survive hydration verbatim.
	bio, ok := store.User().Field("bio")
	if !ok || string(bio) != `"hi"` {
		t.Fatalf("expected bio field, got %q ok=%v", bio, ok)
	}
}

func TestInitializeRecoversFromCorruptUser(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestStore(t)

	if err := mem.Set(ctx, KeyToken, "T9"); err != nil {
		t.Fatal(err)
	}
	if err := mem.Set(ctx, KeyUser, "{not json"); err != nil {
		t.Fatal(err)
	}

	if err := store.Initialize(ctx); err != nil {
		t.Fatalf("Initialize must recover silently, got %v", err)
	}
	if store.IsLoggedIn() {
		t.Fatal("expected empty session after corruption recovery")
	}
	if mem.Len() != 0 {
		t.Fatalf("expected both keys discarded, got %d", mem.Len())
	}
}

func TestInitializeRecoversFromPartialState(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestStore(t)

	// Token without user: set/cleared-together invariant is broken.
	if err := mem.Set(ctx, KeyToken, "T9"); err != nil {
		t.Fatal(err)
	}

	if err := store.Initialize(ctx); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if store.IsLoggedIn() {
		t.Fatal("expected empty session for partial durable state")
	}
	if mem.Len() != 0 {
		t.Fatalf("expected partial state discarded, got %d keys", mem.Len())
	}
}

func TestInitializeEmptyStorage(t *testing.T) {
	store, _ := newTestStore(t)
	if err := store.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if store.IsLoggedIn() || store.User() != nil {
		t.Fatal("expected empty session")
	}
}

func TestUpdateUserMergesAndPersists(t *testing.T) {
	ctx := context.Background()
	store, mem := newTestStore(t)

	user := mustUser(t, map[string]any{"username": "a", "role": "user", "bio": "old"})
	store.SetAuthProvider(&mockAuth{result: &AuthResult{Token: "T1", User: user}})
	if err := store.Login(ctx, nil); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := store.UpdateUser(ctx, map[string]any{"bio": "new", "avatar": "y.png"}); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	got := store.User()
	if got.Username() != "a" || got.Avatar() != "y.png" {
		t.Fatalf("merge lost fields: username=%q avatar=%q", got.Username(), got.Avatar())
	}
	bio, _ := got.Field("bio")
	if string(bio) != `"new"` {
		t.Fatalf("expected overridden bio, got %s", bio)
	}

	rawUser, ok, err := mem.Get(ctx, KeyUser)
	if err != nil || !ok {
		t.Fatalf("expected re-persisted user, ok=%v err=%v", ok, err)
	}
	var persisted User
	if err := json.Unmarshal([]byte(rawUser), &persisted); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(persisted.FieldNames(), []string{"avatar", "bio", "role", "username"}) {
		t.Fatalf("unexpected persisted fields: %v", persisted.FieldNames())
	}
}

func TestUpdateUserWithoutUserFails(t *testing.T) {
	store, _ := newTestStore(t)
	if err := store.UpdateUser(context.Background(), map[string]any{"bio": "x"}); !errors.Is(err, ErrNoUser) {
		t.Fatalf("expected ErrNoUser, got %v", err)
	}
}

func TestProjectionsOnEmptySession(t *testing.T) {
	store, _ := newTestStore(t)
	if store.IsAdmin() || store.Username() != "" || store.Avatar() != "" {
		t.Fatal("projections of an empty session must be zero values")
	}
}
