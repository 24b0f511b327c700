package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	users map[string]User
	next  int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]User)}
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (User, error) {
	user, ok := s.users[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (s *fakeUserStore) Create(_ context.Context, email, passwordHash, name string) (User, error) {
	s.next++
	user := User{
		ID:           fmt.Sprintf("user-%d", s.next),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	s.users[email] = user
	return user, nil
}

const testSecret = "test-secret"

func TestRegister_Success(t *testing.T) {
	service := NewService(newFakeUserStore(), testSecret)

	session, err := service.Register(context.Background(), "a@b.com", "Str0ngPassw0rd!", "Alice")
	require.NoError(t, err)
	require.Equal(t, "a@b.com", session.User.Email)
	require.Equal(t, "Alice", session.User.Name)
	require.NotEmpty(t, session.User.ID)
	require.NotEmpty(t, session.Token)

	claims, err := DecodeToken(session.Token, []byte(testSecret))
	require.NoError(t, err)
	require.Equal(t, session.User.ID, claims.UserID)
	require.Equal(t, "a@b.com", claims.Email)

	wantExp := time.Now().UTC().Add(30 * 24 * time.Hour).Unix()
	require.InDelta(t, wantExp, claims.Exp, 5)
}

func TestRegister_NormalizesEmail(t *testing.T) {
	store := newFakeUserStore()
	service := NewService(store, testSecret)

	session, err := service.Register(context.Background(), "  A@B.Com ", "Str0ngPassw0rd!", "")
	require.NoError(t, err)
	require.Equal(t, "a@b.com", session.User.Email)
}

func TestRegister_Validation(t *testing.T) {
	service := NewService(newFakeUserStore(), testSecret)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"missing email", "", "Str0ngPassw0rd!"},
		{"bad email shape", "not-an-email", "Str0ngPassw0rd!"},
		{"email with spaces", "a b@c.com", "Str0ngPassw0rd!"},
		{"short password", "a@b.com", "Sh0rt!"},
		{"no uppercase", "a@b.com", "weakpassword1"},
		{"no lowercase", "a@b.com", "WEAKPASSWORD1"},
		{"no digit", "a@b.com", "WeakPassword!"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Register(context.Background(), tc.email, tc.password, "")
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.NotEmpty(t, validationErr.Reason)
		})
	}
}

func TestRegister_OverlongEmail(t *testing.T) {
	service := NewService(newFakeUserStore(), testSecret)

	local := make([]byte, 250)
	for i := range local {
		local[i] = 'a'
	}
	_, err := service.Register(context.Background(), string(local)+"@b.com", "Str0ngPassw0rd!", "")

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestRegister_Conflict(t *testing.T) {
	service := NewService(newFakeUserStore(), testSecret)

	_, err := service.Register(context.Background(), "a@b.com", "Str0ngPassw0rd!", "")
	require.NoError(t, err)

	_, err = service.Register(context.Background(), "a@b.com", "An0therPassw0rd!", "")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_Success(t *testing.T) {
	store := newFakeUserStore()
	service := NewService(store, testSecret)

	registered, err := service.Register(context.Background(), "a@b.com", "Str0ngPassw0rd!", "")
	require.NoError(t, err)

	session, err := service.Login(context.Background(), "a@b.com", "Str0ngPassw0rd!")
	require.NoError(t, err)
	require.Equal(t, registered.User.ID, session.User.ID)

	claims, err := DecodeToken(session.Token, []byte(testSecret))
	require.NoError(t, err)
	require.Equal(t, registered.User.ID, claims.UserID)
}

// Unknown user and wrong password must be indistinguishable.
func TestLogin_InvalidCredentials(t *testing.T) {
	store := newFakeUserStore()
	service := NewService(store, testSecret)

	_, err := service.Register(context.Background(), "a@b.com", "Str0ngPassw0rd!", "")
	require.NoError(t, err)

	_, unknownErr := service.Login(context.Background(), "nobody@b.com", "Str0ngPassw0rd!")
	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)

	_, wrongErr := service.Login(context.Background(), "a@b.com", "Wr0ngPassword!!")
	require.ErrorIs(t, wrongErr, ErrInvalidCredentials)

	require.Equal(t, unknownErr, wrongErr)
}

func TestSession_NeverContainsHash(t *testing.T) {
	store := newFakeUserStore()
	service := NewService(store, testSecret)

	session, err := service.Register(context.Background(), "a@b.com", "Str0ngPassw0rd!", "")
	require.NoError(t, err)

	stored := store.users["a@b.com"].PasswordHash
	require.NotEmpty(t, stored)
	require.NotContains(t, session.Token, stored)
}

func TestWithTokenTTL(t *testing.T) {
	service := NewService(newFakeUserStore(), testSecret)
	service.WithTokenTTL(time.Hour)

	session, err := service.Register(context.Background(), "a@b.com", "Str0ngPassw0rd!", "")
	require.NoError(t, err)

	claims, err := DecodeToken(session.Token, []byte(testSecret))
	require.NoError(t, err)
	require.InDelta(t, time.Now().UTC().Add(time.Hour).Unix(), claims.Exp, 5)
}
