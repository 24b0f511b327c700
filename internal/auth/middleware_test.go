package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func runMiddleware(t *testing.T, authorization string) (*httptest.ResponseRecorder, *Identity) {
	t.Helper()

	var captured *Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity, ok := IdentityFrom(r.Context()); ok {
			captured = &identity
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/records", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	recorder := httptest.NewRecorder()

	Middleware(testSecret, next).ServeHTTP(recorder, req)
	return recorder, captured
}

func requireUnauthorized(t *testing.T, recorder *httptest.ResponseRecorder, reason string) {
	t.Helper()

	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Equal(t, reason, body["error"])
}

func TestMiddleware_MissingHeader(t *testing.T) {
	recorder, _ := runMiddleware(t, "")
	requireUnauthorized(t, recorder, "missing authorization token")
}

func TestMiddleware_MalformedHeader(t *testing.T) {
	recorder, _ := runMiddleware(t, "Basic abc123")
	requireUnauthorized(t, recorder, "invalid authorization format")
}

func TestMiddleware_GarbageToken(t *testing.T) {
	recorder, _ := runMiddleware(t, "Bearer not.a.token")
	requireUnauthorized(t, recorder, "invalid token")
}

func TestMiddleware_MissingExpiration(t *testing.T) {
	token, err := EncodeToken(Claims{UserID: "u1", Email: "a@b.com"}, []byte(testSecret))
	require.NoError(t, err)

	recorder, _ := runMiddleware(t, "Bearer "+token)
	requireUnauthorized(t, recorder, "missing expiration")
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	token, err := EncodeToken(Claims{
		UserID: "u1",
		Email:  "a@b.com",
		Exp:    time.Now().Add(-time.Minute).Unix(),
	}, []byte(testSecret))
	require.NoError(t, err)

	recorder, _ := runMiddleware(t, "Bearer "+token)
	requireUnauthorized(t, recorder, "token expired")
}

func TestMiddleware_ValidToken(t *testing.T) {
	token, err := EncodeToken(Claims{
		UserID: "u1",
		Email:  "a@b.com",
		Exp:    time.Now().Add(time.Hour).Unix(),
	}, []byte(testSecret))
	require.NoError(t, err)

	recorder, identity := runMiddleware(t, "Bearer "+token)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, identity)
	require.Equal(t, "u1", identity.UserID)
	require.Equal(t, "a@b.com", identity.Email)
}

func TestMiddleware_WrongSecret(t *testing.T) {
	token, err := EncodeToken(Claims{
		UserID: "u1",
		Email:  "a@b.com",
		Exp:    time.Now().Add(time.Hour).Unix(),
	}, []byte("other-secret"))
	require.NoError(t, err)

	recorder, _ := runMiddleware(t, "Bearer "+token)
	requireUnauthorized(t, recorder, "invalid token")
}

func TestIdentityFrom_EmptyContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := IdentityFrom(req.Context())
	require.False(t, ok)
}
