package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/notes-service/internal/api/dto"
)

func TestIssueTokenEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "u1", "pass12345")

	resp := env.request(t, http.MethodPost, "/auth/token", "",
		dto.TokenRequest{Username: "u1", Password: "pass12345"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tokens dto.TokenResponse
	decodeBody(t, resp, &tokens)
	require.NotEmpty(t, tokens.Access)
	require.NotEmpty(t, tokens.Refresh)

	// the issued access token works against a protected route
	resp = env.request(t, http.MethodGet, "/notes", tokens.Access, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestIssueTokenRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "u1", "pass12345")

	for _, req := range []dto.TokenRequest{
		{Username: "u1", Password: "wrong"},
		{Username: "nobody", Password: "pass12345"},
		{Username: "", Password: ""},
	} {
		resp := env.request(t, http.MethodPost, "/auth/token", "", req)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var body map[string]any
		decodeBody(t, resp, &body)
		require.Equal(t, "INVALID_CREDENTIALS", body["error"].(map[string]any)["code"])
	}
}

func TestRefreshEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "u1", "pass12345")

	resp := env.request(t, http.MethodPost, "/auth/token", "",
		dto.TokenRequest{Username: "u1", Password: "pass12345"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tokens dto.TokenResponse
	decodeBody(t, resp, &tokens)

	resp = env.request(t, http.MethodPost, "/auth/refresh", "",
		dto.RefreshRequest{Refresh: tokens.Refresh})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var refreshed dto.AccessTokenResponse
	decodeBody(t, resp, &refreshed)
	require.NotEmpty(t, refreshed.Access)

	resp = env.request(t, http.MethodGet, "/notes", refreshed.Access, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "u1", "pass12345")

	resp := env.request(t, http.MethodPost, "/auth/token", "",
		dto.TokenRequest{Username: "u1", Password: "pass12345"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tokens dto.TokenResponse
	decodeBody(t, resp, &tokens)

	resp = env.request(t, http.MethodPost, "/auth/refresh", "",
		dto.RefreshRequest{Refresh: tokens.Access})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body map[string]any
	decodeBody(t, resp, &body)
	require.Equal(t, "INVALID_TOKEN", body["error"].(map[string]any)["code"])
}
