package idam

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(apiURL string) *Client {
	return NewClient(Options{
		APIURL:       apiURL,
		WebURL:       "https://idam.example.com",
		ClientID:     "sscs_cor",
		ClientSecret: "someSecret",
		CallbackPath: "/idam-callback",
		Timeout:      time.Second,
	})
}

func TestClient_AuthorizeURL(t *testing.T) {
	client := newTestClient("https://idam-api.example.com")

	url := client.AuthorizeURL("http", "localhost:3000", "tya-number")
	assert.Equal(t, "https://idam.example.com/login"+
		"?redirect_uri=http%3A%2F%2Flocalhost%3A3000%2Fidam-callback"+
		"&client_id=sscs_cor"+
		"&response_type=code"+
		"&state=tya-number", url)

	// Identical inputs always produce a byte-identical URL
	assert.Equal(t, url, client.AuthorizeURL("http", "localhost:3000", "tya-number"))
}

func TestClient_RegisterURL(t *testing.T) {
	client := newTestClient("https://idam-api.example.com")

	assert.Equal(t, "https://idam.example.com/users/selfRegister"+
		"?redirect_uri=http%3A%2F%2Flocalhost%3A3000%2Fidam-callback"+
		"&client_id=sscs_cor", client.RegisterURL("http", "localhost:3000"))
}

func TestClient_GetToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.Equal(t, http.MethodPost, request.Method)
		require.Equal(t, "/oauth2/token", request.URL.Path)

		user, pass, ok := request.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "sscs_cor", user)
		assert.Equal(t, "someSecret", pass)

		require.NoError(t, request.ParseForm())
		assert.Equal(t, "authorization_code", request.PostForm.Get("grant_type"))
		assert.Equal(t, "someCode", request.PostForm.Get("code"))
		assert.Equal(t, "http://localhost:3000/idam-callback", request.PostForm.Get("redirect_uri"))

		writer.Header().Set("Content-Type", "application/json")
		json.NewEncoder(writer).Encode(map[string]string{
			"access_token": "someAccessToken",
			"token_type":   "Bearer",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	token, err := client.GetToken(context.Background(), "someCode", "http", "localhost:3000")
	require.NoError(t, err)
	assert.Equal(t, "someAccessToken", token)
}

func TestClient_GetToken_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetToken(context.Background(), "someCode", "http", "localhost:3000")
	require.Error(t, err)

	authErr := new(AuthError)
	assert.ErrorAs(t, err, &authErr)
}

func TestClient_GetUserDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.Equal(t, http.MethodGet, request.Method)
		require.Equal(t, "/details", request.URL.Path)
		assert.Equal(t, "Bearer someAccessToken", request.Header.Get("Authorization"))

		writer.Header().Set("Content-Type", "application/json")
		json.NewEncoder(writer).Encode(map[string]string{"email": "someEmail@example.com"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	details, err := client.GetUserDetails(context.Background(), "someAccessToken")
	require.NoError(t, err)
	assert.Equal(t, "someEmail@example.com", details.Email)
}

func TestClient_GetUserDetails_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.GetUserDetails(context.Background(), "someAccessToken")
	require.Error(t, err)

	authErr := new(AuthError)
	assert.ErrorAs(t, err, &authErr)
}

func TestClient_DeleteToken(t *testing.T) {
	called := 0
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		called++
		require.Equal(t, http.MethodDelete, request.Method)
		require.Equal(t, "/session/someAccessToken", request.URL.Path)
		writer.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	require.NoError(t, client.DeleteToken(context.Background(), "someAccessToken"))
	assert.Equal(t, 1, called)
}
