package trakt

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *FileTokenStore) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store, err := NewFileTokenStore(filepath.Join(t.TempDir(), "token.json"))
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return &Client{
		clientID:     "client-id",
		clientSecret: "client-secret",
		baseURL:      server.URL,
		tokenStore:   store,
		httpClient:   server.Client(),
		logger:       logger,
	}, store
}

func TestFileTokenStore(t *testing.T) {
	_, err := NewFileTokenStore("")
	assert.Error(t, err)

	store, err := NewFileTokenStore(filepath.Join(t.TempDir(), "token.json"))
	require.NoError(t, err)

	_, err = store.GetToken()
	assert.ErrorIs(t, err, ErrNoToken)

	expires := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveToken(&Token{AccessToken: "a", RefreshToken: "r", ExpiresAt: expires}))

	token, err := store.GetToken()
	require.NoError(t, err)
	assert.Equal(t, "a", token.AccessToken)
	assert.Equal(t, "r", token.RefreshToken)
	assert.True(t, expires.Equal(token.ExpiresAt))
}

func TestAddToHistory(t *testing.T) {
	var got SyncHistoryRequest
	client, store := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/sync/history", r.URL.Path)
		assert.Equal(t, "2", r.Header.Get("trakt-api-version"))
		assert.Equal(t, "client-id", r.Header.Get("trakt-api-key"))
		assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"added":{"movies":1,"episodes":2},"not_found":{"movies":[],"episodes":[]}}`))
	})
	require.NoError(t, store.SaveToken(&Token{AccessToken: "access", RefreshToken: "refresh", ExpiresAt: time.Now().Add(30 * 24 * time.Hour)}))

	resp, err := client.AddToHistory(context.Background(), SyncHistoryRequest{
		Movies: []SyncMovie{{Title: "Amélie", WatchedAt: "2021-01-17T20:15:00.00Z", IDs: SyncIDs{TMDB: 194}}},
		Episodes: []SyncEpisode{
			{WatchedAt: "2021-02-05T20:15:00.00Z", IDs: SyncIDs{TMDB: 62092}},
			{WatchedAt: "2021-02-06T20:15:00.00Z", IDs: SyncIDs{TMDB: 62093}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Added.Movies)
	assert.Equal(t, 2, resp.Added.Episodes)
	assert.Equal(t, 3, got.Len())
	assert.Equal(t, 194, got.Movies[0].IDs.TMDB)
}

func TestAddToHistoryAPIError(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("unauthorized"))
	})

	_, err := client.AddToHistory(context.Background(), SyncHistoryRequest{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestRefreshTokenBeforeRequest(t *testing.T) {
	var refreshed bool
	client, store := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/token":
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "old-refresh", body["refresh_token"])
			assert.Equal(t, "refresh_token", body["grant_type"])
			refreshed = true
			w.Write([]byte(`{"access_token":"new-access","refresh_token":"new-refresh","expires_in":7776000}`))
		case "/sync/history":
			assert.Equal(t, "Bearer new-access", r.Header.Get("Authorization"))
			w.Write([]byte(`{"added":{"movies":0,"episodes":0}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	require.NoError(t, store.SaveToken(&Token{AccessToken: "old", RefreshToken: "old-refresh", ExpiresAt: time.Now().Add(time.Hour)}))

	_, err := client.AddToHistory(context.Background(), SyncHistoryRequest{})
	require.NoError(t, err)
	assert.True(t, refreshed)

	token, err := store.GetToken()
	require.NoError(t, err)
	assert.Equal(t, "new-access", token.AccessToken)
	assert.Equal(t, "new-refresh", token.RefreshToken)
}

func TestAuthenticate(t *testing.T) {
	polls := 0
	client, store := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/device/code":
			w.Write([]byte(`{"device_code":"dev","user_code":"ABCD","verification_url":"https://trakt.tv/activate","expires_in":600,"interval":1}`))
		case "/oauth/device/token":
			polls++
			if polls == 1 {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.Write([]byte(`{"access_token":"access","refresh_token":"refresh","expires_in":7776000}`))
		}
	})

	var url, code string
	err := client.Authenticate(context.Background(), func(verificationURL, userCode string) {
		url, code = verificationURL, userCode
	})
	require.NoError(t, err)
	assert.Equal(t, "https://trakt.tv/activate", url)
	assert.Equal(t, "ABCD", code)
	assert.Equal(t, 2, polls)
	assert.True(t, client.HasToken())

	token, err := store.GetToken()
	require.NoError(t, err)
	assert.Equal(t, "access", token.AccessToken)
}
