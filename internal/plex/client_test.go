package plex

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://plex.local:32400", "http://plex.local:32400/"},
		{"http://plex.local:32400/", "http://plex.local:32400/"},
		{"https://plex.example.com/base", "https://plex.example.com/base/"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeURL(tt.in))
		})
	}
}

func TestAccountID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    AccountID
		wantErr bool
	}{
		{name: "number", payload: `{"id": 42}`, want: "42"},
		{name: "string", payload: `{"id": "42"}`, want: "42"},
		{name: "large number", payload: `{"id": 9007199254740993}`, want: "9007199254740993"},
		{name: "object", payload: `{"id": {}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var account Account
			err := json.Unmarshal([]byte(tt.payload), &account)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, account.ID)
		})
	}
}

func TestAccountID_RoundTrip(t *testing.T) {
	// Numeric ids must compare equal to their string form after decode
	var a, b Account
	require.NoError(t, json.Unmarshal([]byte(`{"id": 7}`), &a))
	require.NoError(t, json.Unmarshal([]byte(`{"id": "7"}`), &b))
	assert.Equal(t, a.ID.String(), b.ID.String())
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-token")
}

func TestAccounts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts", r.URL.Path)
		assert.Equal(t, "test-token", r.Header.Get("X-Plex-Token"))
		w.Write([]byte(`[{"id": 1, "username": "a", "email": "a@x"}, {"id": "2", "username": "b", "email": "b@x"}]`))
	})

	accounts, err := client.Accounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, AccountID("1"), accounts[0].ID)
	assert.Equal(t, "a", accounts[0].Username)
	assert.Equal(t, AccountID("2"), accounts[1].ID)
}

func TestAccounts_NotASequence(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "maintenance"}`))
	})

	_, err := client.Accounts(context.Background())
	require.Error(t, err)

	var protoErr *ProtocolError
	assert.True(t, errors.As(err, &protoErr), "expected ProtocolError, got %T", err)
}

func TestAccounts_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	})

	_, err := client.Accounts(context.Background())
	require.Error(t, err)

	var protoErr *ProtocolError
	assert.True(t, errors.As(err, &protoErr), "expected ProtocolError, got %T", err)
}

func TestLibraries(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/library/sections", r.URL.Path)
		w.Write([]byte(`[{"key": "1", "title": "Movies", "type": "movie"}]`))
	})

	libraries, err := client.Libraries(context.Background())
	require.NoError(t, err)
	require.Len(t, libraries, 1)
	assert.Equal(t, "Movies", libraries[0].Title)
	assert.Equal(t, "movie", libraries[0].Type)
}

func TestAccount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/a@x", r.URL.Path)
		w.Write([]byte(`{"id": 1, "username": "a", "email": "a@x"}`))
	})

	account, err := client.Account(context.Background(), "a@x")
	require.NoError(t, err)
	assert.Equal(t, AccountID("1"), account.ID)
	assert.Equal(t, "a", account.Username)
}

func TestAccount_NotAnObject(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 1}]`))
	})

	_, err := client.Account(context.Background(), "a")
	require.Error(t, err)

	var protoErr *ProtocolError
	assert.True(t, errors.As(err, &protoErr), "expected ProtocolError, got %T", err)
}

func TestAccount_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.Account(context.Background(), "a")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %T", err)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestRemoveFriend(t *testing.T) {
	var gotMethod, gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
	})

	require.NoError(t, client.RemoveFriend(context.Background(), "5"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/friends/5", gotPath)
}

func TestRemoveHomeUser_NotFoundIsSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	require.NoError(t, client.RemoveHomeUser(context.Background(), "5"))
}

func TestRemoveFriend_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	})

	err := client.RemoveFriend(context.Background(), "5")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}
