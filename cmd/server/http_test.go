package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nickyhof/FlatDB"
	"github.com/nickyhof/FlatDB/ps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHTTPServer(t *testing.T, authConfig *AuthConfig) *httptest.Server {
	t.Helper()
	storage := ps.NewMemoryStorage(ps.CSV)
	seedStorage(t, storage)

	server := NewServer(FlatDB.Open(storage), DefaultIdentity)
	server.authConfig = authConfig

	ts := httptest.NewServer(NewHTTPHandler(server))
	t.Cleanup(ts.Close)
	return ts
}

func postQuery(t *testing.T, ts *httptest.Server, body, token string) (*http.Response, Response) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/query", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestHTTPHealthz(t *testing.T) {
	ts := newTestHTTPServer(t, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestHTTPRequestIDEchoed(t *testing.T) {
	ts := newTestHTTPServer(t, nil)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "req-42")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "req-42", resp.Header.Get("X-Request-ID"))
}

func TestHTTPQuery(t *testing.T) {
	ts := newTestHTTPServer(t, nil)

	tests := []struct {
		name   string
		body   string
		status int
		typ    string
		errMsg string
	}{
		{"select", `{"query": "SELECT * FROM items"}`, http.StatusOK, "query", ""},
		{"insert", `{"query": "INSERT INTO items (id, value) VALUES ('3', 'three')"}`, http.StatusOK, "commit", ""},
		{"parse error", `{"query": "SELEKT 1"}`, http.StatusBadRequest, "", "query parsing error"},
		{"arity mismatch", `{"query": "INSERT INTO items (id) VALUES ('4', 'four')"}`, http.StatusBadRequest, "", "values"},
		{"missing table", `{"query": "SELECT * FROM nope"}`, http.StatusNotFound, "", "table not found"},
		{"bad body", `{"query":`, http.StatusBadRequest, "", "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, decoded := postQuery(t, ts, tt.body, "")
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.errMsg != "" {
				assert.False(t, decoded.Success)
				assert.Contains(t, decoded.Error, tt.errMsg)
				return
			}
			assert.True(t, decoded.Success, decoded.Error)
			assert.Equal(t, tt.typ, decoded.Type)
		})
	}
}

func TestHTTPQueryResult(t *testing.T) {
	ts := newTestHTTPServer(t, nil)

	_, decoded := postQuery(t, ts, `{"query": "SELECT value FROM items ORDER BY id DESC"}`, "")
	require.True(t, decoded.Success, decoded.Error)

	var qr QueryResponse
	require.NoError(t, json.Unmarshal(decoded.Result, &qr))
	assert.Equal(t, []string{"value"}, qr.Columns)
	assert.Equal(t, [][]string{{"two"}, {"one"}}, qr.Data)
	assert.Equal(t, 2, qr.RecordsRead)
}

func TestHTTPTables(t *testing.T) {
	ts := newTestHTTPServer(t, nil)

	resp, err := http.Get(ts.URL + "/tables")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	assert.Equal(t, "tables", decoded.Type)

	var tables TablesResponse
	require.NoError(t, json.Unmarshal(decoded.Result, &tables))
	assert.Equal(t, []string{"items"}, tables.Tables)
}

func TestHTTPBearerAuth(t *testing.T) {
	secret := "http-secret"
	ts := newTestHTTPServer(t, &AuthConfig{Enabled: true, JWTSecret: secret})

	resp, decoded := postQuery(t, ts, `{"query": "SELECT * FROM items"}`, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, decoded.Error, "authentication required")

	resp, _ = postQuery(t, ts, `{"query": "SELECT * FROM items"}`, createTestJWT(t, "other", "A", "a@example.com", time.Hour))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, decoded = postQuery(t, ts, `{"query": "SELECT * FROM items"}`, createTestJWT(t, secret, "A", "a@example.com", time.Hour))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decoded.Success, decoded.Error)

	tablesResp, err := http.Get(ts.URL + "/tables")
	require.NoError(t, err)
	tablesResp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, tablesResp.StatusCode)
}
