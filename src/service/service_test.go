package service

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mosaicnetworks/murmur/src/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNode struct {
	stats map[string]string
	peers []string
}

func (f *fakeNode) GetStats() map[string]string { return f.stats }
func (f *fakeNode) GetPeers() []string          { return f.peers }

func get(t *testing.T, s *Service, path string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, rec.Code, "GET %s", path)

	return rec
}

func TestStats(t *testing.T) {
	n := &fakeNode{stats: map[string]string{"id": "n1", "state": "Running"}}
	s := NewService("127.0.0.1:0", n, common.NewTestEntry(t, common.TestLogLevel))

	rec := get(t, s, "/stats")

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.JSONEq(t, `{"id":"n1","state":"Running"}`, rec.Body.String())
}

func TestPeers(t *testing.T) {
	n := &fakeNode{}
	s := NewService("127.0.0.1:0", n, common.NewTestEntry(t, common.TestLogLevel))

	// before init
	assert.JSONEq(t, `[]`, get(t, s, "/peers").Body.String())

	n.peers = []string{"n1", "n2"}
	assert.JSONEq(t, `["n1","n2"]`, get(t, s, "/peers").Body.String())
}

func TestMetrics(t *testing.T) {
	s := NewService("127.0.0.1:0", &fakeNode{}, common.NewTestEntry(t, common.TestLogLevel))

	rec := get(t, s, "/metrics")
	assert.Contains(t, rec.Body.String(), "murmur_uptime_seconds")
}
