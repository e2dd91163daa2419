package ddapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestProcessMemoryMarker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Request-Id") == "" {
			t.Errorf("missing X-Request-Id header")
		}
		if got := r.URL.Query().Get("operatingSystem"); got != "Windows" {
			t.Errorf("operatingSystem = %q, want Windows", got)
		}
		w.Write([]byte(`{"value": 2437056}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	marker, err := c.ProcessMemoryMarker(context.Background(), "Windows")
	if err != nil {
		t.Fatalf("ProcessMemoryMarker: %v", err)
	}
	if marker.Value != 2437056 {
		t.Errorf("Value = %d, want 2437056", marker.Value)
	}
}

func TestNon200PropagatesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("invalid request"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.IntegrationVersion(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	var non200 *ErrHTTPNon200
	if !asErrHTTPNon200(err, &non200) {
		t.Fatalf("expected ErrHTTPNon200, got %v", err)
	}
	if non200.Body != "invalid request" {
		t.Errorf("Body = %q, want %q", non200.Body, "invalid request")
	}
}

func TestSubmitRunPostsPerSlotGameData(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(b, &gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	submission := map[string]interface{}{
		"playerId": 42,
		"gameData": map[string]interface{}{
			"skull1sAlive":     []int32{1, 2},
			"spiderEggsKilled": []int32{0, 1},
		},
	}

	c := New(srv.URL)
	if err := c.SubmitRun(context.Background(), submission); err != nil {
		t.Fatalf("SubmitRun: %v", err)
	}

	gameData, ok := gotBody["gameData"].(map[string]interface{})
	if !ok {
		t.Fatalf("gameData missing or wrong type in posted body: %+v", gotBody)
	}
	if _, ok := gameData["skull1sAlive"]; !ok {
		t.Errorf("posted body dropped skull1sAlive: %+v", gameData)
	}
	if _, ok := gameData["spiderEggsKilled"]; !ok {
		t.Errorf("posted body dropped spiderEggsKilled: %+v", gameData)
	}
}

func asErrHTTPNon200(err error, target **ErrHTTPNon200) bool {
	e, ok := err.(*ErrHTTPNon200)
	if !ok {
		return false
	}
	*target = e
	return true
}

func TestCustomLeaderboardExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL)
	var hash [16]byte
	exists, err := c.CustomLeaderboardExists(context.Background(), hash)
	if err != nil {
		t.Fatalf("CustomLeaderboardExists: %v", err)
	}
	if !exists {
		t.Errorf("expected exists = true")
	}
}
