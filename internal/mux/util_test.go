package mux

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cardtable-server/pkg/table"
)

func testMux() (*Mux, *table.Hub) {
	hub := table.NewHub(16)
	session := table.NewSession(hub, table.NewLobby(), table.NewIntake(), table.Options{})

	return NewMux("v1.2.3", session, hub), hub
}

func assertGet(t *testing.T, ts *httptest.Server, path string, respObj interface{}, statusCode int) {
	t.Helper()

	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Error(err)
		return
	}
	defer resp.Body.Close()

	if statusCode != resp.StatusCode {
		t.Errorf("expected status code %d, got %d", statusCode, resp.StatusCode)
		return
	}

	if respObj != nil {
		if err := json.NewDecoder(resp.Body).Decode(respObj); err != nil {
			t.Error(err)
		}
	}
}
