package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	_ "github.com/vovakirdan/colormatch/internal/games/colormatch"
	"github.com/vovakirdan/colormatch/internal/storage"
)

type failingBoard struct{}

func (failingBoard) TopResults(string, int) ([]storage.Result, error) {
	return nil, errors.New("boom")
}

func (failingBoard) Stats(string) (storage.Stats, error) {
	return storage.Stats{}, errors.New("boom")
}

func newTestServer(t *testing.T, board Board) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New(board, log.New(io.Discard)).Router())
	t.Cleanup(ts.Close)
	return ts
}

func seededStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	for _, r := range []storage.Result{
		{GameID: "colormatch", Session: "a", Score: 40, Moves: 30},
		{GameID: "colormatch", Session: "b", Score: 228, Won: true, Moves: 12, TimeLeft: 54, TimeBonus: 108},
		{GameID: "colormatch", Session: "a", Score: 90, Moves: 24},
	} {
		_, err := store.SaveResult(r)
		require.NoError(t, err)
	}
	return store
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Contains(t, res.Header.Get("Content-Type"), "application/json")
	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, seededStore(t))

	var body map[string]string
	res := getJSON(t, ts.URL+"/healthz", &body)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "ok", body["status"])
}

func TestResultsOrderedByScore(t *testing.T) {
	ts := newTestServer(t, seededStore(t))

	var body resultsRes
	res := getJSON(t, ts.URL+"/api/games/colormatch/results", &body)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "colormatch", body.GameID)
	require.Len(t, body.Results, 3)
	require.Equal(t, 228, body.Results[0].Score)
	require.True(t, body.Results[0].Won)
	require.Equal(t, 108, body.Results[0].TimeBonus)
	require.Equal(t, 90, body.Results[1].Score)
	require.Equal(t, 40, body.Results[2].Score)
	require.NotEmpty(t, body.Results[0].RunID)
}

func TestResultsLimit(t *testing.T) {
	ts := newTestServer(t, seededStore(t))

	var body resultsRes
	res := getJSON(t, ts.URL+"/api/games/colormatch/results?limit=1", &body)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Len(t, body.Results, 1)
	require.Equal(t, 228, body.Results[0].Score)
}

func TestResultsBadLimit(t *testing.T) {
	ts := newTestServer(t, seededStore(t))

	for _, q := range []string{"abc", "0", "-3", "101"} {
		var body map[string]string
		res := getJSON(t, ts.URL+"/api/games/colormatch/results?limit="+q, &body)
		require.Equal(t, http.StatusBadRequest, res.StatusCode, "limit=%s", q)
		require.Equal(t, "bad_limit", body["error"])
	}
}

func TestUnknownGame(t *testing.T) {
	ts := newTestServer(t, seededStore(t))

	for _, path := range []string{"/api/games/tetris/results", "/api/games/tetris/stats"} {
		var body map[string]string
		res := getJSON(t, ts.URL+path, &body)
		require.Equal(t, http.StatusNotFound, res.StatusCode, path)
		require.Equal(t, "unknown_game", body["error"])
	}
}

func TestStats(t *testing.T) {
	ts := newTestServer(t, seededStore(t))

	var body statsRes
	res := getJSON(t, ts.URL+"/api/games/colormatch/stats", &body)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, 3, body.Games)
	require.Equal(t, 1, body.Wins)
	require.Equal(t, 228, body.BestScore)
	require.InDelta(t, 119.33, body.AvgScore, 0.01)
	require.InDelta(t, 22.0, body.AvgMoves, 0.01)
	require.NotNil(t, body.LastPlayed)
}

func TestStatsEmptyBoard(t *testing.T) {
	store, err := storage.Open()
	require.NoError(t, err)
	defer store.Close()
	ts := newTestServer(t, store)

	var body statsRes
	res := getJSON(t, ts.URL+"/api/games/colormatch/stats", &body)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Zero(t, body.Games)
	require.Nil(t, body.LastPlayed)
}

func TestBoardErrors(t *testing.T) {
	ts := newTestServer(t, failingBoard{})

	for _, path := range []string{"/api/games/colormatch/results", "/api/games/colormatch/stats"} {
		var body map[string]string
		res := getJSON(t, ts.URL+path, &body)
		require.Equal(t, http.StatusInternalServerError, res.StatusCode, path)
		require.Equal(t, "internal", body["error"])
	}
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t, seededStore(t))

	var body map[string]string
	res := getJSON(t, ts.URL+"/nope", &body)
	require.Equal(t, http.StatusNotFound, res.StatusCode)
	require.Equal(t, "not_found", body["error"])
}
