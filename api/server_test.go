package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/wricardo/life-maze/game/config"
	"github.com/wricardo/life-maze/game/maze"
	"github.com/wricardo/life-maze/game/room"
	"github.com/wricardo/life-maze/game/service"
)

// MockLobbyService implements service.LobbyService for testing
type MockLobbyService struct {
	ListRoomsFunc   func(ctx context.Context) ([]room.Summary, error)
	StatsFunc       func(ctx context.Context) (*service.ServerStats, error)
	ListLevelsFunc  func(ctx context.Context) ([]service.LevelInfo, error)
	PreviewMazeFunc func(ctx context.Context, level int, roomSeed int64) (*service.MazePreview, error)
}

func (m *MockLobbyService) ListRooms(ctx context.Context) ([]room.Summary, error) {
	if m.ListRoomsFunc != nil {
		return m.ListRoomsFunc(ctx)
	}
	return []room.Summary{}, nil
}

func (m *MockLobbyService) Stats(ctx context.Context) (*service.ServerStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &service.ServerStats{}, nil
}

func (m *MockLobbyService) ListLevels(ctx context.Context) ([]service.LevelInfo, error) {
	if m.ListLevelsFunc != nil {
		return m.ListLevelsFunc(ctx)
	}
	return []service.LevelInfo{}, nil
}

func (m *MockLobbyService) PreviewMaze(ctx context.Context, level int, roomSeed int64) (*service.MazePreview, error) {
	if m.PreviewMazeFunc != nil {
		return m.PreviewMazeFunc(ctx, level, roomSeed)
	}
	return &service.MazePreview{Level: level, RoomSeed: roomSeed}, nil
}

// fakeSockets records websocket hand-offs
type fakeSockets struct {
	calls int
}

func (f *fakeSockets) ServeWS(w http.ResponseWriter, r *http.Request) {
	f.calls++
	w.WriteHeader(http.StatusSwitchingProtocols)
}

func setupTestServer(t *testing.T, lobby service.LobbyService, opts Options) (*Server, *fakeSockets) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	opts.Logger = logger

	sockets := &fakeSockets{}
	return NewServer(lobby, sockets, opts), sockets
}

func doRequest(s http.Handler, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestNewServer(t *testing.T) {
	server, _ := setupTestServer(t, &MockLobbyService{}, Options{})

	if server == nil {
		t.Fatal("Expected server to be created")
	}
	if server.router == nil {
		t.Error("Expected router to be initialized")
	}
	if server.handler == nil {
		t.Error("Expected CORS handler to be initialized")
	}
}

func TestHandleListRooms(t *testing.T) {
	lobby := &MockLobbyService{
		ListRoomsFunc: func(ctx context.Context) ([]room.Summary, error) {
			return []room.Summary{{
				RoomID:      "r1",
				PlayerCount: 1,
				MaxPlayers:  5,
				Players:     []room.PlayerSummary{{Name: "Ann", Color: "0x4fc3f7"}},
			}}, nil
		},
	}
	server, _ := setupTestServer(t, lobby, Options{})

	for _, path := range []string{"/rooms", "/api/rooms"} {
		rec := doRequest(server, "GET", path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", path, rec.Code)
		}

		var response struct {
			Rooms []map[string]interface{} `json:"rooms"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(response.Rooms) != 1 {
			t.Fatalf("Expected 1 room, got %d", len(response.Rooms))
		}

		r := response.Rooms[0]
		if r["roomId"] != "r1" || r["playerCount"] != float64(1) || r["maxPlayers"] != float64(5) || r["gameStarted"] != false {
			t.Errorf("Unexpected room payload: %v", r)
		}
	}
}

func TestHandleListRooms_Error(t *testing.T) {
	lobby := &MockLobbyService{
		ListRoomsFunc: func(ctx context.Context) ([]room.Summary, error) {
			return nil, errors.New("hub stopped")
		},
	}
	server, _ := setupTestServer(t, lobby, Options{})

	rec := doRequest(server, "GET", "/rooms", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", rec.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	server, _ := setupTestServer(t, &MockLobbyService{}, Options{})

	rec := doRequest(server, "GET", "/rooms", map[string]string{"Origin": "http://game.example"})
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected Access-Control-Allow-Origin *, got %q", got)
	}

	restricted, _ := setupTestServer(t, &MockLobbyService{}, Options{AllowedOrigins: []string{"http://life.example"}})
	rec = doRequest(restricted, "GET", "/rooms", map[string]string{"Origin": "http://evil.example"})
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no CORS header for foreign origin, got %q", got)
	}
}

func TestHandleListLevels(t *testing.T) {
	lobby := &MockLobbyService{
		ListLevelsFunc: func(ctx context.Context) ([]service.LevelInfo, error) {
			return []service.LevelInfo{{Index: 0, StageName: "Start", AgeRange: "0-6", MazeSize: 20}}, nil
		},
	}
	server, _ := setupTestServer(t, lobby, Options{})

	rec := doRequest(server, "GET", "/api/levels", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response struct {
		Count  int                 `json:"count"`
		Levels []service.LevelInfo `json:"levels"`
	}
	json.NewDecoder(rec.Body).Decode(&response)
	if response.Count != 1 || response.Levels[0].MazeSize != 20 {
		t.Errorf("Unexpected response: %+v", response)
	}
}

func TestHandlePreviewMaze(t *testing.T) {
	levels, _ := config.NewManager("")
	lobby := service.NewLobbyService(nil, levels)
	server, _ := setupTestServer(t, lobby, Options{})

	t.Run("json", func(t *testing.T) {
		rec := doRequest(server, "GET", "/api/levels/9/maze?seed=77", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var preview service.MazePreview
		if err := json.NewDecoder(rec.Body).Decode(&preview); err != nil {
			t.Fatalf("Failed to decode preview: %v", err)
		}
		if preview.LevelSeed != 9077 || preview.Size != 12 {
			t.Errorf("Unexpected preview header: %+v", preview)
		}
		expected := maze.Generate(12, 9077)
		if preview.Maze.String() != expected.String() {
			t.Error("Preview maze does not match generator output")
		}
	})

	t.Run("ascii", func(t *testing.T) {
		rec := doRequest(server, "GET", "/api/levels/0/maze?seed=5&format=ascii", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rec.Code)
		}
		if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain") {
			t.Errorf("Expected text/plain, got %s", rec.Header().Get("Content-Type"))
		}
		if rec.Body.String() != maze.Generate(20, 5).String() {
			t.Error("ASCII body does not match generator output")
		}
	})

	errorCases := []struct {
		path   string
		status int
	}{
		{"/api/levels/0/maze", http.StatusBadRequest},
		{"/api/levels/0/maze?seed=abc", http.StatusBadRequest},
		{"/api/levels/0/maze?seed=-1", http.StatusBadRequest},
		{"/api/levels/10/maze?seed=1", http.StatusNotFound},
		{"/api/levels/x/maze?seed=1", http.StatusNotFound},
	}
	for _, tc := range errorCases {
		t.Run(tc.path, func(t *testing.T) {
			rec := doRequest(server, "GET", tc.path, nil)
			if rec.Code != tc.status {
				t.Errorf("Expected status %d, got %d", tc.status, rec.Code)
			}
		})
	}
}

func TestHandleAvatar(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i <= 4; i++ {
		if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("%d.jpg", i)), []byte{0xFF, 0xD8, byte(i)}, 0644); err != nil {
			t.Fatalf("Failed to write avatar: %v", err)
		}
	}
	// present on disk but outside the allow-list
	os.WriteFile(filepath.Join(dir, "6.jpg"), []byte{0xFF}, 0644)

	server, _ := setupTestServer(t, &MockLobbyService{}, Options{AssetsDir: dir})

	rec := doRequest(server, "GET", "/assets/images/3.jpg", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "image/jpeg" {
		t.Errorf("Expected image/jpeg, got %s", rec.Header().Get("Content-Type"))
	}
	if rec.Header().Get("Cache-Control") != "public, max-age=3600" {
		t.Errorf("Unexpected Cache-Control: %s", rec.Header().Get("Cache-Control"))
	}
	if rec.Body.Len() != 3 || rec.Body.Bytes()[2] != 3 {
		t.Error("Unexpected avatar body")
	}

	for _, path := range []string{"/assets/images/5.jpg", "/assets/images/6.jpg", "/assets/images/0.jpg", "/assets/images/../1.jpg", "/assets/images/1.png"} {
		rec := doRequest(server, "GET", path, nil)
		if rec.Code == http.StatusOK {
			t.Errorf("%s: expected failure, got 200", path)
		}
	}
}

func TestWebSocketRoutes(t *testing.T) {
	server, sockets := setupTestServer(t, &MockLobbyService{}, Options{})

	upgrade := map[string]string{
		"Connection":            "Upgrade",
		"Upgrade":               "websocket",
		"Sec-WebSocket-Version": "13",
		"Sec-WebSocket-Key":     "dGhlIHNhbXBsZSBub25jZQ==",
	}

	doRequest(server, "GET", "/ws", upgrade)
	doRequest(server, "GET", "/", upgrade)
	if sockets.calls != 2 {
		t.Errorf("Expected 2 websocket hand-offs, got %d", sockets.calls)
	}

	rec := doRequest(server, "GET", "/", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected plain GET / to be 404, got %d", rec.Code)
	}
	if sockets.calls != 2 {
		t.Error("Plain GET / must not reach the websocket handler")
	}
}

func TestHealthAndIndex(t *testing.T) {
	server, _ := setupTestServer(t, &MockLobbyService{}, Options{})

	if rec := doRequest(server, "GET", "/api/health", nil); rec.Code != http.StatusOK {
		t.Errorf("Expected health 200, got %d", rec.Code)
	}
	if rec := doRequest(server, "GET", "/api", nil); rec.Code != http.StatusOK {
		t.Errorf("Expected index 200, got %d", rec.Code)
	}
	if rec := doRequest(server, "GET", "/nope", nil); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestHandleStats(t *testing.T) {
	lobby := &MockLobbyService{
		StatsFunc: func(ctx context.Context) (*service.ServerStats, error) {
			return &service.ServerStats{Rooms: 2, Players: 3, Connections: 4}, nil
		},
	}
	server, _ := setupTestServer(t, lobby, Options{})

	rec := doRequest(server, "GET", "/api/stats", nil)
	var stats service.ServerStats
	json.NewDecoder(rec.Body).Decode(&stats)
	if stats.Rooms != 2 || stats.Players != 3 || stats.Connections != 4 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}
