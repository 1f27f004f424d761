package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/life-maze/game/room"
	"github.com/wricardo/life-maze/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"LIFE Maze",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`LIFE Maze - MCP Interface

This is a thin client that proxies all requests to the LIFE maze server's REST API.

LIFE is a multiplayer maze race through ten life stages. Every room draws one seed;
level i of that room uses the maze generated from seed + i*1000.

AVAILABLE TOOLS:
- list_rooms: Active rooms with their players and whether the race has started
- server_stats: Room, player and connection counts
- list_levels: The level sequence with stage names and maze sizes
- preview_maze: Render the maze a room with a given seed plays on a level`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rooms",
		Description: "List active multiplayer rooms",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListRooms)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "server_stats",
		Description: "Show room, player and connection counts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleServerStats)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_levels",
		Description: "List the life-stage levels and their maze sizes",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListLevels)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "preview_maze",
		Description: "Render the maze that a room with the given seed plays on a level",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level": map[string]interface{}{
					"type":        "number",
					"description": "Level index, starting at 0",
				},
				"seed": map[string]interface{}{
					"type":        "number",
					"description": "Room seed (non-negative integer)",
				},
			},
			Required: []string{"level", "seed"},
		},
	}, c.handlePreviewMaze)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Rooms []room.Summary `json:"rooms"`
	}
	if err := c.apiCall(ctx, "GET", "/rooms", &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRooms(response.Rooms)), nil
}

func (c *Client) handleServerStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var stats service.ServerStats
	if err := c.apiCall(ctx, "GET", "/api/stats", &stats); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Rooms: %d (%d racing)\nPlayers: %d\nConnections: %d\n",
		stats.Rooms, stats.StartedRooms, stats.Players, stats.Connections)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Levels []service.LevelInfo `json:"levels"`
	}
	if err := c.apiCall(ctx, "GET", "/api/levels", &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatLevels(response.Levels)), nil
}

func (c *Client) handlePreviewMaze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	level, err := request.RequireInt("level")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	seed, err := request.RequireFloat("seed")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if seed != math.Trunc(seed) {
		return mcp.NewToolResultError("seed must be an integer"), nil
	}

	query := url.Values{}
	query.Set("seed", fmt.Sprintf("%d", int64(seed)))
	path := fmt.Sprintf("/api/levels/%d/maze?%s", level, query.Encode())

	var preview service.MazePreview
	if err := c.apiCall(ctx, "GET", path, &preview); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatPreview(&preview)), nil
}

// Formatting helpers

func formatRooms(rooms []room.Summary) string {
	if len(rooms) == 0 {
		return "No active rooms."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d active room(s):\n", len(rooms))
	for _, r := range rooms {
		status := "waiting"
		if r.GameStarted {
			status = "racing"
		}
		fmt.Fprintf(&b, "\n%s [%s] %d/%d players\n", r.RoomID, status, r.PlayerCount, r.MaxPlayers)
		for _, p := range r.Players {
			fmt.Fprintf(&b, "  - %s (%s)\n", p.Name, p.Color)
		}
	}
	return b.String()
}

func formatLevels(levels []service.LevelInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d levels:\n", len(levels))
	for _, l := range levels {
		fmt.Fprintf(&b, "%2d. %-22s age %-6s %dx%d\n", l.Index, l.StageName, l.AgeRange, l.MazeSize, l.MazeSize)
	}
	return b.String()
}

func formatPreview(p *service.MazePreview) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Level %d, room seed %d (level seed %d), %dx%d\n", p.Level, p.RoomSeed, p.LevelSeed, p.Size, p.Size)
	fmt.Fprintf(&b, "Shortest path to exit: %d steps, dead ends: %d\n\n", p.Stats.SolutionLength, p.Stats.DeadEnds)
	b.WriteString(p.ASCII)
	return b.String()
}
