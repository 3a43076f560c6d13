package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/quoridor-server/game/engine"
	"github.com/wricardo/quoridor-server/game/service"
	"github.com/wricardo/quoridor-server/game/session"
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
		baseURL: strings.TrimRight(baseURL, "/"),
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
		"Quoridor",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Quoridor - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Move your pawn to the far side of the 9x9 board before your opponent does.
Seat 0 starts at (4,0) and wins on row 8. Seat 1 starts at (4,8) and wins on row 0.

AVAILABLE TOOLS:
- create_room: Create a room and take seat 0 (returns code and token)
- join_room: Join a room by code and take seat 1 (returns token)
- list_rooms: List all live rooms
- get_room: Room details (seats, clock, path lengths)
- game_state: Board drawing plus the legal pawn moves for the player to move
- move_pawn: Move your pawn to a tile
- place_wall: Place a wall
- game_instructions: Full rules

Keep the token returned by create_room or join_room: every action needs it.`),
	)

	c.registerTools()
}

func codeProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Four character room code",
	}
}

func tokenProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Player token returned by create_room or join_room",
	}
}

func coordProperty(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"minimum":     0,
		"maximum":     engine.BoardSize - 1,
		"description": desc,
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Room management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_room",
		Description: "Create a new room with a turn timer and take seat 0",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"timer_duration": map[string]interface{}{
					"type":        "integer",
					"enum":        engine.TimerDurations,
					"description": "Seconds per turn (default 30)",
				},
			},
		},
	}, c.handleCreateRoom)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "join_room",
		Description: "Join an existing room and take the free seat",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"code": codeProperty(),
			},
			Required: []string{"code"},
		},
	}, c.handleJoinRoom)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rooms",
		Description: "List all live rooms",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListRooms)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_room",
		Description: "Get details of a specific room",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"code": codeProperty(),
			},
			Required: []string{"code"},
		},
	}, c.handleGetRoom)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Draw the board and list the legal pawn moves for the player to move",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"code": codeProperty(),
			},
			Required: []string{"code"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_pawn",
		Description: "Move your pawn one step, or jump over an adjacent opponent",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"code":  codeProperty(),
				"token": tokenProperty(),
				"x":     coordProperty("Target column (0-8)"),
				"y":     coordProperty("Target row (0-8)"),
			},
			Required: []string{"code", "token", "x", "y"},
		},
	}, c.handleMovePawn)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "place_wall",
		Description: "Place a two-tile wall anchored at (x, y). H blocks movement between rows y and y+1 for columns x and x+1; V blocks movement between columns x and x+1 for rows y and y+1.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"code":  codeProperty(),
				"token": tokenProperty(),
				"x":     coordProperty("Anchor column (0-7)"),
				"y":     coordProperty("Anchor row (0-7)"),
				"orientation": map[string]interface{}{
					"type":        "string",
					"enum":        []string{string(engine.Horizontal), string(engine.Vertical)},
					"description": "H for horizontal, V for vertical",
				},
			},
			Required: []string{"code", "token", "x", "y", "orientation"},
		},
	}, c.handlePlaceWall)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the full rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
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

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads an integer argument; JSON numbers arrive as float64
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	default:
		return 0, false
	}
}

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

// Tool handlers

func (c *Client) handleCreateRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	body := map[string]int{}
	if d, ok := intArg(args, "timer_duration"); ok {
		body["timer_duration"] = d
	}

	var joined service.JoinResult
	if err := c.apiCall(ctx, "POST", "/api/rooms", body, &joined); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatJoin("Created room", &joined)), nil
}

func (c *Client) handleJoinRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code := stringArg(arguments(request), "code")
	if code == "" {
		return mcp.NewToolResultError("code is required"), nil
	}

	var joined service.JoinResult
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/rooms/%s/join", code), nil, &joined); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatJoin("Joined room", &joined)), nil
}

func (c *Client) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int             `json:"count"`
		Rooms []*session.Info `json:"rooms"`
	}

	if err := c.apiCall(ctx, "GET", "/api/rooms", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Live Rooms (%d):\n\n", response.Count)
	for _, r := range response.Rooms {
		fmt.Fprintf(&b, "- %s (seats %d/2, %ds turns, clock %s, created %s)\n",
			r.Code, r.Seats, r.TimerDuration, r.ClockState, r.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code := stringArg(arguments(request), "code")

	var info session.Info
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/rooms/%s", code), nil, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRoomInfo(&info)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code := stringArg(arguments(request), "code")

	var view service.BoardView
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/rooms/%s/board", code), nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBoard(&view)), nil
}

func (c *Client) handleMovePawn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	code := stringArg(args, "code")
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required integers"), nil
	}

	body := map[string]interface{}{
		"token": stringArg(args, "token"),
		"x":     x,
		"y":     y,
	}

	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/rooms/%s/move", code), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(fmt.Sprintf("Move to (%d,%d)", x, y), &result)), nil
}

func (c *Client) handlePlaceWall(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	code := stringArg(args, "code")
	orientation := strings.ToUpper(stringArg(args, "orientation"))
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y are required integers"), nil
	}

	body := map[string]interface{}{
		"token":       stringArg(args, "token"),
		"x":           x,
		"y":           y,
		"orientation": orientation,
	}

	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/rooms/%s/wall", code), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(fmt.Sprintf("Wall %s at (%d,%d)", orientation, x, y), &result)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `Quoridor - Complete Instructions

GAME OBJECTIVE:
Be the first to move your pawn onto the opposite edge of the 9x9 board.
Seat 0 starts at (4,0) and must reach row 8. Seat 1 starts at (4,8) and must reach row 0.

COORDINATES:
x is the column (0-8, left to right), y is the row (0-8, top to bottom).

TURNS:
Players alternate. On your turn you either move your pawn or place a wall.
Each turn has a timer (15, 30 or 60 seconds). When it runs out your turn is skipped.

PAWN MOVES:
- Step one tile up, down, left or right, unless a wall is in the way.
- You cannot step onto your opponent.
- If your opponent is directly next to you with no wall between you, you may jump
  straight over them, provided no wall is behind them and the tile is on the board.
- If the straight jump is blocked by a wall or the board edge, you may instead jump
  diagonally to either side of your opponent, as long as no wall is between your
  opponent and that tile.

WALLS:
- Each player has 10 walls. A wall is two tiles long and anchored at (x, y), 0-7.
- H (horizontal) blocks movement between rows y and y+1 in columns x and x+1.
- V (vertical) blocks movement between columns x and x+1 in rows y and y+1.
- Walls cannot overlap or cross another wall.
- A wall may never cut either player off from their goal row.

WINNING:
The game ends the moment a pawn reaches its goal row. No further actions are accepted.

BOARD DRAWING:
Pawns are shown as 0 and 1, empty tiles as ".", vertical walls as "|",
horizontal walls as "---" and wall centers as "+".`

// Formatting helpers

func formatJoin(verb string, j *service.JoinResult) string {
	return fmt.Sprintf("%s: %s\nSeat: %d\nToken: %s\n", verb, j.Code, j.Seat, j.Token)
}

func formatRoomInfo(info *session.Info) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Room %s\n", info.Code)
	fmt.Fprintf(&b, "Seats: %d/2\n", info.Seats)
	fmt.Fprintf(&b, "Turn timer: %ds (clock %s, %ds left)\n", info.TimerDuration, info.ClockState, info.Remaining)
	fmt.Fprintf(&b, "Actions played: %d\n", info.Actions)
	for seat, d := range info.PathLengths {
		fmt.Fprintf(&b, "Seat %d shortest path: %d\n", seat, d)
	}
	if info.State != nil {
		b.WriteString(formatSnapshot(info.State))
	}
	return b.String()
}

func formatSnapshot(s *engine.Snapshot) string {
	var b strings.Builder
	if s.Winner != nil {
		fmt.Fprintf(&b, "Winner: seat %d\n", *s.Winner)
	} else {
		fmt.Fprintf(&b, "Turn: seat %d\n", s.Turn)
	}
	for seat, p := range s.Players {
		fmt.Fprintf(&b, "Seat %d at (%d,%d), %d walls left\n", seat, p.X, p.Y, p.WallsRemaining)
	}
	fmt.Fprintf(&b, "Walls placed: %d\n", len(s.Walls))
	return b.String()
}

func formatBoard(v *service.BoardView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Room %s\n\n%s\n", v.Code, v.Board)

	if v.Winner != nil {
		fmt.Fprintf(&b, "Game over: seat %d wins\n", *v.Winner)
		return b.String()
	}

	fmt.Fprintf(&b, "Turn: seat %d\n", v.Turn)
	for seat := range v.Walls {
		fmt.Fprintf(&b, "Seat %d: %d walls left, %d steps from goal\n", seat, v.Walls[seat], v.Paths[seat])
	}

	moves := make([]string, 0, len(v.LegalMoves))
	for _, p := range v.LegalMoves {
		moves = append(moves, fmt.Sprintf("(%d,%d)", p.X, p.Y))
	}
	fmt.Fprintf(&b, "Legal pawn moves: %s\n", strings.Join(moves, " "))
	return b.String()
}

func formatActionResult(what string, r *service.ActionResult) string {
	if !r.Accepted {
		return fmt.Sprintf("✗ %s rejected (illegal action or not your turn)\n", what)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "✓ %s accepted\n", what)
	if r.State != nil {
		b.WriteString(formatSnapshot(r.State))
	}
	return b.String()
}
