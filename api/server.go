package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/wricardo/quoridor-server/game/engine"
	"github.com/wricardo/quoridor-server/game/service"
	"github.com/wricardo/quoridor-server/game/session"
	"github.com/wricardo/quoridor-server/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service     service.GameService
	hub         *websocket.Hub
	router      *mux.Router
	allowOrigin func(origin string) bool
	logger      *zap.Logger
}

// Option configures a Server
type Option func(*Server)

// WithOriginPolicy sets the check used for CORS and websocket origins.
// The default allows every origin.
func WithOriginPolicy(allow func(origin string) bool) Option {
	return func(s *Server) {
		s.allowOrigin = allow
	}
}

// WithLogger sets the request logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new API server
func NewServer(gameService service.GameService, hub *websocket.Hub, opts ...Option) *Server {
	s := &Server{
		service:     gameService,
		hub:         hub,
		router:      mux.NewRouter(),
		allowOrigin: func(string) bool { return true },
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(s.logRequests)

	api := s.router.PathPrefix("/api").Subrouter()

	// Rooms
	api.HandleFunc("/rooms", s.handleCreateRoom).Methods("POST")
	api.HandleFunc("/rooms", s.handleListRooms).Methods("GET")
	api.HandleFunc("/rooms/{code}", s.handleGetRoom).Methods("GET")
	api.HandleFunc("/rooms/{code}", s.handleDeleteRoom).Methods("DELETE")
	api.HandleFunc("/rooms/{code}/join", s.handleJoinRoom).Methods("POST")

	// Match
	api.HandleFunc("/rooms/{code}/state", s.handleGetState).Methods("GET")
	api.HandleFunc("/rooms/{code}/board", s.handleGetBoard).Methods("GET")
	api.HandleFunc("/rooms/{code}/move", s.handleMove).Methods("POST")
	api.HandleFunc("/rooms/{code}/wall", s.handleWall).Methods("POST")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if origin := r.Header.Get("Origin"); origin != "" {
		if !s.allowOrigin(origin) {
			respondError(w, http.StatusForbidden, "origin not allowed")
			return
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Add("Vary", "Origin")
	}
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors onto status codes
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrRoomNotFound):
		respondError(w, http.StatusNotFound, "room not found")
	case errors.Is(err, session.ErrRoomFull):
		respondError(w, http.StatusConflict, "room is full")
	case errors.Is(err, session.ErrUnknownPlayer):
		respondError(w, http.StatusForbidden, "unknown player token")
	case errors.Is(err, engine.ErrInvalidTimerDuration):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// Room Handlers

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TimerDuration int `json:"timer_duration"`
	}

	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	joined, err := s.service.CreateMatch(r.Context(), req.TimerDuration)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, joined)
}

func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	joined, err := s.service.JoinMatch(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, joined)
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.service.ListMatches(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(rooms),
		"rooms": rooms,
	})
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.GetMatch(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteMatch(r.Context(), mux.Vars(r)["code"]); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Match Handlers

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GetState(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.GetBoard(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

type actionRequest struct {
	Token       string `json:"token"`
	X           *int   `json:"x"`
	Y           *int   `json:"y"`
	Orientation string `json:"orientation,omitempty"`
}

// decodeAction reads an action body and resolves its token to a seat
func (s *Server) decodeAction(w http.ResponseWriter, r *http.Request) (string, int, *actionRequest, bool) {
	code := mux.Vars(r)["code"]

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return "", 0, nil, false
	}
	if req.X == nil || req.Y == nil {
		respondError(w, http.StatusBadRequest, "x and y are required")
		return "", 0, nil, false
	}

	seat, err := s.service.Authorize(r.Context(), code, req.Token)
	if err != nil {
		respondServiceError(w, err)
		return "", 0, nil, false
	}

	return code, seat, &req, true
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	code, seat, req, ok := s.decodeAction(w, r)
	if !ok {
		return
	}

	result, err := s.service.SubmitMove(r.Context(), code, seat, *req.X, *req.Y)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleWall(w http.ResponseWriter, r *http.Request) {
	code, seat, req, ok := s.decodeAction(w, r)
	if !ok {
		return
	}

	result, err := s.service.SubmitWall(r.Context(), code, seat, *req.X, *req.Y, req.Orientation)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// WebSocket handler. The token decides which seat the connection plays.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	token := r.URL.Query().Get("token")
	if code == "" || token == "" {
		http.Error(w, "code and token parameters required", http.StatusBadRequest)
		return
	}

	seat, err := s.service.Authorize(r.Context(), code, token)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.hub.ServeWS(w, r, code, seat, s.service)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
