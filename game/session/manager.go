package session

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"sync"
	"time"

	bclock "github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/wricardo/quoridor-server/game/engine"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room full")
	ErrUnknownPlayer = errors.New("unknown player")
)

const (
	// CodeLength is the number of characters in a room code
	CodeLength = 4

	codeAlphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxCodeAttempts = 100
)

// Manager is the registry of live rooms keyed by code
type Manager struct {
	sessions map[string]*Session
	clk      bclock.Clock
	notifier Notifier
	logger   *zap.Logger
	timer    int
	mu       sync.RWMutex
}

// Option configures a Manager
type Option func(*Manager)

// WithClock sets the time source used for turn clocks and timestamps
func WithClock(clk bclock.Clock) Option {
	return func(m *Manager) {
		m.clk = clk
	}
}

// WithNotifier sets the receiver of room events
func WithNotifier(n Notifier) Option {
	return func(m *Manager) {
		m.notifier = n
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithDefaultTimer sets the turn length used when Create is given zero
func WithDefaultTimer(seconds int) Option {
	return func(m *Manager) {
		m.timer = seconds
	}
}

// NewManager creates an empty registry
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		clk:      bclock.New(),
		notifier: nopNotifier{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.notifier == nil {
		m.notifier = nopNotifier{}
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	return m
}

// Create starts a room with a fresh match and binds seat 0 for its creator.
// A zero timer duration selects the default.
func (m *Manager) Create(timerDuration int) (*Session, int, string, error) {
	if timerDuration == 0 {
		timerDuration = m.timer
	}
	match, err := engine.NewMatch(timerDuration)
	if err != nil {
		return nil, 0, "", err
	}

	m.mu.Lock()
	code, err := m.generateCode()
	if err != nil {
		m.mu.Unlock()
		return nil, 0, "", err
	}
	sess := newSession(code, match, m.clk, m.notifier, m.logger)
	// Seat 0 belongs to the creator before anyone can look the room up
	seat, token, err := sess.bind()
	if err != nil {
		m.mu.Unlock()
		return nil, 0, "", err
	}
	m.sessions[code] = sess
	m.mu.Unlock()

	m.logger.Info("room created", zap.String("code", code), zap.Int("timer_duration", match.TimerDuration()))
	return sess, seat, token, nil
}

// Join binds the next free seat of the room with the given code
func (m *Manager) Join(code string) (*Session, int, string, error) {
	sess, err := m.Get(code)
	if err != nil {
		return nil, 0, "", err
	}

	seat, token, err := sess.bind()
	if err != nil {
		return nil, 0, "", err
	}
	return sess, seat, token, nil
}

// Get looks up a room. Codes are matched case-insensitively.
func (m *Manager) Get(code string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[NormalizeCode(code)]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return sess, nil
}

// List returns all live rooms ordered by creation time
func (m *Manager) List() []*Session {
	m.mu.RLock()
	result := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		result = append(result, sess)
	}
	m.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].Code < result[j].Code
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Delete destroys a room and cancels its clock
func (m *Manager) Delete(code string) error {
	m.mu.Lock()
	key := NormalizeCode(code)
	sess, ok := m.sessions[key]
	if ok {
		delete(m.sessions, key)
	}
	m.mu.Unlock()

	if !ok {
		return ErrRoomNotFound
	}
	sess.close()
	m.logger.Info("room destroyed", zap.String("code", sess.Code))
	return nil
}

// CleanupExpiredSessions destroys rooms that have not been joined or played
// in for maxAge and returns how many were removed.
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	cutoff := m.clk.Now().Add(-maxAge)

	m.mu.Lock()
	var expired []*Session
	for code, sess := range m.sessions {
		if sess.LastAccessedAt().Before(cutoff) {
			delete(m.sessions, code)
			expired = append(expired, sess)
		}
	}
	m.mu.Unlock()

	for _, sess := range expired {
		sess.close()
		m.logger.Info("idle room reaped", zap.String("code", sess.Code))
	}
	return len(expired)
}

// Count returns the number of live rooms
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close destroys every room
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
	}
}

// generateCode returns an unused room code. Caller must hold m.mu.
func (m *Manager) generateCode() (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := randomCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate room code: %w", err)
		}
		if _, exists := m.sessions[code]; !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate room code: %d collisions", maxCodeAttempts)
}

func randomCode() (string, error) {
	var b strings.Builder
	limit := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < CodeLength; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// NormalizeCode returns the canonical form rooms are keyed and broadcast under
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
