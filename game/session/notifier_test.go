package session

import (
	"sync"

	"github.com/wricardo/quoridor-server/game/engine"
)

type event struct {
	kind      string
	code      string
	remaining int
	winner    int
	snap      *engine.Snapshot
}

// recorder is a Notifier that keeps every event and signals ticks
type recorder struct {
	mu     sync.Mutex
	events []event
	ticks  chan int
}

func newRecorder() *recorder {
	return &recorder{ticks: make(chan int, 128)}
}

func (r *recorder) BroadcastState(code string, snap *engine.Snapshot) {
	r.add(event{kind: "state", code: code, snap: snap})
}

func (r *recorder) BroadcastGameOver(code string, winner int) {
	r.add(event{kind: "game_over", code: code, winner: winner})
}

func (r *recorder) BroadcastTick(code string, remaining int) {
	r.add(event{kind: "tick", code: code, remaining: remaining})
	r.ticks <- remaining
}

func (r *recorder) add(e event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) count(kind string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.kind == kind {
			n++
		}
	}
	return n
}

func (r *recorder) last(kind string) (event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].kind == kind {
			return r.events[i], true
		}
	}
	return event{}, false
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
	for {
		select {
		case <-r.ticks:
		default:
			return
		}
	}
}
