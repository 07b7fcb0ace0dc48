// Package flash drives per-entity flashing on the Bubble Tea loop.
//
// A flashing element owns one Handle in the Registry. Each running handle
// has exactly one tick in flight; the tick carries the handle's generation
// so that ticks scheduled before a Stop are recognized and dropped.
package flash

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Interval is the period between style alternations.
const Interval = 400 * time.Millisecond

// Phase is the visual state of a flashing element.
type Phase int

const (
	PhaseA Phase = iota // red on white
	PhaseB              // white on red
)

// TickMsg is delivered to Update when a flash timer fires.
type TickMsg struct {
	Key string
	Gen uint64
}

// Handle is the cancellable timer of one element.
type Handle struct {
	key     string
	gen     uint64
	running bool
	phase   Phase
}

func (h *Handle) Running() bool { return h.running }
func (h *Handle) Phase() Phase  { return h.phase }

// Registry tracks one handle per key, e.g. "group:<id>" or "item:<id>".
type Registry struct {
	interval time.Duration
	handles  map[string]*Handle
	gen      uint64
}

// NewRegistry returns an empty registry ticking every interval.
func NewRegistry(interval time.Duration) *Registry {
	if interval <= 0 {
		interval = Interval
	}
	return &Registry{interval: interval, handles: make(map[string]*Handle)}
}

// GroupKey and ItemKey build registry keys.
func GroupKey(id string) string { return "group:" + id }
func ItemKey(id string) string  { return "item:" + id }

func (r *Registry) tick(h *Handle) tea.Cmd {
	msg := TickMsg{Key: h.key, Gen: h.gen}
	return tea.Tick(r.interval, func(time.Time) tea.Msg { return msg })
}

// Start arms key. Starting a running handle is a no-op and returns nil.
func (r *Registry) Start(key string) tea.Cmd {
	if h, ok := r.handles[key]; ok && h.running {
		return nil
	}
	r.gen++
	h := &Handle{key: key, gen: r.gen, running: true, phase: PhaseA}
	r.handles[key] = h
	return r.tick(h)
}

// Stop disarms key. Stopping an unknown or stopped key is a no-op.
func (r *Registry) Stop(key string) {
	h, ok := r.handles[key]
	if !ok {
		return
	}
	h.running = false
	delete(r.handles, key)
}

// StopAll disarms every handle.
func (r *Registry) StopAll() {
	for k := range r.handles {
		r.Stop(k)
	}
}

// Phase reports the current phase of key and whether it is flashing.
func (r *Registry) Phase(key string) (Phase, bool) {
	h, ok := r.handles[key]
	if !ok || !h.running {
		return PhaseA, false
	}
	return h.phase, true
}

// Active is the number of running handles.
func (r *Registry) Active() int { return len(r.handles) }

// Handle advances the phase of the handle a tick belongs to and schedules
// the next tick. Ticks of stopped or replaced handles report false and
// schedule nothing.
func (r *Registry) Handle(msg TickMsg) (tea.Cmd, bool) {
	h, ok := r.handles[msg.Key]
	if !ok || !h.running || h.gen != msg.Gen {
		return nil, false
	}
	if h.phase == PhaseA {
		h.phase = PhaseB
	} else {
		h.phase = PhaseA
	}
	return r.tick(h), true
}

// Sync makes the running set equal to want: keys missing from want are
// stopped, new keys are started.
func (r *Registry) Sync(want map[string]bool) tea.Cmd {
	for k := range r.handles {
		if !want[k] {
			r.Stop(k)
		}
	}
	var cmds []tea.Cmd
	for k, on := range want {
		if on {
			if cmd := r.Start(k); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}
	return tea.Batch(cmds...)
}
