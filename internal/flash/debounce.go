package flash

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ResizeQuiet is the quiet period before a resize is applied.
const ResizeQuiet = 100 * time.Millisecond

// DebounceMsg fires after a quiet period; only the latest one is current.
type DebounceMsg struct {
	Tag string
	Seq uint64
}

// Debouncer coalesces bursts of events into one trailing message.
type Debouncer struct {
	tag   string
	delay time.Duration
	seq   uint64
}

func NewDebouncer(tag string, delay time.Duration) *Debouncer {
	return &Debouncer{tag: tag, delay: delay}
}

// Trigger records an event and schedules a trailing message.
func (d *Debouncer) Trigger() tea.Cmd {
	d.seq++
	msg := DebounceMsg{Tag: d.tag, Seq: d.seq}
	return tea.Tick(d.delay, func(time.Time) tea.Msg { return msg })
}

// Ready reports whether msg is the trailing message of the latest burst.
func (d *Debouncer) Ready(msg DebounceMsg) bool {
	return msg.Tag == d.tag && msg.Seq == d.seq
}
