package model

// RemoveGuard is a two-step confirm: the first Trigger arms it, a second
// Trigger while armed confirms. Reset disarms without confirming.
type RemoveGuard struct {
	armed bool
}

// Trigger returns true when the guarded removal should happen now.
func (g *RemoveGuard) Trigger() bool {
	if g.armed {
		g.armed = false
		return true
	}
	g.armed = true
	return false
}

func (g *RemoveGuard) Reset()      { g.armed = false }
func (g *RemoveGuard) Armed() bool { return g.armed }
