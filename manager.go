package ember

import (
	"sort"
	"sync"
)

// EffectManager is the registry of live effects. It is an explicit context
// object: the composition root creates one and passes it to whatever needs to
// register effects. Per-frame Update and Draw dispatch, and removal of
// finished effects, happen here.
//
// Add, Remove, and the per-frame snapshot are mutually exclusive because
// triggers originate from different logical call paths (a completion callback
// running inside Update may itself add a new effect).
type EffectManager struct {
	mu      sync.Mutex
	effects []Effect

	drawBuf []Effect
}

// NewEffectManager creates an empty effect registry.
func NewEffectManager() *EffectManager {
	return &EffectManager{}
}

// Add registers an effect without starting it.
func (m *EffectManager) Add(e Effect) {
	if e == nil {
		return
	}
	m.mu.Lock()
	m.effects = append(m.effects, e)
	m.mu.Unlock()
}

// Play registers an effect and starts it.
func (m *EffectManager) Play(e Effect) {
	if e == nil {
		return
	}
	m.Add(e)
	e.Start()
}

// Remove unregisters an effect and reports whether it was present.
// The effect is not stopped.
func (m *EffectManager) Remove(e Effect) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, live := range m.effects {
		if live == e {
			copy(m.effects[i:], m.effects[i+1:])
			m.effects[len(m.effects)-1] = nil
			m.effects = m.effects[:len(m.effects)-1]
			return true
		}
	}
	return false
}

// Count returns the number of registered effects.
func (m *EffectManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.effects)
}

// Update advances every registered effect by dt seconds, then removes
// effects that completed or were stopped. Iteration happens over a snapshot
// so an effect's callback may add or remove effects mid-update.
func (m *EffectManager) Update(dt float64) {
	m.mu.Lock()
	snapshot := make([]Effect, len(m.effects))
	copy(snapshot, m.effects)
	m.mu.Unlock()

	for _, e := range snapshot {
		e.Update(dt)
	}

	m.mu.Lock()
	kept := m.effects[:0]
	for _, e := range m.effects {
		switch e.State() {
		case EffectCompleted, EffectStopped:
			// dropped
		default:
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(m.effects); i++ {
		m.effects[i] = nil
	}
	m.effects = kept
	m.mu.Unlock()
}

// Draw renders every registered effect, ordered by layer band then priority.
func (m *EffectManager) Draw(r Renderer) {
	m.mu.Lock()
	m.drawBuf = append(m.drawBuf[:0], m.effects...)
	m.mu.Unlock()

	sort.SliceStable(m.drawBuf, func(i, j int) bool {
		a, b := m.drawBuf[i].Node(), m.drawBuf[j].Node()
		if a.Layer != b.Layer {
			return a.Layer < b.Layer
		}
		return a.Priority < b.Priority
	})
	for _, e := range m.drawBuf {
		if e.Node().Visible {
			e.Draw(r)
		}
	}
}

// StopAll stops every registered effect without removing it; the next Update
// sweeps the stopped effects out.
func (m *EffectManager) StopAll() {
	m.mu.Lock()
	snapshot := make([]Effect, len(m.effects))
	copy(snapshot, m.effects)
	m.mu.Unlock()

	for _, e := range snapshot {
		e.Stop()
	}
}

// Clear stops and unregisters every effect immediately.
func (m *EffectManager) Clear() {
	m.mu.Lock()
	snapshot := m.effects
	m.effects = nil
	m.drawBuf = nil
	m.mu.Unlock()

	for _, e := range snapshot {
		e.Stop()
	}
}
