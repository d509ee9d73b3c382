package call

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/AndrewKaranu/ScamShield/internal/scenario"
)

// Manager owns the live sessions and fans finished-call reports out to the
// registered sinks.
type Manager struct {
	registry *scenario.Registry
	deps     Deps
	log      *logrus.Entry

	mu       sync.Mutex
	sessions map[string]*Engine
	sinks    []func(Report)
}

// NewManager builds a manager over the given scenario registry. deps is the
// template every new engine is created from.
func NewManager(registry *scenario.Registry, deps Deps) *Manager {
	deps.fillDefaults()
	return &Manager{
		registry: registry,
		deps:     deps,
		log:      deps.Log,
		sessions: make(map[string]*Engine),
	}
}

// AddReportSink registers a callback for every finished call.
func (m *Manager) AddReportSink(fn func(Report)) {
	m.mu.Lock()
	m.sinks = append(m.sinks, fn)
	m.mu.Unlock()
}

// Create starts a new session. scenarioID may be empty for a call without a
// scripted persona.
func (m *Manager) Create(scenarioID string) (*Engine, error) {
	var persona *scenario.Persona
	if scenarioID != "" {
		p, err := m.registry.Get(scenarioID)
		if err != nil {
			return nil, err
		}
		persona = p
	}

	id := uuid.NewString()
	eng := New(id, persona, m.deps)
	eng.OnEnded(m.report)

	m.mu.Lock()
	m.sessions[id] = eng
	m.mu.Unlock()
	m.log.WithFields(logrus.Fields{"session": id, "scenario": scenarioID}).Info("session created")
	return eng, nil
}

// Get returns a live session by id.
func (m *Manager) Get(id string) (*Engine, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	eng, ok := m.sessions[id]
	return eng, ok
}

// Remove drops a session from the manager. The engine itself keeps working
// for anyone still holding it.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

func (m *Manager) report(r Report) {
	m.mu.Lock()
	sinks := make([]func(Report), len(m.sinks))
	copy(sinks, m.sinks)
	m.mu.Unlock()
	for _, fn := range sinks {
		fn(r)
	}
}
