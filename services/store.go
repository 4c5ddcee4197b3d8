// services/store.go - Event state and its persistence boundary
package services

import (
	"context"
	"sync"

	"triotag/models"
)

// EventState is everything one event owns. It is only mutated on a clone held
// by the EventService write lock.
type EventState struct {
	Roster []models.Participant
	Waves  []models.Wave
	Ledger Ledger
	Active models.ActiveSetting
}

func NewEventState() *EventState {
	return &EventState{Ledger: NewLedger()}
}

func (s *EventState) Clone() *EventState {
	out := &EventState{
		Roster: append([]models.Participant(nil), s.Roster...),
		Ledger: s.Ledger.Clone(),
		Active: s.Active.Clone(),
	}
	if s.Waves != nil {
		out.Waves = make([]models.Wave, len(s.Waves))
		for i, w := range s.Waves {
			teams := make([]models.Team, len(w.Teams))
			for j, t := range w.Teams {
				teams[j] = models.Team{
					TeamID:  t.TeamID,
					Members: append([]models.Participant(nil), t.Members...),
				}
			}
			out.Waves[i] = models.Wave{WaveID: w.WaveID, Teams: teams}
		}
	}
	return out
}

// Store persists whole event snapshots. Save must replace the stored snapshot
// atomically: either every part of state is written or none is.
type Store interface {
	Load(ctx context.Context) (*EventState, error)
	Save(ctx context.Context, state *EventState) error
}

// MemoryStore keeps the last saved snapshot in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	state *EventState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) (*EventState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return NewEventState(), nil
	}
	return m.state.Clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, state *EventState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state.Clone()
	return nil
}
