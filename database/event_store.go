// database/event_store.go - PostgreSQL-backed event snapshot store
package database

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"triotag/models"
	"triotag/services"
)

const activeSettingKey = "active"

var _ services.Store = (*GormStore)(nil)

// GormStore persists event snapshots through gorm. Every Save rewrites all
// tables inside one transaction.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Snapshot is the row form of an EventState.
type Snapshot struct {
	Participants []models.ParticipantRecord
	Teams        []models.TeamRecord
	Members      []models.TeamMemberRecord
	SplitTimes   []models.SplitTimeRecord
	Setting      *models.SettingRecord
}

// ToSnapshot flattens state into rows.
func ToSnapshot(state *services.EventState) Snapshot {
	var snap Snapshot
	for i, p := range state.Roster {
		snap.Participants = append(snap.Participants, models.ParticipantRecord{
			ID: p.ID, Position: i, Name: p.Name, Gender: string(p.Gender),
		})
	}
	for _, w := range state.Waves {
		for pos, t := range w.Teams {
			snap.Teams = append(snap.Teams, models.TeamRecord{TeamID: t.TeamID, WaveID: w.WaveID, Position: pos})
			for mpos, m := range t.Members {
				snap.Members = append(snap.Members, models.TeamMemberRecord{
					TeamID: t.TeamID, Position: mpos, ParticipantID: m.ID, Name: m.Name, Gender: string(m.Gender),
				})
			}
		}
	}
	for _, st := range state.Ledger.Entries() {
		snap.SplitTimes = append(snap.SplitTimes, models.SplitTimeRecord{
			TeamID: st.TeamID, Station: st.Station, Seconds: st.Seconds,
		})
	}
	if !state.Active.IsZero() {
		a := state.Active.Clone()
		snap.Setting = &models.SettingRecord{Key: activeSettingKey, ActiveWaveID: a.WaveID, ActiveStation: a.Station}
	}
	return snap
}

// FromSnapshot rebuilds state from rows in any order.
func FromSnapshot(snap Snapshot) (*services.EventState, error) {
	state := services.NewEventState()

	participants := append([]models.ParticipantRecord(nil), snap.Participants...)
	sort.Slice(participants, func(i, j int) bool { return participants[i].Position < participants[j].Position })
	for _, r := range participants {
		state.Roster = append(state.Roster, models.Participant{ID: r.ID, Name: r.Name, Gender: models.Gender(r.Gender)})
	}

	members := append([]models.TeamMemberRecord(nil), snap.Members...)
	sort.Slice(members, func(i, j int) bool {
		if members[i].TeamID != members[j].TeamID {
			return members[i].TeamID < members[j].TeamID
		}
		return members[i].Position < members[j].Position
	})
	byTeam := make(map[int][]models.Participant)
	for _, m := range members {
		byTeam[m.TeamID] = append(byTeam[m.TeamID], models.Participant{
			ID: m.ParticipantID, Name: m.Name, Gender: models.Gender(m.Gender),
		})
	}

	teams := append([]models.TeamRecord(nil), snap.Teams...)
	sort.Slice(teams, func(i, j int) bool {
		if teams[i].WaveID != teams[j].WaveID {
			return teams[i].WaveID < teams[j].WaveID
		}
		return teams[i].Position < teams[j].Position
	})
	for _, t := range teams {
		n := len(state.Waves)
		if n == 0 || state.Waves[n-1].WaveID != t.WaveID {
			state.Waves = append(state.Waves, models.Wave{WaveID: t.WaveID})
			n++
		}
		state.Waves[n-1].Teams = append(state.Waves[n-1].Teams, models.Team{TeamID: t.TeamID, Members: byTeam[t.TeamID]})
	}

	for _, st := range snap.SplitTimes {
		if err := state.Ledger.Record(st.TeamID, st.Station, st.Seconds); err != nil {
			return nil, fmt.Errorf("split time for team %d: %w", st.TeamID, err)
		}
	}

	if snap.Setting != nil {
		state.Active = models.ActiveSetting{WaveID: snap.Setting.ActiveWaveID, Station: snap.Setting.ActiveStation}.Clone()
	}
	return state, nil
}

func (s *GormStore) Load(ctx context.Context) (*services.EventState, error) {
	db := s.db.WithContext(ctx)
	var snap Snapshot
	if err := db.Find(&snap.Participants).Error; err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}
	if err := db.Find(&snap.Teams).Error; err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}
	if err := db.Find(&snap.Members).Error; err != nil {
		return nil, fmt.Errorf("load team members: %w", err)
	}
	if err := db.Find(&snap.SplitTimes).Error; err != nil {
		return nil, fmt.Errorf("load split times: %w", err)
	}
	var setting models.SettingRecord
	err := db.Where("key = ?", activeSettingKey).First(&setting).Error
	switch {
	case err == nil:
		snap.Setting = &setting
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return FromSnapshot(snap)
}

func (s *GormStore) Save(ctx context.Context, state *services.EventState) error {
	snap := ToSnapshot(state)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, model := range []any{
			&models.SplitTimeRecord{},
			&models.TeamMemberRecord{},
			&models.TeamRecord{},
			&models.ParticipantRecord{},
			&models.SettingRecord{},
		} {
			if err := all.Delete(model).Error; err != nil {
				return err
			}
		}

		if len(snap.Participants) > 0 {
			if err := tx.CreateInBatches(&snap.Participants, 500).Error; err != nil {
				return err
			}
		}
		if len(snap.Teams) > 0 {
			if err := tx.CreateInBatches(&snap.Teams, 500).Error; err != nil {
				return err
			}
		}
		if len(snap.Members) > 0 {
			if err := tx.CreateInBatches(&snap.Members, 500).Error; err != nil {
				return err
			}
		}
		if len(snap.SplitTimes) > 0 {
			if err := tx.CreateInBatches(&snap.SplitTimes, 500).Error; err != nil {
				return err
			}
		}
		if snap.Setting != nil {
			if err := tx.Create(snap.Setting).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
