// services/event_service.go - Event coordinator: roster, teams, ledger, leaderboard
package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"triotag/models"
)

// EventService owns one event's state. Mutations are serialized by a single
// lock and are applied to a clone that replaces the live state only after the
// store accepted it, so a rejected operation leaves nothing half-applied.
// Queries share the read lock and never fail on empty state.
type EventService struct {
	mu       sync.RWMutex
	state    *EventState
	store    Store
	rng      *rand.Rand
	waveSize int
	log      zerolog.Logger
	metrics  *Metrics
	newID    func() string
}

type Options struct {
	// WaveSize is the number of teams per wave. Defaults to DefaultWaveSize.
	WaveSize int
	// Rand drives team shuffling. Defaults to a time-seeded PCG source.
	Rand    *rand.Rand
	Logger  *zerolog.Logger
	Metrics *Metrics
}

func NewEventService(store Store, opts Options) *EventService {
	if opts.WaveSize <= 0 {
		opts.WaveSize = DefaultWaveSize
	}
	if opts.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		opts.Rand = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &EventService{
		state:    NewEventState(),
		store:    store,
		rng:      opts.Rand,
		waveSize: opts.WaveSize,
		log:      logger.With().Str("component", "event_service").Logger(),
		metrics:  opts.Metrics,
		newID:    uuid.NewString,
	}
}

// Load replaces the in-memory state with the store's snapshot.
func (s *EventService) Load(ctx context.Context) error {
	state, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load event state: %w", err)
	}
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.metrics.observeState(state)
	s.log.Info().
		Int("participants", len(state.Roster)).
		Int("waves", len(state.Waves)).
		Int("split_times", state.Ledger.Count()).
		Msg("event state loaded")
	return nil
}

func (s *EventService) mutate(ctx context.Context, op string, fn func(next *EventState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	if err := fn(next); err != nil {
		s.metrics.rejectedOp(op, err)
		s.log.Warn().Err(err).Str("op", op).Msg("operation rejected")
		return err
	}
	if err := s.store.Save(ctx, next); err != nil {
		s.metrics.rejectedOp(op, err)
		s.log.Error().Err(err).Str("op", op).Msg("failed to persist event state")
		return fmt.Errorf("persist event state: %w", err)
	}
	s.state = next
	s.metrics.observeState(next)
	return nil
}

// ================== ROSTER ==================

type RosterSummary struct {
	Total        int                  `json:"total"`
	Males        int                  `json:"males"`
	Females      int                  `json:"females"`
	Participants []models.Participant `json:"participants"`
}

func summarize(roster []models.Participant) RosterSummary {
	sum := RosterSummary{
		Total:        len(roster),
		Participants: append([]models.Participant{}, roster...),
	}
	for _, p := range roster {
		if p.Gender == models.GenderMale {
			sum.Males++
		} else {
			sum.Females++
		}
	}
	return sum
}

func (s *EventService) toParticipant(row models.RosterRow) (models.Participant, error) {
	name := strings.TrimSpace(row.Name)
	if name == "" {
		return models.Participant{}, fmt.Errorf("name is required")
	}
	gender, err := models.ParseGender(row.Gender)
	if err != nil {
		return models.Participant{}, err
	}
	return models.Participant{ID: s.newID(), Name: name, Gender: gender}, nil
}

// UploadRoster replaces the roster. A single invalid row rejects the whole
// batch. Generated teams, split times and the active setting all reference the
// previous roster and are cleared with it.
func (s *EventService) UploadRoster(ctx context.Context, rows []models.RosterRow) (RosterSummary, error) {
	var sum RosterSummary
	err := s.mutate(ctx, "upload_roster", func(next *EventState) error {
		if len(rows) == 0 {
			return validationErrorf("no valid participants found")
		}
		roster := make([]models.Participant, 0, len(rows))
		for i, row := range rows {
			p, err := s.toParticipant(row)
			if err != nil {
				return validationErrorf("%s: %v", row.Where(i), err)
			}
			roster = append(roster, p)
		}

		next.Roster = roster
		next.Waves = nil
		next.Ledger.Clear()
		next.Active = models.ActiveSetting{}
		sum = summarize(roster)
		return nil
	})
	if err != nil {
		return RosterSummary{}, err
	}

	s.metrics.rosterUploaded()
	s.log.Info().Int("total", sum.Total).Int("males", sum.Males).Int("females", sum.Females).Msg("roster uploaded")
	return sum, nil
}

// Summary reports the current roster counts regardless of generation state.
func (s *EventService) Summary(ctx context.Context) RosterSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return summarize(s.state.Roster)
}

// ================== TEAMS & WAVES ==================

type RecordedTime struct {
	TimeStr      string `json:"time_str"`
	TotalSeconds int    `json:"total_seconds"`
}

type TeamView struct {
	TeamID       int                     `json:"team_id"`
	WaveID       int                     `json:"wave_id"`
	Members      []models.Member         `json:"members"`
	StationTimes map[string]RecordedTime `json:"station_times"`
}

type WaveView struct {
	WaveID  int        `json:"wave_id"`
	TeamIDs []int      `json:"team_ids"`
	Teams   []TeamView `json:"teams"`
}

type GenerateSummary struct {
	Message        string          `json:"message"`
	Mode           GenerationMode  `json:"mode"`
	TeamsCount     int             `json:"teams_count"`
	WavesCount     int             `json:"waves_count"`
	BalancedTeams  int             `json:"balanced_teams"`
	Unassigned     []models.Member `json:"unassigned"`
	DiscardedTimes int             `json:"discarded_times"`
	Waves          []WaveView      `json:"waves"`
}

func teamView(t models.Team, waveID int, ledger Ledger) TeamView {
	times := make(map[string]RecordedTime)
	for _, st := range ledger.TimesFor(t.TeamID) {
		times[st.Station] = RecordedTime{TimeStr: FormatSeconds(st.Seconds), TotalSeconds: st.Seconds}
	}
	return TeamView{
		TeamID:       t.TeamID,
		WaveID:       waveID,
		Members:      models.MembersOf(t.Members),
		StationTimes: times,
	}
}

func waveViews(state *EventState) []WaveView {
	views := make([]WaveView, 0, len(state.Waves))
	for _, w := range state.Waves {
		teams := make([]TeamView, 0, len(w.Teams))
		for _, t := range w.Teams {
			teams = append(teams, teamView(t, w.WaveID, state.Ledger))
		}
		views = append(views, WaveView{WaveID: w.WaveID, TeamIDs: w.TeamIDs(), Teams: teams})
	}
	return views
}

// GenerateTeams replaces all waves and teams. Split times and the active
// setting refer to the old team ids and are cleared; the number of discarded
// times is reported in the summary.
func (s *EventService) GenerateTeams(ctx context.Context, rawMode string) (GenerateSummary, error) {
	var sum GenerateSummary
	err := s.mutate(ctx, "generate_teams", func(next *EventState) error {
		mode, err := ParseGenerationMode(rawMode)
		if err != nil {
			return err
		}
		res, err := GenerateWaves(next.Roster, mode, s.waveSize, s.rng)
		if err != nil {
			return err
		}

		discarded := next.Ledger.Count()
		next.Waves = res.Waves
		next.Ledger.Clear()
		next.Active = models.ActiveSetting{}

		sum = GenerateSummary{
			Message:        describeGeneration(res),
			Mode:           mode,
			TeamsCount:     models.CountTeams(res.Waves),
			WavesCount:     len(res.Waves),
			BalancedTeams:  res.Balanced,
			Unassigned:     models.MembersOf(res.Unassigned),
			DiscardedTimes: discarded,
			Waves:          waveViews(next),
		}
		return nil
	})
	if err != nil {
		return GenerateSummary{}, err
	}

	s.metrics.generated(sum.Mode)
	s.log.Info().
		Str("mode", string(sum.Mode)).
		Int("teams", sum.TeamsCount).
		Int("waves", sum.WavesCount).
		Int("unassigned", len(sum.Unassigned)).
		Int("discarded_times", sum.DiscardedTimes).
		Msg("teams generated")
	return sum, nil
}

// ListWaves returns every wave with its teams and their recorded times.
func (s *EventService) ListWaves(ctx context.Context) []WaveView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return waveViews(s.state)
}

// ListTeams returns all teams in generation order.
func (s *EventService) ListTeams(ctx context.Context) []TeamView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var teams []TeamView
	for _, w := range s.state.Waves {
		for _, t := range w.Teams {
			teams = append(teams, teamView(t, w.WaveID, s.state.Ledger))
		}
	}
	if teams == nil {
		teams = []TeamView{}
	}
	return teams
}

// EditTeam replaces the members of one team, keeping its id, wave and split
// times. Rows are matched against the whole roster by name and gender: a
// current member stays, an unassigned participant is pulled in, and anyone
// already on another team is rejected. Unknown rows become new participants
// and take the roster place of a displaced member; displaced members who are
// not replaced that way stay on the roster unassigned.
func (s *EventService) EditTeam(ctx context.Context, teamID int, rows []models.RosterRow) (TeamView, error) {
	var view TeamView
	err := s.mutate(ctx, "edit_team", func(next *EventState) error {
		if len(rows) != models.TeamSize {
			return validationErrorf("a team needs exactly %d members, got %d", models.TeamSize, len(rows))
		}
		t, waveID := findTeamRef(next.Waves, teamID)
		if t == nil {
			return notFoundErrorf("team %d not found", teamID)
		}

		owner := make(map[string]int)
		for _, w := range next.Waves {
			for _, team := range w.Teams {
				for _, m := range team.Members {
					owner[m.ID] = team.TeamID
				}
			}
		}

		members := make([]models.Participant, len(rows))
		used := make(map[string]bool)
		seen := make(map[memberKey]int)
		var fresh []int
		for i, row := range rows {
			p, err := s.toParticipant(row)
			if err != nil {
				return validationErrorf("member %d: %v", i+1, err)
			}
			k := keyOf(p)
			if j, dup := seen[k]; dup {
				return validationErrorf("member %d: %s is already listed as member %d", i+1, p.Name, j+1)
			}
			seen[k] = i

			existing, otherTeam, found := matchRoster(next.Roster, owner, used, teamID, k)
			switch {
			case found:
				members[i] = existing
				used[existing.ID] = true
			case otherTeam != 0:
				return validationErrorf("member %d: %s is already on team %d", i+1, p.Name, otherTeam)
			default:
				members[i] = p
				fresh = append(fresh, i)
			}
		}

		var displaced []string
		for _, m := range t.Members {
			if !used[m.ID] {
				displaced = append(displaced, m.ID)
			}
		}
		for n, i := range fresh {
			if n < len(displaced) {
				replaceInRoster(next.Roster, displaced[n], members[i])
			} else {
				next.Roster = append(next.Roster, members[i])
			}
		}

		t.Members = members
		view = teamView(*t, waveID, next.Ledger)
		return nil
	})
	if err != nil {
		return TeamView{}, err
	}
	s.log.Info().Int("team_id", teamID).Msg("team members edited")
	return view, nil
}

type memberKey struct {
	name   string
	gender models.Gender
}

func keyOf(p models.Participant) memberKey {
	return memberKey{name: strings.ToLower(p.Name), gender: p.Gender}
}

func findTeamRef(waves []models.Wave, teamID int) (*models.Team, int) {
	for wi := range waves {
		for ti := range waves[wi].Teams {
			if waves[wi].Teams[ti].TeamID == teamID {
				return &waves[wi].Teams[ti], waves[wi].WaveID
			}
		}
	}
	return nil, 0
}

// matchRoster finds an unused roster participant with key k, preferring a
// current member of teamID over an unassigned one. When the only matches sit
// on other teams, the first such team is returned instead.
func matchRoster(roster []models.Participant, owner map[string]int, used map[string]bool, teamID int, k memberKey) (models.Participant, int, bool) {
	var free *models.Participant
	otherTeam := 0
	for i := range roster {
		p := &roster[i]
		if used[p.ID] || keyOf(*p) != k {
			continue
		}
		switch o := owner[p.ID]; {
		case o == teamID:
			return *p, 0, true
		case o == 0:
			if free == nil {
				free = p
			}
		default:
			if otherTeam == 0 {
				otherTeam = o
			}
		}
	}
	if free != nil {
		return *free, 0, true
	}
	return models.Participant{}, otherTeam, false
}

func replaceInRoster(roster []models.Participant, oldID string, p models.Participant) {
	for i := range roster {
		if roster[i].ID == oldID {
			roster[i] = p
			return
		}
	}
}

// ================== SPLIT TIMES ==================

func recordInto(next *EventState, teamID int, station, timeStr string) (models.SplitTime, int, error) {
	if !models.IsStation(station) {
		return models.SplitTime{}, 0, validationErrorf("invalid station: %s", station)
	}
	seconds, err := ParseSplitTime(timeStr)
	if err != nil {
		return models.SplitTime{}, 0, err
	}
	_, waveID, ok := models.FindTeam(next.Waves, teamID)
	if !ok {
		return models.SplitTime{}, 0, notFoundErrorf("team %d not found", teamID)
	}
	if err := next.Ledger.Record(teamID, station, seconds); err != nil {
		return models.SplitTime{}, 0, err
	}
	return models.SplitTime{
		TeamID:  teamID,
		Station: station,
		Seconds: seconds,
		TimeStr: FormatSeconds(seconds),
	}, waveID, nil
}

// RecordTime writes a split time without touching the active setting. Use it
// to backfill or correct earlier results.
func (s *EventService) RecordTime(ctx context.Context, teamID int, station, timeStr string) (models.SplitTime, error) {
	var rec models.SplitTime
	err := s.mutate(ctx, "record_time", func(next *EventState) error {
		var err error
		rec, _, err = recordInto(next, teamID, station, timeStr)
		return err
	})
	if err != nil {
		return models.SplitTime{}, err
	}
	s.metrics.timeRecorded()
	s.log.Info().Int("team_id", teamID).Str("station", station).Int("seconds", rec.Seconds).Msg("split time recorded")
	return rec, nil
}

// SaveTime records a split time and marks the team's wave and the station as
// the live ones, in a single step.
func (s *EventService) SaveTime(ctx context.Context, teamID int, station, timeStr string) (models.SplitTime, models.ActiveSetting, error) {
	var rec models.SplitTime
	var active models.ActiveSetting
	err := s.mutate(ctx, "save_time", func(next *EventState) error {
		var waveID int
		var err error
		rec, waveID, err = recordInto(next, teamID, station, timeStr)
		if err != nil {
			return err
		}
		next.Active = models.ActiveSetting{WaveID: &waveID, Station: &station}
		active = next.Active.Clone()
		return nil
	})
	if err != nil {
		return models.SplitTime{}, models.ActiveSetting{}, err
	}
	s.metrics.timeRecorded()
	s.log.Info().
		Int("team_id", teamID).
		Str("station", station).
		Int("seconds", rec.Seconds).
		Int("active_wave_id", *active.WaveID).
		Msg("split time saved")
	return rec, active, nil
}

// ================== ACTIVE SETTING ==================

// SetActive updates whichever of wave and station is non-nil. The wave id is
// not checked against the generated waves.
func (s *EventService) SetActive(ctx context.Context, waveID *int, station *string) (models.ActiveSetting, error) {
	var active models.ActiveSetting
	err := s.mutate(ctx, "set_active", func(next *EventState) error {
		if station != nil && !models.IsStation(*station) {
			return validationErrorf("invalid station: %s", *station)
		}
		if waveID != nil {
			w := *waveID
			next.Active.WaveID = &w
		}
		if station != nil {
			st := *station
			next.Active.Station = &st
		}
		active = next.Active.Clone()
		return nil
	})
	if err != nil {
		return models.ActiveSetting{}, err
	}
	return active, nil
}

func (s *EventService) Active(ctx context.Context) models.ActiveSetting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Active.Clone()
}

// ================== LEADERBOARD ==================

type LeaderboardView struct {
	Leaderboard   []models.LeaderboardEntry `json:"leaderboard"`
	ActiveWaveID  *int                      `json:"active_wave_id"`
	ActiveStation *string                   `json:"active_station"`
	Stations      []string                  `json:"stations"`
}

// Leaderboard ranks every team against the ledger as it is at the moment of the call.
func (s *EventService) Leaderboard(ctx context.Context) LeaderboardView {
	s.mu.RLock()
	entries := Rank(s.state.Waves, s.state.Ledger, s.state.Active)
	active := s.state.Active.Clone()
	s.mu.RUnlock()

	s.metrics.leaderboardServed()
	return LeaderboardView{
		Leaderboard:   entries,
		ActiveWaveID:  active.WaveID,
		ActiveStation: active.Station,
		Stations:      append([]string{}, models.Stations...),
	}
}

// ================== RESET ==================

// ResetAll discards the roster, waves, split times and active setting.
func (s *EventService) ResetAll(ctx context.Context) error {
	err := s.mutate(ctx, "reset", func(next *EventState) error {
		*next = *NewEventState()
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Warn().Msg("all event data reset")
	return nil
}
