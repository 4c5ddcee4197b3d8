// services/leaderboard.go - Ranking derived from the split-time ledger
package services

import (
	"cmp"
	"slices"

	"triotag/models"
)

// CurrentStation derives the progress label from a team's recorded times.
func CurrentStation(recorded []StationTime) string {
	if len(recorded) == 0 {
		return models.LabelNotStarted
	}
	done := make(map[string]bool, len(recorded))
	for _, st := range recorded {
		done[st.Station] = true
	}
	for _, s := range models.Stations {
		if !done[s] {
			return s
		}
	}
	return models.LabelFinished
}

// Rank builds the leaderboard for every team in waves. Teams further through the
// catalog rank ahead regardless of time; equal progress is ordered by total
// seconds, then by team id, so ranks are always 1..N with no ties.
//
// Rank reads its inputs only and returns the same ordering for the same inputs.
func Rank(waves []models.Wave, ledger Ledger, active models.ActiveSetting) []models.LeaderboardEntry {
	entries := make([]models.LeaderboardEntry, 0, models.CountTeams(waves))

	for _, w := range waves {
		for _, t := range w.Teams {
			recorded := ledger.TimesFor(t.TeamID)
			total := 0
			times := make(map[string]int, len(recorded))
			for _, st := range recorded {
				total += st.Seconds
				times[st.Station] = st.Seconds
			}
			current := CurrentStation(recorded)

			entries = append(entries, models.LeaderboardEntry{
				TeamID:            t.TeamID,
				WaveID:            w.WaveID,
				Members:           models.MembersOf(t.Members),
				CurrentStation:    current,
				CompletedStations: len(recorded),
				StationTimes:      times,
				TotalSeconds:      total,
				TotalTimeStr:      FormatSeconds(total),
				IsActive: active.WaveID != nil && active.Station != nil &&
					*active.WaveID == w.WaveID && *active.Station == current,
			})
		}
	}

	slices.SortFunc(entries, func(a, b models.LeaderboardEntry) int {
		if c := cmp.Compare(b.CompletedStations, a.CompletedStations); c != 0 {
			return c
		}
		if c := cmp.Compare(a.TotalSeconds, b.TotalSeconds); c != 0 {
			return c
		}
		return cmp.Compare(a.TeamID, b.TeamID)
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
