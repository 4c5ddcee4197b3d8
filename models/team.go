// models/team.go
package models

// TeamSize is the number of participants in every generated team.
const TeamSize = 3

type Team struct {
	TeamID  int           `json:"team_id"`
	Members []Participant `json:"members"`
}

// Wave is a batch of teams that start together. Wave order is generation order.
type Wave struct {
	WaveID int    `json:"wave_id"`
	Teams  []Team `json:"teams"`
}

// TeamIDs returns the ids of the wave's teams in order.
func (w Wave) TeamIDs() []int {
	ids := make([]int, len(w.Teams))
	for i, t := range w.Teams {
		ids[i] = t.TeamID
	}
	return ids
}

// FindTeam locates a team and the wave that holds it.
func FindTeam(waves []Wave, teamID int) (Team, int, bool) {
	for _, w := range waves {
		for _, t := range w.Teams {
			if t.TeamID == teamID {
				return t, w.WaveID, true
			}
		}
	}
	return Team{}, 0, false
}

// CountTeams returns the number of teams across all waves.
func CountTeams(waves []Wave) int {
	n := 0
	for _, w := range waves {
		n += len(w.Teams)
	}
	return n
}
