// models/leaderboard.go
package models

type LeaderboardEntry struct {
	Rank              int            `json:"rank"`
	TeamID            int            `json:"team_id"`
	WaveID            int            `json:"wave_id"`
	Members           []Member       `json:"members"`
	CurrentStation    string         `json:"current_station"`
	CompletedStations int            `json:"completed_stations"`
	StationTimes      map[string]int `json:"station_times"`
	TotalSeconds      int            `json:"total_seconds"`
	TotalTimeStr      string         `json:"total_time_str"`
	IsActive          bool           `json:"is_active"`
}
