// models/station.go - Obstacle station catalog
package models

// Stations is the fixed catalog in the order every team runs it.
var Stations = []string{
	"Row 750m",
	"Farmers carry 24kg/16kg - 60m",
	"Ski 750m",
	"Broad burpee jumps 40m",
	"Assault bike - 90cal",
	"Body weight lunges 40m",
}

const (
	LabelNotStarted = "Not Started"
	LabelFinished   = "Finished"
)

// StationIndex returns the catalog position of station, or -1.
func StationIndex(station string) int {
	for i, s := range Stations {
		if s == station {
			return i
		}
	}
	return -1
}

func IsStation(station string) bool {
	return StationIndex(station) >= 0
}

// SplitTime is the single authoritative time for one team at one station.
type SplitTime struct {
	TeamID  int    `json:"team_id"`
	Station string `json:"station"`
	Seconds int    `json:"total_seconds"`
	TimeStr string `json:"time_str"`
}

// ActiveSetting is the (wave, station) the live leaderboard highlights.
// Both fields are nil until an administrator sets them.
type ActiveSetting struct {
	WaveID  *int    `json:"active_wave_id"`
	Station *string `json:"active_station"`
}

func (a ActiveSetting) IsZero() bool {
	return a.WaveID == nil && a.Station == nil
}

// Clone copies the pointed-to values so the result shares nothing with a.
func (a ActiveSetting) Clone() ActiveSetting {
	var out ActiveSetting
	if a.WaveID != nil {
		w := *a.WaveID
		out.WaveID = &w
	}
	if a.Station != nil {
		s := *a.Station
		out.Station = &s
	}
	return out
}
