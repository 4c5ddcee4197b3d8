// services/ledger.go - Station split-time ledger
package services

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"triotag/models"
)

var splitTimePattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ParseSplitTime converts an mm:ss string into whole seconds. Minutes are one or
// two digits, seconds exactly two digits in the range 00-59.
func ParseSplitTime(raw string) (int, error) {
	m := splitTimePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0, validationErrorf("invalid time %q: use MM:SS", raw)
	}
	minutes, _ := strconv.Atoi(m[1])
	seconds, _ := strconv.Atoi(m[2])
	if seconds > 59 {
		return 0, validationErrorf("invalid time %q: seconds must be below 60", raw)
	}
	return minutes*60 + seconds, nil
}

// FormatSeconds renders seconds as zero-padded mm:ss.
func FormatSeconds(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

type StationTime struct {
	Station string `json:"station"`
	Seconds int    `json:"total_seconds"`
}

// Ledger maps team id to station to recorded seconds. At most one value is
// kept per (team, station); a later Record overwrites the earlier one.
// The zero value is not usable, use NewLedger.
type Ledger struct {
	times map[int]map[string]int
}

func NewLedger() Ledger {
	return Ledger{times: make(map[int]map[string]int)}
}

// Record stores seconds for (teamID, station). The station must be in the catalog.
func (l Ledger) Record(teamID int, station string, seconds int) error {
	if !models.IsStation(station) {
		return validationErrorf("invalid station: %s", station)
	}
	if seconds < 0 {
		return validationErrorf("split time cannot be negative")
	}
	byStation, ok := l.times[teamID]
	if !ok {
		byStation = make(map[string]int)
		l.times[teamID] = byStation
	}
	byStation[station] = seconds
	return nil
}

// TimesFor returns the team's recorded stations in catalog order.
func (l Ledger) TimesFor(teamID int) []StationTime {
	byStation := l.times[teamID]
	out := make([]StationTime, 0, len(byStation))
	for _, s := range models.Stations {
		if secs, ok := byStation[s]; ok {
			out = append(out, StationTime{Station: s, Seconds: secs})
		}
	}
	return out
}

// TimesMap returns a copy of the team's station -> seconds mapping.
func (l Ledger) TimesMap(teamID int) map[string]int {
	out := make(map[string]int, len(l.times[teamID]))
	for s, secs := range l.times[teamID] {
		out[s] = secs
	}
	return out
}

// Count returns the number of recorded split times.
func (l Ledger) Count() int {
	n := 0
	for _, byStation := range l.times {
		n += len(byStation)
	}
	return n
}

// Entries lists every split time ordered by team id then catalog order.
func (l Ledger) Entries() []models.SplitTime {
	ids := make([]int, 0, len(l.times))
	for id := range l.times {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var out []models.SplitTime
	for _, id := range ids {
		for _, st := range l.TimesFor(id) {
			out = append(out, models.SplitTime{
				TeamID:  id,
				Station: st.Station,
				Seconds: st.Seconds,
				TimeStr: FormatSeconds(st.Seconds),
			})
		}
	}
	return out
}

func (l Ledger) Clear() {
	clear(l.times)
}

func (l Ledger) Clone() Ledger {
	out := NewLedger()
	for id, byStation := range l.times {
		cp := make(map[string]int, len(byStation))
		for s, secs := range byStation {
			cp[s] = secs
		}
		out.times[id] = cp
	}
	return out
}
