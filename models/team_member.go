// models/team_member.go
package models

import (
	"fmt"
	"strings"
)

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// ParseGender normalizes an uploaded gender cell. Only M and F are accepted,
// case-insensitively.
func ParseGender(raw string) (Gender, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "M":
		return GenderMale, nil
	case "F":
		return GenderFemale, nil
	}
	return "", fmt.Errorf("gender must be M or F, got %q", raw)
}

// Participant is one roster entry. Participants are immutable once uploaded.
type Participant struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Gender Gender `json:"gender"`
}

// RosterRow is a parsed but not yet validated upload row.
type RosterRow struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
	// Line is the source line of a CSV row; zero when the row came from JSON.
	Line int `json:"-"`
}

// Where names the row in error messages: its CSV line when known, otherwise
// its 1-based position in the batch.
func (r RosterRow) Where(index int) string {
	if r.Line > 0 {
		return fmt.Sprintf("line %d", r.Line)
	}
	return fmt.Sprintf("participant %d", index+1)
}

// Member is the public projection of a participant on leaderboards and team listings.
type Member struct {
	Name   string `json:"name"`
	Gender Gender `json:"gender"`
}

func MembersOf(participants []Participant) []Member {
	members := make([]Member, len(participants))
	for i, p := range participants {
		members[i] = Member{Name: p.Name, Gender: p.Gender}
	}
	return members
}
