// services/team_generator.go - Roster partitioning into teams and waves
package services

import (
	"fmt"
	"math/rand/v2"

	"triotag/models"
)

type GenerationMode string

const (
	ModeTwoMenOneWoman GenerationMode = "2m1f"
	ModeRandom         GenerationMode = "random"
)

// DefaultWaveSize is the number of teams started together when no override is configured.
const DefaultWaveSize = 3

func ParseGenerationMode(raw string) (GenerationMode, error) {
	switch GenerationMode(raw) {
	case ModeTwoMenOneWoman, ModeRandom:
		return GenerationMode(raw), nil
	}
	return "", validationErrorf("unsupported generation mode %q (use %q or %q)", raw, ModeTwoMenOneWoman, ModeRandom)
}

type GenerationResult struct {
	Waves []models.Wave
	// Unassigned holds the 0-2 participants left over when the roster size
	// is not a multiple of the team size.
	Unassigned []models.Participant
	// Balanced counts teams built with the requested 2:1 gender split.
	Balanced int
}

// GenerateWaves partitions roster into teams of three and groups them into
// waves of waveSize. All randomness comes from rng.
//
// In 2m1f mode teams of two men and one woman are drawn from independently
// shuffled pools while both pools can supply them. Whatever remains is merged,
// shuffled and sliced into teams of three regardless of gender. Participants
// that cannot complete a team are returned in Unassigned.
func GenerateWaves(roster []models.Participant, mode GenerationMode, waveSize int, rng *rand.Rand) (GenerationResult, error) {
	if len(roster) == 0 {
		return GenerationResult{}, generationErrorf("no participants uploaded yet")
	}
	if waveSize <= 0 {
		return GenerationResult{}, validationErrorf("wave size must be positive, got %d", waveSize)
	}

	var groups [][]models.Participant
	var leftover []models.Participant
	balanced := 0

	switch mode {
	case ModeTwoMenOneWoman:
		var males, females []models.Participant
		for _, p := range roster {
			if p.Gender == models.GenderMale {
				males = append(males, p)
			} else {
				females = append(females, p)
			}
		}
		shuffle(rng, males)
		shuffle(rng, females)

		for len(males) >= 2 && len(females) >= 1 {
			groups = append(groups, []models.Participant{males[0], males[1], females[0]})
			males, females = males[2:], females[1:]
			balanced++
		}

		remaining := append(append([]models.Participant{}, males...), females...)
		shuffle(rng, remaining)
		var rest [][]models.Participant
		rest, leftover = chunk(remaining, models.TeamSize)
		groups = append(groups, rest...)
	case ModeRandom:
		shuffled := append([]models.Participant{}, roster...)
		shuffle(rng, shuffled)
		groups, leftover = chunk(shuffled, models.TeamSize)
	default:
		return GenerationResult{}, validationErrorf("unsupported generation mode %q", mode)
	}

	teams := make([]models.Team, len(groups))
	for i, g := range groups {
		teams[i] = models.Team{TeamID: i + 1, Members: g}
	}

	return GenerationResult{
		Waves:      groupWaves(teams, waveSize),
		Unassigned: leftover,
		Balanced:   balanced,
	}, nil
}

func groupWaves(teams []models.Team, waveSize int) []models.Wave {
	var waves []models.Wave
	for i := 0; i < len(teams); i += waveSize {
		end := min(i+waveSize, len(teams))
		waves = append(waves, models.Wave{
			WaveID: len(waves) + 1,
			Teams:  append([]models.Team{}, teams[i:end]...),
		})
	}
	return waves
}

// chunk slices items into full groups of size n and returns the short tail separately.
func chunk(items []models.Participant, n int) ([][]models.Participant, []models.Participant) {
	var groups [][]models.Participant
	for len(items) >= n {
		groups = append(groups, append([]models.Participant{}, items[:n]...))
		items = items[n:]
	}
	return groups, append([]models.Participant{}, items...)
}

func shuffle(rng *rand.Rand, items []models.Participant) {
	rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}

func describeGeneration(res GenerationResult) string {
	teams := models.CountTeams(res.Waves)
	msg := fmt.Sprintf("Generated %d teams in %d waves", teams, len(res.Waves))
	if n := len(res.Unassigned); n > 0 {
		names := make([]string, n)
		for i, p := range res.Unassigned {
			names[i] = p.Name
		}
		msg += fmt.Sprintf("; %d unassigned: %v", n, names)
	}
	return msg
}
