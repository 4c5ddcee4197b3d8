package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"triotag/models"
	"triotag/rosterparser"
	"triotag/services"
)

const (
	modeFlag     = "preview-mode"
	waveSizeFlag = "wave-size"
	seedFlag     = "seed"
)

var semanticVersion = "v0.1.0"

type fileReport struct {
	Males   int
	Females int
	Roster  []models.Participant
}

// lintRoster checks every row the way an upload would and reports the gender
// split. The first problem found is returned with its line or row number.
func lintRoster(r io.Reader) (fileReport, error) {
	rows, err := rosterparser.Parse(r)
	if err != nil {
		return fileReport{}, err
	}
	var rep fileReport
	for i, row := range rows {
		if row.Name == "" {
			return fileReport{}, fmt.Errorf("%s: name is required", row.Where(i))
		}
		g, err := models.ParseGender(row.Gender)
		if err != nil {
			return fileReport{}, fmt.Errorf("%s: %w", row.Where(i), err)
		}
		if g == models.GenderMale {
			rep.Males++
		} else {
			rep.Females++
		}
		rep.Roster = append(rep.Roster, models.Participant{
			ID:     fmt.Sprintf("p%d", i+1),
			Name:   row.Name,
			Gender: g,
		})
	}
	return rep, nil
}

type previewTeam struct {
	Team    int      `yaml:"team"`
	Members []string `yaml:"members"`
}

type previewWave struct {
	Wave  int           `yaml:"wave"`
	Teams []previewTeam `yaml:"teams"`
}

type preview struct {
	Mode       string        `yaml:"mode"`
	Balanced   int           `yaml:"balanced_teams"`
	Waves      []previewWave `yaml:"waves"`
	Unassigned []string      `yaml:"unassigned,omitempty"`
}

// previewTeams runs a dry generation and writes it as YAML.
func previewTeams(w io.Writer, roster []models.Participant, rawMode string, waveSize int, seed uint64) error {
	mode, err := services.ParseGenerationMode(rawMode)
	if err != nil {
		return err
	}
	res, err := services.GenerateWaves(roster, mode, waveSize, rand.New(rand.NewPCG(seed, seed+1)))
	if err != nil {
		return err
	}

	out := preview{Mode: string(mode), Balanced: res.Balanced}
	for _, wave := range res.Waves {
		pw := previewWave{Wave: wave.WaveID}
		for _, team := range wave.Teams {
			pt := previewTeam{Team: team.TeamID}
			for _, m := range team.Members {
				pt.Members = append(pt.Members, fmt.Sprintf("%s (%s)", m.Name, m.Gender))
			}
			pw.Teams = append(pw.Teams, pt)
		}
		out.Waves = append(out.Waves, pw)
	}
	for _, p := range res.Unassigned {
		out.Unassigned = append(out.Unassigned, p.Name)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return fmt.Errorf("encoding preview failed: %w", err)
	}
	return enc.Close()
}

func run(c *cli.Context) error {
	files := c.Args().Slice()
	if len(files) == 0 {
		var err error
		files, err = filepath.Glob("./rosters/*.csv")
		if err != nil {
			return cli.Exit(fmt.Sprintf("error: cannot read ./rosters: %v", err), 1)
		}
	}
	if len(files) == 0 {
		fmt.Fprintln(c.App.Writer, "no .csv roster files found")
		return nil
	}

	failed := 0
	for _, f := range files {
		rep, err := lintFile(f)
		if err != nil {
			fmt.Fprintf(c.App.ErrWriter, "%s: %v\n", f, err)
			failed++
			continue
		}
		total := rep.Males + rep.Females
		fmt.Fprintf(c.App.Writer, "%s: OK (%d participants, %d M / %d F, %d teams, %d unassigned)\n",
			f, total, rep.Males, rep.Females, total/models.TeamSize, total%models.TeamSize)

		if mode := c.String(modeFlag); mode != "" {
			if err := previewTeams(c.App.Writer, rep.Roster, mode, c.Int(waveSizeFlag), c.Uint64(seedFlag)); err != nil {
				fmt.Fprintf(c.App.ErrWriter, "%s: preview failed: %v\n", f, err)
				failed++
			}
		}
	}
	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d roster files failed", failed, len(files)), 1)
	}
	return nil
}

func lintFile(path string) (fileReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return fileReport{}, fmt.Errorf("open error: %w", err)
	}
	defer f.Close()
	return lintRoster(f)
}

func main() {
	app := &cli.App{
		Name:      "roster-lint",
		Usage:     "Validate Trio Tag roster CSV files and preview team generation",
		UsageText: "roster-lint [options] [file.csv ...]",
		Version:   semanticVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  modeFlag,
				Usage: "Print a dry-run team generation in this mode (2m1f or random)",
			},
			&cli.IntFlag{
				Name:  waveSizeFlag,
				Usage: "Teams per wave for the preview",
				Value: services.DefaultWaveSize,
			},
			&cli.Uint64Flag{
				Name:  seedFlag,
				Usage: "Shuffle seed for the preview",
				Value: 1,
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
