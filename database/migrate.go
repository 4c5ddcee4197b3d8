// database/migrate.go - Database Migration Runner
package database

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"triotag/models"
)

// RunMigrations creates the event snapshot tables and their indexes.
func RunMigrations(db *gorm.DB, log zerolog.Logger) error {
	log.Info().Msg("running database migrations")

	if err := db.AutoMigrate(
		&models.ParticipantRecord{},
		&models.TeamRecord{},
		&models.TeamMemberRecord{},
		&models.SplitTimeRecord{},
		&models.SettingRecord{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	for _, stmt := range []string{
		"CREATE INDEX IF NOT EXISTS idx_team_members_team_position ON team_members(team_id, position)",
		"CREATE INDEX IF NOT EXISTS idx_teams_wave_position ON teams(wave_id, position)",
	} {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Info().Msg("migrations completed")
	return nil
}
