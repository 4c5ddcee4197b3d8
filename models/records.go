// models/records.go - Persisted rows of an event snapshot
package models

type ParticipantRecord struct {
	ID       string `gorm:"primaryKey;size:36"`
	Position int    `gorm:"not null;index"`
	Name     string `gorm:"not null;size:200"`
	Gender   string `gorm:"not null;size:1"`
}

func (ParticipantRecord) TableName() string {
	return "participants"
}

type TeamRecord struct {
	TeamID   int `gorm:"primaryKey;autoIncrement:false"`
	WaveID   int `gorm:"not null;index"`
	Position int `gorm:"not null"`
}

func (TeamRecord) TableName() string {
	return "teams"
}

type TeamMemberRecord struct {
	ID            uint   `gorm:"primaryKey"`
	TeamID        int    `gorm:"not null;index"`
	Position      int    `gorm:"not null"`
	ParticipantID string `gorm:"not null;size:36"`
	Name          string `gorm:"not null;size:200"`
	Gender        string `gorm:"not null;size:1"`
}

func (TeamMemberRecord) TableName() string {
	return "team_members"
}

type SplitTimeRecord struct {
	TeamID  int    `gorm:"primaryKey;autoIncrement:false"`
	Station string `gorm:"primaryKey;size:100"`
	Seconds int    `gorm:"not null"`
}

func (SplitTimeRecord) TableName() string {
	return "split_times"
}

type SettingRecord struct {
	Key           string  `gorm:"primaryKey;size:32"`
	ActiveWaveID  *int    `gorm:"column:active_wave_id"`
	ActiveStation *string `gorm:"column:active_station;size:100"`
}

func (SettingRecord) TableName() string {
	return "settings"
}
