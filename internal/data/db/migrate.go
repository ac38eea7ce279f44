package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

// SchemaMigration records one applied versioned migration.
type SchemaMigration struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false" json:"version"`
	Name      string    `gorm:"not null" json:"name"`
	AppliedAt time.Time `gorm:"not null" json:"applied_at"`
}

func (SchemaMigration) TableName() string { return "schema_migrations" }

type migration struct {
	Version int
	Name    string
	Up      func(tx *gorm.DB) error
}

// migrations run in order, each in its own transaction. Never reorder or edit an applied entry;
// append a new version instead.
func migrations(catalog *Catalog) []migration {
	return []migration{
		{1, "seed_phase_catalog", func(tx *gorm.DB) error {
			_, err := SeedCatalog(tx, catalog)
			return err
		}},
		{2, "repair_duplicates", func(tx *gorm.DB) error {
			_, err := RepairTx(tx)
			return err
		}},
		{3, "unique_indexes", ensureUniqueIndexes},
		{4, "backfill_initiative_phases", func(tx *gorm.DB) error {
			_, err := BackfillInitiativePhases(tx)
			return err
		}},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	models := append(domain.Models(), &SchemaMigration{})
	return db.AutoMigrate(models...)
}

// Migrate brings the schema up to date: AutoMigrate for additive drift, then pending versions.
func Migrate(db *gorm.DB, log *logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}
	log.Info("Auto migrating tables...")
	if err := AutoMigrateAll(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	catalog, err := DefaultCatalog()
	if err != nil {
		return err
	}

	var applied []SchemaMigration
	if err := db.Find(&applied).Error; err != nil {
		return fmt.Errorf("load schema_migrations: %w", err)
	}
	done := make(map[int]bool, len(applied))
	for _, m := range applied {
		done[m.Version] = true
	}

	for _, m := range migrations(catalog) {
		if done[m.Version] {
			continue
		}
		m := m
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{Version: m.Version, Name: m.Name, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
		log.Info("Applied migration", "version", m.Version, "name", m.Name)
	}
	return nil
}

func ensureUniqueIndexes(tx *gorm.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{"idx_phases_methodology_name", `CREATE UNIQUE INDEX IF NOT EXISTS idx_phases_methodology_name ON phases (methodology, name)`},
		{"idx_initiative_phase_unique", `CREATE UNIQUE INDEX IF NOT EXISTS idx_initiative_phase_unique ON initiative_phases (initiative_id, phase_id)`},
		{"idx_weekly_progress_key", `CREATE UNIQUE INDEX IF NOT EXISTS idx_weekly_progress_key ON weekly_progress (initiative_id, scope, phase_id, year, week)`},
		{"idx_milestones_initiative_year", `CREATE INDEX IF NOT EXISTS idx_milestones_initiative_year ON initiative_milestones (initiative_id, year, week)`},
	}
	for _, s := range stmts {
		if err := tx.Exec(s.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", s.name, err)
		}
	}
	return nil
}
