package db

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/domain/roadmap"
)

// RepairReport counts the rows touched by one repair run.
type RepairReport struct {
	DuplicatePhasesRemoved     int64 `json:"duplicate_phases_removed"`
	InitiativePhasesRepointed  int64 `json:"initiative_phases_repointed"`
	ProgressRowsRepointed      int64 `json:"progress_rows_repointed"`
	CollidingRowsRemoved       int64 `json:"colliding_rows_removed"`
	ProgressScopesFixed        int64 `json:"progress_scopes_fixed"`
	DuplicateInitiativePhases  int64 `json:"duplicate_initiative_phases_removed"`
	DuplicateProgressCells     int64 `json:"duplicate_progress_cells_removed"`
	InitiativePhasesBackfilled int64 `json:"initiative_phases_backfilled"`
}

func (r *RepairReport) Total() int64 {
	return r.DuplicatePhasesRemoved + r.InitiativePhasesRepointed + r.ProgressRowsRepointed +
		r.CollidingRowsRemoved + r.ProgressScopesFixed + r.DuplicateInitiativePhases +
		r.DuplicateProgressCells + r.InitiativePhasesBackfilled
}

// Repair runs every repair step in one transaction. Running it twice is a no-op the second time.
func Repair(db *gorm.DB) (*RepairReport, error) {
	var report *RepairReport
	err := db.Transaction(func(tx *gorm.DB) error {
		r, err := RepairTx(tx)
		if err != nil {
			return err
		}
		report = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// RepairTx runs the repair steps on an open transaction. Order matters: phases are merged first so
// the later dedupe passes see the repointed rows.
func RepairTx(tx *gorm.DB) (*RepairReport, error) {
	r := &RepairReport{}
	if err := dedupePhases(tx, r); err != nil {
		return nil, fmt.Errorf("dedupe phases: %w", err)
	}
	if err := fixProgressScopes(tx, r); err != nil {
		return nil, fmt.Errorf("fix progress scopes: %w", err)
	}
	n, err := DedupeInitiativePhases(tx)
	if err != nil {
		return nil, fmt.Errorf("dedupe initiative phases: %w", err)
	}
	r.DuplicateInitiativePhases = n
	if n, err = DedupeWeeklyProgress(tx); err != nil {
		return nil, fmt.Errorf("dedupe weekly progress: %w", err)
	}
	r.DuplicateProgressCells = n
	if n, err = BackfillInitiativePhases(tx); err != nil {
		return nil, fmt.Errorf("backfill initiative phases: %w", err)
	}
	r.InitiativePhasesBackfilled = n
	return r, nil
}

type phaseRow struct {
	ID          uint
	Methodology string
	Name        string
}

// dedupePhases merges phases sharing (methodology, lower(trim(name))) into the lowest id.
func dedupePhases(tx *gorm.DB, r *RepairReport) error {
	var rows []phaseRow
	if err := tx.Model(&domain.Phase{}).Select("id, methodology, name").Order("id ASC").Scan(&rows).Error; err != nil {
		return err
	}
	survivor := map[string]uint{}
	for _, p := range rows {
		key := p.Methodology + "\x00" + strings.ToLower(strings.TrimSpace(p.Name))
		keep, ok := survivor[key]
		if !ok {
			survivor[key] = p.ID
			continue
		}
		if err := mergePhase(tx, p.ID, keep, r); err != nil {
			return fmt.Errorf("merge phase %d into %d: %w", p.ID, keep, err)
		}
	}
	return nil
}

func mergePhase(tx *gorm.DB, dup, keep uint, r *RepairReport) error {
	// initiative_phases: drop rows whose initiative already links the survivor, repoint the rest
	res := tx.Exec(`
		DELETE FROM initiative_phases
		WHERE phase_id = ?
		  AND initiative_id IN (SELECT initiative_id FROM initiative_phases WHERE phase_id = ?)`, dup, keep)
	if res.Error != nil {
		return res.Error
	}
	r.CollidingRowsRemoved += res.RowsAffected
	res = tx.Exec(`UPDATE initiative_phases SET phase_id = ? WHERE phase_id = ?`, keep, dup)
	if res.Error != nil {
		return res.Error
	}
	r.InitiativePhasesRepointed += res.RowsAffected

	// weekly_progress: same, keyed on the full cell
	res = tx.Exec(`
		DELETE FROM weekly_progress
		WHERE scope = ? AND phase_id = ?
		  AND EXISTS (
			SELECT 1 FROM weekly_progress w
			WHERE w.scope = ? AND w.phase_id = ?
			  AND w.initiative_id = weekly_progress.initiative_id
			  AND w.year = weekly_progress.year
			  AND w.week = weekly_progress.week)`,
		roadmap.ScopePhase, dup, roadmap.ScopePhase, keep)
	if res.Error != nil {
		return res.Error
	}
	r.CollidingRowsRemoved += res.RowsAffected
	res = tx.Exec(`UPDATE weekly_progress SET phase_id = ? WHERE scope = ? AND phase_id = ?`, keep, roadmap.ScopePhase, dup)
	if res.Error != nil {
		return res.Error
	}
	r.ProgressRowsRepointed += res.RowsAffected

	res = tx.Exec(`DELETE FROM phases WHERE id = ?`, dup)
	if res.Error != nil {
		return res.Error
	}
	r.DuplicatePhasesRemoved += res.RowsAffected
	return nil
}

// fixProgressScopes makes scope agree with phase_id on rows written before the discriminator existed.
func fixProgressScopes(tx *gorm.DB, r *RepairReport) error {
	res := tx.Exec(`UPDATE weekly_progress SET scope = ? WHERE phase_id <> 0 AND scope <> ?`, roadmap.ScopePhase, roadmap.ScopePhase)
	if res.Error != nil {
		return res.Error
	}
	r.ProgressScopesFixed += res.RowsAffected
	res = tx.Exec(`UPDATE weekly_progress SET scope = ? WHERE phase_id = 0 AND scope <> ?`, roadmap.ScopeInitiative, roadmap.ScopeInitiative)
	if res.Error != nil {
		return res.Error
	}
	r.ProgressScopesFixed += res.RowsAffected
	return nil
}

// DedupeInitiativePhases keeps the lowest id per (initiative, phase).
func DedupeInitiativePhases(tx *gorm.DB) (int64, error) {
	res := tx.Exec(`
		DELETE FROM initiative_phases
		WHERE id NOT IN (
			SELECT keep_id FROM (
				SELECT MIN(id) AS keep_id FROM initiative_phases GROUP BY initiative_id, phase_id
			) survivors
		)`)
	return res.RowsAffected, res.Error
}

// DedupeWeeklyProgress keeps the highest id, i.e. the latest write, per cell key.
func DedupeWeeklyProgress(tx *gorm.DB) (int64, error) {
	res := tx.Exec(`
		DELETE FROM weekly_progress
		WHERE id NOT IN (
			SELECT keep_id FROM (
				SELECT MAX(id) AS keep_id FROM weekly_progress GROUP BY initiative_id, scope, phase_id, year, week
			) survivors
		)`)
	return res.RowsAffected, res.Error
}

// BackfillInitiativePhases stamps every catalog phase an initiative's methodology has but the
// initiative does not.
func BackfillInitiativePhases(tx *gorm.DB) (int64, error) {
	now := time.Now().UTC()
	res := tx.Exec(`
		INSERT INTO initiative_phases (initiative_id, phase_id, custom_order, active, progress, notes, created_at, updated_at)
		SELECT i.id, p.id, p.default_order, ?, 0, '', ?, ?
		FROM initiatives i
		JOIN phases p ON p.methodology = i.methodology
		WHERE NOT EXISTS (
			SELECT 1 FROM initiative_phases ip
			WHERE ip.initiative_id = i.id AND ip.phase_id = p.id
		)`, true, now, now)
	return res.RowsAffected, res.Error
}
