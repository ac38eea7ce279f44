package db_test

import (
	"context"
	"strings"
	"testing"

	"github.com/yungbote/roadmap-backend/internal/data/db"
	"github.com/yungbote/roadmap-backend/internal/data/repos/testutil"
	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/domain/roadmap"
)

func TestDefaultCatalogSizes(t *testing.T) {
	c, err := db.DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	for m, want := range map[string]int{
		roadmap.MethodologyHybrid:    7,
		roadmap.MethodologyAnalytics: 5,
		roadmap.MethodologyReporting: 5,
	} {
		if got := c.Size(m); got != want {
			t.Fatalf("catalog size %s: want=%d got=%d", m, want, got)
		}
	}
}

func TestMigrateSeedsCatalogOnce(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()

	before := testutil.CountWhere(t, ctx, gdb, &types.Phase{}, "methodology = ?", roadmap.MethodologyHybrid)
	if before != 7 {
		t.Fatalf("seeded phases: want=7 got=%d", before)
	}
	if err := db.Migrate(gdb, testutil.Logger(t)); err != nil {
		t.Fatalf("Migrate again: %v", err)
	}
	after := testutil.CountWhere(t, ctx, gdb, &types.Phase{}, "methodology = ?", roadmap.MethodologyHybrid)
	if after != before {
		t.Fatalf("re-migrate: want=%d got=%d", before, after)
	}
}

func TestRepairMergesDuplicatesAndBackfills(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()

	in := testutil.SeedInitiative(t, ctx, tx, "Repair", 2320)
	other := testutil.SeedInitiative(t, ctx, tx, "Repair other", 2320)
	phases := testutil.InitiativePhases(t, ctx, tx, in.ID)
	keep := phases[0].PhaseID

	var orig types.Phase
	if err := tx.First(&orig, keep).Error; err != nil {
		t.Fatalf("load phase: %v", err)
	}
	// same phase, differing only in case and surrounding whitespace
	dup := &types.Phase{Name: " " + strings.ToUpper(orig.Name) + " ", Methodology: orig.Methodology, DefaultOrder: orig.DefaultOrder}
	if err := tx.Create(dup).Error; err != nil {
		t.Fatalf("create dup phase: %v", err)
	}

	// in links both copies; other links only the duplicate
	if err := tx.Exec(`DELETE FROM initiative_phases WHERE initiative_id = ? AND phase_id = ?`, other.ID, keep).Error; err != nil {
		t.Fatalf("drop link: %v", err)
	}
	for _, id := range []uint{in.ID, other.ID} {
		if err := tx.Create(&types.InitiativePhase{InitiativeID: id, PhaseID: dup.ID, Active: true}).Error; err != nil {
			t.Fatalf("link dup: %v", err)
		}
	}
	// initiative-scope cell with a stale scope value written before the discriminator
	if err := tx.Exec(`INSERT INTO weekly_progress (initiative_id, scope, phase_id, year, week, status, comment, updated_by, created_at, updated_at)
		VALUES (?, 'phase', 0, 2320, 5, 1, '', 'x', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`, in.ID).Error; err != nil {
		t.Fatalf("insert legacy cell: %v", err)
	}

	report, err := db.RepairTx(tx)
	if err != nil {
		t.Fatalf("RepairTx: %v", err)
	}
	if report.DuplicatePhasesRemoved != 1 {
		t.Fatalf("DuplicatePhasesRemoved: want=1 got=%d", report.DuplicatePhasesRemoved)
	}
	if report.CollidingRowsRemoved != 1 || report.InitiativePhasesRepointed != 1 {
		t.Fatalf("colliding/repointed: want=1/1 got=%d/%d", report.CollidingRowsRemoved, report.InitiativePhasesRepointed)
	}
	if report.ProgressScopesFixed != 1 {
		t.Fatalf("ProgressScopesFixed: want=1 got=%d", report.ProgressScopesFixed)
	}
	for _, id := range []uint{in.ID, other.ID} {
		if n := testutil.CountWhere(t, ctx, tx, &types.InitiativePhase{}, "initiative_id = ?", id); n != 7 {
			t.Fatalf("initiative %d phases: want=7 got=%d", id, n)
		}
		if n := testutil.CountWhere(t, ctx, tx, &types.InitiativePhase{}, "initiative_id = ? AND phase_id = ?", id, keep); n != 1 {
			t.Fatalf("initiative %d survivor links: want=1 got=%d", id, n)
		}
	}

	again, err := db.RepairTx(tx)
	if err != nil {
		t.Fatalf("RepairTx again: %v", err)
	}
	if again.Total() != 0 {
		t.Fatalf("second repair: want=0 changes got=%+v", again)
	}
}
