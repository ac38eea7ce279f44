package roadmap

import (
	"context"
	"testing"

	"github.com/yungbote/roadmap-backend/internal/data/repos/testutil"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
)

func TestInitiativeRepoNeighborAndOrder(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewInitiativeRepo(gdb, testutil.Logger(t))

	a := testutil.SeedInitiative(t, ctx, tx, "A", 2310)
	b := testutil.SeedInitiative(t, ctx, tx, "B", 2310)
	testutil.SeedInitiative(t, ctx, tx, "other year", 2311)

	up, err := repo.Neighbor(dbc, b.Year, b.CustomOrder, b.ID, true)
	if err != nil {
		t.Fatalf("Neighbor up: %v", err)
	}
	if up == nil || up.ID != a.ID {
		t.Fatalf("Neighbor up: want=%d got=%+v", a.ID, up)
	}
	none, err := repo.Neighbor(dbc, a.Year, a.CustomOrder, a.ID, true)
	if err != nil {
		t.Fatalf("Neighbor none: %v", err)
	}
	if none != nil {
		t.Fatalf("Neighbor none: want=nil got=%d", none.ID)
	}

	max, err := repo.MaxCustomOrder(dbc, 2310)
	if err != nil {
		t.Fatalf("MaxCustomOrder: %v", err)
	}
	if max != b.CustomOrder {
		t.Fatalf("MaxCustomOrder: want=%d got=%d", b.CustomOrder, max)
	}

	year := 2310
	list, err := repo.List(dbc, InitiativeFilter{Year: &year})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != a.ID || list[1].ID != b.ID {
		t.Fatalf("List: unexpected order: %+v", list)
	}
	if len(list[0].Phases) != 7 {
		t.Fatalf("List: want=7 preloaded phases got=%d", len(list[0].Phases))
	}
	if list[0].Phases[0].Phase == nil {
		t.Fatalf("List: expected nested phase catalog entry")
	}
}

func TestTechnologyRepoEnsureIsIdempotent(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewTechnologyRepo(gdb, testutil.Logger(t))

	name := testutil.Unique("Power BI")
	first, err := repo.Ensure(dbc, []string{name, " " + name + " ", ""})
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("Ensure: want=1 got=%d", len(first))
	}
	second, err := repo.Ensure(dbc, []string{name})
	if err != nil {
		t.Fatalf("Ensure again: %v", err)
	}
	if second[0].ID != first[0].ID {
		t.Fatalf("Ensure again: want id=%d got=%d", first[0].ID, second[0].ID)
	}

	in := testutil.SeedInitiative(t, ctx, tx, "Tech", 2312)
	if err := repo.ReplaceForInitiative(dbc, in.ID, []uint{first[0].ID, first[0].ID}); err != nil {
		t.Fatalf("ReplaceForInitiative: %v", err)
	}
	n, err := repo.DeleteByInitiative(dbc, in.ID)
	if err != nil || n != 1 {
		t.Fatalf("DeleteByInitiative: want=1 got=%d err=%v", n, err)
	}
}
