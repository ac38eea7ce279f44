package services

import (
	"testing"

	"github.com/yungbote/roadmap-backend/internal/domain/roadmap"
)

func TestDashboardSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := editorCtx()
	year := testYear()

	a := initiativeInput("A", year)
	a.Progress = ptr(20)
	a.Status = ptr("En curso")
	b := initiativeInput("B", year)
	b.Progress = ptr(61)
	b.Area = ptr("Finanzas")
	b.Value = ptr(roadmap.ValueStrategic)
	b.Status = ptr("En curso")
	var ids []uint
	for _, in := range []InitiativeInput{a, b} {
		created, err := env.initiatives.Create(ctx, in)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, created.ID)
	}
	if _, err := env.milestones.Create(ctx, MilestoneInput{InitiativeID: ids[0], Year: year, Week: 2, Type: "check"}); err != nil {
		t.Fatalf("milestone: %v", err)
	}
	if _, err := env.progress.Upsert(ctx, ProgressInput{InitiativeID: ids[0], Year: year, Week: 2, Status: roadmap.StatusAtRisk}); err != nil {
		t.Fatalf("progress: %v", err)
	}

	got, err := env.dashboard.Summary(ctx, &year)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if got.TotalInitiatives != 2 {
		t.Fatalf("total: want=2 got=%d", got.TotalInitiatives)
	}
	if got.AverageProgress != 40.5 {
		t.Fatalf("average progress: want=40.5 got=%v", got.AverageProgress)
	}
	if got.Milestones != 1 {
		t.Fatalf("milestones: want=1 got=%d", got.Milestones)
	}
	if len(got.ByArea) != 2 {
		t.Fatalf("by area: want=2 groups got=%+v", got.ByArea)
	}
	if len(got.ByStatus) != 1 || got.ByStatus[0].Key != "En curso" || got.ByStatus[0].Count != 2 {
		t.Fatalf("by status: got=%+v", got.ByStatus)
	}
	if len(got.ByValue) != 2 {
		t.Fatalf("by value: want=2 groups got=%+v", got.ByValue)
	}
	if len(got.ProgressCells) != 1 || got.ProgressCells[0].Status != roadmap.StatusAtRisk || got.ProgressCells[0].Label != "En riesgo" {
		t.Fatalf("progress cells: got=%+v", got.ProgressCells)
	}
}
