package services

import (
	"net/http"
	"testing"

	"github.com/yungbote/roadmap-backend/internal/data/repos"
	"github.com/yungbote/roadmap-backend/internal/data/repos/testutil"
	"github.com/yungbote/roadmap-backend/internal/domain/support"
	"github.com/yungbote/roadmap-backend/internal/realtime"
)

func TestSupportItemLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := editorCtx()
	area := testutil.Unique("Area")

	first, err := env.support.Create(ctx, SupportItemInput{Title: ptr("Dashboard caido"), Area: ptr(area)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.Status != support.StatusNew {
		t.Fatalf("default status: want=%s got=%s", support.StatusNew, first.Status)
	}
	if first.CreatedBy != "editor@example.com" {
		t.Fatalf("created_by: want=editor@example.com got=%s", first.CreatedBy)
	}
	second, err := env.support.Create(ctx, SupportItemInput{Title: ptr("Acceso"), Area: ptr(area)})
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}
	if second.Position <= first.Position {
		t.Fatalf("position: want>%d got=%d", first.Position, second.Position)
	}

	moved, err := env.support.Update(ctx, second.ID, SupportItemInput{Status: ptr(support.StatusResolved), Responsible: ptr("BI")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if moved.Status != support.StatusResolved || moved.Responsible != "BI" {
		t.Fatalf("Update: got status=%s responsible=%s", moved.Status, moved.Responsible)
	}

	open, err := env.support.List(ctx, repos.SupportFilter{Status: support.StatusNew, Area: area})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(open) != 1 || open[0].ID != first.ID {
		t.Fatalf("List by status: want=[%d] got=%d items", first.ID, len(open))
	}

	if err := env.support.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	err = env.support.Delete(ctx, first.ID)
	wantAPIError(t, err, http.StatusNotFound, "not_found")
	if n := env.emit.count(realtime.SSEEventSupportChanged); n != 4 {
		t.Fatalf("SupportItemChanged events: want=4 got=%d", n)
	}
}

func TestSupportItemValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := editorCtx()

	_, err := env.support.Create(ctx, SupportItemInput{Title: ptr("  ")})
	wantAPIError(t, err, http.StatusBadRequest, "invalid_title")
	_, err = env.support.Create(ctx, SupportItemInput{Title: ptr("x"), Status: ptr("Cerrado")})
	wantAPIError(t, err, http.StatusBadRequest, "invalid_status")
	_, err = env.support.List(ctx, repos.SupportFilter{Status: "Cerrado"})
	wantAPIError(t, err, http.StatusBadRequest, "invalid_status")
	_, err = env.support.Update(ctx, 987654321, SupportItemInput{Title: ptr("x")})
	wantAPIError(t, err, http.StatusNotFound, "not_found")
}

func TestMilestonesAndOnePagers(t *testing.T) {
	env := newTestEnv(t)
	ctx := editorCtx()
	year := testYear()

	in, err := env.initiatives.Create(ctx, initiativeInput("Reported", year))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	m, err := env.milestones.Create(ctx, MilestoneInput{InitiativeID: in.ID, Year: year, Week: 12, Type: " Star ", Description: "Go-live"})
	if err != nil {
		t.Fatalf("milestone Create: %v", err)
	}
	if m.Type != "star" || m.CreatedBy != "editor@example.com" {
		t.Fatalf("milestone: got type=%s created_by=%s", m.Type, m.CreatedBy)
	}
	_, err = env.milestones.Create(ctx, MilestoneInput{InitiativeID: in.ID, Year: year, Week: 12, Type: "rocket"})
	wantAPIError(t, err, http.StatusBadRequest, "invalid_type")
	_, err = env.milestones.Create(ctx, MilestoneInput{InitiativeID: in.ID, Year: year, Week: 54, Type: "flag"})
	wantAPIError(t, err, http.StatusBadRequest, "invalid_week")
	_, err = env.milestones.Create(ctx, MilestoneInput{InitiativeID: 987654321, Year: year, Week: 1, Type: "flag"})
	wantAPIError(t, err, http.StatusNotFound, "not_found")

	list, err := env.milestones.List(ctx, repos.MilestoneFilter{InitiativeID: in.ID})
	if err != nil || len(list) != 1 {
		t.Fatalf("milestone List: want=1 got=%d err=%v", len(list), err)
	}
	if err := env.milestones.Delete(ctx, m.ID); err != nil {
		t.Fatalf("milestone Delete: %v", err)
	}
	err = env.milestones.Delete(ctx, m.ID)
	wantAPIError(t, err, http.StatusNotFound, "not_found")

	first, err := env.onePagers.Save(ctx, OnePagerInput{InitiativeID: in.ID, Year: year, Week: 12, Progress: "v1", Risks: "none"})
	if err != nil {
		t.Fatalf("one-pager Save: %v", err)
	}
	second, err := env.onePagers.Save(ctx, OnePagerInput{InitiativeID: in.ID, Year: year, Week: 12, Progress: "v2", NextSteps: "ship"})
	if err != nil {
		t.Fatalf("one-pager Save again: %v", err)
	}
	if second.ID != first.ID || second.ProgressText != "v2" || second.NextSteps != "ship" || second.Risks != "" {
		t.Fatalf("one-pager upsert: got=%+v", second)
	}
	pagers, err := env.onePagers.List(ctx, repos.OnePagerFilter{InitiativeID: in.ID})
	if err != nil || len(pagers) != 1 {
		t.Fatalf("one-pager List: want=1 got=%d err=%v", len(pagers), err)
	}
	if n := env.emit.count(realtime.SSEEventOnePagerSaved); n != 2 {
		t.Fatalf("OnePagerSaved events: want=2 got=%d", n)
	}
}
