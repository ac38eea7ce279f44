package services

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/roadmap-backend/internal/data/repos"
	"github.com/yungbote/roadmap-backend/internal/data/repos/testutil"
	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/realtime"
)

var errBoom = errors.New("boom")

// failingTechnologyRepo fails after the initiative and its phases are written.
type failingTechnologyRepo struct {
	repos.TechnologyRepo
	seen uint
}

func (r *failingTechnologyRepo) ReplaceForInitiative(_ dbctx.Context, initiativeID uint, _ []uint) error {
	r.seen = initiativeID
	return errBoom
}

type failingProgressUpdateRepo struct {
	repos.InitiativeRepo
}

func (failingProgressUpdateRepo) UpdateFields(dbctx.Context, uint, map[string]any) error {
	return errBoom
}

type failingMilestoneRepo struct {
	repos.MilestoneRepo
}

func (failingMilestoneRepo) DeleteByInitiative(dbctx.Context, uint) (int64, error) {
	return 0, errBoom
}

// withInitiativeRepos returns a copy of the env's initiative service with some repos swapped.
func withInitiativeRepos(t *testing.T, env *testEnv, swap func(s *initiativeService)) InitiativeService {
	t.Helper()
	base, ok := env.initiatives.(*initiativeService)
	if !ok {
		t.Fatalf("initiative service: unexpected type %T", env.initiatives)
	}
	cp := *base
	swap(&cp)
	return &cp
}

func TestInitiativeCreateRollsBackOnLateFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := editorCtx()
	year := testYear()

	techs := &failingTechnologyRepo{}
	svc := withInitiativeRepos(t, env, func(s *initiativeService) {
		techs.TechnologyRepo = s.technologies
		s.technologies = techs
	})

	in := initiativeInput("Half written", year)
	in.Technologies = ptr([]string{"Spark"})
	if _, err := svc.Create(ctx, in); !errors.Is(err, errBoom) {
		t.Fatalf("Create: want=%v got=%v", errBoom, err)
	}
	if techs.seen == 0 {
		t.Fatalf("technology step never reached")
	}

	bg := context.Background()
	if n := testutil.CountWhere(t, bg, env.db, &types.Initiative{}, "id = ?", techs.seen); n != 0 {
		t.Fatalf("initiative rows: want=0 got=%d", n)
	}
	if n := testutil.CountWhere(t, bg, env.db, &types.InitiativePhase{}, "initiative_id = ?", techs.seen); n != 0 {
		t.Fatalf("initiative_phases rows: want=0 got=%d", n)
	}
	if n := testutil.CountWhere(t, bg, env.db, &types.Initiative{}, "year = ?", year); n != 0 {
		t.Fatalf("initiatives in year %d: want=0 got=%d", year, n)
	}
	if n := env.emit.count(realtime.SSEEventInitiativeChanged); n != 0 {
		t.Fatalf("InitiativeChanged events: want=0 got=%d", n)
	}
}

func TestInitiativePatchPhaseRollsBackWhenRecomputeFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := editorCtx()

	created, err := env.initiatives.Create(ctx, initiativeInput("Patch rollback", testYear()))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	phaseID := created.Phases[0].PhaseID

	svc := withInitiativeRepos(t, env, func(s *initiativeService) {
		s.initiatives = failingProgressUpdateRepo{s.initiatives}
	})
	if _, err := svc.PatchPhase(ctx, created.ID, phaseID, PhasePatch{Progress: ptr(80)}); !errors.Is(err, errBoom) {
		t.Fatalf("PatchPhase: want=%v got=%v", errBoom, err)
	}

	phases, err := env.initiatives.ListPhases(ctx, created.ID)
	if err != nil {
		t.Fatalf("ListPhases: %v", err)
	}
	for _, p := range phases {
		if p.PhaseID == phaseID && p.Progress != 0 {
			t.Fatalf("phase progress after rollback: want=0 got=%d", p.Progress)
		}
	}
}

func TestInitiativeDeleteRollsBackOnCascadeFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := editorCtx()
	year := testYear()

	created, err := env.initiatives.Create(ctx, initiativeInput("Survivor", year))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := env.progress.Upsert(ctx, ProgressInput{InitiativeID: created.ID, Year: year, Week: 2, Status: 1}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := env.milestones.Create(ctx, MilestoneInput{InitiativeID: created.ID, Year: year, Week: 2, Type: "star"}); err != nil {
		t.Fatalf("milestone: %v", err)
	}

	svc := withInitiativeRepos(t, env, func(s *initiativeService) {
		s.milestones = failingMilestoneRepo{s.milestones}
	})
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, errBoom) {
		t.Fatalf("Delete: want=%v got=%v", errBoom, err)
	}

	bg := context.Background()
	for _, tc := range []struct {
		name  string
		model any
		want  int64
	}{
		{"weekly_progress", &types.WeeklyProgress{}, 1},
		{"initiative_phases", &types.InitiativePhase{}, int64(len(created.Phases))},
		{"initiative_milestones", &types.Milestone{}, 1},
	} {
		if n := testutil.CountWhere(t, bg, env.db, tc.model, "initiative_id = ?", created.ID); n != tc.want {
			t.Fatalf("%s rows: want=%d got=%d", tc.name, tc.want, n)
		}
	}
	if n := testutil.CountWhere(t, bg, env.db, &types.Initiative{}, "id = ?", created.ID); n != 1 {
		t.Fatalf("initiative row: want=1 got=%d", n)
	}
}
