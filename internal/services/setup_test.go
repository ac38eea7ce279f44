package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/data/repos"
	"github.com/yungbote/roadmap-backend/internal/data/repos/testutil"
	"github.com/yungbote/roadmap-backend/internal/domain/roadmap"
	"github.com/yungbote/roadmap-backend/internal/domain/user"
	"github.com/yungbote/roadmap-backend/internal/platform/apierr"
	"github.com/yungbote/roadmap-backend/internal/platform/ctxutil"
	"github.com/yungbote/roadmap-backend/internal/realtime"
)

type recordingEmitter struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (e *recordingEmitter) Emit(_ context.Context, msg realtime.SSEMessage) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.msgs = append(e.msgs, msg)
}

func (e *recordingEmitter) last() (realtime.SSEMessage, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.msgs) == 0 {
		return realtime.SSEMessage{}, false
	}
	return e.msgs[len(e.msgs)-1], true
}

func (e *recordingEmitter) count(ev realtime.SSEEvent) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, m := range e.msgs {
		if m.Event == ev {
			n++
		}
	}
	return n
}

type testEnv struct {
	db          *gorm.DB
	emit        *recordingEmitter
	initiatives InitiativeService
	progress    ProgressService
	catalog     CatalogService
	milestones  MilestoneService
	onePagers   OnePagerService
	support     SupportService
	users       UserService
	prefs       PreferenceService
	dashboard   DashboardService
	sheets      SpreadsheetService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	emit := &recordingEmitter{}

	userRepo := repos.NewUserRepo(gdb, log)
	prefRepo := repos.NewPreferenceRepo(gdb, log)
	initiativeRepo := repos.NewInitiativeRepo(gdb, log)
	phaseRepo := repos.NewPhaseRepo(gdb, log)
	initiativePhaseRepo := repos.NewInitiativePhaseRepo(gdb, log)
	technologyRepo := repos.NewTechnologyRepo(gdb, log)
	progressRepo := repos.NewProgressRepo(gdb, log)
	milestoneRepo := repos.NewMilestoneRepo(gdb, log)
	onePagerRepo := repos.NewOnePagerRepo(gdb, log)
	supportRepo := repos.NewSupportItemRepo(gdb, log)

	initiatives := NewInitiativeService(gdb, log, initiativeRepo, phaseRepo, initiativePhaseRepo, technologyRepo, progressRepo, milestoneRepo, onePagerRepo, emit)
	users := NewUserService(gdb, log, userRepo, prefRepo)
	users.(*userService).bcryptCost = bcrypt.MinCost

	return &testEnv{
		db:          gdb,
		emit:        emit,
		initiatives: initiatives,
		progress:    NewProgressService(gdb, log, progressRepo, initiativeRepo, initiativePhaseRepo, emit),
		catalog:     NewCatalogService(gdb, log, phaseRepo, initiativeRepo, initiativePhaseRepo, emit),
		milestones:  NewMilestoneService(gdb, log, milestoneRepo, initiativeRepo, emit),
		onePagers:   NewOnePagerService(gdb, log, onePagerRepo, initiativeRepo, emit),
		support:     NewSupportService(gdb, log, supportRepo, emit),
		users:       users,
		prefs:       NewPreferenceService(gdb, log, prefRepo, emit),
		dashboard:   NewDashboardService(gdb, log, initiativeRepo, milestoneRepo, progressRepo, supportRepo),
		sheets:      NewSpreadsheetService(log, initiatives),
	}
}

var yearSeq atomic.Int64

// testYear hands out a year no other test uses, so a shared postgres database stays isolated.
func testYear() int {
	return 3000 + int(yearSeq.Add(1))
}

func editorCtx() context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{
		UserID: 4242,
		Email:  "editor@example.com",
		Role:   user.RoleEditor,
	})
}

func ptr[T any](v T) *T { return &v }

func initiativeInput(name string, year int) InitiativeInput {
	return InitiativeInput{
		Name:  ptr(name),
		Area:  ptr("Operaciones"),
		Year:  ptr(year),
		Value: ptr(roadmap.ValueOperational),
	}
}

func wantAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	ae, ok := apierr.As(err)
	if !ok {
		t.Fatalf("want api error %d/%s got=%v", status, code, err)
	}
	if ae.Status != status {
		t.Fatalf("status: want=%d got=%d (%v)", status, ae.Status, err)
	}
	if code != "" && ae.Code != code {
		t.Fatalf("code: want=%q got=%q (%v)", code, ae.Code, err)
	}
}
