package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/yungbote/roadmap-backend/internal/data/repos"
	"github.com/yungbote/roadmap-backend/internal/data/repos/testutil"
	"github.com/yungbote/roadmap-backend/internal/domain/user"
	"github.com/yungbote/roadmap-backend/internal/platform/ctxutil"
)

func TestMemoryLoginLimiterWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	l := NewMemoryLoginLimiter(3, 15*time.Minute).(*memoryLimiter)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		locked, _, _ := l.Locked(ctx, "a@example.com")
		if locked {
			t.Fatalf("attempt %d: locked too early", i+1)
		}
		_ = l.Fail(ctx, "a@example.com")
	}
	locked, retry, _ := l.Locked(ctx, "a@example.com")
	if !locked || retry != 15*time.Minute {
		t.Fatalf("after 3 failures: want locked for 15m got=%v %v", locked, retry)
	}
	if other, _, _ := l.Locked(ctx, "b@example.com"); other {
		t.Fatalf("lockout leaked to another key")
	}

	now = now.Add(15 * time.Minute)
	if locked, _, _ := l.Locked(ctx, "a@example.com"); locked {
		t.Fatalf("lock should expire with the window")
	}

	_ = l.Fail(ctx, "a@example.com")
	_ = l.Reset(ctx, "a@example.com")
	if n := len(l.state); n != 0 {
		t.Fatalf("state after reset: want=0 got=%d", n)
	}
}

func TestRoleSatisfies(t *testing.T) {
	cases := []struct {
		have, required string
		want           bool
	}{
		{user.RoleAdmin, user.RoleAdmin, true},
		{user.RoleAdmin, user.RoleEditor, true},
		{user.RoleEditor, user.RoleEditor, true},
		{user.RoleEditor, user.RoleAdmin, false},
		{user.RoleViewer, user.RoleEditor, false},
		{user.RoleAdmin, user.RoleViewer, false},
		{"", user.RoleViewer, false},
	}
	for _, tc := range cases {
		if got := RoleSatisfies(tc.have, tc.required); got != tc.want {
			t.Fatalf("RoleSatisfies(%q, %q): want=%v got=%v", tc.have, tc.required, tc.want, got)
		}
	}
}

func newAuthForTest(t *testing.T) (AuthService, UserService, string) {
	t.Helper()
	env := newTestEnv(t)
	log := testutil.Logger(t)
	email := testutil.Unique("login") + "@example.com"
	if _, err := env.users.Create(context.Background(), UserInput{
		Email:    ptr(email),
		Password: ptr("correct-horse"),
		Role:     ptr(user.RoleEditor),
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	auth := NewAuthService(env.db, log, repos.NewUserRepo(env.db, log), nil, "test-secret", time.Hour)
	return auth, env.users, email
}

func TestAuthLoginIssuesParsableToken(t *testing.T) {
	auth, _, email := newAuthForTest(t)
	ctx := context.Background()

	res, err := auth.Login(ctx, "  "+email+"  ", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.ExpiresIn != 3600 {
		t.Fatalf("expires_in: want=3600 got=%d", res.ExpiresIn)
	}
	if res.User == nil || res.User.Email != email {
		t.Fatalf("user: want=%s got=%+v", email, res.User)
	}

	authed, err := auth.SetContextFromToken(ctx, res.Token)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := ctxutil.GetRequestData(authed)
	if rd == nil || rd.UserID != res.User.ID || rd.Role != user.RoleEditor || rd.Email != email {
		t.Fatalf("request data: got=%+v", rd)
	}
	me, err := auth.Me(authed)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if me.ID != res.User.ID {
		t.Fatalf("Me: want=%d got=%d", res.User.ID, me.ID)
	}

	_, err = auth.SetContextFromToken(ctx, res.Token+"x")
	wantAPIError(t, err, http.StatusUnauthorized, "unauthorized")
	_, err = auth.SetContextFromToken(ctx, "")
	wantAPIError(t, err, http.StatusUnauthorized, "unauthorized")
}

func TestAuthLoginRejectsAndLocksOut(t *testing.T) {
	auth, _, email := newAuthForTest(t)
	ctx := context.Background()

	_, err := auth.Login(ctx, "nobody@example.com", "whatever1")
	wantAPIError(t, err, http.StatusUnauthorized, "invalid_credentials")

	for i := 0; i < MaxFailedLoginAttempts; i++ {
		_, err := auth.Login(ctx, email, "wrong-password")
		wantAPIError(t, err, http.StatusUnauthorized, "invalid_credentials")
	}
	_, err = auth.Login(ctx, email, "correct-horse")
	wantAPIError(t, err, http.StatusTooManyRequests, "too_many_attempts")
}

func TestAuthExpiredToken(t *testing.T) {
	auth, _, email := newAuthForTest(t)
	ctx := context.Background()

	res, err := auth.Login(ctx, email, "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	as := auth.(*authService)
	as.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = auth.SetContextFromToken(ctx, res.Token)
	wantAPIError(t, err, http.StatusUnauthorized, "unauthorized")
}
