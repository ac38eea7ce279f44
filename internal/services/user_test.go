package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/yungbote/roadmap-backend/internal/data/repos/testutil"
	"github.com/yungbote/roadmap-backend/internal/domain/user"
	"github.com/yungbote/roadmap-backend/internal/platform/ctxutil"
)

func TestUserServiceCreateValidates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	email := testutil.Unique("Mixed.Case") + "@Example.com"

	u, err := env.users.Create(ctx, UserInput{Email: ptr(email), Password: ptr("longenough")})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Email != user.NormalizeEmail(email) {
		t.Fatalf("email: want=%s got=%s", user.NormalizeEmail(email), u.Email)
	}
	if u.Role != user.RoleViewer {
		t.Fatalf("default role: want=viewer got=%s", u.Role)
	}
	if u.Password == "longenough" {
		t.Fatalf("password stored in clear")
	}

	_, err = env.users.Create(ctx, UserInput{Email: ptr(email), Password: ptr("longenough")})
	wantAPIError(t, err, http.StatusConflict, "email_taken")

	_, err = env.users.Create(ctx, UserInput{Email: ptr(testutil.Unique("short") + "@example.com"), Password: ptr("short")})
	wantAPIError(t, err, http.StatusBadRequest, "weak_password")

	_, err = env.users.Create(ctx, UserInput{Email: ptr(testutil.Unique("role") + "@example.com"), Password: ptr("longenough"), Role: ptr("owner")})
	wantAPIError(t, err, http.StatusBadRequest, "invalid_role")

	_, err = env.users.Create(ctx, UserInput{Email: ptr("not-an-email"), Password: ptr("longenough")})
	wantAPIError(t, err, http.StatusBadRequest, "invalid_email")
}

func TestUserServiceUpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a, err := env.users.Create(ctx, UserInput{Email: ptr(testutil.Unique("a") + "@example.com"), Password: ptr("longenough")})
	if err != nil {
		t.Fatalf("Create a: %v", err)
	}
	b, err := env.users.Create(ctx, UserInput{Email: ptr(testutil.Unique("b") + "@example.com"), Password: ptr("longenough")})
	if err != nil {
		t.Fatalf("Create b: %v", err)
	}

	out, err := env.users.Update(ctx, a.ID, UserInput{Role: ptr(user.RoleEditor), DisplayName: ptr(" Ana ")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if out.Role != user.RoleEditor || out.DisplayName != "Ana" {
		t.Fatalf("Update: got role=%s name=%q", out.Role, out.DisplayName)
	}

	_, err = env.users.Update(ctx, a.ID, UserInput{Email: ptr(b.Email)})
	wantAPIError(t, err, http.StatusConflict, "email_taken")
	_, err = env.users.Update(ctx, a.ID, UserInput{Password: ptr("1234567")})
	wantAPIError(t, err, http.StatusBadRequest, "weak_password")
	_, err = env.users.Update(ctx, 987654321, UserInput{DisplayName: ptr("x")})
	wantAPIError(t, err, http.StatusNotFound, "not_found")

	self := ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: a.ID, Role: user.RoleAdmin})
	err = env.users.Delete(self, a.ID)
	wantAPIError(t, err, http.StatusBadRequest, "cannot_delete_self")

	if err := env.users.Delete(self, b.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err = env.users.Get(ctx, b.ID)
	wantAPIError(t, err, http.StatusNotFound, "not_found")
	err = env.users.Delete(self, b.ID)
	wantAPIError(t, err, http.StatusNotFound, "not_found")
}

func TestUserServiceEnsureAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	email := testutil.Unique("root") + "@example.com"

	created, err := env.users.EnsureAdmin(ctx, email, "bootstrap-pass")
	if err != nil || !created {
		t.Fatalf("EnsureAdmin first: want=true got=%v err=%v", created, err)
	}
	created, err = env.users.EnsureAdmin(ctx, email, "bootstrap-pass")
	if err != nil || created {
		t.Fatalf("EnsureAdmin second: want=false got=%v err=%v", created, err)
	}
	if created, _ := env.users.EnsureAdmin(ctx, "", ""); created {
		t.Fatalf("EnsureAdmin without credentials should be a no-op")
	}
}
