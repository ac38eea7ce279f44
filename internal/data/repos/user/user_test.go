package user

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/data/db"
	"github.com/yungbote/roadmap-backend/internal/data/repos/testutil"
	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)

	repo := NewUserRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	email := testutil.Unique("userrepo") + "@example.com"

	u := &types.User{Email: email, Password: "hash", Role: "editor"}
	if err := repo.Create(dbc, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == 0 {
		t.Fatalf("Create: expected id to be assigned")
	}

	got, err := repo.GetByEmail(dbc, email)
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != u.ID || got.Role != "editor" {
		t.Fatalf("GetByEmail: unexpected result: %+v", got)
	}

	exists, err := repo.EmailExists(dbc, email, 0)
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if !exists {
		t.Fatalf("EmailExists: expected true")
	}
	exists, err = repo.EmailExists(dbc, email, u.ID)
	if err != nil {
		t.Fatalf("EmailExists(except self): %v", err)
	}
	if exists {
		t.Fatalf("EmailExists(except self): expected false")
	}

	dup := &types.User{Email: email, Password: "hash", Role: "viewer"}
	if err := repo.Create(dbc, dup); !db.IsUniqueViolation(err) {
		t.Fatalf("Create duplicate: want unique violation got=%v", err)
	}
}

func TestUserRepoUpdateAndDelete(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()

	repo := NewUserRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	u := testutil.SeedUser(t, ctx, tx, testutil.Unique("upd")+"@example.com", "viewer", "password1")

	if err := repo.UpdateFields(dbc, u.ID, map[string]any{"role": "admin", "display_name": "Ana"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, err := repo.GetByID(dbc, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Role != "admin" || got.DisplayName != "Ana" {
		t.Fatalf("UpdateFields: want=admin/Ana got=%s/%s", got.Role, got.DisplayName)
	}

	if err := repo.UpdateFields(dbc, 999999, map[string]any{"role": "admin"}); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("UpdateFields missing: want=ErrRecordNotFound got=%v", err)
	}

	n, err := repo.Delete(dbc, u.ID)
	if err != nil || n != 1 {
		t.Fatalf("Delete: want=1 got=%d err=%v", n, err)
	}
	if _, err := repo.GetByID(dbc, u.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("GetByID after delete: want=ErrRecordNotFound got=%v", err)
	}
}

func TestPreferenceRepoPutOverwrites(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()

	repo := NewPreferenceRepo(gdb, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	u := testutil.SeedUser(t, ctx, tx, testutil.Unique("pref")+"@example.com", "viewer", "password1")

	if _, err := repo.Put(dbc, u.ID, "roadmap.columns", datatypes.JSON(`{"name":240}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := repo.Put(dbc, u.ID, "roadmap.columns", datatypes.JSON(`{"name":320}`))
	if err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	var cols map[string]int
	if err := json.Unmarshal(got.Value, &cols); err != nil {
		t.Fatalf("decode value: %v", err)
	}
	if cols["name"] != 320 {
		t.Fatalf("Put overwrite: want=320 got=%d", cols["name"])
	}
	if n := testutil.CountWhere(t, ctx, tx, &types.UserPreference{}, "user_id = ?", u.ID); n != 1 {
		t.Fatalf("rows: want=1 got=%d", n)
	}

	n, err := repo.Delete(dbc, u.ID, "roadmap.columns")
	if err != nil || n != 1 {
		t.Fatalf("Delete: want=1 got=%d err=%v", n, err)
	}
	if _, err := repo.Get(dbc, u.ID, "roadmap.columns"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("Get after delete: want=ErrRecordNotFound got=%v", err)
	}
}
