package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/data/db"
	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/domain/roadmap"
	"github.com/yungbote/roadmap-backend/internal/domain/user"
)

var seq atomic.Int64

// Unique returns prefix with a process-wide counter appended.
func Unique(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, seq.Add(1))
}

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email, role, password string) *types.User {
	tb.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		tb.Fatalf("hash password: %v", err)
	}
	u := &types.User{
		Email:    user.NormalizeEmail(email),
		Password: string(hash),
		Role:     role,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedInitiative inserts a Hibrida initiative and stamps its catalog phases.
func SeedInitiative(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, year int) *types.Initiative {
	tb.Helper()
	v := roadmap.ValueOperational
	in := &types.Initiative{
		Name:        name,
		Area:        "Finanzas",
		Year:        year,
		Value:       &v,
		Methodology: roadmap.MethodologyHybrid,
		CustomOrder: int(seq.Add(1)),
	}
	if err := tx.WithContext(ctx).Create(in).Error; err != nil {
		tb.Fatalf("seed initiative: %v", err)
	}
	if _, err := db.BackfillInitiativePhases(tx.WithContext(ctx)); err != nil {
		tb.Fatalf("stamp phases: %v", err)
	}
	return in
}

func InitiativePhases(tb testing.TB, ctx context.Context, tx *gorm.DB, initiativeID uint) []types.InitiativePhase {
	tb.Helper()
	var out []types.InitiativePhase
	if err := tx.WithContext(ctx).
		Where("initiative_id = ?", initiativeID).
		Order("custom_order ASC, id ASC").
		Find(&out).Error; err != nil {
		tb.Fatalf("load initiative phases: %v", err)
	}
	return out
}

func CountWhere(tb testing.TB, ctx context.Context, tx *gorm.DB, model any, query string, args ...any) int64 {
	tb.Helper()
	var n int64
	if err := tx.WithContext(ctx).Model(model).Where(query, args...).Count(&n).Error; err != nil {
		tb.Fatalf("count: %v", err)
	}
	return n
}
