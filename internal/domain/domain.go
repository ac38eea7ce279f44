package domain

import (
	"github.com/yungbote/roadmap-backend/internal/domain/roadmap"
	"github.com/yungbote/roadmap-backend/internal/domain/support"
	"github.com/yungbote/roadmap-backend/internal/domain/user"
)

type User = user.User
type UserPreference = user.Preference

type Initiative = roadmap.Initiative
type Technology = roadmap.Technology
type InitiativeTechnology = roadmap.InitiativeTechnology
type Phase = roadmap.Phase
type InitiativePhase = roadmap.InitiativePhase
type WeeklyProgress = roadmap.WeeklyProgress
type ProgressKey = roadmap.ProgressKey
type Milestone = roadmap.Milestone
type OnePager = roadmap.OnePager

type SupportItem = support.Item

// Models is the AutoMigrate set, in dependency order.
func Models() []any {
	return []any{
		&User{},
		&UserPreference{},
		&Phase{},
		&Initiative{},
		&Technology{},
		&InitiativeTechnology{},
		&InitiativePhase{},
		&WeeklyProgress{},
		&Milestone{},
		&OnePager{},
		&SupportItem{},
	}
}
