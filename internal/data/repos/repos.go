package repos

import (
	"github.com/yungbote/roadmap-backend/internal/data/repos/roadmap"
	"github.com/yungbote/roadmap-backend/internal/data/repos/support"
	"github.com/yungbote/roadmap-backend/internal/data/repos/user"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo
type PreferenceRepo = user.PreferenceRepo

type InitiativeRepo = roadmap.InitiativeRepo
type InitiativeFilter = roadmap.InitiativeFilter
type GroupCount = roadmap.GroupCount
type PhaseRepo = roadmap.PhaseRepo
type InitiativePhaseRepo = roadmap.InitiativePhaseRepo
type TechnologyRepo = roadmap.TechnologyRepo
type ProgressRepo = roadmap.ProgressRepo
type ProgressFilter = roadmap.ProgressFilter
type MilestoneRepo = roadmap.MilestoneRepo
type MilestoneFilter = roadmap.MilestoneFilter
type OnePagerRepo = roadmap.OnePagerRepo
type OnePagerFilter = roadmap.OnePagerFilter

type SupportItemRepo = support.SupportItemRepo
type SupportFilter = support.Filter
type SupportStatusCount = support.StatusCount

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return user.NewUserRepo(db, baseLog)
}
func NewPreferenceRepo(db *gorm.DB, baseLog *logger.Logger) PreferenceRepo {
	return user.NewPreferenceRepo(db, baseLog)
}

func NewInitiativeRepo(db *gorm.DB, baseLog *logger.Logger) InitiativeRepo {
	return roadmap.NewInitiativeRepo(db, baseLog)
}
func NewPhaseRepo(db *gorm.DB, baseLog *logger.Logger) PhaseRepo {
	return roadmap.NewPhaseRepo(db, baseLog)
}
func NewInitiativePhaseRepo(db *gorm.DB, baseLog *logger.Logger) InitiativePhaseRepo {
	return roadmap.NewInitiativePhaseRepo(db, baseLog)
}
func NewTechnologyRepo(db *gorm.DB, baseLog *logger.Logger) TechnologyRepo {
	return roadmap.NewTechnologyRepo(db, baseLog)
}
func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	return roadmap.NewProgressRepo(db, baseLog)
}
func NewMilestoneRepo(db *gorm.DB, baseLog *logger.Logger) MilestoneRepo {
	return roadmap.NewMilestoneRepo(db, baseLog)
}
func NewOnePagerRepo(db *gorm.DB, baseLog *logger.Logger) OnePagerRepo {
	return roadmap.NewOnePagerRepo(db, baseLog)
}

func NewSupportItemRepo(db *gorm.DB, baseLog *logger.Logger) SupportItemRepo {
	return support.NewSupportItemRepo(db, baseLog)
}
