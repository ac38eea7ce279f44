package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/data/repos"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

type Repos struct {
	User            repos.UserRepo
	Preference      repos.PreferenceRepo
	Initiative      repos.InitiativeRepo
	Phase           repos.PhaseRepo
	InitiativePhase repos.InitiativePhaseRepo
	Technology      repos.TechnologyRepo
	Progress        repos.ProgressRepo
	Milestone       repos.MilestoneRepo
	OnePager        repos.OnePagerRepo
	SupportItem     repos.SupportItemRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:            repos.NewUserRepo(db, log),
		Preference:      repos.NewPreferenceRepo(db, log),
		Initiative:      repos.NewInitiativeRepo(db, log),
		Phase:           repos.NewPhaseRepo(db, log),
		InitiativePhase: repos.NewInitiativePhaseRepo(db, log),
		Technology:      repos.NewTechnologyRepo(db, log),
		Progress:        repos.NewProgressRepo(db, log),
		Milestone:       repos.NewMilestoneRepo(db, log),
		OnePager:        repos.NewOnePagerRepo(db, log),
		SupportItem:     repos.NewSupportItemRepo(db, log),
	}
}
