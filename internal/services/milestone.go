package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/data/repos"
	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/domain/roadmap"
	"github.com/yungbote/roadmap-backend/internal/platform/apierr"
	"github.com/yungbote/roadmap-backend/internal/platform/ctxutil"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"github.com/yungbote/roadmap-backend/internal/realtime"
)

type MilestoneInput struct {
	InitiativeID uint   `json:"initiative_id"`
	Year         int    `json:"year"`
	Week         int    `json:"week"`
	Type         string `json:"type"`
	Description  string `json:"description"`
}

type MilestoneService interface {
	List(ctx context.Context, f repos.MilestoneFilter) ([]*types.Milestone, error)
	Create(ctx context.Context, in MilestoneInput) (*types.Milestone, error)
	Delete(ctx context.Context, id uint) error
}

type milestoneService struct {
	db          *gorm.DB
	log         *logger.Logger
	milestones  repos.MilestoneRepo
	initiatives repos.InitiativeRepo
	emit        SSEEmitter
}

func NewMilestoneService(db *gorm.DB, log *logger.Logger, milestones repos.MilestoneRepo, initiatives repos.InitiativeRepo, emit SSEEmitter) MilestoneService {
	return &milestoneService{
		db:          db,
		log:         log.With("service", "MilestoneService"),
		milestones:  milestones,
		initiatives: initiatives,
		emit:        emitterOrNop(emit),
	}
}

func (s *milestoneService) List(ctx context.Context, f repos.MilestoneFilter) ([]*types.Milestone, error) {
	return s.milestones.List(dbctx.Context{Ctx: ctx}, f)
}

func (s *milestoneService) Create(ctx context.Context, in MilestoneInput) (*types.Milestone, error) {
	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	if !roadmap.IsMilestoneType(in.Type) {
		return nil, apierr.BadRequest("invalid_type", "type must be one of: %s", strings.Join(roadmap.MilestoneTypes, ", "))
	}
	if !validYear(in.Year) {
		return nil, apierr.BadRequest("invalid_year", "year must be a four digit year")
	}
	if !validWeek(in.Week) {
		return nil, apierr.BadRequest("invalid_week", "week must be between 1 and 53")
	}
	dbc := dbctx.Context{Ctx: ctx}
	ok, err := s.initiatives.Exists(dbc, in.InitiativeID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apierr.NotFound("initiative")
	}
	m := &types.Milestone{
		InitiativeID: in.InitiativeID,
		Year:         in.Year,
		Week:         in.Week,
		Type:         in.Type,
		Description:  strings.TrimSpace(in.Description),
		CreatedBy:    ctxutil.Actor(ctx),
	}
	if err := s.milestones.Create(dbc, m); err != nil {
		return nil, err
	}
	s.emit.Emit(ctx, realtime.SSEMessage{Channel: realtime.ChannelRoadmap, Event: realtime.SSEEventMilestoneChanged, Data: m})
	return m, nil
}

func (s *milestoneService) Delete(ctx context.Context, id uint) error {
	n, err := s.milestones.Delete(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apierr.NotFound("milestone")
	}
	s.emit.Emit(ctx, realtime.SSEMessage{Channel: realtime.ChannelRoadmap, Event: realtime.SSEEventMilestoneChanged, Data: map[string]any{"id": id, "deleted": true}})
	return nil
}
