package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/data/repos"
	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/platform/apierr"
	"github.com/yungbote/roadmap-backend/internal/platform/ctxutil"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"github.com/yungbote/roadmap-backend/internal/realtime"
)

type OnePagerInput struct {
	InitiativeID uint   `json:"initiative_id"`
	Year         int    `json:"year"`
	Week         int    `json:"week"`
	Progress     string `json:"progress"`
	NextSteps    string `json:"next_steps"`
	Risks        string `json:"risks"`
}

type OnePagerService interface {
	List(ctx context.Context, f repos.OnePagerFilter) ([]*types.OnePager, error)
	Save(ctx context.Context, in OnePagerInput) (*types.OnePager, error)
}

type onePagerService struct {
	db          *gorm.DB
	log         *logger.Logger
	onePagers   repos.OnePagerRepo
	initiatives repos.InitiativeRepo
	emit        SSEEmitter
}

func NewOnePagerService(db *gorm.DB, log *logger.Logger, onePagers repos.OnePagerRepo, initiatives repos.InitiativeRepo, emit SSEEmitter) OnePagerService {
	return &onePagerService{
		db:          db,
		log:         log.With("service", "OnePagerService"),
		onePagers:   onePagers,
		initiatives: initiatives,
		emit:        emitterOrNop(emit),
	}
}

func (s *onePagerService) List(ctx context.Context, f repos.OnePagerFilter) ([]*types.OnePager, error) {
	return s.onePagers.List(dbctx.Context{Ctx: ctx}, f)
}

// Save upserts the report for (initiative, year, week).
func (s *onePagerService) Save(ctx context.Context, in OnePagerInput) (*types.OnePager, error) {
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
	out, err := s.onePagers.Upsert(dbc, &types.OnePager{
		InitiativeID: in.InitiativeID,
		Year:         in.Year,
		Week:         in.Week,
		ProgressText: in.Progress,
		NextSteps:    in.NextSteps,
		Risks:        in.Risks,
		UpdatedBy:    ctxutil.Actor(ctx),
	})
	if err != nil {
		return nil, err
	}
	s.emit.Emit(ctx, realtime.SSEMessage{Channel: realtime.ChannelRoadmap, Event: realtime.SSEEventOnePagerSaved, Data: out})
	return out, nil
}
