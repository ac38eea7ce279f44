package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/data/db"
	"github.com/yungbote/roadmap-backend/internal/data/repos"
	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/domain/roadmap"
	"github.com/yungbote/roadmap-backend/internal/platform/apierr"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"github.com/yungbote/roadmap-backend/internal/realtime"
)

type PhaseInput struct {
	Name         string `json:"name"`
	Methodology  string `json:"methodology"`
	DefaultOrder *int   `json:"default_order"`
}

type AddPhaseResult struct {
	Phase   *types.Phase `json:"phase"`
	Stamped int          `json:"stamped"`
}

// CatalogService owns the global phase catalog and its repair.
type CatalogService interface {
	List(ctx context.Context, methodology string) ([]*types.Phase, error)
	AddPhase(ctx context.Context, in PhaseInput) (*AddPhaseResult, error)
	Repair(ctx context.Context) (*db.RepairReport, error)
}

type catalogService struct {
	db              *gorm.DB
	log             *logger.Logger
	phases          repos.PhaseRepo
	initiatives     repos.InitiativeRepo
	initiativePhase repos.InitiativePhaseRepo
	emit            SSEEmitter
}

func NewCatalogService(
	db *gorm.DB,
	log *logger.Logger,
	phases repos.PhaseRepo,
	initiatives repos.InitiativeRepo,
	initiativePhase repos.InitiativePhaseRepo,
	emit SSEEmitter,
) CatalogService {
	return &catalogService{
		db:              db,
		log:             log.With("service", "CatalogService"),
		phases:          phases,
		initiatives:     initiatives,
		initiativePhase: initiativePhase,
		emit:            emitterOrNop(emit),
	}
}

func (s *catalogService) List(ctx context.Context, methodology string) ([]*types.Phase, error) {
	methodology = strings.TrimSpace(methodology)
	if methodology != "" && !roadmap.IsMethodology(methodology) {
		return nil, apierr.BadRequest("invalid_methodology", "methodology must be one of: %s", strings.Join(roadmap.Methodologies, ", "))
	}
	return s.phases.List(dbctx.Context{Ctx: ctx}, methodology)
}

// AddPhase inserts a catalog phase and stamps it onto every initiative of that methodology.
func (s *catalogService) AddPhase(ctx context.Context, in PhaseInput) (*AddPhaseResult, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apierr.BadRequest("invalid_name", "name is required")
	}
	methodology := strings.TrimSpace(in.Methodology)
	if !roadmap.IsMethodology(methodology) {
		return nil, apierr.BadRequest("invalid_methodology", "methodology must be one of: %s", strings.Join(roadmap.Methodologies, ", "))
	}

	res := &AddPhaseResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		existing, err := s.phases.List(dbc, methodology)
		if err != nil {
			return err
		}
		maxOrder := 0
		for _, p := range existing {
			if strings.EqualFold(strings.TrimSpace(p.Name), name) {
				return apierr.Conflict("phase_exists", "phase %q already exists for %s", name, methodology)
			}
			if p.DefaultOrder > maxOrder {
				maxOrder = p.DefaultOrder
			}
		}
		order := maxOrder + 1
		if in.DefaultOrder != nil && *in.DefaultOrder > 0 {
			order = *in.DefaultOrder
		}
		phase := &types.Phase{Name: name, Methodology: methodology, DefaultOrder: order}
		if err := s.phases.Create(dbc, phase); err != nil {
			return fmt.Errorf("insert phase: %w", err)
		}
		ids, err := s.initiatives.IDsByMethodology(dbc, methodology)
		if err != nil {
			return err
		}
		rows := make([]*types.InitiativePhase, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, &types.InitiativePhase{InitiativeID: id, PhaseID: phase.ID, CustomOrder: order, Active: true})
		}
		if err := s.initiativePhase.CreateMany(dbc, rows); err != nil {
			return fmt.Errorf("stamp phase: %w", err)
		}
		res.Phase = phase
		res.Stamped = len(rows)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Catalog phase added", "phase_id", res.Phase.ID, "methodology", methodology, "stamped", res.Stamped)
	s.emit.Emit(ctx, realtime.SSEMessage{Channel: realtime.ChannelRoadmap, Event: realtime.SSEEventCatalogChanged, Data: res})
	return res, nil
}

func (s *catalogService) Repair(ctx context.Context) (*db.RepairReport, error) {
	report, err := db.Repair(s.db.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("repair: %w", err)
	}
	s.log.Info("Repair finished", "changes", report.Total())
	if report.Total() > 0 {
		s.emit.Emit(ctx, realtime.SSEMessage{Channel: realtime.ChannelRoadmap, Event: realtime.SSEEventCatalogChanged, Data: report})
	}
	return report, nil
}
