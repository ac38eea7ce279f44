package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/data/repos"
	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/domain/support"
	"github.com/yungbote/roadmap-backend/internal/platform/apierr"
	"github.com/yungbote/roadmap-backend/internal/platform/ctxutil"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"github.com/yungbote/roadmap-backend/internal/realtime"
)

type SupportItemInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Area        *string `json:"area"`
	Technology  *string `json:"technology"`
	Champion    *string `json:"champion"`
	Responsible *string `json:"responsible"`
	Status      *string `json:"status"`
	Position    *int    `json:"position"`
}

type SupportService interface {
	List(ctx context.Context, f repos.SupportFilter) ([]*types.SupportItem, error)
	Create(ctx context.Context, in SupportItemInput) (*types.SupportItem, error)
	Update(ctx context.Context, id uint, in SupportItemInput) (*types.SupportItem, error)
	Delete(ctx context.Context, id uint) error
}

type supportService struct {
	db    *gorm.DB
	log   *logger.Logger
	items repos.SupportItemRepo
	emit  SSEEmitter
}

func NewSupportService(db *gorm.DB, log *logger.Logger, items repos.SupportItemRepo, emit SSEEmitter) SupportService {
	return &supportService{
		db:    db,
		log:   log.With("service", "SupportService"),
		items: items,
		emit:  emitterOrNop(emit),
	}
}

func invalidSupportStatus() error {
	return apierr.BadRequest("invalid_status", "status must be one of: %s", strings.Join(support.Statuses, ", "))
}

func (s *supportService) List(ctx context.Context, f repos.SupportFilter) ([]*types.SupportItem, error) {
	if f.Status != "" && !support.IsStatus(f.Status) {
		return nil, invalidSupportStatus()
	}
	return s.items.List(dbctx.Context{Ctx: ctx}, f)
}

func (s *supportService) Create(ctx context.Context, in SupportItemInput) (*types.SupportItem, error) {
	title := trimmed(in.Title)
	if title == "" {
		return nil, apierr.BadRequest("invalid_title", "title is required")
	}
	status := trimmed(in.Status)
	if status == "" {
		status = support.StatusNew
	}
	if !support.IsStatus(status) {
		return nil, invalidSupportStatus()
	}

	var out *types.SupportItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		pos, err := s.items.NextPosition(dbc, status)
		if err != nil {
			return err
		}
		if in.Position != nil && *in.Position >= 0 {
			pos = *in.Position
		}
		out = &types.SupportItem{
			Title:       title,
			Description: trimmed(in.Description),
			Area:        trimmed(in.Area),
			Technology:  trimmed(in.Technology),
			Champion:    trimmed(in.Champion),
			Responsible: trimmed(in.Responsible),
			Status:      status,
			Position:    pos,
			CreatedBy:   ctxutil.Actor(ctx),
		}
		return s.items.Create(dbc, out)
	})
	if err != nil {
		return nil, err
	}
	s.emit.Emit(ctx, realtime.SSEMessage{Channel: realtime.ChannelRoadmap, Event: realtime.SSEEventSupportChanged, Data: out})
	return out, nil
}

func (s *supportService) Update(ctx context.Context, id uint, in SupportItemInput) (*types.SupportItem, error) {
	updates := map[string]any{}
	if in.Title != nil {
		t := trimmed(in.Title)
		if t == "" {
			return nil, apierr.BadRequest("invalid_title", "title cannot be empty")
		}
		updates["title"] = t
	}
	if in.Status != nil {
		st := trimmed(in.Status)
		if !support.IsStatus(st) {
			return nil, invalidSupportStatus()
		}
		updates["status"] = st
	}
	for col, p := range map[string]*string{
		"description": in.Description,
		"area":        in.Area,
		"technology":  in.Technology,
		"champion":    in.Champion,
		"responsible": in.Responsible,
	} {
		if p != nil {
			updates[col] = strings.TrimSpace(*p)
		}
	}
	if in.Position != nil {
		if *in.Position < 0 {
			return nil, apierr.BadRequest("invalid_position", "position cannot be negative")
		}
		updates["position"] = *in.Position
	}

	dbc := dbctx.Context{Ctx: ctx}
	if err := s.items.UpdateFields(dbc, id, updates); err != nil {
		return nil, notFound(err, "support item")
	}
	out, err := s.items.GetByID(dbc, id)
	if err != nil {
		return nil, notFound(err, "support item")
	}
	s.emit.Emit(ctx, realtime.SSEMessage{Channel: realtime.ChannelRoadmap, Event: realtime.SSEEventSupportChanged, Data: out})
	return out, nil
}

func (s *supportService) Delete(ctx context.Context, id uint) error {
	n, err := s.items.Delete(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return apierr.NotFound("support item")
	}
	s.emit.Emit(ctx, realtime.SSEMessage{Channel: realtime.ChannelRoadmap, Event: realtime.SSEEventSupportChanged, Data: map[string]any{"id": id, "deleted": true}})
	return nil
}
