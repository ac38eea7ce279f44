package services

import (
	"context"
	"encoding/json"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/data/repos"
	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/platform/apierr"
	"github.com/yungbote/roadmap-backend/internal/platform/ctxutil"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"github.com/yungbote/roadmap-backend/internal/realtime"
)

const maxPreferenceKeyLength = 128

// PreferenceService stores per-user client state (grid column widths, collapsed rows, filters).
type PreferenceService interface {
	Get(ctx context.Context, key string) (*types.UserPreference, error)
	Put(ctx context.Context, key string, value json.RawMessage) (*types.UserPreference, error)
	Delete(ctx context.Context, key string) error
}

type preferenceService struct {
	db    *gorm.DB
	log   *logger.Logger
	prefs repos.PreferenceRepo
	emit  SSEEmitter
}

func NewPreferenceService(db *gorm.DB, log *logger.Logger, prefs repos.PreferenceRepo, emit SSEEmitter) PreferenceService {
	return &preferenceService{
		db:    db,
		log:   log.With("service", "PreferenceService"),
		prefs: prefs,
		emit:  emitterOrNop(emit),
	}
}

func callerAndKey(ctx context.Context, key string) (uint, string, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == 0 {
		return 0, "", apierr.Unauthorized("not authenticated")
	}
	key = strings.TrimSpace(key)
	if key == "" || len(key) > maxPreferenceKeyLength {
		return 0, "", apierr.BadRequest("invalid_key", "preference key must be 1-%d characters", maxPreferenceKeyLength)
	}
	return rd.UserID, key, nil
}

func (s *preferenceService) Get(ctx context.Context, key string) (*types.UserPreference, error) {
	userID, key, err := callerAndKey(ctx, key)
	if err != nil {
		return nil, err
	}
	p, err := s.prefs.Get(dbctx.Context{Ctx: ctx}, userID, key)
	if err != nil {
		return nil, notFound(err, "preference")
	}
	return p, nil
}

func (s *preferenceService) Put(ctx context.Context, key string, value json.RawMessage) (*types.UserPreference, error) {
	userID, key, err := callerAndKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(value) == 0 || !json.Valid(value) {
		return nil, apierr.BadRequest("invalid_json", "preference value must be valid JSON")
	}
	p, err := s.prefs.Put(dbctx.Context{Ctx: ctx}, userID, key, datatypes.JSON(value))
	if err != nil {
		return nil, err
	}
	s.emit.Emit(ctx, realtime.SSEMessage{Channel: realtime.UserChannel(userID), Event: realtime.SSEEventPreferenceChanged, Data: p})
	return p, nil
}

func (s *preferenceService) Delete(ctx context.Context, key string) error {
	userID, key, err := callerAndKey(ctx, key)
	if err != nil {
		return err
	}
	n, err := s.prefs.Delete(dbctx.Context{Ctx: ctx}, userID, key)
	if err != nil {
		return err
	}
	if n == 0 {
		return apierr.NotFound("preference")
	}
	s.emit.Emit(ctx, realtime.SSEMessage{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.SSEEventPreferenceChanged,
		Data:    map[string]any{"key": key, "deleted": true},
	})
	return nil
}
