package services

import (
	"context"
	"errors"
	"time"

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

type ProgressInput struct {
	InitiativeID uint   `json:"initiative_id"`
	PhaseID      *uint  `json:"phase_id"`
	Year         int    `json:"year"`
	Week         int    `json:"week"`
	Status       int    `json:"status"`
	Comment      string `json:"comment"`

	// ExpectedUpdatedAt opts into conflict detection: the write fails when the stored cell changed.
	ExpectedUpdatedAt *time.Time `json:"expected_updated_at"`
}

// ProgressCell is the API shape of a grid cell.
type ProgressCell struct {
	ID           uint      `json:"id"`
	Key          string    `json:"key"`
	InitiativeID uint      `json:"initiative_id"`
	PhaseID      *uint     `json:"phase_id"`
	Year         int       `json:"year"`
	Week         int       `json:"week"`
	Status       int       `json:"status"`
	StatusLabel  string    `json:"status_label"`
	Comment      string    `json:"comment"`
	UpdatedBy    string    `json:"updated_by"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewProgressCell(w *types.WeeklyProgress) ProgressCell {
	k := w.Key()
	return ProgressCell{
		ID:           w.ID,
		Key:          k.CellKey(),
		InitiativeID: w.InitiativeID,
		PhaseID:      w.PhaseRef(),
		Year:         w.Year,
		Week:         w.Week,
		Status:       w.Status,
		StatusLabel:  roadmap.StatusLabels[w.Status],
		Comment:      w.Comment,
		UpdatedBy:    w.UpdatedBy,
		UpdatedAt:    w.UpdatedAt,
	}
}

func newProgressCells(rows []*types.WeeklyProgress) []ProgressCell {
	out := make([]ProgressCell, 0, len(rows))
	for _, r := range rows {
		out = append(out, NewProgressCell(r))
	}
	return out
}

type ProgressService interface {
	// History lists one initiative's cells; year nil means every year.
	History(ctx context.Context, initiativeID uint, year *int) ([]ProgressCell, error)
	// Grid lists every cell of one year.
	Grid(ctx context.Context, year int) ([]ProgressCell, error)
	Upsert(ctx context.Context, in ProgressInput) (*ProgressCell, error)
	Weeks(year int) ([]WeekColumn, error)
}

type progressService struct {
	db              *gorm.DB
	log             *logger.Logger
	progress        repos.ProgressRepo
	initiatives     repos.InitiativeRepo
	initiativePhase repos.InitiativePhaseRepo
	emit            SSEEmitter
}

func NewProgressService(
	db *gorm.DB,
	log *logger.Logger,
	progress repos.ProgressRepo,
	initiatives repos.InitiativeRepo,
	initiativePhase repos.InitiativePhaseRepo,
	emit SSEEmitter,
) ProgressService {
	return &progressService{
		db:              db,
		log:             log.With("service", "ProgressService"),
		progress:        progress,
		initiatives:     initiatives,
		initiativePhase: initiativePhase,
		emit:            emitterOrNop(emit),
	}
}

func (s *progressService) History(ctx context.Context, initiativeID uint, year *int) ([]ProgressCell, error) {
	if initiativeID == 0 {
		return nil, apierr.BadRequest("invalid_initiative", "initiative_id is required")
	}
	rows, err := s.progress.List(dbctx.Context{Ctx: ctx}, repos.ProgressFilter{InitiativeID: initiativeID, Year: year})
	if err != nil {
		return nil, err
	}
	return newProgressCells(rows), nil
}

func (s *progressService) Grid(ctx context.Context, year int) ([]ProgressCell, error) {
	if !validYear(year) {
		return nil, apierr.BadRequest("invalid_year", "year must be a four digit year")
	}
	rows, err := s.progress.List(dbctx.Context{Ctx: ctx}, repos.ProgressFilter{Year: &year})
	if err != nil {
		return nil, err
	}
	return newProgressCells(rows), nil
}

func (s *progressService) validate(in ProgressInput) error {
	if in.InitiativeID == 0 {
		return apierr.BadRequest("invalid_initiative", "initiative_id is required")
	}
	if !validYear(in.Year) {
		return apierr.BadRequest("invalid_year", "year must be a four digit year")
	}
	if !validWeek(in.Week) {
		return apierr.BadRequest("invalid_week", "week must be between 1 and 53")
	}
	if in.Week > isoWeeksInYear(in.Year) {
		return apierr.BadRequest("invalid_week", "%d has only %d ISO weeks", in.Year, isoWeeksInYear(in.Year))
	}
	if !roadmap.IsProgressStatus(in.Status) {
		return apierr.BadRequest("invalid_status", "status must be between %d and %d", roadmap.StatusNone, roadmap.StatusCompleted)
	}
	return nil
}

func (s *progressService) Upsert(ctx context.Context, in ProgressInput) (*ProgressCell, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	key := types.ProgressKey{InitiativeID: in.InitiativeID, PhaseID: in.PhaseID, Year: in.Year, Week: in.Week}

	var stored *types.WeeklyProgress
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		ok, err := s.initiatives.Exists(dbc, in.InitiativeID)
		if err != nil {
			return err
		}
		if !ok {
			return apierr.NotFound("initiative")
		}
		if in.PhaseID != nil {
			if _, err := s.initiativePhase.Get(dbc, in.InitiativeID, *in.PhaseID); err != nil {
				return notFound(err, "initiative phase")
			}
		}
		if in.ExpectedUpdatedAt != nil {
			if err := s.checkFresh(dbc, key, *in.ExpectedUpdatedAt); err != nil {
				return err
			}
		}
		row := key.Row()
		row.Status = in.Status
		row.Comment = in.Comment
		row.UpdatedBy = ctxutil.Actor(ctx)
		stored, err = s.progress.Upsert(dbc, &row)
		return err
	})
	if err != nil {
		return nil, err
	}
	cell := NewProgressCell(stored)
	s.emit.Emit(ctx, realtime.SSEMessage{Channel: realtime.ChannelRoadmap, Event: realtime.SSEEventProgressUpdated, Data: cell})
	return &cell, nil
}

// checkFresh rejects the write when the cell was modified after the client last read it.
func (s *progressService) checkFresh(dbc dbctx.Context, key types.ProgressKey, expected time.Time) error {
	cur, err := s.progress.GetByKey(dbc, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// the client saw an existing cell that is now gone; treat as changed
		return apierr.Conflict("stale_cell", "cell %s was removed by another editor", key.CellKey())
	}
	if err != nil {
		return err
	}
	if !cur.UpdatedAt.UTC().Truncate(time.Microsecond).Equal(expected.UTC().Truncate(time.Microsecond)) {
		return apierr.Conflict("stale_cell", "cell %s was changed by %s", key.CellKey(), cur.UpdatedBy)
	}
	return nil
}

func (s *progressService) Weeks(year int) ([]WeekColumn, error) {
	if !validYear(year) {
		return nil, apierr.BadRequest("invalid_year", "year must be a four digit year")
	}
	return WeeksOfYear(year), nil
}
