package roadmap

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

var progressKeyColumns = []clause.Column{
	{Name: "initiative_id"},
	{Name: "scope"},
	{Name: "phase_id"},
	{Name: "year"},
	{Name: "week"},
}

type ProgressFilter struct {
	InitiativeID uint
	Year         *int
}

type ProgressRepo interface {
	// Upsert writes one cell with a single INSERT ... ON CONFLICT DO UPDATE and returns the stored row.
	Upsert(dbc dbctx.Context, row *types.WeeklyProgress) (*types.WeeklyProgress, error)
	GetByKey(dbc dbctx.Context, key types.ProgressKey) (*types.WeeklyProgress, error)
	List(dbc dbctx.Context, f ProgressFilter) ([]*types.WeeklyProgress, error)
	DeleteByInitiative(dbc dbctx.Context, initiativeID uint) (int64, error)
	CountByStatus(dbc dbctx.Context, year *int) ([]GroupCount, error)
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	return &progressRepo{db: db, log: baseLog.With("repo", "ProgressRepo")}
}

func (r *progressRepo) Upsert(dbc dbctx.Context, row *types.WeeklyProgress) (*types.WeeklyProgress, error) {
	now := time.Now().UTC()
	in := *row
	in.ID = 0
	in.CreatedAt = now
	in.UpdatedAt = now
	tx := dbc.DB(r.db)
	if err := tx.Clauses(clause.OnConflict{
		Columns:   progressKeyColumns,
		DoUpdates: clause.AssignmentColumns([]string{"status", "comment", "updated_by", "updated_at"}),
	}).Create(&in).Error; err != nil {
		return nil, err
	}
	return r.GetByKey(dbc, in.Key())
}

func (r *progressRepo) GetByKey(dbc dbctx.Context, key types.ProgressKey) (*types.WeeklyProgress, error) {
	k := key.Row()
	var out types.WeeklyProgress
	if err := dbc.DB(r.db).
		Where("initiative_id = ? AND scope = ? AND phase_id = ? AND year = ? AND week = ?",
			k.InitiativeID, k.Scope, k.PhaseID, k.Year, k.Week).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *progressRepo) List(dbc dbctx.Context, f ProgressFilter) ([]*types.WeeklyProgress, error) {
	q := dbc.DB(r.db)
	if f.InitiativeID != 0 {
		q = q.Where("initiative_id = ?", f.InitiativeID)
	}
	if f.Year != nil {
		q = q.Where("year = ?", *f.Year)
	}
	var out []*types.WeeklyProgress
	if err := q.Order("year ASC, week ASC, initiative_id ASC, scope ASC, phase_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *progressRepo) DeleteByInitiative(dbc dbctx.Context, initiativeID uint) (int64, error) {
	res := dbc.DB(r.db).Where("initiative_id = ?", initiativeID).Delete(&types.WeeklyProgress{})
	return res.RowsAffected, res.Error
}

func (r *progressRepo) CountByStatus(dbc dbctx.Context, year *int) ([]GroupCount, error) {
	q := dbc.DB(r.db).Model(&types.WeeklyProgress{}).
		Select("CAST(status AS VARCHAR(8)) AS group_key, COUNT(*) AS group_count").
		Group("status").
		Order("status ASC")
	if year != nil {
		q = q.Where("year = ?", *year)
	}
	var out []GroupCount
	if err := q.Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
