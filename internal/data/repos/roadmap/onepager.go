package roadmap

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

type OnePagerFilter struct {
	InitiativeID uint
	Year         *int
	Week         *int
}

type OnePagerRepo interface {
	Upsert(dbc dbctx.Context, p *types.OnePager) (*types.OnePager, error)
	List(dbc dbctx.Context, f OnePagerFilter) ([]*types.OnePager, error)
	DeleteByInitiative(dbc dbctx.Context, initiativeID uint) (int64, error)
}

type onePagerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOnePagerRepo(db *gorm.DB, baseLog *logger.Logger) OnePagerRepo {
	return &onePagerRepo{db: db, log: baseLog.With("repo", "OnePagerRepo")}
}

func (r *onePagerRepo) Upsert(dbc dbctx.Context, p *types.OnePager) (*types.OnePager, error) {
	now := time.Now().UTC()
	in := *p
	in.ID = 0
	in.CreatedAt = now
	in.UpdatedAt = now
	tx := dbc.DB(r.db)
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "initiative_id"}, {Name: "year"}, {Name: "week"}},
		DoUpdates: clause.AssignmentColumns([]string{"progress_text", "next_steps", "risks", "updated_by", "updated_at"}),
	}).Create(&in).Error; err != nil {
		return nil, err
	}
	var out types.OnePager
	if err := tx.Where("initiative_id = ? AND year = ? AND week = ?", in.InitiativeID, in.Year, in.Week).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *onePagerRepo) List(dbc dbctx.Context, f OnePagerFilter) ([]*types.OnePager, error) {
	q := dbc.DB(r.db)
	if f.InitiativeID != 0 {
		q = q.Where("initiative_id = ?", f.InitiativeID)
	}
	if f.Year != nil {
		q = q.Where("year = ?", *f.Year)
	}
	if f.Week != nil {
		q = q.Where("week = ?", *f.Week)
	}
	var out []*types.OnePager
	if err := q.Order("year DESC, week DESC, initiative_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *onePagerRepo) DeleteByInitiative(dbc dbctx.Context, initiativeID uint) (int64, error) {
	res := dbc.DB(r.db).Where("initiative_id = ?", initiativeID).Delete(&types.OnePager{})
	return res.RowsAffected, res.Error
}
