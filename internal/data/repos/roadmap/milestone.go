package roadmap

import (
	"gorm.io/gorm"

	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

type MilestoneFilter struct {
	InitiativeID uint
	Year         *int
}

type MilestoneRepo interface {
	Create(dbc dbctx.Context, m *types.Milestone) error
	GetByID(dbc dbctx.Context, id uint) (*types.Milestone, error)
	List(dbc dbctx.Context, f MilestoneFilter) ([]*types.Milestone, error)
	Delete(dbc dbctx.Context, id uint) (int64, error)
	DeleteByInitiative(dbc dbctx.Context, initiativeID uint) (int64, error)
	Count(dbc dbctx.Context, year *int) (int64, error)
}

type milestoneRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMilestoneRepo(db *gorm.DB, baseLog *logger.Logger) MilestoneRepo {
	return &milestoneRepo{db: db, log: baseLog.With("repo", "MilestoneRepo")}
}

func (r *milestoneRepo) Create(dbc dbctx.Context, m *types.Milestone) error {
	return dbc.DB(r.db).Create(m).Error
}

func (r *milestoneRepo) GetByID(dbc dbctx.Context, id uint) (*types.Milestone, error) {
	var out types.Milestone
	if err := dbc.DB(r.db).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *milestoneRepo) List(dbc dbctx.Context, f MilestoneFilter) ([]*types.Milestone, error) {
	q := dbc.DB(r.db)
	if f.InitiativeID != 0 {
		q = q.Where("initiative_id = ?", f.InitiativeID)
	}
	if f.Year != nil {
		q = q.Where("year = ?", *f.Year)
	}
	var out []*types.Milestone
	if err := q.Order("year ASC, week ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *milestoneRepo) Delete(dbc dbctx.Context, id uint) (int64, error) {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.Milestone{})
	return res.RowsAffected, res.Error
}

func (r *milestoneRepo) DeleteByInitiative(dbc dbctx.Context, initiativeID uint) (int64, error) {
	res := dbc.DB(r.db).Where("initiative_id = ?", initiativeID).Delete(&types.Milestone{})
	return res.RowsAffected, res.Error
}

func (r *milestoneRepo) Count(dbc dbctx.Context, year *int) (int64, error) {
	q := dbc.DB(r.db).Model(&types.Milestone{})
	if year != nil {
		q = q.Where("year = ?", *year)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
