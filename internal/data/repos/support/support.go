package support

import (
	"gorm.io/gorm"

	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

type Filter struct {
	Status string
	Area   string
}

type StatusCount struct {
	Status string `gorm:"column:status" json:"status"`
	Count  int64  `gorm:"column:group_count" json:"count"`
}

type SupportItemRepo interface {
	Create(dbc dbctx.Context, item *types.SupportItem) error
	GetByID(dbc dbctx.Context, id uint) (*types.SupportItem, error)
	List(dbc dbctx.Context, f Filter) ([]*types.SupportItem, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]any) error
	Delete(dbc dbctx.Context, id uint) (int64, error)
	// NextPosition is one past the highest position in a status column.
	NextPosition(dbc dbctx.Context, status string) (int, error)
	CountByStatus(dbc dbctx.Context) ([]StatusCount, error)
}

type supportItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSupportItemRepo(db *gorm.DB, baseLog *logger.Logger) SupportItemRepo {
	return &supportItemRepo{db: db, log: baseLog.With("repo", "SupportItemRepo")}
}

func (r *supportItemRepo) Create(dbc dbctx.Context, item *types.SupportItem) error {
	return dbc.DB(r.db).Create(item).Error
}

func (r *supportItemRepo) GetByID(dbc dbctx.Context, id uint) (*types.SupportItem, error) {
	var out types.SupportItem
	if err := dbc.DB(r.db).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *supportItemRepo) List(dbc dbctx.Context, f Filter) ([]*types.SupportItem, error) {
	q := dbc.DB(r.db)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Area != "" {
		q = q.Where("area = ?", f.Area)
	}
	var out []*types.SupportItem
	if err := q.Order("status ASC, position ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *supportItemRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	res := dbc.DB(r.db).Model(&types.SupportItem{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *supportItemRepo) Delete(dbc dbctx.Context, id uint) (int64, error) {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.SupportItem{})
	return res.RowsAffected, res.Error
}

func (r *supportItemRepo) NextPosition(dbc dbctx.Context, status string) (int, error) {
	var next int
	if err := dbc.DB(r.db).Model(&types.SupportItem{}).
		Where("status = ?", status).
		Select("COALESCE(MAX(position) + 1, 0)").
		Scan(&next).Error; err != nil {
		return 0, err
	}
	return next, nil
}

func (r *supportItemRepo) CountByStatus(dbc dbctx.Context) ([]StatusCount, error) {
	var out []StatusCount
	if err := dbc.DB(r.db).Model(&types.SupportItem{}).
		Select("status, COUNT(*) AS group_count").
		Group("status").
		Order("status ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
