package roadmap

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

type InitiativeFilter struct {
	Year *int
	Area string
}

// GroupCount is one row of a GROUP BY count.
type GroupCount struct {
	Key   string `gorm:"column:group_key" json:"key"`
	Count int64  `gorm:"column:group_count" json:"count"`
}

type InitiativeRepo interface {
	Create(dbc dbctx.Context, in *types.Initiative) error
	GetByID(dbc dbctx.Context, id uint) (*types.Initiative, error)
	List(dbc dbctx.Context, f InitiativeFilter) ([]*types.Initiative, error)
	Exists(dbc dbctx.Context, id uint) (bool, error)
	MaxCustomOrder(dbc dbctx.Context, year int) (int, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]any) error
	Neighbor(dbc dbctx.Context, year, customOrder int, id uint, up bool) (*types.Initiative, error)
	IDsByMethodology(dbc dbctx.Context, methodology string) ([]uint, error)
	Delete(dbc dbctx.Context, id uint) (int64, error)
	CountBy(dbc dbctx.Context, column string, year *int) ([]GroupCount, error)
	Totals(dbc dbctx.Context, year *int) (count int64, avgProgress float64, err error)
}

type initiativeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInitiativeRepo(db *gorm.DB, baseLog *logger.Logger) InitiativeRepo {
	return &initiativeRepo{
		db:  db,
		log: baseLog.With("repo", "InitiativeRepo"),
	}
}

func withTree(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Phases", func(db *gorm.DB) *gorm.DB {
			return db.Order("custom_order ASC, id ASC")
		}).
		Preload("Phases.Phase").
		Preload("Technologies", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Technologies.Technology")
}

func (r *initiativeRepo) Create(dbc dbctx.Context, in *types.Initiative) error {
	// associations are written explicitly by the caller
	return dbc.DB(r.db).Omit("Phases", "Technologies").Create(in).Error
}

func (r *initiativeRepo) GetByID(dbc dbctx.Context, id uint) (*types.Initiative, error) {
	var out types.Initiative
	if err := withTree(dbc.DB(r.db)).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *initiativeRepo) List(dbc dbctx.Context, f InitiativeFilter) ([]*types.Initiative, error) {
	q := withTree(dbc.DB(r.db))
	if f.Year != nil {
		q = q.Where("year = ?", *f.Year)
	}
	if f.Area != "" {
		q = q.Where("area = ?", f.Area)
	}
	var out []*types.Initiative
	if err := q.Order("custom_order ASC, is_top DESC, created_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *initiativeRepo) Exists(dbc dbctx.Context, id uint) (bool, error) {
	var n int64
	if err := dbc.DB(r.db).Model(&types.Initiative{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *initiativeRepo) MaxCustomOrder(dbc dbctx.Context, year int) (int, error) {
	var max int
	if err := dbc.DB(r.db).Model(&types.Initiative{}).
		Where("year = ?", year).
		Select("COALESCE(MAX(custom_order), 0)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max, nil
}

func (r *initiativeRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	res := dbc.DB(r.db).Model(&types.Initiative{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Neighbor finds the closest initiative of the same year above (up) or below the given order.
// Returns nil, nil when there is none.
func (r *initiativeRepo) Neighbor(dbc dbctx.Context, year, customOrder int, id uint, up bool) (*types.Initiative, error) {
	q := dbc.DB(r.db).Where("year = ? AND id <> ?", year, id)
	if up {
		q = q.Where("custom_order < ?", customOrder).Order("custom_order DESC, id DESC")
	} else {
		q = q.Where("custom_order > ?", customOrder).Order("custom_order ASC, id ASC")
	}
	var out []*types.Initiative
	if err := q.Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *initiativeRepo) IDsByMethodology(dbc dbctx.Context, methodology string) ([]uint, error) {
	var ids []uint
	if err := dbc.DB(r.db).Model(&types.Initiative{}).
		Where("methodology = ?", methodology).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *initiativeRepo) Delete(dbc dbctx.Context, id uint) (int64, error) {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.Initiative{})
	return res.RowsAffected, res.Error
}

var groupableColumns = map[string]bool{
	"status":      true,
	"area":        true,
	"value":       true,
	"methodology": true,
	"complexity":  true,
}

func (r *initiativeRepo) CountBy(dbc dbctx.Context, column string, year *int) ([]GroupCount, error) {
	if !groupableColumns[column] {
		return nil, fmt.Errorf("cannot group initiatives by %q", column)
	}
	q := dbc.DB(r.db).Model(&types.Initiative{}).
		Select(fmt.Sprintf("COALESCE(%s, '') AS group_key, COUNT(*) AS group_count", column)).
		Group(fmt.Sprintf("COALESCE(%s, '')", column)).
		Order("group_count DESC, group_key ASC")
	if year != nil {
		q = q.Where("year = ?", *year)
	}
	var out []GroupCount
	if err := q.Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *initiativeRepo) Totals(dbc dbctx.Context, year *int) (int64, float64, error) {
	var row struct {
		Total int64
		Avg   *float64
	}
	q := dbc.DB(r.db).Model(&types.Initiative{}).Select("COUNT(*) AS total, AVG(progress) AS avg")
	if year != nil {
		q = q.Where("year = ?", *year)
	}
	if err := q.Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	if row.Avg == nil {
		return row.Total, 0, nil
	}
	return row.Total, *row.Avg, nil
}
