package roadmap

import (
	"gorm.io/gorm"

	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

type PhaseRepo interface {
	Create(dbc dbctx.Context, p *types.Phase) error
	GetByID(dbc dbctx.Context, id uint) (*types.Phase, error)
	// List returns the catalog, all methodologies when methodology is empty.
	List(dbc dbctx.Context, methodology string) ([]*types.Phase, error)
	MaxDefaultOrder(dbc dbctx.Context, methodology string) (int, error)
}

type phaseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPhaseRepo(db *gorm.DB, baseLog *logger.Logger) PhaseRepo {
	return &phaseRepo{db: db, log: baseLog.With("repo", "PhaseRepo")}
}

func (r *phaseRepo) Create(dbc dbctx.Context, p *types.Phase) error {
	return dbc.DB(r.db).Create(p).Error
}

func (r *phaseRepo) GetByID(dbc dbctx.Context, id uint) (*types.Phase, error) {
	var out types.Phase
	if err := dbc.DB(r.db).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *phaseRepo) List(dbc dbctx.Context, methodology string) ([]*types.Phase, error) {
	q := dbc.DB(r.db)
	if methodology != "" {
		q = q.Where("methodology = ?", methodology)
	}
	var out []*types.Phase
	if err := q.Order("methodology ASC, default_order ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *phaseRepo) MaxDefaultOrder(dbc dbctx.Context, methodology string) (int, error) {
	var max int
	if err := dbc.DB(r.db).Model(&types.Phase{}).
		Where("methodology = ?", methodology).
		Select("COALESCE(MAX(default_order), 0)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max, nil
}
