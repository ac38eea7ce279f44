package roadmap

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

type InitiativePhaseRepo interface {
	CreateMany(dbc dbctx.Context, rows []*types.InitiativePhase) error
	ListByInitiative(dbc dbctx.Context, initiativeID uint) ([]*types.InitiativePhase, error)
	// Get looks a row up by the catalog phase id.
	Get(dbc dbctx.Context, initiativeID, phaseID uint) (*types.InitiativePhase, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]any) error
	DeleteByInitiative(dbc dbctx.Context, initiativeID uint) (int64, error)
}

type initiativePhaseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInitiativePhaseRepo(db *gorm.DB, baseLog *logger.Logger) InitiativePhaseRepo {
	return &initiativePhaseRepo{db: db, log: baseLog.With("repo", "InitiativePhaseRepo")}
}

// CreateMany skips pairs that already exist.
func (r *initiativePhaseRepo) CreateMany(dbc dbctx.Context, rows []*types.InitiativePhase) error {
	if len(rows) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Omit("Phase").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "initiative_id"}, {Name: "phase_id"}},
			DoNothing: true,
		}).
		Create(&rows).Error
}

func (r *initiativePhaseRepo) ListByInitiative(dbc dbctx.Context, initiativeID uint) ([]*types.InitiativePhase, error) {
	var out []*types.InitiativePhase
	if err := dbc.DB(r.db).
		Preload("Phase").
		Where("initiative_id = ?", initiativeID).
		Order("custom_order ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *initiativePhaseRepo) Get(dbc dbctx.Context, initiativeID, phaseID uint) (*types.InitiativePhase, error) {
	var out types.InitiativePhase
	if err := dbc.DB(r.db).
		Where("initiative_id = ? AND phase_id = ?", initiativeID, phaseID).
		Order("id ASC").
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *initiativePhaseRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).Model(&types.InitiativePhase{}).Where("id = ?", id).Updates(updates).Error
}

func (r *initiativePhaseRepo) DeleteByInitiative(dbc dbctx.Context, initiativeID uint) (int64, error) {
	res := dbc.DB(r.db).Where("initiative_id = ?", initiativeID).Delete(&types.InitiativePhase{})
	return res.RowsAffected, res.Error
}
