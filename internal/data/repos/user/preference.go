package user

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

type PreferenceRepo interface {
	Get(dbc dbctx.Context, userID uint, key string) (*types.UserPreference, error)
	Put(dbc dbctx.Context, userID uint, key string, value datatypes.JSON) (*types.UserPreference, error)
	Delete(dbc dbctx.Context, userID uint, key string) (int64, error)
	DeleteByUser(dbc dbctx.Context, userID uint) (int64, error)
}

type preferenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPreferenceRepo(db *gorm.DB, baseLog *logger.Logger) PreferenceRepo {
	return &preferenceRepo{db: db, log: baseLog.With("repo", "PreferenceRepo")}
}

func (r *preferenceRepo) Get(dbc dbctx.Context, userID uint, key string) (*types.UserPreference, error) {
	var out types.UserPreference
	if err := dbc.DB(r.db).Where("user_id = ? AND key = ?", userID, key).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *preferenceRepo) Put(dbc dbctx.Context, userID uint, key string, value datatypes.JSON) (*types.UserPreference, error) {
	row := &types.UserPreference{
		UserID:    userID,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	tx := dbc.DB(r.db)
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(row).Error; err != nil {
		return nil, err
	}
	return r.Get(dbc, userID, key)
}

func (r *preferenceRepo) Delete(dbc dbctx.Context, userID uint, key string) (int64, error) {
	res := dbc.DB(r.db).Where("user_id = ? AND key = ?", userID, key).Delete(&types.UserPreference{})
	return res.RowsAffected, res.Error
}

func (r *preferenceRepo) DeleteByUser(dbc dbctx.Context, userID uint) (int64, error) {
	res := dbc.DB(r.db).Where("user_id = ?", userID).Delete(&types.UserPreference{})
	return res.RowsAffected, res.Error
}
