package user

import (
	"gorm.io/gorm"

	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, u *types.User) error
	GetByID(dbc dbctx.Context, id uint) (*types.User, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.User, error)
	EmailExists(dbc dbctx.Context, email string, exceptID uint) (bool, error)
	List(dbc dbctx.Context) ([]*types.User, error)
	UpdateFields(dbc dbctx.Context, id uint, updates map[string]any) error
	Delete(dbc dbctx.Context, id uint) (int64, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(dbc dbctx.Context, u *types.User) error {
	return dbc.DB(ur.db).Create(u).Error
}

func (ur *userRepo) GetByID(dbc dbctx.Context, id uint) (*types.User, error) {
	var out types.User
	if err := dbc.DB(ur.db).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (ur *userRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	var out types.User
	if err := dbc.DB(ur.db).Where("email = ?", email).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (ur *userRepo) EmailExists(dbc dbctx.Context, email string, exceptID uint) (bool, error) {
	var count int64
	q := dbc.DB(ur.db).Model(&types.User{}).Where("email = ?", email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ur *userRepo) List(dbc dbctx.Context) ([]*types.User, error) {
	var out []*types.User
	if err := dbc.DB(ur.db).Order("email ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (ur *userRepo) UpdateFields(dbc dbctx.Context, id uint, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	res := dbc.DB(ur.db).Model(&types.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (ur *userRepo) Delete(dbc dbctx.Context, id uint) (int64, error) {
	res := dbc.DB(ur.db).Where("id = ?", id).Delete(&types.User{})
	return res.RowsAffected, res.Error
}
