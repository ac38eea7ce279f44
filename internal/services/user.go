package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/data/db"
	"github.com/yungbote/roadmap-backend/internal/data/repos"
	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/domain/user"
	"github.com/yungbote/roadmap-backend/internal/platform/apierr"
	"github.com/yungbote/roadmap-backend/internal/platform/ctxutil"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

const MinPasswordLength = 8

type UserInput struct {
	Email       *string `json:"email"`
	DisplayName *string `json:"display_name"`
	Password    *string `json:"password"`
	Role        *string `json:"role"`
}

type UserService interface {
	List(ctx context.Context) ([]*types.User, error)
	Get(ctx context.Context, id uint) (*types.User, error)
	Create(ctx context.Context, in UserInput) (*types.User, error)
	Update(ctx context.Context, id uint, in UserInput) (*types.User, error)
	Delete(ctx context.Context, id uint) error
	// EnsureAdmin creates an admin account for email unless one already exists.
	EnsureAdmin(ctx context.Context, email, password string) (bool, error)
}

type userService struct {
	db         *gorm.DB
	log        *logger.Logger
	userRepo   repos.UserRepo
	prefsRepo  repos.PreferenceRepo
	bcryptCost int
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, prefsRepo repos.PreferenceRepo) UserService {
	return &userService{
		db:         db,
		log:        log.With("service", "UserService"),
		userRepo:   userRepo,
		prefsRepo:  prefsRepo,
		bcryptCost: bcrypt.DefaultCost,
	}
}

func hashPassword(password string, cost int) (string, error) {
	if len(password) < MinPasswordLength {
		return "", apierr.BadRequest("weak_password", "password must be at least %d characters", MinPasswordLength)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func invalidRole() error {
	return apierr.BadRequest("invalid_role", "role must be one of: %s", strings.Join(user.Roles, ", "))
}

func emailTaken(email string) error {
	return apierr.Conflict("email_taken", "a user with email %s already exists", email)
}

func (us *userService) List(ctx context.Context) ([]*types.User, error) {
	return us.userRepo.List(dbctx.Context{Ctx: ctx})
}

func (us *userService) Get(ctx context.Context, id uint) (*types.User, error) {
	u, err := us.userRepo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

func (us *userService) Create(ctx context.Context, in UserInput) (*types.User, error) {
	email := user.NormalizeEmail(trimmed(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apierr.BadRequest("invalid_email", "a valid email is required")
	}
	role := strings.ToLower(trimmed(in.Role))
	if role == "" {
		role = user.RoleViewer
	}
	if !user.IsRole(role) {
		return nil, invalidRole()
	}
	if in.Password == nil {
		return nil, apierr.BadRequest("weak_password", "password must be at least %d characters", MinPasswordLength)
	}
	hash, err := hashPassword(*in.Password, us.bcryptCost)
	if err != nil {
		return nil, err
	}

	dbc := dbctx.Context{Ctx: ctx}
	taken, err := us.userRepo.EmailExists(dbc, email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, emailTaken(email)
	}
	u := &types.User{
		Email:       email,
		DisplayName: trimmed(in.DisplayName),
		Password:    hash,
		Role:        role,
	}
	if err := us.userRepo.Create(dbc, u); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, emailTaken(email)
		}
		return nil, err
	}
	us.log.Info("User created", "user_id", u.ID, "role", u.Role, "by", ctxutil.Actor(ctx))
	return u, nil
}

func (us *userService) Update(ctx context.Context, id uint, in UserInput) (*types.User, error) {
	dbc := dbctx.Context{Ctx: ctx}
	updates := map[string]any{}
	if in.Email != nil {
		email := user.NormalizeEmail(*in.Email)
		if email == "" || !strings.Contains(email, "@") {
			return nil, apierr.BadRequest("invalid_email", "a valid email is required")
		}
		taken, err := us.userRepo.EmailExists(dbc, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, emailTaken(email)
		}
		updates["email"] = email
	}
	if in.DisplayName != nil {
		updates["display_name"] = strings.TrimSpace(*in.DisplayName)
	}
	if in.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*in.Role))
		if !user.IsRole(role) {
			return nil, invalidRole()
		}
		updates["role"] = role
	}
	if in.Password != nil {
		hash, err := hashPassword(*in.Password, us.bcryptCost)
		if err != nil {
			return nil, err
		}
		updates["password"] = hash
	}

	if len(updates) > 0 {
		if err := us.userRepo.UpdateFields(dbc, id, updates); err != nil {
			if db.IsUniqueViolation(err) {
				return nil, emailTaken(fmt.Sprint(updates["email"]))
			}
			return nil, notFound(err, "user")
		}
	}
	return us.Get(ctx, id)
}

func (us *userService) Delete(ctx context.Context, id uint) error {
	if rd := ctxutil.GetRequestData(ctx); rd != nil && rd.UserID == id {
		return apierr.BadRequest("cannot_delete_self", "you cannot delete your own account")
	}
	return us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := us.prefsRepo.DeleteByUser(dbc, id); err != nil {
			return err
		}
		n, err := us.userRepo.Delete(dbc, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return apierr.NotFound("user")
		}
		return nil
	})
}

func (us *userService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = user.NormalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}
	exists, err := us.userRepo.EmailExists(dbctx.Context{Ctx: ctx}, email, 0)
	if err != nil || exists {
		return false, err
	}
	role := user.RoleAdmin
	if _, err := us.Create(ctx, UserInput{Email: &email, Password: &password, Role: &role}); err != nil {
		return false, err
	}
	us.log.Info("Bootstrap admin created", "email", email)
	return true, nil
}
