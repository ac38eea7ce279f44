package roadmap

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

type TechnologyRepo interface {
	// Ensure looks up or inserts a Technology per name and returns them in input order.
	Ensure(dbc dbctx.Context, names []string) ([]*types.Technology, error)
	ReplaceForInitiative(dbc dbctx.Context, initiativeID uint, technologyIDs []uint) error
	DeleteByInitiative(dbc dbctx.Context, initiativeID uint) (int64, error)
	List(dbc dbctx.Context) ([]*types.Technology, error)
}

type technologyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTechnologyRepo(db *gorm.DB, baseLog *logger.Logger) TechnologyRepo {
	return &technologyRepo{db: db, log: baseLog.With("repo", "TechnologyRepo")}
}

// CleanNames trims, drops blanks and removes duplicates keeping first occurrence.
func CleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := map[string]bool{}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func (r *technologyRepo) Ensure(dbc dbctx.Context, names []string) ([]*types.Technology, error) {
	names = CleanNames(names)
	if len(names) == 0 {
		return []*types.Technology{}, nil
	}
	tx := dbc.DB(r.db)
	rows := make([]*types.Technology, 0, len(names))
	for _, n := range names {
		rows = append(rows, &types.Technology{Name: n})
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&rows).Error; err != nil {
		return nil, err
	}

	var found []*types.Technology
	if err := tx.Where("name IN ?", names).Find(&found).Error; err != nil {
		return nil, err
	}
	byName := make(map[string]*types.Technology, len(found))
	for _, t := range found {
		byName[t.Name] = t
	}
	out := make([]*types.Technology, 0, len(names))
	for _, n := range names {
		if t, ok := byName[n]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *technologyRepo) ReplaceForInitiative(dbc dbctx.Context, initiativeID uint, technologyIDs []uint) error {
	tx := dbc.DB(r.db)
	if err := tx.Where("initiative_id = ?", initiativeID).Delete(&types.InitiativeTechnology{}).Error; err != nil {
		return err
	}
	if len(technologyIDs) == 0 {
		return nil
	}
	joins := make([]*types.InitiativeTechnology, 0, len(technologyIDs))
	seen := map[uint]bool{}
	for _, id := range technologyIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		joins = append(joins, &types.InitiativeTechnology{InitiativeID: initiativeID, TechnologyID: id})
	}
	return tx.Omit("Technology").Create(&joins).Error
}

func (r *technologyRepo) DeleteByInitiative(dbc dbctx.Context, initiativeID uint) (int64, error) {
	res := dbc.DB(r.db).Where("initiative_id = ?", initiativeID).Delete(&types.InitiativeTechnology{})
	return res.RowsAffected, res.Error
}

func (r *technologyRepo) List(dbc dbctx.Context) ([]*types.Technology, error) {
	var out []*types.Technology
	if err := dbc.DB(r.db).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
