package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/data/repos"
	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/domain/roadmap"
	"github.com/yungbote/roadmap-backend/internal/platform/apierr"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"github.com/yungbote/roadmap-backend/internal/realtime"
)

// InitiativeInput is used for create (all required fields set) and partial update (nil = unchanged).
type InitiativeInput struct {
	Name               *string   `json:"name"`
	Area               *string   `json:"area"`
	Champion           *string   `json:"champion"`
	TransformationLead *string   `json:"transformation_lead"`
	Complexity         *string   `json:"complexity"`
	Year               *int      `json:"year"`
	Value              *string   `json:"value"`
	Status             *string   `json:"status"`
	Methodology        *string   `json:"methodology"`
	StartDate          *string   `json:"start_date"`
	EndDate            *string   `json:"end_date"`
	Progress           *int      `json:"progress"`
	Notes              *string   `json:"notes"`
	IsTop              *bool     `json:"is_top"`
	Technologies       *[]string `json:"technologies"`
}

type PhasePatch struct {
	Progress *int    `json:"progress"`
	Notes    *string `json:"notes"`
	Active   *bool   `json:"active"`
}

const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

type InitiativeService interface {
	List(ctx context.Context, f repos.InitiativeFilter) ([]*types.Initiative, error)
	Get(ctx context.Context, id uint) (*types.Initiative, error)
	Create(ctx context.Context, in InitiativeInput) (*types.Initiative, error)
	Update(ctx context.Context, id uint, in InitiativeInput) (*types.Initiative, error)
	Reorder(ctx context.Context, id uint, direction string) (*types.Initiative, error)
	PatchPhase(ctx context.Context, initiativeID, phaseID uint, p PhasePatch) (*types.Initiative, error)
	Delete(ctx context.Context, id uint) error
	ListPhases(ctx context.Context, id uint) ([]*types.InitiativePhase, error)
}

type initiativeService struct {
	db              *gorm.DB
	log             *logger.Logger
	initiatives     repos.InitiativeRepo
	phases          repos.PhaseRepo
	initiativePhase repos.InitiativePhaseRepo
	technologies    repos.TechnologyRepo
	progress        repos.ProgressRepo
	milestones      repos.MilestoneRepo
	onePagers       repos.OnePagerRepo
	emit            SSEEmitter
}

func NewInitiativeService(
	db *gorm.DB,
	log *logger.Logger,
	initiatives repos.InitiativeRepo,
	phases repos.PhaseRepo,
	initiativePhase repos.InitiativePhaseRepo,
	technologies repos.TechnologyRepo,
	progress repos.ProgressRepo,
	milestones repos.MilestoneRepo,
	onePagers repos.OnePagerRepo,
	emit SSEEmitter,
) InitiativeService {
	return &initiativeService{
		db:              db,
		log:             log.With("service", "InitiativeService"),
		initiatives:     initiatives,
		phases:          phases,
		initiativePhase: initiativePhase,
		technologies:    technologies,
		progress:        progress,
		milestones:      milestones,
		onePagers:       onePagers,
		emit:            emitterOrNop(emit),
	}
}

func invalidValueError() error {
	return apierr.BadRequest("invalid_value", "value must be one of: %s", strings.Join(roadmap.AllowedValues, ", "))
}

func (s *initiativeService) List(ctx context.Context, f repos.InitiativeFilter) ([]*types.Initiative, error) {
	return s.initiatives.List(dbctx.Context{Ctx: ctx}, f)
}

func (s *initiativeService) Get(ctx context.Context, id uint) (*types.Initiative, error) {
	out, err := s.initiatives.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, notFound(err, "initiative")
	}
	return out, nil
}

func (s *initiativeService) ListPhases(ctx context.Context, id uint) ([]*types.InitiativePhase, error) {
	dbc := dbctx.Context{Ctx: ctx}
	ok, err := s.initiatives.Exists(dbc, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apierr.NotFound("initiative")
	}
	return s.initiativePhase.ListByInitiative(dbc, id)
}

// buildInitiative validates a create input into an unsaved row.
func buildInitiative(in InitiativeInput) (*types.Initiative, error) {
	name := trimmed(in.Name)
	if name == "" {
		return nil, apierr.BadRequest("invalid_name", "name is required")
	}
	value := trimmed(in.Value)
	if !roadmap.IsAllowedValue(value) {
		return nil, invalidValueError()
	}
	if in.Year == nil || !validYear(*in.Year) {
		return nil, apierr.BadRequest("invalid_year", "year is required and must be a four digit year")
	}
	methodology := trimmed(in.Methodology)
	if methodology == "" {
		methodology = roadmap.MethodologyHybrid
	}
	if !roadmap.IsMethodology(methodology) {
		return nil, apierr.BadRequest("invalid_methodology", "methodology must be one of: %s", strings.Join(roadmap.Methodologies, ", "))
	}
	start, err := parseDate("start_date", trimmed(in.StartDate))
	if err != nil {
		return nil, err
	}
	end, err := parseDate("end_date", trimmed(in.EndDate))
	if err != nil {
		return nil, err
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, apierr.BadRequest("invalid_date", "end_date is before start_date")
	}
	progress := 0
	if in.Progress != nil {
		if !validPercent(*in.Progress) {
			return nil, apierr.BadRequest("invalid_progress", "progress must be between 0 and 100")
		}
		progress = *in.Progress
	}
	out := &types.Initiative{
		Name:               name,
		Area:               trimmed(in.Area),
		Champion:           trimmed(in.Champion),
		TransformationLead: trimmed(in.TransformationLead),
		Complexity:         trimmed(in.Complexity),
		Year:               *in.Year,
		Value:              &value,
		Status:             trimmed(in.Status),
		Methodology:        methodology,
		StartDate:          start,
		EndDate:            end,
		Progress:           progress,
		Notes:              trimmed(in.Notes),
	}
	if in.IsTop != nil {
		out.IsTop = *in.IsTop
	}
	return out, nil
}

func (s *initiativeService) Create(ctx context.Context, in InitiativeInput) (*types.Initiative, error) {
	row, err := buildInitiative(in)
	if err != nil {
		return nil, err
	}
	var techNames []string
	if in.Technologies != nil {
		techNames = *in.Technologies
	}

	var out *types.Initiative
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		max, err := s.initiatives.MaxCustomOrder(dbc, row.Year)
		if err != nil {
			return err
		}
		row.CustomOrder = max + 1
		if err := s.initiatives.Create(dbc, row); err != nil {
			return fmt.Errorf("insert initiative: %w", err)
		}
		if err := s.stampPhases(dbc, row.ID, row.Methodology); err != nil {
			return err
		}
		if err := s.replaceTechnologies(dbc, row.ID, techNames); err != nil {
			return err
		}
		out, err = s.initiatives.GetByID(dbc, row.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Initiative created", "initiative_id", out.ID, "phases", len(out.Phases))
	s.emit.Emit(ctx, realtime.SSEMessage{Channel: realtime.ChannelRoadmap, Event: realtime.SSEEventInitiativeChanged, Data: out})
	return out, nil
}

// stampPhases copies the current catalog of methodology onto the initiative.
func (s *initiativeService) stampPhases(dbc dbctx.Context, initiativeID uint, methodology string) error {
	catalog, err := s.phases.List(dbc, methodology)
	if err != nil {
		return fmt.Errorf("load phase catalog: %w", err)
	}
	rows := make([]*types.InitiativePhase, 0, len(catalog))
	for _, p := range catalog {
		rows = append(rows, &types.InitiativePhase{
			InitiativeID: initiativeID,
			PhaseID:      p.ID,
			CustomOrder:  p.DefaultOrder,
			Active:       true,
		})
	}
	if err := s.initiativePhase.CreateMany(dbc, rows); err != nil {
		return fmt.Errorf("stamp phases: %w", err)
	}
	return nil
}

func (s *initiativeService) replaceTechnologies(dbc dbctx.Context, initiativeID uint, names []string) error {
	techs, err := s.technologies.Ensure(dbc, names)
	if err != nil {
		return fmt.Errorf("ensure technologies: %w", err)
	}
	ids := make([]uint, 0, len(techs))
	for _, t := range techs {
		ids = append(ids, t.ID)
	}
	if err := s.technologies.ReplaceForInitiative(dbc, initiativeID, ids); err != nil {
		return fmt.Errorf("replace technologies: %w", err)
	}
	return nil
}

// updateFields validates the present fields of a patch into a column map.
func updateFields(in InitiativeInput) (map[string]any, error) {
	updates := map[string]any{}
	if in.Name != nil {
		name := trimmed(in.Name)
		if name == "" {
			return nil, apierr.BadRequest("invalid_name", "name cannot be empty")
		}
		updates["name"] = name
	}
	if in.Value != nil {
		v := trimmed(in.Value)
		switch {
		case v == "":
			updates["value"] = nil
		case roadmap.IsAllowedValue(v):
			updates["value"] = v
		default:
			return nil, invalidValueError()
		}
	}
	if in.Year != nil {
		if !validYear(*in.Year) {
			return nil, apierr.BadRequest("invalid_year", "year must be a four digit year")
		}
		updates["year"] = *in.Year
	}
	if in.Methodology != nil {
		m := trimmed(in.Methodology)
		if !roadmap.IsMethodology(m) {
			return nil, apierr.BadRequest("invalid_methodology", "methodology must be one of: %s", strings.Join(roadmap.Methodologies, ", "))
		}
		updates["methodology"] = m
	}
	for col, p := range map[string]*string{
		"area":                in.Area,
		"champion":            in.Champion,
		"transformation_lead": in.TransformationLead,
		"complexity":          in.Complexity,
		"status":              in.Status,
		"notes":               in.Notes,
	} {
		if p != nil {
			updates[col] = strings.TrimSpace(*p)
		}
	}
	if in.StartDate != nil {
		d, err := parseDate("start_date", *in.StartDate)
		if err != nil {
			return nil, err
		}
		updates["start_date"] = d
	}
	if in.EndDate != nil {
		d, err := parseDate("end_date", *in.EndDate)
		if err != nil {
			return nil, err
		}
		updates["end_date"] = d
	}
	if in.Progress != nil {
		if !validPercent(*in.Progress) {
			return nil, apierr.BadRequest("invalid_progress", "progress must be between 0 and 100")
		}
		updates["progress"] = *in.Progress
	}
	if in.IsTop != nil {
		updates["is_top"] = *in.IsTop
	}
	return updates, nil
}

func (s *initiativeService) Update(ctx context.Context, id uint, in InitiativeInput) (*types.Initiative, error) {
	updates, err := updateFields(in)
	if err != nil {
		return nil, err
	}

	var out *types.Initiative
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		cur, err := s.initiatives.GetByID(dbc, id)
		if err != nil {
			return notFound(err, "initiative")
		}
		if y, ok := updates["year"].(int); ok && y != cur.Year {
			max, err := s.initiatives.MaxCustomOrder(dbc, y)
			if err != nil {
				return err
			}
			updates["custom_order"] = max + 1
		}
		if err := s.initiatives.UpdateFields(dbc, id, updates); err != nil {
			return err
		}
		if m, ok := updates["methodology"].(string); ok && m != cur.Methodology {
			if err := s.switchMethodology(dbc, id, m); err != nil {
				return err
			}
		}
		if in.Technologies != nil {
			if err := s.replaceTechnologies(dbc, id, *in.Technologies); err != nil {
				return err
			}
		}
		out, err = s.initiatives.GetByID(dbc, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.emit.Emit(ctx, realtime.SSEMessage{Channel: realtime.ChannelRoadmap, Event: realtime.SSEEventInitiativeChanged, Data: out})
	return out, nil
}

// switchMethodology stamps the new catalog and deactivates rows that belong to another methodology.
func (s *initiativeService) switchMethodology(dbc dbctx.Context, id uint, methodology string) error {
	if err := s.stampPhases(dbc, id, methodology); err != nil {
		return err
	}
	rows, err := s.initiativePhase.ListByInitiative(dbc, id)
	if err != nil {
		return err
	}
	for _, r := range rows {
		active := r.Phase != nil && r.Phase.Methodology == methodology
		if r.Active == active {
			continue
		}
		if err := s.initiativePhase.UpdateFields(dbc, r.ID, map[string]any{"active": active}); err != nil {
			return err
		}
	}
	return s.recomputeProgress(dbc, id)
}

func (s *initiativeService) recomputeProgress(dbc dbctx.Context, id uint) error {
	rows, err := s.initiativePhase.ListByInitiative(dbc, id)
	if err != nil {
		return err
	}
	flat := make([]types.InitiativePhase, 0, len(rows))
	for _, r := range rows {
		flat = append(flat, *r)
	}
	return s.initiatives.UpdateFields(dbc, id, map[string]any{"progress": roadmap.AverageActiveProgress(flat)})
}

func (s *initiativeService) Reorder(ctx context.Context, id uint, direction string) (*types.Initiative, error) {
	direction = strings.ToLower(strings.TrimSpace(direction))
	if direction != DirectionUp && direction != DirectionDown {
		return nil, apierr.BadRequest("invalid_direction", "direction must be %q or %q", DirectionUp, DirectionDown)
	}

	var out *types.Initiative
	swapped := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		cur, err := s.initiatives.GetByID(dbc, id)
		if err != nil {
			return notFound(err, "initiative")
		}
		nb, err := s.initiatives.Neighbor(dbc, cur.Year, cur.CustomOrder, cur.ID, direction == DirectionUp)
		if err != nil {
			return err
		}
		if nb != nil {
			if err := s.initiatives.UpdateFields(dbc, cur.ID, map[string]any{"custom_order": nb.CustomOrder}); err != nil {
				return err
			}
			if err := s.initiatives.UpdateFields(dbc, nb.ID, map[string]any{"custom_order": cur.CustomOrder}); err != nil {
				return err
			}
			swapped = true
		}
		out, err = s.initiatives.GetByID(dbc, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if swapped {
		s.emit.Emit(ctx, realtime.SSEMessage{Channel: realtime.ChannelRoadmap, Event: realtime.SSEEventInitiativeChanged, Data: out})
	}
	return out, nil
}

func (s *initiativeService) PatchPhase(ctx context.Context, initiativeID, phaseID uint, p PhasePatch) (*types.Initiative, error) {
	updates := map[string]any{}
	if p.Progress != nil {
		if !validPercent(*p.Progress) {
			return nil, apierr.BadRequest("invalid_progress", "progress must be between 0 and 100")
		}
		updates["progress"] = *p.Progress
	}
	if p.Notes != nil {
		updates["notes"] = *p.Notes
	}
	if p.Active != nil {
		updates["active"] = *p.Active
	}
	if len(updates) == 0 {
		return nil, apierr.BadRequest("empty_patch", "nothing to update: send progress, notes or active")
	}

	var out *types.Initiative
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		row, err := s.initiativePhase.Get(dbc, initiativeID, phaseID)
		if err != nil {
			return notFound(err, "initiative phase")
		}
		if err := s.initiativePhase.UpdateFields(dbc, row.ID, updates); err != nil {
			return err
		}
		if err := s.recomputeProgress(dbc, initiativeID); err != nil {
			return fmt.Errorf("recompute progress: %w", err)
		}
		out, err = s.initiatives.GetByID(dbc, initiativeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.emit.Emit(ctx, realtime.SSEMessage{Channel: realtime.ChannelRoadmap, Event: realtime.SSEEventInitiativeChanged, Data: out})
	return out, nil
}

func (s *initiativeService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		ok, err := s.initiatives.Exists(dbc, id)
		if err != nil {
			return err
		}
		if !ok {
			return apierr.NotFound("initiative")
		}
		steps := []struct {
			name string
			run  func(dbctx.Context, uint) (int64, error)
		}{
			{"weekly_progress", s.progress.DeleteByInitiative},
			{"initiative_technologies", s.technologies.DeleteByInitiative},
			{"initiative_phases", s.initiativePhase.DeleteByInitiative},
			{"initiative_milestones", s.milestones.DeleteByInitiative},
			{"one_pagers", s.onePagers.DeleteByInitiative},
		}
		for _, step := range steps {
			if _, err := step.run(dbc, id); err != nil {
				return fmt.Errorf("delete %s: %w", step.name, err)
			}
		}
		_, err = s.initiatives.Delete(dbc, id)
		return err
	})
	if err != nil {
		return err
	}
	s.log.Info("Initiative deleted", "initiative_id", id)
	s.emit.Emit(ctx, realtime.SSEMessage{Channel: realtime.ChannelRoadmap, Event: realtime.SSEEventInitiativeDeleted, Data: map[string]any{"id": id}})
	return nil
}
