package services

import (
	"context"
	"math"
	"strconv"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/data/repos"
	"github.com/yungbote/roadmap-backend/internal/domain/roadmap"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

type ProgressStatusCount struct {
	Status int    `json:"status"`
	Label  string `json:"label"`
	Count  int64  `json:"count"`
}

type Dashboard struct {
	Year             *int                       `json:"year"`
	TotalInitiatives int64                      `json:"total_initiatives"`
	AverageProgress  float64                    `json:"average_progress"`
	ByStatus         []repos.GroupCount         `json:"by_status"`
	ByArea           []repos.GroupCount         `json:"by_area"`
	ByValue          []repos.GroupCount         `json:"by_value"`
	ByMethodology    []repos.GroupCount         `json:"by_methodology"`
	Milestones       int64                      `json:"milestones"`
	ProgressCells    []ProgressStatusCount      `json:"progress_cells"`
	SupportByStatus  []repos.SupportStatusCount `json:"support_by_status"`
}

type DashboardService interface {
	Summary(ctx context.Context, year *int) (*Dashboard, error)
}

type dashboardService struct {
	db          *gorm.DB
	log         *logger.Logger
	initiatives repos.InitiativeRepo
	milestones  repos.MilestoneRepo
	progress    repos.ProgressRepo
	support     repos.SupportItemRepo
}

func NewDashboardService(
	db *gorm.DB,
	log *logger.Logger,
	initiatives repos.InitiativeRepo,
	milestones repos.MilestoneRepo,
	progress repos.ProgressRepo,
	support repos.SupportItemRepo,
) DashboardService {
	return &dashboardService{
		db:          db,
		log:         log.With("service", "DashboardService"),
		initiatives: initiatives,
		milestones:  milestones,
		progress:    progress,
		support:     support,
	}
}

func (s *dashboardService) Summary(ctx context.Context, year *int) (*Dashboard, error) {
	out := &Dashboard{Year: year}
	g, gctx := errgroup.WithContext(ctx)
	dbc := dbctx.Context{Ctx: gctx}

	g.Go(func() error {
		total, avg, err := s.initiatives.Totals(dbc, year)
		if err != nil {
			return err
		}
		out.TotalInitiatives = total
		out.AverageProgress = math.Round(avg*10) / 10
		return nil
	})
	for column, dst := range map[string]*[]repos.GroupCount{
		"status":      &out.ByStatus,
		"area":        &out.ByArea,
		"value":       &out.ByValue,
		"methodology": &out.ByMethodology,
	} {
		g.Go(func() error {
			rows, err := s.initiatives.CountBy(dbc, column, year)
			if err != nil {
				return err
			}
			*dst = rows
			return nil
		})
	}
	g.Go(func() error {
		n, err := s.milestones.Count(dbc, year)
		out.Milestones = n
		return err
	})
	g.Go(func() error {
		rows, err := s.progress.CountByStatus(dbc, year)
		if err != nil {
			return err
		}
		cells := make([]ProgressStatusCount, 0, len(rows))
		for _, r := range rows {
			st, _ := strconv.Atoi(r.Key)
			cells = append(cells, ProgressStatusCount{Status: st, Label: roadmap.StatusLabels[st], Count: r.Count})
		}
		out.ProgressCells = cells
		return nil
	})
	g.Go(func() error {
		rows, err := s.support.CountByStatus(dbc)
		out.SupportByStatus = rows
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
