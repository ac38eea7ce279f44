package roadmap

import (
	"fmt"
	"time"
)

// ProgressScope says whether a grid cell belongs to the initiative row or to one of its phases.
type ProgressScope string

const (
	ScopeInitiative ProgressScope = "initiative"
	ScopePhase      ProgressScope = "phase"
)

// Grid cell status values, rendered by the client as colour + label.
const (
	StatusNone      = 0
	StatusOnTrack   = 1
	StatusAtRisk    = 2
	StatusDelayed   = 3
	StatusCompleted = 4
)

var StatusLabels = map[int]string{
	StatusNone:      "Sin estado",
	StatusOnTrack:   "En tiempo",
	StatusAtRisk:    "En riesgo",
	StatusDelayed:   "Retrasado",
	StatusCompleted: "Completado",
}

func IsProgressStatus(v int) bool {
	_, ok := StatusLabels[v]
	return ok
}

type WeeklyProgress struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	InitiativeID uint          `gorm:"not null;column:initiative_id;index" json:"initiative_id"`
	Scope        ProgressScope `gorm:"not null;column:scope;type:varchar(16)" json:"scope"`
	PhaseID      uint          `gorm:"not null;column:phase_id;default:0" json:"-"`
	Year         int           `gorm:"not null;column:year" json:"year"`
	Week         int           `gorm:"not null;column:week" json:"week"`
	Status       int           `gorm:"not null;column:status;default:0" json:"status"`
	Comment      string        `gorm:"column:comment" json:"comment"`
	UpdatedBy    string        `gorm:"column:updated_by" json:"updated_by"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (WeeklyProgress) TableName() string { return "weekly_progress" }

// ProgressKey identifies one cell of the year grid.
type ProgressKey struct {
	InitiativeID uint
	PhaseID      *uint
	Year         int
	Week         int
}

func (k ProgressKey) Scope() ProgressScope {
	if k.PhaseID == nil {
		return ScopeInitiative
	}
	return ScopePhase
}

func (k ProgressKey) phaseColumn() uint {
	if k.PhaseID == nil {
		return 0
	}
	return *k.PhaseID
}

// Row returns an unsaved WeeklyProgress for this key.
func (k ProgressKey) Row() WeeklyProgress {
	return WeeklyProgress{
		InitiativeID: k.InitiativeID,
		Scope:        k.Scope(),
		PhaseID:      k.phaseColumn(),
		Year:         k.Year,
		Week:         k.Week,
	}
}

// CellKey is the client-side merge key "<initiative>-<phase|null>-<week>".
func (k ProgressKey) CellKey() string {
	phase := "null"
	if k.PhaseID != nil {
		phase = fmt.Sprintf("%d", *k.PhaseID)
	}
	return fmt.Sprintf("%d-%s-%d", k.InitiativeID, phase, k.Week)
}

// Key rebuilds the ProgressKey of a stored row.
func (w *WeeklyProgress) Key() ProgressKey {
	k := ProgressKey{InitiativeID: w.InitiativeID, Year: w.Year, Week: w.Week}
	if w.Scope == ScopePhase {
		id := w.PhaseID
		k.PhaseID = &id
	}
	return k
}

// PhaseRef is the nullable phase id exposed over JSON.
func (w *WeeklyProgress) PhaseRef() *uint {
	return w.Key().PhaseID
}
