package roadmap

import "time"

const (
	MethodologyHybrid    = "Hibrida"
	MethodologyAnalytics = "Analiticos"
	MethodologyReporting = "Reporting"
)

var Methodologies = []string{MethodologyHybrid, MethodologyAnalytics, MethodologyReporting}

func IsMethodology(m string) bool {
	for _, v := range Methodologies {
		if v == m {
			return true
		}
	}
	return false
}

// Phase is an entry of the global catalog. Initiatives get a snapshot row per phase.
type Phase struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null;column:name" json:"name"`
	Methodology  string    `gorm:"not null;column:methodology;index" json:"methodology"`
	DefaultOrder int       `gorm:"not null;column:default_order;default:0" json:"default_order"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Phase) TableName() string { return "phases" }

type InitiativePhase struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	InitiativeID uint      `gorm:"not null;column:initiative_id;index" json:"initiative_id"`
	PhaseID      uint      `gorm:"not null;column:phase_id;index" json:"phase_id"`
	CustomOrder  int       `gorm:"not null;column:custom_order;default:0" json:"custom_order"`
	Active       bool      `gorm:"not null;column:active;default:true" json:"active"`
	Progress     int       `gorm:"not null;column:progress;default:0" json:"progress"`
	Notes        string    `gorm:"column:notes" json:"notes"`
	Phase        *Phase    `gorm:"foreignKey:PhaseID" json:"phase,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (InitiativePhase) TableName() string { return "initiative_phases" }

// AverageActiveProgress is round(avg(progress)) over active phases, 0 when none are active.
func AverageActiveProgress(phases []InitiativePhase) int {
	sum, n := 0, 0
	for _, p := range phases {
		if !p.Active {
			continue
		}
		sum += p.Progress
		n++
	}
	if n == 0 {
		return 0
	}
	// integer half-up rounding; progress values are never negative
	return (2*sum + n) / (2 * n)
}
