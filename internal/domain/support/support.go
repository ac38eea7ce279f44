package support

import "time"

const (
	StatusNew        = "Nuevo"
	StatusInProgress = "En Progreso"
	StatusOnHold     = "En Espera"
	StatusResolved   = "Resuelto"
)

var Statuses = []string{StatusNew, StatusInProgress, StatusOnHold, StatusResolved}

func IsStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Item is a kanban ticket. It does not reference initiatives.
type Item struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null;column:title" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	Area        string    `gorm:"column:area;index" json:"area"`
	Technology  string    `gorm:"column:technology" json:"technology"`
	Champion    string    `gorm:"column:champion" json:"champion"`
	Responsible string    `gorm:"column:responsible" json:"responsible"`
	Status      string    `gorm:"not null;column:status;index" json:"status"`
	Position    int       `gorm:"not null;column:position;default:0" json:"position"`
	CreatedBy   string    `gorm:"column:created_by" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Item) TableName() string { return "support_items" }
