package roadmap

import "time"

var MilestoneTypes = []string{"flag", "star", "check", "start", "end"}

func IsMilestoneType(t string) bool {
	for _, v := range MilestoneTypes {
		if v == t {
			return true
		}
	}
	return false
}

type Milestone struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	InitiativeID uint      `gorm:"not null;column:initiative_id;index" json:"initiative_id"`
	Year         int       `gorm:"not null;column:year" json:"year"`
	Week         int       `gorm:"not null;column:week" json:"week"`
	Type         string    `gorm:"not null;column:type" json:"type"`
	Description  string    `gorm:"column:description" json:"description"`
	CreatedBy    string    `gorm:"column:created_by" json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Milestone) TableName() string { return "initiative_milestones" }

// OnePager is the weekly narrative report of one initiative.
type OnePager struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	InitiativeID uint      `gorm:"not null;column:initiative_id;uniqueIndex:idx_one_pager_key" json:"initiative_id"`
	Year         int       `gorm:"not null;column:year;uniqueIndex:idx_one_pager_key" json:"year"`
	Week         int       `gorm:"not null;column:week;uniqueIndex:idx_one_pager_key" json:"week"`
	ProgressText string    `gorm:"column:progress_text" json:"progress"`
	NextSteps    string    `gorm:"column:next_steps" json:"next_steps"`
	Risks        string    `gorm:"column:risks" json:"risks"`
	UpdatedBy    string    `gorm:"column:updated_by" json:"updated_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (OnePager) TableName() string { return "one_pagers" }
