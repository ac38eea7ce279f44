package roadmap

import (
	"time"
)

// Strategic value classifications accepted for Initiative.Value.
const (
	ValueStrategic   = "Strategic Value"
	ValueOperational = "Operational Value"
	ValueFinancial   = "Financial Value"
	ValueCustomer    = "Customer Value"
	ValueRegulatory  = "Regulatory Value"
)

var AllowedValues = []string{
	ValueStrategic,
	ValueOperational,
	ValueFinancial,
	ValueCustomer,
	ValueRegulatory,
}

func IsAllowedValue(v string) bool {
	for _, a := range AllowedValues {
		if a == v {
			return true
		}
	}
	return false
}

type Initiative struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	Name               string     `gorm:"not null;column:name" json:"name"`
	Area               string     `gorm:"column:area;index" json:"area"`
	Champion           string     `gorm:"column:champion" json:"champion"`
	TransformationLead string     `gorm:"column:transformation_lead" json:"transformation_lead"`
	Complexity         string     `gorm:"column:complexity" json:"complexity"`
	Year               int        `gorm:"not null;column:year;index" json:"year"`
	Value              *string    `gorm:"column:value" json:"value"`
	Status             string     `gorm:"column:status" json:"status"`
	Methodology        string     `gorm:"not null;column:methodology;default:Hibrida" json:"methodology"`
	StartDate          *time.Time `gorm:"column:start_date" json:"start_date"`
	EndDate            *time.Time `gorm:"column:end_date" json:"end_date"`
	Progress           int        `gorm:"not null;column:progress;default:0" json:"progress"`
	Notes              string     `gorm:"column:notes" json:"notes"`
	CustomOrder        int        `gorm:"not null;column:custom_order;default:0" json:"custom_order"`
	IsTop              bool       `gorm:"not null;column:is_top;default:false" json:"is_top"`

	Phases       []InitiativePhase      `gorm:"foreignKey:InitiativeID" json:"phases"`
	Technologies []InitiativeTechnology `gorm:"foreignKey:InitiativeID" json:"technologies"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Initiative) TableName() string { return "initiatives" }

// TechnologyNames flattens the preloaded technology joins.
func (i *Initiative) TechnologyNames() []string {
	out := make([]string, 0, len(i.Technologies))
	for _, t := range i.Technologies {
		if t.Technology != nil {
			out = append(out, t.Technology.Name)
		}
	}
	return out
}

type Technology struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;uniqueIndex;column:name" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Technology) TableName() string { return "technologies" }

type InitiativeTechnology struct {
	ID           uint        `gorm:"primaryKey" json:"-"`
	InitiativeID uint        `gorm:"not null;uniqueIndex:idx_initiative_technology" json:"initiative_id"`
	TechnologyID uint        `gorm:"not null;uniqueIndex:idx_initiative_technology" json:"technology_id"`
	Technology   *Technology `gorm:"foreignKey:TechnologyID" json:"technology,omitempty"`
}

func (InitiativeTechnology) TableName() string { return "initiative_technologies" }
