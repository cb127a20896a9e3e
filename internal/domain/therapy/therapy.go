package therapy

import (
	"time"

	"github.com/google/uuid"
)

type Therapy struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Name        string  `gorm:"column:name;type:varchar(200);not null;index"`
	Description string  `gorm:"column:description;type:text"`
	Category    string  `gorm:"column:category;type:varchar(100);not null;default:'General';index"`
	DurationMin int     `gorm:"column:duration_min;not null"`
	Price       float64 `gorm:"column:price;not null"`

	IsAvailable bool `gorm:"column:is_available;not null;default:true;index"`
}

func (Therapy) TableName() string {
	return "clinic.therapies"
}

type ListQuery struct {
	Category string
	Search   string

	// AvailableOnly hides therapies taken off the menu.
	AvailableOnly bool
}
