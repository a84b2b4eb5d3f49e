package entity

import "time"

// Process is a manufacturing step definition (e.g. Welding, HV Test).
// It is referenced by battery box process instances, never owned by them.
type Process struct {
	ID                string    `json:"id" gorm:"primaryKey;size:32"`
	Name              string    `json:"name" gorm:"size:128;not null;uniqueIndex"`
	Description       string    `json:"description,omitempty"`
	ChecklistRequired bool      `json:"checklist_required" gorm:"not null;default:false"`
	DisplayOrder      int       `json:"display_order" gorm:"not null;default:0"`
	Active            bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (Process) TableName() string {
	return "processes"
}
