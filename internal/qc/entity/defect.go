package entity

import "time"

// Defect severities.
const (
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

// Defect statuses.
const (
	DefectStatusOpen     = "OPEN"
	DefectStatusInReview = "IN_REVIEW"
	DefectStatusResolved = "RESOLVED"
	DefectStatusClosed   = "CLOSED"
)

// DefectLog is a nonconformance record derived from a negative checklist
// answer. At most one exists per answer; a later positive answer closes it
// rather than deleting it, keeping the audit trail.
type DefectLog struct {
	ID                string     `json:"id" gorm:"primaryKey;size:32"`
	ChecklistAnswerID string     `json:"checklist_answer_id" gorm:"size:32;not null;uniqueIndex"`
	BatteryBoxID      string     `json:"battery_box_id" gorm:"size:32;not null;index"`
	Category          string     `json:"category" gorm:"size:64;not null"`
	Subcategory       *string    `json:"subcategory,omitempty" gorm:"size:64"`
	Description       string     `json:"description" gorm:"not null"`
	Severity          string     `json:"severity" gorm:"size:16;not null;default:LOW"`
	Status            string     `json:"status" gorm:"size:16;not null;default:OPEN"`
	Notes             string     `json:"notes,omitempty"`
	ResolvedByID      *string    `json:"resolved_by_id,omitempty" gorm:"size:32"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	BatteryBox      *BatteryBox      `json:"battery_box,omitempty" gorm:"foreignKey:BatteryBoxID"`
	ChecklistAnswer *ChecklistAnswer `json:"checklist_answer,omitempty" gorm:"foreignKey:ChecklistAnswerID"`
	ResolvedBy      *User            `json:"resolved_by,omitempty" gorm:"foreignKey:ResolvedByID"`
}

func (DefectLog) TableName() string {
	return "defect_logs"
}
