package entity

import "time"

// Battery box statuses.
const (
	BoxStatusInProgress = "IN_PROGRESS"
	BoxStatusCompleted  = "COMPLETED"
)

// Process instance statuses.
const (
	ProcessStatusPending    = "PENDING"
	ProcessStatusInProgress = "IN_PROGRESS"
	ProcessStatusCompleted  = "COMPLETED"
)

// BatteryBox is one production unit tracked through its process instances.
// Status is derived: COMPLETED iff every process instance is COMPLETED.
type BatteryBox struct {
	ID           string     `json:"id" gorm:"primaryKey;size:32"`
	SerialNumber string     `json:"serial_number" gorm:"size:64;not null;uniqueIndex"`
	Status       string     `json:"status" gorm:"size:16;not null;default:IN_PROGRESS"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`

	Processes []BatteryBoxProcess `json:"processes,omitempty" gorm:"foreignKey:BatteryBoxID"`
}

func (BatteryBox) TableName() string {
	return "battery_boxes"
}

// BatteryBoxProcess is one manufacturing step applied to one battery box.
// The template reference is a snapshot link taken at creation time; an
// instance without a template auto-completes immediately.
type BatteryBoxProcess struct {
	ID                  string     `json:"id" gorm:"primaryKey;size:32"`
	BatteryBoxID        string     `json:"battery_box_id" gorm:"size:32;not null;uniqueIndex:idx_box_process"`
	ProcessID           string     `json:"process_id" gorm:"size:32;not null;uniqueIndex:idx_box_process"`
	ChecklistTemplateID *string    `json:"checklist_template_id,omitempty" gorm:"size:32"`
	DisplayOrder        int        `json:"display_order" gorm:"not null;default:0"`
	Status              string     `json:"status" gorm:"size:16;not null;default:PENDING"`
	StartedAt           *time.Time `json:"started_at,omitempty"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	BatteryBox        *BatteryBox        `json:"battery_box,omitempty" gorm:"foreignKey:BatteryBoxID"`
	Process           *Process           `json:"process,omitempty" gorm:"foreignKey:ProcessID"`
	ChecklistTemplate *ChecklistTemplate `json:"checklist_template,omitempty" gorm:"foreignKey:ChecklistTemplateID"`
	Answers           []ChecklistAnswer  `json:"answers,omitempty" gorm:"foreignKey:BatteryBoxProcessID"`
}

func (BatteryBoxProcess) TableName() string {
	return "battery_box_processes"
}

// ChecklistAnswer is the latest answer for one question on one process
// instance. Writes are upserts: the newest value, responder and timestamp win.
type ChecklistAnswer struct {
	ID                  string    `json:"id" gorm:"primaryKey;size:32"`
	BatteryBoxProcessID string    `json:"battery_box_process_id" gorm:"size:32;not null;uniqueIndex:idx_instance_question"`
	QuestionID          string    `json:"question_id" gorm:"size:32;not null;uniqueIndex:idx_instance_question"`
	Answer              string    `json:"answer" gorm:"not null"`
	AnsweredByID        string    `json:"answered_by_id" gorm:"size:32;not null"`
	AnsweredAt          time.Time `json:"answered_at"`

	Question   *ChecklistQuestion `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	AnsweredBy *User              `json:"answered_by,omitempty" gorm:"foreignKey:AnsweredByID"`
}

func (ChecklistAnswer) TableName() string {
	return "checklist_answers"
}
