package entity

import "time"

// Question types.
const (
	QuestionTypeYesNo  = "YES_NO"
	QuestionTypeText   = "TEXT"
	QuestionTypeNumber = "NUMBER"
)

// ChecklistTemplate is a reusable, ordered set of inspection questions.
// Deletion is a soft deactivate so historical answers keep their questions.
type ChecklistTemplate struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	Name        string    `json:"name" gorm:"size:128;not null;uniqueIndex"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Questions []ChecklistQuestion `json:"questions,omitempty" gorm:"foreignKey:ChecklistTemplateID"`
}

func (ChecklistTemplate) TableName() string {
	return "checklist_templates"
}

// ChecklistQuestion is one inspection item on a template.
type ChecklistQuestion struct {
	ID                  string    `json:"id" gorm:"primaryKey;size:32"`
	ChecklistTemplateID string    `json:"checklist_template_id" gorm:"size:32;not null;index"`
	QuestionText        string    `json:"question_text" gorm:"not null"`
	QuestionType        string    `json:"question_type" gorm:"size:16;not null;default:YES_NO"`
	Required            bool      `json:"required" gorm:"not null;default:true"`
	DisplayOrder        int       `json:"display_order" gorm:"not null;default:0"`
	CreatedAt           time.Time `json:"created_at"`
}

func (ChecklistQuestion) TableName() string {
	return "checklist_questions"
}
