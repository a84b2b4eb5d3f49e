package entity

import "time"

// User roles.
const (
	RoleAdmin    = "ADMIN"
	RoleOperator = "OPERATOR"
	RoleQuality  = "QUALITY"
)

// User is a factory account (admin, line operator or quality inspector).
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	Email     string    `json:"email" gorm:"size:128;not null;uniqueIndex"`
	Password  string    `json:"-" gorm:"size:128;not null"`
	Name      string    `json:"name" gorm:"size:64;not null"`
	Role      string    `json:"role" gorm:"size:16;not null;default:OPERATOR"`
	Active    bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
