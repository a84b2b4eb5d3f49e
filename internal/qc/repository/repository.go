package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories bundles all data access objects.
type Repositories struct {
	User       *UserRepository
	Process    *ProcessRepository
	Template   *TemplateRepository
	BatteryBox *BatteryBoxRepository
	Defect     *DefectRepository
}

// NewRepositories creates the repository bundle.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Process:    NewProcessRepository(db),
		Template:   NewTemplateRepository(db),
		BatteryBox: NewBatteryBoxRepository(db),
		Defect:     NewDefectRepository(db),
	}
}

// translateError maps gorm's not-found to the repository sentinel.
func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
