package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Odiway/battrack/internal/qc/entity"
	"github.com/Odiway/battrack/internal/qc/repository"
)

// BatteryBoxService owns the unit lifecycle.
type BatteryBoxService struct {
	boxRepo     *repository.BatteryBoxRepository
	processRepo *repository.ProcessRepository
}

func NewBatteryBoxService(boxRepo *repository.BatteryBoxRepository, processRepo *repository.ProcessRepository) *BatteryBoxService {
	return &BatteryBoxService{
		boxRepo:     boxRepo,
		processRepo: processRepo,
	}
}

// SelectedProcess is one process picked at unit creation, optionally bound
// to a checklist template snapshot.
type SelectedProcess struct {
	ProcessID           string  `json:"process_id" binding:"required"`
	ChecklistTemplateID *string `json:"checklist_template_id"`
}

// CreateBatteryBoxInput is the unit creation request.
type CreateBatteryBoxInput struct {
	SerialNumber      string            `json:"serial_number"`
	Notes             string            `json:"notes"`
	SelectedProcesses []SelectedProcess `json:"selected_processes"`
}

// CreateBatteryBox creates a unit with one process instance per selection.
// Instances without a template complete immediately; if everything
// completes at creation the unit itself completes.
func (s *BatteryBoxService) CreateBatteryBox(ctx context.Context, input *CreateBatteryBoxInput) (*entity.BatteryBox, error) {
	serial := strings.TrimSpace(input.SerialNumber)
	if serial == "" {
		return nil, fmt.Errorf("%w: serial number is required", ErrValidation)
	}
	if len(input.SelectedProcesses) == 0 {
		return nil, fmt.Errorf("%w: at least one process must be selected", ErrValidation)
	}

	count, err := s.boxRepo.CountBySerial(ctx, serial)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: serial number already exists", ErrConflict)
	}

	now := time.Now()
	box := &entity.BatteryBox{
		ID:           newID(),
		SerialNumber: serial,
		Status:       entity.BoxStatusInProgress,
		Notes:        input.Notes,
	}

	allCompleted := true
	for i, sp := range input.SelectedProcesses {
		process, err := s.processRepo.FindByID(ctx, sp.ProcessID)
		if err != nil {
			return nil, fmt.Errorf("%w: process %s", ErrNotFound, sp.ProcessID)
		}
		if process.ChecklistRequired && sp.ChecklistTemplateID == nil {
			return nil, fmt.Errorf("%w: process %q requires a checklist template", ErrValidation, process.Name)
		}

		instance := entity.BatteryBoxProcess{
			ID:                  newID(),
			ProcessID:           sp.ProcessID,
			ChecklistTemplateID: sp.ChecklistTemplateID,
			DisplayOrder:        i,
		}
		if sp.ChecklistTemplateID != nil {
			instance.Status = entity.ProcessStatusPending
			allCompleted = false
		} else {
			// Checklist not required: the step auto-passes at creation.
			instance.Status = entity.ProcessStatusCompleted
			completedAt := now
			instance.CompletedAt = &completedAt
		}
		box.Processes = append(box.Processes, instance)
	}

	if allCompleted {
		box.Status = entity.BoxStatusCompleted
		completedAt := now
		box.CompletedAt = &completedAt
	}

	if err := s.boxRepo.Create(ctx, box); err != nil {
		return nil, err
	}

	return s.boxRepo.FindByID(ctx, box.ID)
}

// ListBatteryBoxes returns units filtered by status and serial search.
func (s *BatteryBoxService) ListBatteryBoxes(ctx context.Context, status, search string) ([]entity.BatteryBox, error) {
	return s.boxRepo.List(ctx, repository.BoxFilter{Status: status, Search: search})
}

// GetBatteryBox loads one unit with processes, templates and answers.
func (s *BatteryBoxService) GetBatteryBox(ctx context.Context, id string) (*entity.BatteryBox, error) {
	return s.boxRepo.FindByID(ctx, id)
}

// DeleteBatteryBox removes a unit and all dependent rows.
func (s *BatteryBoxService) DeleteBatteryBox(ctx context.Context, id string) error {
	return s.boxRepo.Delete(ctx, id)
}
