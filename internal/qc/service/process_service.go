package service

import (
	"context"
	"fmt"

	"github.com/Odiway/battrack/internal/qc/entity"
	"github.com/Odiway/battrack/internal/qc/repository"
)

// ProcessService manages manufacturing step definitions.
type ProcessService struct {
	repo *repository.ProcessRepository
}

func NewProcessService(repo *repository.ProcessRepository) *ProcessService {
	return &ProcessService{repo: repo}
}

func (s *ProcessService) ListProcesses(ctx context.Context) ([]entity.Process, error) {
	return s.repo.ListActive(ctx)
}

func (s *ProcessService) GetProcess(ctx context.Context, id string) (*entity.Process, error) {
	return s.repo.FindByID(ctx, id)
}

// ProcessInput is the admin create/update request.
type ProcessInput struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	ChecklistRequired *bool  `json:"checklist_required"`
	DisplayOrder      *int   `json:"display_order"`
	Active            *bool  `json:"active"`
}

func (s *ProcessService) CreateProcess(ctx context.Context, input *ProcessInput) (*entity.Process, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	process := &entity.Process{
		ID:          newID(),
		Name:        input.Name,
		Description: input.Description,
		Active:      true,
	}
	if input.ChecklistRequired != nil {
		process.ChecklistRequired = *input.ChecklistRequired
	}
	if input.DisplayOrder != nil {
		process.DisplayOrder = *input.DisplayOrder
	}

	if err := s.repo.Create(ctx, process); err != nil {
		return nil, err
	}
	return process, nil
}

func (s *ProcessService) UpdateProcess(ctx context.Context, id string, input *ProcessInput) (*entity.Process, error) {
	process, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		process.Name = input.Name
	}
	if input.Description != "" {
		process.Description = input.Description
	}
	if input.ChecklistRequired != nil {
		process.ChecklistRequired = *input.ChecklistRequired
	}
	if input.DisplayOrder != nil {
		process.DisplayOrder = *input.DisplayOrder
	}
	if input.Active != nil {
		process.Active = *input.Active
	}

	if err := s.repo.Update(ctx, process); err != nil {
		return nil, err
	}
	return process, nil
}

// DeleteProcess soft-deletes: existing process instances keep referencing it.
func (s *ProcessService) DeleteProcess(ctx context.Context, id string) error {
	return s.repo.Deactivate(ctx, id)
}
