package service

import (
	"context"
	"fmt"

	"github.com/Odiway/battrack/internal/qc/entity"
	"github.com/Odiway/battrack/internal/qc/repository"
)

// TemplateService manages checklist templates and their questions.
type TemplateService struct {
	repo *repository.TemplateRepository
}

func NewTemplateService(repo *repository.TemplateRepository) *TemplateService {
	return &TemplateService{repo: repo}
}

func (s *TemplateService) ListTemplates(ctx context.Context) ([]entity.ChecklistTemplate, error) {
	return s.repo.ListActive(ctx)
}

func (s *TemplateService) GetTemplate(ctx context.Context, id string) (*entity.ChecklistTemplate, error) {
	return s.repo.FindByID(ctx, id)
}

// QuestionInput is one question of a template create/update request.
type QuestionInput struct {
	QuestionText string `json:"question_text"`
	QuestionType string `json:"question_type"`
	Required     *bool  `json:"required"`
}

// TemplateInput is the admin create/update request.
type TemplateInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Active      *bool           `json:"active"`
	Questions   []QuestionInput `json:"questions"`
}

func buildQuestions(templateID string, inputs []QuestionInput) ([]entity.ChecklistQuestion, error) {
	questions := make([]entity.ChecklistQuestion, 0, len(inputs))
	for i, q := range inputs {
		if q.QuestionText == "" {
			return nil, fmt.Errorf("%w: question %d has no text", ErrValidation, i+1)
		}
		qType := q.QuestionType
		if qType == "" {
			qType = entity.QuestionTypeYesNo
		}
		switch qType {
		case entity.QuestionTypeYesNo, entity.QuestionTypeText, entity.QuestionTypeNumber:
		default:
			return nil, fmt.Errorf("%w: unknown question type %q", ErrValidation, qType)
		}
		required := true
		if q.Required != nil {
			required = *q.Required
		}
		questions = append(questions, entity.ChecklistQuestion{
			ID:                  newID(),
			ChecklistTemplateID: templateID,
			QuestionText:        q.QuestionText,
			QuestionType:        qType,
			Required:            required,
			DisplayOrder:        i,
		})
	}
	return questions, nil
}

func (s *TemplateService) CreateTemplate(ctx context.Context, input *TemplateInput) (*entity.ChecklistTemplate, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	template := &entity.ChecklistTemplate{
		ID:          newID(),
		Name:        input.Name,
		Description: input.Description,
		Active:      true,
	}
	questions, err := buildQuestions(template.ID, input.Questions)
	if err != nil {
		return nil, err
	}
	template.Questions = questions

	if err := s.repo.Create(ctx, template); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, template.ID)
}

// UpdateTemplate edits the template header and, when questions are supplied,
// replaces the question set wholesale.
func (s *TemplateService) UpdateTemplate(ctx context.Context, id string, input *TemplateInput) (*entity.ChecklistTemplate, error) {
	template, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		template.Name = input.Name
	}
	if input.Description != "" {
		template.Description = input.Description
	}
	if input.Active != nil {
		template.Active = *input.Active
	}
	template.Questions = nil
	if err := s.repo.Update(ctx, template); err != nil {
		return nil, err
	}

	if input.Questions != nil {
		questions, err := buildQuestions(id, input.Questions)
		if err != nil {
			return nil, err
		}
		if err := s.repo.ReplaceQuestions(ctx, id, questions); err != nil {
			return nil, err
		}
	}

	return s.repo.FindByID(ctx, id)
}

// DeleteTemplate soft-deletes; historical answers keep their questions.
func (s *TemplateService) DeleteTemplate(ctx context.Context, id string) error {
	return s.repo.Deactivate(ctx, id)
}
