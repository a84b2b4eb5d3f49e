package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Odiway/battrack/internal/qc/entity"
	"github.com/Odiway/battrack/internal/qc/repository"
	"github.com/Odiway/battrack/internal/qc/sse"
	"gorm.io/gorm"
)

// AutoCloseNote annotates defects closed by a positive re-answer.
const AutoCloseNote = "Otomatik kapatıldı - Cevap pozitife değişti"

// ChecklistService runs the answer-submission state machine: answer upsert,
// defect creation/closure and completion propagation up to the battery box.
type ChecklistService struct {
	boxRepo *repository.BatteryBoxRepository
}

func NewChecklistService(boxRepo *repository.BatteryBoxRepository) *ChecklistService {
	return &ChecklistService{boxRepo: boxRepo}
}

// StartProcess transitions PENDING → IN_PROGRESS. Repeated starts are
// rejected, not silently accepted.
func (s *ChecklistService) StartProcess(ctx context.Context, boxID, processID string) (*entity.BatteryBoxProcess, error) {
	instance, err := s.boxRepo.FindProcess(ctx, boxID, processID)
	if err != nil {
		return nil, err
	}

	if instance.Status != entity.ProcessStatusPending {
		return nil, fmt.Errorf("%w: process already started", ErrConflict)
	}

	now := time.Now()
	instance.Status = entity.ProcessStatusInProgress
	instance.StartedAt = &now
	if err := s.boxRepo.UpdateProcess(ctx, instance); err != nil {
		return nil, err
	}

	return s.boxRepo.FindProcess(ctx, boxID, processID)
}

// AnswerInput is one (question, value) pair of a submission.
type AnswerInput struct {
	QuestionID string `json:"question_id" binding:"required"`
	Answer     string `json:"answer"`
}

type defectEvent struct {
	opened bool
	defect *entity.DefectLog
	serial string
}

// SubmitAnswers applies a set of answers to one process instance inside a
// single transaction: upsert each answer, open/close defect logs from the
// negative vocabulary, then recompute instance and box completion. The
// recomputation is idempotent, so retrying a failed submission self-heals.
func (s *ChecklistService) SubmitAnswers(ctx context.Context, boxID, processID, userID string, answers []AnswerInput) (*entity.BatteryBoxProcess, error) {
	if len(answers) == 0 {
		return nil, fmt.Errorf("%w: no answers submitted", ErrValidation)
	}

	instance, err := s.boxRepo.FindProcess(ctx, boxID, processID)
	if err != nil {
		return nil, err
	}
	if instance.ChecklistTemplateID == nil || instance.ChecklistTemplate == nil {
		return nil, fmt.Errorf("%w: process has no checklist template", ErrValidation)
	}

	questions := make(map[string]*entity.ChecklistQuestion, len(instance.ChecklistTemplate.Questions))
	for i := range instance.ChecklistTemplate.Questions {
		q := &instance.ChecklistTemplate.Questions[i]
		questions[q.ID] = q
	}
	for _, a := range answers {
		if _, ok := questions[a.QuestionID]; !ok {
			return nil, fmt.Errorf("%w: question %s is not on the checklist", ErrValidation, a.QuestionID)
		}
	}

	var events []defectEvent
	serial := ""
	if instance.BatteryBox != nil {
		serial = instance.BatteryBox.SerialNumber
	}

	err = s.boxRepo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		// Auto-start a pending instance before applying answers.
		if instance.Status == entity.ProcessStatusPending {
			if err := tx.Model(&entity.BatteryBoxProcess{}).
				Where("id = ?", instance.ID).
				Updates(map[string]interface{}{
					"status":     entity.ProcessStatusInProgress,
					"started_at": now,
				}).Error; err != nil {
				return err
			}
		}

		for _, input := range answers {
			question := questions[input.QuestionID]

			saved, err := upsertAnswer(tx, instance.ID, input.QuestionID, input.Answer, userID, now)
			if err != nil {
				return err
			}

			if IsNegativeAnswer(input.Answer) {
				defect, opened, err := upsertDefect(tx, saved, boxID, question, now)
				if err != nil {
					return err
				}
				if opened {
					events = append(events, defectEvent{opened: true, defect: defect, serial: serial})
				}
			} else {
				closed, err := autoCloseDefect(tx, saved.ID, now)
				if err != nil {
					return err
				}
				if closed != nil {
					events = append(events, defectEvent{opened: false, defect: closed, serial: serial})
				}
			}
		}

		// Completion: every required question needs a stored answer.
		var requiredCount int64
		if err := tx.Model(&entity.ChecklistQuestion{}).
			Where("checklist_template_id = ? AND required = ?", *instance.ChecklistTemplateID, true).
			Count(&requiredCount).Error; err != nil {
			return err
		}

		var answeredCount int64
		if err := tx.Model(&entity.ChecklistAnswer{}).
			Joins("JOIN checklist_questions ON checklist_questions.id = checklist_answers.question_id").
			Where("checklist_answers.battery_box_process_id = ? AND checklist_questions.required = ?", instance.ID, true).
			Count(&answeredCount).Error; err != nil {
			return err
		}

		if requiredCount > 0 && answeredCount >= requiredCount {
			if err := tx.Model(&entity.BatteryBoxProcess{}).
				Where("id = ? AND status <> ?", instance.ID, entity.ProcessStatusCompleted).
				Updates(map[string]interface{}{
					"status":       entity.ProcessStatusCompleted,
					"completed_at": now,
				}).Error; err != nil {
				return err
			}

			// Propagate to the battery box when every sibling is done.
			var remaining int64
			if err := tx.Model(&entity.BatteryBoxProcess{}).
				Where("battery_box_id = ? AND status <> ?", boxID, entity.ProcessStatusCompleted).
				Count(&remaining).Error; err != nil {
				return err
			}
			if remaining == 0 {
				if err := tx.Model(&entity.BatteryBox{}).
					Where("id = ? AND status <> ?", boxID, entity.BoxStatusCompleted).
					Updates(map[string]interface{}{
						"status":       entity.BoxStatusCompleted,
						"completed_at": now,
					}).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, ev := range events {
		if ev.opened {
			sse.PublishDefectOpened(ev.defect.ID, ev.serial, ev.defect.Category, ev.defect.Severity)
		} else {
			sse.PublishDefectClosed(ev.defect.ID, ev.serial)
		}
	}

	return s.boxRepo.FindProcess(ctx, boxID, processID)
}

// upsertAnswer saves the latest value for (instance, question); the newest
// responder and timestamp win.
func upsertAnswer(tx *gorm.DB, instanceID, questionID, value, userID string, now time.Time) (*entity.ChecklistAnswer, error) {
	var answer entity.ChecklistAnswer
	err := tx.First(&answer, "battery_box_process_id = ? AND question_id = ?", instanceID, questionID).Error
	switch {
	case err == nil:
		answer.Answer = value
		answer.AnsweredByID = userID
		answer.AnsweredAt = now
		if err := tx.Save(&answer).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		answer = entity.ChecklistAnswer{
			ID:                  newID(),
			BatteryBoxProcessID: instanceID,
			QuestionID:          questionID,
			Answer:              value,
			AnsweredByID:        userID,
			AnsweredAt:          now,
		}
		if err := tx.Create(&answer).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	return &answer, nil
}

// upsertDefect opens (or reopens) the defect tied to an answer, recomputing
// category, subcategory and severity from the question text.
func upsertDefect(tx *gorm.DB, answer *entity.ChecklistAnswer, boxID string, question *entity.ChecklistQuestion, now time.Time) (*entity.DefectLog, bool, error) {
	category, subcategory := ClassifyCategory(question.QuestionText)
	severity := ClassifySeverity(question.QuestionText)

	var sub *string
	if subcategory != "" {
		sub = &subcategory
	}

	var defect entity.DefectLog
	err := tx.First(&defect, "checklist_answer_id = ?", answer.ID).Error
	switch {
	case err == nil:
		reopened := defect.Status != entity.DefectStatusOpen
		defect.Category = category
		defect.Subcategory = sub
		defect.Description = question.QuestionText
		defect.Severity = severity
		defect.Status = entity.DefectStatusOpen
		defect.UpdatedAt = now
		if err := tx.Save(&defect).Error; err != nil {
			return nil, false, err
		}
		return &defect, reopened, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		defect = entity.DefectLog{
			ID:                newID(),
			ChecklistAnswerID: answer.ID,
			BatteryBoxID:      boxID,
			Category:          category,
			Subcategory:       sub,
			Description:       question.QuestionText,
			Severity:          severity,
			Status:            entity.DefectStatusOpen,
		}
		if err := tx.Create(&defect).Error; err != nil {
			return nil, false, err
		}
		return &defect, true, nil
	default:
		return nil, false, err
	}
}

// autoCloseDefect closes (never deletes) an existing defect after its answer
// turned positive. Returns nil when there was nothing to close.
func autoCloseDefect(tx *gorm.DB, answerID string, now time.Time) (*entity.DefectLog, error) {
	var defect entity.DefectLog
	err := tx.First(&defect, "checklist_answer_id = ?", answerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if defect.Status == entity.DefectStatusClosed {
		return nil, nil
	}

	defect.Status = entity.DefectStatusClosed
	defect.ResolvedAt = &now
	defect.Notes = AutoCloseNote
	if err := tx.Save(&defect).Error; err != nil {
		return nil, err
	}
	return &defect, nil
}
