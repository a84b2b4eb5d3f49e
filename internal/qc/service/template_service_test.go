package service

import (
	"context"
	"testing"

	"github.com/Odiway/battrack/internal/qc/entity"
)

func TestTemplateCRUD(t *testing.T) {
	fx := setupChecklistTest(t)
	ctx := context.Background()
	svc := NewTemplateService(fx.repos.Template)

	required := false
	created, err := svc.CreateTemplate(ctx, &TemplateInput{
		Name:        "Packaging Checklist",
		Description: "Pre-shipment checks",
		Questions: []QuestionInput{
			{QuestionText: "Ambalaj hasarsız mı?"},
			{QuestionText: "Sevkiyat notu", QuestionType: entity.QuestionTypeText, Required: &required},
		},
	})
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}
	if len(created.Questions) != 2 {
		t.Fatalf("questions = %d, want 2", len(created.Questions))
	}
	if created.Questions[0].QuestionType != entity.QuestionTypeYesNo {
		t.Errorf("default question type = %q, want YES_NO", created.Questions[0].QuestionType)
	}
	if created.Questions[1].Required {
		t.Error("explicit required=false ignored")
	}

	// Replacing the question set drops the old rows.
	updated, err := svc.UpdateTemplate(ctx, created.ID, &TemplateInput{
		Questions: []QuestionInput{
			{QuestionText: "Palet sabitlemesi yapıldı mı?"},
		},
	})
	if err != nil {
		t.Fatalf("UpdateTemplate: %v", err)
	}
	if len(updated.Questions) != 1 {
		t.Errorf("questions after replace = %d, want 1", len(updated.Questions))
	}

	if _, err := svc.CreateTemplate(ctx, &TemplateInput{
		Questions: []QuestionInput{{QuestionText: "x"}},
	}); !errorsIsValidation(err) {
		t.Errorf("nameless create error = %v, want ErrValidation", err)
	}

	if _, err := svc.CreateTemplate(ctx, &TemplateInput{
		Name:      "Bad Type",
		Questions: []QuestionInput{{QuestionText: "x", QuestionType: "MAYBE"}},
	}); !errorsIsValidation(err) {
		t.Errorf("bad type error = %v, want ErrValidation", err)
	}
}

func TestTemplateSoftDeleteKeepsAnswers(t *testing.T) {
	fx := setupChecklistTest(t)
	ctx := context.Background()
	svc := NewTemplateService(fx.repos.Template)

	if _, err := fx.svc.SubmitAnswers(ctx, fx.box.ID, fx.process.ID, fx.user.ID, []AnswerInput{
		{QuestionID: fx.questions["cable"], Answer: "evet"},
	}); err != nil {
		t.Fatalf("SubmitAnswers: %v", err)
	}

	if err := svc.DeleteTemplate(ctx, fx.template.ID); err != nil {
		t.Fatalf("DeleteTemplate: %v", err)
	}

	// Deactivated templates drop out of the catalog...
	templates, err := svc.ListTemplates(ctx)
	if err != nil {
		t.Fatalf("ListTemplates: %v", err)
	}
	for _, tpl := range templates {
		if tpl.ID == fx.template.ID {
			t.Error("deactivated template still listed")
		}
	}

	// ...but existing answers and their questions survive.
	var answerCount, questionCount int64
	fx.db.Model(&entity.ChecklistAnswer{}).Count(&answerCount)
	if answerCount != 1 {
		t.Errorf("answers after soft delete = %d, want 1", answerCount)
	}
	fx.db.Model(&entity.ChecklistQuestion{}).Where("checklist_template_id = ?", fx.template.ID).Count(&questionCount)
	if questionCount != 3 {
		t.Errorf("questions after soft delete = %d, want 3", questionCount)
	}

	// Existing instances can still submit against the snapshot.
	if _, err := fx.svc.SubmitAnswers(ctx, fx.box.ID, fx.process.ID, fx.user.ID, []AnswerInput{
		{QuestionID: fx.questions["isolation"], Answer: "evet"},
	}); err != nil {
		t.Errorf("submit against deactivated template: %v", err)
	}
}
