package service

import (
	"context"
	"testing"

	"github.com/Odiway/battrack/internal/qc/entity"
	"github.com/Odiway/battrack/internal/qc/repository"
	"github.com/Odiway/battrack/internal/qc/testutil"
	"gorm.io/gorm"
)

type checklistFixture struct {
	db        *gorm.DB
	repos     *repository.Repositories
	boxSvc    *BatteryBoxService
	svc       *ChecklistService
	user      *entity.User
	process   *entity.Process
	template  *entity.ChecklistTemplate
	box       *entity.BatteryBox
	questions map[string]string // question text -> id
}

func setupChecklistTest(t *testing.T) *checklistFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)

	user := testutil.SeedTestUser(t, db, "user-001", "Test Operator", "operator@test.com", entity.RoleOperator)
	process := testutil.SeedTestProcess(t, db, "proc-001", "HV Test", true)
	template := testutil.SeedTestTemplate(t, db, "tmpl-001", "HV Test Checklist", []entity.ChecklistQuestion{
		{ID: "q-cable", ChecklistTemplateID: "tmpl-001", QuestionText: "Kablo bağlantısı kontrol edildi mi?", QuestionType: entity.QuestionTypeYesNo, Required: true, DisplayOrder: 1},
		{ID: "q-isolation", ChecklistTemplateID: "tmpl-001", QuestionText: "İzolasyon direnci uygun mu?", QuestionType: entity.QuestionTypeYesNo, Required: true, DisplayOrder: 2},
		{ID: "q-notes", ChecklistTemplateID: "tmpl-001", QuestionText: "Notlar", QuestionType: entity.QuestionTypeText, Required: false, DisplayOrder: 3},
	})

	boxSvc := NewBatteryBoxService(repos.BatteryBox, repos.Process)
	templateID := template.ID
	box, err := boxSvc.CreateBatteryBox(context.Background(), &CreateBatteryBoxInput{
		SerialNumber: "BB-2024-001",
		SelectedProcesses: []SelectedProcess{
			{ProcessID: process.ID, ChecklistTemplateID: &templateID},
		},
	})
	if err != nil {
		t.Fatalf("CreateBatteryBox: %v", err)
	}

	return &checklistFixture{
		db:       db,
		repos:    repos,
		boxSvc:   boxSvc,
		svc:      NewChecklistService(repos.BatteryBox),
		user:     user,
		process:  process,
		template: template,
		box:      box,
		questions: map[string]string{
			"cable":     "q-cable",
			"isolation": "q-isolation",
			"notes":     "q-notes",
		},
	}
}

func TestStartProcess(t *testing.T) {
	fx := setupChecklistTest(t)
	ctx := context.Background()

	instance, err := fx.svc.StartProcess(ctx, fx.box.ID, fx.process.ID)
	if err != nil {
		t.Fatalf("StartProcess: %v", err)
	}
	if instance.Status != entity.ProcessStatusInProgress {
		t.Errorf("status = %q, want IN_PROGRESS", instance.Status)
	}
	if instance.StartedAt == nil {
		t.Error("StartedAt not set")
	}

	// A second start must be rejected.
	if _, err := fx.svc.StartProcess(ctx, fx.box.ID, fx.process.ID); err == nil {
		t.Fatal("expected error on repeated start")
	} else if !errorsIsConflict(err) {
		t.Errorf("repeated start error = %v, want ErrConflict", err)
	}
}

func TestSubmitAnswersOpensDefect(t *testing.T) {
	fx := setupChecklistTest(t)
	ctx := context.Background()

	instance, err := fx.svc.SubmitAnswers(ctx, fx.box.ID, fx.process.ID, fx.user.ID, []AnswerInput{
		{QuestionID: fx.questions["cable"], Answer: "hayır"},
	})
	if err != nil {
		t.Fatalf("SubmitAnswers: %v", err)
	}

	// Submitting to a pending instance auto-starts it.
	if instance.Status != entity.ProcessStatusInProgress {
		t.Errorf("instance status = %q, want IN_PROGRESS", instance.Status)
	}

	var answer entity.ChecklistAnswer
	if err := fx.db.First(&answer, "battery_box_process_id = ? AND question_id = ?", instance.ID, fx.questions["cable"]).Error; err != nil {
		t.Fatalf("answer not stored: %v", err)
	}

	var defect entity.DefectLog
	if err := fx.db.First(&defect, "checklist_answer_id = ?", answer.ID).Error; err != nil {
		t.Fatalf("defect not created: %v", err)
	}
	if defect.Status != entity.DefectStatusOpen {
		t.Errorf("defect status = %q, want OPEN", defect.Status)
	}
	if defect.Category != "ELEKTRİKSEL KONTROL" {
		t.Errorf("defect category = %q, want ELEKTRİKSEL KONTROL", defect.Category)
	}
	if defect.Severity != entity.SeverityMedium {
		t.Errorf("defect severity = %q, want MEDIUM", defect.Severity)
	}
	if defect.BatteryBoxID != fx.box.ID {
		t.Errorf("defect box = %q, want %q", defect.BatteryBoxID, fx.box.ID)
	}
}

func TestSubmitAnswersAutoClosesDefect(t *testing.T) {
	fx := setupChecklistTest(t)
	ctx := context.Background()

	if _, err := fx.svc.SubmitAnswers(ctx, fx.box.ID, fx.process.ID, fx.user.ID, []AnswerInput{
		{QuestionID: fx.questions["cable"], Answer: "hayır"},
	}); err != nil {
		t.Fatalf("negative submit: %v", err)
	}

	if _, err := fx.svc.SubmitAnswers(ctx, fx.box.ID, fx.process.ID, fx.user.ID, []AnswerInput{
		{QuestionID: fx.questions["cable"], Answer: "Evet"},
	}); err != nil {
		t.Fatalf("positive resubmit: %v", err)
	}

	// Still exactly one answer row and one defect row.
	var answerCount, defectCount int64
	fx.db.Model(&entity.ChecklistAnswer{}).Where("question_id = ?", fx.questions["cable"]).Count(&answerCount)
	if answerCount != 1 {
		t.Errorf("answer rows = %d, want 1 (upsert)", answerCount)
	}
	fx.db.Model(&entity.DefectLog{}).Where("battery_box_id = ?", fx.box.ID).Count(&defectCount)
	if defectCount != 1 {
		t.Errorf("defect rows = %d, want 1 (closed, not deleted)", defectCount)
	}

	var defect entity.DefectLog
	fx.db.First(&defect, "battery_box_id = ?", fx.box.ID)
	if defect.Status != entity.DefectStatusClosed {
		t.Errorf("defect status = %q, want CLOSED", defect.Status)
	}
	if defect.ResolvedAt == nil {
		t.Error("ResolvedAt not stamped on auto-close")
	}
	if defect.Notes != AutoCloseNote {
		t.Errorf("notes = %q, want auto-close note", defect.Notes)
	}

	var answer entity.ChecklistAnswer
	fx.db.First(&answer, "question_id = ?", fx.questions["cable"])
	if answer.Answer != "Evet" {
		t.Errorf("answer = %q, want latest value Evet", answer.Answer)
	}
}

func TestSubmitAnswersReopensDefect(t *testing.T) {
	fx := setupChecklistTest(t)
	ctx := context.Background()

	submit := func(value string) {
		t.Helper()
		if _, err := fx.svc.SubmitAnswers(ctx, fx.box.ID, fx.process.ID, fx.user.ID, []AnswerInput{
			{QuestionID: fx.questions["cable"], Answer: value},
		}); err != nil {
			t.Fatalf("SubmitAnswers(%q): %v", value, err)
		}
	}

	submit("hayır")
	submit("evet")
	submit("no")

	var defectCount int64
	fx.db.Model(&entity.DefectLog{}).Where("battery_box_id = ?", fx.box.ID).Count(&defectCount)
	if defectCount != 1 {
		t.Fatalf("defect rows = %d, want 1 across open/close/reopen", defectCount)
	}

	var defect entity.DefectLog
	fx.db.First(&defect, "battery_box_id = ?", fx.box.ID)
	if defect.Status != entity.DefectStatusOpen {
		t.Errorf("defect status = %q, want OPEN after reopen", defect.Status)
	}
}

func TestSubmitAnswersCompletesInstanceAndBox(t *testing.T) {
	fx := setupChecklistTest(t)
	ctx := context.Background()

	// Answering only one required question must not complete anything.
	instance, err := fx.svc.SubmitAnswers(ctx, fx.box.ID, fx.process.ID, fx.user.ID, []AnswerInput{
		{QuestionID: fx.questions["cable"], Answer: "evet"},
	})
	if err != nil {
		t.Fatalf("partial submit: %v", err)
	}
	if instance.Status == entity.ProcessStatusCompleted {
		t.Fatal("instance completed with a required question unanswered")
	}

	// The optional TEXT question is not needed for completion.
	instance, err = fx.svc.SubmitAnswers(ctx, fx.box.ID, fx.process.ID, fx.user.ID, []AnswerInput{
		{QuestionID: fx.questions["isolation"], Answer: "evet"},
	})
	if err != nil {
		t.Fatalf("completing submit: %v", err)
	}
	if instance.Status != entity.ProcessStatusCompleted {
		t.Errorf("instance status = %q, want COMPLETED", instance.Status)
	}
	if instance.CompletedAt == nil {
		t.Error("CompletedAt not set")
	}

	box, err := fx.boxSvc.GetBatteryBox(ctx, fx.box.ID)
	if err != nil {
		t.Fatalf("GetBatteryBox: %v", err)
	}
	if box.Status != entity.BoxStatusCompleted {
		t.Errorf("box status = %q, want COMPLETED", box.Status)
	}
	if box.CompletedAt == nil {
		t.Error("box CompletedAt not set")
	}
}

func TestSubmitAnswersIdempotentCompletion(t *testing.T) {
	fx := setupChecklistTest(t)
	ctx := context.Background()

	answers := []AnswerInput{
		{QuestionID: fx.questions["cable"], Answer: "evet"},
		{QuestionID: fx.questions["isolation"], Answer: "evet"},
	}
	first, err := fx.svc.SubmitAnswers(ctx, fx.box.ID, fx.process.ID, fx.user.ID, answers)
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if first.Status != entity.ProcessStatusCompleted {
		t.Fatalf("first submit did not complete: %q", first.Status)
	}
	firstCompleted := *first.CompletedAt

	// A resubmission must not move the completion timestamp.
	second, err := fx.svc.SubmitAnswers(ctx, fx.box.ID, fx.process.ID, fx.user.ID, answers)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if second.Status != entity.ProcessStatusCompleted {
		t.Errorf("second submit status = %q, want COMPLETED", second.Status)
	}
	if !second.CompletedAt.Equal(firstCompleted) {
		t.Errorf("CompletedAt moved on resubmission: %v → %v", firstCompleted, *second.CompletedAt)
	}
}

func TestSubmitAnswersValidation(t *testing.T) {
	fx := setupChecklistTest(t)
	ctx := context.Background()

	if _, err := fx.svc.SubmitAnswers(ctx, fx.box.ID, fx.process.ID, fx.user.ID, nil); !errorsIsValidation(err) {
		t.Errorf("empty submission error = %v, want ErrValidation", err)
	}

	if _, err := fx.svc.SubmitAnswers(ctx, fx.box.ID, fx.process.ID, fx.user.ID, []AnswerInput{
		{QuestionID: "not-a-question", Answer: "evet"},
	}); !errorsIsValidation(err) {
		t.Errorf("foreign question error = %v, want ErrValidation", err)
	}

	if _, err := fx.svc.SubmitAnswers(ctx, fx.box.ID, "no-such-process", fx.user.ID, []AnswerInput{
		{QuestionID: fx.questions["cable"], Answer: "evet"},
	}); !errorsIsNotFound(err) {
		t.Errorf("unknown instance error = %v, want ErrNotFound", err)
	}
}

func TestSubmitAnswersWithoutTemplate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	user := testutil.SeedTestUser(t, db, "user-001", "Test Operator", "operator@test.com", entity.RoleOperator)
	process := testutil.SeedTestProcess(t, db, "proc-pack", "Packaging", false)

	boxSvc := NewBatteryBoxService(repos.BatteryBox, repos.Process)
	box, err := boxSvc.CreateBatteryBox(context.Background(), &CreateBatteryBoxInput{
		SerialNumber: "BB-2024-002",
		SelectedProcesses: []SelectedProcess{
			{ProcessID: process.ID},
		},
	})
	if err != nil {
		t.Fatalf("CreateBatteryBox: %v", err)
	}

	svc := NewChecklistService(repos.BatteryBox)
	_, err = svc.SubmitAnswers(context.Background(), box.ID, process.ID, user.ID, []AnswerInput{
		{QuestionID: "anything", Answer: "evet"},
	})
	if !errorsIsValidation(err) {
		t.Errorf("template-less submit error = %v, want ErrValidation", err)
	}
}
