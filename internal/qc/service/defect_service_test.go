package service

import (
	"context"
	"testing"

	"github.com/Odiway/battrack/internal/qc/entity"
)

func TestUpdateDefectStampsResolver(t *testing.T) {
	fx := setupChecklistTest(t)
	ctx := context.Background()

	if _, err := fx.svc.SubmitAnswers(ctx, fx.box.ID, fx.process.ID, fx.user.ID, []AnswerInput{
		{QuestionID: fx.questions["cable"], Answer: "hayır"},
	}); err != nil {
		t.Fatalf("SubmitAnswers: %v", err)
	}

	var created entity.DefectLog
	if err := fx.db.First(&created, "battery_box_id = ?", fx.box.ID).Error; err != nil {
		t.Fatalf("defect not created: %v", err)
	}

	defectSvc := NewDefectService(fx.repos.Defect)

	inReview := entity.DefectStatusInReview
	updated, err := defectSvc.UpdateDefect(ctx, created.ID, fx.user.ID, &UpdateDefectInput{Status: &inReview})
	if err != nil {
		t.Fatalf("UpdateDefect to IN_REVIEW: %v", err)
	}
	if updated.Status != entity.DefectStatusInReview {
		t.Errorf("status = %q, want IN_REVIEW", updated.Status)
	}
	if updated.ResolvedAt != nil {
		t.Error("ResolvedAt stamped before resolution")
	}

	resolved := entity.DefectStatusResolved
	notes := "rework done"
	updated, err = defectSvc.UpdateDefect(ctx, created.ID, fx.user.ID, &UpdateDefectInput{Status: &resolved, Notes: &notes})
	if err != nil {
		t.Fatalf("UpdateDefect to RESOLVED: %v", err)
	}
	if updated.Status != entity.DefectStatusResolved {
		t.Errorf("status = %q, want RESOLVED", updated.Status)
	}
	if updated.ResolvedAt == nil {
		t.Error("ResolvedAt not stamped")
	}
	if updated.ResolvedByID == nil || *updated.ResolvedByID != fx.user.ID {
		t.Errorf("ResolvedByID = %v, want %q", updated.ResolvedByID, fx.user.ID)
	}
	if updated.Notes != notes {
		t.Errorf("notes = %q, want %q", updated.Notes, notes)
	}
}

func TestGetStats(t *testing.T) {
	fx := setupChecklistTest(t)
	ctx := context.Background()

	// Two negatives on distinct questions: two open defects.
	if _, err := fx.svc.SubmitAnswers(ctx, fx.box.ID, fx.process.ID, fx.user.ID, []AnswerInput{
		{QuestionID: fx.questions["cable"], Answer: "hayır"},
		{QuestionID: fx.questions["isolation"], Answer: "no"},
	}); err != nil {
		t.Fatalf("SubmitAnswers: %v", err)
	}

	defectSvc := NewDefectService(fx.repos.Defect)
	stats, err := defectSvc.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}

	if stats.Summary.TotalOpen != 2 {
		t.Errorf("TotalOpen = %d, want 2", stats.Summary.TotalOpen)
	}
	// "İzolasyon direnci uygun mu?" is a CRITICAL question.
	if stats.Summary.CriticalCount != 1 {
		t.Errorf("CriticalCount = %d, want 1", stats.Summary.CriticalCount)
	}
	if len(stats.Recent) != 2 {
		t.Errorf("recent defects = %d, want 2", len(stats.Recent))
	}
	if len(stats.DailyTrend) != 1 {
		t.Errorf("trend buckets = %d, want 1 (all today)", len(stats.DailyTrend))
	}
	if len(stats.TopBoxes) != 1 || stats.TopBoxes[0].SerialNumber != "BB-2024-001" {
		t.Errorf("top boxes = %+v, want single entry for BB-2024-001", stats.TopBoxes)
	}
}
