package handler

import (
	"net/http"
	"testing"

	"github.com/Odiway/battrack/internal/qc/entity"
	"github.com/Odiway/battrack/internal/qc/repository"
	"github.com/Odiway/battrack/internal/qc/service"
	"github.com/Odiway/battrack/internal/qc/testutil"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupBoxTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)

	testutil.SeedTestUser(t, db, "user-001", "Test Operator", "operator@test.com", entity.RoleOperator)
	testutil.SeedTestProcess(t, db, "proc-001", "HV Test", true)
	testutil.SeedTestTemplate(t, db, "tmpl-001", "HV Test Checklist", []entity.ChecklistQuestion{
		{ID: "q-1", ChecklistTemplateID: "tmpl-001", QuestionText: "İzolasyon direnci uygun mu?", QuestionType: entity.QuestionTypeYesNo, Required: true, DisplayOrder: 1},
		{ID: "q-2", ChecklistTemplateID: "tmpl-001", QuestionText: "Güvenlik bariyeri yerinde mi?", QuestionType: entity.QuestionTypeYesNo, Required: true, DisplayOrder: 2},
	})

	boxSvc := service.NewBatteryBoxService(repos.BatteryBox, repos.Process)
	checklistSvc := service.NewChecklistService(repos.BatteryBox)
	reportSvc := service.NewReportService(repos.BatteryBox, nil, "", zap.NewNop())
	defectSvc := service.NewDefectService(repos.Defect)

	boxHandler := NewBatteryBoxHandler(boxSvc, checklistSvc, reportSvc)
	defectHandler := NewDefectHandler(defectSvc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")
	api.GET("/battery-boxes", boxHandler.List)
	api.POST("/battery-boxes", boxHandler.Create)
	api.GET("/battery-boxes/:id", boxHandler.Get)
	api.DELETE("/battery-boxes/:id", boxHandler.Delete)
	api.POST("/battery-boxes/:id/processes/:processId/start", boxHandler.StartProcess)
	api.POST("/battery-boxes/:id/processes/:processId/answers", boxHandler.SubmitAnswers)
	api.GET("/battery-boxes/:id/processes/:processId/export", boxHandler.Export)
	api.GET("/defects", defectHandler.List)

	return router, db
}

func createBoxPayload(serial string) map[string]interface{} {
	return map[string]interface{}{
		"serial_number": serial,
		"selected_processes": []map[string]interface{}{
			{"process_id": "proc-001", "checklist_template_id": "tmpl-001"},
		},
	}
}

func TestBatteryBoxLifecycle(t *testing.T) {
	router, _ := setupBoxTest(t)
	token := testutil.OperatorToken("user-001")

	// Create.
	w := testutil.DoRequest(router, "POST", "/api/v1/battery-boxes", createBoxPayload("BB-2024-001"), token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	box := resp["data"].(map[string]interface{})
	boxID := box["id"].(string)
	if box["status"] != "IN_PROGRESS" {
		t.Errorf("box status = %v, want IN_PROGRESS", box["status"])
	}

	// Duplicate serial → 409.
	w = testutil.DoRequest(router, "POST", "/api/v1/battery-boxes", createBoxPayload("BB-2024-001"), token)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate create status = %d, want 409", w.Code)
	}

	// Negative answer opens a defect.
	w = testutil.DoRequest(router, "POST", "/api/v1/battery-boxes/"+boxID+"/processes/proc-001/answers", map[string]interface{}{
		"answers": []map[string]string{
			{"question_id": "q-1", "answer": "hayır"},
		},
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("answers status = %d, body = %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/defects?status=OPEN", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("defects status = %d", w.Code)
	}
	resp = testutil.ParseResponse(w)
	items := resp["data"].(map[string]interface{})["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("open defects = %d, want 1", len(items))
	}
	defect := items[0].(map[string]interface{})
	// "izolasyon" is a CRITICAL keyword.
	if defect["severity"] != "CRITICAL" {
		t.Errorf("defect severity = %v, want CRITICAL", defect["severity"])
	}

	// Completing both required questions completes the instance and the box.
	w = testutil.DoRequest(router, "POST", "/api/v1/battery-boxes/"+boxID+"/processes/proc-001/answers", map[string]interface{}{
		"answers": []map[string]string{
			{"question_id": "q-1", "answer": "evet"},
			{"question_id": "q-2", "answer": "evet"},
		},
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("completing answers status = %d, body = %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/battery-boxes/"+boxID, nil, token)
	resp = testutil.ParseResponse(w)
	box = resp["data"].(map[string]interface{})
	if box["status"] != "COMPLETED" {
		t.Errorf("box status after completion = %v, want COMPLETED", box["status"])
	}

	// Delete.
	w = testutil.DoRequest(router, "DELETE", "/api/v1/battery-boxes/"+boxID, nil, token)
	if w.Code != http.StatusOK {
		t.Errorf("delete status = %d", w.Code)
	}
	w = testutil.DoRequest(router, "GET", "/api/v1/battery-boxes/"+boxID, nil, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", w.Code)
	}
}

func TestStartProcessConflict(t *testing.T) {
	router, _ := setupBoxTest(t)
	token := testutil.OperatorToken("user-001")

	w := testutil.DoRequest(router, "POST", "/api/v1/battery-boxes", createBoxPayload("BB-2024-002"), token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d", w.Code)
	}
	boxID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(router, "POST", "/api/v1/battery-boxes/"+boxID+"/processes/proc-001/start", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("start status = %d, body = %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(router, "POST", "/api/v1/battery-boxes/"+boxID+"/processes/proc-001/start", nil, token)
	if w.Code != http.StatusConflict {
		t.Errorf("repeated start status = %d, want 409", w.Code)
	}
}

func TestExportControlPlan(t *testing.T) {
	router, _ := setupBoxTest(t)
	token := testutil.OperatorToken("user-001")

	w := testutil.DoRequest(router, "POST", "/api/v1/battery-boxes", createBoxPayload("BB-2024-003"), token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d", w.Code)
	}
	boxID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	w = testutil.DoRequest(router, "GET", "/api/v1/battery-boxes/"+boxID+"/processes/proc-001/export", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d, body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("content type = %q", ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if cd != `attachment; filename="TEMSA_BB-2024-003_HV_Test_Kontrol_Plani.xlsx"` {
		t.Errorf("content disposition = %q", cd)
	}
	if w.Body.Len() == 0 {
		t.Error("export body is empty")
	}

	// Unknown process → 404 envelope.
	w = testutil.DoRequest(router, "GET", "/api/v1/battery-boxes/"+boxID+"/processes/nope/export", nil, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("export of unknown process status = %d, want 404", w.Code)
	}
}

func TestBatteryBoxRequiresAuth(t *testing.T) {
	router, _ := setupBoxTest(t)

	w := testutil.DoRequest(router, "GET", "/api/v1/battery-boxes", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", w.Code)
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/battery-boxes", nil, "not-a-token")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad token status = %d, want 401", w.Code)
	}
}
