package handler

import (
	"github.com/Odiway/battrack/internal/qc/service"
	"github.com/gin-gonic/gin"
)

type BatteryBoxHandler struct {
	svc       *service.BatteryBoxService
	checklist *service.ChecklistService
	report    *service.ReportService
}

func NewBatteryBoxHandler(svc *service.BatteryBoxService, checklist *service.ChecklistService, report *service.ReportService) *BatteryBoxHandler {
	return &BatteryBoxHandler{
		svc:       svc,
		checklist: checklist,
		report:    report,
	}
}

// List GET /battery-boxes?status=&search=
func (h *BatteryBoxHandler) List(c *gin.Context) {
	boxes, err := h.svc.ListBatteryBoxes(c.Request.Context(), c.Query("status"), c.Query("search"))
	if err != nil {
		InternalError(c, "list battery boxes: "+err.Error())
		return
	}
	Success(c, gin.H{"items": boxes})
}

// Create POST /battery-boxes
func (h *BatteryBoxHandler) Create(c *gin.Context) {
	var input service.CreateBatteryBoxInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	box, err := h.svc.CreateBatteryBox(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, box)
}

// Get GET /battery-boxes/:id
func (h *BatteryBoxHandler) Get(c *gin.Context) {
	box, err := h.svc.GetBatteryBox(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, box)
}

// Delete DELETE /battery-boxes/:id
func (h *BatteryBoxHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteBatteryBox(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"deleted": true})
}

// StartProcess POST /battery-boxes/:id/processes/:processId/start
func (h *BatteryBoxHandler) StartProcess(c *gin.Context) {
	instance, err := h.checklist.StartProcess(c.Request.Context(), c.Param("id"), c.Param("processId"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, instance)
}

type submitAnswersRequest struct {
	Answers []service.AnswerInput `json:"answers" binding:"required"`
}

// SubmitAnswers POST /battery-boxes/:id/processes/:processId/answers
func (h *BatteryBoxHandler) SubmitAnswers(c *gin.Context) {
	var req submitAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	instance, err := h.checklist.SubmitAnswers(c.Request.Context(), c.Param("id"), c.Param("processId"), GetUserID(c), req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, instance)
}

// Export GET /battery-boxes/:id/processes/:processId/export
func (h *BatteryBoxHandler) Export(c *gin.Context) {
	f, filename, err := h.report.ExportControlPlan(c.Request.Context(), c.Param("id"), c.Param("processId"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}
