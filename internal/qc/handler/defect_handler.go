package handler

import (
	"github.com/Odiway/battrack/internal/qc/service"
	"github.com/gin-gonic/gin"
)

type DefectHandler struct {
	svc *service.DefectService
}

func NewDefectHandler(svc *service.DefectService) *DefectHandler {
	return &DefectHandler{svc: svc}
}

// List GET /defects?status=&category=&severity=
func (h *DefectHandler) List(c *gin.Context) {
	defects, err := h.svc.ListDefects(c.Request.Context(), c.Query("status"), c.Query("category"), c.Query("severity"))
	if err != nil {
		InternalError(c, "list defects: "+err.Error())
		return
	}
	Success(c, gin.H{"items": defects})
}

// Stats GET /defects/stats
func (h *DefectHandler) Stats(c *gin.Context) {
	stats, err := h.svc.GetStats(c.Request.Context())
	if err != nil {
		InternalError(c, "defect stats: "+err.Error())
		return
	}
	Success(c, stats)
}

// Get GET /defects/:id
func (h *DefectHandler) Get(c *gin.Context) {
	defect, err := h.svc.GetDefect(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, defect)
}

// Update PATCH /defects/:id
func (h *DefectHandler) Update(c *gin.Context) {
	var input service.UpdateDefectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	defect, err := h.svc.UpdateDefect(c.Request.Context(), c.Param("id"), GetUserID(c), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, defect)
}
