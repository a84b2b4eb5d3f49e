package handler

import (
	"github.com/Odiway/battrack/internal/qc/service"
	"github.com/gin-gonic/gin"
)

type ProcessHandler struct {
	svc *service.ProcessService
}

func NewProcessHandler(svc *service.ProcessService) *ProcessHandler {
	return &ProcessHandler{svc: svc}
}

// List GET /processes
func (h *ProcessHandler) List(c *gin.Context) {
	processes, err := h.svc.ListProcesses(c.Request.Context())
	if err != nil {
		InternalError(c, "list processes: "+err.Error())
		return
	}
	Success(c, gin.H{"items": processes})
}

// Get GET /processes/:id
func (h *ProcessHandler) Get(c *gin.Context) {
	process, err := h.svc.GetProcess(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, process)
}

// Create POST /processes
func (h *ProcessHandler) Create(c *gin.Context) {
	var input service.ProcessInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	process, err := h.svc.CreateProcess(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, process)
}

// Update PUT /processes/:id
func (h *ProcessHandler) Update(c *gin.Context) {
	var input service.ProcessInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	process, err := h.svc.UpdateProcess(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, process)
}

// Delete DELETE /processes/:id (soft delete)
func (h *ProcessHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteProcess(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"deleted": true})
}
