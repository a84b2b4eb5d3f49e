package handler

import (
	"github.com/Odiway/battrack/internal/qc/service"
	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	svc *service.TemplateService
}

func NewTemplateHandler(svc *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

// List GET /checklist-templates
func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.svc.ListTemplates(c.Request.Context())
	if err != nil {
		InternalError(c, "list templates: "+err.Error())
		return
	}
	Success(c, gin.H{"items": templates})
}

// Get GET /checklist-templates/:id
func (h *TemplateHandler) Get(c *gin.Context) {
	template, err := h.svc.GetTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, template)
}

// Create POST /checklist-templates
func (h *TemplateHandler) Create(c *gin.Context) {
	var input service.TemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	template, err := h.svc.CreateTemplate(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	Created(c, template)
}

// Update PUT /checklist-templates/:id
func (h *TemplateHandler) Update(c *gin.Context) {
	var input service.TemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	template, err := h.svc.UpdateTemplate(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	Success(c, template)
}

// Delete DELETE /checklist-templates/:id (soft delete)
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteTemplate(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	Success(c, gin.H{"deleted": true})
}
