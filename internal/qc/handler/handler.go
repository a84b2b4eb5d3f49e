package handler

import (
	"errors"

	"github.com/Odiway/battrack/internal/qc/service"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the HTTP layer.
type Handlers struct {
	Auth       *AuthHandler
	User       *UserHandler
	Process    *ProcessHandler
	Template   *TemplateHandler
	BatteryBox *BatteryBoxHandler
	Defect     *DefectHandler
	Dashboard  *DashboardHandler
	SSE        *SSEHandler
}

// NewHandlers creates the handler bundle.
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Auth:       NewAuthHandler(svc.Auth, svc.User),
		User:       NewUserHandler(svc.User),
		Process:    NewProcessHandler(svc.Process),
		Template:   NewTemplateHandler(svc.Template),
		BatteryBox: NewBatteryBoxHandler(svc.BatteryBox, svc.Checklist, svc.Report),
		Defect:     NewDefectHandler(svc.Defect),
		Dashboard:  NewDashboardHandler(svc.Dashboard),
		SSE:        NewSSEHandler(),
	}
}

// Response is the common envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a 200 envelope.
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created writes a 201 envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error writes an error envelope; the HTTP status is code/100.
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// respondError maps service sentinels to envelope codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		BadRequest(c, err.Error())
	case errors.Is(err, service.ErrForbidden):
		Forbidden(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, service.ErrConflict):
		Conflict(c, err.Error())
	default:
		InternalError(c, err.Error())
	}
}

// GetUserID returns the authenticated user ID from the context.
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}
