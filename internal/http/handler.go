package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/contratos/contracts-service/internal/http/middleware"
	"github.com/contratos/contracts-service/internal/model"
	"github.com/contratos/contracts-service/internal/repository"
	"github.com/contratos/contracts-service/internal/service"
	"github.com/contratos/contracts-service/internal/session"
)

type Handler struct {
	templates *service.TemplateService
	contracts *service.ContractService
	log       zerolog.Logger
}

func NewHandler(templates *service.TemplateService, contracts *service.ContractService, log zerolog.Logger) *Handler {
	return &Handler{templates: templates, contracts: contracts, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.GET("/templates", h.listTemplates)
	protected.GET("/templates/:id", h.getTemplate)
	protected.POST("/templates", h.createTemplate)
	protected.PATCH("/templates/:id", h.updateTemplate)
	protected.DELETE("/templates/:id", h.deleteTemplate)

	protected.GET("/counterparties", h.listCounterparties)

	protected.POST("/sessions", h.startSession)
	protected.PUT("/sessions/:id/fields/:fieldId", h.setField)
	protected.POST("/sessions/:id/preview", h.preview)
	protected.POST("/sessions/:id/back", h.backToForm)
	protected.POST("/sessions/:id/restart", h.backToTemplates)
	protected.POST("/sessions/:id/save", h.save)
	protected.GET("/sessions/:id/download", h.download)
	protected.DELETE("/sessions/:id", h.discard)

	protected.GET("/contracts", h.listContracts)
	protected.GET("/contracts/export", h.exportRegister)
	protected.GET("/contracts/:id", h.getContract)
	protected.GET("/contracts/:id/pdf", h.contractPDF)
}

type templateView struct {
	ID       uuid.UUID             `json:"id"`
	Name     string                `json:"name"`
	Category string                `json:"category"`
	Version  int                   `json:"version"`
	IsSystem bool                  `json:"is_system"`
	Fields   []model.TemplateField `json:"fields"`
	Body     string                `json:"body"`
}

func toTemplateView(tpl model.ContractTemplate) templateView {
	return templateView{
		ID:       tpl.ID,
		Name:     tpl.Name,
		Category: tpl.Category,
		Version:  tpl.Version,
		IsSystem: tpl.IsSystem,
		Fields:   tpl.Fields,
		Body:     tpl.Body,
	}
}

func (h *Handler) listTemplates(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	templates, err := h.templates.List(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	views := make([]templateView, 0, len(templates))
	for _, tpl := range templates {
		views = append(views, toTemplateView(tpl))
	}
	c.JSON(http.StatusOK, gin.H{"templates": views})
}

func (h *Handler) getTemplate(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	template, err := h.templates.Get(c.Request.Context(), id, principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTemplateView(*template))
}

type createTemplateRequest struct {
	Name     string                `json:"name" binding:"required"`
	Category string                `json:"category"`
	Fields   []model.TemplateField `json:"fields" binding:"required"`
	Body     string                `json:"body" binding:"required"`
}

func (h *Handler) createTemplate(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	var req createTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.templates.Create(c.Request.Context(), principal, service.CreateTemplateInput{
		Name:     req.Name,
		Category: req.Category,
		Fields:   req.Fields,
		Body:     req.Body,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

type updateTemplateRequest struct {
	Name     *string               `json:"name"`
	Category *string               `json:"category"`
	Fields   []model.TemplateField `json:"fields"`
	Body     *string               `json:"body"`
}

func (h *Handler) updateTemplate(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req updateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err = h.templates.Update(c.Request.Context(), principal, id, repository.TemplatePatch{
		Name:     req.Name,
		Category: req.Category,
		Fields:   req.Fields,
		Body:     req.Body,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteTemplate(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.templates.SoftDelete(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listCounterparties(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	parties, err := h.contracts.ListCounterparties(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"counterparties": parties})
}

type startSessionRequest struct {
	TemplateID     string  `json:"template_id" binding:"required"`
	CounterpartyID *string `json:"counterparty_id"`
}

type sessionView struct {
	ID       uuid.UUID      `json:"id"`
	State    session.State  `json:"state"`
	Template *templateView  `json:"template,omitempty"`
	Form     model.FormData `json:"form"`
}

func toSessionView(s *session.Session) sessionView {
	view := sessionView{ID: s.ID, State: s.State(), Form: s.Form()}
	if tpl := s.Template(); tpl != nil {
		tplView := toTemplateView(*tpl)
		view.Template = &tplView
	}
	return view
}

func (h *Handler) startSession(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	templateID, err := uuid.Parse(strings.TrimSpace(req.TemplateID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template_id"})
		return
	}
	var counterpartyID *uuid.UUID
	if req.CounterpartyID != nil {
		parsed, err := uuid.Parse(strings.TrimSpace(*req.CounterpartyID))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid counterparty_id"})
			return
		}
		counterpartyID = &parsed
	}

	sess, err := h.contracts.StartSession(c.Request.Context(), principal, templateID, counterpartyID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSessionView(sess))
}

type setFieldRequest struct {
	Value any `json:"value"`
}

func (h *Handler) setField(c *gin.Context) {
	principal, sessionID, ok := h.sessionRequest(c)
	if !ok {
		return
	}
	var req setFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feedback, err := h.contracts.SetField(principal, sessionID, c.Param("fieldId"), req.Value)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if feedback != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "field_error": feedback})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

func (h *Handler) preview(c *gin.Context) {
	principal, sessionID, ok := h.sessionRequest(c)
	if !ok {
		return
	}

	content, fieldErrs, err := h.contracts.Preview(principal, sessionID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fieldErrs})
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content})
}

func (h *Handler) backToForm(c *gin.Context) {
	principal, sessionID, ok := h.sessionRequest(c)
	if !ok {
		return
	}
	if err := h.contracts.BackToForm(principal, sessionID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) backToTemplates(c *gin.Context) {
	principal, sessionID, ok := h.sessionRequest(c)
	if !ok {
		return
	}
	if err := h.contracts.BackToTemplates(principal, sessionID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) save(c *gin.Context) {
	principal, sessionID, ok := h.sessionRequest(c)
	if !ok {
		return
	}

	id, err := h.contracts.Save(c.Request.Context(), principal, sessionID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"contract_id": id})
}

func (h *Handler) download(c *gin.Context) {
	principal, sessionID, ok := h.sessionRequest(c)
	if !ok {
		return
	}

	data, fileName, err := h.contracts.DownloadPDF(principal, sessionID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *Handler) discard(c *gin.Context) {
	principal, sessionID, ok := h.sessionRequest(c)
	if !ok {
		return
	}
	h.contracts.Discard(principal, sessionID)
	c.Status(http.StatusNoContent)
}

type contractView struct {
	ID           uuid.UUID      `json:"id"`
	TemplateID   uuid.UUID      `json:"template_id"`
	TemplateName string         `json:"template_name"`
	FormData     model.FormData `json:"form_data"`
	Content      string         `json:"content"`
	CreatedAt    string         `json:"created_at"`
}

func toContractView(contract model.GeneratedContract) contractView {
	return contractView{
		ID:           contract.ID,
		TemplateID:   contract.TemplateID,
		TemplateName: contract.TemplateName,
		FormData:     contract.FormData,
		Content:      contract.Content,
		CreatedAt:    contract.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *Handler) listContracts(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	contracts, err := h.contracts.ListContracts(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	views := make([]contractView, 0, len(contracts))
	for _, contract := range contracts {
		views = append(views, toContractView(contract))
	}
	c.JSON(http.StatusOK, gin.H{"contracts": views})
}

func (h *Handler) getContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	contract, err := h.contracts.GetContract(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContractView(*contract))
}

func (h *Handler) contractPDF(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	data, fileName, err := h.contracts.ContractPDF(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *Handler) exportRegister(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	data, fileName, err := h.contracts.ExportRegister(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *Handler) sessionRequest(c *gin.Context) (model.Principal, uuid.UUID, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return model.Principal{}, uuid.Nil, false
	}
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return model.Principal{}, uuid.Nil, false
	}
	return principal, sessionID, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrWrongState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrExternalIO):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
