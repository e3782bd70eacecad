package handlers

import (
	"net/http"

	portssvc "github.com/expenza/expense_flow_app/internal/core/ports/services"
	"github.com/expenza/expense_flow_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// RuleHandler handles approval rule management requests.
type RuleHandler struct {
	ruleService portssvc.RuleSvcFacade
	userService portssvc.UserSvcFacade
}

// NewRuleHandler creates a new RuleHandler.
func NewRuleHandler(rs portssvc.RuleSvcFacade, us portssvc.UserSvcFacade) *RuleHandler {
	return &RuleHandler{ruleService: rs, userService: us}
}

// registerRuleRoutes sets up the routes for approval rules.
func registerRuleRoutes(rg *gin.RouterGroup, rs portssvc.RuleSvcFacade, us portssvc.UserSvcFacade) {
	h := NewRuleHandler(rs, us)

	rules := rg.Group("/approval-rules")
	{
		rules.POST("", h.CreateRule)
		rules.GET("", h.ListRules)
		rules.GET("/:ruleID", h.GetRule)
		rules.PUT("/:ruleID", h.UpdateRule)
		rules.DELETE("/:ruleID", h.DeleteRule)
	}
}

// CreateRule godoc
// @Summary Create an approval rule
// @Description Creates a rule in the admin's company. Required fields depend on ruleType.
// @Tags approval-rules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param rule body dto.CreateApprovalRuleRequest true "New Rule"
// @Success 201 {object} dto.ApprovalRuleResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /approval-rules [post]
func (h *RuleHandler) CreateRule(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreateApprovalRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	creator, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	rule, err := h.ruleService.CreateRule(c.Request.Context(), creator.CompanyID, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToApprovalRuleResponse(*rule))
}

// ListRules godoc
// @Summary List the company's approval rules
// @Tags approval-rules
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ApprovalRuleResponse
// @Failure 401 {object} ErrorResponse
// @Router /approval-rules [get]
func (h *RuleHandler) ListRules(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	requester, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	rules, err := h.ruleService.ListRules(c.Request.Context(), requester.CompanyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToApprovalRuleResponses(rules))
}

// GetRule godoc
// @Summary Get an approval rule
// @Tags approval-rules
// @Produce json
// @Security BearerAuth
// @Param ruleID path string true "Rule ID"
// @Success 200 {object} dto.ApprovalRuleResponse
// @Failure 404 {object} ErrorResponse
// @Router /approval-rules/{ruleID} [get]
func (h *RuleHandler) GetRule(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	requester, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	rule, err := h.ruleService.GetRuleByID(c.Request.Context(), c.Param("ruleID"))
	if err != nil {
		respondError(c, err)
		return
	}
	if rule.CompanyID != requester.CompanyID {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Approval rule not found"})
		return
	}
	c.JSON(http.StatusOK, dto.ToApprovalRuleResponse(*rule))
}

// UpdateRule godoc
// @Summary Update an approval rule
// @Tags approval-rules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ruleID path string true "Rule ID"
// @Param rule body dto.UpdateApprovalRuleRequest true "Fields to update"
// @Success 200 {object} dto.ApprovalRuleResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /approval-rules/{ruleID} [put]
func (h *RuleHandler) UpdateRule(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateApprovalRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}
	rule, err := h.ruleService.UpdateRule(c.Request.Context(), c.Param("ruleID"), req, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToApprovalRuleResponse(*rule))
}

// DeleteRule godoc
// @Summary Delete an approval rule
// @Description Deletes a rule. Fails with 409 while any approval flow references it.
// @Tags approval-rules
// @Produce json
// @Security BearerAuth
// @Param ruleID path string true "Rule ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Rule is in use by existing flows"
// @Router /approval-rules/{ruleID} [delete]
func (h *RuleHandler) DeleteRule(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.ruleService.DeleteRule(c.Request.Context(), c.Param("ruleID"), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
