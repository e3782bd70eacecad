package handlers

import (
	"net/http"

	portssvc "github.com/expenza/expense_flow_app/internal/core/ports/services"
	"github.com/expenza/expense_flow_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// CompanyHandler handles company requests.
type CompanyHandler struct {
	companyService portssvc.CompanySvcFacade
	userService    portssvc.UserSvcFacade
}

// NewCompanyHandler creates a new CompanyHandler.
func NewCompanyHandler(cs portssvc.CompanySvcFacade, us portssvc.UserSvcFacade) *CompanyHandler {
	return &CompanyHandler{companyService: cs, userService: us}
}

// registerCompanyRoutes sets up the routes for companies.
func registerCompanyRoutes(rg *gin.RouterGroup, cs portssvc.CompanySvcFacade, us portssvc.UserSvcFacade) {
	h := NewCompanyHandler(cs, us)

	companies := rg.Group("/companies")
	{
		companies.GET("/mine", h.GetMyCompany)
	}
}

// GetMyCompany godoc
// @Summary Get the authenticated user's company
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CompanyResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/mine [get]
func (h *CompanyHandler) GetMyCompany(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	company, err := h.companyService.GetCompanyByID(c.Request.Context(), user.CompanyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyResponse(*company))
}
