package handlers

import (
	"net/http"

	"bitemebuddy/middleware"
	"bitemebuddy/models"
	"bitemebuddy/services"
	"bitemebuddy/store"

	"github.com/gin-gonic/gin"
)

// ── Team members ────────────────────────────────────────────────────────────

func (h *Handler) AdminTeamMembers(c *gin.Context) {
	members, err := h.store.ListUsers(c.Request.Context(), models.RoleTeamMember)
	if err != nil {
		fail(c, err)
		return
	}
	h.page(c, http.StatusOK, "admin_team.html", "Team members", gin.H{"Members": members})
}

// CreateTeamMember adds a delivery team account
func (h *Handler) CreateTeamMember(c *gin.Context) {
	var form TeamMemberForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, formError(err))
		return
	}
	member, err := h.store.CreateUser(c.Request.Context(), store.NewUser{
		Name:     form.Name,
		Username: form.Username,
		Email:    form.Email,
		Phone:    form.Phone,
		Password: form.Password,
		Role:     models.RoleTeamMember,
	})
	if err != nil {
		fail(c, err)
		return
	}
	if !middleware.IsHTMX(c) {
		c.Redirect(http.StatusSeeOther, "/admin/team-members")
		return
	}
	c.HTML(http.StatusCreated, "team_member_row", member)
}

// DeleteTeamMember removes a team member; their deliveries become unassigned
func (h *Handler) DeleteTeamMember(c *gin.Context) {
	h.deleteUser(c, models.RoleTeamMember)
}

func (h *Handler) deleteUser(c *gin.Context, role models.UserRole) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	ctx := c.Request.Context()
	plans, err := h.store.ListPlansForTeamMember(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.store.DeleteUser(ctx, id, role); err != nil {
		fail(c, err)
		return
	}
	for _, p := range plans {
		h.uploads.Delete(p.ImageURL)
	}
	c.String(http.StatusOK, "")
}

// ── Customers ───────────────────────────────────────────────────────────────

func (h *Handler) AdminCustomers(c *gin.Context) {
	customers, err := h.store.ListUsers(c.Request.Context(), models.RoleCustomer)
	if err != nil {
		fail(c, err)
		return
	}
	h.page(c, http.StatusOK, "admin_customers.html", "Customers", gin.H{"Customers": customers})
}

// AdminCustomerDetail shows a customer's orders and recent sessions
func (h *Handler) AdminCustomerDetail(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	ctx := c.Request.Context()
	customer, err := h.store.GetUser(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	if customer.Role != models.RoleCustomer {
		fail(c, store.ErrNotFound)
		return
	}
	orders, err := h.store.ListOrders(ctx, store.OrderFilter{CustomerID: id})
	if err != nil {
		fail(c, err)
		return
	}
	sessions, err := h.store.UserSessions(ctx, id, 20)
	if err != nil {
		fail(c, err)
		return
	}
	h.page(c, http.StatusOK, "admin_customer.html", customer.Name, gin.H{
		"Customer": customer,
		"Orders":   orders,
		"Sessions": sessions,
	})
}

// DeleteCustomer removes a customer together with their orders
func (h *Handler) DeleteCustomer(c *gin.Context) {
	h.deleteUser(c, models.RoleCustomer)
}

// ── Plans ───────────────────────────────────────────────────────────────────

func (h *Handler) AdminPlans(c *gin.Context) {
	ctx := c.Request.Context()
	members, err := h.store.ListUsers(ctx, models.RoleTeamMember)
	if err != nil {
		fail(c, err)
		return
	}
	plans, err := h.store.ListPlans(ctx, 10)
	if err != nil {
		fail(c, err)
		return
	}
	h.page(c, http.StatusOK, "admin_plans.html", "Team plans", gin.H{
		"Members": members,
		"Plans":   plans,
	})
}

// CreatePlan posts a plan with an optional image to a team member
func (h *Handler) CreatePlan(c *gin.Context) {
	var form PlanForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, formError(err))
		return
	}
	image, err := h.saveImage(c, services.UploadPlans)
	if err != nil {
		fail(c, err)
		return
	}
	plan, err := h.store.CreatePlan(c.Request.Context(), store.NewPlan{
		AdminID:      middleware.CurrentUser(c).ID,
		TeamMemberID: form.TeamMemberID,
		Description:  form.Description,
		ImageURL:     image,
	})
	if err != nil {
		h.uploads.Delete(image)
		fail(c, err)
		return
	}
	if !middleware.IsHTMX(c) {
		c.Redirect(http.StatusSeeOther, "/admin/plans")
		return
	}
	c.HTML(http.StatusCreated, "plan_card", plan)
}

func (h *Handler) DeletePlan(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	plan, err := h.store.DeletePlan(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	h.uploads.Delete(plan.ImageURL)
	c.String(http.StatusOK, "")
}
