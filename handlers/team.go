package handlers

import (
	"errors"
	"net/http"

	"bitemebuddy/middleware"
	"bitemebuddy/models"
	"bitemebuddy/services"
	"bitemebuddy/store"

	"github.com/gin-gonic/gin"
)

// TeamDashboard lists the deliveries still in progress and the latest plans
func (h *Handler) TeamDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)
	orders, err := h.store.ListOrders(ctx, store.OrderFilter{AssignedTo: user.ID})
	if err != nil {
		fail(c, err)
		return
	}
	var active []models.Order
	for _, o := range orders {
		if o.Status == models.StatusAssigned || o.Status == models.StatusOutForDelivery {
			active = append(active, o)
		}
	}
	plans, err := h.store.ListPlansForTeamMember(ctx, user.ID)
	if err != nil {
		fail(c, err)
		return
	}
	if len(plans) > 5 {
		plans = plans[:5]
	}
	h.page(c, http.StatusOK, "team_dashboard.html", "Dashboard", gin.H{
		"Active": active,
		"Plans":  plans,
	})
}

// GetMyDeliveries returns all orders assigned to the logged-in team member
func (h *Handler) GetMyDeliveries(c *gin.Context) {
	orders, err := h.store.ListOrders(c.Request.Context(), store.OrderFilter{AssignedTo: middleware.CurrentUser(c).ID})
	if err != nil {
		fail(c, err)
		return
	}
	h.page(c, http.StatusOK, "team_orders.html", "My deliveries", gin.H{"Orders": orders})
}

func (h *Handler) TeamPlans(c *gin.Context) {
	plans, err := h.store.ListPlansForTeamMember(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	h.page(c, http.StatusOK, "team_plans.html", "My plans", gin.H{"Plans": plans})
}

// StartDelivery transitions assigned → out_for_delivery and returns the
// refreshed order card
func (h *Handler) StartDelivery(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	ctx := c.Request.Context()
	if _, err := h.delivery.StartDelivery(ctx, id, middleware.CurrentUser(c).ID); err != nil {
		fail(c, err)
		return
	}
	if !middleware.IsHTMX(c) {
		c.Redirect(http.StatusSeeOther, "/team/orders")
		return
	}
	order, err := h.store.GetOrder(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "team_order_card", order)
}

// RequestOTP issues a delivery code, texts it to the customer and returns
// the verify form
func (h *Handler) RequestOTP(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	order, err := h.delivery.RequestOTP(c.Request.Context(), id, middleware.CurrentUser(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "otp_form", gin.H{
		"OrderID":   order.ID,
		"ExpiresAt": order.OTPExpiry,
	})
}

// VerifyOTP confirms the delivery when the code matches and has not expired
func (h *Handler) VerifyOTP(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	var form OTPForm
	if err := c.ShouldBind(&form); err != nil {
		msg, _ := message(formError(err))
		c.HTML(http.StatusBadRequest, "otp_result", gin.H{"OrderID": id, "Message": msg})
		return
	}

	_, err = h.delivery.ConfirmDelivery(c.Request.Context(), id, middleware.CurrentUser(c).ID, form.OTP)
	if errors.Is(err, services.ErrInvalidOTP) {
		c.HTML(http.StatusBadRequest, "otp_result", gin.H{"OrderID": id, "Message": "Invalid or expired OTP"})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "otp_result", gin.H{"OrderID": id, "Success": true})
}
