package handlers

import (
	"net/http"
	"strconv"

	"bitemebuddy/middleware"
	"bitemebuddy/models"
	"bitemebuddy/store"

	"github.com/gin-gonic/gin"
)

// AdminDashboard shows order stats, user counts, recent orders and who is online
func (h *Handler) AdminDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	stats, err := h.store.OrderStats(ctx, h.now())
	if err != nil {
		fail(c, err)
		return
	}
	counts, err := h.store.CountUsersByRole(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	orders, err := h.store.ListOrders(ctx, store.OrderFilter{Limit: 10})
	if err != nil {
		fail(c, err)
		return
	}
	active, err := h.store.ActiveSessions(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	h.page(c, http.StatusOK, "admin_dashboard.html", "Admin dashboard", gin.H{
		"Stats":          stats,
		"Customers":      counts[models.RoleCustomer],
		"TeamMembers":    counts[models.RoleTeamMember],
		"Orders":         orders,
		"ActiveSessions": active,
	})
}

// AdminOrders lists orders, optionally narrowed by ?status=
func (h *Handler) AdminOrders(c *gin.Context) {
	status := models.OrderStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		fail(c, store.Invalid("status", "Unknown order status"))
		return
	}
	ctx := c.Request.Context()
	orders, err := h.store.ListOrders(ctx, store.OrderFilter{Status: status})
	if err != nil {
		fail(c, err)
		return
	}
	members, err := h.store.ListUsers(ctx, models.RoleTeamMember)
	if err != nil {
		fail(c, err)
		return
	}
	h.page(c, http.StatusOK, "admin_orders.html", "Orders", gin.H{
		"Orders":      orders,
		"TeamMembers": members,
		"Statuses":    models.AllStatuses,
		"Status":      status,
	})
}

func (h *Handler) orderRow(c *gin.Context, id uint) {
	order, err := h.store.GetOrder(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "admin_order_row", gin.H{"Order": order})
}

// OrderRow re-renders a single order row
func (h *Handler) OrderRow(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	h.orderRow(c, id)
}

// AssignForm swaps an order row for the assignment and override forms
func (h *Handler) AssignForm(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	ctx := c.Request.Context()
	order, err := h.store.GetOrder(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	members, err := h.store.ListUsers(ctx, models.RoleTeamMember)
	if err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "assign_form", gin.H{
		"Order":       order,
		"TeamMembers": members,
		"Statuses":    models.AllStatuses,
	})
}

// AssignOrder hands the order to a team member
func (h *Handler) AssignOrder(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	var form AssignForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, formError(err))
		return
	}
	if _, err := h.orders.Assign(c.Request.Context(), id, form.TeamMemberID, middleware.CurrentUser(c).ID); err != nil {
		fail(c, err)
		return
	}
	h.orderRow(c, id)
}

// AdminForceOrderStatus writes any known status, bypassing the state machine
func (h *Handler) AdminForceOrderStatus(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	var form StatusForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, formError(err))
		return
	}
	if _, err := h.orders.ForceStatus(c.Request.Context(), id, form.Status, middleware.CurrentUser(c).ID, form.Reason); err != nil {
		fail(c, err)
		return
	}
	h.orderRow(c, id)
}

func (h *Handler) AdminCancelOrder(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	if _, err := h.orders.Cancel(c.Request.Context(), id, middleware.CurrentUser(c)); err != nil {
		fail(c, err)
		return
	}
	h.orderRow(c, id)
}

// OnlineTime reports session counts and average session length per user
func (h *Handler) OnlineTime(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 365 {
			fail(c, store.Invalid("days", "Days must be between 1 and 365"))
			return
		}
		days = n
	}
	ctx := c.Request.Context()
	stats, err := h.store.SessionStats(ctx, nil, days, h.now())
	if err != nil {
		fail(c, err)
		return
	}
	today, err := h.store.TodaySessions(ctx, h.now())
	if err != nil {
		fail(c, err)
		return
	}
	h.page(c, http.StatusOK, "admin_online_time.html", "Online time", gin.H{
		"Stats": stats,
		"Days":  days,
		"Today": today,
	})
}

// AdminGetAllOrders returns orders as JSON, filtered by status and customer
func (h *Handler) AdminGetAllOrders(c *gin.Context) {
	filter := store.OrderFilter{Status: models.OrderStatus(c.Query("status"))}
	if raw := c.Query("customer_id"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 0)
		if err != nil {
			fail(c, store.Invalid("customer_id", "customer_id must be a number"))
			return
		}
		filter.CustomerID = uint(n)
	}
	ctx := c.Request.Context()
	orders, err := h.store.ListOrders(ctx, filter)
	if err != nil {
		fail(c, err)
		return
	}
	stats, err := h.store.OrderStats(ctx, h.now())
	if err != nil {
		fail(c, err)
		return
	}

	summary := map[models.OrderStatus]int{}
	for _, o := range orders {
		summary[o.Status]++
	}
	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"total_revenue": stats.TotalRevenue,
		"count":         len(orders),
		"orders":        orders,
	})
}

// AdminGetAllUsers returns the users of ?role= (default customer) as JSON
func (h *Handler) AdminGetAllUsers(c *gin.Context) {
	role := models.UserRole(c.DefaultQuery("role", string(models.RoleCustomer)))
	if !role.Valid() {
		fail(c, store.Invalid("role", "Invalid role"))
		return
	}
	users, err := h.store.ListUsers(c.Request.Context(), role)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}
