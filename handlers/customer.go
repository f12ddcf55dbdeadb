package handlers

import (
	"net/http"
	"strconv"

	"bitemebuddy/middleware"
	"bitemebuddy/store"

	"github.com/gin-gonic/gin"
)

// CustomerDashboard shows the five latest orders and the services
func (h *Handler) CustomerDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)
	orders, err := h.store.ListOrders(ctx, store.OrderFilter{CustomerID: user.ID, Limit: 5})
	if err != nil {
		fail(c, err)
		return
	}
	services, err := h.catalog.Services(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	h.page(c, http.StatusOK, "customer_dashboard.html", "Dashboard", gin.H{
		"Orders":   orders,
		"Services": services,
	})
}

func (h *Handler) CustomerServices(c *gin.Context) {
	services, err := h.catalog.Services(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	h.page(c, http.StatusOK, "customer_services.html", "Services", gin.H{"Services": services})
}

// ServiceMenu shows a service with its menu items
func (h *Handler) ServiceMenu(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	service, err := h.catalog.Menu(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	h.page(c, http.StatusOK, "customer_menu.html", service.Name, gin.H{
		"Service":   service,
		"CartCount": readCart(c).count(),
	})
}

// GetMyOrders returns every order of the logged-in customer
func (h *Handler) GetMyOrders(c *gin.Context) {
	user := middleware.CurrentUser(c)
	orders, err := h.store.ListOrders(c.Request.Context(), store.OrderFilter{CustomerID: user.ID})
	if err != nil {
		fail(c, err)
		return
	}
	h.page(c, http.StatusOK, "customer_orders.html", "My orders", gin.H{"Orders": orders})
}

// GetOrderDetail shows one of the customer's own orders
func (h *Handler) GetOrderDetail(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	order, err := h.store.GetOrder(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	if order.CustomerID != middleware.CurrentUser(c).ID {
		fail(c, store.ErrNotFound)
		return
	}
	h.page(c, http.StatusOK, "customer_order.html", "Order #"+strconv.FormatUint(uint64(order.ID), 10), gin.H{
		"Order": order,
	})
}

// CancelOrder lets a customer cancel a pending order
func (h *Handler) CancelOrder(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	order, err := h.orders.Cancel(c.Request.Context(), id, middleware.CurrentUser(c))
	if err != nil {
		fail(c, err)
		return
	}
	redirect(c, "/customer/order/"+strconv.FormatUint(uint64(order.ID), 10))
}
