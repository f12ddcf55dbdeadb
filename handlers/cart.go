package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"slices"
	"strconv"

	"bitemebuddy/middleware"
	"bitemebuddy/models"
	"bitemebuddy/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const (
	cartCookie      = "cart"
	cartMaxAge      = 7 * 24 * 60 * 60
	maxCartQuantity = 99
)

// cart holds menu item quantities from a single service. Prices are never
// stored; they are looked up again whenever the cart is shown or ordered.
type cart struct {
	ServiceID uint         `json:"service_id"`
	Items     map[uint]int `json:"items"`
}

func readCart(c *gin.Context) cart {
	empty := cart{Items: map[uint]int{}}
	raw, err := c.Cookie(cartCookie)
	if err != nil || raw == "" {
		return empty
	}
	data, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		return empty
	}
	var ct cart
	if err := json.Unmarshal(data, &ct); err != nil || ct.Items == nil {
		return empty
	}
	return ct
}

func (h *Handler) writeCart(c *gin.Context, ct cart) error {
	if len(ct.Items) == 0 {
		h.clearCookie(c, cartCookie)
		return nil
	}
	data, err := json.Marshal(ct)
	if err != nil {
		return err
	}
	h.setCookie(c, cartCookie, base64.URLEncoding.EncodeToString(data), cartMaxAge)
	return nil
}

func (ct cart) count() int {
	n := 0
	for _, q := range ct.Items {
		n += q
	}
	return n
}

// lines returns the cart as order lines ordered by menu item id
func (ct cart) lines() []store.OrderLine {
	ids := make([]uint, 0, len(ct.Items))
	for id := range ct.Items {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	lines := make([]store.OrderLine, 0, len(ids))
	for _, id := range ids {
		lines = append(lines, store.OrderLine{MenuItemID: id, Quantity: ct.Items[id]})
	}
	return lines
}

func (h *Handler) pricedCart(c *gin.Context, ct cart) ([]models.OrderItem, decimal.Decimal, error) {
	if len(ct.Items) == 0 {
		return nil, decimal.Zero, nil
	}
	return h.store.PriceLines(c.Request.Context(), ct.ServiceID, ct.lines())
}

// AddToCart adds a menu item. Adding from another service starts a new cart.
func (h *Handler) AddToCart(c *gin.Context) {
	var form CartForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, formError(err))
		return
	}
	if form.Quantity == 0 {
		form.Quantity = 1
	}
	item, err := h.store.GetMenuItem(c.Request.Context(), form.MenuItemID)
	if err != nil {
		fail(c, err)
		return
	}

	ct := readCart(c)
	if ct.ServiceID != item.ServiceID {
		ct = cart{ServiceID: item.ServiceID, Items: map[uint]int{}}
	}
	ct.Items[item.ID] = min(ct.Items[item.ID]+form.Quantity, maxCartQuantity)
	if err := h.writeCart(c, ct); err != nil {
		fail(c, err)
		return
	}

	if middleware.IsHTMX(c) {
		c.HTML(http.StatusOK, "cart_badge", gin.H{"Count": ct.count()})
		return
	}
	c.Redirect(http.StatusSeeOther, "/customer/service/"+strconv.FormatUint(uint64(item.ServiceID), 10)+"/menu")
}

// UpdateCart sets the quantity of one item; zero removes it
func (h *Handler) UpdateCart(c *gin.Context) {
	var form CartForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, formError(err))
		return
	}
	ct := readCart(c)
	if form.Quantity == 0 {
		delete(ct.Items, form.MenuItemID)
	} else if _, ok := ct.Items[form.MenuItemID]; ok {
		ct.Items[form.MenuItemID] = form.Quantity
	}
	if err := h.writeCart(c, ct); err != nil {
		fail(c, err)
		return
	}

	if !middleware.IsHTMX(c) {
		c.Redirect(http.StatusSeeOther, "/customer/cart")
		return
	}
	lines, total, err := h.pricedCart(c, ct)
	if err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "cart_summary", gin.H{"Lines": lines, "Total": total})
}

// Cart shows the cart at current menu prices
func (h *Handler) Cart(c *gin.Context) {
	ct := readCart(c)
	lines, total, err := h.pricedCart(c, ct)
	if err != nil {
		fail(c, err)
		return
	}
	var service *models.Service
	if len(lines) > 0 {
		if service, err = h.store.GetService(c.Request.Context(), ct.ServiceID, false); err != nil {
			fail(c, err)
			return
		}
	}
	h.page(c, http.StatusOK, "customer_cart.html", "Cart", gin.H{
		"Service": service,
		"Lines":   lines,
		"Total":   total,
		"Address": middleware.CurrentUser(c).Address,
	})
}

// PlaceOrder turns the cart into a pending order and empties the cart
func (h *Handler) PlaceOrder(c *gin.Context) {
	var form CheckoutForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, formError(err))
		return
	}
	ct := readCart(c)
	if len(ct.Items) == 0 {
		fail(c, store.Invalid("items", "Your cart is empty"))
		return
	}

	order, err := h.orders.Place(c.Request.Context(), store.NewOrder{
		CustomerID: middleware.CurrentUser(c).ID,
		ServiceID:  ct.ServiceID,
		Address:    form.Address,
		Notes:      form.Notes,
		Items:      ct.lines(),
	})
	if err != nil {
		fail(c, err)
		return
	}
	h.clearCookie(c, cartCookie)
	redirect(c, "/customer/order/"+strconv.FormatUint(uint64(order.ID), 10))
}
