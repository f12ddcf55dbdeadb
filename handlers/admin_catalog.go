package handlers

import (
	"net/http"
	"strconv"

	"bitemebuddy/middleware"
	"bitemebuddy/services"
	"bitemebuddy/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ── Services ────────────────────────────────────────────────────────────────

func (h *Handler) AdminServices(c *gin.Context) {
	services, err := h.store.ListServices(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	h.page(c, http.StatusOK, "admin_services.html", "Services", gin.H{"Services": services})
}

// CreateService adds a service with an optional image
func (h *Handler) CreateService(c *gin.Context) {
	var form ServiceForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, formError(err))
		return
	}
	image, err := h.saveImage(c, services.UploadServices)
	if err != nil {
		fail(c, err)
		return
	}
	ctx := c.Request.Context()
	service, err := h.store.CreateService(ctx, store.ServiceInput{
		Name:        form.Name,
		Description: form.Description,
		ImageURL:    image,
	})
	if err != nil {
		h.uploads.Delete(image)
		fail(c, err)
		return
	}
	h.catalog.Invalidate(ctx, service.ID)

	if !middleware.IsHTMX(c) {
		c.Redirect(http.StatusSeeOther, "/admin/services")
		return
	}
	c.HTML(http.StatusCreated, "service_row", service)
}

func (h *Handler) serviceFragment(c *gin.Context, name string) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	service, err := h.store.GetService(c.Request.Context(), id, false)
	if err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, name, service)
}

func (h *Handler) ServiceRow(c *gin.Context)     { h.serviceFragment(c, "service_row") }
func (h *Handler) EditServiceRow(c *gin.Context) { h.serviceFragment(c, "service_edit_row") }

// UpdateService saves the edit row; a new image replaces the old file
func (h *Handler) UpdateService(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	var form ServiceForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, formError(err))
		return
	}
	ctx := c.Request.Context()
	current, err := h.store.GetService(ctx, id, false)
	if err != nil {
		fail(c, err)
		return
	}
	image, err := h.saveImage(c, services.UploadServices)
	if err != nil {
		fail(c, err)
		return
	}
	service, err := h.store.UpdateService(ctx, id, store.ServiceInput{
		Name:        form.Name,
		Description: form.Description,
		ImageURL:    image,
	})
	if err != nil {
		h.uploads.Delete(image)
		fail(c, err)
		return
	}
	if image != "" {
		h.uploads.Delete(current.ImageURL)
	}
	h.catalog.Invalidate(ctx, id)
	c.HTML(http.StatusOK, "service_row", service)
}

// DeleteService removes the service, its menu, its orders and their images
func (h *Handler) DeleteService(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	ctx := c.Request.Context()
	items, err := h.store.ListMenuItems(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	service, err := h.store.DeleteService(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	h.uploads.Delete(service.ImageURL)
	for _, item := range items {
		h.uploads.Delete(item.ImageURL)
	}
	h.catalog.Invalidate(ctx, id)
	c.String(http.StatusOK, "")
}

// ── Menu items ──────────────────────────────────────────────────────────────

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, store.Invalid("price", "Price must be a number")
	}
	return price.Round(2), nil
}

// AdminMenu lists a service's menu items
func (h *Handler) AdminMenu(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	service, err := h.store.GetService(c.Request.Context(), id, true)
	if err != nil {
		fail(c, err)
		return
	}
	h.page(c, http.StatusOK, "admin_menu.html", service.Name+" menu", gin.H{"Service": service})
}

func (h *Handler) AddMenuItem(c *gin.Context) {
	serviceID, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	var form MenuItemForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, formError(err))
		return
	}
	price, err := parsePrice(form.Price)
	if err != nil {
		fail(c, err)
		return
	}
	ctx := c.Request.Context()
	if _, err := h.store.GetService(ctx, serviceID, false); err != nil {
		fail(c, err)
		return
	}
	image, err := h.saveImage(c, services.UploadMenu)
	if err != nil {
		fail(c, err)
		return
	}
	item, err := h.store.CreateMenuItem(ctx, serviceID, store.MenuItemInput{
		Name:        form.Name,
		Description: form.Description,
		Price:       price,
		ImageURL:    image,
	})
	if err != nil {
		h.uploads.Delete(image)
		fail(c, err)
		return
	}
	h.catalog.Invalidate(ctx, serviceID)

	if !middleware.IsHTMX(c) {
		c.Redirect(http.StatusSeeOther, "/admin/services/"+strconv.FormatUint(uint64(serviceID), 10)+"/menu")
		return
	}
	c.HTML(http.StatusCreated, "menu_item_row", item)
}

func (h *Handler) menuItemFragment(c *gin.Context, name string) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	item, err := h.store.GetMenuItem(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, name, item)
}

func (h *Handler) MenuItemRow(c *gin.Context)     { h.menuItemFragment(c, "menu_item_row") }
func (h *Handler) EditMenuItemRow(c *gin.Context) { h.menuItemFragment(c, "menu_item_edit_row") }

// UpdateMenuItem changes a menu item. Orders already placed keep their price.
func (h *Handler) UpdateMenuItem(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	var form MenuItemForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, formError(err))
		return
	}
	price, err := parsePrice(form.Price)
	if err != nil {
		fail(c, err)
		return
	}
	ctx := c.Request.Context()
	current, err := h.store.GetMenuItem(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	image, err := h.saveImage(c, services.UploadMenu)
	if err != nil {
		fail(c, err)
		return
	}
	item, err := h.store.UpdateMenuItem(ctx, id, store.MenuItemInput{
		Name:        form.Name,
		Description: form.Description,
		Price:       price,
		ImageURL:    image,
	})
	if err != nil {
		h.uploads.Delete(image)
		fail(c, err)
		return
	}
	if image != "" {
		h.uploads.Delete(current.ImageURL)
	}
	h.catalog.Invalidate(ctx, item.ServiceID)
	c.HTML(http.StatusOK, "menu_item_row", item)
}

func (h *Handler) DeleteMenuItem(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	ctx := c.Request.Context()
	item, err := h.store.DeleteMenuItem(ctx, id)
	if err != nil {
		fail(c, err)
		return
	}
	h.uploads.Delete(item.ImageURL)
	h.catalog.Invalidate(ctx, item.ServiceID)
	c.String(http.StatusOK, "")
}
