package store

import (
	"context"
	"strings"

	"bitemebuddy/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderLine is one requested (menu item, quantity) pair
type OrderLine struct {
	MenuItemID uint
	Quantity   int
}

type NewOrder struct {
	CustomerID uint
	ServiceID  uint
	Address    string
	Notes      string
	Items      []OrderLine
}

// CreateOrder prices every line from the current menu in a single lookup and
// writes the order with its items atomically. Lines whose menu item no longer
// exists or is not on the service's menu are dropped; an order left with no
// lines is rejected.
func (s *Store) CreateOrder(ctx context.Context, in NewOrder) (*models.Order, error) {
	address := strings.TrimSpace(in.Address)
	if len(address) < 5 {
		return nil, Invalid("address", "Address must be at least 5 characters")
	}
	if len(in.Items) == 0 {
		return nil, Invalid("items", "Order must contain at least one item")
	}
	for _, line := range in.Items {
		if line.Quantity <= 0 {
			return nil, Invalid("quantity", "Quantity must be greater than 0")
		}
	}

	if _, err := s.GetService(ctx, in.ServiceID, false); err != nil {
		return nil, err
	}
	items, total, err := s.PriceLines(ctx, in.ServiceID, in.Items)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, Invalid("items", "None of the selected items are available")
	}

	order := models.Order{
		CustomerID:  in.CustomerID,
		ServiceID:   in.ServiceID,
		Status:      models.StatusPending,
		TotalAmount: total,
		Address:     address,
		Notes:       strings.TrimSpace(in.Notes),
		Items:       items,
	}
	err = s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Customer", "Service", "Assignee").Create(&order).Error; err != nil {
			return err
		}
		history := models.OrderStatusHistory{
			OrderID:   order.ID,
			ToStatus:  models.StatusPending,
			ChangedBy: in.CustomerID,
			Note:      "Order placed by customer",
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// PriceLines returns what lines would cost on serviceID's menu right now,
// with items from elsewhere dropped
func (s *Store) PriceLines(ctx context.Context, serviceID uint, lines []OrderLine) ([]models.OrderItem, decimal.Decimal, error) {
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.MenuItemID)
	}
	menu, err := s.MenuItemsByID(ctx, serviceID, ids)
	if err != nil {
		return nil, decimal.Zero, err
	}
	var items []models.OrderItem
	total := decimal.Zero
	for _, line := range lines {
		menuItem, ok := menu[line.MenuItemID]
		if !ok || line.Quantity <= 0 {
			continue
		}
		menuItemID := menuItem.ID
		item := models.OrderItem{
			MenuItemID:  &menuItemID,
			Name:        menuItem.Name,
			Quantity:    line.Quantity,
			PriceAtTime: menuItem.Price,
		}
		total = total.Add(item.Subtotal())
		items = append(items, item)
	}
	return items, total, nil
}

// GetOrder loads an order with items, people, service and status history
func (s *Store) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.conn(ctx).
		Preload("Items").
		Preload("Customer").
		Preload("Service").
		Preload("Assignee").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc, id asc")
		}).
		First(&order, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

// OrderFilter narrows ListOrders; zero fields are ignored
type OrderFilter struct {
	Status     models.OrderStatus
	CustomerID uint
	AssignedTo uint
	Limit      int
}

func (s *Store) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	q := s.conn(ctx).
		Preload("Items").
		Preload("Customer").
		Preload("Service").
		Preload("Assignee")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.AssignedTo != 0 {
		q = q.Where("assigned_to = ?", f.AssignedTo)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var orders []models.Order
	err := q.Order("created_at desc, id desc").Find(&orders).Error
	return orders, err
}

// OrderChange mutates a loaded order and describes the change for the
// status history. Returning an error aborts the transaction.
type OrderChange func(order *models.Order) (note string, err error)

// UpdateOrder loads the order, applies change and saves the workflow columns
// in one transaction. A status history row is written when the status moved.
func (s *Store) UpdateOrder(ctx context.Context, id, actorID uint, change OrderChange) (*models.Order, error) {
	var order models.Order
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, id).Error; err != nil {
			return notFound(err)
		}
		prev := order.Status
		prevAssignee := order.AssignedTo

		note, err := change(&order)
		if err != nil {
			return err
		}

		if err := tx.Model(&order).
			Select("AssignedTo", "Status", "OTP", "OTPExpiry", "DeliveryConfirmedAt", "UpdatedAt").
			Updates(&order).Error; err != nil {
			return err
		}

		if order.Status == prev && sameAssignee(prevAssignee, order.AssignedTo) {
			return nil
		}
		history := models.OrderStatusHistory{
			OrderID:    order.ID,
			FromStatus: prev,
			ToStatus:   order.Status,
			ChangedBy:  actorID,
			Note:       note,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func sameAssignee(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
