package services

import (
	"context"
	"fmt"
	"time"

	"bitemebuddy/models"
	"bitemebuddy/statemachine"
	"bitemebuddy/store"
)

// OrderService runs the customer and admin side of the order workflow
type OrderService struct {
	store  *store.Store
	events EventPublisher
	now    func() time.Time
}

func NewOrderService(st *store.Store, events EventPublisher) *OrderService {
	if events == nil {
		events = NopPublisher{}
	}
	return &OrderService{store: st, events: events, now: time.Now}
}

// Place creates a pending order at current menu prices
func (s *OrderService) Place(ctx context.Context, in store.NewOrder) (*models.Order, error) {
	order, err := s.store.CreateOrder(ctx, in)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, NewOrderEvent(EventOrderCreated, order, s.now()))
	return order, nil
}

// Assign hands an order to a team member. The assignee is not checked to
// actually hold the team_member role.
func (s *OrderService) Assign(ctx context.Context, orderID, teamMemberID, adminID uint) (*models.Order, error) {
	if _, err := s.store.GetUser(ctx, teamMemberID); err != nil {
		return nil, err
	}
	order, err := s.store.UpdateOrder(ctx, orderID, adminID, func(o *models.Order) (string, error) {
		if err := statemachine.CanTransition(o.Status, models.StatusAssigned, models.RoleAdmin); err != nil {
			return "", err
		}
		o.AssignedTo = &teamMemberID
		o.Status = models.StatusAssigned
		return fmt.Sprintf("Assigned to team member #%d", teamMemberID), nil
	})
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, NewOrderEvent(EventOrderAssigned, order, s.now()))
	return order, nil
}

// Cancel cancels an order on behalf of actor. Customers may only cancel
// their own orders; others' orders are reported as not found.
func (s *OrderService) Cancel(ctx context.Context, orderID uint, actor *models.User) (*models.Order, error) {
	order, err := s.store.UpdateOrder(ctx, orderID, actor.ID, func(o *models.Order) (string, error) {
		if actor.Role == models.RoleCustomer && o.CustomerID != actor.ID {
			return "", store.ErrNotFound
		}
		if err := statemachine.CanTransition(o.Status, models.StatusCancelled, actor.Role); err != nil {
			return "", err
		}
		o.Status = models.StatusCancelled
		return "Order cancelled by " + actor.Role.Label(), nil
	})
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, NewOrderEvent(EventOrderCancelled, order, s.now()))
	return order, nil
}

// ForceStatus writes any known status, bypassing the state machine
func (s *OrderService) ForceStatus(ctx context.Context, orderID uint, status models.OrderStatus, adminID uint, reason string) (*models.Order, error) {
	if !status.Valid() {
		return nil, store.Invalid("status", "Unknown order status")
	}
	order, err := s.store.UpdateOrder(ctx, orderID, adminID, func(o *models.Order) (string, error) {
		o.Status = status
		if status == models.StatusDelivered && o.DeliveryConfirmedAt == nil {
			t := s.now().UTC()
			o.DeliveryConfirmedAt = &t
		}
		return "[ADMIN OVERRIDE] " + reason, nil
	})
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, NewOrderEvent(EventOrderStatusChanged, order, s.now()))
	return order, nil
}
