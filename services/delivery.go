package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"bitemebuddy/models"
	"bitemebuddy/statemachine"
	"bitemebuddy/store"
)

var (
	ErrNotAssigned       = errors.New("order not assigned to you")
	ErrNotOutForDelivery = errors.New("order is not out for delivery")
	ErrInvalidOTP        = errors.New("invalid or expired OTP")
)

// DeliveryService runs the team member side of the workflow: leaving with an
// order and confirming hand-over with a one-time code.
type DeliveryService struct {
	store   *store.Store
	sms     SMSSender
	events  EventPublisher
	otpTTL  time.Duration
	now     func() time.Time
	newCode func() (string, error)
}

func NewDeliveryService(st *store.Store, sms SMSSender, events EventPublisher, otpTTL time.Duration) *DeliveryService {
	if sms == nil {
		sms = LogSMS{}
	}
	if events == nil {
		events = NopPublisher{}
	}
	return &DeliveryService{
		store:   st,
		sms:     sms,
		events:  events,
		otpTTL:  otpTTL,
		now:     time.Now,
		newCode: GenerateOTP,
	}
}

// OTPTTL is how long an issued code stays valid
func (d *DeliveryService) OTPTTL() time.Duration { return d.otpTTL }

// StartDelivery moves an assigned order to out_for_delivery
func (d *DeliveryService) StartDelivery(ctx context.Context, orderID, memberID uint) (*models.Order, error) {
	order, err := d.store.UpdateOrder(ctx, orderID, memberID, func(o *models.Order) (string, error) {
		if !o.IsAssignedTo(memberID) {
			return "", ErrNotAssigned
		}
		if err := statemachine.CanTransition(o.Status, models.StatusOutForDelivery, models.RoleTeamMember); err != nil {
			return "", err
		}
		o.Status = models.StatusOutForDelivery
		return "Out for delivery", nil
	})
	if err != nil {
		return nil, err
	}
	publish(ctx, d.events, NewOrderEvent(EventOrderOutForDelivery, order, d.now()))
	return order, nil
}

// RequestOTP issues a fresh code for an order that is out for delivery and
// texts it to the customer. SMS failures are logged and do not fail issuance.
func (d *DeliveryService) RequestOTP(ctx context.Context, orderID, memberID uint) (*models.Order, error) {
	code, err := d.newCode()
	if err != nil {
		return nil, err
	}
	order, err := d.store.UpdateOrder(ctx, orderID, memberID, func(o *models.Order) (string, error) {
		if !o.IsAssignedTo(memberID) {
			return "", ErrNotAssigned
		}
		if o.Status != models.StatusOutForDelivery {
			return "", ErrNotOutForDelivery
		}
		expiry := d.now().UTC().Add(d.otpTTL)
		o.OTP = &code
		o.OTPExpiry = &expiry
		return "", nil
	})
	if err != nil {
		return nil, err
	}

	d.notifyCustomer(ctx, order, code)
	return order, nil
}

func (d *DeliveryService) notifyCustomer(ctx context.Context, order *models.Order, code string) {
	customer, err := d.store.GetUser(ctx, order.CustomerID)
	if err != nil {
		log.Printf("sms: order %d: load customer: %v", order.ID, err)
		return
	}
	body := fmt.Sprintf("Bite Me Buddy Delivery OTP: %s. Valid for %d minutes. Order ID: %d",
		code, int(d.otpTTL.Minutes()), order.ID)
	if err := d.sms.Send(ctx, customer.Phone, body); err != nil {
		log.Printf("sms: order %d: send OTP: %v", order.ID, err)
	}
}

// ConfirmDelivery checks code against the stored OTP and marks the order
// delivered. The check and the update happen in one transaction.
func (d *DeliveryService) ConfirmDelivery(ctx context.Context, orderID, memberID uint, code string) (*models.Order, error) {
	order, err := d.store.UpdateOrder(ctx, orderID, memberID, func(o *models.Order) (string, error) {
		if !o.IsAssignedTo(memberID) {
			return "", ErrNotAssigned
		}
		if o.Status != models.StatusOutForDelivery {
			return "", ErrNotOutForDelivery
		}
		now := d.now().UTC()
		if !o.CheckOTP(code, now) {
			return "", ErrInvalidOTP
		}
		if err := statemachine.CanTransition(o.Status, models.StatusDelivered, models.RoleTeamMember); err != nil {
			return "", err
		}
		o.Status = models.StatusDelivered
		o.DeliveryConfirmedAt = &now
		return "Delivery confirmed with OTP", nil
	})
	if err != nil {
		return nil, err
	}
	publish(ctx, d.events, NewOrderEvent(EventOrderDelivered, order, d.now()))
	return order, nil
}
