package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"bitemebuddy/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
)

// OrderEventsExchange is the fanout exchange order events are published to
const OrderEventsExchange = "order_events"

// Order event types, used as routing keys
const (
	EventOrderCreated        = "order.created"
	EventOrderAssigned       = "order.assigned"
	EventOrderOutForDelivery = "order.out_for_delivery"
	EventOrderDelivered      = "order.delivered"
	EventOrderCancelled      = "order.cancelled"
	EventOrderStatusChanged  = "order.status_changed"
)

type OrderEvent struct {
	Type        string             `json:"type"`
	OrderID     uint               `json:"order_id"`
	CustomerID  uint               `json:"customer_id"`
	AssignedTo  *uint              `json:"assigned_to,omitempty"`
	Status      models.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	At          time.Time          `json:"at"`
}

func NewOrderEvent(kind string, o *models.Order, at time.Time) OrderEvent {
	return OrderEvent{
		Type:        kind,
		OrderID:     o.ID,
		CustomerID:  o.CustomerID,
		AssignedTo:  o.AssignedTo,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		At:          at.UTC(),
	}
}

// EventPublisher broadcasts order lifecycle events
type EventPublisher interface {
	Publish(ctx context.Context, event OrderEvent) error
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, OrderEvent) error { return nil }

// AMQPPublisher publishes persistent JSON events to a durable fanout exchange
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func DialAMQP(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	log.Printf("RabbitMQ connection established (exchange %s)", exchange)
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, event OrderEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.PublishWithContext(ctx, p.exchange, event.Type, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.At,
		ContentType:  "application/json",
		Type:         event.Type,
		Body:         body,
	})
}

func (p *AMQPPublisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// publish is best-effort: failures are logged, never returned
func publish(ctx context.Context, p EventPublisher, event OrderEvent) {
	if err := p.Publish(ctx, event); err != nil {
		log.Printf("events: publish %s for order %d: %v", event.Type, event.OrderID, err)
	}
}
