package statemachine

import (
	"errors"
	"fmt"
	"strings"

	"bitemebuddy/models"
)

// ErrInvalidTransition is wrapped by every CanTransition rejection
var ErrInvalidTransition = errors.New("invalid transition")

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor models.UserRole
}

// validTransitions is the authoritative state machine definition
var validTransitions = []Transition{
	// Admin assigns (or reassigns) a team member
	{From: models.StatusPending, To: models.StatusAssigned, Actor: models.RoleAdmin},
	{From: models.StatusAssigned, To: models.StatusAssigned, Actor: models.RoleAdmin},
	// Admin can cancel anything not yet on the road
	{From: models.StatusPending, To: models.StatusCancelled, Actor: models.RoleAdmin},
	{From: models.StatusAssigned, To: models.StatusCancelled, Actor: models.RoleAdmin},
	// Customer can cancel until someone is assigned
	{From: models.StatusPending, To: models.StatusCancelled, Actor: models.RoleCustomer},
	// Team member leaves with the order
	{From: models.StatusAssigned, To: models.StatusOutForDelivery, Actor: models.RoleTeamMember},
	// Team member confirms delivery with the customer's OTP
	{From: models.StatusOutForDelivery, To: models.StatusDelivered, Actor: models.RoleTeamMember},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor models.UserRole
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor models.UserRole) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return fmt.Errorf("%w: %s → %s is not allowed for %s; valid transitions from %s are: %s",
		ErrInvalidTransition, from, to, actor.Label(), from, describeValidFrom(from))
}

// IsTerminal reports whether no transition leaves status
func IsTerminal(status models.OrderStatus) bool {
	return len(ValidTransitionsFrom(status)) == 0
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
