package statemachine

import (
	"errors"

	"littlelemon-api/models"
)

// Actor names used in transition checks
const (
	ActorManager      = "manager"
	ActorDeliveryCrew = "delivery_crew"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

// validTransitions is the authoritative lifecycle definition. Manager
// PUT/PATCH edits are an override channel and bypass this table on purpose.
var validTransitions = []Transition{
	// Manager assigns a delivery crew member
	{From: models.StatusPending, To: models.StatusOutForDelivery, Actor: ActorManager},
	// Re-assignment of an already-assigned order is allowed
	{From: models.StatusOutForDelivery, To: models.StatusOutForDelivery, Actor: ActorManager},
	// The assigned crew member completes the delivery
	{From: models.StatusOutForDelivery, To: models.StatusDelivered, Actor: ActorDeliveryCrew},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
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
func CanTransition(from, to models.OrderStatus, actor string) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " to " + string(to) +
			" is not allowed for actor '" + actor + "'",
	)
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
