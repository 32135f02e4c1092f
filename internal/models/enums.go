package models

import "fmt"

// Role is the permission level of a user.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	r := Role(value)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid role %q", value)
	}
	return r, nil
}

// EntityType names the kind of entity a history entry refers to.
type EntityType string

const (
	EntityProduct EntityType = "product"
	EntityBatch   EntityType = "batch"
)

func (e EntityType) IsValid() bool {
	return e == EntityProduct || e == EntityBatch
}

// ParseEntityType converts raw input into an EntityType.
func ParseEntityType(value string) (EntityType, error) {
	e := EntityType(value)
	if !e.IsValid() {
		return "", fmt.Errorf("invalid entity type %q", value)
	}
	return e, nil
}

// Action is the kind of mutation recorded in history.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

func (a Action) IsValid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// ParseAction converts raw input into an Action.
func ParseAction(value string) (Action, error) {
	a := Action(value)
	if !a.IsValid() {
		return "", fmt.Errorf("invalid action %q", value)
	}
	return a, nil
}

// BatchStatus is the urgency class of a batch derived from its expiration date.
type BatchStatus string

const (
	StatusValid   BatchStatus = "valid"
	StatusWarning BatchStatus = "warning"
	StatusExpired BatchStatus = "expired"
)

func (s BatchStatus) IsValid() bool {
	switch s {
	case StatusValid, StatusWarning, StatusExpired:
		return true
	}
	return false
}

// Severity orders statuses so that a higher value is more urgent.
func (s BatchStatus) Severity() int {
	switch s {
	case StatusExpired:
		return 2
	case StatusWarning:
		return 1
	default:
		return 0
	}
}
