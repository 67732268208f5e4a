// Package workflow holds the case lifecycle state machine: an explicit
// transition table with guard, permission and side-effect hooks evaluated
// imperatively.
package workflow

import (
	"github.com/civictech-tw/casework/models"
	"gorm.io/gorm"
)

type Operation string

const (
	OpDisapprove Operation = "disapprove"
	OpArrange    Operation = "arrange"
	OpClose      Operation = "close"
	OpRearrange  Operation = "rearrange"
)

// Guard reports whether a transition's precondition holds. The tx lets
// guards query related rows inside the surrounding transaction.
type Guard func(tx *gorm.DB, c *models.Case) (bool, error)

// Effect runs a transition's side effects while c.State still holds the
// source state; the machine moves the case to the target afterwards.
type Effect func(tx *gorm.DB, c *models.Case, actor *models.User) error

// Permission decides whether the actor may run the transition.
type Permission func(actor *models.User, c *models.Case) bool

type Transition struct {
	Op      Operation
	Sources []models.CaseState
	Target  models.CaseState
	// Hint is the human-readable reason reported when the guard is unmet.
	Hint       string
	Guard      Guard
	Effect     Effect
	Permission Permission
}

func (t Transition) from(state models.CaseState) bool {
	for _, s := range t.Sources {
		if s == state {
			return true
		}
	}
	return false
}

// Status describes one operation's current legality for a case, for UI
// hinting.
type Status struct {
	Op         Operation        `json:"op"`
	Target     models.CaseState `json:"target"`
	Authorized bool             `json:"authorized"`
	Allowed    bool             `json:"allowed"`
	Reason     string           `json:"reason,omitempty"`
}

type Machine struct {
	transitions []Transition
}

func NewMachine(transitions []Transition) *Machine {
	return &Machine{transitions: transitions}
}

func (m *Machine) Get(op Operation) (Transition, bool) {
	for _, t := range m.transitions {
		if t.Op == op {
			return t, true
		}
	}
	return Transition{}, false
}

// Apply runs one guarded transition in-place. Check order: permission,
// source state, guard, effect. On success c.State holds the target; on any
// failure the case is untouched and no side effect has run.
func (m *Machine) Apply(tx *gorm.DB, c *models.Case, actor *models.User, op Operation) error {
	t, ok := m.Get(op)
	if !ok {
		return &InvalidTransitionError{Op: op, From: c.State}
	}
	if t.Permission != nil && !t.Permission(actor, c) {
		return ErrNotAuthorized
	}
	if !t.from(c.State) {
		return &InvalidTransitionError{Op: op, From: c.State}
	}
	if t.Guard != nil {
		ok, err := t.Guard(tx, c)
		if err != nil {
			return err
		}
		if !ok {
			return &GuardError{Op: op, Reason: t.Hint}
		}
	}
	if t.Effect != nil {
		if err := t.Effect(tx, c, actor); err != nil {
			return err
		}
	}
	c.State = t.Target
	return nil
}

// Describe evaluates every operation reachable from the case's current
// state and reports its legality, with the guard hint for unmet guards.
func (m *Machine) Describe(tx *gorm.DB, c *models.Case, actor *models.User) ([]Status, error) {
	var statuses []Status
	for _, t := range m.transitions {
		if !t.from(c.State) {
			continue
		}
		s := Status{
			Op:         t.Op,
			Target:     t.Target,
			Authorized: t.Permission == nil || t.Permission(actor, c),
			Allowed:    true,
		}
		if t.Guard != nil {
			ok, err := t.Guard(tx, c)
			if err != nil {
				return nil, err
			}
			if !ok {
				s.Allowed = false
				s.Reason = t.Hint
			}
		}
		statuses = append(statuses, s)
	}
	return statuses, nil
}
