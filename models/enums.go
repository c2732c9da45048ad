package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// LeaseStatus is the authoritative lifecycle state of a lease agreement.
// Stored as a string; the numeric order lives in leaseStatusRank and is used
// only for "is at least" gating, never to drive transitions.
type LeaseStatus string

const (
	LeaseStatusDraft     LeaseStatus = "Draft"
	LeaseStatusGenerated LeaseStatus = "Generated"
	LeaseStatusSent      LeaseStatus = "Sent"
	LeaseStatusSigned    LeaseStatus = "Signed"
	LeaseStatusCompleted LeaseStatus = "Completed"
	LeaseStatusCancelled LeaseStatus = "Cancelled"
)

var leaseStatusRank = map[LeaseStatus]int{
	LeaseStatusDraft:     0,
	LeaseStatusGenerated: 1,
	LeaseStatusSent:      2,
	LeaseStatusSigned:    3,
	LeaseStatusCompleted: 4,
	LeaseStatusCancelled: 5,
}

// leaseStatusTransitions is the explicit transition table. Transitions are
// driven by named operations (render, dispatch, sign, close, cancel); the
// table exists so that a status can never regress by accident.
var leaseStatusTransitions = map[LeaseStatus][]LeaseStatus{
	LeaseStatusDraft:     {LeaseStatusGenerated, LeaseStatusCancelled},
	LeaseStatusGenerated: {LeaseStatusSent, LeaseStatusSigned, LeaseStatusCancelled},
	LeaseStatusSent:      {LeaseStatusSigned, LeaseStatusCancelled},
	LeaseStatusSigned:    {LeaseStatusCompleted, LeaseStatusCancelled},
	LeaseStatusCompleted: {},
	LeaseStatusCancelled: {},
}

func (s LeaseStatus) IsValid() bool {
	_, ok := leaseStatusRank[s]
	return ok
}

// AtLeast reports whether s is as far along the happy path as other.
func (s LeaseStatus) AtLeast(other LeaseStatus) bool {
	return leaseStatusRank[s] >= leaseStatusRank[other]
}

// CanTransitionTo consults the transition table.
func (s LeaseStatus) CanTransitionTo(to LeaseStatus) bool {
	for _, allowed := range leaseStatusTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s LeaseStatus) IsTerminal() bool {
	return len(leaseStatusTransitions[s]) == 0
}

func (s LeaseStatus) Value() (driver.Value, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid lease status %q", string(s))
	}
	return string(s), nil
}

func (s *LeaseStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*s = LeaseStatus(v)
	case []byte:
		*s = LeaseStatus(v)
	default:
		return errors.New("lease status must be a string")
	}
	if !s.IsValid() {
		return fmt.Errorf("invalid lease status %q", string(*s))
	}
	return nil
}
