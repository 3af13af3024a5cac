package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MembershipAction says what an update does to a user's couple reference.
type MembershipAction int

const (
	MembershipUnchanged MembershipAction = iota
	MembershipSet
	MembershipClear
)

func (a MembershipAction) String() string {
	switch a {
	case MembershipSet:
		return "set"
	case MembershipClear:
		return "clear"
	default:
		return "unchanged"
	}
}

// MembershipChange is the couple_id field of a user update.
//
// Decoded from JSON: an absent field keeps the zero value (unchanged),
// null or 0 clears the membership, a positive id joins that couple.
type MembershipChange struct {
	Action   MembershipAction
	CoupleID uint
}

func KeepMembership() MembershipChange {
	return MembershipChange{Action: MembershipUnchanged}
}

func LeaveCouple() MembershipChange {
	return MembershipChange{Action: MembershipClear}
}

func JoinCouple(coupleID uint) MembershipChange {
	if coupleID == 0 {
		return LeaveCouple()
	}
	return MembershipChange{Action: MembershipSet, CoupleID: coupleID}
}

func (m *MembershipChange) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = LeaveCouple()
		return nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("couple_id must be an integer or null: %w", err)
	}
	if id < 0 {
		return fmt.Errorf("couple_id must not be negative")
	}
	*m = JoinCouple(uint(id))
	return nil
}

func (m MembershipChange) MarshalJSON() ([]byte, error) {
	switch m.Action {
	case MembershipSet:
		return json.Marshal(m.CoupleID)
	default:
		return []byte("null"), nil
	}
}
