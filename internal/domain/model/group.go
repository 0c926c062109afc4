package model

// MemberUpdates is the slice of one member's updates an analysis works on.
type MemberUpdates struct {
	Member  Member
	Updates []Update
}
