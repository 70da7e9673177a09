package services

import "github.com/iota-uz/freight-dwh/modules/dwh/domain"

// MergeState is the cross-source standing of one shipment business key. The
// state is derived from what is stored, never tracked separately, so it
// survives process restarts and partial runs.
type MergeState int

const (
	// StateAbsent means no header exists for the key yet.
	StateAbsent MergeState = iota
	// StateFallback means a transaction document created a minimal header.
	StateFallback
	// StateAuthoritative means a canonical shipment document owns the header.
	StateAuthoritative
)

func (s MergeState) String() string {
	switch s {
	case StateFallback:
		return "fallback"
	case StateAuthoritative:
		return "authoritative"
	default:
		return "absent"
	}
}

// DeriveMergeState classifies a header lookup result.
func DeriveMergeState(found bool, source string) MergeState {
	if !found {
		return StateAbsent
	}
	if source == string(domain.SourceCSL) {
		return StateAuthoritative
	}
	return StateFallback
}

// allowsHeaderWrite says whether the incoming family may create or overwrite
// the header in the given state. Shipment documents always win; transaction
// documents only fill a void and never downgrade an existing header.
func (s MergeState) allowsHeaderWrite(incoming domain.Source) bool {
	if incoming == domain.SourceCSL {
		return true
	}
	return s == StateAbsent
}

// purgesFallback says whether the incoming write must first remove
// fallback-created sub-shipments so the canonical load starts clean.
func (s MergeState) purgesFallback(incoming domain.Source) bool {
	return incoming == domain.SourceCSL && s == StateFallback
}
