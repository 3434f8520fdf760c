package inventory

// AdjustmentType enumerates the quantity adjustment primitives of the ledger.
type AdjustmentType string

const (
	// AdjustmentAdd increases the available quantity
	AdjustmentAdd AdjustmentType = "ADD"
	// AdjustmentRemove decreases the available quantity
	AdjustmentRemove AdjustmentType = "REMOVE"
	// AdjustmentReserve moves quantity from available to reserved
	AdjustmentReserve AdjustmentType = "RESERVE"
	// AdjustmentRelease moves quantity from reserved back to available
	AdjustmentRelease AdjustmentType = "RELEASE"
	// AdjustmentDamage removes quantity and marks the record DAMAGED
	AdjustmentDamage AdjustmentType = "DAMAGE"
	// AdjustmentExpired removes quantity and marks the record EXPIRED
	AdjustmentExpired AdjustmentType = "EXPIRED"
)

// IsValid checks if the adjustment type is valid
func (t AdjustmentType) IsValid() bool {
	switch t {
	case AdjustmentAdd, AdjustmentRemove, AdjustmentReserve, AdjustmentRelease, AdjustmentDamage, AdjustmentExpired:
		return true
	}
	return false
}

// String returns the string representation
func (t AdjustmentType) String() string {
	return string(t)
}

// AllAdjustmentTypes returns all valid adjustment types
func AllAdjustmentTypes() []AdjustmentType {
	return []AdjustmentType{
		AdjustmentAdd,
		AdjustmentRemove,
		AdjustmentReserve,
		AdjustmentRelease,
		AdjustmentDamage,
		AdjustmentExpired,
	}
}
