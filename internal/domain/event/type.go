package event

// Type identifies the type of domain event
type Type string

const (
	TypeActionExecuted    Type = "action.executed"
	TypeRecordSaved       Type = "record.saved"
	TypePurchaseConfirmed Type = "purchase.confirmed"
	TypeLookupsRefreshed  Type = "lookups.refreshed"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeActionExecuted,
		TypeRecordSaved,
		TypePurchaseConfirmed,
		TypeLookupsRefreshed:
		return true
	default:
		return false
	}
}
