package entity

import "time"

// Lookup names
const (
	LookupSuppliers          = "suppliers"
	LookupCostCenters        = "cost_centers"
	LookupOperationalClasses = "operational_classes"
)

// LookupEntry is one record of a lookup report, keyed by its opaque id.
type LookupEntry struct {
	ID     string                 `json:"id"`
	Fields map[string]interface{} `json:"fields"`
}

// Lookups holds the reference lists used to resolve suppliers and
// classification keys. Errors keeps the lists that failed to load.
type Lookups struct {
	Suppliers          map[string]LookupEntry `json:"suppliers"`
	CostCenters        map[string]LookupEntry `json:"cost_centers"`
	OperationalClasses map[string]LookupEntry `json:"operational_classes"`
	Errors             map[string]string      `json:"errors,omitempty"`
	LoadedAt           time.Time              `json:"loaded_at"`
}

// NewLookups returns empty lookup maps.
func NewLookups() *Lookups {
	return &Lookups{
		Suppliers:          make(map[string]LookupEntry),
		CostCenters:        make(map[string]LookupEntry),
		OperationalClasses: make(map[string]LookupEntry),
		Errors:             make(map[string]string),
	}
}

// Complete reports whether every list loaded.
func (l *Lookups) Complete() bool {
	return len(l.Errors) == 0
}

// Supplier returns the supplier with the given id.
func (l *Lookups) Supplier(id string) (LookupEntry, bool) {
	e, ok := l.Suppliers[id]
	return e, ok
}

// CostCenter returns the cost center with the given id.
func (l *Lookups) CostCenter(id string) (LookupEntry, bool) {
	e, ok := l.CostCenters[id]
	return e, ok
}

// OperationalClass returns the operational class with the given id.
func (l *Lookups) OperationalClass(id string) (LookupEntry, bool) {
	e, ok := l.OperationalClasses[id]
	return e, ok
}
