package entity

import (
	"sort"
	"time"
)

// SaveMode tells the save orchestrator whether the header record is created
// or updated.
type SaveMode string

const tempIDLayout = "2006_01_02_15_04_05"

// SessionContext is the per-record state shared by the engine calls of one
// form session: record identity, page context and the live quotation rows.
type SessionContext struct {
	RecordID        string   `json:"record_id,omitempty"`
	TempID          string   `json:"temp_id"`
	OrderNumber     string   `json:"order_number,omitempty"`
	Page            string   `json:"page"`
	Mode            SaveMode `json:"mode"`
	QuotationExists bool     `json:"quotation_exists"`
	QuotationIDs    []string `json:"quotation_ids,omitempty"`

	Lookups *Lookups `json:"-"`
}

// NewTempID returns the client side temporary id for a record started at now.
func NewTempID(now time.Time) string {
	return now.Format(tempIDLayout)
}

// LockKey identifies the record for the in-flight save guard.
func (s *SessionContext) LockKey() string {
	if s.TempID != "" {
		return "temp:" + s.TempID
	}
	return "id:" + s.RecordID
}

// IsEditing reports whether the header record is updated in place.
func (s *SessionContext) IsEditing() bool {
	return s.Mode == SaveModeEdit && s.RecordID != ""
}

// StartCopy gives the session a fresh temporary id and drops the order
// number, so the next save creates a new record.
func (s *SessionContext) StartCopy(now time.Time) {
	s.TempID = NewTempID(now)
	s.OrderNumber = ""
	s.Mode = SaveModeCreate
}

// SetQuotationIDs records the live quotation rows, without duplicates and in
// ascending numeric order.
func (s *SessionContext) SetQuotationIDs(ids []string) {
	s.QuotationIDs = DistinctIDs(ids)
	s.QuotationExists = len(s.QuotationIDs) > 0
}

// DistinctIDs removes empty and repeated ids and sorts numeric ids by value.
func DistinctIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) < len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}
