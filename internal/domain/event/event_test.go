package event

import (
	"testing"

	"github.com/google/uuid"
)

func TestType_IsValid(t *testing.T) {
	tests := []struct {
		eventType Type
		want      bool
	}{
		{TypeActionExecuted, true},
		{TypeRecordSaved, true},
		{TypePurchaseConfirmed, true},
		{TypeLookupsRefreshed, true},
		{Type("instance.created"), false},
		{Type(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.eventType.String(), func(t *testing.T) {
			if got := tt.eventType.IsValid(); got != tt.want {
				t.Errorf("Type.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewEvent(t *testing.T) {
	evt := NewEvent(TypeRecordSaved, "900", "t1", nil)

	if _, err := uuid.Parse(evt.ID); err != nil {
		t.Errorf("ID %q is not a uuid: %v", evt.ID, err)
	}
	if evt.CorrelationID == "" || evt.CorrelationID == evt.ID {
		t.Errorf("expected a separate correlation id, got %q", evt.CorrelationID)
	}
	if evt.Payload == nil {
		t.Error("expected an empty payload map")
	}
	if evt.RecordID != "900" || evt.TempID != "t1" {
		t.Errorf("unexpected identity %s/%s", evt.RecordID, evt.TempID)
	}
	if evt.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestNewEventWithCorrelation(t *testing.T) {
	first := NewEvent(TypeActionExecuted, "", "t1", nil)
	second := NewEventWithCorrelation(TypeRecordSaved, "", "t1", nil, first.CorrelationID)

	if second.CorrelationID != first.CorrelationID {
		t.Errorf("CorrelationID = %s, want %s", second.CorrelationID, first.CorrelationID)
	}
	if second.ID == first.ID {
		t.Error("events must have distinct ids")
	}
}

func TestWithPayload(t *testing.T) {
	original := NewEvent(TypeActionExecuted, "900", "t1", map[string]interface{}{KeyAction: "aprov_cot"})
	updated := original.WithPayload(KeySplit, true)

	if _, ok := original.Payload[KeySplit]; ok {
		t.Error("original payload was modified")
	}
	if !updated.GetPayloadBool(KeySplit) {
		t.Error("expected split to be true")
	}
	if got := updated.GetPayloadString(KeyAction); got != "aprov_cot" {
		t.Errorf("action = %q, want aprov_cot", got)
	}
	if updated.ID != original.ID {
		t.Error("WithPayload must keep the event id")
	}
}

func TestGetPayload_WrongType(t *testing.T) {
	evt := NewEvent(TypeRecordSaved, "", "t1", map[string]interface{}{KeyStatus: 3, KeySplit: "yes"})

	if got := evt.GetPayloadString(KeyStatus); got != "" {
		t.Errorf("GetPayloadString() = %q, want empty", got)
	}
	if evt.GetPayloadBool(KeySplit) {
		t.Error("GetPayloadBool() = true, want false")
	}
}
