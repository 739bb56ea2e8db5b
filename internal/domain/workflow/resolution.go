package workflow

// Step is one save the engine runs after resolving an action
type Step struct {
	Status             *Status                `json:"status,omitempty"`
	SplitByInstallment bool                   `json:"split_by_installment"`
	ExtraFields        map[string]interface{} `json:"extra_fields,omitempty"`
	Reset              ResetKind              `json:"reset,omitempty"`
}

// Resolution is what the engine does when the user confirms an action.
// A zero TargetStatus keeps the current status.
type Resolution struct {
	Action             Action                 `json:"action"`
	TargetStatus       *Status                `json:"target_status"`
	SplitByInstallment bool                   `json:"split_by_installment"`
	ExtraFields        map[string]interface{} `json:"extra_fields"`
	FollowUps          []Step                 `json:"follow_ups,omitempty"`
	Reset              ResetKind              `json:"reset,omitempty"`
	PrintLayout        bool                   `json:"print_layout"`
	RequiresValidation bool                   `json:"requires_validation"`
	Known              bool                   `json:"known"`
}

// NoOp returns the resolution of an action the table does not know
func NoOp(a Action) Resolution {
	return Resolution{Action: a, ExtraFields: map[string]interface{}{}}
}

// IsNoOp reports whether the action changes nothing
func (r Resolution) IsNoOp() bool {
	return !r.Known
}

// Steps returns the main save followed by the follow-up saves
func (r Resolution) Steps() []Step {
	steps := make([]Step, 0, 1+len(r.FollowUps))
	steps = append(steps, Step{
		Status:             r.TargetStatus,
		SplitByInstallment: r.SplitByInstallment,
		ExtraFields:        r.ExtraFields,
		Reset:              r.Reset,
	})
	return append(steps, r.FollowUps...)
}
