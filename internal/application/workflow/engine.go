package workflow

import (
	"context"

	"github.com/lucasaguiar-la/cotacao-geral/internal/domain/entity"
	domainwf "github.com/lucasaguiar-la/cotacao-geral/internal/domain/workflow"
)

// ActionEngine runs the action a user confirmed on a procurement form
type ActionEngine interface {
	// Resolve previews what Execute would do, without saving
	Resolve(session *entity.SessionContext, form *entity.FormSnapshot, action domainwf.Action, note string) domainwf.Resolution

	// Execute resolves the action and runs its saves in order
	Execute(ctx context.Context, req ExecuteRequest) (*ExecuteResult, error)

	// Table returns the transition table the engine resolves against
	Table() domainwf.Table
}

// ExecuteRequest is one confirmed action. Session and Form are updated in
// place as the saves run.
type ExecuteRequest struct {
	Session *entity.SessionContext
	Form    *entity.FormSnapshot
	Action  domainwf.Action
	Note    string
}

// StepResult reports one save run by Execute
type StepResult struct {
	Status string `json:"status"`
	Split  bool   `json:"split"`
	TempID string `json:"temp_id"`
	Error  string `json:"error,omitempty"`
}

// ExecuteResult is the outcome of Execute
type ExecuteResult struct {
	Resolution domainwf.Resolution `json:"resolution"`
	Steps      []StepResult        `json:"steps"`
	LayoutURL  string              `json:"layout_url,omitempty"`
}

// FactsFor extracts what the transition table branches on
func FactsFor(session *entity.SessionContext, form *entity.FormSnapshot, note string) domainwf.Facts {
	return domainwf.Facts{
		Page:                    domainwf.Page(session.Page),
		ResponsibleProfile:      form.Record.ResponsibleProfile,
		RequestType:             form.Record.RequestType,
		AdvancePayment:          form.Record.AdvancePayment,
		InstallmentMaterialized: form.FirstInstallmentMaterialized(),
		Note:                    note,
	}
}
