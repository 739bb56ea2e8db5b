package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lucasaguiar-la/cotacao-geral/internal/application/dispatcher"
	"github.com/lucasaguiar-la/cotacao-geral/internal/application/port"
	"github.com/lucasaguiar-la/cotacao-geral/internal/application/service"
	"github.com/lucasaguiar-la/cotacao-geral/internal/domain/entity"
	"github.com/lucasaguiar-la/cotacao-geral/internal/domain/event"
	domainwf "github.com/lucasaguiar-la/cotacao-geral/internal/domain/workflow"
)

// engineImpl is the concrete implementation of ActionEngine
type engineImpl struct {
	table      domainwf.Table
	saver      service.SaveService
	lock       port.SaveLock
	validator  *service.Validator
	layouts    PrintLayouts
	dispatcher dispatcher.Dispatcher
	logger     service.Logger
	gated      bool
	now        func() time.Time
}

// EngineOption configures the action engine
type EngineOption func(*engineImpl)

// WithDispatcher sets the event dispatcher for emitting events
func WithDispatcher(d dispatcher.Dispatcher) EngineOption {
	return func(e *engineImpl) {
		e.dispatcher = d
	}
}

// WithValidator checks required fields before the actions that ask for it
func WithValidator(v *service.Validator) EngineOption {
	return func(e *engineImpl) {
		e.validator = v
	}
}

// WithPrintLayouts sets the purchase order layouts
func WithPrintLayouts(p PrintLayouts) EngineOption {
	return func(e *engineImpl) {
		e.layouts = p
	}
}

// WithSaveLock holds the record lock across every save of one action,
// follow-ups and resets included
func WithSaveLock(l port.SaveLock) EngineOption {
	return func(e *engineImpl) {
		e.lock = l
	}
}

// WithPageGating rejects actions the current page does not offer
func WithPageGating() EngineOption {
	return func(e *engineImpl) {
		e.gated = true
	}
}

// WithLogger sets the engine logger
func WithLogger(l service.Logger) EngineOption {
	return func(e *engineImpl) {
		e.logger = l
	}
}

// WithClock replaces time.Now, used for temporary ids of copies
func WithClock(now func() time.Time) EngineOption {
	return func(e *engineImpl) {
		e.now = now
	}
}

// NewEngine creates a new action engine
func NewEngine(table domainwf.Table, saver service.SaveService, opts ...EngineOption) ActionEngine {
	e := &engineImpl{
		table:     table,
		saver:     saver,
		validator: service.NewValidator(),
		layouts:   DefaultPrintLayouts(),
		logger:    nopLogger{},
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *engineImpl) Table() domainwf.Table {
	return e.table
}

func (e *engineImpl) Resolve(session *entity.SessionContext, form *entity.FormSnapshot, action domainwf.Action, note string) domainwf.Resolution {
	return e.table.Resolve(action, FactsFor(session, form, note))
}

// Execute runs the main save and then each follow-up. A failing save stops
// the remaining steps; saves already done stay committed.
func (e *engineImpl) Execute(ctx context.Context, req ExecuteRequest) (*ExecuteResult, error) {
	if req.Session == nil || req.Form == nil {
		return nil, fmt.Errorf("session and form are required")
	}

	facts := FactsFor(req.Session, req.Form, req.Note)
	if e.gated {
		if err := e.table.Check(facts.Page, req.Action); err != nil {
			return nil, err
		}
	}

	res := e.table.Resolve(req.Action, facts)
	out := &ExecuteResult{Resolution: res, Steps: []StepResult{}}
	if res.IsNoOp() {
		e.logger.Info("Action ignored", "action", req.Action, "page", facts.Page)
		return out, nil
	}

	if res.RequiresValidation && e.validator != nil {
		if err := e.validator.ValidateForAction(string(req.Action), req.Form); err != nil {
			return out, err
		}
	}

	// Keyed before any reset gives the session a new temporary id.
	ctx, unlock, err := service.AcquireSaveLock(ctx, e.lock, req.Session.LockKey())
	if err != nil {
		return out, err
	}
	defer unlock()

	correlationID := uuid.NewString()
	for i, step := range res.Steps() {
		e.applyReset(step.Reset, req.Session, req.Form)

		status := req.Form.Record.Status
		if step.Status != nil {
			status = step.Status.String()
		}

		sr := StepResult{Status: status, Split: step.SplitByInstallment, TempID: req.Session.TempID}
		err := e.saver.Save(ctx, req.Session, req.Form, service.SaveOptions{
			Status:             status,
			SplitByInstallment: step.SplitByInstallment,
			ExtraFields:        step.ExtraFields,
		})
		if err != nil {
			sr.Error = err.Error()
			out.Steps = append(out.Steps, sr)
			e.logger.Error("Action step failed", "action", req.Action, "step", i, "error", err)
			return out, fmt.Errorf("action %s step %d: %w", req.Action, i, err)
		}
		out.Steps = append(out.Steps, sr)
		req.Form.Record.Status = status

		e.emitAsync(ctx, event.NewEventWithCorrelation(event.TypeRecordSaved, req.Session.RecordID, req.Session.TempID,
			map[string]interface{}{
				event.KeyAction: string(req.Action),
				event.KeyStatus: status,
				event.KeySplit:  step.SplitByInstallment,
			}, correlationID))
	}

	if res.PrintLayout {
		e.confirmPurchase(ctx, req, out, correlationID)
	}

	e.emitAsync(ctx, event.NewEventWithCorrelation(event.TypeActionExecuted, req.Session.RecordID, req.Session.TempID,
		map[string]interface{}{
			event.KeyAction: string(req.Action),
			event.KeyStatus: req.Form.Record.Status,
		}, correlationID))

	e.logger.Info("Action executed", "action", req.Action, "temp_id", req.Session.TempID, "steps", len(out.Steps))
	return out, nil
}

// confirmPurchase builds the purchase order link and notifies the layout
// renderer. Handler errors are logged; the saves already succeeded.
func (e *engineImpl) confirmPurchase(ctx context.Context, req ExecuteRequest, out *ExecuteResult, correlationID string) {
	link, ok := e.layouts.URL(req.Form.Record.Entity, req.Session.RecordID, req.Session.OrderNumber)
	if ok {
		out.LayoutURL = link
	}

	if e.dispatcher == nil {
		return
	}
	evt := event.NewEventWithCorrelation(event.TypePurchaseConfirmed, req.Session.RecordID, req.Session.TempID,
		map[string]interface{}{
			event.KeyAction:      string(req.Action),
			event.KeyEntity:      req.Form.Record.Entity,
			event.KeyOrderNumber: req.Session.OrderNumber,
			event.KeyLayoutURL:   link,
			event.KeyForm:        req.Form,
		}, correlationID)
	if err := e.dispatcher.Dispatch(ctx, evt); err != nil {
		e.logger.Error("Purchase order handlers failed", "temp_id", req.Session.TempID, "error", err)
	}
}

func (e *engineImpl) applyReset(kind domainwf.ResetKind, session *entity.SessionContext, form *entity.FormSnapshot) {
	switch kind {
	case domainwf.ResetDuplicate:
		service.ResetForDuplicate(session, form, e.now())
	case domainwf.ResetProvisioning:
		service.ResetForProvisioning(session, form, e.now())
	default:
		return
	}
	e.logger.Info("Form reset", "kind", kind, "temp_id", session.TempID)
}

func (e *engineImpl) emitAsync(ctx context.Context, evt *event.Event) {
	if e.dispatcher != nil {
		e.dispatcher.DispatchAsync(context.WithoutCancel(ctx), evt)
	}
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
