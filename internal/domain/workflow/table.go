package workflow

import (
	"fmt"
	"sort"
)

// Table maps a confirmed action to what the save must do
type Table interface {
	// Resolve returns the resolution of action under facts. Unknown actions
	// and unknown pages resolve to a no-op.
	Resolve(action Action, facts Facts) Resolution

	// ActionsFor returns the actions offered on page, in button order
	ActionsFor(page Page) []Action

	// Editable reports whether field stays writable on page
	Editable(page Page, field string) bool

	// Check returns an error when page is unknown or does not offer action
	Check(page Page, action Action) error

	// Actions returns every configured action
	Actions() []Action

	// Pages returns every configured page
	Pages() []Page
}

// transitionTable implements Table
type transitionTable struct {
	actions map[Action]*actionConfig
	pages   map[Page]*pageConfig
}

// Resolve returns the resolution of action under facts
func (t *transitionTable) Resolve(action Action, facts Facts) Resolution {
	if _, ok := t.pages[facts.Page]; !ok {
		return NoOp(action)
	}

	config, ok := t.actions[action]
	if !ok {
		return NoOp(action)
	}

	return config.resolve(facts)
}

// ActionsFor returns the actions offered on page
func (t *transitionTable) ActionsFor(page Page) []Action {
	config, ok := t.pages[page]
	if !ok {
		return []Action{}
	}
	return append([]Action{}, config.offers...)
}

// Editable reports whether field stays writable on page
func (t *transitionTable) Editable(page Page, field string) bool {
	config, ok := t.pages[page]
	if !ok {
		return false
	}
	return config.editableAll || config.editable[field]
}

// Check returns an error when page is unknown or does not offer action
func (t *transitionTable) Check(page Page, action Action) error {
	config, ok := t.pages[page]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPage, page)
	}
	if _, ok := t.actions[action]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	if !containsAction(config.offers, action) {
		return fmt.Errorf("%w: %s on %s", ErrActionNotOffered, action, page)
	}
	return nil
}

// Actions returns every configured action, sorted
func (t *transitionTable) Actions() []Action {
	return sortedActions(t.actions)
}

// Pages returns every configured page, sorted
func (t *transitionTable) Pages() []Page {
	out := make([]Page, 0, len(t.pages))
	for p := range t.pages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Extra field names merged by the table
const (
	FieldAdjustmentNote = "Solicitacao_de_ajuste"
	FieldAdvancePayment = "pag_antecipado"
	FieldLedgerStatus   = "Status_Guillaumon"
	FieldLedgerEntry    = "num_lanc_ahreas"
)

// Ledger status labels
const (
	LedgerPosted        = "Lançado no ahreas"
	LedgerPaymentPosted = "Pagamento confirmado"
)

// Fields that stay writable on the purchase adjustment pages
var adjustmentFields = []string{
	"Entidade", "Datas", "Valor", "quantidade", "valor-unit",
	"form-pagamento", "dados-nf", "form-classificacao",
}

// NewDefaultTable builds the procurement transition table
func NewDefaultTable() Table {
	b := NewBuilder()

	for _, a := range []Action{ActionSaveQuotation, ActionCreateQuotation, ActionEditQuotation, ActionTakeBack} {
		b.Action(a).
			KeepStatusIf(OnPage(PageCreateOrderNumber)).
			Status(StatusProposalsCreated)
	}

	b.Action(ActionRequestTrusteeApproval).
		Status(StatusAwaitingApproval).
		Validate()

	b.Action(ActionRequestAdjustment).
		Status(StatusAdjustmentRequested).
		ExtraFromNote(FieldAdjustmentNote)

	b.Action(ActionApproveQuotation).
		StatusIf(hrWithMaterializedInstallment, StatusSentForFinalCheck).
		Status(StatusProposalApproved)

	b.Action(ActionArchiveQuotation).
		Status(StatusProposalArchived)

	b.Action(ActionFinishProvisioning).
		StatusIf(hrWithoutMaterializedInstallment, StatusSplitIntoInstallments).
		Status(StatusBudgeted).
		FollowUpIf(hr, Step{
			Status:             StatusSentForFinalCheck.Ptr(),
			SplitByInstallment: true,
			ExtraFields:        map[string]interface{}{FieldAdvancePayment: true},
		}).
		FollowUpIf(hr, Step{
			Status:             StatusProposalsCreated.Ptr(),
			SplitByInstallment: true,
			ExtraFields:        map[string]interface{}{FieldAdvancePayment: false},
			Reset:              ResetProvisioning,
		})

	b.Action(ActionConfirmPurchase).
		StatusIf(serviceOrAdvance, StatusReceiptConfirmed).
		Status(StatusPurchaseMade).
		SplitIf(serviceOrAdvance).
		Extra(FieldAdvancePayment, false).
		FollowUpIf(service, Step{Status: StatusSplitIntoInstallments.Ptr()}).
		FollowUpIf(advanceGoods, Step{
			Status:      StatusPurchaseMade.Ptr(),
			ExtraFields: map[string]interface{}{FieldAdvancePayment: false},
		}).
		PrintLayout()

	b.Action(ActionConfirmReceipt).
		Status(StatusReceiptConfirmed).
		Split().
		FollowUpIf(nil, Step{Status: StatusSplitIntoInstallments.Ptr()})

	b.Action(ActionRequestPurchaseAdjust).
		Status(StatusReceiptConfirmed).
		ExtraFromNote(FieldAdjustmentNote)

	b.Action(ActionSendForFinalCheck).Status(StatusSentForFinalCheck)
	b.Action(ActionSendForSignature).Status(StatusControllershipSigned)
	b.Action(ActionAuthorizeByTrustee).Status(StatusTrusteeSigned)
	b.Action(ActionAuthorizeByDeputyTrustee).Status(StatusAuthorizedForPayment)
	b.Action(ActionConfirmAllSignatures).Status(StatusAuthorizedForPayment)

	b.Action(ActionPostToLedger).
		Extra(FieldLedgerStatus, LedgerPosted).
		ExtraFromNote(FieldLedgerEntry)

	b.Action(ActionConfirmLedgerPayment).
		Status(StatusPaymentMade).
		Extra(FieldLedgerStatus, LedgerPaymentPosted)

	b.Action(ActionDuplicate).
		Reset(ResetDuplicate).
		Status(StatusProposalsCreated)

	b.Page(PageCreateQuotation).
		Offer(ActionSaveQuotation, ActionRequestTrusteeApproval).
		EditableAll()
	b.Page(PageCreateQuotationControllership).
		Offer(ActionSaveQuotation, ActionRequestTrusteeApproval).
		EditableAll()
	b.Page(PageEditQuotation).
		Offer(ActionEditQuotation, ActionRequestTrusteeApproval, ActionArchiveQuotation).
		EditableAll()
	b.Page(PageEditQuotationControllership).
		Offer(ActionEditQuotation, ActionRequestTrusteeApproval, ActionArchiveQuotation).
		EditableAll()
	b.Page(PageCreateQuotationHR).
		Offer(ActionSaveQuotation, ActionRequestTrusteeApproval).
		EditableAll()
	b.Page(PageEditQuotationHR).
		Offer(ActionEditQuotation, ActionRequestTrusteeApproval).
		EditableAll()
	b.Page(PageViewQuotation).
		Offer(ActionTakeBack, ActionDuplicate)
	b.Page(PageApproveQuotation).
		Offer(ActionApproveQuotation, ActionRequestAdjustment, ActionArchiveQuotation)
	b.Page(PageArchiveQuotation).
		Offer(ActionArchiveQuotation)
	b.Page(PageConfirmPurchase).
		Offer(ActionConfirmPurchase, ActionArchiveQuotation)
	b.Page(PageReceivePurchase).
		Offer(ActionConfirmReceipt, ActionRequestPurchaseAdjust)
	b.Page(PageAdjustPurchase).
		Offer(ActionSendForFinalCheck).
		Editable(adjustmentFields...)
	b.Page(PageFinalCheck).
		Offer(ActionSendForSignature).
		Editable(adjustmentFields...)
	b.Page(PageAuthorizeByTrustee).
		Offer(ActionAuthorizeByTrustee, ActionSuspendPayment)
	b.Page(PageAuthorizeByDeputyTrustee).
		Offer(ActionAuthorizeByDeputyTrustee, ActionSuspendPayment)
	b.Page(PageConfirmAllSignatures).
		Offer(ActionConfirmAllSignatures, ActionSuspendPayment)
	b.Page(PageCreateOrderNumber).
		Offer(ActionFinishProvisioning).
		Editable("Num_PDC_parcela")
	b.Page(PagePostToLedger).
		Offer(ActionPostToLedger)
	b.Page(PageConfirmLedgerPayment).
		Offer(ActionConfirmLedgerPayment)
	b.Page(PageDuplicate).
		Offer(ActionDuplicate)

	return b.Build()
}
