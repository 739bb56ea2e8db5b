package workflow

// Status is the overall status label of a procurement record
type Status string

const (
	StatusProposalsCreated      Status = "Propostas criadas"
	StatusAwaitingApproval      Status = "Aguardando aprovação de uma proposta"
	StatusAdjustmentRequested   Status = "Ajuste solicitado"
	StatusProposalApproved      Status = "Proposta aprovada"
	StatusProposalArchived      Status = "Proposta arquivada"
	StatusSplitIntoInstallments Status = "Separado em parcelas"
	StatusBudgeted              Status = "Lançado no orçamento"
	StatusPurchaseMade          Status = "Compra realizada"
	StatusReceiptConfirmed      Status = "Recebimento confirmado"
	StatusSentForFinalCheck     Status = "Enviado para checagem final"
	StatusControllershipSigned  Status = "Assinatura Confirmada Controladoria"
	StatusTrusteeSigned         Status = "Assinatura Confirmada Sindico"
	StatusAuthorizedForPayment  Status = "Autorizado para pagamento"
	StatusPaymentMade           Status = "Pagamento realizado"
)

var validStatuses = map[Status]bool{
	StatusProposalsCreated:      true,
	StatusAwaitingApproval:      true,
	StatusAdjustmentRequested:   true,
	StatusProposalApproved:      true,
	StatusProposalArchived:      true,
	StatusSplitIntoInstallments: true,
	StatusBudgeted:              true,
	StatusPurchaseMade:          true,
	StatusReceiptConfirmed:      true,
	StatusSentForFinalCheck:     true,
	StatusControllershipSigned:  true,
	StatusTrusteeSigned:         true,
	StatusAuthorizedForPayment:  true,
	StatusPaymentMade:           true,
}

var terminalStatuses = map[Status]bool{
	StatusProposalArchived: true,
	StatusPaymentMade:      true,
}

// IsTerminal returns true if no further action moves the record
func (s Status) IsTerminal() bool {
	return terminalStatuses[s]
}

// String returns the status label
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is a known label
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// Ptr returns a pointer to a copy of s
func (s Status) Ptr() *Status {
	return &s
}
