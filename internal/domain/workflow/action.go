package workflow

// Action is a workflow step the user confirms on a page
type Action string

const (
	ActionSaveQuotation            Action = "salvar_cot"
	ActionCreateQuotation          Action = "criar_cotacao"
	ActionEditQuotation            Action = "editar_cot"
	ActionTakeBack                 Action = "corrigir_erros"
	ActionRequestTrusteeApproval   Action = "solicitar_aprovacao_sindico"
	ActionRequestAdjustment        Action = "ajustar_cot"
	ActionApproveQuotation         Action = "aprov_cot"
	ActionArchiveQuotation         Action = "arquivar_cot"
	ActionFinishProvisioning       Action = "finalizar_provisionamento"
	ActionConfirmPurchase          Action = "confirmar_compra"
	ActionConfirmReceipt           Action = "confirmar_recebimento"
	ActionRequestPurchaseAdjust    Action = "solicitar_ajuste_ao_compras"
	ActionSendForFinalCheck        Action = "enviar_p_checagem_final"
	ActionSendForSignature         Action = "enviar_p_assinatura"
	ActionAuthorizeByTrustee       Action = "autorizar_pagamento_sindico"
	ActionAuthorizeByDeputyTrustee Action = "autorizar_pagamento_subsindico"
	ActionConfirmAllSignatures     Action = "confirmar_todas_as_assinaturas"
	ActionSuspendPayment           Action = "suspender_pagamento"
	ActionPostToLedger             Action = "lancar_pdc_ahreas"
	ActionConfirmLedgerPayment     Action = "confirmar_pag_ahreas"
	ActionDuplicate                Action = "duplicar_pdc"
)

// String returns the action identifier
func (a Action) String() string {
	return string(a)
}

// ResetKind names the form clean-up applied before a save
type ResetKind string

const (
	ResetNone ResetKind = ""

	// ResetDuplicate starts a new record from the current one: fresh
	// temporary id, no order number, no prices, quantities, approvals,
	// installments or classification amounts.
	ResetDuplicate ResetKind = "duplicate"

	// ResetProvisioning starts the provisioning copy: fresh temporary id, no
	// order number, no prices or classification amounts.
	ResetProvisioning ResetKind = "provisioning"
)
