package workflow

// Page is the workflow screen the form is opened on
type Page string

const (
	PageCreateQuotation               Page = "criar_cotacao"
	PageEditQuotation                 Page = "editar_cotacao"
	PageCreateQuotationControllership Page = "criar_cotacao_controladoria"
	PageEditQuotationControllership   Page = "editar_cotacao_controladoria"
	PageCreateQuotationHR             Page = "criar_cotacao_DP"
	PageEditQuotationHR               Page = "editar_cotacao_DP"
	PageViewQuotation                 Page = "ver_cotacao"
	PageApproveQuotation              Page = "aprovar_cotacao"
	PageArchiveQuotation              Page = "arquivar_cotacao"
	PageConfirmPurchase               Page = "confirmar_compra"
	PageReceivePurchase               Page = "receber_compra"
	PageAdjustPurchase                Page = "ajustar_compra_compras"
	PageFinalCheck                    Page = "checagem_final"
	PageAuthorizeByTrustee            Page = "autorizar_pagamento_sindico"
	PageAuthorizeByDeputyTrustee      Page = "autorizar_pagamento_subsindico"
	PageConfirmAllSignatures          Page = "confirmar_todas_as_assinaturas"
	PageCreateOrderNumber             Page = "criar_numero_de_PDC"
	PagePostToLedger                  Page = "lancar_pdc_ahreas"
	PageConfirmLedgerPayment          Page = "confirmar_pag_ahreas"
	PageDuplicate                     Page = "duplicar_pdc"
)

// String returns the page identifier
func (p Page) String() string {
	return string(p)
}
