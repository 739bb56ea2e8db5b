package entity

import (
	"encoding/json"
	"fmt"

	"github.com/lucasaguiar-la/cotacao-geral/pkg/money"
)

// RecordPayload is the header record sent to the record store. Extra holds
// action specific fields merged on top of the typed ones.
type RecordPayload struct {
	TempID            string                  `json:"id_temp"`
	TempOrderNumber   string                  `json:"num_PDC_temp,omitempty"`
	OrderNumber       string                  `json:"Numero_do_PDC,omitempty"`
	Entity            string                  `json:"Entidade,omitempty"`
	RequestType       string                  `json:"Tipo_de_solicitacao,omitempty"`
	Description       string                  `json:"Descricao_da_compra,omitempty"`
	Justification     string                  `json:"Utilizacao,omitempty"`
	PaymentMethod     string                  `json:"Forma_de_pagamento,omitempty"`
	Bank              string                  `json:"Banco,omitempty"`
	Agency            string                  `json:"AG,omitempty"`
	Account           string                  `json:"N_Conta,omitempty"`
	AccountHolder     string                  `json:"Favorecido,omitempty"`
	HolderDocument    string                  `json:"CPF_CNPJ,omitempty"`
	PixKeyType        string                  `json:"Tipo_chave_pix,omitempty"`
	PixKey            string                  `json:"Chave_pix,omitempty"`
	AdvancePayment    bool                    `json:"pag_antecipado"`
	Status            string                  `json:"Status_geral,omitempty"`
	Beneficiary       string                  `json:"Beneficiario,omitempty"`
	BudgetedValue     *money.Amount           `json:"Valor_orcado,omitempty"`
	DueDate           string                  `json:"Vencimento_previsto,omitempty"`
	Installments      []InstallmentPayload    `json:"Datas,omitempty"`
	Classifications   []ClassificationPayload `json:"Classificacao_contabil,omitempty"`
	Invoices          []InvoicePayload        `json:"Dados_da_nota_fiscal1,omitempty"`
	InvoiceOriginal   *money.Amount           `json:"Valor_original,omitempty"`
	InvoiceDiscounts  *money.Amount           `json:"Total_descontos,omitempty"`
	InvoiceAdditions  *money.Amount           `json:"Total_acrescimos,omitempty"`
	InvoiceTotalToPay *money.Amount           `json:"Valor_total_a_pagar,omitempty"`
	AdjustmentNote    string                  `json:"Solicitacao_de_ajuste,omitempty"`

	Extra map[string]interface{} `json:"-"`
}

// MarshalJSON merges Extra into the typed fields. Extra wins on conflicts.
func (p RecordPayload) MarshalJSON() ([]byte, error) {
	type plain RecordPayload
	base, err := json.Marshal(plain(p))
	if err != nil || len(p.Extra) == 0 {
		return base, err
	}

	merged := make(map[string]json.RawMessage)
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range p.Extra {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("extra field %s: %w", k, err)
		}
		merged[k] = raw
	}
	return json.Marshal(merged)
}

// InstallmentPayload is one entry of the Datas collection.
type InstallmentPayload struct {
	Number      int           `json:"Numero_da_parcela"`
	DueDate     string        `json:"Vencimento_previsto"`
	Amount      *money.Amount `json:"Valor"`
	OrderNumber string        `json:"Num_PDC_parcela,omitempty"`
	Created     bool          `json:"parcela_criada"`
}

// ClassificationPayload is one entry of the Classificacao_contabil collection.
type ClassificationPayload struct {
	Account          string       `json:"Conta_a_debitar"`
	CostCenter       string       `json:"Centro_de_custo"`
	OperationalClass string       `json:"Classe_operacional"`
	Amount           money.Amount `json:"Valor"`
}

// InvoicePayload is one entry of the Dados_da_nota_fiscal1 collection.
type InvoicePayload struct {
	IssueDate string `json:"Data_emissao_N_Fiscal,omitempty"`
	Number    string `json:"Numero_N_Fiscal,omitempty"`
}

// QuotationRow is one price table cell persisted in the quotation form.
type QuotationRow struct {
	ProductID       string        `json:"id_produto,omitempty"`
	SupplierID      string        `json:"id_fornecedor,omitempty"`
	Product         string        `json:"Produto"`
	Quantity        int           `json:"Quantidade"`
	Unit            string        `json:"Unidade"`
	Supplier        string        `json:"Fornecedor,omitempty"`
	UnitPrice       *money.Amount `json:"Valor_unitario,omitempty"`
	LineTotal       *money.Amount `json:"Valor_total,omitempty"`
	Freight         *money.Amount `json:"Valor_do_frete,omitempty"`
	Discount        *money.Amount `json:"Descontos,omitempty"`
	GrandTotal      *money.Amount `json:"Total_geral,omitempty"`
	PaymentTerms    string        `json:"Condicoes_de_pagamento,omitempty"`
	Notes           string        `json:"Observacoes,omitempty"`
	OrderNumber     string        `json:"numero_de_PDC,omitempty"`
	TempOrderNumber string        `json:"num_PDC_temp"`
	Approved        *bool         `json:"Aprovado,omitempty"`
	Version         int           `json:"Versao"`
	Active          bool          `json:"Ativo"`
}

// FileStub is the attachment record created before its content is uploaded.
type FileStub struct {
	RecordID string `json:"PDC_Digital"`
}

// SubRecord is everything persisted for one header record: the header
// payload, its quotation rows and the files to attach to it.
type SubRecord struct {
	Ordinal     int            `json:"ordinal"`
	Record      RecordPayload  `json:"record"`
	Quotation   []QuotationRow `json:"quotation"`
	Attachments []Attachment   `json:"attachments,omitempty"`
}
