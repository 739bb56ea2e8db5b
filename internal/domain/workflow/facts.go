package workflow

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	profileHR           = "Depto. Pessoal"
	requestTypeService  = "SERVIÇO"
	requestTypeService2 = "SERVICO"
)

// Facts is the part of the form state the transition table branches on
type Facts struct {
	Page                    Page   `json:"page"`
	ResponsibleProfile      string `json:"responsible_profile"`
	RequestType             string `json:"request_type"`
	AdvancePayment          bool   `json:"advance_payment"`
	InstallmentMaterialized bool   `json:"installment_materialized"`
	Note                    string `json:"note,omitempty"`
}

// IsHR reports whether the record is handled by the HR department
func (f Facts) IsHR() bool {
	return strings.Contains(f.ResponsibleProfile, profileHR)
}

// IsService reports whether the request buys a service
func (f Facts) IsService() bool {
	t := cases.Upper(language.BrazilianPortuguese).String(strings.TrimSpace(f.RequestType))
	return t == requestTypeService || t == requestTypeService2
}

// OnPage passes when the form is opened on page p
func OnPage(p Page) GuardFunc {
	return func(f Facts) bool { return f.Page == p }
}

func hrWithMaterializedInstallment(f Facts) bool {
	return f.IsHR() && f.InstallmentMaterialized
}

func hrWithoutMaterializedInstallment(f Facts) bool {
	return f.IsHR() && !f.InstallmentMaterialized
}

func serviceOrAdvance(f Facts) bool {
	return f.IsService() || f.AdvancePayment
}

func service(f Facts) bool {
	return f.IsService()
}

func advanceGoods(f Facts) bool {
	return !f.IsService() && f.AdvancePayment
}

func hr(f Facts) bool {
	return f.IsHR()
}
