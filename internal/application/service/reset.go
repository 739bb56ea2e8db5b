package service

import (
	"time"

	"github.com/lucasaguiar-la/cotacao-geral/internal/domain/entity"
)

// ResetForDuplicate turns the session into a fresh copy of the record: new
// temporary id, no order number, create mode. Quantities, prices, supplier
// totals, approvals, installments and classification amounts are cleared.
func ResetForDuplicate(session *entity.SessionContext, form *entity.FormSnapshot, now time.Time) {
	detach(session, now)

	form.ClearQuantities()
	form.ClearPrices()
	form.ClearApprovals()
	form.Installments = nil
	form.ClearClassificationAmounts()
}

// ResetForProvisioning prepares the copy made after provisioning: new
// temporary id and no order number. Prices, supplier totals and
// classification amounts are cleared; installments are kept but become
// pending again so the copy gets its own sub-records.
func ResetForProvisioning(session *entity.SessionContext, form *entity.FormSnapshot, now time.Time) {
	detach(session, now)

	form.ClearPrices()
	form.ClearClassificationAmounts()
	for i := range form.Installments {
		form.Installments[i].Materialized = false
		form.Installments[i].OrderLabel = ""
	}
}

func detach(session *entity.SessionContext, now time.Time) {
	session.StartCopy(now)
	session.RecordID = ""
	session.QuotationExists = false
	session.QuotationIDs = nil
}
