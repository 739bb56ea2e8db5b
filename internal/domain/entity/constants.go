package entity

// PaymentMethod constants for ProcurementRecord
const (
	PaymentMethodInvoice         PaymentMethod = "Boleto"
	PaymentMethodDepositChecking PaymentMethod = "Dep. em CC"
	PaymentMethodDepositSavings  PaymentMethod = "Dep. em CP"
	PaymentMethodInstantTransfer PaymentMethod = "Pix"
)

// Request type constants
const (
	RequestTypeProduct = "PRODUTO"
	RequestTypeService = "SERVIÇO"
)

// Responsible profile tags
const (
	ProfileBuyer          = "Compras"
	ProfileHR             = "Depto. Pessoal"
	ProfileControllership = "Controladoria"
)

// Save mode constants for SessionContext
const (
	SaveModeCreate SaveMode = "criar_pdc"
	SaveModeEdit   SaveMode = "editar_pdc"
)
