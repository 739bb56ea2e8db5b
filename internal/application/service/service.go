package service

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// StoreNames are the forms and reports of the record store application.
// Writes go to forms, reads and updates go to reports.
type StoreNames struct {
	RecordForm      string `mapstructure:"record_form"`
	RecordReport    string `mapstructure:"record_report"`
	QuotationForm   string `mapstructure:"quotation_form"`
	QuotationReport string `mapstructure:"quotation_report"`
	FileForm        string `mapstructure:"file_form"`
	FileReport      string `mapstructure:"file_report"`
	FileField       string `mapstructure:"file_field"`

	SupplierReport         string `mapstructure:"supplier_report"`
	CostCenterReport       string `mapstructure:"cost_center_report"`
	OperationalClassReport string `mapstructure:"operational_class_report"`
}

// DefaultStoreNames returns the names used by the production application
func DefaultStoreNames() StoreNames {
	return StoreNames{
		RecordForm:             "PDC_Digital",
		RecordReport:           "Laranj_PDC_Digital_ADM",
		QuotationForm:          "cotacao_Laranj",
		QuotationReport:        "Laranj_cotacoes_ADM",
		FileForm:               "laranj_arquivos_pdc",
		FileReport:             "laranj_arquivos_pdc_Report",
		FileField:              "Arquivos",
		SupplierReport:         "Laranj_Base_de_fornecedores",
		CostCenterReport:       "Laranj_Centros_de_custo",
		OperationalClassReport: "Laranj_Classes_operacionais",
	}
}

// withDefaults fills empty names from DefaultStoreNames
func (n StoreNames) withDefaults() StoreNames {
	d := DefaultStoreNames()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&n.RecordForm, d.RecordForm)
	fill(&n.RecordReport, d.RecordReport)
	fill(&n.QuotationForm, d.QuotationForm)
	fill(&n.QuotationReport, d.QuotationReport)
	fill(&n.FileForm, d.FileForm)
	fill(&n.FileReport, d.FileReport)
	fill(&n.FileField, d.FileField)
	fill(&n.SupplierReport, d.SupplierReport)
	fill(&n.CostCenterReport, d.CostCenterReport)
	fill(&n.OperationalClassReport, d.OperationalClassReport)
	return n
}
