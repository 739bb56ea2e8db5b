package workflow

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultLayoutBaseURL hosts the printable purchase order layouts
const DefaultLayoutBaseURL = "https://creatorapp.zohopublic.com/guillaumon/app-envio-de-notas-boletos-guillaumon/pdf"

// PrintLayouts maps an entity id to the name of its purchase order layout
type PrintLayouts struct {
	BaseURL string            `mapstructure:"base_url"`
	Layouts map[string]string `mapstructure:"layouts"`
}

// DefaultPrintLayouts returns the layouts of the two known entities
func DefaultPrintLayouts() PrintLayouts {
	return PrintLayouts{
		BaseURL: DefaultLayoutBaseURL,
		Layouts: map[string]string{
			"3938561000066182591": "Laranj_layout_impressao_pedido",
			"3938561000066182595": "AssociacaoServir_layout_impressao_pedido",
		},
	}
}

// URL returns the PDF link of the purchase order of a record. The second
// result is false when the entity has no layout.
func (p PrintLayouts) URL(entityID, recordID, orderNumber string) (string, bool) {
	layout, ok := p.Layouts[entityID]
	if !ok || layout == "" {
		return "", false
	}
	prefix, _, _ := strings.Cut(layout, "_")

	base := strings.TrimRight(p.BaseURL, "/")
	if base == "" {
		base = DefaultLayoutBaseURL
	}
	id := url.QueryEscape(recordID)
	return fmt.Sprintf("%s/%s?ID_entry=%s&id_pdc=%s&zc_PdfSize=A4&zc_FileName=%s_%s",
		base, layout, id, id, url.QueryEscape(orderNumber), prefix), true
}
