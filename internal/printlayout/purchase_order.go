package printlayout

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/lucasaguiar-la/cotacao-geral/internal/allocation"
	"github.com/lucasaguiar-la/cotacao-geral/internal/application/dispatcher"
	"github.com/lucasaguiar-la/cotacao-geral/internal/application/port"
	"github.com/lucasaguiar-la/cotacao-geral/internal/domain/entity"
	"github.com/lucasaguiar-la/cotacao-geral/internal/domain/event"
	"github.com/lucasaguiar-la/cotacao-geral/pkg/money"
	"github.com/lucasaguiar-la/cotacao-geral/pkg/utils"
)

const (
	// SheetName is the only sheet of the purchase order workbook
	SheetName = "Pedido"

	// ContentType of the rendered workbook
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	handlerName = "print-layout"
)

// Order carries what the workbook prints besides the form itself
type Order struct {
	OrderNumber string
	TempID      string
	EntityName  string
}

// Renderer writes purchase order workbooks into the blob store
type Renderer struct {
	blobs    port.BlobStore
	entities map[string]string
	logger   *zap.Logger
}

// NewRenderer creates a renderer. entities maps an entity id to the name
// printed in the header; unknown ids are printed as is.
func NewRenderer(blobs port.BlobStore, entities map[string]string, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{blobs: blobs, entities: entities, logger: logger}
}

// Register subscribes the renderer to purchase.confirmed
func (r *Renderer) Register(d dispatcher.Dispatcher) {
	d.Subscribe(event.TypePurchaseConfirmed, handlerName, r.HandlePurchaseConfirmed)
}

// Key is where the workbook of a record is stored
func Key(tempID, orderNumber string) string {
	name := strings.ReplaceAll(orderNumber, "/", "-")
	if name == "" {
		name = "sem_numero"
	}
	return fmt.Sprintf("pdc/%s/pedido_%s.xlsx", tempID, name)
}

// HandlePurchaseConfirmed renders the form carried by the event and stores
// the workbook under Key
func (r *Renderer) HandlePurchaseConfirmed(ctx context.Context, evt *event.Event) error {
	form, err := formOf(evt)
	if err != nil {
		return err
	}

	order := Order{TempID: evt.TempID}
	order.OrderNumber, _ = evt.Payload[event.KeyOrderNumber].(string)
	entityID, _ := evt.Payload[event.KeyEntity].(string)
	order.EntityName = r.entityName(entityID)

	data, err := r.Render(form, order)
	if err != nil {
		return err
	}

	key := Key(evt.TempID, order.OrderNumber)
	if err := r.blobs.Put(ctx, key, data, ContentType); err != nil {
		return fmt.Errorf("failed to store purchase order: %w", err)
	}

	r.logger.Info("Purchase order rendered",
		zap.String("temp_id", evt.TempID),
		zap.String("order_number", order.OrderNumber),
		zap.String("key", key),
		zap.Int("size", len(data)))
	return nil
}

func formOf(evt *event.Event) (*entity.FormSnapshot, error) {
	switch f := evt.Payload[event.KeyForm].(type) {
	case *entity.FormSnapshot:
		if f != nil {
			return f, nil
		}
	case entity.FormSnapshot:
		return &f, nil
	}
	return nil, fmt.Errorf("event %s carries no form", evt.ID)
}

func (r *Renderer) entityName(id string) string {
	if name, ok := r.entities[id]; ok && name != "" {
		return name
	}
	return id
}

// Render builds the purchase order workbook of the approved supplier
func (r *Renderer) Render(form *entity.FormSnapshot, order Order) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	w := &sheetWriter{f: f, logger: r.logger}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}
	w.bold = bold

	supplier := "-"
	supplierIdx, hasSupplier := allocation.ApprovedSupplier(form)
	if hasSupplier {
		supplier = form.Suppliers[supplierIdx].Name
	}

	w.title("Pedido de compra")
	w.field("Número do PDC", order.OrderNumber)
	w.field("Entidade", order.EntityName)
	w.field("Tipo de solicitação", form.Record.RequestType)
	w.field("Descrição", form.Record.Description)
	w.field("Justificativa", form.Record.Justification)
	w.field("Fornecedor", supplier)
	w.field("Forma de pagamento", string(form.Record.PaymentMethod))
	w.skip()

	w.header("Produto", "Quantidade", "Unidade", "Valor unitário", "Valor total")
	if hasSupplier {
		id := form.Suppliers[supplierIdx].ID
		for _, row := range allocation.PriceTable(form) {
			if row.SupplierID != id {
				continue
			}
			w.row(row.Product, row.Quantity, row.Unit, money.Display(row.UnitPrice), money.Display(row.LineTotal))
		}
		s := form.Suppliers[supplierIdx]
		w.row("", "", "", "Frete", money.Display(s.Freight.Decimal))
		w.row("", "", "", "Desconto", money.Display(s.Discount.Decimal))
		w.row("", "", "", "Total", money.Currency(allocation.SupplierTotal(form, supplierIdx)))
	}
	w.skip()

	w.header("Parcela", "Vencimento", "Valor", "PDC")
	for _, inst := range form.Installments {
		due := ""
		if inst.DueDate != nil {
			due = inst.DueDate.Wire()
		}
		amount := ""
		if inst.Amount != nil {
			amount = money.Display(inst.Amount.Decimal)
		}
		label := inst.OrderLabel
		if label == "" {
			label = entity.OrderLabel(order.OrderNumber, inst.Number, len(form.Installments))
		}
		w.row(inst.Number, due, amount, label)
	}
	w.skip()

	w.header("Conta", "Centro de custo", "Classe operacional", "Valor")
	total := decimal.Zero
	for _, c := range form.Classifications {
		w.row(c.Account, c.CostCenter, c.OperationalClass, money.Display(c.Amount.Decimal))
		total = total.Add(c.Amount.Decimal)
	}
	w.row("", "", "Total", money.Display(total))

	if err := f.SetColWidth(SheetName, "A", "A", 40); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetColWidth(SheetName, "B", "E", 18); err != nil {
		return nil, fmt.Errorf("failed to size columns: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetWriter appends rows top to bottom
type sheetWriter struct {
	f      *excelize.File
	logger *zap.Logger
	bold   int
	line   int
}

func (w *sheetWriter) cell(col int) string {
	name, _ := excelize.CoordinatesToCellName(col, w.line)
	return name
}

func (w *sheetWriter) set(col int, value interface{}) {
	cell := w.cell(col)
	if text, ok := value.(string); ok {
		value = utils.SanitizeString(text)
	}
	if err := w.f.SetCellValue(SheetName, cell, value); err != nil {
		w.logger.Warn("Failed to set cell value",
			zap.String("cell", cell),
			zap.Error(err))
	}
}

func (w *sheetWriter) row(values ...interface{}) {
	w.line++
	for i, v := range values {
		w.set(i+1, v)
	}
}

func (w *sheetWriter) header(values ...interface{}) {
	w.row(values...)
	first := w.cell(1)
	last := w.cell(len(values))
	_ = w.f.SetCellStyle(SheetName, first, last, w.bold)
}

func (w *sheetWriter) title(text string) {
	w.header(text)
}

func (w *sheetWriter) field(label, value string) {
	w.row(label, value)
	cell := w.cell(1)
	_ = w.f.SetCellStyle(SheetName, cell, cell, w.bold)
}

func (w *sheetWriter) skip() {
	w.line++
}
