package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lucasaguiar-la/cotacao-geral/internal/allocation"
	"github.com/lucasaguiar-la/cotacao-geral/internal/application/port"
	"github.com/lucasaguiar-la/cotacao-geral/internal/application/service"
	"github.com/lucasaguiar-la/cotacao-geral/internal/application/workflow"
	"github.com/lucasaguiar-la/cotacao-geral/internal/domain/entity"
	domainwf "github.com/lucasaguiar-la/cotacao-geral/internal/domain/workflow"
	"github.com/lucasaguiar-la/cotacao-geral/internal/splitter"
	"github.com/lucasaguiar-la/cotacao-geral/pkg/money"
)

// HealthFunc reports whether the backing components are usable
type HealthFunc func(ctx context.Context) (healthy bool, details interface{})

// Deps are the application services the handlers call
type Deps struct {
	Engine   workflow.ActionEngine
	Loader   service.LoaderService
	Lookups  service.LookupService
	Splitter *splitter.Splitter
	Health   HealthFunc
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	deps   Deps
	logger Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(deps Deps, logger Logger) *Handlers {
	if deps.Splitter == nil {
		deps.Splitter = splitter.New(nil)
	}
	return &Handlers{deps: deps, logger: logger}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Fields  []string    `json:"fields,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string      `json:"status"`
	Timestamp  string      `json:"timestamp"`
	Components interface{} `json:"components,omitempty"`
}

// DecimalRequest carries numeric text typed in a money field
type DecimalRequest struct {
	Value  string `json:"value"`
	Digits *int   `json:"digits" binding:"omitempty,min=0,max=8"`
}

func (r DecimalRequest) digits() int {
	if r.Digits == nil {
		return money.DefaultDigits
	}
	return *r.Digits
}

// DecimalResponse is the parsed value and its field rendering
type DecimalResponse struct {
	Value     string `json:"value"`
	Formatted string `json:"formatted"`
	Display   string `json:"display,omitempty"`
}

// PageResponse lists what a page offers
type PageResponse struct {
	Page     domainwf.Page     `json:"page"`
	Actions  []domainwf.Action `json:"actions"`
	Editable map[string]bool   `json:"editable,omitempty"`
}

// ActionRequest is a confirmed action with the form it runs on
type ActionRequest struct {
	Session *entity.SessionContext `json:"session" binding:"required"`
	Form    *entity.FormSnapshot   `json:"form" binding:"required"`
	Action  string                 `json:"action" binding:"required"`
	Note    string                 `json:"note"`
}

// ExecuteResponse returns the outcome with the updated session and form
type ExecuteResponse struct {
	Result  *workflow.ExecuteResult `json:"result"`
	Session *entity.SessionContext  `json:"session"`
	Form    *entity.FormSnapshot    `json:"form"`
}

// PayloadRequest previews the sub-records a save would write
type PayloadRequest struct {
	Session *entity.SessionContext `json:"session" binding:"required"`
	Form    *entity.FormSnapshot   `json:"form" binding:"required"`
	Split   bool                   `json:"split"`
	Status  string                 `json:"status"`
}

// IndicatorsRequest carries the form whose remainders are computed
type IndicatorsRequest struct {
	Form *entity.FormSnapshot `json:"form" binding:"required"`
}

// IndicatorsResponse adds the rendered figures to the indicators
type IndicatorsResponse struct {
	allocation.Indicators
	InstallmentsDisplay    string `json:"installments_display"`
	ClassificationsDisplay string `json:"classifications_display"`
	TotalToPay             string `json:"total_to_pay"`
}

// LoadRequest selects a saved record
type LoadRequest struct {
	TempID string `json:"temp_id" binding:"required"`
	Page   string `json:"page" binding:"required"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK

	if h.deps.Health != nil {
		healthy, details := h.deps.Health(c.Request.Context())
		resp.Components = details
		if !healthy {
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, Response{Success: status == http.StatusOK, Data: resp})
}

// ParseDecimal handles POST /api/decimal/parse
func (h *Handlers) ParseDecimal(c *gin.Context) {
	var req DecimalRequest
	if !h.bind(c, &req) {
		return
	}

	nd := req.digits()
	d := money.ParseDigits(req.Value, nd)
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: DecimalResponse{
			Value:     d.String(),
			Formatted: money.Format(d, nd),
		},
	})
}

// FormatDecimal handles POST /api/decimal/format
func (h *Handlers) FormatDecimal(c *gin.Context) {
	var req DecimalRequest
	if !h.bind(c, &req) {
		return
	}

	d := money.Parse(req.Value)
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: DecimalResponse{
			Value:     money.Truncate(d, req.digits()).String(),
			Formatted: money.Format(d, req.digits()),
			Display:   money.Display(d),
		},
	})
}

// GetPage handles GET /api/pages/:page. Repeated field query parameters
// ask whether those fields stay editable.
func (h *Handlers) GetPage(c *gin.Context) {
	page := domainwf.Page(c.Param("page"))
	table := h.deps.Engine.Table()

	known := false
	for _, p := range table.Pages() {
		if p == page {
			known = true
			break
		}
	}
	if !known {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "unknown page " + string(page)})
		return
	}

	resp := PageResponse{Page: page, Actions: table.ActionsFor(page)}
	if fields := c.QueryArray("field"); len(fields) > 0 {
		resp.Editable = make(map[string]bool, len(fields))
		for _, f := range fields {
			resp.Editable[f] = table.Editable(page, f)
		}
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: resp})
}

// ResolveAction handles POST /api/actions/resolve
func (h *Handlers) ResolveAction(c *gin.Context) {
	var req ActionRequest
	if !h.bind(c, &req) {
		return
	}

	res := h.deps.Engine.Resolve(req.Session, req.Form, domainwf.Action(req.Action), req.Note)
	c.JSON(http.StatusOK, Response{Success: true, Data: res})
}

// ExecuteAction handles POST /api/actions/execute
func (h *Handlers) ExecuteAction(c *gin.Context) {
	var req ActionRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.deps.Engine.Execute(c.Request.Context(), workflow.ExecuteRequest{
		Session: req.Session,
		Form:    req.Form,
		Action:  domainwf.Action(req.Action),
		Note:    req.Note,
	})
	data := ExecuteResponse{Result: result, Session: req.Session, Form: req.Form}
	if err != nil {
		h.logger.Error("Action failed", "action", req.Action, "temp_id", req.Session.TempID, "error", err)
		h.fail(c, err, data)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// BuildPayloads handles POST /api/payloads
func (h *Handlers) BuildPayloads(c *gin.Context) {
	var req PayloadRequest
	if !h.bind(c, &req) {
		return
	}

	payloads := h.deps.Splitter.Compute(req.Session, req.Form, splitter.Options{
		Split:  req.Split,
		Status: req.Status,
	})
	c.JSON(http.StatusOK, Response{Success: true, Data: payloads})
}

// ComputeIndicators handles POST /api/indicators
func (h *Handlers) ComputeIndicators(c *gin.Context) {
	var req IndicatorsRequest
	if !h.bind(c, &req) {
		return
	}

	ind := allocation.ComputeIndicators(req.Form)
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: IndicatorsResponse{
			Indicators:             ind,
			InstallmentsDisplay:    ind.Installments.Display(),
			ClassificationsDisplay: ind.Classifications.Display(),
			TotalToPay:             money.Format(allocation.TotalToPay(req.Form.InvoiceTotals), money.DefaultDigits),
		},
	})
}

// GetLookups handles GET /api/lookups. refresh=true reloads the lists.
func (h *Handlers) GetLookups(c *gin.Context) {
	var (
		lookups *entity.Lookups
		err     error
	)
	if c.Query("refresh") == "true" {
		lookups, err = h.deps.Lookups.Refresh(c.Request.Context())
	} else {
		lookups, err = h.deps.Lookups.Current(c.Request.Context())
	}
	if err != nil {
		h.logger.Error("Failed to load lookups", "error", err)
		h.fail(c, err, lookups)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: lookups})
}

// LoadRecord handles POST /api/records/load
func (h *Handlers) LoadRecord(c *gin.Context) {
	var req LoadRequest
	if !h.bind(c, &req) {
		return
	}

	loaded, err := h.deps.Loader.Load(c.Request.Context(), req.TempID, req.Page)
	if err != nil {
		h.logger.Error("Failed to load record", "temp_id", req.TempID, "error", err)
		h.fail(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: loaded})
}

func (h *Handlers) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request: " + err.Error()})
		return false
	}
	return true
}

// fail maps application errors to status codes
func (h *Handlers) fail(c *gin.Context, err error, data interface{}) {
	resp := Response{Success: false, Data: data, Error: err.Error()}
	status := http.StatusInternalServerError

	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusUnprocessableEntity
		resp.Fields = verr.Fields
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domainwf.ErrUnknownPage), errors.Is(err, domainwf.ErrUnknownAction):
		status = http.StatusBadRequest
	case errors.Is(err, domainwf.ErrActionNotOffered):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrSaveInProgress):
		status = http.StatusConflict
	case errors.Is(err, port.ErrRemoteCall):
		status = http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	c.JSON(status, resp)
}
