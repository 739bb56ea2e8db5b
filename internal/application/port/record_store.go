package port

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Record store response codes
const (
	CodeSuccess   = 3000
	CodeNoRecords = 3100
)

// PageSize is the number of rows a search page returns
const PageSize = 200

var (
	// ErrRemoteCall is wrapped by every non-success record store response
	ErrRemoteCall = errors.New("record store call failed")

	// ErrNoRecords is returned when a lookup finds nothing
	ErrNoRecords = errors.New("no records found")
)

// Row is one record returned by a search
type Row map[string]interface{}

// ID returns the record identifier as text
func (r Row) ID() string {
	return Text(r["ID"])
}

// Text renders a scalar field value as text
func Text(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return fmt.Sprintf("%.0f", t)
	default:
		return fmt.Sprint(t)
	}
}

// Result is the outcome of a single write
type Result struct {
	Code    int    `json:"code"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK reports whether the write succeeded
func (r Result) OK() bool {
	return r.Code == CodeSuccess
}

// SearchResult is one page of a report search
type SearchResult struct {
	Code int   `json:"code"`
	Rows []Row `json:"data"`
}

// CreateResult is the outcome of a create call. A create with a list of
// records reports one result per record in Results.
type CreateResult struct {
	Result
	Results []Result `json:"results,omitempty"`
}

// IDs returns the identifiers of every successfully created record
func (r *CreateResult) IDs() []string {
	if len(r.Results) == 0 {
		if r.OK() && r.ID != "" {
			return []string{r.ID}
		}
		return nil
	}

	ids := make([]string, 0, len(r.Results))
	for _, res := range r.Results {
		if res.OK() && res.ID != "" {
			ids = append(ids, res.ID)
		}
	}
	return ids
}

// File is an attachment body sent to UploadFile
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// RecordStore is the remote record store the engine persists to
type RecordStore interface {
	Search(ctx context.Context, report, criteria string, page int) (*SearchResult, error)
	Create(ctx context.Context, form string, data interface{}) (*CreateResult, error)
	Update(ctx context.Context, report, id string, data interface{}) (*Result, error)
	UploadFile(ctx context.Context, report, id, field string, file File) (*Result, error)
}

// StoreError is a non-success response of the record store
type StoreError struct {
	Op      string
	Target  string
	Code    int
	Message string
}

func (e *StoreError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: code %d: %s", e.Op, e.Target, e.Code, e.Message)
	}
	return fmt.Sprintf("%s %s: code %d", e.Op, e.Target, e.Code)
}

// Unwrap lets errors.Is match ErrRemoteCall
func (e *StoreError) Unwrap() error {
	return ErrRemoteCall
}

// CheckResult turns a non-success result into a StoreError
func CheckResult(op, target string, r *Result) error {
	if r == nil {
		return &StoreError{Op: op, Target: target, Message: "empty response"}
	}
	if !r.OK() {
		return &StoreError{Op: op, Target: target, Code: r.Code, Message: r.Message}
	}
	return nil
}
