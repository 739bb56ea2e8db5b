package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/lucasaguiar-la/cotacao-geral/internal/application/port"
)

// Codes the local store answers with besides success and no records
const (
	CodeInvalidData = 3001
	CodeNotFound    = 3002
)

// RecordStore implements port.RecordStore on a local SQLite database. A
// report is a view over one form; reports is the report to form map, and a
// report missing from it reads the form of the same name.
type RecordStore struct {
	db      *DB
	reports map[string]string
	logger  *zap.Logger
}

// NewRecordStore creates a local record store
func NewRecordStore(db *DB, reports map[string]string, logger *zap.Logger) *RecordStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := make(map[string]string, len(reports))
	for k, v := range reports {
		r[k] = v
	}
	return &RecordStore{db: db, reports: r, logger: logger}
}

func (s *RecordStore) formOf(report string) string {
	if form, ok := s.reports[report]; ok {
		return form
	}
	return report
}

// Search returns one 200-row page of the records of a report
func (s *RecordStore) Search(ctx context.Context, report, criteria string, page int) (*port.SearchResult, error) {
	if page < 1 {
		page = 1
	}
	where, args, err := whereClause(criteria)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", report, err)
	}

	query := fmt.Sprintf(`SELECT id, document FROM records WHERE form = ? AND %s ORDER BY id LIMIT ? OFFSET ?`, where)
	params := append([]interface{}{s.formOf(report)}, args...)
	params = append(params, port.PageSize, (page-1)*port.PageSize)

	rows, err := s.db.conn(ctx).QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", report, err)
	}
	defer rows.Close()

	out := &port.SearchResult{Code: port.CodeSuccess}
	for rows.Next() {
		var id int64
		var doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("search %s: %w", report, err)
		}
		row, err := decodeRow(doc)
		if err != nil {
			return nil, fmt.Errorf("search %s: record %d: %w", report, id, err)
		}
		row["ID"] = strconv.FormatInt(id, 10)
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search %s: %w", report, err)
	}

	if len(out.Rows) == 0 {
		out.Code = port.CodeNoRecords
	}
	return out, nil
}

// Create inserts one record, or one per element when data is a list. A list
// is inserted in one transaction.
func (s *RecordStore) Create(ctx context.Context, form string, data interface{}) (*port.CreateResult, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("create %s: encode: %w", form, err)
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		res, err := s.insert(ctx, form, raw)
		if err != nil {
			return nil, err
		}
		return &port.CreateResult{Result: res}, nil
	}

	out := &port.CreateResult{Result: port.Result{Code: port.CodeSuccess}}
	err = s.db.InTx(ctx, "create "+form, func(ctx context.Context) error {
		for _, item := range list {
			res, err := s.insert(ctx, form, item)
			if err != nil {
				return err
			}
			out.Results = append(out.Results, res)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *RecordStore) insert(ctx context.Context, form string, doc []byte) (port.Result, error) {
	if _, err := decodeRow(string(doc)); err != nil {
		return port.Result{Code: CodeInvalidData, Message: "record must be an object"}, nil
	}

	res, err := s.db.conn(ctx).ExecContext(ctx,
		`INSERT INTO records (form, document) VALUES (?, ?)`, form, string(doc))
	if err != nil {
		return port.Result{}, fmt.Errorf("create %s: %w", form, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return port.Result{}, fmt.Errorf("create %s: %w", form, err)
	}

	s.logger.Debug("Record created", zap.String("form", form), zap.Int64("id", id))
	return port.Result{Code: port.CodeSuccess, ID: strconv.FormatInt(id, 10)}, nil
}

// Update merges data into the stored document
func (s *RecordStore) Update(ctx context.Context, report, id string, data interface{}) (*port.Result, error) {
	patchRaw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("update %s/%s: encode: %w", report, id, err)
	}
	patch, err := decodeRow(string(patchRaw))
	if err != nil {
		return &port.Result{Code: CodeInvalidData, ID: id, Message: "update must be an object"}, nil
	}

	result := &port.Result{Code: port.CodeSuccess, ID: id}
	err = s.db.InTx(ctx, "update "+report+"/"+id, func(ctx context.Context) error {
		exec := s.db.conn(ctx)

		var doc string
		err := exec.QueryRowContext(ctx,
			`SELECT document FROM records WHERE id = ? AND form = ?`, id, s.formOf(report)).Scan(&doc)
		if errors.Is(err, sql.ErrNoRows) {
			result.Code = CodeNotFound
			result.Message = "record not found"
			return nil
		}
		if err != nil {
			return err
		}

		current, err := decodeRow(doc)
		if err != nil {
			return err
		}
		for k, v := range patch {
			current[k] = v
		}
		merged, err := json.Marshal(current)
		if err != nil {
			return err
		}

		_, err = exec.ExecContext(ctx,
			`UPDATE records SET document = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, string(merged), id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update %s/%s: %w", report, id, err)
	}
	return result, nil
}

// UploadFile stores an attachment under a file field of a record
func (s *RecordStore) UploadFile(ctx context.Context, report, id, field string, file port.File) (*port.Result, error) {
	exec := s.db.conn(ctx)

	var exists int
	err := exec.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE id = ? AND form = ?`, id, s.formOf(report)).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", file.Name, err)
	}
	if exists == 0 {
		return &port.Result{Code: CodeNotFound, ID: id, Message: "record not found"}, nil
	}

	data := file.Data
	if data == nil {
		data = []byte{}
	}
	if _, err := exec.ExecContext(ctx,
		`INSERT INTO record_files (record_id, field, name, content_type, data) VALUES (?, ?, ?, ?, ?)`,
		id, field, file.Name, file.ContentType, data); err != nil {
		return nil, fmt.Errorf("upload %s: %w", file.Name, err)
	}
	return &port.Result{Code: port.CodeSuccess, ID: id}, nil
}

// Files returns the attachments uploaded to a field of a record
func (s *RecordStore) Files(ctx context.Context, id, field string) ([]port.File, error) {
	rows, err := s.db.conn(ctx).QueryContext(ctx,
		`SELECT name, content_type, data FROM record_files WHERE record_id = ? AND field = ? ORDER BY id`, id, field)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []port.File
	for rows.Next() {
		var f port.File
		if err := rows.Scan(&f.Name, &f.ContentType, &f.Data); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func decodeRow(doc string) (port.Row, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(doc)))
	dec.UseNumber()
	var row port.Row
	if err := dec.Decode(&row); err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errors.New("document is not an object")
	}
	return row, nil
}

var _ port.RecordStore = (*RecordStore)(nil)
