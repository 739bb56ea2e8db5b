package service

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/lucasaguiar-la/cotacao-geral/internal/application/port"
	"github.com/lucasaguiar-la/cotacao-geral/internal/domain/entity"
	"github.com/lucasaguiar-la/cotacao-geral/internal/splitter"
)

// ErrSaveInProgress is returned when another save of the same record holds the lock
var ErrSaveInProgress = errors.New("a save of this record is already running")

// SaveOptions select the status written and whether the record is split by
// installment
type SaveOptions struct {
	Status             string
	SplitByInstallment bool
	ExtraFields        map[string]interface{}
}

// SaveService persists a procurement form to the record store
type SaveService interface {
	Save(ctx context.Context, session *entity.SessionContext, form *entity.FormSnapshot, opts SaveOptions) error
}

type saveServiceImpl struct {
	store    port.RecordStore
	blobs    port.BlobStore
	lock     port.SaveLock
	splitter *splitter.Splitter
	names    StoreNames
	logger   Logger
}

// NewSaveService creates a new SaveService. blobs may be nil when every
// attachment is held in memory.
func NewSaveService(
	store port.RecordStore,
	blobs port.BlobStore,
	lock port.SaveLock,
	split *splitter.Splitter,
	names StoreNames,
	logger Logger,
) SaveService {
	if split == nil {
		split = splitter.New(nil)
	}
	return &saveServiceImpl{
		store:    store,
		blobs:    blobs,
		lock:     lock,
		splitter: split,
		names:    names.withDefaults(),
		logger:   logger,
	}
}

// Save runs the whole persistence sequence while holding the record lock.
// When ctx comes from AcquireSaveLock the caller's lock is reused.
// Steps already committed are never rolled back; a failing step only aborts
// the rest of its own sub-record.
func (s *saveServiceImpl) Save(ctx context.Context, session *entity.SessionContext, form *entity.FormSnapshot, opts SaveOptions) error {
	ctx, unlock, err := AcquireSaveLock(ctx, s.lock, session.LockKey())
	if err != nil {
		return err
	}
	defer unlock()

	return s.save(ctx, session, form, opts)
}

func (s *saveServiceImpl) save(ctx context.Context, session *entity.SessionContext, form *entity.FormSnapshot, opts SaveOptions) error {
	if session.QuotationExists {
		if !opts.SplitByInstallment {
			if err := s.deactivateQuotation(ctx, session); err != nil {
				return err
			}
		}
		session.QuotationExists = false
		return s.save(ctx, session, form, opts)
	}

	payloads := s.splitter.Compute(session, form, splitter.Options{
		Split:  opts.SplitByInstallment,
		Status: opts.Status,
		Extra:  opts.ExtraFields,
	})

	var errs []error
	for _, p := range payloads {
		if err := s.persist(ctx, session, form, p, opts.SplitByInstallment); err != nil {
			s.logger.Error("Sub-record save failed", "temp_id", session.TempID, "ordinal", p.Ordinal, "error", err)
			errs = append(errs, fmt.Errorf("sub-record %d: %w", p.Ordinal, err))
		}
	}

	if opts.SplitByInstallment {
		// The session keeps describing the parent record and its rows.
		session.QuotationExists = len(session.QuotationIDs) > 0
	}

	s.logger.Info("Save finished", "temp_id", session.TempID, "record_id", session.RecordID,
		"sub_records", len(payloads), "failed", len(errs))
	return errors.Join(errs...)
}

// deactivateQuotation marks every live quotation row inactive, one update per
// distinct id. Ids already handled are dropped from the session so a retry
// does not repeat them.
func (s *saveServiceImpl) deactivateQuotation(ctx context.Context, session *entity.SessionContext) error {
	ids := entity.DistinctIDs(session.QuotationIDs)
	for i, id := range ids {
		r, err := s.store.Update(ctx, s.names.QuotationReport, id, map[string]interface{}{"Ativo": false})
		if err == nil {
			err = port.CheckResult("deactivate quotation", id, r)
		}
		if err != nil {
			session.QuotationIDs = ids[i:]
			return fmt.Errorf("failed to deactivate quotation rows: %w", err)
		}
	}
	session.QuotationIDs = nil
	return nil
}

func (s *saveServiceImpl) persist(ctx context.Context, session *entity.SessionContext, form *entity.FormSnapshot, p entity.SubRecord, split bool) error {
	recordID, err := s.persistHeader(ctx, session, p, split)
	if err != nil {
		if split {
			splitter.Unmaterialize(form, p.Ordinal)
		}
		return err
	}

	if err := s.persistAttachments(ctx, recordID, p.Attachments); err != nil {
		return err
	}
	if !split {
		s.archiveAttachments(ctx, session, form)
	}

	ids, err := s.persistQuotation(ctx, p.Quotation)
	if err != nil {
		return err
	}
	if !split {
		session.SetQuotationIDs(ids)
	}

	s.logger.Info("Sub-record saved", "temp_id", p.Record.TempID, "record_id", recordID, "quotation_rows", len(ids))
	return nil
}

// persistHeader updates the session record in edit mode and creates a new
// record otherwise. Split sub-records are always created.
func (s *saveServiceImpl) persistHeader(ctx context.Context, session *entity.SessionContext, p entity.SubRecord, split bool) (string, error) {
	if !split && session.IsEditing() {
		r, err := s.store.Update(ctx, s.names.RecordReport, session.RecordID, p.Record)
		if err == nil {
			err = port.CheckResult("update record", session.RecordID, r)
		}
		if err != nil {
			return "", fmt.Errorf("failed to update record: %w", err)
		}
		return session.RecordID, nil
	}

	r, err := s.store.Create(ctx, s.names.RecordForm, p.Record)
	if err == nil {
		_, err = createdIDs("create record", s.names.RecordForm, r, 1)
	}
	if err != nil {
		return "", fmt.Errorf("failed to create record: %w", err)
	}

	if session.RecordID == "" {
		session.RecordID = r.ID
	}
	if !split {
		session.Mode = entity.SaveModeEdit
	}
	return r.ID, nil
}

// persistAttachments creates one file record per attachment in a single call
// and uploads the contents one by one, stopping at the first failure.
func (s *saveServiceImpl) persistAttachments(ctx context.Context, recordID string, atts []entity.Attachment) error {
	if len(atts) == 0 {
		return nil
	}

	stubs := make([]entity.FileStub, len(atts))
	for i := range stubs {
		stubs[i] = entity.FileStub{RecordID: recordID}
	}

	r, err := s.store.Create(ctx, s.names.FileForm, stubs)
	if err != nil {
		return fmt.Errorf("failed to create file records: %w", err)
	}
	ids, err := createdIDs("create file records", s.names.FileForm, r, len(atts))
	if err != nil {
		return err
	}

	for i, id := range ids {
		file, err := s.fileFor(ctx, atts[i])
		if err != nil {
			return err
		}
		res, err := s.store.UploadFile(ctx, s.names.FileReport, id, s.names.FileField, file)
		if err == nil {
			err = port.CheckResult("upload file", atts[i].Name, res)
		}
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", atts[i].Name, err)
		}
	}
	return nil
}

func (s *saveServiceImpl) fileFor(ctx context.Context, att entity.Attachment) (port.File, error) {
	file := port.File{Name: att.Name, ContentType: att.ContentType, Data: att.Data}
	if len(file.Data) > 0 {
		return file, nil
	}
	if att.Path == "" || s.blobs == nil {
		return file, fmt.Errorf("attachment %s has no content", att.Name)
	}

	data, err := s.blobs.Get(ctx, att.Path)
	if err != nil {
		return file, fmt.Errorf("failed to read attachment %s: %w", att.Name, err)
	}
	file.Data = data
	return file, nil
}

// archiveAttachments moves uploaded in-memory attachments to the blob store
// so later splits can copy them without re-uploading the originals.
func (s *saveServiceImpl) archiveAttachments(ctx context.Context, session *entity.SessionContext, form *entity.FormSnapshot) {
	if s.blobs == nil {
		return
	}
	for i, att := range form.Attachments {
		if !att.Pending() {
			continue
		}
		key := path.Join("pdc", session.TempID, att.Name)
		if err := s.blobs.Put(ctx, key, att.Data, att.ContentType); err != nil {
			s.logger.Error("Failed to archive attachment", "key", key, "error", err)
			continue
		}
		form.Attachments[i].Path = key
		form.Attachments[i].Data = nil
	}
}

func (s *saveServiceImpl) persistQuotation(ctx context.Context, rows []entity.QuotationRow) ([]string, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	r, err := s.store.Create(ctx, s.names.QuotationForm, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to create quotation rows: %w", err)
	}
	return createdIDs("create quotation rows", s.names.QuotationForm, r, len(rows))
}

// createdIDs checks that every record of a list create succeeded
func createdIDs(op, target string, r *port.CreateResult, want int) ([]string, error) {
	if r == nil {
		return nil, port.CheckResult(op, target, nil)
	}
	if len(r.Results) == 0 {
		if err := port.CheckResult(op, target, &r.Result); err != nil {
			return nil, err
		}
	}
	for _, res := range r.Results {
		if err := port.CheckResult(op, target, &res); err != nil {
			return nil, err
		}
	}

	ids := r.IDs()
	if len(ids) != want {
		return nil, &port.StoreError{Op: op, Target: target, Code: r.Code,
			Message: fmt.Sprintf("expected %d ids, got %d", want, len(ids))}
	}
	return ids, nil
}
