package repo

import (
	"RegistrationBot/model"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/xuri/excelize/v2"
)

const (
	RegistrationsSheet = "Registrations"
	defaultSheet       = "Sheet1"
)

// Column headers, in the order they are written.
var registrationHeader = []string{"Name", "Email", "Number", "CNIC", "Gender", "Course", "Date"}

// XLSXStore keeps registrations in a single-sheet spreadsheet. Every append
// reads the whole file, adds one row and rewrites it. An in-process mutex and
// an advisory lock file serialise the cycle so concurrent writers on one host
// do not drop rows.
type XLSXStore struct {
	path      string
	mu        sync.Mutex
	lock      *flock.Flock
	lockRetry time.Duration
}

func NewXLSXStore(path string) *XLSXStore {
	return &XLSXStore{
		path:      path,
		lock:      flock.New(path + ".lock"),
		lockRetry: 50 * time.Millisecond,
	}
}

func (s *XLSXStore) Path() string {
	return s.path
}

// Append adds record after all existing rows, creating the file if needed.
func (s *XLSXStore) Append(ctx context.Context, record model.RegistrationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := lockWith(ctx, s.lock.TryLockContext, s.lockRetry); err != nil {
		return fmt.Errorf("%w: locking %s: %v", model.ErrPersistence, s.path, err)
	}
	defer s.lock.Unlock()

	f, sheet, rows, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	records := append(decodeRows(rows), record)
	if err := writeRecords(f, sheet, len(rows), records); err != nil {
		return fmt.Errorf("%w: encoding %s: %v", model.ErrPersistence, s.path, err)
	}
	if err := s.save(f); err != nil {
		return fmt.Errorf("%w: writing %s: %v", model.ErrPersistence, s.path, err)
	}
	return nil
}

// ListAll returns every stored record. A missing file is an empty store.
func (s *XLSXStore) ListAll(ctx context.Context) ([]model.RegistrationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := lockWith(ctx, s.lock.TryRLockContext, s.lockRetry); err != nil {
		return nil, fmt.Errorf("%w: locking %s: %v", model.ErrPersistence, s.path, err)
	}
	defer s.lock.Unlock()

	f, _, rows, err := s.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decodeRows(rows), nil
}

func lockWith(ctx context.Context, try func(context.Context, time.Duration) (bool, error), retry time.Duration) error {
	locked, err := try(ctx, retry)
	if err != nil {
		return err
	}
	if !locked {
		return errors.New("lock not acquired")
	}
	return nil
}

// open loads the workbook and the raw rows of its first sheet, or returns a
// fresh workbook with an empty registrations sheet when the file does not exist.
func (s *XLSXStore) open() (*excelize.File, string, [][]string, error) {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		f := excelize.NewFile()
		if err := f.SetSheetName(defaultSheet, RegistrationsSheet); err != nil {
			f.Close()
			return nil, "", nil, fmt.Errorf("%w: creating sheet: %v", model.ErrPersistence, err)
		}
		return f, RegistrationsSheet, nil, nil
	} else if err != nil {
		return nil, "", nil, fmt.Errorf("%w: stat %s: %v", model.ErrPersistence, s.path, err)
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, "", nil, fmt.Errorf("%w: opening %s: %v", model.ErrPersistence, s.path, err)
	}
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		f.Close()
		return nil, "", nil, fmt.Errorf("%w: reading %s: %v", model.ErrPersistence, s.path, err)
	}
	return f, sheet, rows, nil
}

// save writes to a temp file next to the target and renames it into place.
func (s *XLSXStore) save(f *excelize.File) error {
	dir, base := filepath.Split(s.path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+strings.TrimSuffix(base, filepath.Ext(base))+"-*.xlsx")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	// CreateTemp opens with 0600; keep the mode of the file being replaced.
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(s.path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}

// decodeRows maps cells by header name so reordered columns still decode.
func decodeRows(rows [][]string) []model.RegistrationRecord {
	if len(rows) == 0 {
		return nil
	}
	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.TrimSpace(name)] = i
	}
	cell := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var records []model.RegistrationRecord
	for _, row := range rows[1:] {
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		records = append(records, model.RegistrationRecord{
			Name:        cell(row, "Name"),
			Email:       cell(row, "Email"),
			PhoneNumber: cell(row, "Number"),
			NationalID:  cell(row, "CNIC"),
			Gender:      cell(row, "Gender"),
			Course:      cell(row, "Course"),
			Timestamp:   cell(row, "Date"),
		})
	}
	return records
}

// writeRecords removes the stale rows read from sheet, then writes the header
// and records from A1. Blank rows and cells past the last column do not
// survive the rewrite.
func writeRecords(f *excelize.File, sheet string, stale int, records []model.RegistrationRecord) error {
	for r := stale; r > 0; r-- {
		if err := f.RemoveRow(sheet, r); err != nil {
			return err
		}
	}
	header := registrationHeader
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []string{r.Name, r.Email, r.PhoneNumber, r.NationalID, r.Gender, r.Course, r.Timestamp}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
