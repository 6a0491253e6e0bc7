package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/pkg/apperror"
)

// FileSource serves sales from an exported JSON file, in any of the shapes
// the sales endpoints return. It cannot close a daily box.
type FileSource struct {
	records []entity.RawSaleRecord
}

// DecodeSaleRecords reads a sales response body. Numbers are kept as json.Number.
func DecodeSaleRecords(r io.Reader) ([]entity.RawSaleRecord, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var body any
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("client: decode sales: %w", err)
	}
	return records(body), nil
}

// NewFileSource loads path. "-" is not special; callers pass stdin through
// NewReaderSource.
func NewFileSource(path string) (*FileSource, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("client: read %s: %w", path, err)
	}
	return NewReaderSource(bytes.NewReader(b))
}

// NewReaderSource loads sales from r.
func NewReaderSource(r io.Reader) (*FileSource, error) {
	recs, err := DecodeSaleRecords(r)
	if err != nil {
		return nil, err
	}
	return &FileSource{records: recs}, nil
}

func (s *FileSource) OwnSales(context.Context) ([]entity.RawSaleRecord, error) {
	return s.records, nil
}

// AdminHistory returns every record; the cashout filters locally.
func (s *FileSource) AdminHistory(context.Context, entity.HistoryQuery) ([]entity.RawSaleRecord, error) {
	return s.records, nil
}

func (s *FileSource) CloseDailyBox(context.Context, entity.ReconciliationResult) error {
	return apperror.NewBadRequestError("A cashout built from a file cannot be saved")
}
