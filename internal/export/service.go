package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hirestack/resume-intake/constants"
	"github.com/hirestack/resume-intake/internal/repository"
)

// Service is a tiny façade over the candidate store that produces XLSX
// bytes for exports.
type Service struct {
	store  repository.CandidateStore
	logger *slog.Logger
}

func NewService(store repository.CandidateStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ExportCandidatesXLSX returns an XLSX workbook (as bytes) holding every
// candidate row. Columns follow the canonical schema order, restricted to
// what the destination table actually has.
func (s *Service) ExportCandidatesXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	live, err := s.store.Columns(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve columns: %w", err)
	}
	var columns []string
	for _, c := range constants.CandidateColumns {
		if _, ok := live[c]; ok {
			columns = append(columns, c)
		}
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("no exportable columns in destination table")
	}

	rows, err := s.store.List(ctx, columns)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Candidates"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for r, rec := range rows {
		for c, col := range columns {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, rec[col])
		}
	}

	last, _ := excelize.ColumnNumberToName(len(columns))
	_ = f.SetColWidth(sheet, "A", last, 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"columns", len(columns),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
