package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"bms-select/internal/dto"
	"bms-select/internal/entities"
	"bms-select/internal/repositories"
	apperrors "bms-select/pkg/errors"
	"bms-select/pkg/filestorage"
)

// errDryRunRollback forces the transaction manager to roll a dry run back;
// it never leaves ImportFromUpload.
var errDryRunRollback = errors.New("parts import: dry run rollback")

// partImportColumns are the recognized header names; the first two are
// required, the rest optional.
var partImportColumns = []string{
	"part_number", "description", "category", "cost", "country_of_origin", "cable_recommendation",
}

type PartImportServiceInterface interface {
	ImportFromUpload(ctx context.Context, upload io.Reader, originalName string, dryRun bool) (*dto.PartImportReportDTO, error)
}

type PartImportService struct {
	partRepo    repositories.PartRepositoryInterface
	fileStorage filestorage.FileStorageInterface
	txManager   repositories.TxManagerInterface
	logger      *zap.Logger
}

func NewPartImportService(
	partRepo repositories.PartRepositoryInterface,
	fileStorage filestorage.FileStorageInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) PartImportServiceInterface {
	return &PartImportService{
		partRepo:    partRepo,
		fileStorage: fileStorage,
		txManager:   txManager,
		logger:      logger,
	}
}

// ImportFromUpload stores the uploaded workbook, then walks its rows inside
// one transaction. Existing part numbers are skipped, an unparseable cost is
// stored as empty, and dry runs roll the transaction back after counting.
func (s *PartImportService) ImportFromUpload(ctx context.Context, upload io.Reader, originalName string, dryRun bool) (*dto.PartImportReportDTO, error) {
	var buf bytes.Buffer
	storedPath, err := s.fileStorage.Save(io.TeeReader(upload, &buf), originalName, "parts")
	if err != nil {
		return nil, apperrors.NewHttpError(http.StatusInternalServerError, "failed to store uploaded file", err, nil)
	}
	s.logger.Info("parts workbook uploaded", zap.String("path", storedPath), zap.Bool("dryRun", dryRun))

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, "uploaded file is not a readable XLSX workbook", err, nil)
	}
	defer f.Close()

	rows, headerRow, columns, err := findPartImportHeader(f)
	if err != nil {
		return nil, err
	}

	existingNumbers, err := s.partRepo.ListPartNumbers(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(existingNumbers))
	for _, pn := range existingNumbers {
		seen[pn] = struct{}{}
	}

	report := &dto.PartImportReportDTO{DryRun: dryRun, Errors: []string{}}
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		for i := headerRow + 1; i < len(rows); i++ {
			row := rows[i]
			rowNum := i + 1

			partNumber := cellValue(row, columns["part_number"])
			description := cellValue(row, columns["description"])
			if partNumber == "" && description == "" {
				continue
			}
			if partNumber == "" || description == "" {
				report.Errors = append(report.Errors, fmt.Sprintf("Row %d: missing part_number or description. Skipping.", rowNum))
				report.Skipped++
				continue
			}

			if _, exists := seen[partNumber]; exists {
				report.Errors = append(report.Errors, fmt.Sprintf("Row %d: part '%s' exists. Skipping.", rowNum, partNumber))
				report.Skipped++
				continue
			}

			var cost *float64
			if costRaw := cellValue(row, columns["cost"]); costRaw != "" {
				if parsed, parseErr := strconv.ParseFloat(costRaw, 64); parseErr == nil {
					cost = &parsed
				} else {
					report.Errors = append(report.Errors, fmt.Sprintf("Row %d: invalid cost '%s'. Stored as empty.", rowNum, costRaw))
				}
			}

			part := entities.Part{
				PartNumber:          partNumber,
				Description:         description,
				Category:            optionalCell(row, columns["category"]),
				Cost:                cost,
				CountryOfOrigin:     optionalCell(row, columns["country_of_origin"]),
				CableRecommendation: optionalCell(row, columns["cable_recommendation"]),
			}
			if _, err := s.partRepo.Create(ctx, tx, part); err != nil {
				return fmt.Errorf("failed to import part '%s' (row %d): %w", partNumber, rowNum, err)
			}
			seen[partNumber] = struct{}{}
			report.Created++
		}

		if dryRun {
			return errDryRunRollback
		}
		return nil
	})
	if err != nil && !errors.Is(err, errDryRunRollback) {
		return nil, err
	}

	s.logger.Info("parts import finished",
		zap.Int("created", report.Created), zap.Int("skipped", report.Skipped),
		zap.Int("problems", len(report.Errors)), zap.Bool("dryRun", dryRun))
	return report, nil
}

// findPartImportHeader scans every sheet for the row carrying the required
// part_number and description columns and maps the header names it finds to
// their column indexes.
func findPartImportHeader(f *excelize.File) ([][]string, int, map[string]int, error) {
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}

		for rIdx, row := range rows {
			columns := make(map[string]int, len(partImportColumns))
			for _, name := range partImportColumns {
				columns[name] = -1
			}
			for cIdx, colName := range row {
				name := strings.TrimSpace(colName)
				if _, known := columns[name]; known {
					columns[name] = cIdx
				}
			}
			if columns["part_number"] != -1 && columns["description"] != -1 {
				return rows, rIdx, columns, nil
			}
		}
	}
	return nil, 0, nil, apperrors.NewHttpError(
		http.StatusBadRequest,
		"Missing required columns: part_number, description",
		nil,
		nil,
	)
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func optionalCell(row []string, idx int) *string {
	value := cellValue(row, idx)
	if value == "" {
		return nil
	}
	return &value
}
