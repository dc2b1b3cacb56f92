package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"bankinfer/adapters/datareadiness/coercer"
	"bankinfer/domain/dataset"
	"bankinfer/internal"
)

// DataReader loads a local CSV or XLSX file
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	config   ReaderConfig
	coercer  *coercer.TypeCoercer
	logger   *internal.Logger
}

// NewDataReader creates a reader that handles both Excel and CSV files,
// choosing by extension
func NewDataReader(filePath string, config ReaderConfig, logger *internal.Logger) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" || ext == ".txt" {
		fileType = "csv"
	}
	if config.Delimiter == 0 {
		config.Delimiter = ','
	}
	return &DataReader{
		filePath: filePath,
		fileType: fileType,
		config:   config,
		coercer:  coercer.NewTypeCoercer(config.CoercionConfig),
		logger:   logger,
	}
}

// Describe names the source
func (r *DataReader) Describe() string {
	return fmt.Sprintf("%s file %s", r.fileType, r.filePath)
}

// Load reads the file and types its columns
func (r *DataReader) Load(ctx context.Context) (*dataset.Dataset, error) {
	table, err := r.ReadData(ctx)
	if err != nil {
		return nil, err
	}
	ds, err := r.coercer.BuildDataset(filepath.Base(r.filePath), table.Headers, table.Rows)
	if err != nil {
		return nil, err
	}
	r.logger.Info("[DataReader] loaded %s (%d columns, %d rows)", r.filePath, len(ds.Names()), ds.Rows())
	return ds, nil
}

// ReadData reads the raw header and rows
func (r *DataReader) ReadData(ctx context.Context) (*RawTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.logger.Debug("[DataReader] starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

// readExcelData reads the configured sheet, or the first one
func (r *DataReader) readExcelData() (*RawTable, error) {
	start := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("Excel file %s has no sheets", r.filePath)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	r.logger.Debug("[DataReader] sheet %s read in %.2fms (%d rows)", sheet, float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	return processRows(rows)
}

// readCSVData reads CSV data into a raw table
func (r *DataReader) readCSVData() (*RawTable, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	start := time.Now()
	table, err := parseCSV(file, r.config.Delimiter)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(start).Nanoseconds())/1e6, len(table.Rows))
	return table, nil
}

func parseCSV(src io.Reader, delimiter rune) (*RawTable, error) {
	reader := csv.NewReader(src)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}
	return processRows(rows)
}

// processRows splits the header row from the data rows. Blank lines are
// skipped.
func processRows(rows [][]string) (*RawTable, error) {
	var kept [][]string
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		kept = append(kept, row)
	}
	if len(kept) < 2 {
		return nil, fmt.Errorf("data must have at least a header row and one data row")
	}

	headers := make([]string, len(kept[0]))
	for i, header := range kept[0] {
		headers[i] = strings.TrimSpace(header)
	}
	return &RawTable{Headers: headers, Rows: kept[1:]}, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
