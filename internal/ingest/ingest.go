package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/stockcast/internal/cache"
	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/drive"
	"github.com/andresuchdata/stockcast/internal/repository"
	"github.com/andresuchdata/stockcast/internal/storage"
)

// LedgerWriter is the slice of the ingest repository this service needs.
type LedgerWriter interface {
	UpsertSupplier(ctx context.Context, supplier *domain.Supplier) (int64, error)
	UpsertProduct(ctx context.Context, product *domain.Product) (int64, error)
	InsertTransaction(ctx context.Context, txn *domain.Transaction) error
}

var _ LedgerWriter = (*repository.IngestRepository)(nil)

// Service imports demand-history CSV exports into the catalog and ledger.
// Files come either from a Drive folder or straight from a reader; processed
// files are archived to object storage when one is configured.
type Service struct {
	driveClient *drive.Client
	repo        LedgerWriter
	forecasts   cache.ForecastCache
	archive     storage.ObjectStorage
}

func NewService(
	driveClient *drive.Client,
	repo LedgerWriter,
	forecasts cache.ForecastCache,
	archive storage.ObjectStorage,
) *Service {
	if forecasts == nil {
		forecasts = cache.NewNoopForecastCache()
	}
	return &Service{
		driveClient: driveClient,
		repo:        repo,
		forecasts:   forecasts,
		archive:     archive,
	}
}

// IngestFolder imports every CSV export in the given Drive folder path.
// Returns the number of ledger rows written.
func (s *Service) IngestFolder(ctx context.Context, folderPath string) (int, error) {
	if s.driveClient == nil {
		return 0, fmt.Errorf("drive client is not configured")
	}

	folderID, err := s.driveClient.FindFolderByPath(folderPath)
	if err != nil {
		return 0, err
	}

	files, err := s.driveClient.ListCSVFiles(folderID)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, file := range files {
		rows, err := s.IngestDriveFile(ctx, file.ID, file.Name)
		if err != nil {
			return total, fmt.Errorf("ingest %s: %w", file.Name, err)
		}
		log.Info().Str("file", file.Name).Int("rows", rows).Msg("ingested history file")
		total += rows
	}
	return total, nil
}

// IngestDriveFile downloads one Drive file, imports it, and archives a copy.
func (s *Service) IngestDriveFile(ctx context.Context, fileID, name string) (int, error) {
	var buf bytes.Buffer
	if err := s.driveClient.DownloadFile(fileID, &buf); err != nil {
		return 0, err
	}

	rows, err := s.IngestReader(ctx, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return rows, err
	}

	if s.archive != nil {
		key := fmt.Sprintf("history/%s/%s", time.Now().UTC().Format("2006-01-02"), name)
		if err := s.archive.UploadObject(ctx, key, buf.Bytes()); err != nil {
			log.Warn().Err(err).Str("file", name).Msg("failed to archive history file")
		}
	}
	return rows, nil
}

// IngestReader imports one CSV history export. Each row carries a product,
// an optional supplier, and one ledger entry. Returns the number of ledger
// rows written.
func (s *Service) IngestReader(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.TrimSpace(strings.ToLower(col))] = i
	}

	requiredCols := []string{"sku", "quantity", "transaction_date"}
	for _, col := range requiredCols {
		if _, ok := colMap[col]; !ok {
			return 0, fmt.Errorf("missing required column: %s", col)
		}
	}

	rows := 0
	touched := make(map[string]struct{})
	productIDs := make(map[string]int64)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, fmt.Errorf("failed to read CSV record: %w", err)
		}

		sku, err := s.processRow(ctx, record, colMap, productIDs)
		if err != nil {
			return rows, fmt.Errorf("failed to process row: %w", err)
		}
		touched[sku] = struct{}{}
		rows++
	}

	// Stale forecasts must not outlive the data they were fitted on.
	for sku := range touched {
		if err := s.forecasts.InvalidateSKU(ctx, sku); err != nil {
			log.Warn().Err(err).Str("sku", sku).Msg("failed to invalidate cached forecasts")
		}
	}

	return rows, nil
}

func (s *Service) processRow(ctx context.Context, record []string, colMap map[string]int, productIDs map[string]int64) (string, error) {
	getValue := func(colName string) string {
		if idx, ok := colMap[colName]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	getInt := func(colName string) int {
		val := getValue(colName)
		if val == "" {
			return 0
		}
		// Exports sometimes carry float strings like "3.0".
		f, _ := strconv.ParseFloat(val, 64)
		return int(f)
	}

	sku := getValue("sku")
	if sku == "" {
		return "", fmt.Errorf("row has empty sku")
	}

	productID, ok := productIDs[sku]
	if !ok {
		var supplierID *int64
		if supplierName := getValue("supplier"); supplierName != "" {
			supplier := &domain.Supplier{
				Name:         supplierName,
				LeadTimeDays: getInt("supplier_lead_time_days"),
			}
			id, err := s.repo.UpsertSupplier(ctx, supplier)
			if err != nil {
				return "", fmt.Errorf("upsert supplier: %w", err)
			}
			supplierID = &id
		}

		product := &domain.Product{
			SKU:          sku,
			Name:         getValue("product_name"),
			Description:  getValue("description"),
			StockLevel:   getInt("stock_level"),
			LeadTimeDays: getInt("lead_time_days"),
			SupplierID:   supplierID,
		}
		if product.Name == "" {
			product.Name = sku
		}

		id, err := s.repo.UpsertProduct(ctx, product)
		if err != nil {
			return "", fmt.Errorf("upsert product: %w", err)
		}
		productID = id
		productIDs[sku] = id
	}

	date, err := parseDate(getValue("transaction_date"))
	if err != nil {
		return "", err
	}

	txnType := strings.ToLower(getValue("transaction_type"))
	if txnType == "" {
		txnType = domain.TransactionSale
	}
	if txnType != domain.TransactionSale && txnType != domain.TransactionPurchase {
		return "", fmt.Errorf("unknown transaction_type: %s", txnType)
	}

	txn := &domain.Transaction{
		ProductID:       productID,
		TransactionType: txnType,
		Quantity:        getInt("quantity"),
		TransactionDate: date,
	}
	if err := s.repo.InsertTransaction(ctx, txn); err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	return sku, nil
}

func parseDate(val string) (time.Time, error) {
	if val == "" {
		return time.Time{}, fmt.Errorf("row has empty transaction_date")
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, val); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized transaction_date: %s", val)
}
