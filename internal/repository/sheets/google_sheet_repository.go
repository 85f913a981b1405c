package sheets

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/inventory-console/internal/config"
)

// Repository defines the export operations supported by the Google Sheets adapter.
type Repository interface {
	WriteTable(ctx context.Context, values [][]string) error
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	anchor        string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance. Extra client
// options are appended after the credentials file option.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger, opts ...option.ClientOption) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Range == "" {
		return nil, fmt.Errorf("sheet range must not be empty")
	}

	clientOpts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	if cfg.CredentialsPath != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsPath))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := sheetsapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		anchor:        cfg.Range,
		logger:        logger,
	}, nil
}

// WriteTable clears the sheet the anchor belongs to and writes values starting at the anchor.
func (r *GoogleSheetRepository) WriteTable(ctx context.Context, values [][]string) error {
	clearRange := sheetName(r.anchor)
	if _, err := r.service.Spreadsheets.Values.Clear(r.spreadsheetID, clearRange, &sheetsapi.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear range %s: %w", clearRange, err)
	}

	rows := make([][]interface{}, 0, len(values))
	for _, row := range values {
		cells := make([]interface{}, 0, len(row))
		for _, cell := range row {
			cells = append(cells, cell)
		}
		rows = append(rows, cells)
	}

	payload := &sheetsapi.ValueRange{Values: rows}
	call := r.service.Spreadsheets.Values.Update(r.spreadsheetID, r.anchor, payload).
		ValueInputOption("RAW").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("write range %s: %w", r.anchor, err)
	}

	r.logger.Debug("table written to sheet", zap.String("range", r.anchor), zap.Int("rows", len(rows)))
	return nil
}

// sheetName reduces "Inventory!A1" to "Inventory"; a bare name is returned unchanged.
func sheetName(anchor string) string {
	if i := strings.Index(anchor, "!"); i >= 0 {
		return anchor[:i]
	}
	return anchor
}
