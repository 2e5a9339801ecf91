package pantry

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const inventoryRange = "Sheet1!A2:C"

// SheetsStore is a pantry store backed by a Google Sheet, kept layout
// compatible with the spreadsheet this tool grew out of: one row per item,
// columns A:C holding name, quantity, unit, header in row 1.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewSheetsStore creates a pantry store over the given spreadsheet using a
// service account credentials file.
func NewSheetsStore(ctx context.Context, credentialsPath, spreadsheetID string) (*SheetsStore, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &SheetsStore{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// Inventory reads all inventory rows. Rows with a blank name are skipped;
// a missing or unparsable quantity reads as zero, matching how the sheet is
// edited by hand.
func (s *SheetsStore) Inventory(ctx context.Context) ([]Item, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, inventoryRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory sheet: %w", err)
	}

	var items []Item
	for _, row := range resp.Values {
		item, ok := rowToItem(row)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Upsert updates the row whose name matches case-insensitively, or appends a
// new row when the item is not on the sheet yet.
func (s *SheetsStore) Upsert(ctx context.Context, item Item) error {
	rowIndex, err := s.findRow(ctx, item.Name)
	if err != nil {
		return err
	}

	values := &sheets.ValueRange{
		Values: [][]interface{}{{item.Name, item.Quantity, item.Unit}},
	}

	if rowIndex > 0 {
		rng := fmt.Sprintf("Sheet1!A%d:C%d", rowIndex, rowIndex)
		_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rng, values).
			ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to update inventory row for %q: %w", item.Name, err)
		}
		return nil
	}

	_, err = s.svc.Spreadsheets.Values.Append(s.spreadsheetID, "Sheet1!A:C", values).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append inventory row for %q: %w", item.Name, err)
	}
	return nil
}

// Remove clears the matching row's values. The blank row is skipped on
// subsequent reads, so a separate row deletion is not needed.
func (s *SheetsStore) Remove(ctx context.Context, name string) error {
	rowIndex, err := s.findRow(ctx, name)
	if err != nil {
		return err
	}
	if rowIndex == 0 {
		return nil
	}

	rng := fmt.Sprintf("Sheet1!A%d:C%d", rowIndex, rowIndex)
	_, err = s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, rng, &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear inventory row for %q: %w", name, err)
	}
	return nil
}

// findRow returns the 1-based sheet row for an item name, or 0 when absent.
func (s *SheetsStore) findRow(ctx context.Context, name string) (int, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, inventoryRange).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to read inventory sheet: %w", err)
	}

	want := key(name)
	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if got, ok := row[0].(string); ok && key(got) == want {
			return i + 2, nil // data starts at row 2
		}
	}
	return 0, nil
}

func rowToItem(row []interface{}) (Item, bool) {
	if len(row) == 0 {
		return Item{}, false
	}
	name, ok := row[0].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return Item{}, false
	}

	item := Item{Name: strings.TrimSpace(name)}
	if len(row) > 1 {
		item.Quantity = cellToFloat(row[1])
	}
	if len(row) > 2 {
		if unit, ok := row[2].(string); ok {
			item.Unit = strings.TrimSpace(unit)
		}
	}
	return item, true
}

func cellToFloat(cell interface{}) float64 {
	switch v := cell.(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
