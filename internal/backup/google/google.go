// Package google exports ledger snapshots to a Google Sheets spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"fintrack/internal/backup"
	"fintrack/internal/core"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Ensure interface conformance
var _ backup.Exporter = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// Optional: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS for auth; GOOGLE_SHEET_NAME (default
// "Ledger").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Ledger"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials from GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE
// or GOOGLE_APPLICATION_CREDENTIALS, falling back to ADC.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		// Application Default Credentials.
		return gsheet.NewService(ctx, goption.WithScopes(gsheet.SpreadsheetsScope))
	}

	return gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
}

// Export replaces the backup sheet's contents with one row per ledger
// record. It is a full overwrite, so the sheet always mirrors the latest
// snapshot.
func (c *Client) Export(ctx context.Context, l *core.Ledger) error {
	rows := snapshotRows(l)

	clearRange := fmt.Sprintf("%s!A:G", c.sheetName)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear backup sheet: %w", err)
	}

	writeRange := fmt.Sprintf("%s!A1", c.sheetName)
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, &gsheet.ValueRange{
		Values: rows,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write backup sheet: %w", err)
	}

	slog.InfoContext(ctx, "Exported ledger snapshot to Google Sheets",
		"component", "backup",
		"spreadsheet_id", c.spreadsheetID,
		"rows", len(rows)-1)
	return nil
}

func snapshotRows(l *core.Ledger) [][]any {
	rows := [][]any{{"kind", "id", "title", "amount", "currency", "date", "details"}}

	for _, d := range l.Debts {
		details := "remaining=" + formatAmount(d.RemainingAmount)
		if d.Installment != nil {
			details += "; installments=" + strconv.Itoa(d.Installment.PaidInstallments) +
				"/" + strconv.Itoa(d.Installment.TotalInstallments)
		}
		rows = append(rows, []any{"debt", d.ID, d.Title, formatAmount(d.TotalAmount), string(d.Currency), formatDate(d.CreatedAt), details})
	}
	for _, e := range l.Expenses {
		details := "frequency=" + string(e.Schedule.Frequency()) + "; paid=" + strconv.FormatBool(e.Paid)
		if e.Category != "" {
			details += "; category=" + e.Category
		}
		rows = append(rows, []any{"expense", e.ID, e.Title, formatAmount(e.Amount), string(e.Currency), "", details})
	}
	for _, a := range l.Assets {
		details := "type=" + string(a.Type) + "; received=" + strconv.FormatBool(a.Received)
		rows = append(rows, []any{"asset", a.ID, a.Title, formatAmount(a.Amount), string(a.Currency), formatDate(a.Date), details})
	}
	for _, g := range l.Goals {
		details := "saved=" + formatAmount(g.CurrentAmount)
		if g.Deadline != nil {
			details += "; deadline=" + formatDate(*g.Deadline)
		}
		rows = append(rows, []any{"goal", g.ID, g.Title, formatAmount(g.TargetAmount), string(g.Currency), formatDate(g.CreatedAt), details})
	}
	return rows
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatDate(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}
