package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"

	"github.com/saipavansp/incubez-talent-stories/pkg/config"
	"github.com/saipavansp/incubez-talent-stories/pkg/enums"
	pkgerrors "github.com/saipavansp/incubez-talent-stories/pkg/errors"
	"github.com/saipavansp/incubez-talent-stories/pkg/logger"
)

// ValuesAPI is the slice of the Sheets values surface the sink uses.
type ValuesAPI interface {
	Get(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error)
	Append(ctx context.Context, spreadsheetID, writeRange string, rows [][]interface{}) error
	Update(ctx context.Context, spreadsheetID, writeRange string, rows [][]interface{}) error
}

type googleValues struct {
	svc *sheetsv4.Service
}

func (g *googleValues) Get(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (g *googleValues) Append(ctx context.Context, spreadsheetID, writeRange string, rows [][]interface{}) error {
	_, err := g.svc.Spreadsheets.Values.
		Append(spreadsheetID, writeRange, &sheetsv4.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	return err
}

func (g *googleValues) Update(ctx context.Context, spreadsheetID, writeRange string, rows [][]interface{}) error {
	_, err := g.svc.Spreadsheets.Values.
		Update(spreadsheetID, writeRange, &sheetsv4.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	return err
}

// Client appends submission rows to the configured spreadsheet. Each kind
// lands on its own sheet with a fixed column order, so the spreadsheet
// doubles as the review dashboard without any transformation step.
type Client struct {
	api           ValuesAPI
	spreadsheetID string
	founderSheet  string
	seekerSheet   string
}

// NewClient builds a sheets client from service-account credentials. The
// raw JSON blob wins when both credential forms are set.
func NewClient(ctx context.Context, cfg config.SheetsConfig, logg *logger.Logger) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("spreadsheet id is required")
	}

	credsJSON := cfg.CredentialsJSON
	if credsJSON == "" {
		if cfg.ClientEmail == "" || cfg.PrivateKey == "" {
			return nil, errors.New("google service account credentials are required")
		}
		assembled, err := json.Marshal(map[string]string{
			"type":         "service_account",
			"client_email": cfg.ClientEmail,
			"private_key":  strings.ReplaceAll(cfg.PrivateKey, `\n`, "\n"),
			"token_uri":    "https://oauth2.googleapis.com/token",
		})
		if err != nil {
			return nil, fmt.Errorf("assembling credentials: %w", err)
		}
		credsJSON = string(assembled)
	}

	svc, err := sheetsv4.NewService(ctx,
		option.WithCredentialsJSON([]byte(credsJSON)),
		option.WithScopes(sheetsv4.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("initializing sheets service: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "sheets client initialized")
	}

	return &Client{
		api:           &googleValues{svc: svc},
		spreadsheetID: cfg.SpreadsheetID,
		founderSheet:  cfg.FounderSheet,
		seekerSheet:   cfg.SeekerSheet,
	}, nil
}

// NewClientWithAPI wires an explicit values implementation; used by tests.
func NewClientWithAPI(api ValuesAPI, spreadsheetID, founderSheet, seekerSheet string) *Client {
	return &Client{
		api:           api,
		spreadsheetID: spreadsheetID,
		founderSheet:  founderSheet,
		seekerSheet:   seekerSheet,
	}
}

func (c *Client) layout(kind enums.SubmissionKind) (sheet, lastColumn, statusColumn string) {
	if kind == enums.SubmissionKindFounder {
		return c.founderSheet, "T", "T"
	}
	return c.seekerSheet, "V", "V"
}

// Append writes a submission row and returns the 1-based sheet row it
// landed on. The sequential id in column A is derived from the current
// row count, so the caller supplies cells starting at column B.
func (c *Client) Append(ctx context.Context, kind enums.SubmissionKind, cells []interface{}) (int64, error) {
	sheet, lastColumn, _ := c.layout(kind)

	existing, err := c.api.Get(ctx, c.spreadsheetID, sheet+"!A:A")
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeSinkUnavailable, err, "read sheet row count")
	}
	rowCount := int64(len(existing))
	if rowCount == 0 {
		rowCount = 1
	}

	row := append([]interface{}{rowCount}, cells...)
	writeRange := fmt.Sprintf("%s!A:%s", sheet, lastColumn)
	if err := c.api.Append(ctx, c.spreadsheetID, writeRange, [][]interface{}{row}); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeSinkUnavailable, err, "append submission row")
	}

	return rowCount + 1, nil
}

// UpdateStatus rewrites the status cell for an application id. The id
// lives in column B on both sheets.
func (c *Client) UpdateStatus(ctx context.Context, kind enums.SubmissionKind, applicationID string, status enums.SubmissionStatus) error {
	sheet, _, statusColumn := c.layout(kind)

	ids, err := c.api.Get(ctx, c.spreadsheetID, sheet+"!B:B")
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeSinkUnavailable, err, "read application ids")
	}

	rowIndex := -1
	for i, row := range ids {
		if len(row) > 0 && fmt.Sprint(row[0]) == applicationID {
			rowIndex = i
			break
		}
	}
	if rowIndex == -1 {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("application %s not found in sheet", applicationID))
	}

	writeRange := fmt.Sprintf("%s!%s%d", sheet, statusColumn, rowIndex+1)
	if err := c.api.Update(ctx, c.spreadsheetID, writeRange, [][]interface{}{{status.SheetLabel()}}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeSinkUnavailable, err, "update application status")
	}

	return nil
}

// JSONCell encodes a multi-select answer as a JSON array for a single
// cell, keeping list answers machine-readable in the spreadsheet.
func JSONCell(values []string) string {
	if values == nil {
		values = []string{}
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}
