// Package google syncs reservation history to a Google Sheet.
package google

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/mdayat/artics-communication/internal/models"
)

// SheetsService mirrors active reservations into one sheet of a
// spreadsheet, rewriting the range on every sync.
type SheetsService struct {
	srv           *sheets.Service
	spreadsheetID string
	sheetName     string
	logger        zerolog.Logger
}

// NewSheetsService builds a service from service-account credentials.
func NewSheetsService(ctx context.Context, credentialsFile, spreadsheetID, sheetName string, logger zerolog.Logger) (*SheetsService, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithTokenSource(creds.TokenSource))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsService{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		logger:        logger,
	}, nil
}

var headerRow = []interface{}{
	"ID", "Meeting Room", "Start Date", "End Date", "Reserved At",
}

// SyncHistory clears the sheet and writes the header plus one row per
// active (non-canceled) reservation.
func (s *SheetsService) SyncHistory(ctx context.Context, reservations []*models.UserReservation) error {
	active := s.filterActive(reservations)

	clearRange := fmt.Sprintf("%s!A:E", s.sheetName)
	_, err := s.srv.Spreadsheets.Values.
		Clear(s.spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear sheet: %w", err)
	}

	values := [][]interface{}{headerRow}
	for _, r := range active {
		values = append(values, reservationRowValues(r))
	}

	vr := &sheets.ValueRange{Values: values}
	_, err = s.srv.Spreadsheets.Values.
		Update(s.spreadsheetID, fmt.Sprintf("%s!A1", s.sheetName), vr).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update sheet: %w", err)
	}

	s.logger.Info().Int("rows", len(active)).Msg("synced reservations to sheet")
	return nil
}

func (s *SheetsService) filterActive(reservations []*models.UserReservation) []*models.UserReservation {
	var active []*models.UserReservation
	for _, r := range reservations {
		if r != nil && !r.Canceled {
			active = append(active, r)
		}
	}
	return active
}

const timeLayout = "2006-01-02 15:04"

func reservationRowValues(r *models.UserReservation) []interface{} {
	return []interface{}{
		r.ID,
		r.MeetingRoom.Name,
		r.TimeSlot.StartDate.Format(timeLayout),
		r.TimeSlot.EndDate.Format(timeLayout),
		r.ReservedAt.Format(timeLayout),
	}
}
