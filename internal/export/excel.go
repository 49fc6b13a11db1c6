// Package export writes reservation history to an Excel workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/mdayat/artics-communication/internal/models"
)

const historySheet = "Reservations"

var historyColumns = []string{
	"Meeting Room", "Start Date", "End Date",
	"Cancellation Status", "Canceled At", "Reserved At",
}

// HistoryWorkbook builds a single-sheet workbook with one row per
// reservation. The caller owns the returned file and must Close it.
func HistoryWorkbook(reservations []*models.UserReservation) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", historySheet)

	for i, col := range historyColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(historySheet, cell, col); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(historyColumns), 1)
		_ = f.SetCellStyle(historySheet, "A1", endCell, style)
	}

	for rowIdx, r := range reservations {
		values := reservationRowValues(r)
		for colIdx, v := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(historySheet, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", rowIdx+1, err)
			}
		}
	}

	return f, nil
}

// WriteHistory streams the workbook to w.
func WriteHistory(w io.Writer, reservations []*models.UserReservation) error {
	f, err := HistoryWorkbook(reservations)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// SaveHistory writes the workbook to path.
func SaveHistory(path string, reservations []*models.UserReservation) error {
	f, err := HistoryWorkbook(reservations)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

const timeLayout = "2006-01-02 15:04"

func reservationRowValues(r *models.UserReservation) []interface{} {
	status := "Not Canceled"
	canceledAt := ""
	if r.Canceled {
		status = "Canceled"
		if r.CanceledAt != nil {
			canceledAt = r.CanceledAt.Format(timeLayout)
		}
	}

	return []interface{}{
		r.MeetingRoom.Name,
		r.TimeSlot.StartDate.Format(timeLayout),
		r.TimeSlot.EndDate.Format(timeLayout),
		status,
		canceledAt,
		r.ReservedAt.Format(timeLayout),
	}
}
