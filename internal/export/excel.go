// Package export renders the booking ledger as an xlsx workbook for the
// shop owner.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"fadebook/internal/models"
)

const sheetName = "Bookings"

var headers = []string{
	"ID", "Date", "Start", "End", "Service", "Extras",
	"Duration (min)", "Customer", "Phone", "Note", "Status", "Created",
}

type Exporter struct {
	catalog *models.Catalog
	logger  zerolog.Logger
}

func NewExporter(catalog *models.Catalog, logger zerolog.Logger) *Exporter {
	return &Exporter{catalog: catalog, logger: logger}
}

// BookingsWorkbook writes the bookings into an xlsx buffer, one row per
// booking grouped under a merged date header, with status-colored cells.
// Input order is preserved, so the repository's date/start ordering carries
// through to the sheet.
func (e *Exporter) BookingsWorkbook(bookings []*models.Booking) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	dateStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F2F2F2"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})

	row := 1
	currentDate := ""
	for _, booking := range bookings {
		if booking.Date != currentDate {
			currentDate = booking.Date
			row++
			first, _ := excelize.CoordinatesToCellName(1, row)
			last, _ := excelize.CoordinatesToCellName(len(headers), row)
			_ = f.SetCellValue(sheetName, first, currentDate)
			_ = f.MergeCell(sheetName, first, last)
			_ = f.SetCellStyle(sheetName, first, last, dateStyle)
		}
		row++

		serviceName := booking.ServiceID
		if svc, ok := e.catalog.Service(booking.ServiceID); ok {
			serviceName = svc.Name
		}

		values := []interface{}{
			booking.ID,
			booking.Date,
			booking.StartTime,
			booking.EndTime,
			serviceName,
			strings.Join(e.catalog.ExtraNames(booking.Extras), ", "),
			booking.Duration,
			booking.Customer.Name,
			booking.Customer.Phone,
			booking.Note,
			booking.Status,
			booking.CreatedAt.Format("02.01.2006 15:04"),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, value)
		}

		if styleID, err := e.statusStyle(f, booking.Status); err == nil {
			statusCell, _ := excelize.CoordinatesToCellName(11, row)
			_ = f.SetCellStyle(sheetName, statusCell, statusCell, styleID)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "F", 15)
	_ = f.SetColWidth(sheetName, "G", "G", 12)
	_ = f.SetColWidth(sheetName, "H", "J", 20)
	_ = f.SetColWidth(sheetName, "K", "L", 15)

	_ = f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}

	e.logger.Info().Int("bookings", len(bookings)).Msg("bookings workbook generated")
	return buf, nil
}

func (e *Exporter) statusStyle(f *excelize.File, status string) (int, error) {
	var color string
	switch status {
	case models.StatusConfirmed:
		color = "#C6EFCE"
	case models.StatusPending:
		color = "#FFEB9C"
	case models.StatusRejected, models.StatusCanceled:
		color = "#FFC7CE"
	default:
		color = "#FFFFFF"
	}
	return f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	})
}
