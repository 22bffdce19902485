package attendance

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/xuri/excelize/v2"
)

const exportBaseName = "attendance_records"

var exportHeader = []string{"Employee", "Shift", "Type", "Timestamp", "Location", "Late Minutes", "Note"}

// Column positions in exportHeader.
const (
	colEmployee    = 0
	colLateMinutes = 5
	colNote        = 6
)

func exportRows(events []attendance.Event, loc *time.Location) [][]string {
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		name := "-"
		if ev.EmployeeName != nil {
			name = *ev.EmployeeName
		}
		shiftLabel := "-"
		if ev.EmployeeShift != nil {
			shiftLabel = ev.EmployeeShift.Label()
		}
		location := "-"
		if ev.Location != nil {
			location = fmt.Sprintf("%.6f,%.6f", ev.Location.Latitude, ev.Location.Longitude)
		}
		note := "-"
		if ev.Note != nil {
			note = *ev.Note
		}

		rows = append(rows, []string{
			name,
			shiftLabel,
			ev.Kind.Label(),
			ev.OccurredAt.In(loc).Format("2006-01-02 15:04:05"),
			location,
			strconv.Itoa(ev.LateMinutes),
			note,
		})
	}
	return rows
}

// csvSafe keeps spreadsheet applications from evaluating a free-text cell as
// a formula. The "-" placeholder for missing values is left alone.
func csvSafe(value string) string {
	if value != "" && value != "-" && strings.ContainsRune("=+-@\t\r", rune(value[0])) {
		return "'" + value
	}
	return value
}

func renderCSV(rows [][]string) (attendance.ExportFile, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	if err := w.Write(exportHeader); err != nil {
		return attendance.ExportFile{}, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		safe := slices.Clone(row)
		safe[colEmployee] = csvSafe(safe[colEmployee])
		safe[colNote] = csvSafe(safe[colNote])
		if err := w.Write(safe); err != nil {
			return attendance.ExportFile{}, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return attendance.ExportFile{}, fmt.Errorf("failed to write csv rows: %w", err)
	}

	return attendance.ExportFile{
		Filename:    exportBaseName + ".csv",
		ContentType: "text/csv; charset=utf-8",
		Data:        buf.Bytes(),
	}, nil
}

func renderXLSX(rows [][]string) (attendance.ExportFile, error) {
	const sheet = "Attendance"

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheet)
	if err != nil {
		return attendance.ExportFile{}, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return attendance.ExportFile{}, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return attendance.ExportFile{}, fmt.Errorf("failed to create header style: %w", err)
	}

	setCell := func(col, row int, value interface{}) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, value)
	}

	for i, title := range exportHeader {
		if err := setCell(i+1, 1, title); err != nil {
			return attendance.ExportFile{}, fmt.Errorf("failed to write header: %w", err)
		}
	}
	lastCol, err := excelize.ColumnNumberToName(len(exportHeader))
	if err != nil {
		return attendance.ExportFile{}, fmt.Errorf("failed to resolve header range: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return attendance.ExportFile{}, fmt.Errorf("failed to style header: %w", err)
	}

	for _, w := range []struct {
		from, to string
		width    float64
	}{
		{"A", "A", 24},
		{"B", "C", 16},
		{"D", "E", 22},
		{"F", "F", 14},
		{"G", "G", 20},
	} {
		if err := f.SetColWidth(sheet, w.from, w.to, w.width); err != nil {
			return attendance.ExportFile{}, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for r, row := range rows {
		for c, value := range row {
			var cellValue interface{} = value
			if c == colLateMinutes {
				// Late minutes stay numeric so the sheet can sum them.
				if n, err := strconv.Atoi(value); err == nil {
					cellValue = n
				}
			}
			if err := setCell(c+1, r+2, cellValue); err != nil {
				return attendance.ExportFile{}, fmt.Errorf("failed to write row %d: %w", r+1, err)
			}
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return attendance.ExportFile{}, fmt.Errorf("failed to write xlsx: %w", err)
	}

	return attendance.ExportFile{
		Filename:    exportBaseName + ".xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}, nil
}
