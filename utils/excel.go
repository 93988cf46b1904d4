package utils

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"harvesterbilling/models"
)

const vehicleSheet = "Vehicles"

var vehicleHeaders = []string{"Vehicle", "Type", "Number", "Work Time", "Hours", "Revenue", "Due", "Expenses", "Net"}

// VehicleReportFileName is the download name for a report generated at now.
func VehicleReportFileName(now time.Time) string {
	return fmt.Sprintf("vehicle_report_%s.xlsx", now.Format("20060102_150405"))
}

// VehicleReportXLSX renders the per-vehicle report with a totals row.
func VehicleReportXLSX(report models.VehicleReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(vehicleSheet); err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	if index, err := f.GetSheetIndex(vehicleSheet); err == nil {
		f.SetActiveSheet(index)
	}

	for i, header := range vehicleHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(vehicleSheet, cell, header); err != nil {
			return nil, err
		}
	}

	row := 2
	for _, r := range report.Rows {
		values := []interface{}{r.Name, string(r.Type), r.Number, r.FormattedTime, r.TotalHours, r.Revenue, r.Due, r.Expenses, r.Revenue - r.Expenses}
		if err := f.SetSheetRow(vehicleSheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return nil, err
		}
		row++
	}

	s := report.Summary
	totals := []interface{}{"Total", "", "", "", "", s.TotalRevenue, s.TotalDue, s.TotalExpenses, s.NetProfit}
	if err := f.SetSheetRow(vehicleSheet, fmt.Sprintf("A%d", row), &totals); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
