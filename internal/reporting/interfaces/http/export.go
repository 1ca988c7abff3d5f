package http

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	petrophysics "well-analysis/internal/petrophysics/domain"
	reportapp "well-analysis/internal/reporting/application"
)

// BuildReportPDF renders the report as an A4 PDF.
func BuildReportPDF(report *reportapp.Report) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()

	pdf.Cell(0, 8, report.Metadata.ReportType)
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Well: %s", report.Well.Name))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Field: %s", dash(report.Well.Field)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Location: %s", dash(report.Well.Location)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total depth (m): %s", formatPtr(report.Well.TotalDepth, 1)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Status: %s", report.Well.Status))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", report.Metadata.GeneratedAt.Format(time.RFC3339)))
	pdf.Ln(8)

	sum := report.Summary
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 6, "Summary")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Zones: %d (reservoir: %d)", sum.TotalZones, sum.ReservoirZones))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Net/gross: %.3f", sum.NetToGross))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average porosity: %s", formatPtr(sum.AveragePorosity, 3)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Average water saturation: %s", formatPtr(sum.AverageWaterSat, 3)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 9)
	for _, h := range zoneHeaders {
		pdf.CellFormat(h.width, 6, h.title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, z := range report.Zones {
		for i, cell := range zoneRow(z) {
			align := "R"
			if i >= 2 {
				align = "C"
			}
			pdf.CellFormat(zoneHeaders[i].width, 6, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 6, "Recommendations")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	for _, rec := range report.Recommendations {
		pdf.MultiCell(0, 5, "- "+rec, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildReportXLSX renders the report as a workbook with summary and zones sheets.
func BuildReportXLSX(report *reportapp.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	summarySheet := "summary"
	zonesSheet := "zones"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(zonesSheet); err != nil {
		return nil, err
	}

	sum := report.Summary
	rows := [][2]any{
		{report.Metadata.ReportType, ""},
		{"Well", report.Well.Name},
		{"Field", report.Well.Field},
		{"Location", report.Well.Location},
		{"Total depth (m)", ptrCell(report.Well.TotalDepth)},
		{"Status", string(report.Well.Status)},
		{"Generated", report.Metadata.GeneratedAt.Format(time.RFC3339)},
		{"Zones", sum.TotalZones},
		{"Reservoir zones", sum.ReservoirZones},
		{"Net/gross", sum.NetToGross},
		{"Average porosity", ptrCell(sum.AveragePorosity)},
		{"Average water saturation", ptrCell(sum.AverageWaterSat)},
	}
	for i, row := range rows {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+1), row[0])
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+1), row[1])
	}
	next := len(rows) + 2
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", next), "Recommendations")
	for i, rec := range report.Recommendations {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", next+i+1), rec)
	}

	for i, h := range zoneHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(zonesSheet, cell, h.title)
	}
	for r, z := range report.Zones {
		values := []any{
			z.DepthFrom, z.DepthTo, string(z.ZoneType), z.Lithology,
			ptrCell(z.Vshale), ptrCell(z.PorosityEffective), ptrCell(z.SaturationWater), string(z.Provenance),
		}
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			_ = f.SetCellValue(zonesSheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type column struct {
	title string
	width float64
}

var zoneHeaders = []column{
	{"From (m)", 22},
	{"To (m)", 22},
	{"Type", 26},
	{"Lithology", 26},
	{"Vsh", 20},
	{"PhiE", 20},
	{"Sw", 20},
	{"Source", 24},
}

func zoneRow(z petrophysics.Zone) []string {
	return []string{
		fmt.Sprintf("%.1f", z.DepthFrom),
		fmt.Sprintf("%.1f", z.DepthTo),
		string(z.ZoneType),
		dash(z.Lithology),
		formatPtr(z.Vshale, 3),
		formatPtr(z.PorosityEffective, 3),
		formatPtr(z.SaturationWater, 3),
		string(z.Provenance),
	}
}

func formatPtr(v *float64, places int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.*f", places, *v)
}

func ptrCell(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
