package services

import (
	"bytes"
	"context"
	"fmt"

	"estate-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// ReportService renders the admin marketplace summary as a PDF
type ReportService struct {
	Dashboard *DashboardService
}

func NewReportService(dashboard *DashboardService) *ReportService {
	return &ReportService{Dashboard: dashboard}
}

// MarketplaceSummary builds a one-page PDF of the dashboard aggregates
func (s *ReportService) MarketplaceSummary(ctx context.Context) ([]byte, error) {
	stats, err := s.Dashboard.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to gather stats: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 12, "Marketplace Summary")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, "Generated: "+timeutil.FormatIST(timeutil.Now(), timeutil.DisplayLayout))
	pdf.Ln(12)

	rows := []struct {
		label string
		value string
	}{
		{"Total users", fmt.Sprintf("%d", stats.TotalUsers)},
		{"Fully verified users", fmt.Sprintf("%d", stats.FullyVerifiedUsers)},
		{"Locked accounts", fmt.Sprintf("%d", stats.LockedAccounts)},
		{"Active listings", fmt.Sprintf("%d", stats.ActiveListings)},
		{"Featured listings", fmt.Sprintf("%d", stats.FeaturedListings)},
		{"Open enquiries", fmt.Sprintf("%d", stats.OpenEnquiries)},
		{"Total reviews", fmt.Sprintf("%d", stats.TotalReviews)},
		{"Average rating", fmt.Sprintf("%.1f / 5", stats.AverageRating)},
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(100, 8, "Metric", "1", 0, "L", true, 0, "")
	pdf.CellFormat(60, 8, "Value", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, row := range rows {
		pdf.CellFormat(100, 8, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, row.value, "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}
