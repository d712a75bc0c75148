// Package export renders analytics results into spreadsheet workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/straye-as/crm-analytics/internal/domain"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the workbooks written by this package
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names, in workbook order
const (
	SheetSummary  = "Summary"
	SheetStages   = "Stages"
	SheetFunnel   = "Funnel"
	SheetForecast = "Forecast"
	SheetTeam     = "Team"
)

// PipelineReport is the content of one pipeline workbook
type PipelineReport struct {
	GeneratedAt time.Time
	// Tenant is the tenant id the report is scoped to, empty for all tenants
	Tenant   string
	Metrics  domain.PipelineMetricsDTO
	Funnel   domain.FunnelAnalysisDTO
	Forecast domain.SalesForecastDTO
	Team     domain.TeamPerformanceDTO
}

// WritePipelineWorkbook writes report as an XLSX workbook to w
func WritePipelineWorkbook(w io.Writer, report *PipelineReport) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("failed to rename default sheet: %w", err)
	}
	for _, name := range []string{SheetStages, SheetFunnel, SheetForecast, SheetTeam} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	sheets := []struct {
		name string
		rows [][]interface{}
	}{
		{SheetSummary, summaryRows(report)},
		{SheetStages, stageRows(report.Metrics)},
		{SheetFunnel, funnelRows(report.Funnel)},
		{SheetForecast, forecastRows(report.Forecast)},
		{SheetTeam, teamRows(report.Team)},
	}
	for _, s := range sheets {
		if err := writeRows(f, s.name, s.rows, header); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// writeRows writes rows from A1 down, styling the first row as a header
func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}

	lastCol, err := excelize.ColumnNumberToName(len(rows[0]))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	return f.SetColWidth(sheet, "A", lastCol, 20)
}

func summaryRows(r *PipelineReport) [][]interface{} {
	tenant := r.Tenant
	if tenant == "" {
		tenant = "all"
	}
	s := r.Metrics.Summary
	return [][]interface{}{
		{"Metric", "Value"},
		{"Generated At", r.GeneratedAt.UTC().Format(time.RFC3339)},
		{"Tenant", tenant},
		{"Total Opportunities", s.TotalOpportunities},
		{"Total Value", s.TotalValue},
		{"Open Opportunities", s.OpenOpportunities},
		{"Open Value", s.OpenValue},
		{"Weighted Value", s.WeightedValue},
		{"Won", s.WonCount},
		{"Won Value", s.WonValue},
		{"Lost", s.LostCount},
		{"Average Deal Size", s.AverageDealSize},
		{"Conversion Rate (%)", s.ConversionRate},
		{"Win Rate (%)", s.WinRate},
		{"Average Sales Cycle (days)", s.AverageSalesCycleDays},
		{"Overall Funnel Conversion (%)", r.Funnel.OverallConversion},
	}
}

func stageRows(m domain.PipelineMetricsDTO) [][]interface{} {
	velocity := make(map[string]domain.StageVelocityDTO, len(m.Velocity))
	for _, v := range m.Velocity {
		velocity[v.Stage] = v
	}

	rows := [][]interface{}{{"Stage", "Count", "Value", "Share (%)", "Average Days", "Transitions"}}
	for _, s := range m.StageDistribution {
		v := velocity[s.Stage]
		rows = append(rows, []interface{}{s.Stage, s.Count, s.Value, s.Percentage, v.AverageDays, v.Transitions})
	}
	return rows
}

func funnelRows(f domain.FunnelAnalysisDTO) [][]interface{} {
	bottleneck := make(map[string]bool, len(f.Bottlenecks))
	for _, b := range f.Bottlenecks {
		bottleneck[b.FromStage] = true
	}

	rows := [][]interface{}{{"Stage", "Reached", "Current", "Conversion To Next (%)", "Drop Off", "Bottleneck"}}
	for _, s := range f.Stages {
		flag := ""
		if bottleneck[s.Stage] {
			flag = "yes"
		}
		rows = append(rows, []interface{}{s.Stage, s.Count, s.CurrentCount, s.ConversionToNext, s.DropOff, flag})
	}
	return rows
}

func forecastRows(f domain.SalesForecastDTO) [][]interface{} {
	rows := [][]interface{}{{"Month", "Opportunities", "Pipeline Value", "Weighted Value", "Best Case", "Worst Case"}}
	for _, p := range f.Periods {
		rows = append(rows, []interface{}{p.Month, p.OpportunityCount, p.PipelineValue, p.WeightedValue, p.BestCase, p.WorstCase})
	}
	t := f.Totals
	rows = append(rows, []interface{}{"Total", t.OpportunityCount, t.PipelineValue, t.WeightedValue, t.BestCase, t.WorstCase})
	return rows
}

func teamRows(p domain.TeamPerformanceDTO) [][]interface{} {
	rows := [][]interface{}{{
		"Account Manager", "Opportunities", "Total Value", "Won", "Won Value",
		"Lost", "Open Value", "Weighted Value", "Win Rate (%)", "Average Deal Size",
	}}
	for _, m := range p.Members {
		name := m.Name
		if name == "" {
			name = m.AccountManagerID
		}
		rows = append(rows, []interface{}{
			name, m.TotalOpportunities, m.TotalValue, m.WonCount, m.WonValue,
			m.LostCount, m.OpenValue, m.WeightedValue, m.WinRate, m.AverageDealSize,
		})
	}
	return rows
}
