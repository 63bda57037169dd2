package service

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/locvowork/task_management_sample/apigateway/internal/summary"
	"github.com/locvowork/task_management_sample/apigateway/pkg/simpleexcel"
)

//go:embed templates/weekly_summary.yaml
var defaultExportYAML []byte

var defaultExportTemplate = mustParseTemplate(defaultExportYAML)

func mustParseTemplate(data []byte) *simpleexcel.ReportTemplate {
	tpl, err := simpleexcel.ParseTemplate(data)
	if err != nil {
		panic(fmt.Sprintf("invalid embedded export template: %v", err))
	}
	return tpl
}

// UndatedLabel is written in place of a week for tasks without a date.
const UndatedLabel = "No date"

type exportTaskRow struct {
	Week *time.Time
	Task summary.BucketTask
}

func (s *taskService) ExportWeeklySummary(ctx context.Context) ([]byte, error) {
	report, err := s.weeklyReport(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]exportTaskRow, 0)
	for _, b := range report.Buckets {
		for _, t := range b.Tasks {
			rows = append(rows, exportTaskRow{Week: b.Week, Task: t})
		}
	}

	data, err := simpleexcel.NewDataExporter(s.exportTemplate).
		RegisterFormatter("week", formatWeek).
		BindSectionData("weeks", report.Buckets).
		BindSectionData("tasks", rows).
		ToBytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render weekly summary: %w", err)
	}
	return data, nil
}

func formatWeek(v interface{}) interface{} {
	week, ok := v.(*time.Time)
	if !ok || week == nil {
		return UndatedLabel
	}
	return week.Format("2006-01-02")
}
