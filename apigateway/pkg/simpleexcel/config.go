// Package simpleexcel renders slices of structs into xlsx workbooks laid
// out by a YAML template.
package simpleexcel

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// ColumnConfig maps one struct field to one spreadsheet column.
type ColumnConfig struct {
	// FieldName is a field of the bound element type. Nested fields use dots,
	// e.g. "DateTime.StartTime".
	FieldName string  `yaml:"field_name"`
	Header    string  `yaml:"header"`
	Width     float64 `yaml:"width"`
	Formatter string  `yaml:"formatter"`
}

// SheetConfig describes one sheet. Source names the data bound with
// BindSectionData.
type SheetConfig struct {
	Name    string         `yaml:"name"`
	Source  string         `yaml:"source"`
	Columns []ColumnConfig `yaml:"columns"`
}

// ReportTemplate is the root of a YAML layout.
type ReportTemplate struct {
	Sheets []SheetConfig `yaml:"sheets"`
}

// ParseTemplate decodes and validates a YAML layout.
func ParseTemplate(data []byte) (*ReportTemplate, error) {
	var tpl ReportTemplate
	if err := yaml.UnmarshalStrict(data, &tpl); err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	if err := tpl.validate(); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// LoadTemplateFile reads a YAML layout from path.
func LoadTemplateFile(path string) (*ReportTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", path, err)
	}
	return ParseTemplate(data)
}

func (t *ReportTemplate) validate() error {
	if len(t.Sheets) == 0 {
		return fmt.Errorf("template has no sheets")
	}
	seen := make(map[string]bool, len(t.Sheets))
	for i := range t.Sheets {
		sheet := &t.Sheets[i]
		if sheet.Name == "" {
			return fmt.Errorf("sheet %d has no name", i)
		}
		if seen[sheet.Name] {
			return fmt.Errorf("duplicate sheet name %q", sheet.Name)
		}
		seen[sheet.Name] = true
		if sheet.Source == "" {
			return fmt.Errorf("sheet %q has no source", sheet.Name)
		}
		if len(sheet.Columns) == 0 {
			return fmt.Errorf("sheet %q has no columns", sheet.Name)
		}
		for j := range sheet.Columns {
			col := &sheet.Columns[j]
			if col.FieldName == "" {
				return fmt.Errorf("sheet %q column %d has no field_name", sheet.Name, j)
			}
			if col.Header == "" {
				col.Header = col.FieldName
			}
		}
	}
	return nil
}
