package simpleexcel

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Formatter turns a field value into the value written to a cell.
type Formatter func(v interface{}) interface{}

// DataExporter fills a ReportTemplate with bound data.
type DataExporter struct {
	template   *ReportTemplate
	data       map[string]interface{}
	formatters map[string]Formatter
}

// NewDataExporter creates an exporter for tpl with the built-in "date"
// formatter registered.
func NewDataExporter(tpl *ReportTemplate) *DataExporter {
	return &DataExporter{
		template: tpl,
		data:     make(map[string]interface{}),
		formatters: map[string]Formatter{
			"date": formatDate,
		},
	}
}

// BindSectionData binds a slice of structs (or struct pointers) to source.
func (e *DataExporter) BindSectionData(source string, data interface{}) *DataExporter {
	e.data[source] = data
	return e
}

// RegisterFormatter makes fn available to columns under name.
func (e *DataExporter) RegisterFormatter(name string, fn Formatter) *DataExporter {
	e.formatters[name] = fn
	return e
}

// ToBytes renders the workbook into memory.
func (e *DataExporter) ToBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := e.ToWriter(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToWriter renders the workbook into w.
func (e *DataExporter) ToWriter(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sheet := range e.template.Sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return err
		}
		if err := e.writeSheet(f, sheet, headerStyle); err != nil {
			return fmt.Errorf("sheet %q: %w", sheet.Name, err)
		}
	}

	return f.Write(w)
}

func (e *DataExporter) writeSheet(f *excelize.File, sheet SheetConfig, headerStyle int) error {
	for i, col := range sheet.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet.Name, cell, col.Header); err != nil {
			return err
		}
		if col.Width > 0 {
			name, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				return err
			}
			if err := f.SetColWidth(sheet.Name, name, name, col.Width); err != nil {
				return err
			}
		}
	}
	last, err := excelize.CoordinatesToCellName(len(sheet.Columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet.Name, "A1", last, headerStyle); err != nil {
		return err
	}

	data, ok := e.data[sheet.Source]
	if !ok || data == nil {
		return nil
	}
	rows := reflect.ValueOf(data)
	if rows.Kind() != reflect.Slice {
		return fmt.Errorf("data bound to %q must be a slice", sheet.Source)
	}

	for r := 0; r < rows.Len(); r++ {
		item := rows.Index(r)
		for c, col := range sheet.Columns {
			v, err := fieldValue(item, col.FieldName)
			if err != nil {
				return err
			}
			if col.Formatter != "" {
				fn, ok := e.formatters[col.Formatter]
				if !ok {
					return fmt.Errorf("unknown formatter %q", col.Formatter)
				}
				v = fn(v)
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet.Name, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// fieldValue resolves a dotted field path. A nil pointer on the way yields nil.
func fieldValue(item reflect.Value, path string) (interface{}, error) {
	v := item
	for _, name := range strings.Split(path, ".") {
		for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
			if v.IsNil() {
				return nil, nil
			}
			v = v.Elem()
		}
		if v.Kind() != reflect.Struct {
			return nil, fmt.Errorf("field %q: %s is not a struct", path, v.Type())
		}
		v = v.FieldByName(name)
		if !v.IsValid() {
			return nil, fmt.Errorf("field %q not found", path)
		}
	}
	if v.Kind() == reflect.Ptr && v.IsNil() {
		return nil, nil
	}
	if !v.CanInterface() {
		return nil, fmt.Errorf("field %q is not exported", path)
	}
	return v.Interface(), nil
}

func formatDate(v interface{}) interface{} {
	switch t := v.(type) {
	case time.Time:
		return t.Format("2006-01-02")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	case nil:
		return ""
	}
	return v
}
