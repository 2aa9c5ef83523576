package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	pkgerrors "github.com/ju4n3s0/GymIcesi-System/pkg/errors"
)

// 导出格式
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// ── 导出模块业务错误 ──

var (
	ErrExportFormat       = fmt.Errorf("%w: 导出格式仅支持 csv / xlsx / pdf", pkgerrors.ErrValidation)
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// Table 待导出的二维表，所有单元格已格式化为字符串
type Table struct {
	Name    string // 文件名前缀
	Title   string
	Headers []string
	Rows    [][]string
}

// ExportService 报表导出接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 Content-Type 与 Content-Disposition 后写入响应。
type ExportService interface {
	Export(ctx context.Context, format string, table *Table) (*bytes.Buffer, string, error)
}

type exportService struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(logger *zap.Logger) ExportService {
	return &exportService{logger: logger, now: time.Now}
}

// ContentType 导出格式对应的 MIME 类型
func ContentType(format string) string {
	switch format {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

func (s *exportService) Export(ctx context.Context, format string, table *Table) (*bytes.Buffer, string, error) {
	var (
		buf *bytes.Buffer
		err error
	)
	switch format {
	case FormatCSV:
		buf, err = writeCSV(table)
	case FormatXLSX:
		buf, err = writeXLSX(table)
	case FormatPDF:
		buf, err = writePDF(table)
	default:
		return nil, "", ErrExportFormat
	}
	if err != nil {
		s.logger.Error("生成导出文件失败",
			zap.String("table", table.Name),
			zap.String("format", format),
			zap.Error(err),
		)
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("%s_%s.%s", table.Name, s.now().Format("20060102"), format)
	return buf, filename, nil
}

// ── CSV ──

func writeCSV(t *Table) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	w := csv.NewWriter(buf)
	if err := w.Write(t.Headers); err != nil {
		return nil, err
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, err
	}
	return buf, nil
}

// ── Excel ──

func writeXLSX(t *Table) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Reporte"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 13},
	})

	// 标题行
	lastCol := colName(len(t.Headers) - 1)
	f.SetCellValue(sheet, "A1", t.Title)
	if len(t.Headers) > 1 {
		f.MergeCell(sheet, "A1", lastCol+"1")
	}
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	// 表头
	for i, h := range t.Headers {
		f.SetCellValue(sheet, cell(colName(i), 2), h)
		f.SetColWidth(sheet, colName(i), colName(i), colWidth(t, i))
	}
	f.SetCellStyle(sheet, "A2", lastCol+"2", headerStyle)

	// 数据行
	for r, row := range t.Rows {
		for c, v := range row {
			f.SetCellValue(sheet, cell(colName(c), r+3), v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// colWidth 按列内最长文本估算列宽
func colWidth(t *Table, i int) float64 {
	w := len([]rune(t.Headers[i]))
	for _, row := range t.Rows {
		if i < len(row) {
			if n := len([]rune(row[i])); n > w {
				w = n
			}
		}
	}
	if w < 8 {
		w = 8
	}
	if w > 40 {
		w = 40
	}
	return float64(w + 2)
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// ── PDF ──

func writePDF(t *Table) (*bytes.Buffer, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, tr(t.Title), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	colW := contentW / float64(len(t.Headers))

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(68, 114, 196)
	pdf.SetTextColor(255, 255, 255)
	for _, h := range t.Headers {
		pdf.CellFormat(colW, 7, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range t.Rows {
		for i := range t.Headers {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			pdf.CellFormat(colW, 6, tr(truncate(v, 40)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
