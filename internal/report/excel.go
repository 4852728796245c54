package report

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ErrRender means the workbook could not be produced.
var ErrRender = errors.New("report: render workbook failed")

const sheetName = "Feedback Report"

// columns spanned by the score table: label + Q1..Q10 + Overall
const tableWidth = 12

// WriteExcel renders r as a single-sheet workbook.
func WriteExcel(r Report) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	_ = f.SetColWidth(sheetName, "A", "A", 18)
	_ = f.SetColWidth(sheetName, "B", colName(tableWidth-1), 10)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	wrapStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})

	last := colName(tableWidth - 1)

	// header
	row := 1
	for _, text := range []string{r.Institution, r.Title} {
		_ = f.SetCellValue(sheetName, cell("A", row), text)
		_ = f.MergeCell(sheetName, cell("A", row), cell(last, row))
		_ = f.SetCellStyle(sheetName, cell("A", row), cell("A", row), titleStyle)
		row++
	}
	row++

	// one block per summary record
	for _, b := range r.Blocks {
		for _, fld := range b.Identity {
			_ = f.SetCellValue(sheetName, cell("A", row), fld.Label)
			_ = f.SetCellValue(sheetName, cell("B", row), fld.Value)
			row++
		}

		for i, h := range QuestionHeaders() {
			_ = f.SetCellValue(sheetName, cell(colName(i+1), row), h)
		}
		_ = f.SetCellStyle(sheetName, cell("A", row), cell(last, row), headerStyle)
		row++

		writeRow(f, row, ScoreLabel, b.Scores)
		row++
		writeRow(f, row, PercentageLabel, b.Percentages)
		row += 2
	}

	// comments
	if len(r.Comments) > 0 {
		mid := colName(tableWidth/2 - 1)
		right := colName(tableWidth / 2)
		_ = f.SetCellValue(sheetName, cell("A", row), CollegeCommentsLabel)
		_ = f.MergeCell(sheetName, cell("A", row), cell(mid, row))
		_ = f.SetCellValue(sheetName, cell(right, row), DepartmentLabel)
		_ = f.MergeCell(sheetName, cell(right, row), cell(last, row))
		_ = f.SetCellStyle(sheetName, cell("A", row), cell(last, row), headerStyle)
		row++
		for _, c := range r.Comments {
			_ = f.SetCellValue(sheetName, cell("A", row), c.College)
			_ = f.MergeCell(sheetName, cell("A", row), cell(mid, row))
			_ = f.SetCellValue(sheetName, cell(right, row), c.Department)
			_ = f.MergeCell(sheetName, cell(right, row), cell(last, row))
			_ = f.SetCellStyle(sheetName, cell("A", row), cell(last, row), wrapStyle)
			row++
		}
		row++
	}

	// signature
	row++
	sig := colName(tableWidth - 3)
	_ = f.SetCellValue(sheetName, cell(sig, row), r.Signatory)
	_ = f.MergeCell(sheetName, cell(sig, row), cell(last, row))

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf, nil
}

func writeRow(f *excelize.File, row int, label string, values []string) {
	_ = f.SetCellValue(sheetName, cell("A", row), label)
	for i, v := range values {
		_ = f.SetCellValue(sheetName, cell(colName(i+1), row), v)
	}
}

// ── helpers ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
