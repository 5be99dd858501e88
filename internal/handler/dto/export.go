package dto

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/studyplan-api/internal/service/planner"
)

const weekSheetName = "Week plan"

var weekPlanHeaders = []string{
	"Date", "Day", "Slot", "Subject", "Chapter", "Topic", "Type", "Priority",
	"Minutes", "Questions", "XP", "Status", "Reason",
}

// weekPlanRows разворачивает неделю в строки: одна задача: одна строка.
// День без задач даёт строку только с датой, чтобы он не пропал из таблицы.
func weekPlanRows(week []planner.DayPlan) [][]interface{} {
	var rows [][]interface{}
	for _, day := range week {
		if len(day.Tasks) == 0 {
			rows = append(rows, []interface{}{day.Date, day.DayName, "", "", "", "", "", "", 0, 0, 0, "", ""})
			continue
		}
		for _, t := range day.Tasks {
			rows = append(rows, []interface{}{
				day.Date,
				day.DayName,
				string(t.TimeSlot),
				sanitizeForExcel(t.Subject),
				sanitizeForExcel(t.Chapter),
				sanitizeForExcel(t.Topic),
				string(t.Type),
				string(t.Priority),
				t.AllocatedMinutes,
				t.QuestionsTarget,
				t.XPReward,
				string(t.Status),
				sanitizeForExcel(t.Reason),
			})
		}
	}
	return rows
}

// WriteWeekPlanCSV пишет неделю в CSV (с BOM для корректного UTF-8 в Excel)
func WriteWeekPlanCSV(w io.Writer, week []planner.DayPlan) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(weekPlanHeaders); err != nil {
		return err
	}
	for _, row := range weekPlanRows(week) {
		record := make([]string, len(row))
		for i, v := range row {
			switch val := v.(type) {
			case int:
				record[i] = strconv.Itoa(val)
			default:
				record[i] = fmt.Sprint(val)
			}
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteWeekPlanXLSX пишет неделю в Excel через StreamWriter
func WriteWeekPlanXLSX(w io.Writer, week []planner.DayPlan) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", weekSheetName); err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(weekSheetName)
	if err != nil {
		return fmt.Errorf("create stream writer: %w", err)
	}

	headers := make([]interface{}, len(weekPlanHeaders))
	for i, h := range weekPlanHeaders {
		headers[i] = h
	}
	if err := sw.SetRow("A1", headers); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}

	for i, row := range weekPlanRows(week) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return f.Write(w)
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
