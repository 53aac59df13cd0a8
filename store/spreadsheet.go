package store

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var rosterHeader = []interface{}{
	"Student ID", "Name", "Student Number", "Parent Number", "Phone Number",
	"Present", "Absent", "Late", "Attendance Rate", "Paid Months",
}

// ImportStudents enrolls the students listed on the first sheet of an xlsx
// file into gradeID. Row 1 is a header; columns are name, student number,
// parent number, phone number, location. Rows missing a name or parent
// number are skipped. It returns how many students were enrolled.
func (s *DataStore) ImportStudents(file io.Reader, gradeID string) (int, error) {
	if s.GetGradeByID(gradeID) == nil {
		return 0, ErrGradeNotFound
	}

	f, err := excelize.OpenReader(file)
	if err != nil {
		return 0, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			s.log.Warn("failed to close excel file", zap.Error(err))
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return 0, errors.New("excel file does not contain any sheets")
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return 0, fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}

	cell := func(row []string, i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	imported := 0
	for i, row := range rows {
		if i == 0 {
			continue
		}
		in := NewStudent{
			Name:          cell(row, 0),
			StudentNumber: cell(row, 1),
			ParentNumber:  cell(row, 2),
			PhoneNumber:   cell(row, 3),
			Location:      cell(row, 4),
			GradeID:       gradeID,
		}
		if in.Name == "" || in.ParentNumber == "" {
			s.log.Debug("skipping incomplete row", zap.Int("row", i+1))
			continue
		}
		if _, err := s.EnrollStudent(in); err != nil {
			s.log.Warn("failed to import row", zap.Int("row", i+1), zap.Error(err))
			continue
		}
		imported++
	}

	s.log.Info("students imported", zap.String("gradeId", gradeID), zap.Int("count", imported))
	return imported, nil
}

// ExportGrade writes the grade's roster with attendance and the months paid
// in year as an xlsx workbook.
func (s *DataStore) ExportGrade(w io.Writer, gradeID string, year int) error {
	g := s.GetGradeByID(gradeID)
	if g == nil {
		return ErrGradeNotFound
	}
	students := s.StudentsByGrade(gradeID)

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.log.Warn("failed to close excel file", zap.Error(err))
		}
	}()

	sheet := g.Name
	if sheet == "" || utf8.RuneCountInString(sheet) > 31 || strings.ContainsAny(sheet, `:\/?*[]`) {
		sheet = "Roster"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &rosterHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, st := range students {
		sum := summarize(st.Attendance)
		row := []interface{}{
			st.StudentID, st.Name, st.StudentNumber, st.ParentNumber, st.PhoneNumber,
			sum.Present, sum.Absent, sum.Late, sum.Rate,
			formatMonths(s.PaidMonths(st.ID, year)),
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", st.StudentID, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func formatMonths(months []int) string {
	parts := make([]string, len(months))
	for i, m := range months {
		parts[i] = fmt.Sprint(m)
	}
	return strings.Join(parts, ",")
}
