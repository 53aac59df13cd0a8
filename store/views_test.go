package store

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"edoura-server-go/models"
)

func TestAttendanceSummary(t *testing.T) {
	s := newTestStore(t, nil)
	fx := seed(t, s, "Aisha")
	st := addStudent(t, s, fx.grade.ID, "ST-12345678", "Omar")

	assert.Equal(t, AttendanceSummary{}, s.AttendanceSummary(st.ID))

	for date, status := range map[string]models.AttendanceStatus{
		"2025-03-01": models.StatusPresent,
		"2025-03-02": models.StatusPresent,
		"2025-03-03": models.StatusAbsent,
		"2025-03-04": models.StatusLate,
	} {
		require.NoError(t, s.UpdateAttendance(st.ID, date, status))
	}

	assert.Equal(t, AttendanceSummary{Present: 2, Absent: 1, Late: 1, Rate: 67}, s.AttendanceSummary(st.ID))

	recent := s.RecentAttendance(st.ID, 2)
	require.Len(t, recent, 2)
	assert.Equal(t, "2025-03-04", recent[0].Date)
	assert.Equal(t, "2025-03-03", recent[1].Date)
	assert.Empty(t, s.RecentAttendance("ST-00000000", 5))
}

func TestTeacherStats(t *testing.T) {
	s := newTestStore(t, nil)
	fx := seed(t, s, "Aisha")
	a := addStudent(t, s, fx.grade.ID, "ST-11111111", "A")
	b := addStudent(t, s, fx.grade.ID, "ST-22222222", "B")
	memo, err := s.AddMemo(NewMemo{GradeID: fx.grade.ID, Title: "Trip"})
	require.NoError(t, err)

	require.NoError(t, s.UpdateAttendance(a.ID, "2025-03-10", models.StatusPresent))
	require.NoError(t, s.UpdateAttendance(b.ID, "2025-03-10", models.StatusLate))
	require.NoError(t, s.UpdateMemoPayment(memo.ID, a.ID, true))
	require.NoError(t, s.UpdateMemoPayment(memo.ID, b.ID, true))

	assert.Equal(t, TeacherStats{
		Grades:           1,
		Students:         2,
		PresentToday:     1,
		Memos:            1,
		MemoPaymentsPaid: 2,
	}, s.TeacherStats(fx.teacher.ID, "2025-03-10"))
}

func TestParentRecord(t *testing.T) {
	s := newTestStore(t, nil)
	fx := seed(t, s, "Aisha")
	st := addStudent(t, s, fx.grade.ID, "ST-12345678", "Omar")
	memo, err := s.AddMemo(NewMemo{GradeID: fx.grade.ID, Title: "Trip"})
	require.NoError(t, err)
	require.NoError(t, s.UpdateMemoPayment(memo.ID, st.ID, true))
	require.NoError(t, s.UpdateMonthlyPayment(st.ID, 2, 2025, true))
	require.NoError(t, s.UpdateAttendance(st.ID, "2025-03-10", models.StatusPresent))

	rec, err := s.ParentRecord(st.StudentID, 2025)
	require.NoError(t, err)

	assert.Equal(t, st.StudentID, rec.Student.StudentID)
	require.NotNil(t, rec.Grade)
	assert.Equal(t, fx.grade.ID, rec.Grade.ID)
	require.NotNil(t, rec.Teacher)
	assert.Equal(t, fx.teacher.Name, rec.Teacher.Name)
	assert.Empty(t, rec.Teacher.Password)
	assert.Equal(t, []int{2}, rec.PaidMonths)
	require.Len(t, rec.Memos, 1)
	assert.True(t, rec.Memos[0].Paid)
	assert.Equal(t, 100, rec.Summary.Rate)
	assert.Len(t, rec.RecentAttendance, 1)

	// stored password untouched
	assert.NotEmpty(t, s.GetTeacherByID(fx.teacher.ID).Password)

	_, err = s.ParentRecord("ST-00000000", 2025)
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestImportStudents(t *testing.T) {
	s := newTestStore(t, nil)
	fx := seed(t, s, "Aisha")

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Name", "Student Number", "Parent Number", "Phone", "Location"},
		{"Omar", "7", "0100", "0111", "Giza"},
		{"", "8", "0100"},
		{"Mona", "9"},
		{"Laila", "10", "0122"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	n, err := s.ImportStudents(&buf, fx.grade.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	students := s.StudentsByGrade(fx.grade.ID)
	require.Len(t, students, 2)
	assert.Equal(t, "Omar", students[0].Name)
	assert.Equal(t, "0111", students[0].PhoneNumber)
	assert.Equal(t, "Giza", students[0].Location)
	assert.Equal(t, fx.teacher.ID, students[0].TeacherID)
	assert.Equal(t, "Laila", students[1].Name)
	assert.NotEqual(t, students[0].StudentID, students[1].StudentID)

	_, err = s.ImportStudents(bytes.NewReader(nil), "nope")
	assert.ErrorIs(t, err, ErrGradeNotFound)
	_, err = s.ImportStudents(bytes.NewReader([]byte("not a workbook")), fx.grade.ID)
	assert.Error(t, err)
}

func TestExportGrade(t *testing.T) {
	s := newTestStore(t, nil)
	fx := seed(t, s, "Aisha")
	st := addStudent(t, s, fx.grade.ID, "ST-12345678", "Omar")
	require.NoError(t, s.UpdateAttendance(st.ID, "2025-03-10", models.StatusPresent))
	require.NoError(t, s.UpdateMonthlyPayment(st.ID, 1, 2025, true))
	require.NoError(t, s.UpdateMonthlyPayment(st.ID, 3, 2025, true))

	var buf bytes.Buffer
	require.NoError(t, s.ExportGrade(&buf, fx.grade.ID, 2025))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(fx.grade.Name)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Student ID", rows[0][0])
	assert.Equal(t, []string{"ST-12345678", "Omar", "", "01000000000", "", "1", "0", "0", "100", "1,3"}, rows[1])

	assert.ErrorIs(t, s.ExportGrade(&buf, "nope", 2025), ErrGradeNotFound)
}
