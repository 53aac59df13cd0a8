package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edoura-server-go/models"
)

func TestDeleteStudent(t *testing.T) {
	s := newTestStore(t, nil)
	fx := seed(t, s, "Aisha")
	a := addStudent(t, s, fx.grade.ID, "ST-11111111", "A")
	b := addStudent(t, s, fx.grade.ID, "ST-22222222", "B")
	memo, err := s.AddMemo(NewMemo{GradeID: fx.grade.ID, Title: "Trip"})
	require.NoError(t, err)
	require.NoError(t, s.UpdateMonthlyPayment(a.ID, 1, 2025, true))
	require.NoError(t, s.UpdateMonthlyPayment(b.ID, 1, 2025, true))

	require.NoError(t, s.DeleteStudent(a.ID))

	assert.Nil(t, s.GetStudentByStudentID(a.ID))
	assert.Empty(t, s.MonthlyPayments(a.ID))
	assert.Len(t, s.MonthlyPayments(b.ID), 1)
	assert.Equal(t, map[string]bool{b.ID: false}, s.GetMemoByID(memo.ID).Payments)

	assert.NoError(t, s.DeleteStudent("ST-00000000"))
}

func TestDeleteGrade_Cascade(t *testing.T) {
	s := newTestStore(t, nil)
	fx := seed(t, s, "Aisha")
	other, err := s.AddGrade(NewGrade{Name: "Grade 4", TeacherID: fx.teacher.ID})
	require.NoError(t, err)

	var inGrade []models.Student
	for _, id := range []string{"ST-11111111", "ST-22222222", "ST-33333333"} {
		st := addStudent(t, s, fx.grade.ID, id, "S "+id)
		require.NoError(t, s.UpdateMonthlyPayment(st.ID, 2, 2025, true))
		inGrade = append(inGrade, st)
	}
	keep := addStudent(t, s, other.ID, "ST-44444444", "Keep")
	_, err = s.AddMemo(NewMemo{GradeID: fx.grade.ID, Title: "Trip"})
	require.NoError(t, err)
	otherMemo, err := s.AddMemo(NewMemo{GradeID: other.ID, Title: "Books"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteGrade(fx.grade.ID))

	assert.Nil(t, s.GetGradeByID(fx.grade.ID))
	assert.Empty(t, s.StudentsByGrade(fx.grade.ID))
	assert.Empty(t, s.MemosByGrade(fx.grade.ID))
	for _, st := range inGrade {
		assert.Nil(t, s.GetStudentByStudentID(st.StudentID))
		assert.Empty(t, s.MonthlyPayments(st.ID))
	}

	assert.NotNil(t, s.GetTeacherByID(fx.teacher.ID))
	assert.NotNil(t, s.GetStudentByStudentID(keep.StudentID))
	assert.NotNil(t, s.GetMemoByID(otherMemo.ID))
}

func TestDeleteGrade_ScenarioB(t *testing.T) {
	s := newTestStore(t, nil)
	fx := seed(t, s, "Teacher T")
	s1 := addStudent(t, s, fx.grade.ID, "ST-11111111", "S1")
	s2 := addStudent(t, s, fx.grade.ID, "ST-22222222", "S2")

	require.NoError(t, s.DeleteGrade(fx.grade.ID))

	assert.Nil(t, s.GetStudentByStudentID(s1.StudentID))
	assert.Nil(t, s.GetStudentByStudentID(s2.StudentID))
	assert.NotNil(t, s.GetTeacherByID(fx.teacher.ID))
}

func TestDeleteTeacher_FullCascade(t *testing.T) {
	s := newTestStore(t, nil)
	fx := seed(t, s, "Aisha")
	survivor := seed(t, s, "Omar")

	st := addStudent(t, s, fx.grade.ID, "ST-11111111", "A")
	kept := addStudent(t, s, survivor.grade.ID, "ST-22222222", "B")
	require.NoError(t, s.UpdateMonthlyPayment(st.ID, 1, 2025, true))
	require.NoError(t, s.UpdateMonthlyPayment(kept.ID, 1, 2025, true))
	_, err := s.AddExam(NewExam{Name: "Quiz", GradeID: fx.grade.ID, FullMark: 10})
	require.NoError(t, err)
	_, err = s.AddMemo(NewMemo{GradeID: fx.grade.ID, Title: "Trip"})
	require.NoError(t, err)
	survivorMemo, err := s.AddMemo(NewMemo{GradeID: survivor.grade.ID, Title: "Books"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteTeacher(fx.teacher.ID))

	assert.Nil(t, s.GetTeacherByID(fx.teacher.ID))
	assert.Empty(t, s.GradesByTeacher(fx.teacher.ID))
	assert.Empty(t, s.StudentsByTeacher(fx.teacher.ID))
	assert.Empty(t, s.ExamsByTeacher(fx.teacher.ID))
	assert.Empty(t, s.MemosByTeacher(fx.teacher.ID))
	assert.Empty(t, s.MonthlyPayments(st.ID))

	assert.NotNil(t, s.GetTeacherByID(survivor.teacher.ID))
	assert.NotNil(t, s.GetStudentByStudentID(kept.StudentID))
	assert.Len(t, s.MonthlyPayments(kept.ID), 1)
	assert.NotNil(t, s.GetMemoByID(survivorMemo.ID))

	assert.NoError(t, s.DeleteTeacher("nope"))
}

func TestMemoPayments(t *testing.T) {
	s := newTestStore(t, nil)
	fx := seed(t, s, "Aisha")
	a := addStudent(t, s, fx.grade.ID, "ST-11111111", "A")
	b := addStudent(t, s, fx.grade.ID, "ST-22222222", "B")

	memo, err := s.AddMemo(NewMemo{GradeID: fx.grade.ID, Title: "Trip", Description: "Zoo"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{a.ID: false, b.ID: false}, memo.Payments)
	assert.Equal(t, fx.teacher.ID, memo.TeacherID)

	require.NoError(t, s.UpdateMemoPayment(memo.ID, a.ID, true))
	require.NoError(t, s.UpdateMemoPayment(memo.ID, a.ID, false))
	assert.Equal(t, map[string]bool{a.ID: false, b.ID: false}, s.GetMemoByID(memo.ID).Payments)

	require.NoError(t, s.UpdateMemoPayment(memo.ID, b.ID, true))
	assert.Equal(t, 1, s.GetMemoByID(memo.ID).PaidCount())

	// a student joining later gets an unpaid entry
	c := addStudent(t, s, fx.grade.ID, "ST-33333333", "C")
	paid, ok := s.GetMemoByID(memo.ID).Payments[c.ID]
	assert.True(t, ok)
	assert.False(t, paid)

	assert.NoError(t, s.UpdateMemoPayment("nope", a.ID, true))

	// only students of the memo's grade can be marked
	other, err := s.AddGrade(NewGrade{Name: "Grade 4", TeacherID: fx.teacher.ID})
	require.NoError(t, err)
	outsider := addStudent(t, s, other.ID, "ST-44444444", "D")
	assert.ErrorIs(t, s.UpdateMemoPayment(memo.ID, "ST-99999999", true), ErrStudentNotFound)
	assert.ErrorIs(t, s.UpdateMemoPayment(memo.ID, outsider.ID, true), ErrStudentNotFound)
	payments := s.GetMemoByID(memo.ID).Payments
	assert.Len(t, payments, 3)
	assert.NotContains(t, payments, "ST-99999999")
	assert.NotContains(t, payments, outsider.ID)

	require.NoError(t, s.DeleteMemo(memo.ID))
	assert.Nil(t, s.GetMemoByID(memo.ID))
	assert.NoError(t, s.DeleteMemo(memo.ID))
}

func TestAddGrade_UnknownTeacher(t *testing.T) {
	s := newTestStore(t, nil)
	_, err := s.AddGrade(NewGrade{Name: "G", TeacherID: "nope"})
	assert.ErrorIs(t, err, ErrTeacherNotFound)

	_, err = s.AddMemo(NewMemo{GradeID: "nope", Title: "T"})
	assert.ErrorIs(t, err, ErrGradeNotFound)
}
