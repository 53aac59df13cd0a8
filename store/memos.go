package store

import (
	"go.uber.org/zap"

	"edoura-server-go/models"
)

type NewMemo struct {
	GradeID     string `json:"gradeId" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Date        string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	TeacherID   string `json:"teacherId"`
}

// AddMemo appends a memo for a grade with every current student of the
// grade marked unpaid.
func (s *DataStore) AddMemo(in NewMemo) (models.Memo, error) {
	if err := s.check(in); err != nil {
		return models.Memo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.gradeByID(in.GradeID)
	if g == nil {
		return models.Memo{}, ErrGradeNotFound
	}
	if in.TeacherID == "" {
		in.TeacherID = g.TeacherID
	}
	if in.Date == "" {
		in.Date = s.today()
	}
	m := models.Memo{
		ID:          s.newID(),
		GradeID:     in.GradeID,
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		TeacherID:   in.TeacherID,
		Payments:    map[string]bool{},
	}
	for _, st := range s.students {
		if st.GradeID == in.GradeID {
			m.Payments[st.ID] = false
		}
	}

	sn := s.snapshot()
	s.memos = push(s.memos, m)
	if err := s.commit(sn, memosKey); err != nil {
		return models.Memo{}, err
	}
	s.log.Info("memo added", zap.String("id", m.ID), zap.String("gradeId", m.GradeID))
	return cloneMemo(m), nil
}

// UpdateMemoPayment sets payments[studentID] on the memo. Unknown memos are
// ignored; the student must belong to the memo's grade.
func (s *DataStore) UpdateMemoPayment(memoID, studentID string, paid bool) error {
	if err := s.checkVar("studentId", studentID, "required"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.memos, func(m models.Memo) bool { return m.ID == memoID })
	if i < 0 {
		return nil
	}
	m := cloneMemo(s.memos[i])
	if st := s.studentByID(studentID); st == nil || st.GradeID != m.GradeID {
		return ErrStudentNotFound
	}
	m.Payments[studentID] = paid

	sn := s.snapshot()
	s.memos = replaceAt(s.memos, i, m)
	return s.commit(sn, memosKey)
}

func (s *DataStore) DeleteMemo(memoID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.memos, func(m models.Memo) bool { return m.ID == memoID }) < 0 {
		return nil
	}
	sn := s.snapshot()
	s.memos = filter(s.memos, func(m models.Memo) bool { return m.ID != memoID })
	if err := s.commit(sn, memosKey); err != nil {
		return err
	}
	s.log.Info("memo deleted", zap.String("id", memoID))
	return nil
}

func (s *DataStore) GetMemoByID(id string) *models.Memo {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := find(s.memos, func(m models.Memo) bool { return m.ID == id })
	if m == nil {
		return nil
	}
	c := cloneMemo(*m)
	return &c
}

func (s *DataStore) MemosByGrade(gradeID string) []models.Memo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memosWhere(func(m models.Memo) bool { return m.GradeID == gradeID })
}

func (s *DataStore) MemosByTeacher(teacherID string) []models.Memo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memosWhere(func(m models.Memo) bool { return m.TeacherID == teacherID })
}

func (s *DataStore) memosWhere(keep func(models.Memo) bool) []models.Memo {
	out := filter(s.memos, keep)
	for i := range out {
		out[i] = cloneMemo(out[i])
	}
	return out
}
