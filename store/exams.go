package store

import (
	"go.uber.org/zap"

	"edoura-server-go/models"
)

type NewExam struct {
	Name      string `json:"name" validate:"required"`
	TeacherID string `json:"teacherId"`
	GradeID   string `json:"gradeId" validate:"required"`
	GroupName string `json:"groupName"`
	FullMark  int    `json:"fullMark" validate:"min=1,max=999"`
	Date      string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// ExamResult is one student's row in an exam's derived score sheet.
type ExamResult struct {
	StudentID string  `json:"studentId"`
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Recorded  bool    `json:"recorded"`
}

// AddExam appends an exam scoped to one grade. TeacherID defaults to the
// grade's owner and Date to today.
func (s *DataStore) AddExam(in NewExam) (models.Exam, error) {
	if err := s.check(in); err != nil {
		return models.Exam{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.gradeByID(in.GradeID)
	if g == nil {
		return models.Exam{}, ErrGradeNotFound
	}
	if in.TeacherID == "" {
		in.TeacherID = g.TeacherID
	}
	if in.Date == "" {
		in.Date = s.today()
	}
	e := models.Exam{
		ID:        s.newID(),
		Name:      in.Name,
		TeacherID: in.TeacherID,
		GradeID:   in.GradeID,
		GroupName: in.GroupName,
		FullMark:  in.FullMark,
		Date:      in.Date,
	}

	sn := s.snapshot()
	s.exams = push(s.exams, e)
	if err := s.commit(sn, examsKey); err != nil {
		return models.Exam{}, err
	}
	s.log.Info("exam added", zap.String("id", e.ID), zap.String("gradeId", e.GradeID))
	return e, nil
}

func (s *DataStore) GetExamByID(id string) *models.Exam {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.examByID(id)
}

func (s *DataStore) examByID(id string) *models.Exam {
	return find(s.exams, func(e models.Exam) bool { return e.ID == id })
}

func (s *DataStore) ExamsByGrade(gradeID string) []models.Exam {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter(s.exams, func(e models.Exam) bool { return e.GradeID == gradeID })
}

func (s *DataStore) ExamsByTeacher(teacherID string) []models.Exam {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter(s.exams, func(e models.Exam) bool { return e.TeacherID == teacherID })
}

// ExamResults derives the exam's score sheet from the students' ExamScore
// records: one row per student of the exam's grade.
func (s *DataStore) ExamResults(examID string) ([]ExamResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.examByID(examID)
	if e == nil {
		return nil, ErrExamNotFound
	}
	results := []ExamResult{}
	for _, st := range s.students {
		if st.GradeID != e.GradeID {
			continue
		}
		r := ExamResult{StudentID: st.StudentID, Name: st.Name}
		if sc := find(st.ExamScores, func(es models.ExamScore) bool { return es.ExamName == examID }); sc != nil {
			r.Score = sc.Score
			r.Recorded = true
		}
		results = append(results, r)
	}
	return results, nil
}
