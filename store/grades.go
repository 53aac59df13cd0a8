package store

import (
	"go.uber.org/zap"

	"edoura-server-go/models"
)

type NewGrade struct {
	Name      string `json:"name" validate:"required"`
	GroupName string `json:"groupName"`
	Location  string `json:"location"`
	TeacherID string `json:"teacherId" validate:"required"`
}

// AddGrade appends a grade owned by an existing teacher.
func (s *DataStore) AddGrade(in NewGrade) (models.Grade, error) {
	if err := s.check(in); err != nil {
		return models.Grade{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.teacherByID(in.TeacherID) == nil {
		return models.Grade{}, ErrTeacherNotFound
	}
	g := models.Grade{
		ID:        s.newID(),
		Name:      in.Name,
		GroupName: in.GroupName,
		Location:  in.Location,
		TeacherID: in.TeacherID,
	}

	sn := s.snapshot()
	s.grades = push(s.grades, g)
	if err := s.commit(sn, gradesKey); err != nil {
		return models.Grade{}, err
	}
	s.log.Info("grade added", zap.String("id", g.ID), zap.String("teacherId", g.TeacherID))
	return g, nil
}

// DeleteGrade removes the grade, each of its students (with their payments
// and memo entries) and every memo of the grade.
func (s *DataStore) DeleteGrade(gradeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gradeByID(gradeID) == nil {
		return nil
	}
	sn := s.snapshot()
	s.deleteGrade(gradeID)
	if err := s.commit(sn, gradesKey, studentsKey, monthlyPaymentsKey, memosKey); err != nil {
		return err
	}
	s.log.Info("grade deleted", zap.String("id", gradeID))
	return nil
}

func (s *DataStore) deleteGrade(gradeID string) {
	s.grades = filter(s.grades, func(g models.Grade) bool { return g.ID != gradeID })
	for _, st := range s.students {
		if st.GradeID == gradeID {
			s.deleteStudent(st.ID)
		}
	}
	s.memos = filter(s.memos, func(m models.Memo) bool { return m.GradeID != gradeID })
}

func (s *DataStore) GetGradeByID(id string) *models.Grade {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gradeByID(id)
}

func (s *DataStore) gradeByID(id string) *models.Grade {
	return find(s.grades, func(g models.Grade) bool { return g.ID == id })
}

func (s *DataStore) GradesByTeacher(teacherID string) []models.Grade {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter(s.grades, func(g models.Grade) bool { return g.TeacherID == teacherID })
}
