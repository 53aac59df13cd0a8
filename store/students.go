package store

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"edoura-server-go/generators"
	"edoura-server-go/models"
)

type NewStudent struct {
	StudentID        string    `json:"studentId" validate:"required,studentid"`
	Name             string    `json:"name" validate:"required"`
	StudentNumber    string    `json:"studentNumber"`
	PhoneNumber      string    `json:"phoneNumber"`
	ParentNumber     string    `json:"parentNumber" validate:"required"`
	Location         string    `json:"location"`
	GradeID          string    `json:"gradeId" validate:"required"`
	TeacherID        string    `json:"teacherId"`
	RegistrationDate time.Time `json:"registrationDate"`
}

// AddStudent appends a student whose id is its caller-supplied StudentID.
// TeacherID defaults to the grade's owner and RegistrationDate to now.
// The student gets an unpaid entry in every memo of its grade.
func (s *DataStore) AddStudent(in NewStudent) (models.Student, error) {
	if err := s.check(in); err != nil {
		return models.Student{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addStudent(in)
}

// EnrollStudent is AddStudent with a freshly generated, unused StudentID
// when the caller leaves it empty.
func (s *DataStore) EnrollStudent(in NewStudent) (models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.StudentID == "" {
		id, err := s.uniqueStudentID()
		if err != nil {
			return models.Student{}, err
		}
		in.StudentID = id
	}
	if err := s.check(in); err != nil {
		return models.Student{}, err
	}
	return s.addStudent(in)
}

// NewStudentID returns an ST-######## id not held by any student.
func (s *DataStore) NewStudentID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uniqueStudentID()
}

func (s *DataStore) uniqueStudentID() (string, error) {
	id, err := generators.Unique(s.newStudentID, func(id string) bool { return s.studentByID(id) != nil }, generateAttempts)
	if err != nil {
		return "", fmt.Errorf("student id: %w", err)
	}
	return id, nil
}

func (s *DataStore) addStudent(in NewStudent) (models.Student, error) {
	if s.studentByID(in.StudentID) != nil {
		return models.Student{}, ErrStudentExists
	}
	g := s.gradeByID(in.GradeID)
	if g == nil {
		return models.Student{}, ErrGradeNotFound
	}
	if in.TeacherID == "" {
		in.TeacherID = g.TeacherID
	}
	if in.RegistrationDate.IsZero() {
		in.RegistrationDate = s.now()
	}

	st := models.Student{
		ID:               in.StudentID,
		StudentID:        in.StudentID,
		Name:             in.Name,
		StudentNumber:    in.StudentNumber,
		PhoneNumber:      in.PhoneNumber,
		ParentNumber:     in.ParentNumber,
		Location:         in.Location,
		GradeID:          in.GradeID,
		TeacherID:        in.TeacherID,
		RegistrationDate: in.RegistrationDate,
		Attendance:       []models.AttendanceRecord{},
		ExamScores:       []models.ExamScore{},
	}

	sn := s.snapshot()
	s.students = push(s.students, st)
	memosTouched := false
	for i, m := range s.memos {
		if m.GradeID != st.GradeID {
			continue
		}
		if _, ok := m.Payments[st.ID]; ok {
			continue
		}
		m = cloneMemo(m)
		m.Payments[st.ID] = false
		s.memos = replaceAt(s.memos, i, m)
		memosTouched = true
	}

	keys := []string{studentsKey}
	if memosTouched {
		keys = append(keys, memosKey)
	}
	if err := s.commit(sn, keys...); err != nil {
		return models.Student{}, err
	}
	s.log.Info("student added", zap.String("studentId", st.StudentID), zap.String("gradeId", st.GradeID))
	return cloneStudent(st), nil
}

// DeleteStudent removes the student, its monthly payments and its entry in
// every memo.
func (s *DataStore) DeleteStudent(studentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.studentByID(studentID) == nil {
		return nil
	}
	sn := s.snapshot()
	s.deleteStudent(studentID)
	if err := s.commit(sn, studentsKey, monthlyPaymentsKey, memosKey); err != nil {
		return err
	}
	s.log.Info("student deleted", zap.String("studentId", studentID))
	return nil
}

func (s *DataStore) deleteStudent(studentID string) {
	s.students = filter(s.students, func(st models.Student) bool { return st.ID != studentID })
	s.payments = filter(s.payments, func(p models.MonthlyPayment) bool { return p.StudentID != studentID })

	memos := make([]models.Memo, len(s.memos))
	for i, m := range s.memos {
		if _, ok := m.Payments[studentID]; ok {
			m = cloneMemo(m)
			delete(m.Payments, studentID)
		}
		memos[i] = m
	}
	s.memos = memos
}

// UpdateAttendance records status for (studentID, date), overwriting an
// existing record for the same date. Unknown students are ignored.
func (s *DataStore) UpdateAttendance(studentID, date string, status models.AttendanceStatus) error {
	if err := s.checkVar("date", date, "required,"+dateTag); err != nil {
		return err
	}
	if err := s.checkVar("status", string(status), "oneof=present absent late"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.studentIndex(studentID)
	if i < 0 {
		return nil
	}
	st := cloneStudent(s.students[i])
	if j := indexOf(st.Attendance, func(r models.AttendanceRecord) bool { return r.Date == date }); j >= 0 {
		st.Attendance[j].Status = status
	} else {
		st.Attendance = append(st.Attendance, models.AttendanceRecord{
			ID:        s.newID(),
			Date:      date,
			Status:    status,
			StudentID: st.ID,
		})
	}

	sn := s.snapshot()
	s.students = replaceAt(s.students, i, st)
	return s.commit(sn, studentsKey)
}

// UpdateExamScore records score for (studentID, examID), overwriting an
// existing score for the same exam. Unknown students are ignored. When the
// exam is known the score must lie within 0..fullMark.
func (s *DataStore) UpdateExamScore(studentID, examID string, score float64) error {
	if err := s.checkVar("examId", examID, "required"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e := s.examByID(examID); e != nil && (score < 0 || score > float64(e.FullMark)) {
		return fmt.Errorf("%w: %v not in 0..%d", ErrScoreOutOfRange, score, e.FullMark)
	}
	if score < 0 {
		return fmt.Errorf("%w: %v is negative", ErrScoreOutOfRange, score)
	}

	i := s.studentIndex(studentID)
	if i < 0 {
		return nil
	}
	st := cloneStudent(s.students[i])
	if j := indexOf(st.ExamScores, func(es models.ExamScore) bool { return es.ExamName == examID }); j >= 0 {
		st.ExamScores[j].Score = score
	} else {
		st.ExamScores = append(st.ExamScores, models.ExamScore{
			ID:        s.newID(),
			ExamName:  examID,
			Score:     score,
			StudentID: st.ID,
			Date:      s.today(),
		})
	}

	sn := s.snapshot()
	s.students = replaceAt(s.students, i, st)
	return s.commit(sn, studentsKey)
}

// GetStudentByStudentID returns the student holding studentID, or nil.
func (s *DataStore) GetStudentByStudentID(studentID string) *models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.studentByID(studentID)
}

func (s *DataStore) studentByID(studentID string) *models.Student {
	i := s.studentIndex(studentID)
	if i < 0 {
		return nil
	}
	st := cloneStudent(s.students[i])
	return &st
}

func (s *DataStore) studentIndex(studentID string) int {
	return indexOf(s.students, func(st models.Student) bool { return st.StudentID == studentID })
}

func (s *DataStore) StudentsByGrade(gradeID string) []models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.studentsWhere(func(st models.Student) bool { return st.GradeID == gradeID })
}

func (s *DataStore) StudentsByTeacher(teacherID string) []models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.studentsWhere(func(st models.Student) bool { return st.TeacherID == teacherID })
}

func (s *DataStore) studentsWhere(keep func(models.Student) bool) []models.Student {
	out := filter(s.students, keep)
	for i := range out {
		out[i] = cloneStudent(out[i])
	}
	return out
}
