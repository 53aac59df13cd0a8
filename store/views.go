package store

import (
	"math"
	"sort"

	"edoura-server-go/models"
)

type AttendanceSummary struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
	// Rate is present/(present+absent) as a rounded percentage; late days
	// count toward neither side.
	Rate int `json:"rate"`
}

type TeacherStats struct {
	Grades           int `json:"grades"`
	Students         int `json:"students"`
	PresentToday     int `json:"presentToday"`
	Memos            int `json:"memos"`
	MemoPaymentsPaid int `json:"memoPaymentsPaid"`
}

type MemoStatus struct {
	models.Memo
	Paid bool `json:"paid"`
}

// ParentRecord is everything a parent sees for one child.
type ParentRecord struct {
	Student          models.Student            `json:"student"`
	Grade            *models.Grade             `json:"grade"`
	Teacher          *models.Teacher           `json:"teacher,omitempty"`
	Summary          AttendanceSummary         `json:"summary"`
	RecentAttendance []models.AttendanceRecord `json:"recentAttendance"`
	Memos            []MemoStatus              `json:"memos"`
	PaidMonths       []int                     `json:"paidMonths"`
	Year             int                       `json:"year"`
}

func summarize(records []models.AttendanceRecord) AttendanceSummary {
	var sum AttendanceSummary
	for _, r := range records {
		switch r.Status {
		case models.StatusPresent:
			sum.Present++
		case models.StatusAbsent:
			sum.Absent++
		case models.StatusLate:
			sum.Late++
		}
	}
	if total := sum.Present + sum.Absent; total > 0 {
		sum.Rate = int(math.Round(float64(sum.Present) / float64(total) * 100))
	}
	return sum
}

// recent returns up to n records, latest date first. Dates are compared as
// strings, which orders YYYY-MM-DD correctly.
func recent(records []models.AttendanceRecord, n int) []models.AttendanceRecord {
	out := append([]models.AttendanceRecord{}, records...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// AttendanceSummary counts a student's attendance. Unknown students yield zeros.
func (s *DataStore) AttendanceSummary(studentID string) AttendanceSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.studentByID(studentID)
	if st == nil {
		return AttendanceSummary{}
	}
	return summarize(st.Attendance)
}

// RecentAttendance returns the student's n most recent attendance records.
func (s *DataStore) RecentAttendance(studentID string, n int) []models.AttendanceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.studentByID(studentID)
	if st == nil {
		return []models.AttendanceRecord{}
	}
	return recent(st.Attendance, n)
}

// TeacherStats is the dashboard view of one teacher for the given day.
func (s *DataStore) TeacherStats(teacherID, today string) TeacherStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ts TeacherStats
	for _, g := range s.grades {
		if g.TeacherID == teacherID {
			ts.Grades++
		}
	}
	for _, st := range s.students {
		if st.TeacherID != teacherID {
			continue
		}
		ts.Students++
		for _, r := range st.Attendance {
			if r.Date == today && r.Status == models.StatusPresent {
				ts.PresentToday++
				break
			}
		}
	}
	for _, m := range s.memos {
		if m.TeacherID == teacherID {
			ts.Memos++
			ts.MemoPaymentsPaid += m.PaidCount()
		}
	}
	return ts
}

// ParentRecord assembles the parent-portal view of a student for year.
func (s *DataStore) ParentRecord(studentID string, year int) (*ParentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.studentByID(studentID)
	if st == nil {
		return nil, ErrStudentNotFound
	}
	rec := &ParentRecord{
		Student:          *st,
		Grade:            s.gradeByID(st.GradeID),
		Teacher:          s.teacherByID(st.TeacherID),
		Summary:          summarize(st.Attendance),
		RecentAttendance: recent(st.Attendance, 10),
		Memos:            []MemoStatus{},
		PaidMonths:       s.paidMonths(st.ID, year),
		Year:             year,
	}
	if rec.Teacher != nil {
		rec.Teacher.Password = ""
	}
	for _, m := range s.memos {
		if m.GradeID == st.GradeID {
			rec.Memos = append(rec.Memos, MemoStatus{Memo: cloneMemo(m), Paid: m.Payments[st.ID]})
		}
	}
	return rec, nil
}
