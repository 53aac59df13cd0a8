package models

import "time"

// AttendanceStatus is one of present, absent, late.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
)

// Teacher is a staff account. Slug is fixed at creation and never re-derived.
type Teacher struct {
	ID          string    `json:"id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	PhoneNumber string    `json:"phoneNumber"`
	ImageURL    string    `json:"imageUrl"`
	Bio         string    `json:"bio"`
	Subject     string    `json:"subject"`
	Government  string    `json:"government"`
	City        string    `json:"city"`
	Location    string    `json:"location"`
	Email       string    `json:"email" validate:"required"`
	Password    string    `json:"password" validate:"required"`
	Slug        string    `json:"slug"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Grade is a class/section owned by one teacher.
type Grade struct {
	ID        string `json:"id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	GroupName string `json:"groupName"`
	Location  string `json:"location"`
	TeacherID string `json:"teacherId" validate:"required"`
}

// Student is a learner record. ID always equals StudentID.
type Student struct {
	ID               string             `json:"id" validate:"required,eqfield=StudentID"`
	StudentID        string             `json:"studentId" validate:"required,studentid"`
	Name             string             `json:"name" validate:"required"`
	StudentNumber    string             `json:"studentNumber"`
	PhoneNumber      string             `json:"phoneNumber"`
	ParentNumber     string             `json:"parentNumber" validate:"required"`
	Location         string             `json:"location"`
	GradeID          string             `json:"gradeId" validate:"required"`
	TeacherID        string             `json:"teacherId" validate:"required"`
	RegistrationDate time.Time          `json:"registrationDate"`
	Attendance       []AttendanceRecord `json:"attendance" validate:"dive"`
	ExamScores       []ExamScore        `json:"examScores" validate:"dive"`
}

type AttendanceRecord struct {
	ID        string           `json:"id" validate:"required"`
	Date      string           `json:"date" validate:"required,datetime=2006-01-02"`
	Status    AttendanceStatus `json:"status" validate:"oneof=present absent late"`
	StudentID string           `json:"studentId" validate:"required"`
}

// ExamScore is one student's mark on one exam. ExamName holds the exam's id.
type ExamScore struct {
	ID        string  `json:"id" validate:"required"`
	ExamName  string  `json:"examName" validate:"required"`
	Score     float64 `json:"score" validate:"gte=0"`
	StudentID string  `json:"studentId" validate:"required"`
	Date      string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type Exam struct {
	ID        string `json:"id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	TeacherID string `json:"teacherId" validate:"required"`
	GradeID   string `json:"gradeId" validate:"required"`
	GroupName string `json:"groupName"`
	FullMark  int    `json:"fullMark" validate:"min=1,max=999"`
	Date      string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// MonthlyPayment is the single record of whether a student paid for a month.
type MonthlyPayment struct {
	ID        string `json:"id" validate:"required"`
	StudentID string `json:"studentId" validate:"required"`
	Month     int    `json:"month" validate:"min=1,max=12"`
	Year      int    `json:"year" validate:"min=1"`
	Paid      bool   `json:"paid"`
	DatePaid  string `json:"datePaid,omitempty"`
	TeacherID string `json:"teacherId"`
}

// Memo is a per-grade billable notice.
type Memo struct {
	ID          string          `json:"id" validate:"required"`
	GradeID     string          `json:"gradeId" validate:"required"`
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description"`
	Date        string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
	TeacherID   string          `json:"teacherId" validate:"required"`
	Payments    map[string]bool `json:"payments"`
}

// PaidCount returns how many students have paid for the memo.
func (m Memo) PaidCount() int {
	n := 0
	for _, paid := range m.Payments {
		if paid {
			n++
		}
	}
	return n
}
