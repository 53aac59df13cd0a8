package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"edoura-server-go/models"
	"edoura-server-go/store"
)

type attendanceUpdate struct {
	Date   string                  `json:"date" binding:"required"`
	Status models.AttendanceStatus `json:"status" binding:"required"`
}

type scoreUpdate struct {
	ExamID string   `json:"examId" binding:"required"`
	Score  *float64 `json:"score" binding:"required"`
}

type paymentUpdate struct {
	Month int  `json:"month" binding:"required"`
	Year  int  `json:"year" binding:"required"`
	Paid  bool `json:"paid"`
}

type memoPaymentUpdate struct {
	StudentID string `json:"studentId" binding:"required"`
	Paid      bool   `json:"paid"`
}

// ownGrade loads the grade named by :gradeId if it belongs to the current
// teacher. Other teachers' grades are reported as missing.
func (h *APIHandler) ownGrade(c *gin.Context) (*models.Grade, bool) {
	g := h.Store.GetGradeByID(c.Param("gradeId"))
	if g == nil || g.TeacherID != currentTeacher(c).ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Grade not found"})
		return nil, false
	}
	return g, true
}

func (h *APIHandler) ownStudent(c *gin.Context) (*models.Student, bool) {
	st := h.Store.GetStudentByStudentID(c.Param("studentId"))
	if st == nil || st.TeacherID != currentTeacher(c).ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return nil, false
	}
	return st, true
}

func (h *APIHandler) ownsGradeID(c *gin.Context, gradeID string) bool {
	g := h.Store.GetGradeByID(gradeID)
	if g == nil || g.TeacherID != currentTeacher(c).ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Grade not found"})
		return false
	}
	return true
}

// --- Grades ---

// ListGrades handles GET /api/teacher/grades
func (h *APIHandler) ListGrades(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.GradesByTeacher(currentTeacher(c).ID))
}

// AddGrade handles POST /api/teacher/grades
func (h *APIHandler) AddGrade(c *gin.Context) {
	var in store.NewGrade
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	in.TeacherID = currentTeacher(c).ID
	g, err := h.Store.AddGrade(in)
	if err != nil {
		h.fail(c, err, "Failed to add grade")
		return
	}
	c.JSON(http.StatusCreated, g)
}

// DeleteGrade handles DELETE /api/teacher/grades/:gradeId
func (h *APIHandler) DeleteGrade(c *gin.Context) {
	g, ok := h.ownGrade(c)
	if !ok {
		return
	}
	if err := h.Store.DeleteGrade(g.ID); err != nil {
		h.fail(c, err, "Failed to delete grade")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Students ---

// ListStudents handles GET /api/teacher/grades/:gradeId/students
func (h *APIHandler) ListStudents(c *gin.Context) {
	g, ok := h.ownGrade(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.Store.StudentsByGrade(g.ID))
}

// NewStudentID handles GET /api/teacher/student-id
func (h *APIHandler) NewStudentID(c *gin.Context) {
	id, err := h.Store.NewStudentID()
	if err != nil {
		h.fail(c, err, "Failed to generate student id")
		return
	}
	c.JSON(http.StatusOK, gin.H{"studentId": id})
}

// AddStudent handles POST /api/teacher/students. An empty studentId is
// generated.
func (h *APIHandler) AddStudent(c *gin.Context) {
	var in store.NewStudent
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	if !h.ownsGradeID(c, in.GradeID) {
		return
	}
	in.TeacherID = currentTeacher(c).ID
	st, err := h.Store.EnrollStudent(in)
	if err != nil {
		h.fail(c, err, "Failed to add student")
		return
	}
	c.JSON(http.StatusCreated, st)
}

// DeleteStudent handles DELETE /api/teacher/students/:studentId
func (h *APIHandler) DeleteStudent(c *gin.Context) {
	st, ok := h.ownStudent(c)
	if !ok {
		return
	}
	if err := h.Store.DeleteStudent(st.ID); err != nil {
		h.fail(c, err, "Failed to delete student")
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateAttendance handles PUT /api/teacher/students/:studentId/attendance
func (h *APIHandler) UpdateAttendance(c *gin.Context) {
	st, ok := h.ownStudent(c)
	if !ok {
		return
	}
	var req attendanceUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Store.UpdateAttendance(st.ID, req.Date, req.Status); err != nil {
		h.fail(c, err, "Failed to update attendance")
		return
	}
	c.JSON(http.StatusOK, h.Store.GetStudentByStudentID(st.ID))
}

// UpdateExamScore handles PUT /api/teacher/students/:studentId/scores
func (h *APIHandler) UpdateExamScore(c *gin.Context) {
	st, ok := h.ownStudent(c)
	if !ok {
		return
	}
	var req scoreUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if e := h.Store.GetExamByID(req.ExamID); e == nil || e.GradeID != st.GradeID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Exam not found"})
		return
	}
	if err := h.Store.UpdateExamScore(st.ID, req.ExamID, *req.Score); err != nil {
		h.fail(c, err, "Failed to update score")
		return
	}
	c.JSON(http.StatusOK, h.Store.GetStudentByStudentID(st.ID))
}

// --- Monthly payments ---

// ListPayments handles GET /api/teacher/students/:studentId/payments
func (h *APIHandler) ListPayments(c *gin.Context) {
	st, ok := h.ownStudent(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.Store.MonthlyPayments(st.ID))
}

// UpdatePayment handles PUT /api/teacher/students/:studentId/payments
func (h *APIHandler) UpdatePayment(c *gin.Context) {
	st, ok := h.ownStudent(c)
	if !ok {
		return
	}
	var req paymentUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Store.UpdateMonthlyPayment(st.ID, req.Month, req.Year, req.Paid); err != nil {
		h.fail(c, err, "Failed to update payment")
		return
	}
	c.JSON(http.StatusOK, h.Store.MonthlyPayments(st.ID))
}

// --- Exams ---

// ListExams handles GET /api/teacher/grades/:gradeId/exams
func (h *APIHandler) ListExams(c *gin.Context) {
	g, ok := h.ownGrade(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.Store.ExamsByGrade(g.ID))
}

// AddExam handles POST /api/teacher/exams
func (h *APIHandler) AddExam(c *gin.Context) {
	var in store.NewExam
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	if !h.ownsGradeID(c, in.GradeID) {
		return
	}
	in.TeacherID = currentTeacher(c).ID
	e, err := h.Store.AddExam(in)
	if err != nil {
		h.fail(c, err, "Failed to add exam")
		return
	}
	c.JSON(http.StatusCreated, e)
}

// ExamResults handles GET /api/teacher/exams/:examId/results
func (h *APIHandler) ExamResults(c *gin.Context) {
	e := h.Store.GetExamByID(c.Param("examId"))
	if e == nil || e.TeacherID != currentTeacher(c).ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Exam not found"})
		return
	}
	results, err := h.Store.ExamResults(e.ID)
	if err != nil {
		h.fail(c, err, "Failed to load exam results")
		return
	}
	c.JSON(http.StatusOK, gin.H{"exam": e, "results": results})
}

// --- Memos ---

// ListMemos handles GET /api/teacher/grades/:gradeId/memos
func (h *APIHandler) ListMemos(c *gin.Context) {
	g, ok := h.ownGrade(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.Store.MemosByGrade(g.ID))
}

// AddMemo handles POST /api/teacher/memos
func (h *APIHandler) AddMemo(c *gin.Context) {
	var in store.NewMemo
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	if !h.ownsGradeID(c, in.GradeID) {
		return
	}
	in.TeacherID = currentTeacher(c).ID
	m, err := h.Store.AddMemo(in)
	if err != nil {
		h.fail(c, err, "Failed to add memo")
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *APIHandler) ownMemo(c *gin.Context) (*models.Memo, bool) {
	m := h.Store.GetMemoByID(c.Param("memoId"))
	if m == nil || m.TeacherID != currentTeacher(c).ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Memo not found"})
		return nil, false
	}
	return m, true
}

// UpdateMemoPayment handles PUT /api/teacher/memos/:memoId/payments
func (h *APIHandler) UpdateMemoPayment(c *gin.Context) {
	m, ok := h.ownMemo(c)
	if !ok {
		return
	}
	var req memoPaymentUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Store.UpdateMemoPayment(m.ID, req.StudentID, req.Paid); err != nil {
		h.fail(c, err, "Failed to update memo payment")
		return
	}
	c.JSON(http.StatusOK, h.Store.GetMemoByID(m.ID))
}

// DeleteMemo handles DELETE /api/teacher/memos/:memoId
func (h *APIHandler) DeleteMemo(c *gin.Context) {
	m, ok := h.ownMemo(c)
	if !ok {
		return
	}
	if err := h.Store.DeleteMemo(m.ID); err != nil {
		h.fail(c, err, "Failed to delete memo")
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Spreadsheets ---

// ImportStudents handles POST /api/teacher/grades/:gradeId/import
func (h *APIHandler) ImportStudents(c *gin.Context) {
	g, ok := h.ownGrade(c)
	if !ok {
		return
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error retrieving uploaded file: " + err.Error()})
		return
	}
	defer file.Close()

	imported, err := h.Store.ImportStudents(file, g.ID)
	if err != nil {
		h.fail(c, fmt.Errorf("import %s: %w", header.Filename, err), "Failed to import students")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "Import successful",
		"importedCount": imported,
		"gradeId":       g.ID,
	})
}

// ExportGrade handles GET /api/teacher/grades/:gradeId/export?year=
func (h *APIHandler) ExportGrade(c *gin.Context) {
	g, ok := h.ownGrade(c)
	if !ok {
		return
	}
	year, ok := h.yearParam(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="grade-%s-%d.xlsx"`, g.ID, year))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := h.Store.ExportGrade(c.Writer, g.ID, year); err != nil {
		h.fail(c, err, "Failed to export grade")
	}
}

// --- Parent portal ---

// ParentRecord handles GET /api/parent/record?year=
func (h *APIHandler) ParentRecord(c *gin.Context) {
	year, ok := h.yearParam(c)
	if !ok {
		return
	}
	rec, err := h.Store.ParentRecord(c.GetString(studentKey), year)
	if err != nil {
		h.fail(c, err, "Failed to load student record")
		return
	}
	c.JSON(http.StatusOK, rec)
}
