package handlers

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the API under /api.
func RegisterRoutes(router *gin.Engine, h *APIHandler) {
	api := router.Group("/api")
	{
		api.GET("/ping", PingHandler)
		api.GET("/session", h.GetSession)

		auth := api.Group("/auth")
		auth.POST("/admin/login", h.LoginAdmin)
		auth.POST("/admin/logout", h.LogoutAdmin)
		auth.POST("/teacher/login", h.LoginTeacher)
		auth.POST("/teacher/logout", h.LogoutTeacher)
		auth.POST("/parent/login", h.LoginParent)
		auth.POST("/parent/logout", h.LogoutParent)

		// Public teacher directory
		api.GET("/teachers", h.ListTeachers)
		api.GET("/teachers/latest", h.LatestTeachers)
		api.GET("/teachers/facets", h.TeacherFacets)
		api.GET("/teachers/slug/:slug", h.GetTeacherBySlug)

		admin := api.Group("/admin", h.RequireAdmin())
		admin.POST("/teachers", h.CreateTeacher)
		admin.DELETE("/teachers/:teacherId", h.DeleteTeacher)
		admin.GET("/credentials/last", h.LastCredentials)

		teacher := api.Group("/teacher", h.RequireTeacher())
		teacher.GET("/me", h.GetMe)
		teacher.GET("/grades", h.ListGrades)
		teacher.POST("/grades", h.AddGrade)
		teacher.DELETE("/grades/:gradeId", h.DeleteGrade)
		teacher.GET("/grades/:gradeId/students", h.ListStudents)
		teacher.GET("/grades/:gradeId/exams", h.ListExams)
		teacher.GET("/grades/:gradeId/memos", h.ListMemos)
		teacher.POST("/grades/:gradeId/import", h.ImportStudents)
		teacher.GET("/grades/:gradeId/export", h.ExportGrade)
		teacher.GET("/student-id", h.NewStudentID)
		teacher.POST("/students", h.AddStudent)
		teacher.DELETE("/students/:studentId", h.DeleteStudent)
		teacher.PUT("/students/:studentId/attendance", h.UpdateAttendance)
		teacher.PUT("/students/:studentId/scores", h.UpdateExamScore)
		teacher.GET("/students/:studentId/payments", h.ListPayments)
		teacher.PUT("/students/:studentId/payments", h.UpdatePayment)
		teacher.POST("/exams", h.AddExam)
		teacher.GET("/exams/:examId/results", h.ExamResults)
		teacher.POST("/memos", h.AddMemo)
		teacher.PUT("/memos/:memoId/payments", h.UpdateMemoPayment)
		teacher.DELETE("/memos/:memoId", h.DeleteMemo)

		parent := api.Group("/parent", h.RequireParent())
		parent.GET("/record", h.ParentRecord)
	}
}
