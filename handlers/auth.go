package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"edoura-server-go/models"
)

const (
	teacherKey = "teacher"
	studentKey = "studentId"
)

type adminLogin struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type teacherLogin struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type parentLogin struct {
	StudentID string `json:"studentId" binding:"required"`
}

var errInvalidLogin = gin.H{"error": "Invalid credentials"}

// LoginAdmin handles POST /api/auth/admin/login
func (h *APIHandler) LoginAdmin(c *gin.Context) {
	var req adminLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !h.Sessions.LoginAdmin(req.Username, req.Password) {
		c.JSON(http.StatusUnauthorized, errInvalidLogin)
		return
	}
	c.JSON(http.StatusOK, h.Sessions.State())
}

// LoginTeacher handles POST /api/auth/teacher/login
func (h *APIHandler) LoginTeacher(c *gin.Context) {
	var req teacherLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !h.Sessions.LoginTeacher(req.Email, req.Password) {
		c.JSON(http.StatusUnauthorized, errInvalidLogin)
		return
	}
	c.JSON(http.StatusOK, h.Sessions.State())
}

// LoginParent handles POST /api/auth/parent/login
func (h *APIHandler) LoginParent(c *gin.Context) {
	var req parentLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !h.Sessions.LoginParent(req.StudentID) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown student ID"})
		return
	}
	c.JSON(http.StatusOK, h.Sessions.State())
}

func (h *APIHandler) LogoutAdmin(c *gin.Context) {
	h.logout(c, h.Sessions.LogoutAdmin)
}

func (h *APIHandler) LogoutTeacher(c *gin.Context) {
	h.logout(c, h.Sessions.LogoutTeacher)
}

func (h *APIHandler) LogoutParent(c *gin.Context) {
	h.logout(c, h.Sessions.LogoutParent)
}

func (h *APIHandler) logout(c *gin.Context, logoutFn func() error) {
	if err := logoutFn(); err != nil {
		h.fail(c, err, "Failed to log out")
		return
	}
	c.JSON(http.StatusOK, h.Sessions.State())
}

// GetSession handles GET /api/session
func (h *APIHandler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.Sessions.State())
}

// RequireAdmin rejects requests unless the admin session is active.
func (h *APIHandler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.Sessions.State().Admin {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Admin login required"})
			return
		}
		c.Next()
	}
}

// RequireTeacher resolves the logged-in teacher and stores it on the
// context. A session whose teacher has since been deleted is logged out.
func (h *APIHandler) RequireTeacher() gin.HandlerFunc {
	return func(c *gin.Context) {
		st := h.Sessions.State()
		if !st.Teacher {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Teacher login required"})
			return
		}
		t := h.Store.GetTeacherByEmail(st.CurrentTeacherEmail)
		if t == nil {
			if err := h.Sessions.LogoutTeacher(); err != nil {
				h.log.Warn("failed to clear stale teacher session", zap.Error(err))
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Teacher login required"})
			return
		}
		c.Set(teacherKey, *t)
		c.Next()
	}
}

// RequireParent rejects requests unless a parent session names a student
// that still exists.
func (h *APIHandler) RequireParent() gin.HandlerFunc {
	return func(c *gin.Context) {
		st := h.Sessions.State()
		if !st.Parent || h.Store.GetStudentByStudentID(st.CurrentStudentID) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Parent login required"})
			return
		}
		c.Set(studentKey, st.CurrentStudentID)
		c.Next()
	}
}

func currentTeacher(c *gin.Context) models.Teacher {
	return c.MustGet(teacherKey).(models.Teacher)
}
