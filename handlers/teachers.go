package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"edoura-server-go/store"
)

// ListTeachers handles GET /api/teachers?search=&subject=&government=
func (h *APIHandler) ListTeachers(c *gin.Context) {
	var f store.TeacherFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, publicTeachers(h.Store.Teachers(f)))
}

// LatestTeachers handles GET /api/teachers/latest?n=
func (h *APIHandler) LatestTeachers(c *gin.Context) {
	n, err := strconv.Atoi(c.DefaultQuery("n", "6"))
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "n must be a non-negative integer"})
		return
	}
	c.JSON(http.StatusOK, publicTeachers(h.Store.LatestTeachers(n)))
}

// GetTeacherBySlug handles GET /api/teachers/slug/:slug
func (h *APIHandler) GetTeacherBySlug(c *gin.Context) {
	t := h.Store.GetTeacherBySlug(c.Param("slug"))
	if t == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Teacher not found"})
		return
	}
	c.JSON(http.StatusOK, publicTeacher(*t))
}

// TeacherFacets handles GET /api/teachers/facets
func (h *APIHandler) TeacherFacets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"subjects":    h.Store.Subjects(),
		"governments": h.Store.Governments(),
	})
}

// CreateTeacher handles POST /api/admin/teachers. The generated
// credentials are returned once.
func (h *APIHandler) CreateTeacher(c *gin.Context) {
	var p store.TeacherProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	t, creds, err := h.Store.CreateTeacher(p)
	if err != nil {
		h.fail(c, err, "Failed to create teacher")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"teacher": publicTeacher(t), "credentials": creds})
}

// LastCredentials handles GET /api/admin/credentials/last
func (h *APIHandler) LastCredentials(c *gin.Context) {
	creds, ok, err := h.Store.LastCredentials()
	if err != nil {
		h.fail(c, err, "Failed to read credentials")
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No teacher has been created yet"})
		return
	}
	c.JSON(http.StatusOK, creds)
}

// DeleteTeacher handles DELETE /api/admin/teachers/:teacherId
func (h *APIHandler) DeleteTeacher(c *gin.Context) {
	if err := h.Store.DeleteTeacher(c.Param("teacherId")); err != nil {
		h.fail(c, err, "Failed to delete teacher")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetMe handles GET /api/teacher/me
func (h *APIHandler) GetMe(c *gin.Context) {
	t := currentTeacher(c)
	c.JSON(http.StatusOK, gin.H{
		"teacher": publicTeacher(t),
		"stats":   h.Store.TeacherStats(t.ID, h.now().Format("2006-01-02")),
	})
}
