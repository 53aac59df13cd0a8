package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"edoura-server-go/models"
	"edoura-server-go/session"
	"edoura-server-go/store"
)

// APIHandler holds the dependencies for API handlers.
type APIHandler struct {
	Store    *store.DataStore
	Sessions *session.Store
	log      *zap.Logger
	now      func() time.Time
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(ds *store.DataStore, sessions *session.Store, log *zap.Logger) *APIHandler {
	return &APIHandler{Store: ds, Sessions: sessions, log: log, now: time.Now}
}

// fail maps store errors onto status codes. Anything unexpected is logged
// and reported as a 500 with msg.
func (h *APIHandler) fail(c *gin.Context, err error, msg string) {
	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "fields": verr.Fields})
	case errors.Is(err, store.ErrTeacherNotFound),
		errors.Is(err, store.ErrGradeNotFound),
		errors.Is(err, store.ErrStudentNotFound),
		errors.Is(err, store.ErrExamNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrStudentExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrScoreOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error(msg, zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
}

// yearParam reads ?year=, defaulting to the current year.
func (h *APIHandler) yearParam(c *gin.Context) (int, bool) {
	raw := c.Query("year")
	if raw == "" {
		return h.now().Year(), true
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year must be a positive integer"})
		return 0, false
	}
	return year, true
}

// publicTeacher strips the password before a teacher leaves the server.
func publicTeacher(t models.Teacher) models.Teacher {
	t.Password = ""
	return t
}

func publicTeachers(ts []models.Teacher) []models.Teacher {
	out := make([]models.Teacher, 0, len(ts))
	for _, t := range ts {
		out = append(out, publicTeacher(t))
	}
	return out
}

// PingHandler handles GET /api/ping.
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Pong!"})
}
