// Package session keeps the three independent login sessions (admin, parent,
// teacher) and persists them so they survive a restart.
package session

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"edoura-server-go/db"
	"edoura-server-go/models"
)

const (
	adminAuthKey           = "adminAuth"
	parentAuthKey          = "parentAuth"
	currentStudentIDKey    = "currentStudentId"
	teacherAuthKey         = "teacherAuth"
	currentTeacherEmailKey = "currentTeacherEmail"
)

// Directory is the part of the data store sessions authenticate against.
type Directory interface {
	GetStudentByStudentID(studentID string) *models.Student
	GetTeacherByEmail(email string) *models.Teacher
}

// AdminCredentials is the single configured admin pair. It is a placeholder,
// not a security boundary.
type AdminCredentials struct {
	Username string
	Password string
}

// State is a snapshot of all three sessions.
type State struct {
	Admin               bool   `json:"isAdminAuthenticated"`
	Parent              bool   `json:"isParentAuthenticated"`
	Teacher             bool   `json:"isTeacherAuthenticated"`
	CurrentStudentID    string `json:"currentStudentId,omitempty"`
	CurrentTeacherEmail string `json:"currentTeacherEmail,omitempty"`
}

type Store struct {
	mu    sync.Mutex
	kv    db.KV
	dir   Directory
	admin AdminCredentials
	log   *zap.Logger
	state State
}

// New builds a Store and hydrates each session from kv independently.
// A flag without its subject counts as logged out.
func New(kv db.KV, dir Directory, admin AdminCredentials, log *zap.Logger) *Store {
	s := &Store{kv: kv, dir: dir, admin: admin, log: log}

	s.state.Admin = s.get(adminAuthKey) == "true"
	if s.get(parentAuthKey) == "true" {
		if id := s.get(currentStudentIDKey); id != "" {
			s.state.Parent = true
			s.state.CurrentStudentID = id
		}
	}
	if s.get(teacherAuthKey) == "true" {
		if email := s.get(currentTeacherEmailKey); email != "" {
			s.state.Teacher = true
			s.state.CurrentTeacherEmail = email
		}
	}
	return s
}

func (s *Store) get(key string) string {
	v, _, err := s.kv.Get(key)
	if err != nil {
		s.log.Warn("failed to read session key", zap.String("key", key), zap.Error(err))
		return ""
	}
	return v
}

func (s *Store) set(pairs ...string) bool {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := s.kv.Set(pairs[i], pairs[i+1]); err != nil {
			s.log.Error("failed to persist session", zap.String("key", pairs[i]), zap.Error(err))
			return false
		}
	}
	return true
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LoginAdmin succeeds iff username and password match the configured pair.
func (s *Store) LoginAdmin(username, password string) bool {
	if username != s.admin.Username || password != s.admin.Password {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set(adminAuthKey, "true") {
		return false
	}
	s.state.Admin = true
	s.log.Info("admin logged in")
	return true
}

// LoginParent succeeds iff a student holds studentID. The id is the only credential.
func (s *Store) LoginParent(studentID string) bool {
	if studentID == "" || s.dir.GetStudentByStudentID(studentID) == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set(parentAuthKey, "true", currentStudentIDKey, studentID) {
		return false
	}
	s.state.Parent = true
	s.state.CurrentStudentID = studentID
	s.log.Info("parent logged in", zap.String("studentId", studentID))
	return true
}

// LoginTeacher succeeds iff a teacher has exactly this email and password.
func (s *Store) LoginTeacher(email, password string) bool {
	t := s.dir.GetTeacherByEmail(email)
	if email == "" || t == nil || t.Password != password {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set(teacherAuthKey, "true", currentTeacherEmailKey, email) {
		return false
	}
	s.state.Teacher = true
	s.state.CurrentTeacherEmail = email
	s.log.Info("teacher logged in", zap.String("email", email))
	return true
}

// LogoutAdmin clears the admin session. The in-memory state is left alone
// when storage cannot be cleared, so a restart agrees with State.
func (s *Store) LogoutAdmin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.del(adminAuthKey); err != nil {
		return err
	}
	s.state.Admin = false
	return nil
}

func (s *Store) LogoutParent() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.del(parentAuthKey, currentStudentIDKey); err != nil {
		return err
	}
	s.state.Parent = false
	s.state.CurrentStudentID = ""
	return nil
}

func (s *Store) LogoutTeacher() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.del(teacherAuthKey, currentTeacherEmailKey); err != nil {
		return err
	}
	s.state.Teacher = false
	s.state.CurrentTeacherEmail = ""
	return nil
}

func (s *Store) del(keys ...string) error {
	if err := s.kv.Del(keys...); err != nil {
		s.log.Error("failed to clear session", zap.Strings("keys", keys), zap.Error(err))
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
