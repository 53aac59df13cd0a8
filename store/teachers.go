package store

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"edoura-server-go/generators"
	"edoura-server-go/models"
)

// NewTeacher is a fully prepared teacher record minus id and creation time.
type NewTeacher struct {
	Name        string `json:"name" validate:"required"`
	PhoneNumber string `json:"phoneNumber"`
	ImageURL    string `json:"imageUrl"`
	Bio         string `json:"bio"`
	Subject     string `json:"subject"`
	Government  string `json:"government"`
	City        string `json:"city"`
	Location    string `json:"location"`
	Email       string `json:"email" validate:"required"`
	Password    string `json:"password" validate:"required"`
	Slug        string `json:"slug"`
}

// TeacherProfile is what the admin fills in; credentials are generated.
type TeacherProfile struct {
	Name        string `json:"name" validate:"required"`
	PhoneNumber string `json:"phoneNumber"`
	ImageURL    string `json:"imageUrl"`
	Bio         string `json:"bio"`
	Subject     string `json:"subject"`
	Government  string `json:"government"`
	City        string `json:"city"`
}

// Credentials are handed to the admin once after CreateTeacher.
type Credentials struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	ProfileLink string `json:"profileLink"`
}

// TeacherFilter narrows Teachers. Empty fields match everything.
type TeacherFilter struct {
	Search     string `form:"search"`
	Subject    string `form:"subject"`
	Government string `form:"government"`
}

// AddTeacher appends a teacher with a fresh id and the current time.
// It does not check for duplicate emails; CreateTeacher does.
func (s *DataStore) AddTeacher(in NewTeacher) (models.Teacher, error) {
	if err := s.check(in); err != nil {
		return models.Teacher{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addTeacher(in)
}

func (s *DataStore) addTeacher(in NewTeacher) (models.Teacher, error) {
	t := models.Teacher{
		ID:          s.newID(),
		Name:        in.Name,
		PhoneNumber: in.PhoneNumber,
		ImageURL:    in.ImageURL,
		Bio:         in.Bio,
		Subject:     in.Subject,
		Government:  in.Government,
		City:        in.City,
		Location:    in.Location,
		Email:       in.Email,
		Password:    in.Password,
		Slug:        in.Slug,
		CreatedAt:   s.now(),
	}

	sn := s.snapshot()
	s.teachers = push(s.teachers, t)
	if err := s.commit(sn, teachersKey); err != nil {
		return models.Teacher{}, err
	}
	s.log.Info("teacher added", zap.String("id", t.ID), zap.String("slug", t.Slug))
	return t, nil
}

// CreateTeacher runs the admin flow: derive slug and location, generate a
// unique email and a password, add the teacher and remember the credentials.
func (s *DataStore) CreateTeacher(p TeacherProfile) (models.Teacher, Credentials, error) {
	if err := s.check(p); err != nil {
		return models.Teacher{}, Credentials{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email, err := generators.Unique(
		func() string { return generators.TeacherEmail(p.Name, s.emailDomain) },
		func(e string) bool { return s.teacherByEmail(e) != nil },
		generateAttempts,
	)
	if err != nil {
		return models.Teacher{}, Credentials{}, fmt.Errorf("teacher email: %w", err)
	}

	slug := generators.UniqueSlug(p.Name, "teacher", func(sl string) bool {
		return find(s.teachers, func(t models.Teacher) bool { return t.Slug == sl }) != nil
	})
	t, err := s.addTeacher(NewTeacher{
		Name:        p.Name,
		PhoneNumber: p.PhoneNumber,
		ImageURL:    p.ImageURL,
		Bio:         p.Bio,
		Subject:     p.Subject,
		Government:  p.Government,
		City:        p.City,
		Location:    fmt.Sprintf("%s, %s", p.Government, p.City),
		Email:       email,
		Password:    generators.Password(s.passwordLength),
		Slug:        slug,
	})
	if err != nil {
		return models.Teacher{}, Credentials{}, err
	}

	creds := Credentials{Email: t.Email, Password: t.Password, ProfileLink: "/teacher/" + t.Slug}
	s.rememberCredentials(creds)
	return t, creds, nil
}

func (s *DataStore) rememberCredentials(c Credentials) {
	for key, val := range map[string]string{
		lastEmailKey:       c.Email,
		lastPasswordKey:    c.Password,
		lastProfileLinkKey: c.ProfileLink,
	} {
		if err := s.kv.Set(key, val); err != nil {
			s.log.Warn("failed to store generated credentials", zap.String("key", key), zap.Error(err))
		}
	}
}

// LastCredentials returns the credentials of the most recently created teacher.
func (s *DataStore) LastCredentials() (Credentials, bool, error) {
	var c Credentials
	var ok bool
	var err error
	if c.Email, ok, err = s.kv.Get(lastEmailKey); err != nil || !ok {
		return Credentials{}, false, err
	}
	if c.Password, _, err = s.kv.Get(lastPasswordKey); err != nil {
		return Credentials{}, false, err
	}
	if c.ProfileLink, _, err = s.kv.Get(lastProfileLinkKey); err != nil {
		return Credentials{}, false, err
	}
	return c, true, nil
}

// DeleteTeacher removes the teacher and everything that traces back to it:
// its grades (with their students and memos), any other student, exam, memo
// or monthly payment carrying its id.
func (s *DataStore) DeleteTeacher(teacherID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.teacherByID(teacherID) == nil {
		return nil
	}
	sn := s.snapshot()

	s.teachers = filter(s.teachers, func(t models.Teacher) bool { return t.ID != teacherID })
	for _, g := range s.grades {
		if g.TeacherID == teacherID {
			s.deleteGrade(g.ID)
		}
	}
	for _, st := range s.students {
		if st.TeacherID == teacherID {
			s.deleteStudent(st.ID)
		}
	}
	s.exams = filter(s.exams, func(e models.Exam) bool { return e.TeacherID != teacherID })
	s.memos = filter(s.memos, func(m models.Memo) bool { return m.TeacherID != teacherID })
	s.payments = filter(s.payments, func(p models.MonthlyPayment) bool { return p.TeacherID != teacherID })

	if err := s.commit(sn, teachersKey, gradesKey, studentsKey, examsKey, memosKey, monthlyPaymentsKey); err != nil {
		return err
	}
	s.log.Info("teacher deleted", zap.String("id", teacherID))
	return nil
}

func (s *DataStore) GetTeacherByID(id string) *models.Teacher {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teacherByID(id)
}

func (s *DataStore) GetTeacherByEmail(email string) *models.Teacher {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teacherByEmail(email)
}

func (s *DataStore) GetTeacherBySlug(slug string) *models.Teacher {
	s.mu.Lock()
	defer s.mu.Unlock()
	return find(s.teachers, func(t models.Teacher) bool { return t.Slug == slug })
}

func (s *DataStore) teacherByID(id string) *models.Teacher {
	return find(s.teachers, func(t models.Teacher) bool { return t.ID == id })
}

func (s *DataStore) teacherByEmail(email string) *models.Teacher {
	return find(s.teachers, func(t models.Teacher) bool { return t.Email == email })
}

// Teachers returns teachers in insertion order, narrowed by f. Search is a
// case-insensitive substring match on the name.
func (s *DataStore) Teachers(f TeacherFilter) []models.Teacher {
	s.mu.Lock()
	defer s.mu.Unlock()

	search := strings.ToLower(f.Search)
	return filter(s.teachers, func(t models.Teacher) bool {
		if search != "" && !strings.Contains(strings.ToLower(t.Name), search) {
			return false
		}
		if f.Subject != "" && t.Subject != f.Subject {
			return false
		}
		if f.Government != "" && t.Government != f.Government {
			return false
		}
		return true
	})
}

// LatestTeachers returns up to n teachers, newest first.
func (s *DataStore) LatestTeachers(n int) []models.Teacher {
	s.mu.Lock()
	out := append([]models.Teacher(nil), s.teachers...)
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Subjects returns the sorted distinct teacher subjects.
func (s *DataStore) Subjects() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return distinct(s.teachers, func(t models.Teacher) string { return t.Subject })
}

// Governments returns the sorted distinct teacher governments.
func (s *DataStore) Governments() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return distinct(s.teachers, func(t models.Teacher) string { return t.Government })
}
