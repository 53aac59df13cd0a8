package store

import (
	"fmt"
	"sync"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"edoura-server-go/db"
	"edoura-server-go/generators"
	"edoura-server-go/models"
)

// Storage keys, one per collection.
const (
	teachersKey        = "teachers"
	studentsKey        = "students"
	gradesKey          = "grades"
	examsKey           = "exams"
	monthlyPaymentsKey = "monthlyPayments"
	memosKey           = "memos"

	lastEmailKey       = "lastGeneratedTeacherEmail"
	lastPasswordKey    = "lastGeneratedTeacherPassword"
	lastProfileLinkKey = "lastGeneratedTeacherProfileLink"
)

const (
	dateLayout       = "2006-01-02"
	dateTag          = "datetime=" + dateLayout
	generateAttempts = 20
)

// DataStore owns every domain collection. All mutation goes through it and
// each mutation persists the collections it touched before returning.
type DataStore struct {
	mu         sync.Mutex
	kv         db.KV
	log        *zap.Logger
	validate   *validator.Validate
	translator ut.Translator

	now            func() time.Time
	newID          func() string
	newStudentID   func() string
	emailDomain    string
	passwordLength int

	teachers []models.Teacher
	students []models.Student
	grades   []models.Grade
	exams    []models.Exam
	payments []models.MonthlyPayment
	memos    []models.Memo
}

type Option func(*DataStore)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *DataStore) { s.now = now }
}

// WithIDGenerator replaces the uuid generator used for every entity except students.
func WithIDGenerator(gen func() string) Option {
	return func(s *DataStore) { s.newID = gen }
}

// WithStudentIDGenerator replaces the ST-######## generator.
func WithStudentIDGenerator(gen func() string) Option {
	return func(s *DataStore) { s.newStudentID = gen }
}

// WithEmailDomain sets the domain used in generated teacher emails.
func WithEmailDomain(domain string) Option {
	return func(s *DataStore) { s.emailDomain = domain }
}

func WithPasswordLength(n int) Option {
	return func(s *DataStore) { s.passwordLength = n }
}

// New builds a DataStore and loads all collections from kv.
func New(kv db.KV, log *zap.Logger, opts ...Option) (*DataStore, error) {
	s := &DataStore{
		kv:             kv,
		log:            log,
		now:            time.Now,
		newID:          generators.ID,
		newStudentID:   generators.StudentID,
		emailDomain:    "Edoura",
		passwordLength: generators.DefaultPassLength,
	}
	s.validate, s.translator = newValidator()
	for _, opt := range opts {
		opt(s)
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *DataStore) load() error {
	var err error
	if s.teachers, err = loadCollection[models.Teacher](s, teachersKey); err != nil {
		return err
	}
	if s.students, err = loadCollection[models.Student](s, studentsKey); err != nil {
		return err
	}
	if s.grades, err = loadCollection[models.Grade](s, gradesKey); err != nil {
		return err
	}
	if s.exams, err = loadCollection[models.Exam](s, examsKey); err != nil {
		return err
	}
	if s.payments, err = loadCollection[models.MonthlyPayment](s, monthlyPaymentsKey); err != nil {
		return err
	}
	if s.memos, err = loadCollection[models.Memo](s, memosKey); err != nil {
		return err
	}
	s.log.Info("data store loaded",
		zap.Int("teachers", len(s.teachers)),
		zap.Int("students", len(s.students)),
		zap.Int("grades", len(s.grades)),
		zap.Int("exams", len(s.exams)),
		zap.Int("monthlyPayments", len(s.payments)),
		zap.Int("memos", len(s.memos)),
	)
	return nil
}

// RefreshTeachers re-reads the teacher collection from storage, discarding
// the in-memory copy. Only needed when another process writes the same keys.
func (s *DataStore) RefreshTeachers() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	teachers, err := loadCollection[models.Teacher](s, teachersKey)
	if err != nil {
		return err
	}
	s.teachers = teachers
	return nil
}

func (s *DataStore) today() string {
	return s.now().Format(dateLayout)
}

// snapshot holds the collection slices as they were before a mutation.
// Mutations never write through existing backing arrays, so a shallow copy
// of the slice headers is enough to roll back.
type snapshot struct {
	teachers []models.Teacher
	students []models.Student
	grades   []models.Grade
	exams    []models.Exam
	payments []models.MonthlyPayment
	memos    []models.Memo
}

func (s *DataStore) snapshot() snapshot {
	return snapshot{
		teachers: s.teachers,
		students: s.students,
		grades:   s.grades,
		exams:    s.exams,
		payments: s.payments,
		memos:    s.memos,
	}
}

func (s *DataStore) restore(sn snapshot) {
	s.teachers = sn.teachers
	s.students = sn.students
	s.grades = sn.grades
	s.exams = sn.exams
	s.payments = sn.payments
	s.memos = sn.memos
}

// commit persists keys. On failure the in-memory state is rolled back to sn
// and the rolled-back collections are written again on a best-effort basis.
func (s *DataStore) commit(sn snapshot, keys ...string) error {
	err := s.persist(keys...)
	if err == nil {
		return nil
	}
	s.restore(sn)
	if rerr := s.persist(keys...); rerr != nil {
		s.log.Error("failed to rewrite collections after rollback", zap.Strings("keys", keys), zap.Error(rerr))
	}
	return err
}

func (s *DataStore) persist(keys ...string) error {
	for _, key := range keys {
		var err error
		switch key {
		case teachersKey:
			err = saveCollection(s.kv, key, s.teachers)
		case studentsKey:
			err = saveCollection(s.kv, key, s.students)
		case gradesKey:
			err = saveCollection(s.kv, key, s.grades)
		case examsKey:
			err = saveCollection(s.kv, key, s.exams)
		case monthlyPaymentsKey:
			err = saveCollection(s.kv, key, s.payments)
		case memosKey:
			err = saveCollection(s.kv, key, s.memos)
		default:
			err = fmt.Errorf("unknown collection %q", key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
