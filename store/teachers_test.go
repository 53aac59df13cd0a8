package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edoura-server-go/models"
)

func TestCreateTeacher(t *testing.T) {
	s := newTestStore(t, nil)

	teacher, creds, err := s.CreateTeacher(TeacherProfile{
		Name:       "Aisha",
		Subject:    "Physics",
		Government: "Giza",
		City:       "Dokki",
	})
	require.NoError(t, err)

	assert.Regexp(t, `^aisha\d{4}@teacher\..+$`, teacher.Email)
	assert.Equal(t, "aisha", teacher.Slug)
	assert.Equal(t, "Giza, Dokki", teacher.Location)
	assert.Len(t, teacher.Password, 8)
	assert.Regexp(t, `^[A-Za-z0-9]+$`, teacher.Password)
	assert.Equal(t, testNow, teacher.CreatedAt)

	assert.Equal(t, Credentials{Email: teacher.Email, Password: teacher.Password, ProfileLink: "/teacher/aisha"}, creds)
	last, ok, err := s.LastCredentials()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, creds, last)

	assert.Equal(t, &teacher, s.GetTeacherByID(teacher.ID))
	assert.Equal(t, &teacher, s.GetTeacherByEmail(teacher.Email))
	assert.Equal(t, &teacher, s.GetTeacherBySlug("aisha"))
}

func TestCreateTeacher_UniqueEmails(t *testing.T) {
	s := newTestStore(t, nil)
	seen := map[string]bool{}
	for i := 0; i < 30; i++ {
		teacher, _, err := s.CreateTeacher(TeacherProfile{Name: "Omar"})
		require.NoError(t, err)
		assert.False(t, seen[teacher.Email], "duplicate email %s", teacher.Email)
		seen[teacher.Email] = true
	}
}

func TestCreateTeacher_RequiresName(t *testing.T) {
	s := newTestStore(t, nil)
	_, _, err := s.CreateTeacher(TeacherProfile{Subject: "Math"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Fields[0].Field)
	assert.Empty(t, s.Teachers(TeacherFilter{}))
}

func TestLastCredentials_None(t *testing.T) {
	s := newTestStore(t, nil)
	_, ok, err := s.LastCredentials()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLookups_NotFound(t *testing.T) {
	s := newTestStore(t, nil)
	seed(t, s, "Aisha")

	assert.Nil(t, s.GetTeacherByID("nope"))
	assert.Nil(t, s.GetTeacherByEmail("nope@teacher.Edoura"))
	assert.Nil(t, s.GetTeacherBySlug("nope"))
	assert.Nil(t, s.GetStudentByStudentID("ST-00000000"))
}

func TestTeachers_Filter(t *testing.T) {
	s := newTestStore(t, nil)
	mk := func(name, subject, gov string) {
		_, _, err := s.CreateTeacher(TeacherProfile{Name: name, Subject: subject, Government: gov})
		require.NoError(t, err)
	}
	mk("Aisha Hassan", "Math", "Cairo")
	mk("Omar Ali", "Physics", "Giza")
	mk("Hassan Omar", "Math", "Giza")

	names := func(ts []models.Teacher) []string {
		out := []string{}
		for _, t := range ts {
			out = append(out, t.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Aisha Hassan", "Omar Ali", "Hassan Omar"}, names(s.Teachers(TeacherFilter{})))
	assert.Equal(t, []string{"Aisha Hassan", "Hassan Omar"}, names(s.Teachers(TeacherFilter{Search: "hassan"})))
	assert.Equal(t, []string{"Hassan Omar"}, names(s.Teachers(TeacherFilter{Subject: "Math", Government: "Giza"})))
	assert.Equal(t, []string{"Math", "Physics"}, s.Subjects())
	assert.Equal(t, []string{"Cairo", "Giza"}, s.Governments())
}

func TestLatestTeachers(t *testing.T) {
	now := testNow
	s := newTestStore(t, nil, WithClock(func() time.Time { return now }))
	for _, name := range []string{"First", "Second", "Third", "Fourth"} {
		_, _, err := s.CreateTeacher(TeacherProfile{Name: name})
		require.NoError(t, err)
		now = now.Add(time.Hour)
	}

	latest := s.LatestTeachers(3)
	require.Len(t, latest, 3)
	assert.Equal(t, "Fourth", latest[0].Name)
	assert.Equal(t, "Third", latest[1].Name)
	assert.Equal(t, "Second", latest[2].Name)
}

func TestSlugImmutable(t *testing.T) {
	s := newTestStore(t, nil)
	teacher, _, err := s.CreateTeacher(TeacherProfile{Name: "Mona Zaki"})
	require.NoError(t, err)

	got := s.GetTeacherBySlug("mona-zaki")
	require.NotNil(t, got)
	got.Name = "Someone Else"
	assert.Equal(t, teacher.Name, s.GetTeacherByID(teacher.ID).Name)
	assert.Equal(t, "mona-zaki", s.GetTeacherByID(teacher.ID).Slug)
}

func TestCreateTeacher_SlugCollisions(t *testing.T) {
	s := newTestStore(t, nil)

	first, _, err := s.CreateTeacher(TeacherProfile{Name: "Omar Ali"})
	require.NoError(t, err)
	second, creds, err := s.CreateTeacher(TeacherProfile{Name: "Omar Ali"})
	require.NoError(t, err)
	arabic, _, err := s.CreateTeacher(TeacherProfile{Name: "أحمد"})
	require.NoError(t, err)
	arabic2, _, err := s.CreateTeacher(TeacherProfile{Name: "سارة"})
	require.NoError(t, err)

	assert.Equal(t, "omar-ali", first.Slug)
	assert.Equal(t, "omar-ali-2", second.Slug)
	assert.Equal(t, "/teacher/omar-ali-2", creds.ProfileLink)
	assert.Equal(t, "teacher", arabic.Slug)
	assert.Equal(t, "teacher-2", arabic2.Slug)
	assert.Equal(t, second.ID, s.GetTeacherBySlug("omar-ali-2").ID)
}
