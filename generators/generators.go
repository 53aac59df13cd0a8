// Package generators produces identifiers and credentials.
//
// None of these are collision-free on their own; callers that need
// uniqueness wrap them with Unique.
package generators

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	StudentIDPrefix   = "ST-"
	StudentIDDigits   = 8
	StudentIDLength   = len(StudentIDPrefix) + StudentIDDigits
	DefaultPassLength = 8

	passwordChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

var (
	ErrExhausted = errors.New("could not generate a unique value")

	whitespace  = regexp.MustCompile(`\s+`)
	nonSlugChar = regexp.MustCompile(`[^a-z0-9\s-]`)
	studentIDRe = regexp.MustCompile(`^ST-\d{8}$`)
)

// ID returns a random UUID string.
func ID() string {
	return uuid.NewString()
}

// randInt returns a uniform integer in [0, n).
func randInt(n int64) int64 {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		panic(fmt.Sprintf("generators: crypto/rand failed: %v", err))
	}
	return v.Int64()
}

// TeacherEmail returns "<name without whitespace, lowercased><4 digits>@teacher.<domain>".
func TeacherEmail(name, domain string) string {
	clean := whitespace.ReplaceAllString(strings.ToLower(name), "")
	return fmt.Sprintf("%s%d@teacher.%s", clean, 1000+randInt(9000), domain)
}

// Password returns a random alphanumeric string; n <= 0 means DefaultPassLength.
func Password(n int) string {
	if n <= 0 {
		n = DefaultPassLength
	}
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(passwordChars[randInt(int64(len(passwordChars)))])
	}
	return b.String()
}

// StudentID returns "ST-" followed by 8 digits, the first never zero.
func StudentID() string {
	return fmt.Sprintf("%s%d", StudentIDPrefix, 10000000+randInt(90000000))
}

// IsStudentID reports whether s has the ST-######## shape.
func IsStudentID(s string) bool {
	return studentIDRe.MatchString(s)
}

// Slug lowercases name, drops everything but letters, digits, spaces and
// hyphens, trims, then joins words with '-'.
func Slug(name string) string {
	s := nonSlugChar.ReplaceAllString(strings.ToLower(name), "")
	s = strings.TrimSpace(s)
	return whitespace.ReplaceAllString(s, "-")
}

// UniqueSlug slugs name, falling back to fallback when nothing survives,
// and appends -2, -3, ... until exists reports false.
func UniqueSlug(name, fallback string, exists func(string) bool) string {
	base := Slug(name)
	if base == "" {
		base = fallback
	}
	slug := base
	for i := 2; exists(slug); i++ {
		slug = fmt.Sprintf("%s-%d", base, i)
	}
	return slug
}

// Unique calls gen until exists reports false, at most attempts times.
func Unique(gen func() string, exists func(string) bool, attempts int) (string, error) {
	for i := 0; i < attempts; i++ {
		v := gen()
		if !exists(v) {
			return v, nil
		}
	}
	return "", ErrExhausted
}
