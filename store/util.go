package store

import (
	"maps"
	"sort"

	"edoura-server-go/models"
)

// push appends v to a copy of items so the old backing array stays untouched.
func push[T any](items []T, v T) []T {
	return append(items[:len(items):len(items)], v)
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// find returns a copy of the first match, or nil.
func find[T any](items []T, match func(T) bool) *T {
	for _, it := range items {
		if match(it) {
			v := it
			return &v
		}
	}
	return nil
}

func indexOf[T any](items []T, match func(T) bool) int {
	for i, it := range items {
		if match(it) {
			return i
		}
	}
	return -1
}

// replaceAt returns a copy of items with position i set to v.
func replaceAt[T any](items []T, i int, v T) []T {
	out := make([]T, len(items))
	copy(out, items)
	out[i] = v
	return out
}

func distinct[T any](items []T, key func(T) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, it := range items {
		k := key(it)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func cloneStudent(st models.Student) models.Student {
	st.Attendance = append([]models.AttendanceRecord{}, st.Attendance...)
	st.ExamScores = append([]models.ExamScore{}, st.ExamScores...)
	return st
}

func cloneMemo(m models.Memo) models.Memo {
	m.Payments = maps.Clone(m.Payments)
	if m.Payments == nil {
		m.Payments = map[string]bool{}
	}
	return m
}
