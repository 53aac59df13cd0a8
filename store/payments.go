package store

import (
	"edoura-server-go/models"
)

// UpdateMonthlyPayment sets the paid flag for (studentID, month, year),
// creating the row if needed. Paying stamps DatePaid with today; unpaying
// clears it. Unknown students are ignored.
func (s *DataStore) UpdateMonthlyPayment(studentID string, month, year int, paid bool) error {
	if err := s.checkVar("month", month, "min=1,max=12"); err != nil {
		return err
	}
	if err := s.checkVar("year", year, "min=1"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.studentByID(studentID)
	if st == nil {
		return nil
	}
	datePaid := ""
	if paid {
		datePaid = s.today()
	}

	sn := s.snapshot()
	i := indexOf(s.payments, func(p models.MonthlyPayment) bool {
		return p.StudentID == studentID && p.Month == month && p.Year == year
	})
	if i >= 0 {
		p := s.payments[i]
		p.Paid = paid
		p.DatePaid = datePaid
		s.payments = replaceAt(s.payments, i, p)
	} else {
		s.payments = push(s.payments, models.MonthlyPayment{
			ID:        s.newID(),
			StudentID: studentID,
			Month:     month,
			Year:      year,
			Paid:      paid,
			DatePaid:  datePaid,
			TeacherID: st.TeacherID,
		})
	}
	return s.commit(sn, monthlyPaymentsKey)
}

// IsMonthPaid reports whether the student paid for month/year.
func (s *DataStore) IsMonthPaid(studentID string, month, year int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := find(s.payments, func(p models.MonthlyPayment) bool {
		return p.StudentID == studentID && p.Month == month && p.Year == year
	})
	return p != nil && p.Paid
}

// PaidMonths returns the months (1-12, ascending) the student paid in year.
func (s *DataStore) PaidMonths(studentID string, year int) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paidMonths(studentID, year)
}

func (s *DataStore) paidMonths(studentID string, year int) []int {
	var paid [13]bool
	for _, p := range s.payments {
		if p.StudentID == studentID && p.Year == year && p.Paid {
			paid[p.Month] = true
		}
	}
	months := []int{}
	for m := 1; m <= 12; m++ {
		if paid[m] {
			months = append(months, m)
		}
	}
	return months
}

// MonthlyPayments returns the payment rows of a student.
func (s *DataStore) MonthlyPayments(studentID string) []models.MonthlyPayment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter(s.payments, func(p models.MonthlyPayment) bool { return p.StudentID == studentID })
}
