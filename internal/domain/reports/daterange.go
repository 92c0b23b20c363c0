package reports

import (
	"strings"
	"time"

	"pdv/internal/core/apperror"
	"pdv/internal/core/cpf"
	"pdv/internal/domain/sales"
)

// DateLayout is the format of report date parameters.
const DateLayout = "2006-01-02"

// DateRange is an inclusive range of whole days: From is the first instant
// of its day and To is 23:59:59.999 of its day.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// NewDateRange widens from and to to whole days in their own location.
func NewDateRange(from, to time.Time) DateRange {
	return DateRange{From: StartOfDay(from), To: EndOfDay(to)}
}

// ParseDateRange parses YYYY-MM-DD bounds in loc. Both are required.
func ParseDateRange(from, to string, loc *time.Location) (DateRange, error) {
	if loc == nil {
		loc = time.Local
	}
	if from == "" || to == "" {
		return DateRange{}, apperror.NewValidation("date_from and date_to are required")
	}
	f, err := time.ParseInLocation(DateLayout, from, loc)
	if err != nil {
		return DateRange{}, apperror.NewValidation("date_from must be YYYY-MM-DD").WithDetail("value", from)
	}
	t, err := time.ParseInLocation(DateLayout, to, loc)
	if err != nil {
		return DateRange{}, apperror.NewValidation("date_to must be YYYY-MM-DD").WithDetail("value", to)
	}
	if t.Before(f) {
		return DateRange{}, apperror.NewValidation("date_to must not be before date_from")
	}
	return NewDateRange(f, t), nil
}

// StartOfDay returns 00:00:00.000 of t's day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of t's day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// Contains reports whether t falls inside the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// FilterSales keeps the sales dated inside the range, preserving order.
func (r DateRange) FilterSales(ss []*sales.Sale) []*sales.Sale {
	out := make([]*sales.Sale, 0, len(ss))
	for _, s := range ss {
		if r.Contains(s.SaleDate) {
			out = append(out, s)
		}
	}
	return out
}

// MatchSearch reports whether term matches the client name or CPF of s.
// An empty term matches everything.
func MatchSearch(s *sales.Sale, term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToUpper(s.ClientName), strings.ToUpper(term)) {
		return true
	}
	if digits := cpf.Digits(term); digits != "" && strings.Contains(s.ClientCPF, digits) {
		return true
	}
	return strings.Contains(s.Code, term)
}
