package utils

import (
	"time"
	_ "time/tzdata"
)

const DateLayout = "2006-01-02"

func ParseDate(dateStr string) (*time.Time, error) {
	var date time.Time

	if dateStr != "" {
		incomingDate, err := time.Parse(DateLayout, dateStr)
		if err != nil {
			return nil, err
		}

		date = incomingDate
	}

	return &date, nil
}

// DayIn trunca o instante para o dia civil no fuso informado e devolve a data em UTC
func DayIn(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// LoadLocation resolve um fuso IANA, caindo para UTC quando vazio ou inválido
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// BillingMonth retorna ano e mês do instante em UTC
func BillingMonth(t time.Time) (int, int) {
	u := t.UTC()
	return u.Year(), int(u.Month())
}
