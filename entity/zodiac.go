package entity

import (
	"strconv"
	"strings"
)

// Signs lists the zodiac sign names in ecliptic order.
var Signs = []string{
	"Овен", "Телец", "Близнецы", "Рак", "Лев", "Дева",
	"Весы", "Скорпион", "Стрелец", "Козерог", "Водолей", "Рыбы",
}

// signBound is the last day of the month on which the preceding sign ends.
// Aries starts on 21.03; indexes follow the calendar months, January first.
var signBounds = []struct {
	endDay int
	sign   string
}{
	{19, "Козерог"}, // until 19.01, then Водолей
	{18, "Водолей"},
	{20, "Рыбы"},
	{19, "Овен"},
	{20, "Телец"},
	{20, "Близнецы"},
	{22, "Рак"},
	{22, "Лев"},
	{22, "Дева"},
	{22, "Весы"},
	{21, "Скорпион"},
	{21, "Стрелец"},
}

// IsZodiacSign reports whether name matches one of the twelve signs.
func IsZodiacSign(name string) bool {
	for _, s := range Signs {
		if s == name {
			return true
		}
	}
	return false
}

// SignFromDate derives the zodiac sign from a DD.MM.YYYY date string.
func SignFromDate(date string) (string, bool) {
	parts := strings.Split(date, ".")
	if len(parts) != 3 {
		return "", false
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}

	bound := signBounds[month-1]
	if day <= bound.endDay {
		return bound.sign, true
	}
	next := signBounds[month%12]
	return next.sign, true
}
