package validate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"AstroBot/entity"
)

var (
	datePattern = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})$`)
	timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	namePattern = regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ\s-]+$`)
)

// Date reports whether s is a calendar-valid date in DD.MM.YYYY form.
func Date(s string) bool {
	m := datePattern.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	return day <= DaysInMonth(year, month)
}

// Time reports whether s is a valid HH:MM time of day.
func Time(s string) bool {
	return timePattern.MatchString(s)
}

// Name reports whether s is a plausible name or place: Latin or Cyrillic
// letters, spaces and hyphens, at most 50 runes.
func Name(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > 50 {
		return false
	}
	return namePattern.MatchString(s)
}

// IsLeapYear reports whether year is a leap year in the Gregorian calendar.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the given month of the given year.
func DaysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	_ = val.RegisterValidation("birthdate", func(fl validator.FieldLevel) bool {
		return Date(fl.Field().String())
	})
	_ = val.RegisterValidation("birthtime", func(fl validator.FieldLevel) bool {
		return Time(fl.Field().String())
	})
	_ = val.RegisterValidation("cyrname", func(fl validator.FieldLevel) bool {
		return Name(fl.Field().String())
	})
	_ = val.RegisterValidation("zodiac", func(fl validator.FieldLevel) bool {
		return entity.IsZodiacSign(fl.Field().String())
	})
	return val
}

// Struct runs the shared validator instance against a tagged struct.
func Struct(s any) error {
	return v.Struct(s)
}
