package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"AstroBot/entity"
)

func TestDate(t *testing.T) {
	valid := []string{"01.01.2000", "31.12.1999", "29.02.2000", "29.02.1996", "12.05.1990"}
	for _, s := range valid {
		assert.Truef(t, Date(s), "expected %q to be valid", s)
	}

	invalid := []string{
		"",
		"1.1.2000",
		"2000-01-01",
		"32.01.2000",
		"00.01.2000",
		"15.13.2000",
		"15.00.2000",
		"31.04.2000",
		"29.02.1999",
		"29.02.1900", // century year, not a leap year
		"сегодня",
	}
	for _, s := range invalid {
		assert.Falsef(t, Date(s), "expected %q to be invalid", s)
	}
}

func TestTime(t *testing.T) {
	valid := []string{"00:00", "09:05", "14:30", "23:59"}
	for _, s := range valid {
		assert.Truef(t, Time(s), "expected %q to be valid", s)
	}

	invalid := []string{"", "24:00", "25:99", "9:05", "14.30", "14:5", "полдень"}
	for _, s := range invalid {
		assert.Falsef(t, Time(s), "expected %q to be invalid", s)
	}
}

func TestName(t *testing.T) {
	valid := []string{"Анна", "Анна-Мария", "Jean Pierre", "Пётр", "Санкт-Петербург"}
	for _, s := range valid {
		assert.Truef(t, Name(s), "expected %q to be valid", s)
	}

	invalid := []string{
		"",
		"   ",
		"Анна123",
		"anna@example.com",
		"Оченьдлинноеимякотороеявнопревышаетлимитвпятьдесятсимволовточно",
	}
	for _, s := range invalid {
		assert.Falsef(t, Name(s), "expected %q to be invalid", s)
	}
}

func TestIsLeapYear(t *testing.T) {
	assert.True(t, IsLeapYear(2000))
	assert.True(t, IsLeapYear(1996))
	assert.False(t, IsLeapYear(1900))
	assert.False(t, IsLeapYear(1999))
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(1990, 1))
	assert.Equal(t, 28, DaysInMonth(1990, 2))
	assert.Equal(t, 29, DaysInMonth(2000, 2))
	assert.Equal(t, 30, DaysInMonth(1990, 4))
	assert.Equal(t, 0, DaysInMonth(1990, 13))
}

func TestStructProfile(t *testing.T) {
	good := &entity.Profile{
		ChatId:     42,
		Name:       "Анна",
		BirthDate:  "12.05.1990",
		BirthTime:  "14:30",
		BirthPlace: "Москва",
	}
	assert.NoError(t, Struct(good))

	bad := &entity.Profile{
		ChatId:     42,
		Name:       "Анна",
		BirthDate:  "1990-05-12",
		BirthTime:  "14:30",
		BirthPlace: "Москва",
	}
	assert.Error(t, Struct(bad))
}

func TestStructSubscription(t *testing.T) {
	assert.NoError(t, Struct(&entity.Subscription{ChatId: 42, Zodiac: "Овен"}))
	assert.Error(t, Struct(&entity.Subscription{ChatId: 42, Zodiac: "Дракон"}))
}
