package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignFromDate(t *testing.T) {
	cases := []struct {
		date string
		sign string
	}{
		{"01.01.1990", "Козерог"},
		{"19.01.1990", "Козерог"},
		{"20.01.1990", "Водолей"},
		{"20.03.1990", "Рыбы"},
		{"21.03.1990", "Овен"},
		{"19.04.1990", "Овен"},
		{"20.04.1990", "Телец"},
		{"23.08.1990", "Дева"},
		{"21.12.1990", "Стрелец"},
		{"22.12.1990", "Козерог"},
		{"31.12.1990", "Козерог"},
	}
	for _, tc := range cases {
		sign, ok := SignFromDate(tc.date)
		require.Truef(t, ok, "date %s", tc.date)
		assert.Equalf(t, tc.sign, sign, "date %s", tc.date)
	}
}

func TestSignFromDateRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "12.05", "аа.бб.вввв", "12.13.1990", "40.01.1990"} {
		_, ok := SignFromDate(s)
		assert.Falsef(t, ok, "expected %q to be rejected", s)
	}
}

func TestIsZodiacSign(t *testing.T) {
	for _, s := range Signs {
		assert.True(t, IsZodiacSign(s))
	}
	assert.False(t, IsZodiacSign("Дракон"))
	assert.False(t, IsZodiacSign(""))
}
