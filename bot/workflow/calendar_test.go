package workflow

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AstroBot/internal/lib/validate"
)

func dateDefinition() *Definition {
	return &Definition{
		ID: "date_flow",
		Fields: []FieldSpec{
			{Key: "birth_date", Prompt: "дата?", Invalid: "не дата", Kind: KindDate, Validate: validate.Date},
		},
		BuildPrompt: func(fields map[string]string) string {
			return "дата " + fields["birth_date"]
		},
	}
}

func TestYearRowsLayout(t *testing.T) {
	rows := YearRows(1990)

	// 24 years, four per row, plus one navigation row
	require.Len(t, rows, 7)
	for _, row := range rows[:6] {
		assert.Len(t, row, 4)
	}
	assert.Equal(t, "1990", rows[0][0].Text)
	assert.Equal(t, "cal:y:1990", rows[0][0].Data)

	nav := rows[6]
	require.Len(t, nav, 2)
	assert.Equal(t, "cal:yp:1966", nav[0].Data)
	assert.Equal(t, "cal:yp:2014", nav[1].Data)
}

func TestYearRowsClampsAtMinYear(t *testing.T) {
	rows := YearRows(MinPickerYear)
	assert.Equal(t, "1900", rows[0][0].Text)

	// no back navigation from the first page
	nav := rows[len(rows)-1]
	for _, b := range nav {
		assert.NotEqual(t, "«", b.Text)
	}
}

func TestYearRowsLastPageHasNoForwardNav(t *testing.T) {
	start := time.Now().Year() - 5
	rows := YearRows(start)
	nav := rows[len(rows)-1]
	for _, b := range nav {
		assert.NotEqual(t, "»", b.Text)
	}
}

func TestMonthRowsLayout(t *testing.T) {
	rows := MonthRows()

	require.Len(t, rows, 5)
	assert.Equal(t, "Январь", rows[0][0].Text)
	assert.Equal(t, "cal:m:1", rows[0][0].Data)
	assert.Equal(t, "cal:m:12", rows[3][2].Data)
	assert.Equal(t, "cal:back:year", rows[4][0].Data)
}

func TestDayRowsRespectMonthLength(t *testing.T) {
	cases := []struct {
		year, month, days int
	}{
		{1990, 1, 31},
		{1990, 2, 28},
		{2000, 2, 29},
		{1900, 2, 28}, // century year, not a leap year
		{1990, 4, 30},
	}
	for _, tc := range cases {
		rows := DayRows(tc.year, tc.month)
		count := 0
		for _, row := range rows[:len(rows)-1] {
			count += len(row)
		}
		assert.Equalf(t, tc.days, count, "%02d.%d", tc.month, tc.year)
	}
}

func TestHandleCalendarFullFlow(t *testing.T) {
	s, storage, completer := newTestSequencer(t, dateDefinition())
	m := &fakeMessenger{}
	ctx := context.Background()

	require.NoError(t, s.Begin(ctx, m, 42, "date_flow"))
	require.True(t, m.lastSent().inline, "date field starts with the year keyboard")

	require.NoError(t, s.HandleCalendar(ctx, m, 42, 1, "cal:y:1990"))
	assert.Equal(t, promptPickMonth, m.lastEdited().text)

	require.NoError(t, s.HandleCalendar(ctx, m, 42, 1, "cal:m:5"))
	assert.Equal(t, promptPickDay, m.lastEdited().text)

	require.NoError(t, s.HandleCalendar(ctx, m, 42, 1, "cal:d:7"))

	require.Len(t, completer.prompts, 1)
	assert.Equal(t, "дата 07.05.1990", completer.prompts[0])

	state, err := storage.Load(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestHandleCalendarOutOfOrderPressRerenders(t *testing.T) {
	s, _, _ := newTestSequencer(t, dateDefinition())
	m := &fakeMessenger{}
	ctx := context.Background()

	require.NoError(t, s.Begin(ctx, m, 42, "date_flow"))

	// day press before a year was chosen
	require.NoError(t, s.HandleCalendar(ctx, m, 42, 1, "cal:d:7"))
	assert.Equal(t, promptPickYear, m.lastEdited().text)
}

func TestHandleCalendarInvalidDayRerenders(t *testing.T) {
	s, _, completer := newTestSequencer(t, dateDefinition())
	m := &fakeMessenger{}
	ctx := context.Background()

	require.NoError(t, s.Begin(ctx, m, 42, "date_flow"))
	require.NoError(t, s.HandleCalendar(ctx, m, 42, 1, "cal:y:1990"))
	require.NoError(t, s.HandleCalendar(ctx, m, 42, 1, "cal:m:2"))

	require.NoError(t, s.HandleCalendar(ctx, m, 42, 1, "cal:d:30"))
	assert.Equal(t, promptPickDay, m.lastEdited().text)
	assert.Empty(t, completer.prompts)
}

func TestHandleCalendarYearOutOfRange(t *testing.T) {
	s, _, _ := newTestSequencer(t, dateDefinition())
	m := &fakeMessenger{}
	ctx := context.Background()

	require.NoError(t, s.Begin(ctx, m, 42, "date_flow"))

	future := fmt.Sprintf("cal:y:%d", time.Now().Year()+1)
	require.NoError(t, s.HandleCalendar(ctx, m, 42, 1, future))
	assert.Equal(t, promptPickYear, m.lastEdited().text)

	require.NoError(t, s.HandleCalendar(ctx, m, 42, 1, "cal:y:1899"))
	assert.Equal(t, promptPickYear, m.lastEdited().text)
}

func TestHandleCalendarBackNavigation(t *testing.T) {
	s, storage, _ := newTestSequencer(t, dateDefinition())
	m := &fakeMessenger{}
	ctx := context.Background()

	require.NoError(t, s.Begin(ctx, m, 42, "date_flow"))
	require.NoError(t, s.HandleCalendar(ctx, m, 42, 1, "cal:y:1990"))
	require.NoError(t, s.HandleCalendar(ctx, m, 42, 1, "cal:m:5"))

	require.NoError(t, s.HandleCalendar(ctx, m, 42, 1, "cal:back:month"))
	assert.Equal(t, promptPickMonth, m.lastEdited().text)

	state, err := storage.Load(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 1990, state.Picker.Year)
	assert.Equal(t, 0, state.Picker.Month)

	require.NoError(t, s.HandleCalendar(ctx, m, 42, 1, "cal:back:year"))
	assert.Equal(t, promptPickYear, m.lastEdited().text)
}

func TestHandleCalendarIgnoresStaleKeyboard(t *testing.T) {
	s, _, _ := newTestSequencer(t, dateDefinition())
	m := &fakeMessenger{}

	// no session at all
	require.NoError(t, s.HandleCalendar(context.Background(), m, 42, 1, "cal:y:1990"))
	assert.Empty(t, m.sent)
	assert.Empty(t, m.edited)
}

func TestHandleCalendarIgnoredOnTextStep(t *testing.T) {
	s, _, _ := newTestSequencer(t, twoFieldDefinition())
	m := &fakeMessenger{}
	ctx := context.Background()

	require.NoError(t, s.Begin(ctx, m, 42, "test_flow"))
	require.NoError(t, s.HandleCalendar(ctx, m, 42, 1, "cal:y:1990"))
	assert.Empty(t, m.edited)
}

func TestHandleCalendarNoop(t *testing.T) {
	s, _, _ := newTestSequencer(t, dateDefinition())
	m := &fakeMessenger{}
	ctx := context.Background()

	require.NoError(t, s.Begin(ctx, m, 42, "date_flow"))
	require.NoError(t, s.HandleCalendar(ctx, m, 42, 1, "cal:noop"))
	assert.Empty(t, m.edited)
}

func TestHandleCalendarTypedDateStillAccepted(t *testing.T) {
	s, _, completer := newTestSequencer(t, dateDefinition())
	m := &fakeMessenger{}
	ctx := context.Background()

	require.NoError(t, s.Begin(ctx, m, 42, "date_flow"))
	require.NoError(t, s.SubmitAnswer(ctx, m, 42, "07.05.1990"))

	require.Len(t, completer.prompts, 1)
	assert.Equal(t, "дата 07.05.1990", completer.prompts[0])
}
