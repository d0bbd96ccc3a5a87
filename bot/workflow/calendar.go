package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"AstroBot/internal/lib/validate"
)

// The picker covers birth dates back to 1900, like the original paper
// ephemerides the prompts pretend to consult.
const (
	MinPickerYear = 1900
	yearPageSize  = 24
)

const (
	promptPickYear  = "📅 Выберите год рождения:"
	promptPickMonth = "📅 Выберите месяц:"
	promptPickDay   = "📅 Выберите день:"
)

var monthNames = []string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

// DefaultYearPage returns the start year of the page shown first: the most
// recent full page ending at the current year.
func DefaultYearPage() int {
	start := time.Now().Year() - yearPageSize + 1
	if start < MinPickerYear {
		start = MinPickerYear
	}
	return start
}

// YearRows renders one page of year buttons starting at the given year,
// with navigation buttons for adjacent pages.
func YearRows(start int) [][]InlineButton {
	maxYear := time.Now().Year()
	if start < MinPickerYear {
		start = MinPickerYear
	}
	if start > maxYear {
		start = maxYear
	}

	var rows [][]InlineButton
	var row []InlineButton
	for y := start; y < start+yearPageSize && y <= maxYear; y++ {
		row = append(row, InlineButton{
			Text: strconv.Itoa(y),
			Data: BuildCallback(CalendarPrefix, "y", strconv.Itoa(y)),
		})
		if len(row) == 4 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	var nav []InlineButton
	if start > MinPickerYear {
		prev := start - yearPageSize
		if prev < MinPickerYear {
			prev = MinPickerYear
		}
		nav = append(nav, InlineButton{Text: "«", Data: BuildCallback(CalendarPrefix, "yp", strconv.Itoa(prev))})
	}
	if start+yearPageSize <= maxYear {
		nav = append(nav, InlineButton{Text: "»", Data: BuildCallback(CalendarPrefix, "yp", strconv.Itoa(start+yearPageSize))})
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	return rows
}

// MonthRows renders the twelve month buttons.
func MonthRows() [][]InlineButton {
	var rows [][]InlineButton
	for i := 0; i < 12; i += 3 {
		var row []InlineButton
		for j := i; j < i+3; j++ {
			row = append(row, InlineButton{
				Text: monthNames[j],
				Data: BuildCallback(CalendarPrefix, "m", strconv.Itoa(j+1)),
			})
		}
		rows = append(rows, row)
	}
	rows = append(rows, []InlineButton{
		{Text: "🔙 Год", Data: BuildCallback(CalendarPrefix, "back", "year")},
	})
	return rows
}

// DayRows renders the day buttons for a month, sized by the real number of
// days including leap years.
func DayRows(year, month int) [][]InlineButton {
	days := validate.DaysInMonth(year, month)

	var rows [][]InlineButton
	var row []InlineButton
	for d := 1; d <= days; d++ {
		row = append(row, InlineButton{
			Text: strconv.Itoa(d),
			Data: BuildCallback(CalendarPrefix, "d", strconv.Itoa(d)),
		})
		if len(row) == 7 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []InlineButton{
		{Text: "🔙 Месяц", Data: BuildCallback(CalendarPrefix, "back", "month")},
	})
	return rows
}

// HandleCalendar advances the date picker by one button press. The terminal
// day press builds the DD.MM.YYYY string and feeds it through SubmitAnswer,
// so the date passes the same validator as typed input. Malformed or
// out-of-range tokens re-render the picker at its current stage. Presses for
// chats without an active date step are ignored.
func (s *Sequencer) HandleCalendar(ctx context.Context, m Messenger, chatID, messageID int64, data string) error {
	state, def, err := s.activeSession(ctx, m, chatID)
	if err != nil {
		if errors.Is(err, ErrNoActiveWorkflow) {
			return nil // stale keyboard, session is gone
		}
		return err
	}
	if state == nil {
		return nil
	}

	spec, _, ok := s.currentField(def, state)
	if !ok || spec.Kind != KindDate {
		return nil
	}
	if state.Picker == nil {
		state.Picker = &PickerState{}
	}

	cb := ParseCallback(CalendarPrefix, data)
	if cb == nil {
		return s.renderPickerStage(m, chatID, messageID, state)
	}

	touch := func() error {
		state.UpdatedAt = time.Now()
		return s.storage.Save(ctx, state)
	}
	maxYear := time.Now().Year()

	switch cb.Action {
	case "noop":
		return nil

	case "yp":
		start, err := strconv.Atoi(cb.Value)
		if err != nil {
			return s.renderPickerStage(m, chatID, messageID, state)
		}
		return m.EditInline(chatID, messageID, promptPickYear, YearRows(start))

	case "y":
		year, err := strconv.Atoi(cb.Value)
		if err != nil || year < MinPickerYear || year > maxYear {
			return s.renderPickerStage(m, chatID, messageID, state)
		}
		state.Picker = &PickerState{Year: year}
		if err := touch(); err != nil {
			return err
		}
		return m.EditInline(chatID, messageID, promptPickMonth, MonthRows())

	case "m":
		month, err := strconv.Atoi(cb.Value)
		if state.Picker.Year == 0 || err != nil || month < 1 || month > 12 {
			return s.renderPickerStage(m, chatID, messageID, state)
		}
		state.Picker.Month = month
		if err := touch(); err != nil {
			return err
		}
		return m.EditInline(chatID, messageID, promptPickDay, DayRows(state.Picker.Year, month))

	case "d":
		p := state.Picker
		day, err := strconv.Atoi(cb.Value)
		if p.Year == 0 || p.Month == 0 || err != nil || day < 1 || day > validate.DaysInMonth(p.Year, p.Month) {
			return s.renderPickerStage(m, chatID, messageID, state)
		}
		date := fmt.Sprintf("%02d.%02d.%04d", day, p.Month, p.Year)
		if err := m.EditText(chatID, messageID, "✅ Вы выбрали: "+date); err != nil {
			s.log.Debug("editing calendar message", slog.Int64("chat_id", chatID))
		}
		return s.SubmitAnswer(ctx, m, chatID, date)

	case "back":
		switch cb.Value {
		case "year":
			state.Picker = &PickerState{}
			if err := touch(); err != nil {
				return err
			}
			return m.EditInline(chatID, messageID, promptPickYear, YearRows(DefaultYearPage()))
		case "month":
			state.Picker.Month = 0
			if err := touch(); err != nil {
				return err
			}
			return m.EditInline(chatID, messageID, promptPickMonth, MonthRows())
		}
		return s.renderPickerStage(m, chatID, messageID, state)

	default:
		return s.renderPickerStage(m, chatID, messageID, state)
	}
}

// renderPickerStage redraws the picker at whatever stage the session is in.
func (s *Sequencer) renderPickerStage(m Messenger, chatID, messageID int64, state *UserState) error {
	p := state.Picker
	switch {
	case p == nil || p.Year == 0:
		return m.EditInline(chatID, messageID, promptPickYear, YearRows(DefaultYearPage()))
	case p.Month == 0:
		return m.EditInline(chatID, messageID, promptPickMonth, MonthRows())
	default:
		return m.EditInline(chatID, messageID, promptPickDay, DayRows(p.Year, p.Month))
	}
}
