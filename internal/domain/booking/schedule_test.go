package booking

import (
	"errors"
	"testing"
	"time"
)

func weekdays(open, close string) [7]DayHours {
	var days [7]DayHours
	for i := range days {
		if i == int(time.Sunday) {
			days[i] = DayHours{Closed: true}
			continue
		}
		days[i] = DayHours{Open: open, Close: close}
	}
	return days
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateRejectsInvertedHours(t *testing.T) {
	s := &WeekSchedule{Days: weekdays("18:00", "09:00")}
	if err := s.Validate(); !errors.Is(err, ErrInvalidSchedule) {
		t.Errorf("Validate = %v, want ErrInvalidSchedule", err)
	}

	s = &WeekSchedule{Days: weekdays("09:00", "09:00")}
	if err := s.Validate(); !errors.Is(err, ErrInvalidSchedule) {
		t.Errorf("Open == Close: Validate = %v, want ErrInvalidSchedule", err)
	}
}

func TestValidateIgnoresClosedDays(t *testing.T) {
	// dia fechado pode carregar horário lixo
	s := &WeekSchedule{Days: [7]DayHours{
		{Closed: true, Open: "xx", Close: "yy"},
		{Open: "09:00", Close: "18:00"},
		{Closed: true}, {Closed: true}, {Closed: true}, {Closed: true}, {Closed: true},
	}}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate = %v, want nil", err)
	}
}

func TestEffectiveHoursWeekday(t *testing.T) {
	s := &WeekSchedule{Days: weekdays("09:00", "18:00")}

	// 2026-09-10 é quinta
	hours, err := s.EffectiveHours(date(2026, 9, 10))
	if err != nil {
		t.Fatalf("EffectiveHours: %v", err)
	}
	if hours.Closed || hours.Open != "09:00" || hours.Close != "18:00" {
		t.Errorf("EffectiveHours = %+v", hours)
	}

	// 2026-09-13 é domingo
	hours, err = s.EffectiveHours(date(2026, 9, 13))
	if err != nil {
		t.Fatalf("EffectiveHours: %v", err)
	}
	if !hours.Closed {
		t.Error("domingo deveria estar fechado")
	}
}

func TestEffectiveHoursTimeOffWins(t *testing.T) {
	s := &WeekSchedule{
		Days: weekdays("09:00", "18:00"),
		TimeOff: []TimeOffRange{
			{From: date(2026, 9, 9), To: date(2026, 9, 11)},
		},
	}

	for _, d := range []time.Time{date(2026, 9, 9), date(2026, 9, 10), date(2026, 9, 11)} {
		hours, err := s.EffectiveHours(d)
		if err != nil {
			t.Fatalf("EffectiveHours(%v): %v", d, err)
		}
		if !hours.Closed {
			t.Errorf("%v cai na folga e deveria estar fechado", d.Format("2006-01-02"))
		}
	}

	// bordas fora da folga continuam abertas
	hours, err := s.EffectiveHours(date(2026, 9, 14))
	if err != nil {
		t.Fatalf("EffectiveHours: %v", err)
	}
	if hours.Closed {
		t.Error("2026-09-14 está fora da folga")
	}
}

func TestEffectiveHoursOverlappingTimeOff(t *testing.T) {
	// entradas sobrepostas viram a união na leitura
	s := &WeekSchedule{
		Days: weekdays("09:00", "18:00"),
		TimeOff: []TimeOffRange{
			{From: date(2026, 9, 14), To: date(2026, 9, 16)},
			{From: date(2026, 9, 15), To: date(2026, 9, 18)},
		},
	}

	hours, err := s.EffectiveHours(date(2026, 9, 17))
	if err != nil {
		t.Fatalf("EffectiveHours: %v", err)
	}
	if !hours.Closed {
		t.Error("2026-09-17 está dentro da união das folgas")
	}
}

func TestNormalizeTimeOffMergesAdjacent(t *testing.T) {
	got := normalizeTimeOff([]TimeOffRange{
		{From: date(2026, 9, 18), To: date(2026, 9, 19)},
		{From: date(2026, 9, 14), To: date(2026, 9, 15)},
		{From: date(2026, 9, 16), To: date(2026, 9, 17)},
	})

	if len(got) != 1 {
		t.Fatalf("normalizeTimeOff fundiu em %d faixas, want 1: %+v", len(got), got)
	}
	if !got[0].From.Equal(date(2026, 9, 14)) || !got[0].To.Equal(date(2026, 9, 19)) {
		t.Errorf("faixa fundida = %+v", got[0])
	}
}
