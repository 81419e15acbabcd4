package booking

import (
	"fmt"
	"time"
)

// Overlaps aplica a regra de intervalo semiaberto [s, e): uma reserva que
// termina exatamente quando outra começa não conflita.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && start2.Before(end1)
}

// ParseClock valida um horário "HH:mm" e devolve os minutos desde meia-noite.
func ParseClock(hm string) (int, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", hm, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ClockOn posiciona um horário "HH:mm" no dia e timezone da data dada.
func ClockOn(hm string, date time.Time) (time.Time, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock %q: %w", hm, err)
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0,
		date.Location(),
	), nil
}

// dateOnly descarta a parte de hora preservando o timezone.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
