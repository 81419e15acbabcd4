package booking

import (
	"sort"
	"time"
)

// ===============================
// Schedule (expediente + folgas)
// ===============================

// DayHours é o expediente de um dia da semana. Open/Close no formato "HH:mm";
// ignorados quando Closed.
type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

// TimeOffRange é um intervalo de folga com datas inclusivas.
type TimeOffRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// WeekSchedule é a agenda de um barbeiro: expediente semanal fixo mais a
// lista de folgas. O array de 7 posições é indexado por time.Weekday.
type WeekSchedule struct {
	BarberID uint           `json:"barber_id"`
	Days     [7]DayHours    `json:"days"`
	TimeOff  []TimeOffRange `json:"time_off"`
}

// Validate garante que todo dia aberto tem Open < Close e horários bem
// formados. Agenda inválida é erro de configuração da barbearia, nunca
// reparado automaticamente.
func (s *WeekSchedule) Validate() error {
	for _, d := range s.Days {
		if d.Closed {
			continue
		}

		openMin, err := ParseClock(d.Open)
		if err != nil {
			return ErrInvalidSchedule
		}

		closeMin, err := ParseClock(d.Close)
		if err != nil {
			return ErrInvalidSchedule
		}

		if openMin >= closeMin {
			return ErrInvalidSchedule
		}
	}
	return nil
}

// EffectiveHours resolve o expediente efetivo de uma data: folga cobre a data
// → fechado; senão vale o expediente do dia da semana.
func (s *WeekSchedule) EffectiveHours(date time.Time) (DayHours, error) {
	if err := s.Validate(); err != nil {
		return DayHours{}, err
	}

	day := dateOnly(date)
	for _, off := range normalizeTimeOff(s.TimeOff) {
		if !day.Before(dateOnly(off.From)) && !day.After(dateOnly(off.To)) {
			return DayHours{Closed: true}, nil
		}
	}

	return s.Days[int(date.Weekday())], nil
}

// normalizeTimeOff ordena e funde folgas sobrepostas ou adjacentes. Entradas
// sobrepostas não são rejeitadas; viram a união na leitura.
func normalizeTimeOff(entries []TimeOffRange) []TimeOffRange {
	if len(entries) < 2 {
		return entries
	}

	sorted := make([]TimeOffRange, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].From.Before(sorted[j].From)
	})

	merged := sorted[:1]
	for _, e := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !dateOnly(e.From).After(dateOnly(last.To).AddDate(0, 0, 1)) {
			if e.To.After(last.To) {
				last.To = e.To
			}
			continue
		}
		merged = append(merged, e)
	}

	return merged
}
