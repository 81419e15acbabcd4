package booking

import "time"

// ===============================
// Geração de slots
// ===============================

// Slot é um horário candidato derivado da agenda. Nunca persistido;
// recalculado a cada consulta.
type Slot struct {
	BarberID  uint      `json:"barber_id"`
	ServiceID uint      `json:"service_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

// TimeSlot é a forma pública de um slot livre ("HH:mm").
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type GenerateInput struct {
	Schedule  *WeekSchedule
	ServiceID uint

	// Date carrega o dia e o timezone da barbearia.
	Date time.Time

	DurationMin int
	StepMin     int
	MinLeadMin  int
	Now         time.Time
}

const DefaultStepMinutes = 30

// GenerateSlots deriva os horários candidatos de um dia. Função pura sobre a
// agenda: não consulta reservas existentes; o filtro de conflito acontece na
// leitura da disponibilidade, e a recheca autoritativa na confirmação.
//
// Dia fechado ou serviço que não cabe no expediente devolvem lista vazia,
// não erro.
func GenerateSlots(in GenerateInput) ([]Slot, error) {
	hours, err := in.Schedule.EffectiveHours(in.Date)
	if err != nil {
		return nil, err
	}
	if hours.Closed {
		return []Slot{}, nil
	}

	step := in.StepMin
	if step <= 0 {
		step = DefaultStepMinutes
	}

	dayOpen, err := ClockOn(hours.Open, in.Date)
	if err != nil {
		return nil, ErrInvalidSchedule
	}
	dayClose, err := ClockOn(hours.Close, in.Date)
	if err != nil {
		return nil, ErrInvalidSchedule
	}

	duration := time.Duration(in.DurationMin) * time.Minute
	minStart := in.Now.Add(time.Duration(in.MinLeadMin) * time.Minute)

	slots := []Slot{}
	for cur := dayOpen; !cur.Add(duration).After(dayClose); cur = cur.Add(time.Duration(step) * time.Minute) {
		if cur.Before(minStart) {
			continue
		}
		slots = append(slots, Slot{
			BarberID:  in.Schedule.BarberID,
			ServiceID: in.ServiceID,
			Start:     cur,
			End:       cur.Add(duration),
		})
	}

	return slots, nil
}
