package booking

// ===============================
// Status da reserva
// ===============================

type Status string

const (
	// StatusPending fica reservado para um futuro fluxo de pré-pagamento;
	// com pagamento na barbearia a reserva nasce confirmada.
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func InitialStatus() Status {
	return StatusConfirmed
}

func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CanCancel valida a transição para cancelled. Cancelamento repetido e
// cancelamento retroativo são condições reportáveis, não fatais.
func CanCancel(current Status) error {
	if current == StatusCancelled {
		return ErrAlreadyCancelled
	}
	if !current.Active() {
		return ErrInvalidState
	}
	return nil
}

// CanComplete valida a transição para completed (disparada pela barbearia
// depois do atendimento).
func CanComplete(current Status) error {
	if !current.Active() {
		return ErrInvalidState
	}
	return nil
}
