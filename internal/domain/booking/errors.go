package booking

import "github.com/clippr-app/clippr-api/internal/httperr"

// Resultados de negócio esperados. Quem chama decide o que fazer com cada um;
// nenhum deles é falha de infraestrutura.
var (
	// Agenda mal configurada (dia aberto sem Open < Close). Erro do admin da
	// barbearia, nunca retentado.
	ErrInvalidSchedule = httperr.ErrBusiness("invalid_schedule")

	// Slot fora do expediente efetivo ou sem antecedência mínima. O cliente
	// deve rebuscar a disponibilidade.
	ErrSlotUnavailable = httperr.ErrBusiness("slot_unavailable")

	// Outro cliente levou o horário. Esperado sob concorrência.
	ErrSlotConflict = httperr.ErrBusiness("slot_conflict")

	// Cancelamento depois do início do atendimento.
	ErrAlreadyPast = httperr.ErrBusiness("already_past")

	// Cancelamento repetido; condição benigna.
	ErrAlreadyCancelled = httperr.ErrBusiness("already_cancelled")

	// Transição de status não permitida.
	ErrInvalidState = httperr.ErrBusiness("invalid_state")

	// Banco indisponível depois das retentativas.
	ErrStoreUnavailable = httperr.ErrBusiness("service_unavailable")
)
