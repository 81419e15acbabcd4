package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATEs relevantes para o caminho de reserva.
const (
	sqlstateSerializationFailure = "40001"
	sqlstateDeadlockDetected     = "40P01"
	sqlstateExclusionViolation   = "23P01"
	sqlstateUniqueViolation      = "23505"
)

// IsExclusionConflict reconhece a violação da constraint de exclusão de
// intervalos no Postgres: a reserva perdeu a corrida pelo horário mesmo
// passando pela checagem de aplicação.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == sqlstateExclusionViolation
	}
	return false
}

// IsSerializationFailure reconhece falha de serialização ou deadlock;
// transação pode ser retentada.
func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == sqlstateSerializationFailure ||
			pgErr.Code == sqlstateDeadlockDetected
	}
	return false
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == sqlstateUniqueViolation
	}
	return false
}
