package db

import (
	"regexp"
	"strings"
	"testing"
)

// As colunas de reserva são timestamptz; tsrange(timestamptz, timestamptz)
// não existe no Postgres (42883) e o DO block só engole duplicate_object,
// então um range errado deixaria o banco sem a constraint.
func TestReservationExclusionUsesTstzrange(t *testing.T) {
	if !strings.Contains(reservationExclusionSQL, "tstzrange(start_time, end_time)") {
		t.Error("constraint de exclusão deve usar tstzrange sobre start_time/end_time")
	}
	if regexp.MustCompile(`[^z]tsrange\(`).MatchString(reservationExclusionSQL) {
		t.Error("tsrange não resolve para colunas timestamptz")
	}
}

func TestReservationExclusionScopesActiveStatuses(t *testing.T) {
	for _, want := range []string{
		"EXCLUDE USING gist",
		"barber_id WITH =",
		"WITH &&",
		"status IN ('pending', 'confirmed')",
	} {
		if !strings.Contains(reservationExclusionSQL, want) {
			t.Errorf("constraint sem %q", want)
		}
	}
}
