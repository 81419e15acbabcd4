package validators

import (
	"context"
	"testing"
)

// Casos sintáticos: rejeitam antes de qualquer consulta DNS.
func TestIsEmailDomainValidRejectsMalformed(t *testing.T) {
	cases := []struct {
		name  string
		email string
	}{
		{"vazio", ""},
		{"sem arroba", "fulano.example.com"},
		{"arroba no fim", "fulano@"},
		{"so arroba", "@"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if IsEmailDomainValid(context.Background(), tc.email) {
				t.Errorf("IsEmailDomainValid(%q) = true, esperava false", tc.email)
			}
		})
	}
}
