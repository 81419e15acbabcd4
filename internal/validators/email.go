package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

// dnsTimeout limita a consulta DNS para não segurar o cadastro quando o
// resolver está lento.
const dnsTimeout = 3 * time.Second

// IsEmailDomainValid verifica se o domínio do e-mail existe de fato:
// aceita quando há registro MX ou, na falta dele, um A/AAAA.
func IsEmailDomainValid(ctx context.Context, email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	ctx, cancel := context.WithTimeout(ctx, dnsTimeout)
	defer cancel()

	if mx, err := net.DefaultResolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.DefaultResolver.LookupIPAddr(ctx, domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
