package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// RemoteIP returns the client address, preferring the first X-Forwarded-For
// entry when it parses as an IP.
func RemoteIP(r *http.Request) net.IP {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if len(ips) > 0 {
			ip := net.ParseIP(strings.TrimSpace(ips[0]))
			if ip != nil {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		slog.Warn("failed to parse remote addr", "remote_addr", r.RemoteAddr, "error", err)
		return nil
	}

	return net.ParseIP(host)
}
