// Package launch binds the local listener and opens the browser.
package launch

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"syscall"

	"github.com/pkg/browser"
)

// DefaultPortAttempts is how many consecutive ports Listen tries.
const DefaultPortAttempts = 20

// openURL is replaced in tests.
var openURL = browser.OpenURL

// Listen binds host:port. When the port is taken it tries the next one, up
// to attempts ports in total. Errors other than "address in use" are
// returned immediately. Port 0 asks the kernel for a free port.
func Listen(host string, port, attempts int, log *slog.Logger) (net.Listener, error) {
	if log == nil {
		log = slog.Default()
	}
	if attempts <= 0 {
		attempts = DefaultPortAttempts
	}
	if port == 0 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		p := port + i
		if p > 65535 {
			break
		}
		ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(p)))
		if err == nil {
			return ln, nil
		}
		if !errors.Is(err, syscall.EADDRINUSE) {
			return nil, fmt.Errorf("listen on port %d: %w", p, err)
		}
		log.Warn("port is busy, trying next", "port", p, "next", p+1)
		lastErr = err
	}
	return nil, fmt.Errorf("no free port in %d..%d: %w", port, port+attempts-1, lastErr)
}

// URL returns the browser address for a listener. Wildcard hosts are
// rewritten to localhost.
func URL(ln net.Listener) string {
	addr, ok := ln.Addr().(*net.TCPAddr)
	if !ok {
		return "http://" + ln.Addr().String()
	}
	host := "localhost"
	if ip := addr.IP; ip != nil && !ip.IsUnspecified() && !ip.IsLoopback() {
		host = ip.String()
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(addr.Port))
}

// OpenBrowser opens url in the default browser. Failure is reported but
// never fatal; the caller prints the URL for manual use.
func OpenBrowser(url string, log *slog.Logger) bool {
	if log == nil {
		log = slog.Default()
	}
	if err := openURL(url); err != nil {
		log.Warn("could not open browser automatically", "url", url, "error", err)
		return false
	}
	return true
}
