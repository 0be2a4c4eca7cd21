package netx

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"strings"
	"time"

	xproxy "golang.org/x/net/proxy"

	"videoBot/config"
)

const (
	dialTimeout = 30 * time.Second
	keepAlive   = 30 * time.Second
)

// hostInNoProxy reports whether host must bypass the proxy.
func hostInNoProxy(host string, noProxy []string) bool {
	host = strings.ToLower(host)
	ip := net.ParseIP(host)
	for _, token := range noProxy {
		token = strings.TrimSpace(strings.ToLower(token))
		if token == "" {
			continue
		}
		if host == token || strings.HasSuffix(host, "."+token) {
			return true
		}
		if ip != nil {
			if _, cidr, err := net.ParseCIDR(token); err == nil && cidr.Contains(ip) {
				return true
			}
		}
	}
	if ip != nil && (ip.IsLoopback() || ip.IsPrivate()) {
		return true
	}
	return host == "localhost"
}

// NewHTTPClient returns a client that dials through the SOCKS5 proxy from p,
// going direct for local, private and NO_PROXY hosts. A nil or disabled p
// gives a plain direct client.
//
// No overall Timeout is set: Telegram long polling and video uploads are
// bounded by the caller, not the transport.
func NewHTTPClient(p *config.ProxyConfig) *http.Client {
	baseDialer := &net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: keepAlive,
	}

	tr := &http.Transport{
		// SOCKS is handled in DialContext, never through the HTTP proxy hook
		Proxy:             nil,
		ForceAttemptHTTP2: true,
		TLSClientConfig:   &tls.Config{MinVersion: tls.VersionTLS12},
		DialContext:       baseDialer.DialContext,
	}

	socksAddr := p.SocksAddr()
	if socksAddr == "" {
		return &http.Client{Transport: tr}
	}

	tr.DialContext = func(ctx context.Context, network, address string) (net.Conn, error) {
		host, _, _ := net.SplitHostPort(address)
		if hostInNoProxy(host, p.NoProxy) {
			return baseDialer.DialContext(ctx, network, address)
		}
		// socks5h: the proxy resolves the hostname
		d, err := xproxy.SOCKS5("tcp", socksAddr, nil, baseDialer)
		if err != nil {
			return nil, err
		}
		if cd, ok := d.(xproxy.ContextDialer); ok {
			return cd.DialContext(ctx, network, address)
		}
		return d.Dial(network, address)
	}

	return &http.Client{Transport: tr}
}
