package config

import (
	"net/url"
	"strings"
)

// DefaultProxyURL is used when USE_PROXY is set without PROXY_URL.
const DefaultProxyURL = "socks5h://127.0.0.1:1080"

// DefaultNoProxy lists hosts and networks that are always dialled directly.
const DefaultNoProxy = "localhost,127.0.0.1,172.16.0.0/12,192.168.0.0/16"

// ProxyConfig holds proxy settings
type ProxyConfig struct {
	UseProxy bool
	ProxyURL string
	NoProxy  []string
}

// LoadProxyConfig reads proxy settings from USE_PROXY, PROXY_URL and NO_PROXY.
func LoadProxyConfig() *ProxyConfig {
	proxyURL := getEnv("PROXY_URL", DefaultProxyURL)
	noProxy := getEnv("NO_PROXY", DefaultNoProxy)

	var hosts []string
	for _, h := range strings.Split(noProxy, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}

	return &ProxyConfig{
		UseProxy: getEnvBool("USE_PROXY", false),
		ProxyURL: proxyURL,
		NoProxy:  hosts,
	}
}

// Enabled reports whether traffic should go through the proxy.
func (p *ProxyConfig) Enabled() bool {
	return p != nil && p.UseProxy && p.ProxyURL != ""
}

// SocksAddr returns host:port of the SOCKS proxy, or "" if the URL cannot be parsed.
func (p *ProxyConfig) SocksAddr() string {
	if !p.Enabled() {
		return ""
	}
	u, err := url.Parse(p.ProxyURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Host
}

// YtDlpProxy returns the value for yt-dlp's --proxy option, empty when disabled.
func (p *ProxyConfig) YtDlpProxy() string {
	if !p.Enabled() {
		return ""
	}
	return p.ProxyURL
}

// NoProxyList returns NO_PROXY as a comma separated string
func (p *ProxyConfig) NoProxyList() string {
	if p == nil {
		return ""
	}
	return strings.Join(p.NoProxy, ",")
}
