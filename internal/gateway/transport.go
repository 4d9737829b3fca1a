package gateway

import (
	"net/http"
	"net/url"
)

// newTransport builds the HTTP transport, routing through explicit proxies when configured
// and through HTTP_PROXY/HTTPS_PROXY otherwise
func newTransport(httpProxy, httpsProxy string) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = proxyFunc(httpProxy, httpsProxy)
	return transport
}

func proxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
