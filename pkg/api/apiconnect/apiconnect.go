// Package apiconnect wires the splitledger services to Connect: procedure
// names, HTTP handlers for servers, and typed clients.
//
// Every handler and client uses api.Codec, so the services speak plain JSON
// over the Connect protocol (for example with curl:
// `curl -H 'Content-Type: application/json' -d '{}' $URL/splitledger.v1.AuthService/GetCurrentUser`).
package apiconnect

import (
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

// Package is the versioned RPC package shared by all services.
const Package = "splitledger.v1"

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
}

func trimBaseURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/")
}

// routes dispatches on the full request path to one handler per procedure.
type routes map[string]http.Handler

func (r routes) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if h, ok := r[req.URL.Path]; ok {
		h.ServeHTTP(w, req)
		return
	}
	http.NotFound(w, req)
}
