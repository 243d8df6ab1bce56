package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Invoker es el boundary RPC hacia el Token Service: la firma del cliente
// del data platform (invoke(endpointName, {body}) -> {data, error}).
// El manager lo recibe inyectado; en tests es un fake.
type Invoker interface {
	Invoke(ctx context.Context, endpoint string, body any) (json.RawMessage, error)
}

// TransportError: no se pudo alcanzar el servicio (DNS, conexión, timeout).
// Distinto de un rechazo HTTP para que el manager pueda decir
// "service unreachable" en lugar de "wrong password".
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("transport: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// StatusError: el servicio respondió con status no-2xx.
// Body conserva la respuesta JSON para extraer el mensaje del servidor.
type StatusError struct {
	Status int
	Body   json.RawMessage
}

func (e *StatusError) Error() string { return fmt.Sprintf("status %d", e.Status) }

// Message extrae el campo "error" del body, si existe.
func (e *StatusError) Message() string {
	var f struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(e.Body, &f); err == nil {
		return f.Error
	}
	return ""
}

// HTTPInvoker implementa Invoker sobre HTTP directo (el CLI lo usa; la SPA
// usa el invoke del data platform con el mismo contrato). Routes traduce el
// nombre lógico del endpoint al path HTTP real.
type HTTPInvoker struct {
	BaseURL string
	Routes  map[string]string
	Client  *http.Client
}

func NewHTTPInvoker(baseURL string) *HTTPInvoker {
	return &HTTPInvoker{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Routes: map[string]string{
			authEndpoint: "/v1/admin/auth",
		},
		Client: &http.Client{},
	}
}

func (h *HTTPInvoker) Invoke(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	path, ok := h.Routes[endpoint]
	if !ok {
		path = "/" + endpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Status: resp.StatusCode, Body: data}
	}
	return data, nil
}
