package leafclient

import "encoding/json"

// Backend application codes. The backend returns these inside the envelope
// body with HTTP 200; they deliberately mirror HTTP status semantics.
const (
	CodeOK           = 0
	CodeBadRequest   = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeServerError  = 500
)

// Envelope is the backend's uniform response body: {code, message, data}.
// Code zero means success; any other value is an application error and Data
// is not guaranteed to be present or meaningful.
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// DecodeData unmarshals the envelope payload into v. Calling it on an empty
// payload leaves v untouched and returns nil.
func (e *Envelope) DecodeData(v any) error {
	if len(e.Data) == 0 {
		return nil
	}
	return json.Unmarshal(e.Data, v)
}

// PageData is the backend's paged-list payload shape.
type PageData struct {
	List     json.RawMessage `json:"list"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// Notification texts shown through the Notifier. The backend manages its own
// envelope messages; these cover the cases where the client substitutes a
// fixed phrasing.
const (
	msgUnauthorized  = "unauthorized, please log in"
	msgForbidden     = "access denied"
	msgNotFound      = "requested resource not found"
	msgServerError   = "server error"
	msgRequestFailed = "request failed"
	msgNetworkError  = "network error, check your connection"
	msgConfigError   = "request configuration error"
)

// notificationFor maps an application error to the notification text to show.
// It is total: every non-zero code yields a message, falling back to the
// envelope's own message and then to the generic failure text.
func notificationFor(code int, envelopeMessage string) string {
	switch code {
	case CodeUnauthorized:
		return msgUnauthorized
	case CodeForbidden:
		return msgForbidden
	case CodeNotFound:
		return msgNotFound
	case CodeServerError:
		return msgServerError
	default:
		if envelopeMessage != "" {
			return envelopeMessage
		}
		return msgRequestFailed
	}
}
