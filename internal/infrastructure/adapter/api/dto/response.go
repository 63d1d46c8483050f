package dto

// Response is the envelope for every user-facing endpoint.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse is the envelope for failed requests. Code carries the
// application error code, not the HTTP status.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
}

// OK wraps data in a success envelope.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// OKWithMessage wraps data in a success envelope with a message.
func OKWithMessage(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Error builds an error envelope.
func Error(code int, message string) ErrorResponse {
	return ErrorResponse{Success: false, Code: code, Message: message}
}

// AckResponse is the minimal acknowledgement returned to the vendor's
// callback endpoints.
type AckResponse struct {
	Message string `json:"message"`
}
