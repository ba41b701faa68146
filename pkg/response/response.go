// Package response defines the envelope every endpoint answers with.
package response

import "time"

// Envelope is the unified response shape.
type Envelope struct {
	Result    bool   `json:"result"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func build(result bool, message string, data any) Envelope {
	return Envelope{
		Result:    result,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
}

func OK(data any) Envelope       { return build(true, "request processed", data) }
func SaveOK(data any) Envelope   { return build(true, "saved", data) }
func UpdateOK(data any) Envelope { return build(true, "updated", data) }
func DeleteOK() Envelope         { return build(true, "deleted", nil) }

// ErrorDetail carries the application error code alongside the message.
type ErrorDetail struct {
	Code string `json:"code"`
}

func Error(code, message string) Envelope { return build(false, message, ErrorDetail{Code: code}) }
