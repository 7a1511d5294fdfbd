package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is the wire format version. Bump only with a
// coordinated client release.
const envelopeVersion = 1

// SuccessEnvelope wraps successful response data.
type SuccessEnvelope struct {
	V       int  `json:"v" doc:"Envelope version"`
	Success bool `json:"success" doc:"Always true for success responses"`
	Data    any  `json:"data,omitempty" doc:"Response payload"`
}

// SimpleErrorEnvelope carries an error as a plain string.
type SimpleErrorEnvelope struct {
	V       int    `json:"v" doc:"Envelope version"`
	Success bool   `json:"success" doc:"Always false for error responses"`
	Error   string `json:"error" doc:"Error message"`
}

// DetailedErrorEnvelope carries a machine-readable error.
type DetailedErrorEnvelope struct {
	V       int    `json:"v" doc:"Envelope version"`
	Success bool   `json:"success" doc:"Always false for error responses"`
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// EnvelopeTransformer wraps every response body in the versioned
// envelope. Errors with a code produce the detailed form; errors
// without one collapse to a plain string.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		if apiErr.Code == "" {
			return &SimpleErrorEnvelope{
				V:       envelopeVersion,
				Success: false,
				Error:   apiErr.Message,
			}, nil
		}
		return &DetailedErrorEnvelope{
			V:       envelopeVersion,
			Success: false,
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		}, nil
	}

	return &SuccessEnvelope{
		V:       envelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}
