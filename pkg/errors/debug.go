package errors

import (
	"errors"
	"fmt"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	GatewayStatus    int    `json:"gateway_status,omitempty"`
	GatewayRequestID string `json:"gateway_request_id,omitempty"`
}

// gatewayError is satisfied by remote API errors that carry the upstream
// HTTP status and request id for debugging.
type gatewayError interface {
	GatewayStatus() int
	GatewayRequestID() string
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var gwErr gatewayError
	if errors.As(err, &gwErr) {
		d.GatewayStatus = gwErr.GatewayStatus()
		d.GatewayRequestID = gwErr.GatewayRequestID()
	}

	return d
}
