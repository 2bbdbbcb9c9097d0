package mcpquic

import (
	"errors"

	"github.com/quic-go/quic-go"
)

// QUIC stream-level error codes.
const (
	StreamErrorProtocolConfusion quic.StreamErrorCode = 0x02
)

// QUIC connection-level error codes.
const (
	ConnErrorNoError           quic.ApplicationErrorCode = 0x00
	ConnErrorUnsupportedALPN   quic.ApplicationErrorCode = 0x01
	ConnErrorProtocolViolation quic.ApplicationErrorCode = 0x03
)

var ErrInvalidMagicBytes = errors.New("invalid magic bytes: expected " + MagicBytes)
