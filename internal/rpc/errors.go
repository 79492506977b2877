package rpc

import (
	"errors"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/goran-ethernal/StateIndexor/internal/retry"
)

// bitcoind JSON-RPC error codes the client reacts to.
const (
	codeInvalidParameter btcjson.RPCErrorCode = -8
	codeInWarmup         btcjson.RPCErrorCode = -28
	codeBlockNotFound    btcjson.RPCErrorCode = -5
)

// ErrHeightOutOfRange is returned when a height above the node's tip is requested.
var ErrHeightOutOfRange = errors.New("block height out of range")

// rpcErrorCode extracts the JSON-RPC error code of err, if it carries one.
func rpcErrorCode(err error) (btcjson.RPCErrorCode, bool) {
	var rpcErr *btcjson.RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr.Code, true
	}
	return 0, false
}

// IsHeightOutOfRange reports whether err means the node does not have the requested block yet.
func IsHeightOutOfRange(err error) bool {
	if errors.Is(err, ErrHeightOutOfRange) {
		return true
	}
	code, ok := rpcErrorCode(err)
	return ok && code == codeInvalidParameter
}

// IsRetryable reports whether a failed call should be retried. Node side
// errors are final except while the node is still warming up.
func IsRetryable(err error) bool {
	if code, ok := rpcErrorCode(err); ok {
		return code == codeInWarmup
	}
	return retry.IsTransientNetwork(err)
}

// errorType labels err for the error metric.
func errorType(err error) string {
	code, ok := rpcErrorCode(err)
	switch {
	case !ok:
		if retry.IsTransientNetwork(err) {
			return "transport"
		}
		return "other"
	case code == codeInvalidParameter:
		return "out_of_range"
	case code == codeBlockNotFound:
		return "not_found"
	case code == codeInWarmup:
		return "warmup"
	default:
		return "rpc"
	}
}
