package errors

// ERR identifies the category of an Error. This module has no gRPC service
// boundary of its own, so the enum is hand-declared with the general-purpose
// codes plus the ones the sync engine actually raises.
type ERR int32

const (
	ERR_UNKNOWN ERR = iota
	ERR_INVALID_ARGUMENT
	ERR_THRESHOLD_EXCEEDED
	ERR_NOT_FOUND
	ERR_PROCESSING
	ERR_CONFIGURATION
	ERR_CONTEXT
	ERR_CONTEXT_CANCELED
	ERR_ERROR
	ERR_SERVICE_UNAVAILABLE
	ERR_SERVICE_NOT_STARTED
	ERR_SERVICE_ERROR

	// Network-level codes, shared by every peer-facing package.
	ERR_NETWORK_ERROR
	ERR_NETWORK_TIMEOUT
	ERR_NETWORK_CONNECTION_REFUSED
	ERR_NETWORK_INVALID_RESPONSE
	ERR_NETWORK_PEER_MALICIOUS

	ERR_STORAGE_UNAVAILABLE
	ERR_STORAGE_NOT_STARTED
	ERR_STORAGE_ERROR

	// Header/block sync codes, matching the taxonomy of spec §7.
	ERR_SYNC_CHANNEL_STOPPED
	ERR_SYNC_CHANNEL_TIMEOUT
	ERR_SYNC_PREVIOUS_BLOCK_INVALID
	ERR_SYNC_OPERATION_FAILED
	ERR_SYNC_QUORUM_UNREACHED
)

var errNames = map[ERR]string{
	ERR_UNKNOWN:                    "UNKNOWN",
	ERR_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ERR_THRESHOLD_EXCEEDED:         "THRESHOLD_EXCEEDED",
	ERR_NOT_FOUND:                  "NOT_FOUND",
	ERR_PROCESSING:                 "PROCESSING",
	ERR_CONFIGURATION:              "CONFIGURATION",
	ERR_CONTEXT:                    "CONTEXT",
	ERR_CONTEXT_CANCELED:           "CONTEXT_CANCELED",
	ERR_ERROR:                      "ERROR",
	ERR_SERVICE_UNAVAILABLE:        "SERVICE_UNAVAILABLE",
	ERR_SERVICE_NOT_STARTED:        "SERVICE_NOT_STARTED",
	ERR_SERVICE_ERROR:              "SERVICE_ERROR",
	ERR_NETWORK_ERROR:              "NETWORK_ERROR",
	ERR_NETWORK_TIMEOUT:            "NETWORK_TIMEOUT",
	ERR_NETWORK_CONNECTION_REFUSED: "NETWORK_CONNECTION_REFUSED",
	ERR_NETWORK_INVALID_RESPONSE:   "NETWORK_INVALID_RESPONSE",
	ERR_NETWORK_PEER_MALICIOUS:     "NETWORK_PEER_MALICIOUS",
	ERR_STORAGE_UNAVAILABLE:        "STORAGE_UNAVAILABLE",
	ERR_STORAGE_NOT_STARTED:        "STORAGE_NOT_STARTED",
	ERR_STORAGE_ERROR:              "STORAGE_ERROR",

	ERR_SYNC_CHANNEL_STOPPED:        "SYNC_CHANNEL_STOPPED",
	ERR_SYNC_CHANNEL_TIMEOUT:        "SYNC_CHANNEL_TIMEOUT",
	ERR_SYNC_PREVIOUS_BLOCK_INVALID: "SYNC_PREVIOUS_BLOCK_INVALID",
	ERR_SYNC_OPERATION_FAILED:       "SYNC_OPERATION_FAILED",
	ERR_SYNC_QUORUM_UNREACHED:       "SYNC_QUORUM_UNREACHED",
}

// String renders the ERR code's symbolic name, falling back to UNKNOWN for
// any value outside the declared set.
func (e ERR) String() string {
	if name, ok := errNames[e]; ok {
		return name
	}
	return "UNKNOWN"
}

var (
	ErrUnknown            = New(ERR_UNKNOWN, "unknown error")
	ErrInvalidArgument    = New(ERR_INVALID_ARGUMENT, "invalid argument")
	ErrThresholdExceeded  = New(ERR_THRESHOLD_EXCEEDED, "threshold exceeded")
	ErrNotFound           = New(ERR_NOT_FOUND, "not found")
	ErrProcessing         = New(ERR_PROCESSING, "error processing")
	ErrConfiguration      = New(ERR_CONFIGURATION, "configuration error")
	ErrContext            = New(ERR_CONTEXT, "context error")
	ErrContextCanceled    = New(ERR_CONTEXT_CANCELED, "context canceled")
	ErrError              = New(ERR_ERROR, "generic error")
	ErrServiceUnavailable = New(ERR_SERVICE_UNAVAILABLE, "service unavailable")
	ErrServiceNotStarted  = New(ERR_SERVICE_NOT_STARTED, "service not started")
	ErrServiceError       = New(ERR_SERVICE_ERROR, "service error")
	ErrStorageUnavailable = New(ERR_STORAGE_UNAVAILABLE, "storage unavailable")
	ErrStorageNotStarted  = New(ERR_STORAGE_NOT_STARTED, "storage not started")
	ErrStorageError       = New(ERR_STORAGE_ERROR, "storage error")

	// ErrChannelStopped: the channel or session is terminating — spec §7.
	ErrChannelStopped = New(ERR_SYNC_CHANNEL_STOPPED, "channel stopped")
	// ErrChannelTimeout: rate floor violated, or timer tick arrived after stop.
	ErrChannelTimeout = New(ERR_SYNC_CHANNEL_TIMEOUT, "channel timeout")
	// ErrPreviousBlockInvalid: merge failed linkage or checkpoint match.
	ErrPreviousBlockInvalid = New(ERR_SYNC_PREVIOUS_BLOCK_INVALID, "previous block invalid")
	// ErrOperationFailed: short response but target height not yet reached.
	ErrOperationFailed = New(ERR_SYNC_OPERATION_FAILED, "operation failed")
	// ErrQuorumUnreached: the session's address book was exhausted before quorum.
	ErrQuorumUnreached = New(ERR_SYNC_QUORUM_UNREACHED, "sync quorum unreached")
)

// errors initialization functions

func NewUnknownError(message string, params ...interface{}) error {
	return New(ERR_UNKNOWN, message, params...)
}

func NewInvalidArgumentError(message string, params ...interface{}) error {
	return New(ERR_INVALID_ARGUMENT, message, params...)
}

func NewThresholdExceededError(message string, params ...interface{}) error {
	return New(ERR_THRESHOLD_EXCEEDED, message, params...)
}

func NewNotFoundError(message string, params ...interface{}) error {
	return New(ERR_NOT_FOUND, message, params...)
}

func NewProcessingError(message string, params ...interface{}) error {
	return New(ERR_PROCESSING, message, params...)
}

func NewConfigurationError(message string, params ...interface{}) error {
	return New(ERR_CONFIGURATION, message, params...)
}

func NewContextError(message string, params ...interface{}) error {
	return New(ERR_CONTEXT, message, params...)
}

func NewContextCanceledError(message string, params ...interface{}) error {
	return New(ERR_CONTEXT_CANCELED, message, params...)
}

func NewError(message string, params ...interface{}) error {
	return New(ERR_ERROR, message, params...)
}

func NewServiceUnavailableError(message string, params ...interface{}) error {
	return New(ERR_SERVICE_UNAVAILABLE, message, params...)
}

func NewServiceNotStartedError(message string, params ...interface{}) error {
	return New(ERR_SERVICE_NOT_STARTED, message, params...)
}

func NewServiceError(message string, params ...interface{}) error {
	return New(ERR_SERVICE_ERROR, message, params...)
}

func NewStorageUnavailableError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_UNAVAILABLE, message, params...)
}

func NewStorageNotStartedError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_NOT_STARTED, message, params...)
}

func NewStorageError(message string, params ...interface{}) error {
	return New(ERR_STORAGE_ERROR, message, params...)
}

func NewNetworkError(message string, params ...interface{}) error {
	return New(ERR_NETWORK_ERROR, message, params...)
}
