package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_NewCustomError(t *testing.T) {
	err := New(ERR_NOT_FOUND, "resource not found")
	require.NotNil(t, err)
	require.Equal(t, ERR_NOT_FOUND, err.Code())
	require.Equal(t, "resource not found", err.Message())

	secondErr := New(ERR_INVALID_ARGUMENT, "[headers][%s] failed to merge: ", "peer1", err)
	thirdErr := New(ERR_SYNC_PREVIOUS_BLOCK_INVALID, "[headers][%s] failed to merge: ", "peer1", secondErr)
	anotherErr := New(ERR_SYNC_PREVIOUS_BLOCK_INVALID, "another block is invalid")
	fourthErr := New(ERR_SERVICE_ERROR, "older error: ", thirdErr)
	fifthErr := New(ERR_SYNC_CHANNEL_STOPPED, "channel stopped", fourthErr)

	require.True(t, anotherErr.Is(thirdErr))
	require.True(t, fourthErr.Is(New(ERR_SYNC_PREVIOUS_BLOCK_INVALID, "")))
	require.True(t, fourthErr.Is(ErrPreviousBlockInvalid))

	require.True(t, fourthErr.Is(err))
	require.True(t, fifthErr.Is(thirdErr))
	require.True(t, fifthErr.Is(err))

	require.False(t, anotherErr.Is(fourthErr))
	require.False(t, fifthErr.Is(ErrChannelTimeout))
}

func Test_FmtErrorCustomError(t *testing.T) {
	err := New(ERR_NOT_FOUND, "resource not found")
	require.NotNil(t, err)
	require.Equal(t, ERR_NOT_FOUND, err.Code())
	require.Equal(t, "resource not found", err.Message())

	fmtError := fmt.Errorf("error: %w", err)
	require.NotNil(t, fmtError)
	secondErr := New(ERR_INVALID_ARGUMENT, "[headers][%s] failed to merge: ", "peer1", fmtError)
	require.NotNil(t, secondErr)

	// fmt.Errorf loses the *Error identity; codes no longer compare equal.
	require.False(t, secondErr.Is(err))

	altErr := New(ERR_INVALID_ARGUMENT, "invalid argument", err)
	altSecondErr := New(ERR_INVALID_ARGUMENT, "[headers][%s] failed to merge: ", "peer1", fmtError)
	require.True(t, altSecondErr.Is(altErr))
}

func Test_UnknownErrorCode(t *testing.T) {
	err := New(ERR(9999), "made up code")
	require.Equal(t, "invalid error code", err.Message())
}

func Test_NilErrorIsSafe(t *testing.T) {
	var err *Error

	require.Equal(t, "<nil>", err.Error())
	require.Equal(t, ERR_UNKNOWN, err.Code())
	require.Equal(t, "", err.Message())
	require.Nil(t, err.WrappedErr())
	require.Nil(t, err.Data())
	require.False(t, err.Is(ErrUnknown))
	require.False(t, err.As(&Error{}))
}

func Test_ErrorData(t *testing.T) {
	err := New(ERR_SYNC_PREVIOUS_BLOCK_INVALID, "bad linkage")
	err.SetData("height", uint64(101))

	require.Equal(t, uint64(101), err.GetData("height"))
	require.NotNil(t, err.Data())
}

func Test_Join(t *testing.T) {
	require.Nil(t, Join())
	require.Nil(t, Join(nil, nil))

	joined := Join(ErrChannelStopped, ErrChannelTimeout)
	require.Error(t, joined)
	require.Contains(t, joined.Error(), "channel stopped")
	require.Contains(t, joined.Error(), "channel timeout")
}

func Test_As(t *testing.T) {
	wrapped := New(ERR_SYNC_CHANNEL_TIMEOUT, "rate floor", ErrChannelTimeout)

	var target *Error
	require.True(t, As(wrapped, &target))
	require.Equal(t, ERR_SYNC_CHANNEL_TIMEOUT, target.Code())
}
