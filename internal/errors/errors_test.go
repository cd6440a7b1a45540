package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_KeepsAppErrorCode(t *testing.T) {
	base := ConfigInvalid("rows must be > 0")
	wrapped := Wrap(base, "configuration validation failed")

	assert.Equal(t, CodeConfigInvalid, GetCode(wrapped))
	assert.Equal(t, "configuration validation failed: rows must be > 0", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, base))
}

func TestWrap_PlainErrorBecomesInternal(t *testing.T) {
	wrapped := Wrapf(stderrors.New("disk full"), "writing %s", "a.csv")

	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Equal(t, "writing a.csv: disk full", wrapped.Error())
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))
	assert.Nil(t, Wrapf(nil, "ignored %d", 1))
	assert.Nil(t, WithCode(CodeIOError, nil))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeIOError, stderrors.New("permission denied"))
	assert.Equal(t, CodeIOError, GetCode(err))
	assert.True(t, IsAppError(err))

	recoded := WithCode(CodeDatabaseError, IOError("write failed", nil))
	assert.Equal(t, CodeDatabaseError, GetCode(recoded))
	assert.Equal(t, "write failed", recoded.Error())
}

func TestGetCode_Unknown(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
	assert.False(t, IsAppError(stderrors.New("plain")))
}

func TestConstructors(t *testing.T) {
	cause := stderrors.New("boom")

	assert.Equal(t, CodeBalanceViolation, BalanceViolation(cause).Code)
	assert.Equal(t, CodeCardinalityInvalid, CardinalityInvalid(cause).Code)
	assert.Equal(t, CodeDegeneratePolynomial, DegeneratePolynomial("flat", cause).Code)
	assert.Equal(t, CodeDatabaseError, DatabaseError("insert", cause).Code)
	assert.Equal(t, "min_vars 6 > max_vars 5", ConfigInvalidf("min_vars %d > max_vars %d", 6, 5).Message)
	assert.ErrorIs(t, CardinalityInvalid(cause), cause)
}
