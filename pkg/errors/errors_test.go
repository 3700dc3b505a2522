package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/cloudwego/hertz/pkg/common/test/assert"
)

func TestWithMessageKeepsCode(t *testing.T) {
	err := WellnessEntryInvalid.WithMessage("mood_today must be between 1 and 10")
	assert.DeepEqual(t, "INVALID_WELLNESS_ENTRY", err.Code)
	assert.DeepEqual(t, "mood_today must be between 1 and 10", err.Error())
	assert.Assert(t, stderrors.Is(err, WellnessEntryInvalid))
	assert.Assert(t, !stderrors.Is(err, UserNotFound))
}

func TestIsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("create entry: %w", UserNotFound)
	assert.Assert(t, stderrors.Is(wrapped, UserNotFound))

	var def Definition
	assert.Assert(t, stderrors.As(wrapped, &def))
	assert.DeepEqual(t, "USER_NOT_FOUND", def.Code)
}

func TestSkipMessageErrorUnwrapsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handle entry created: %w", &SkipMessageError{Reason: "already processed"})

	var skip *SkipMessageError
	assert.Assert(t, stderrors.As(err, &skip))
	assert.DeepEqual(t, "already processed", skip.Reason)
	assert.DeepEqual(t, "handle entry created: skip message: already processed", err.Error())
}
