package utils

import (
	"testing"

	"github.com/cloudwego/hertz/pkg/common/test/assert"
)

func TestValidateUsername(t *testing.T) {
	assert.Assert(t, ValidateUsername("alice_01"))
	assert.Assert(t, !ValidateUsername("al"))
	assert.Assert(t, !ValidateUsername("Alice"))
	assert.Assert(t, !ValidateUsername("alice smith"))
	assert.DeepEqual(t, "alice", NormalizeUsername("  Alice "))
}

func TestValidateEmail(t *testing.T) {
	assert.Assert(t, ValidateEmail("a.b+c@example.co"))
	assert.Assert(t, !ValidateEmail("not-an-email"))
	assert.Assert(t, !ValidateEmail("a@b"))
}

func TestHashKey(t *testing.T) {
	assert.DeepEqual(t, 64, len(HashKey("retry-1")))
	assert.DeepEqual(t, HashKey("retry-1"), HashKey("retry-1"))
	assert.Assert(t, HashKey("retry-1") != HashKey("retry-2"))
}
