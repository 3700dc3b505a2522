package snowflake

import (
	"testing"

	"github.com/cloudwego/hertz/pkg/common/test/assert"
)

func TestNextIDIsUniqueAndIncreasing(t *testing.T) {
	assert.Nil(t, Init(1, 1))

	prev, err := NextID()
	assert.Nil(t, err)
	for i := 0; i < 1000; i++ {
		id, err := NextID()
		assert.Nil(t, err)
		assert.Assert(t, id > prev, id, prev)
		prev = id
	}
}
