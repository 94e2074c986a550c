package cast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMust(t *testing.T) {
	assert.Equal(t, 3, Must[int](3, "three"))
	assert.PanicsWithError(t, "could not convert data of label (string) to a int", func() {
		_ = Must[int]("x", "label")
	})
}
