package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("line 3 'D=Q' bad", From("line %d '%v' %v", 3, "D=Q", "bad"))
	assert.NotEqual("", Language().String())
}
