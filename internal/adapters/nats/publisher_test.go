package natsadapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionSubject(t *testing.T) {
	assert.Equal(t, "routemap.selection.24", SelectionSubject("24"))
	assert.Equal(t, "routemap.selection.none", SelectionSubject(""))
}
