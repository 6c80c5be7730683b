package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	input := "  Jane Doe  \n\n\n\nBioinformatics Scientist\n   \n\nPython, NGS\n"

	cleaned := CleanText(input)
	assert.Equal(t, "Jane Doe\n\nBioinformatics Scientist\n\nPython, NGS", cleaned)
}

func TestCleanTextEmpty(t *testing.T) {
	assert.Equal(t, "", CleanText("   \n \n  "))
}
