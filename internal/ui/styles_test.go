package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuccessContainsPrefixAndMessage(t *testing.T) {
	result := Success("done")
	assert.Contains(t, result, "✓")
	assert.Contains(t, result, "done")
}

func TestWarnContainsPrefixAndMessage(t *testing.T) {
	result := Warn("careful")
	assert.Contains(t, result, "⚠")
	assert.Contains(t, result, "careful")
}

func TestErrContainsPrefixAndMessage(t *testing.T) {
	result := Err("failed")
	assert.Contains(t, result, "✗")
	assert.Contains(t, result, "failed")
}

func TestAddrContainsAddress(t *testing.T) {
	assert.Contains(t, Addr("5GrwvaEF"), "5GrwvaEF")
}

func TestPalletContainsName(t *testing.T) {
	assert.Contains(t, Pallet("Contracts"), "Contracts")
}

func TestConfirmStringsMentionFlag(t *testing.T) {
	assert.Contains(t, ConfirmHeader(), "--skip-confirm")
	assert.Contains(t, SubmitPrompt(), "Submit?")
	assert.Contains(t, SubmitPrompt(), "/n")
}
