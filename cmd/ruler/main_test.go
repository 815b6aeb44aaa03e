package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_Version(t *testing.T) {
	assert.Equal(t, 0, run([]string{"version"}))
}

func TestRun_UnknownCommand(t *testing.T) {
	assert.Equal(t, 1, run([]string{"frobnicate"}))
}
