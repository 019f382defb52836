//go:build windows

package pathcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsExecutable_PathExt(t *testing.T) {
	t.Setenv("PATHEXT", ".COM;.EXE;.BAT")

	assert.True(t, isExecutable(`C:\Programme\mosquitto\mosquitto_pub.exe`, nil))
	assert.True(t, isExecutable(`C:\tools\pub.BAT`, nil))
	assert.False(t, isExecutable(`C:\tools\pub.cmd`, nil))
	assert.False(t, isExecutable(`C:\tools\mosquitto_pub`, nil))
}
