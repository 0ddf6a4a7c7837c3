package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_FormatVersion(t *testing.T) {
	assert.EqualValues(t, "head, no build date", formatVersion("head", "", ""))
	assert.EqualValues(t, "v1.2.0, invalid build date", formatVersion("v1.2.0", "yesterday", ""))
	assert.EqualValues(t, "v1.2.0, built on Jun 17 2021 @ 09:30:12, ref 0abc123", formatVersion("v1.2.0", "1623922212", "0abc123"))
}
