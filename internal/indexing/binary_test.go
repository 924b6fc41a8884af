package indexing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBinaryByExtension(t *testing.T) {
	bd := newBinaryDetector()
	assert.True(t, bd.isBinaryByExtension("logo.png"))
	assert.False(t, bd.isBinaryByExtension("main.go"))
	assert.False(t, bd.isBinaryByExtension("bundle.min.js"))
}

func TestIsBinaryByMagicNumber(t *testing.T) {
	bd := newBinaryDetector()
	assert.True(t, bd.isBinaryByMagicNumber([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A}))
	assert.False(t, bd.isBinaryByMagicNumber([]byte("package main\n\nfunc main() {}\n")))
}

func TestIsBinaryNullByteHeuristic(t *testing.T) {
	bd := newBinaryDetector()
	sample := make([]byte, 200)
	for i := range sample {
		if i%10 == 0 {
			sample[i] = 0
		} else {
			sample[i] = 'a'
		}
	}
	assert.True(t, bd.isBinaryByMagicNumber(sample))
}
