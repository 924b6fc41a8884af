package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cocosearch/cocosearch/internal/types"
)

func TestToRelativeWithinRoot(t *testing.T) {
	assert.Equal(t, "src/main.go", ToRelative("/repo/src/main.go", "/repo"))
}

func TestToRelativeOutsideRootFallsBack(t *testing.T) {
	assert.Equal(t, "/other/main.go", ToRelative("/other/main.go", "/repo"))
}

func TestToRelativeAlreadyRelative(t *testing.T) {
	assert.Equal(t, "src/main.go", ToRelative("src/main.go", "/repo"))
}

func TestToRelativeEmptyInputs(t *testing.T) {
	assert.Equal(t, "", ToRelative("", "/repo"))
	assert.Equal(t, "/repo/main.go", ToRelative("/repo/main.go", ""))
}

func TestToRelativeResultsCopiesWithoutMutatingInput(t *testing.T) {
	original := []types.SearchResult{{Filename: "/repo/a.go"}}
	converted := ToRelativeResults(original, "/repo")
	assert.Equal(t, "a.go", converted[0].Filename)
	assert.Equal(t, "/repo/a.go", original[0].Filename)
}
