package archon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const buildPage = `<!DOCTYPE html>
<html>
<body>
	<div class="build">
		<a href="https://example.com/somewhere">unrelated</a>
		<a href="https://www.wowhead.com/talent-calc/blizzard/mage/frost/XYZ123">open in calculator</a>
		<a href="https://www.wowhead.com/talent-calc/blizzard/mage/frost/OTHER">second link</a>
	</div>
</body>
</html>`

func TestExtractTalentCode(t *testing.T) {
	code, err := ExtractTalentCode([]byte(buildPage))
	require.NoError(t, err)
	require.Equal(t, "mage/frost/XYZ123", code)
}

func TestExtractTalentCodeAbsent(t *testing.T) {
	code, err := ExtractTalentCode([]byte(`<html><body><a href="/other">nope</a></body></html>`))
	require.NoError(t, err)
	require.Equal(t, "", code)
}

func TestExtractTalentCodeEmptyDocument(t *testing.T) {
	code, err := ExtractTalentCode(nil)
	require.NoError(t, err)
	require.Equal(t, "", code)
}
