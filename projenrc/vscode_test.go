package projenrc

import (
	"slices"
	"testing"

	"github.com/hexops/autogold/v2"
	"github.com/stretchr/testify/require"
)

func TestLintServerProperties(t *testing.T) {
	props := LintServerProperties()
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	autogold.Expect([]string{"lintServer.fixableSource", "lintServer.lintFileUri", "lintServer.uri"}).Equal(t, keys)

	for k, p := range props {
		require.Equal(t, "resource", p.Scope, k)
	}
}
