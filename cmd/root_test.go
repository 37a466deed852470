package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRootCommandWiring confirms the extract subcommand is registered.
func TestRootCommandWiring(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	require.Equal(t, "allowlist", root.Use)

	names := make([]string, 0, len(root.Commands()))
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	require.Contains(t, names, "extract")

	flag := root.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
}
