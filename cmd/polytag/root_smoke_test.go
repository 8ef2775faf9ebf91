package main

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gravitrone/polytag/internal/cmd"
)

func TestRunTUIMissingConfigReturnsError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	err := runTUI(context.Background(), &cmd.Options{})
	assert.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRootRegistersSubcommands(t *testing.T) {
	root := newRoot()
	names := []string{}
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"init", "list", "search", "attach", "detach"})
	assert.NotNil(t, root.PersistentFlags().Lookup("record"))
	assert.NotNil(t, root.PersistentFlags().Lookup("debug"))
}

func TestMainHelpFlagDoesNotExit(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"polytag", "--help"}
	defer func() { os.Args = oldArgs }()

	// main() should return normally for help (no os.Exit).
	main()
}

func TestRootHelpOutput(t *testing.T) {
	root := newRoot()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"search", "--help"})
	assert.NoError(t, root.Execute())
}
