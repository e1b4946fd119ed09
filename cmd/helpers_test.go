package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const (
	testBusinessesYAML = `
businesses:
  - id: b1
    name: Cloudwerk
    interests: [SaaS, Cloud Infrastructure]
  - id: b2
    name: Finstack
    interests: [Fintech, Risk Analysis]
  - id: b3
    name: Sensorik
    interests: [IoT, Manufacturing]
`
	testSpacesYAML = `
spaces:
  - id: s1
    name: Tech Hub
    capacity: 20
    location: Schwabing, Munich
    amenities: [High-speed internet]
  - id: s2
    name: Vault
    capacity: 6
    location: Altstadt, Munich
    amenities: [Secure storage]
`
)

type fixtures struct {
	dir        string
	businesses string
	spaces     string
}

// setupCLI moves into a fresh directory holding the fixtures, so no
// config.yaml is found and the SQLite store lands in the temp dir.
func setupCLI(t *testing.T) fixtures {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	t.Setenv("CLUSTER_LOG_LEVEL", "error")

	f := fixtures{
		dir:        dir,
		businesses: filepath.Join(dir, "businesses.yaml"),
		spaces:     filepath.Join(dir, "spaces.yaml"),
	}
	require.NoError(t, os.WriteFile(f.businesses, []byte(testBusinessesYAML), 0o644))
	require.NoError(t, os.WriteFile(f.spaces, []byte(testSpacesYAML), 0o644))
	return f
}

func (f fixtures) dataArgs(args ...string) []string {
	return append(args, "--businesses", f.businesses, "--spaces", f.spaces)
}

// resetFlags restores every flag to its default; cobra keeps parsed values
// between Execute calls in one process.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		_ = fl.Value.Set(fl.DefValue)
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func runJSON[T any](t *testing.T, args ...string) T {
	t.Helper()
	out, err := runCLI(t, append(args, "--format", "json")...)
	require.NoError(t, err)

	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}
