package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roveo/topo-vba/codegen"
	"github.com/roveo/topo-vba/tools"
)

func TestParseMemberSpecs(t *testing.T) {
	got := parseMemberSpecs([]string{"mName", "mValues = Values", " mOrigin="})
	assert.Equal(t, []tools.UDTMemberInput{
		{Field: "mName"},
		{Field: "mValues", Identifier: "Values"},
		{Field: "mOrigin"},
	}, got)

	assert.Empty(t, parseMemberSpecs(nil))
}

func TestParseNewline(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", codegen.NewlineCRLF, false},
		{"crlf", codegen.NewlineCRLF, false},
		{"LF", codegen.NewlineLF, false},
		{" lf ", codegen.NewlineLF, false},
		{"cr", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseNewline(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigFromViper_Defaults(t *testing.T) {
	cfg, err := configFromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, codegen.NewlineCRLF, cfg.Newline)
	assert.Nil(t, cfg.Indent)
	assert.Empty(t, cfg.SkipPatterns)
	require.NotNil(t, cfg.Logger)
}

func TestConfigFromViper_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".topo-vba.yaml")
	content := `skip:
  - legacy/
limit: 50
indent: 2
newline: lf
value-parameter: RHS
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := configFromViper(v)
	require.NoError(t, err)

	assert.Equal(t, []string{"legacy/"}, cfg.SkipPatterns)
	assert.Equal(t, 50, cfg.LineLimit)
	require.NotNil(t, cfg.Indent)
	assert.Equal(t, 2, *cfg.Indent)
	assert.Equal(t, codegen.NewlineLF, cfg.Newline)
	assert.Equal(t, "RHS", cfg.ValueParameter)
}

func TestConfigFromViper_ZeroIndent(t *testing.T) {
	v := viper.New()
	v.Set("indent", 0)

	cfg, err := configFromViper(v)
	require.NoError(t, err)
	require.NotNil(t, cfg.Indent)
	assert.Equal(t, 0, *cfg.Indent)
	assert.Equal(t, "X As Long", cfg.Builder().UDTMemberDeclaration("X", "Long"))
}

func TestConfigFromViper_Invalid(t *testing.T) {
	v := viper.New()
	v.Set("newline", "cr")
	_, err := configFromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("indent", -1)
	_, err = configFromViper(v)
	assert.Error(t, err)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"mcp", "signatures", "block", "encapsulate", "udt"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestContentFlag(t *testing.T) {
	newCmd := func(content, file string) *cobra.Command {
		cmd := &cobra.Command{}
		cmd.Flags().String("content", content, "")
		cmd.Flags().String("content-file", file, "")
		return cmd
	}

	got, err := contentFlag(newCmd("    x = 1", ""))
	require.NoError(t, err)
	assert.Equal(t, "    x = 1", got)

	path := filepath.Join(t.TempDir(), "body.bas")
	require.NoError(t, os.WriteFile(path, []byte("    x = 1\r\n    y = 2\r\n"), 0o644))
	got, err = contentFlag(newCmd("", path))
	require.NoError(t, err)
	assert.Equal(t, "    x = 1\r\n    y = 2", got)

	_, err = contentFlag(newCmd("x", path))
	assert.ErrorContains(t, err, "mutually exclusive")

	_, err = contentFlag(newCmd("", filepath.Join(t.TempDir(), "missing.bas")))
	assert.ErrorContains(t, err, "failed to read content")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
