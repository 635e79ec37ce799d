package command

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mosaicnetworks/murmur/src/version"
	"github.com/mosaicnetworks/murmur/src/workload/echo"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const initLine = `{"src":"c0","dest":"n1","body":{"type":"init","msg_id":1,"node_id":"n1","node_ids":["n1"]}}`

func TestVersionFlag(t *testing.T) {
	out := &bytes.Buffer{}

	cmd := newRootCmd("echo", "test", echo.New, strings.NewReader(""), &bytes.Buffer{})
	cmd.SetOutput(out)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, version.Version+"\n", out.String())
}

func TestRunOverStreams(t *testing.T) {
	dir := t.TempDir()
	out := &bytes.Buffer{}

	in := strings.NewReader(initLine + "\n" +
		`{"src":"c1","dest":"n1","body":{"type":"echo","msg_id":2,"echo":"hi"}}` + "\n")

	cmd := newRootCmd("echo", "test", echo.New, in, out)
	cmd.SetArgs([]string{"--datadir", dir, "--log", "error"})

	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"init_ok"`)
	assert.Contains(t, lines[1], `"echo_ok"`)
	assert.Contains(t, lines[1], `"in_reply_to":2`)
}

func TestConfigSources(t *testing.T) {
	dir := t.TempDir()
	toml := "log = \"warn\"\ngossip-interval = \"250ms\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "murmur.toml"), []byte(toml), 0644))

	t.Setenv("MURMUR_SERVICE_LISTEN", "127.0.0.1:9999")

	r := newRunner("echo", echo.New, strings.NewReader(""), &bytes.Buffer{})

	cmd := r.command("test")
	cmd.RunE = func(*cobra.Command, []string) error { return nil }
	cmd.SetArgs([]string{"--datadir", dir, "--log-file", filepath.Join(dir, "murmur.log")})

	require.NoError(t, cmd.Execute())

	assert.Equal(t, dir, r.config.DataDir)
	assert.Equal(t, "warn", r.config.LogLevel)
	assert.Equal(t, 250*time.Millisecond, r.config.GossipInterval)
	assert.Equal(t, "127.0.0.1:9999", r.config.ServiceAddr)
	assert.Equal(t, filepath.Join(dir, "murmur.log"), r.config.LogFile)
}
