package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"perfstat/config"
	"perfstat/core"
)

func writeInput(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

// run executes perfstat with args and a configuration file that does not
// exist, so the default layouts apply.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	noConfig := filepath.Join(t.TempDir(), "absent.yaml")
	cmd.SetArgs(append([]string{"--" + FlagConfig, noConfig}, args...))
	err := cmd.Execute()
	return out.String(), err
}

const perfLine1 = "1 2 10 5 0 0 20 8 0 0 0 0 0 0\n"
const perfLine2 = "3 4 30 7 2 2 40 0 0 0 0 0 6 1\n"

func TestMean(t *testing.T) {
	dir := t.TempDir()
	path := writeInput(t, dir, "perf.log", perfLine1+perfLine2)

	out, err := run(t, CmdMean, path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, fmt.Sprintf("%-20s: %10s    %-20s: %10s",
		"time(system)", "2.00", "time(process)", "3.00"), lines[0])
	assert.Equal(t, fmt.Sprintf("%-20s: %10s    %-20s: %10s",
		"conses(bytes)", "20.00", "conses(consumed)", "6.00"), lines[1])
	assert.Contains(t, lines[6], "vectors(consumed)")
}

func TestMean_MultipleFilesAndStdDev(t *testing.T) {
	dir := t.TempDir()
	first := writeInput(t, dir, "a.log", perfLine1)
	second := writeInput(t, dir, "b.log", perfLine2)

	merged, err := run(t, CmdMean, first, second)
	require.NoError(t, err)

	whole := writeInput(t, dir, "all.log", perfLine1+perfLine2)
	single, err := run(t, CmdMean, whole)
	require.NoError(t, err)
	assert.Equal(t, single, merged)

	out, err := run(t, CmdMean, "--"+FlagStdDev, whole)
	require.NoError(t, err)
	assert.Contains(t, out, "stddev:\n")
	assert.Contains(t, out, fmt.Sprintf("%-20s: %10s", "time(system)", "1.41"))
}

func TestMean_Raw(t *testing.T) {
	dir := t.TempDir()
	path := writeInput(t, dir, "perf.log", perfLine1+perfLine2)

	out, err := run(t, CmdMean, "--"+FlagRaw, path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, fmt.Sprintf("%-20s: %10s", "time(system)", "4")))
}

func TestMean_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, CmdMean, writeInput(t, dir, "empty.log", "\n\n"))
	var divErr *core.DivisionError
	assert.True(t, errors.As(err, &divErr))

	_, err = run(t, CmdMean, writeInput(t, dir, "short.log", perfLine1+"1 2 3\n"))
	var formatErr *core.FormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, 2, formatErr.Line)
	assert.Contains(t, err.Error(), "short.log")

	_, err = run(t, CmdMean, filepath.Join(dir, "missing.log"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = run(t, CmdMean)
	assert.Error(t, err)

	_, err = run(t, CmdMean, "--"+FlagLayout, "nope", writeInput(t, dir, "ok.log", perfLine1))
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	dir := t.TempDir()
	path := writeInput(t, dir, "perf.log", "0 0 10 5 0 0 20 8 0 0 0 0 0 0\nnot even numbers\n")

	out, err := run(t, CmdSummary, "boot", path)
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("%-10s", "boot")+" conses: 5/10 functions: 8/20 total: 13/30\n", out)
}

func TestSummary_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, CmdSummary, "t", writeInput(t, dir, "empty.log", ""))
	var formatErr *core.FormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, "no record", formatErr.Reason)

	_, err = run(t, CmdSummary, "t", writeInput(t, dir, "float.log", "0 0 1.5 1 0 0 0 0 0 0 0 0 0 0\n"))
	assert.True(t, errors.As(err, &formatErr))

	_, err = run(t, CmdSummary, "only-title")
	assert.Error(t, err)
}

func TestArchiveHistoryShowDelete(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "archive")
	meanInput := writeInput(t, dir, "perf.log", perfLine1+perfLine2)
	summaryInput := writeInput(t, dir, "one.log", perfLine1)

	meanOut, err := run(t, "--"+FlagArchive, archive, CmdMean, meanInput)
	require.NoError(t, err)
	summaryOut, err := run(t, "--"+FlagArchive, archive, CmdSummary, "boot", summaryInput)
	require.NoError(t, err)
	_, err = run(t, "--"+FlagArchive, archive, CmdMean, "--"+FlagNoArchive, meanInput)
	require.NoError(t, err)

	history, err := run(t, "--"+FlagArchive, archive, CmdHistory)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(history, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], config.LayoutMean)
	assert.Contains(t, lines[1], "perf.log")
	assert.Contains(t, lines[2], "boot")

	shown, err := run(t, "--"+FlagArchive, archive, CmdShow, "1")
	require.NoError(t, err)
	assert.Equal(t, meanOut, shown)

	shown, err = run(t, "--"+FlagArchive, archive, CmdShow, "2")
	require.NoError(t, err)
	assert.Equal(t, summaryOut, shown)

	_, err = run(t, "--"+FlagArchive, archive, CmdDelete, "1")
	require.NoError(t, err)
	_, err = run(t, "--"+FlagArchive, archive, CmdShow, "1")
	assert.Error(t, err)

	_, err = run(t, "--"+FlagArchive, archive, CmdShow, "x")
	assert.Error(t, err)
}

func TestHistory_NoArchive(t *testing.T) {
	_, err := run(t, CmdHistory)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no archive configured")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perfstat.yaml")

	out, err := run(t, CmdConfig, CmdConfigInit, path)
	require.NoError(t, err)
	assert.Equal(t, "wrote "+path+"\n", out)

	_, err = run(t, CmdConfig, CmdConfigInit, path)
	assert.Error(t, err)

	_, err = run(t, CmdConfig, CmdConfigInit, "--"+FlagForce, path)
	require.NoError(t, err)

	loaded, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Contains(t, loaded.Layouts, config.LayoutSummary)
}

func TestCustomConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeInput(t, dir, "cfg.yaml", `layouts:
  pair:
    arity: 4
    numeric: integer
    division: floor
    groups:
      - {label: a, left: 0, right: 1, left_label: left, right_label: right}
      - {label: b, left: 2, right: 3}
`)
	input := writeInput(t, dir, "in.log", "1 2 3 4\n2 3 4 6\n")

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"--" + FlagConfig, cfgPath, CmdMean, "--" + FlagLayout, "pair", input})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, fmt.Sprintf("%-20s: %10s    %-20s: %10s\n%-20s: %10s    %-20s: %10s\n",
		"left", "1.00", "right", "2.00", "b", "3.00", "b", "5.00"), out.String())
}
