package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericlevine/zxcore/internal/testutil"
	"github.com/ericlevine/zxcore/pdf417/symbol"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestScanCommand(t *testing.T) {
	dir := workspace(t)
	sym, err := testutil.NewPDF417(testutil.TextCodewords("HELLO WORLD"), 2, 1)
	require.NoError(t, err)
	pdf := filepath.Join(dir, "ticket.png")
	require.NoError(t, imaging.Save(testutil.Image(sym.BitMatrix(symbol.Enumerated(), 3, 3, 2)), pdf))
	blank := filepath.Join(dir, "blank.png")
	require.NoError(t, imaging.Save(testutil.Blank(80, 40), blank))

	out, err := run(t, "scan", "--formats", "PDF_417", "--dump-results", dir)
	assert.Error(t, err)
	assert.Contains(t, out, blank+": No barcode found\n")
	assert.Contains(t, out, pdf+": PDF_417 HELLO WORLD\n")
	assert.Contains(t, out, "Decoded 1 of 2 files\n")

	text, err := os.ReadFile(filepath.Join(dir, "ticket.txt"))
	require.NoError(t, err)
	assert.Equal(t, "HELLO WORLD\n", string(text))

	// Without --formats every format is tried, PDF417 included.
	out, err = run(t, "scan", "--binarizer", "global", pdf)
	require.NoError(t, err)
	assert.Contains(t, out, pdf+": PDF_417 HELLO WORLD\n")
	assert.True(t, strings.HasSuffix(out, "Decoded 1 of 1 files\n"), out)
}

func TestScanCommandConfigFile(t *testing.T) {
	dir := workspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "barcodescan.yaml"), []byte("scan:\n  binarizer: otsu\n"), 0o644))

	_, err := run(t, "scan", dir)
	assert.ErrorContains(t, err, "scan.binarizer")

	// A set flag wins over the file.
	blank := filepath.Join(dir, "blank.png")
	require.NoError(t, imaging.Save(testutil.Blank(80, 40), blank))
	out, err := run(t, "scan", "--binarizer", "hybrid", blank)
	assert.Error(t, err)
	assert.Contains(t, out, "Decoded 0 of 1 files")
}

func TestScanCommandErrors(t *testing.T) {
	dir := workspace(t)
	_, err := run(t, "scan")
	assert.Error(t, err)

	_, err = run(t, "scan", filepath.Join(dir, "missing"))
	assert.Error(t, err)

	_, err = run(t, "scan", "--crop", "1,2", dir)
	assert.ErrorContains(t, err, "scan.crop")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "barcodescan dev\n", out)
}
