package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wobj/internal/objfile"
	"wobj/internal/objfile/objtest"
	"wobj/internal/wramp"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("WOBJ_CONFIG", "")
	t.Setenv("WOBJ_NO_COLOR", "")
	t.Setenv("WOBJ_LOG_LEVEL", "error")
	t.Setenv("WOBJ_LOG_TO_FILE", "")
}

func writeObject(t *testing.T, im objtest.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.o")
	require.NoError(t, os.WriteFile(path, im.Bytes(), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	isolate(t)
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func program() objtest.Image {
	return objtest.Image{
		Text: []uint32{
			wramp.EncodeI(0x1, 0x0, 1, 0, 3),  // 0 main: addi $1,$0,3
			wramp.EncodeI(0x1, 0x2, 1, 1, 1),  // 1 loop: subi $1,$1,1
			wramp.EncodeJ(0xb, 0, 1, 0xffffe), // 2 bnez $1,loop
			wramp.EncodeJ(0x6, 0, 0, 0),       // 3 jal putc
			wramp.EncodeJ(0x4, 0, 0, 0),       // 4 j main
		},
		Data: []uint32{'h', 'i', 0},
		BSS:  4,
		Relocs: []objtest.Reloc{
			{Address: 0, Type: objfile.GlobalText, Segment: objfile.SegText, Name: "main"},
			{Address: 1, Type: objfile.TextLabelRef, Segment: objfile.SegText, Name: "loop"},
			{Address: 3, Type: objfile.ExternalRef, Segment: objfile.SegText, Name: "putc"},
			{Address: 0, Type: objfile.DataLabelRef, Segment: objfile.SegText, Name: "msg"},
			{Address: 0, Type: objfile.GlobalBSS, Name: "stack"},
		},
	}
}

func TestDisassembleSingleAdd(t *testing.T) {
	path := writeObject(t, objtest.Image{Text: []uint32{wramp.EncodeR(0x0, 0x0, 1, 2, 3)}})

	out, err := run(t, "-d", path)
	require.NoError(t, err)
	assert.Equal(t, "add:\t$1,$2,$3\n", out)
}

func TestDisassembleProgram(t *testing.T) {
	path := writeObject(t, program())

	out, err := run(t, "--disassemble", path)
	require.NoError(t, err)
	assert.Equal(t, "main:\n"+
		"addi:\t$1,$0,0x0003\n"+
		"loop:\n"+
		"subi:\t$1,$1,0x0001\n"+
		"bnez:\t$1,loop\n"+
		"jal:\tputc\n"+
		"j:\tmain\n", out)
}

func TestDisassembleColumns(t *testing.T) {
	im := program()
	path := writeObject(t, im)

	out, err := run(t, "-d", "--addresses", "--words", "--no-labels", path)
	require.NoError(t, err)
	assert.Contains(t, out, fmt.Sprintf("00000  %08x  addi:\t$1,$0,0x0003\n", im.Text[0]))
	assert.Contains(t, out, fmt.Sprintf("00002  %08x  bnez:\t$1,0x00001\n", im.Text[2]))
	assert.NotContains(t, out, "main:")
}

func TestDisassembleUnknownContinues(t *testing.T) {
	path := writeObject(t, objtest.Image{Text: []uint32{0xf0000000, wramp.EncodeR(0x0, 0x0, 1, 2, 3)}})

	out, err := run(t, "-d", path)
	require.NoError(t, err)
	assert.Equal(t, "unknown instruction 0xf0000000 at 0x00000\nadd:\t$1,$2,$3\n", out)
}

func TestDataDump(t *testing.T) {
	path := writeObject(t, program())

	out, err := run(t, "--data", path)
	require.NoError(t, err)
	assert.Equal(t, "msg:\n"+
		".word:\t0x00000068\n"+
		".word:\t0x00000069\n"+
		".word:\t0x00000000\n"+
		"stack:\n"+
		".space:\t4\n", out)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := run(t, "-d", filepath.Join(t.TempDir(), "nope.o"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file not found")
	})

	t.Run("bad magic", func(t *testing.T) {
		path := writeObject(t, objtest.Image{Magic: 0x1234, Text: []uint32{0}})
		out, err := run(t, "-d", path)
		require.Error(t, err)
		assert.True(t, errors.Is(err, objfile.ErrBadMagic))
		assert.Empty(t, out)
	})

	t.Run("truncated", func(t *testing.T) {
		b := program().Bytes()
		path := filepath.Join(t.TempDir(), "short.o")
		require.NoError(t, os.WriteFile(path, b[:objfile.HeaderSize+6], 0o644))
		_, err := run(t, path)
		require.Error(t, err)
		var fe *objfile.FormatError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, objfile.StageText, fe.Stage)
	})

	t.Run("no argument", func(t *testing.T) {
		_, err := run(t)
		require.Error(t, err)
	})
}

func TestReportPlain(t *testing.T) {
	path := writeObject(t, program())

	out, err := run(t, path)
	require.NoError(t, err)
	for _, want := range []string{
		"magic number is correct",
		"0xdaa1",
		"Segments",
		"TEXT",
		"0x00005", // DATA base
		"0x00008", // BSS base
		"EXTERNAL_REF",
		"putc",
		"extern",
		"global",
	} {
		assert.Contains(t, out, want)
	}
}

func TestJSONOutput(t *testing.T) {
	path := writeObject(t, program())

	out, err := run(t, "--json", "--data", path)
	require.NoError(t, err)

	var doc struct {
		Header      objfile.Header `json:"header"`
		Relocations []struct {
			Type   string `json:"type"`
			Symbol string `json:"symbol"`
		} `json:"relocations"`
		Labels []struct {
			Name    string `json:"name"`
			Segment string `json:"segment"`
		} `json:"labels"`
		Listing []LineInfo `json:"listing"`
		Data    []LineInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.Equal(t, uint32(5), doc.Header.TextWords)
	require.Len(t, doc.Relocations, 5)
	assert.Equal(t, "EXTERNAL_REF", doc.Relocations[2].Type)
	assert.Equal(t, "putc", doc.Relocations[2].Symbol)

	require.Len(t, doc.Labels, 5)
	assert.Equal(t, "main", doc.Labels[0].Name)
	assert.Equal(t, "TEXT", doc.Labels[0].Segment)

	require.Len(t, doc.Listing, 5)
	assert.Equal(t, "bnez:\t$1,loop", doc.Listing[2].Text)
	require.NotNil(t, doc.Listing[2].Target)
	assert.Equal(t, uint32(1), *doc.Listing[2].Target)
	assert.Equal(t, "main", doc.Listing[0].Label)
	assert.Nil(t, doc.Listing[0].Target)

	require.Len(t, doc.Data, 4)
	assert.Equal(t, ".space:\t4", doc.Data[3].Text)
}

func TestConfigFile(t *testing.T) {
	path := writeObject(t, program())
	cfg := filepath.Join(t.TempDir(), "wobj.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("show_addresses: true\nresolve_labels: false\n"), 0o644))

	out, err := run(t, "-d", "--config", cfg, path)
	require.NoError(t, err)
	assert.Contains(t, out, "00004  j:\t0x00000\n")
	assert.NotContains(t, out, "main:")

	// Flags win over the file.
	out, err = run(t, "-d", "--config", cfg, "--addresses=false", path)
	require.NoError(t, err)
	assert.Contains(t, out, "\nj:\t0x00000\n")

	_, err = run(t, "-d", "--config", filepath.Join(t.TempDir(), "missing.yaml"), path)
	require.Error(t, err)
}

func TestDumpCmd(t *testing.T) {
	path := writeObject(t, program())

	out, err := run(t, "dump", path)
	require.NoError(t, err)
	assert.Contains(t, out, ".word:\t0x00000068\n")
	assert.Contains(t, out, ".space:\t4\n")

	out, err = run(t, "dump", "--strings", "--addresses", path)
	require.NoError(t, err)
	assert.Equal(t, "msg:\n00005  .asciiz:\t\"hi\"\n", out)

	out, err = run(t, "dump", "--strings", "--min", "3", path)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestLabelsCmd(t *testing.T) {
	path := writeObject(t, program())

	out, err := run(t, "labels", path)
	require.NoError(t, err)
	for _, want := range []string{"Name", "Refs", "main", "loop", "putc", "external", "msg", "stack"} {
		assert.Contains(t, out, want)
	}

	empty := writeObject(t, objtest.Image{Text: []uint32{0}})
	out, err = run(t, "labels", empty)
	require.NoError(t, err)
	assert.Equal(t, "no labels\n", out)
}

func TestSchemaCmd(t *testing.T) {
	out, err := run(t, "schema")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Contains(t, out, "show_addresses")
	assert.Contains(t, out, "resolve_labels")
}
