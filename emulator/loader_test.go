package emulator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeFile(t *testing.T, dir string, name string, text string) string {
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(text), 0o644)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return path
}

func TestSourceFromPath(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	asm := writeFile(t, dir, "Add.asm", "@2\nD=A\n")
	hack := writeFile(t, dir, "Add.hack", "0000000000000010\n")
	bin := writeFile(t, dir, "Add.bin", "\x00\x02")
	sys := writeFile(t, dir, "Sys.vm", "function Sys.init 0\nlabel END\ngoto END\n")
	main := writeFile(t, dir, "Main.vm", "function Main.main 0\npush constant 0\nreturn\n")
	txt := writeFile(t, dir, "notes.txt", "")

	table := []struct {
		paths []string
		kind  SourceKind
	}{
		{[]string{asm}, SOURCE_ASM},
		{[]string{hack}, SOURCE_HACK},
		{[]string{bin}, SOURCE_BINARY},
		{[]string{sys, main}, SOURCE_VM},
	}

	for _, entry := range table {
		src, err := SourceFromPath(entry.paths...)
		if !assert.NoError(err, entry.paths) {
			continue
		}
		assert.Equal(entry.kind, src.Kind, entry.paths)

		emu := NewEmulator()
		assert.NoError(emu.Load(src), entry.paths)
	}

	src, err := SourceFromPath(sys, main)
	assert.NoError(err)
	assert.Equal([]NamedText{
		{Name: "Sys.vm", Text: []byte("function Sys.init 0\nlabel END\ngoto END\n")},
		{Name: "Main.vm", Text: []byte("function Main.main 0\npush constant 0\nreturn\n")},
	}, src.Files)

	_, err = SourceFromPath()
	assert.ErrorIs(err, ErrSourceEmpty)
	_, err = SourceFromPath(txt)
	assert.ErrorIs(err, ErrSourceExtension)
	_, err = SourceFromPath(asm, hack)
	assert.ErrorIs(err, ErrSourceMixed)
	_, err = SourceFromPath(asm, asm)
	assert.ErrorIs(err, ErrSourceMixed)
	_, err = SourceFromPath(filepath.Join(dir, "Missing.asm"))
	assert.ErrorIs(err, os.ErrNotExist)
}
