// Package sourcestest builds fake vendored engine trees for tests.
package sourcestest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/pxbind/internal/sources"
)

// Tree creates, under dir, an engine root and shared root containing every
// directory and file m refers to. Globbed groups get one placeholder source.
// It returns the engine root and the shared root.
func Tree(t testing.TB, dir string, m *sources.Manifest) (root, shared string) {
	t.Helper()
	root = filepath.Join(dir, "physx")
	shared = filepath.Join(dir, "pxshared")

	mkdir(t, filepath.Join(shared, "include"))
	for _, inc := range m.CommonIncludes {
		mkdir(t, filepath.Join(root, inc))
	}

	for _, c := range m.Components {
		compDir := filepath.Join(root, "source", c.SourceDir())
		mkdir(t, compDir)

		if c.Main != nil {
			srcDir := compDir
			if c.Main.Rel != "" {
				srcDir = filepath.Join(compDir, c.Main.Rel)
			}
			files(t, srcDir, c.Main.Files, c.Name)
			mkdir(t, filepath.Join(compDir, "include"))
		}
		for family, list := range c.Platform {
			files(t, filepath.Join(compDir, family), list, c.Name+"_"+family)
		}
		for _, f := range c.Files {
			touch(t, filepath.Join(root, f))
		}
		for i, g := range c.Groups {
			files(t, filepath.Join(root, g.Dir), g.Files, c.Name+"_group"+string(rune('a'+i)))
		}
	}
	return root, shared
}

func files(t testing.TB, dir string, names []string, placeholder string) {
	t.Helper()
	mkdir(t, dir)
	if len(names) == 0 {
		touch(t, filepath.Join(dir, placeholder+".cpp"))
		return
	}
	for _, n := range names {
		p := filepath.Join(dir, n)
		if filepath.Ext(n) == "" {
			p += ".cpp"
		}
		touch(t, p)
	}
}

func mkdir(t testing.TB, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
}

func touch(t testing.TB, path string) {
	t.Helper()
	mkdir(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte("// placeholder\n"), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
