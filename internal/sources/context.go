package sources

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Context accumulates the source files and include directories of a build.
// Paths are joined onto Root, the vendored engine root.
type Context struct {
	Root       string
	SharedRoot string

	sources  []string
	includes []string
}

func NewContext(root, sharedRoot string) *Context {
	return &Context{
		Root:       root,
		SharedRoot: sharedRoot,
		sources:    make([]string, 0, 1024),
		includes:   make([]string, 0, 256),
	}
}

// AddIncludes adds each of dirs, relative to relRoot.
func (c *Context) AddIncludes(relRoot string, dirs ...string) {
	root := filepath.Join(c.Root, relRoot)
	for _, d := range dirs {
		c.includes = append(c.includes, filepath.Join(root, d))
	}
}

// AddInclude adds an absolute or already joined include directory.
func (c *Context) AddInclude(dir string) {
	c.includes = append(c.includes, dir)
}

// AddSources adds files from relRoot, appending .cpp when a name has no
// extension. An empty list compiles every .cpp in relRoot. The source
// directory itself always becomes an include directory as well.
func (c *Context) AddSources(relRoot string, files ...string) error {
	root := filepath.Join(c.Root, relRoot)
	if !isDir(root) {
		return fmt.Errorf("%w: directory %s", ErrMissingSource, root)
	}

	if len(files) == 0 {
		matches, err := filepath.Glob(filepath.Join(root, "*.cpp"))
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			return fmt.Errorf("%w: no .cpp files in %s", ErrMissingSource, root)
		}
		sort.Strings(matches)
		c.sources = append(c.sources, matches...)
	} else {
		for _, f := range files {
			p := filepath.Join(root, f)
			if filepath.Ext(f) == "" {
				p += ".cpp"
			}
			if !isFile(p) {
				return fmt.Errorf("%w: %s", ErrMissingSource, p)
			}
			c.sources = append(c.sources, p)
		}
	}

	c.includes = append(c.includes, root)
	return nil
}

// AddFile adds a single source relative to the root without touching the
// include set.
func (c *Context) AddFile(rel string) error {
	p := filepath.Join(c.Root, rel)
	if !isFile(p) {
		return fmt.Errorf("%w: %s", ErrMissingSource, p)
	}
	c.sources = append(c.sources, p)
	return nil
}

// AddComponent adds the sources of source/<name>[/<rel>] and the public and
// private include directories of the component when they exist. A component
// whose directory is missing is fatal: the build would otherwise only fail
// at link time.
func (c *Context) AddComponent(name, rel string, files ...string) error {
	compDir := filepath.Join(c.Root, "source", name)
	if !isDir(compDir) {
		return fmt.Errorf("%w: %s (%s)", ErrMissingComponent, name, compDir)
	}

	srcDir := filepath.Join("source", name)
	if rel != "" {
		srcDir = filepath.Join(srcDir, rel)
	}
	if err := c.AddSources(srcDir, files...); err != nil {
		return err
	}

	if inc := filepath.Join(c.Root, "include", name); isDir(inc) {
		c.includes = append(c.includes, inc)
	}
	if inc := filepath.Join(compDir, "include"); isDir(inc) {
		c.includes = append(c.includes, inc)
	}
	return nil
}

// AddPlatformSources selects exactly one of the per-family source lists and
// adds it from source/<component>/<family>.
func (c *Context) AddPlatformSources(component, family string, lists map[string][]string) error {
	files, ok := lists[family]
	if !ok {
		return fmt.Errorf("%w: '%s'", ErrUnknownFamily, family)
	}
	return c.AddSources(filepath.Join("source", component, family), files...)
}

// Sources returns every source once, in the order first added.
func (c *Context) Sources() []string {
	return dedup(c.sources)
}

// Includes returns the include directories with duplicates removed. Order of
// first occurrence is kept since include order decides which header wins.
func (c *Context) Includes() []string {
	return dedup(c.includes)
}

// RawIncludes returns the include directories as added, duplicates included.
func (c *Context) RawIncludes() []string {
	out := make([]string, len(c.includes))
	copy(out, c.includes)
	return out
}

func dedup(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		key := filepath.Clean(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func isDir(p string) bool {
	st, err := os.Stat(p)
	return err == nil && st.IsDir()
}

func isFile(p string) bool {
	st, err := os.Stat(p)
	return err == nil && st.Mode().IsRegular()
}
