package sources

import (
	"fmt"
	"path/filepath"
)

// Resolve walks every component of m in order and fills ctx. family selects
// the platform-conditional source lists.
func Resolve(ctx *Context, m *Manifest, family string) error {
	ctx.AddInclude(filepath.Join(ctx.SharedRoot, "include"))
	ctx.AddIncludes("", m.CommonIncludes...)

	for _, comp := range m.Components {
		if err := ResolveComponent(ctx, comp, family); err != nil {
			return fmt.Errorf("component %s: %w", comp.Name, err)
		}
	}

	ctx.AddIncludes("", m.FinalIncludes...)
	return nil
}

// ResolveComponent adds the sources and includes of a single component.
func ResolveComponent(ctx *Context, comp Component, family string) error {
	dir := comp.SourceDir()
	if !isDir(filepath.Join(ctx.Root, "source", dir)) {
		return fmt.Errorf("%w: %s", ErrMissingComponent, dir)
	}

	if comp.Main != nil {
		if err := ctx.AddComponent(dir, comp.Main.Rel, comp.Main.Files...); err != nil {
			return err
		}
	}
	if len(comp.Platform) > 0 {
		if err := ctx.AddPlatformSources(dir, family, comp.Platform); err != nil {
			return err
		}
	}
	for _, f := range comp.Files {
		if err := ctx.AddFile(f); err != nil {
			return err
		}
	}
	for _, g := range comp.Groups {
		if err := ctx.AddSources(g.Dir, g.Files...); err != nil {
			return err
		}
	}
	for _, inc := range comp.Includes {
		ctx.AddIncludes(inc.Root, inc.Dirs...)
	}
	return nil
}

// AdapterIncludes returns the fixed include list of the adapter unit.
func AdapterIncludes(m *Manifest, root, sharedRoot string) []string {
	out := make([]string, 0, len(m.AdapterIncludes)+1)
	for i, inc := range m.AdapterIncludes {
		out = append(out, filepath.Join(root, inc))
		if i == 0 {
			out = append(out, filepath.Join(sharedRoot, "include"))
		}
	}
	return out
}
