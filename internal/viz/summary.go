package viz

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/pxbind/internal/build"
	"github.com/san-kum/pxbind/internal/hierarchy"
	"github.com/san-kum/pxbind/internal/storage"
	"github.com/san-kum/pxbind/internal/toolchain"
)

// Plan summarizes what a build would compile. With verbose set it lists
// every source and include.
func Plan(p *build.Plan, verbose bool) string {
	var b strings.Builder
	b.WriteString(Header.Render("build plan") + "\n")
	b.WriteString(KeyValue(
		"target", p.Settings.Target,
		"host", p.Settings.Host,
		"mode", string(p.Settings.Mode),
		"compiler", fmt.Sprintf("%s (%s)", p.Compiler, p.Family),
		"features", strings.Join(p.Settings.Features.Names(), ","),
		"sources", fmt.Sprint(len(p.Engine.Sources)),
		"includes", fmt.Sprint(len(p.Engine.Includes)),
		"generated", p.GeneratedInclude,
	))
	if p.Structgen != nil {
		emu := "native"
		if p.Structgen.Emulator != "" {
			emu = p.Structgen.Emulator
		}
		b.WriteString(KeyValue("structgen", emu))
	}
	if verbose {
		b.WriteString("\n" + Title.Render("includes") + "\n")
		for _, inc := range p.Engine.Includes {
			b.WriteString("  " + inc + "\n")
		}
		b.WriteString("\n" + Title.Render("sources") + "\n")
		for _, src := range p.Engine.Sources {
			b.WriteString("  " + src + "\n")
		}
	}
	return b.String()
}

// Flags lists defines and flags of a unit.
func Flags(name string, f *toolchain.Flags) string {
	var b strings.Builder
	b.WriteString(Header.Render(name) + "\n")
	b.WriteString(KeyValue("compiler", f.Compiler, "family", f.Family.String(), "stdlib", f.LinkStdlib))
	for _, d := range f.Defines {
		b.WriteString("  " + Value.Render(d.Arg(f.Family)) + "\n")
	}
	for _, fl := range f.Flags {
		b.WriteString("  " + fl + "\n")
	}
	return b.String()
}

func History(builds []storage.BuildMetadata) string {
	if len(builds) == 0 {
		return Subtle.Render("no builds recorded") + "\n"
	}
	var b strings.Builder
	b.WriteString(Header.Render(fmt.Sprintf("%-36s  %-28s  %-8s  %-8s  %s", "id", "target", "mode", "status", "time")) + "\n")
	for _, m := range builds {
		fmt.Fprintf(&b, "%-36s  %-28s  %-8s  %s  %s\n",
			m.ID, m.Target, m.Mode, Status(m.Status)+strings.Repeat(" ", max(0, 8-len(m.Status))),
			Subtle.Render(time.Duration(m.Duration*float64(time.Second)).Round(time.Millisecond).String()))
	}
	return b.String()
}

func Build(m *storage.BuildMetadata) string {
	pairs := []string{
		"id", m.ID,
		"status", m.Status,
		"target", m.Target,
		"host", m.Host,
		"mode", m.Mode,
		"compiler", fmt.Sprintf("%s (%s)", m.Compiler, m.Family),
		"features", strings.Join(m.Features, ","),
		"fingerprint", m.Fingerprint,
		"sources", fmt.Sprint(m.Sources),
		"includes", fmt.Sprint(m.Includes),
		"duration", fmt.Sprintf("%.2fs", m.Duration),
		"when", m.Timestamp.Format(time.RFC3339),
	}
	if m.Error != "" {
		pairs = append(pairs, "error", m.Error)
	}
	return Panel.Render(strings.TrimRight(KeyValue(pairs...), "\n")) + "\n"
}

// PlotTimings graphs compile time per source in build order and lists the
// slowest sources.
func PlotTimings(timings []build.Timing, slowest int) string {
	if len(timings) == 0 {
		return Subtle.Render("no timings recorded") + "\n"
	}
	data := make([]float64, len(timings))
	for i, t := range timings {
		data[i] = t.Duration.Seconds()
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("compile seconds per source"))

	sorted := append([]build.Timing(nil), timings...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Duration > sorted[j].Duration })
	if slowest > len(sorted) {
		slowest = len(sorted)
	}

	var b strings.Builder
	b.WriteString(graph + "\n\n")
	b.WriteString(Title.Render("slowest") + "\n")
	for _, t := range sorted[:slowest] {
		fmt.Fprintf(&b, "  %8.2fs  %s %s\n", t.Duration.Seconds(), Subtle.Render(t.Unit), filepath.Base(t.Path))
	}
	return b.String()
}

// Classes prints the capability table, one class per line with its
// ancestors nearest first.
func Classes(t *hierarchy.Table) string {
	var b strings.Builder
	for _, c := range t.Classes() {
		anc := t.Ancestors(c)
		if len(anc) == 0 {
			fmt.Fprintf(&b, "%s\n", Value.Render(string(c)))
			continue
		}
		names := make([]string, len(anc))
		for i, a := range anc {
			off, _ := t.Offset(c, a)
			names[i] = string(a)
			if off != 0 {
				names[i] += fmt.Sprintf("@%d", off)
			}
		}
		fmt.Fprintf(&b, "%s %s %s\n", Value.Render(string(c)), Subtle.Render(":"), strings.Join(names, ", "))
	}
	return b.String()
}
