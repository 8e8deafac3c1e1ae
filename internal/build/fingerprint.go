package build

import (
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint digests every command of the plan together with the content
// of the watched files. Two builds with equal fingerprints produce the same
// archives.
func Fingerprint(p *Plan, watch []string) uint64 {
	d := xxhash.New()
	for _, cmd := range p.Commands() {
		d.WriteString(cmd.String())
		d.WriteString("\n")
	}
	for _, path := range watch {
		d.WriteString(path)
		d.WriteString("\x00")
		f, err := os.Open(path)
		if err != nil {
			d.WriteString("missing\n")
			continue
		}
		_, _ = io.Copy(d, f)
		f.Close()
	}
	return d.Sum64()
}
