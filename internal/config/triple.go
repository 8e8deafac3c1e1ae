package config

import "strings"

// Triple is a target triple broken into the parts the build cares about.
type Triple struct {
	Arch   string
	OS     string
	Env    string
	Family string
}

func ParseTriple(triple string) Triple {
	parts := strings.Split(triple, "-")
	t := Triple{Arch: parts[0]}

	switch {
	case strings.Contains(triple, "-windows"):
		t.OS = "windows"
	case strings.Contains(triple, "-linux-android"):
		t.OS = "android"
	case strings.Contains(triple, "-linux"):
		t.OS = "linux"
	case strings.Contains(triple, "-apple-darwin"):
		t.OS = "macos"
	case strings.Contains(triple, "-apple-ios"):
		t.OS = "ios"
	case strings.Contains(triple, "-freebsd"):
		t.OS = "freebsd"
	default:
		t.OS = "unknown"
	}

	if len(parts) >= 4 || (len(parts) == 3 && t.OS == "windows") {
		switch last := parts[len(parts)-1]; last {
		case "gnu", "msvc", "musl", "gnueabihf", "musleabihf":
			t.Env = strings.TrimSuffix(strings.TrimSuffix(last, "eabihf"), "eabi")
		}
	}

	switch t.OS {
	case "windows":
		t.Family = "windows"
	case "linux", "android", "macos", "ios", "freebsd":
		t.Family = "unix"
	default:
		if strings.HasPrefix(t.Arch, "wasm") {
			t.Family = "wasm"
		}
	}
	return t
}
