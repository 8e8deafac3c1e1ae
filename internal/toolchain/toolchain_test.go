package toolchain

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/pxbind/internal/config"
	"github.com/san-kum/pxbind/internal/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settings(target, host string) *config.Settings {
	t := config.ParseTriple(target)
	return &config.Settings{
		Target:       target,
		Host:         host,
		TargetArch:   t.Arch,
		TargetOS:     t.OS,
		TargetEnv:    t.Env,
		TargetFamily: t.Family,
		OutDir:       "/tmp/out",
		OptLevel:     "3",
		Mode:         config.ModeProfile,
		Options:      *config.DefaultOptions(),
	}
}

func TestFamilyFromName(t *testing.T) {
	tests := []struct {
		compiler string
		want     Family
	}{
		{"clang++", FamilyClang},
		{"/usr/bin/clang++-17", FamilyClang},
		{"g++", FamilyGNU},
		{"aarch64-linux-gnu-g++", FamilyGNU},
		{"g++-13", FamilyGNU},
		{"cl.exe", FamilyMSVC},
		{`C:\LLVM\bin\clang-cl.exe`, FamilyClangCL},
		{`C:\VS\bin\cl.exe`, FamilyMSVC},
		{`C:\LLVM\bin\clang++.exe`, FamilyClang},
		{"c++", FamilyUnknown},
		{"icpx", FamilyUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, familyFromName(tt.compiler), tt.compiler)
	}
}

func TestDetect_ProbesAmbiguousNames(t *testing.T) {
	r := runner.NewRecorder()
	r.Reply = func(c runner.Command) []byte {
		return []byte("Apple clang version 15.0.0 (clang-1500.1.0.2.5)\nTarget: arm64-apple-darwin23.2.0\n")
	}

	fam, err := Detect(context.Background(), r, "c++")
	require.NoError(t, err)
	assert.Equal(t, FamilyClang, fam)

	cmds := r.Commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, []string{"--version"}, cmds[0].Args)
}

func TestDetect_GNUVersion(t *testing.T) {
	r := runner.NewRecorder()
	r.Reply = func(runner.Command) []byte {
		return []byte("c++ (Debian 12.2.0-14) 12.2.0\nCopyright (C) 2022 Free Software Foundation, Inc.\n")
	}
	fam, err := Detect(context.Background(), r, "c++")
	require.NoError(t, err)
	assert.Equal(t, FamilyGNU, fam)
}

func TestDetect_Unknown(t *testing.T) {
	r := runner.NewRecorder()
	r.Reply = func(runner.Command) []byte { return []byte("Intel(R) oneAPI DPC++/C++ Compiler 2024.0.0\n") }

	_, err := Detect(context.Background(), r, "icpx")
	assert.ErrorIs(t, err, ErrUnknownCompiler)
}

func TestDefaultCompiler(t *testing.T) {
	s := settings("x86_64-unknown-linux-gnu", "x86_64-unknown-linux-gnu")
	assert.Equal(t, "clang++", DefaultCompiler(s))

	s.Compiler = "g++-13"
	assert.Equal(t, "g++-13", DefaultCompiler(s))

	s = settings("x86_64-pc-windows-msvc", "x86_64-pc-windows-msvc")
	assert.Equal(t, "cl.exe", DefaultCompiler(s))

	s = settings("aarch64-apple-darwin", "aarch64-apple-darwin")
	assert.Equal(t, "c++", DefaultCompiler(s))
}

func TestConfigure_WindowsDebugKeepsReleaseRuntime(t *testing.T) {
	s := settings("x86_64-pc-windows-msvc", "x86_64-pc-windows-msvc")
	s.DebugInfo = true
	s.OptLevel = "0"
	s.Mode = config.ModeDebug

	f, err := Configure(s, "cl.exe", FamilyMSVC)
	require.NoError(t, err)

	v, ok := f.Lookup("NDEBUG")
	require.True(t, ok)
	assert.Equal(t, "1", v)
	assert.False(t, f.HasDefine("_DEBUG"))
	assert.True(t, f.HasFlag("/MD"))
	assert.False(t, f.HasFlag("/MDd"))
	assert.False(t, f.HasFlag("/MTd"))
	assert.True(t, f.HasFlag("/Z7"))
	assert.False(t, f.HasFlag("/O2"))
	assert.True(t, f.HasDefine("_ITERATOR_DEBUG_LEVEL"))
	assert.False(t, f.HasFlag("-fPIC"))
}

func TestConfigure_WindowsStaticCRT(t *testing.T) {
	s := settings("x86_64-pc-windows-msvc", "x86_64-pc-windows-msvc")
	s.StaticCRT = true

	f, err := Configure(s, "cl.exe", FamilyMSVC)
	require.NoError(t, err)
	assert.True(t, f.HasFlag("/MT"))
	assert.False(t, f.HasFlag("/MD"))
	assert.True(t, f.HasFlag("/O2"))
	assert.Empty(t, f.LinkStdlib)
}

func TestConfigure_PosixDebugDefinesEngineMarkers(t *testing.T) {
	s := settings("x86_64-unknown-linux-gnu", "x86_64-unknown-linux-gnu")
	s.DebugInfo = true

	f, err := Configure(s, "clang++", FamilyClang)
	require.NoError(t, err)

	assert.True(t, f.HasDefine("PX_DEBUG"))
	assert.True(t, f.HasDefine("PX_CHECKED"))
	assert.True(t, f.HasDefine("NDEBUG"))
	assert.False(t, f.HasDefine("_DEBUG"))
	assert.True(t, f.HasFlag("-g"))
	assert.True(t, f.HasFlag("-std=c++14"))
	assert.True(t, f.HasFlag("-w"))
	assert.True(t, f.HasFlag("-fPIC"))
	assert.False(t, f.HasFlag("/MD"))
	assert.False(t, f.HasDefine("_CRT_SECURE_NO_WARNINGS"))
	assert.Equal(t, "stdc++", f.LinkStdlib)
}

func TestConfigure_ReleaseHasNoDebugMarkers(t *testing.T) {
	s := settings("x86_64-unknown-linux-gnu", "x86_64-unknown-linux-gnu")

	f, err := Configure(s, "g++", FamilyGNU)
	require.NoError(t, err)
	assert.False(t, f.HasDefine("PX_DEBUG"))
	assert.False(t, f.HasDefine("PX_PROFILE"))
	assert.False(t, f.HasFlag("-g"))
	assert.True(t, f.HasFlag("-O3"))
}

func TestConfigure_ProfileFeature(t *testing.T) {
	s := settings("x86_64-unknown-linux-gnu", "x86_64-unknown-linux-gnu")
	s.Features.Profile = true

	f, err := Configure(s, "clang++", FamilyClang)
	require.NoError(t, err)
	v, ok := f.Lookup("PX_PROFILE")
	require.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestConfigure_ClangForWindowsDropsPIC(t *testing.T) {
	s := settings("x86_64-pc-windows-gnu", "x86_64-unknown-linux-gnu")

	f, err := Configure(s, "clang++", FamilyClang)
	require.NoError(t, err)
	assert.False(t, f.HasFlag("-fPIC"))
	assert.True(t, f.HasFlag("--target=x86_64-pc-windows-gnu"))
}

func TestConfigure_Android(t *testing.T) {
	ndk := t.TempDir()
	sysroot := filepath.Join(ndk, "toolchains", "llvm", "prebuilt", "linux-x86_64", "sysroot")
	require.NoError(t, os.MkdirAll(sysroot, 0755))

	s := settings("aarch64-linux-android", "x86_64-unknown-linux-gnu")
	s.AndroidNDKRoot = ndk

	f, err := Configure(s, "clang++", FamilyClang)
	require.NoError(t, err)
	assert.True(t, f.HasDefine("ANDROID"))
	assert.True(t, f.HasFlag("--sysroot="+sysroot))
	assert.Equal(t, "c++", f.LinkStdlib)
}

func TestConfigure_AndroidFailures(t *testing.T) {
	s := settings("aarch64-linux-android", "x86_64-unknown-linux-gnu")
	_, err := Configure(s, "clang++", FamilyClang)
	assert.ErrorIs(t, err, ErrMissingNDK)

	s.AndroidNDKRoot = t.TempDir()
	_, err = Configure(s, "clang++", FamilyClang)
	assert.ErrorIs(t, err, ErrMissingNDK)

	s.Host = "aarch64-unknown-linux-gnu"
	_, err = Configure(s, "clang++", FamilyClang)
	assert.ErrorIs(t, err, ErrUnsupportedHost)
}

func TestConfigure_UnknownFamily(t *testing.T) {
	s := settings("x86_64-unknown-linux-gnu", "x86_64-unknown-linux-gnu")
	_, err := Configure(s, "icpx", FamilyUnknown)
	assert.ErrorIs(t, err, ErrUnknownCompiler)
}

func TestConfigureAdapter(t *testing.T) {
	s := settings("x86_64-unknown-linux-gnu", "x86_64-unknown-linux-gnu")
	s.DebugInfo = true

	f, err := ConfigureAdapter(s, "clang++", FamilyClang)
	require.NoError(t, err)
	assert.True(t, f.HasFlag("-O3"))
	assert.True(t, f.HasFlag("-fno-plt"))
	assert.True(t, f.HasFlag("-w"))
	assert.False(t, f.HasFlag("-g"))
	assert.False(t, f.HasDefine("PX_DEBUG"))

	s.Features.CPPWarnings = true
	f, err = ConfigureAdapter(s, "clang++", FamilyClang)
	require.NoError(t, err)
	assert.False(t, f.HasFlag("-w"))

	w := settings("x86_64-pc-windows-msvc", "x86_64-pc-windows-msvc")
	f, err = ConfigureAdapter(w, "cl.exe", FamilyMSVC)
	require.NoError(t, err)
	assert.True(t, f.HasFlag("/std:c++14"))
	assert.True(t, f.HasFlag("/w"))
}

func TestCompileArgs(t *testing.T) {
	f := &Flags{Family: FamilyClang, Flags: []string{"-O3"}, Defines: []Define{{"NDEBUG", "1"}, {"PX_PHYSX_STATIC_LIB", ""}}}
	args := f.CompileArgs("a.cpp", "a.o", []string{"inc"})
	assert.Equal(t, []string{"-O3", "-DNDEBUG=1", "-DPX_PHYSX_STATIC_LIB", "-Iinc", "-c", "a.cpp", "-o", "a.o"}, args)

	m := &Flags{Family: FamilyMSVC, Defines: []Define{{"NDEBUG", "1"}}}
	args = m.CompileArgs("a.cpp", "a.obj", []string{"inc"})
	assert.Equal(t, []string{"/DNDEBUG=1", "/Iinc", "/c", "a.cpp", "/Foa.obj"}, args)
}

func TestWarningFlag(t *testing.T) {
	w, err := WarningFlag(FamilyGNU)
	require.NoError(t, err)
	assert.Equal(t, "-w", w)

	w, err = WarningFlag(FamilyClangCL)
	require.NoError(t, err)
	assert.Equal(t, "/w", w)

	_, err = WarningFlag(FamilyUnknown)
	assert.ErrorIs(t, err, ErrUnknownCompiler)
}
