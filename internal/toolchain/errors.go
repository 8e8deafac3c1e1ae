package toolchain

import "errors"

var (
	// ErrUnknownCompiler indicates the compiler family could not be determined.
	ErrUnknownCompiler = errors.New("toolchain: unknown compiler family")

	// ErrUnsupportedHost indicates no NDK toolchain exists for the host triple.
	ErrUnsupportedHost = errors.New("toolchain: host triple unsupported for cross-compilation to android")

	// ErrMissingNDK indicates ANDROID_NDK_ROOT is unset or has no sysroot.
	ErrMissingNDK = errors.New("toolchain: android NDK sysroot not found")
)
