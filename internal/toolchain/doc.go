// Package toolchain detects the C++ compiler family and selects the flags
// used to compile the vendored engine and the adapter unit.
//
// Two policies are easy to get wrong and are encoded here:
//
//   - NDEBUG is always defined and _DEBUG never is. On the MSVC family a
//     _DEBUG define would pull in the debug C runtime, while the host side
//     always links the release runtime, and the two never link. Debug info
//     builds therefore only add the engine's own PX_DEBUG and PX_CHECKED
//     markers, and /MT or /MD is chosen, never /MTd or /MDd.
//   - Clang targeting Windows does not support -fPIC.
package toolchain
