// Package viz renders pxbuild output for the terminal: plans, selected
// flags, build history and compile-time graphs.
//
// Styles are plain lipgloss styles; graphs use asciigraph.
package viz
