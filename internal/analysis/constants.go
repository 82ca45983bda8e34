// Package analysis derives facts from a disassembled object file: which
// instructions reference each label, and which DATA words hold strings.
package analysis

const (
	// MaxStringLength caps a recovered string, in characters.
	MaxStringLength = 256

	// MinStringLength is the shortest run of characters reported as a string.
	MinStringLength = 2
)
