// Package file reads cactus source files from disk for the CLI's file-run
// mode, trimmed down from the teacher's stateful file-handle builtins
// (open/read/write/seek) to the one operation this language's runtime
// actually needs: loading a whole source file as UTF-8 text before
// scanning it.
package file

import (
	"fmt"
	"os"
)

// ReadSource reads the file at path and returns its contents as a string,
// wrapping any OS error with the path for a clearer CLI message.
func ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read %q: %w", path, err)
	}
	return string(data), nil
}
