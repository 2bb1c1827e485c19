package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// printStructured writes v in the --output format. It reports false when no
// structured format was requested and the caller should print text instead.
func printStructured(v interface{}) (bool, error) {
	return writeStructured(os.Stdout, outputFormat, v)
}

func writeStructured(w io.Writer, format string, v interface{}) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "":
		return false, nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return true, enc.Encode(v)
	default:
		return true, fmt.Errorf("unsupported output format %q", format)
	}
}
