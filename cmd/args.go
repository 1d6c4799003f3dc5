package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gnoswap-labs/aegraph/internal/graph"
)

// readGraphArg parses a graph given on the command line, or read from
// standard input when arg is "-".
func readGraphArg(arg string, stdin io.Reader) (*graph.Graph, error) {
	text := arg
	if arg == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("error reading standard input: %w", err)
		}
		text = strings.TrimSpace(string(data))
	}
	return graph.Parse(text)
}

func writeOutput(w io.Writer, output string, content string) error {
	if output == "" {
		_, err := fmt.Fprint(w, content)
		return err
	}
	return os.WriteFile(output, []byte(content), 0o644)
}
