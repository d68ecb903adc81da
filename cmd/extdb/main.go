// Command extdb is the interactive test console: it drives the extension the
// way the host game server would, one command per line through a fixed-size
// output buffer, so operators can exercise protocols without a server.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lcx/extdb/ext"
)

var (
	workDir string
	bufSize int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "extdb",
		Short: "Interactive test console for the extdb extension",
		Long: "Starts the extension against the extdb-conf.ini in the working directory\n" +
			"and reads wire-format commands from stdin, e.g. 9:VERSION or 0:m:hello.\n" +
			"Responses are truncated to the configured buffer size exactly as the\n" +
			"host would truncate them; type quit to exit.",
		RunE: runConsole,
	}
	rootCmd.Flags().StringVar(&workDir, "dir", "", "working directory holding extdb-conf.ini (default: current directory)")
	rootCmd.Flags().IntVar(&bufSize, "buffer", 80, "output buffer size in bytes")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runConsole(cmd *cobra.Command, _ []string) error {
	if bufSize < 2 {
		return fmt.Errorf("buffer must hold at least 2 bytes, got %d", bufSize)
	}

	e, err := ext.New(ext.Options{Dir: workDir})
	if err != nil {
		return err
	}
	defer e.Stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "extDB %s test console, buffer %d bytes, type quit to exit\n", ext.Version, bufSize)

	buf := make([]byte, bufSize)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "quit" {
			break
		}
		n := e.CallExtension(buf, line)
		fmt.Fprintln(out, string(buf[:n]))
	}
	return scanner.Err()
}
