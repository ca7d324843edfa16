// Package ui holds the interactive pieces of the CLI: an fzf-backed prompt
// for share text and a terminal progress view for batch runs.
package ui

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Input prompts for a single line of free text. fzf is used when it is on
// PATH; otherwise the line is read from in.
func Input(prompt string, in io.Reader) (string, error) {
	fzfPath, err := exec.LookPath("fzf")
	if err != nil {
		return readLine(prompt, in)
	}

	cmd := exec.Command(fzfPath,
		"--prompt", prompt+" > ",
		"--height", "10%",
		"--reverse",
		"--print-query",
		"--no-info",
	)
	cmd.Stdin = strings.NewReader("")
	cmd.Stderr = os.Stderr

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	// --print-query with no candidates exits 1
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 130 {
			return "", fmt.Errorf("input cancelled")
		}
	}

	return nonEmpty(strings.Split(stdout.String(), "\n")[0])
}

func readLine(prompt string, in io.Reader) (string, error) {
	fmt.Fprintf(os.Stderr, "%s > ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return nonEmpty(line)
}

func nonEmpty(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("no input provided")
	}
	return s, nil
}
