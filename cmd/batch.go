package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vidresolve/internal/batch"
	"vidresolve/internal/extract"
	"vidresolve/internal/ui"
)

var (
	flagWorkers   int
	flagBatchJSON bool
)

var batchCmd = &cobra.Command{
	Use:   "batch [file|-]",
	Short: "Resolve one share text per line from a file or stdin",
	Long: `Resolve many share texts concurrently. Input is read from the given file,
or from stdin when the argument is "-" or omitted. Blank lines are skipped.
Results are written to stdout in input order as tab-separated
"input, media_url, error" lines, or as JSON lines with --json.`,
	Args: cobra.MaximumNArgs(1),
	RunE: batchRun,
}

func init() {
	batchCmd.Flags().IntVarP(&flagWorkers, "workers", "w", 0, "Concurrent extractions (default from config)")
	batchCmd.Flags().BoolVarP(&flagBatchJSON, "json", "j", false, "Write JSON lines instead of TSV")
}

// batchLine is one JSON-lines output record.
type batchLine struct {
	Input    string `json:"input"`
	MediaURL string `json:"media_url,omitempty"`
	Error    string `json:"error,omitempty"`
	Kind     string `json:"kind,omitempty"`
}

func batchRun(cmd *cobra.Command, args []string) error {
	in := io.Reader(os.Stdin)
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
	}

	inputs, err := readInputs(in)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no share texts in input")
	}

	workers := cfg.Workers
	if flagWorkers > 0 {
		workers = flagWorkers
	}
	debugf("batch: %d inputs, %d workers", len(inputs), workers)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pipeline, _ := newPipeline()
	pool := batch.NewPool(pipeline, workers, nil)

	var outcomes []batch.Outcome
	if term.IsTerminal(int(os.Stderr.Fd())) && !cfg.Debug {
		outcomes, err = runWithProgress(ctx, pool, inputs)
		if err != nil {
			return err
		}
	} else {
		outcomes = pool.Run(ctx, inputs)
	}

	failed, err := writeOutcomes(os.Stdout, outcomes, flagBatchJSON)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(outcomes))
	}
	return nil
}

// runWithProgress drives the pool while a bubbletea view renders on stderr.
func runWithProgress(ctx context.Context, pool *batch.Pool, inputs []string) ([]batch.Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(ui.NewBatchModel(len(inputs)),
		tea.WithOutput(os.Stderr),
		tea.WithInput(nil),
		tea.WithContext(ctx),
	)

	pool.OnDone = func(o batch.Outcome) {
		p.Send(ui.ItemDoneMsg{Index: o.Index, Label: truncate(o.Input, 48), Err: o.Err})
	}

	done := make(chan []batch.Outcome, 1)
	go func() {
		out := pool.Run(ctx, inputs)
		p.Send(ui.BatchDoneMsg{})
		done <- out
	}()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return nil, fmt.Errorf("progress view: %w", err)
	}
	// The view may quit early (interrupt); stop the pool and wait for it.
	cancel()
	return <-done, nil
}

func readInputs(r io.Reader) ([]string, error) {
	var inputs []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			inputs = append(inputs, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return inputs, nil
}

// writeOutcomes prints outcomes in order and returns how many failed.
func writeOutcomes(w io.Writer, outcomes []batch.Outcome, asJSON bool) (int, error) {
	enc := json.NewEncoder(w)
	failed := 0
	for _, o := range outcomes {
		line := batchLine{Input: o.Input}
		if o.Err != nil {
			failed++
			line.Error = o.Err.Error()
			line.Kind = string(extract.Classify(o.Err))
		} else {
			line.MediaURL = o.Result.MediaURL
		}

		var err error
		if asJSON {
			err = enc.Encode(line)
		} else {
			_, err = fmt.Fprintf(w, "%s\t%s\t%s\n", tsvField(line.Input), line.MediaURL, tsvField(line.Error))
		}
		if err != nil {
			return failed, fmt.Errorf("writing output: %w", err)
		}
	}
	return failed, nil
}

func tsvField(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(s)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
