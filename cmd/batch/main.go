// Command batch scores a file of job postings offline. Input is JSON Lines,
// one posting per line; results are written as JSON Lines to stdout or the
// given output file. Per-posting failures are reported inline and do not
// stop the run.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jobshield/jobshield/internal/bootstrap"
	"github.com/jobshield/jobshield/internal/config"
	"github.com/jobshield/jobshield/internal/domain"
	"github.com/jobshield/jobshield/internal/logging"
)

const defaultWorkers = 5

type batchLine struct {
	Line    int                    `json:"line"`
	Result  *domain.AnalysisResult `json:"result,omitempty"`
	Error   string                 `json:"error,omitempty"`
	posting *domain.JobPosting
}

func main() {
	inPath := flag.String("in", "", "input JSONL file of postings (default stdin)")
	outPath := flag.String("out", "", "output JSONL file (default stdout)")
	workers := flag.Int("workers", defaultWorkers, "concurrent scoring workers")
	flag.Parse()

	cfg, err := config.Load(config.GetConfigPath("config.yml"))
	if err != nil {
		logging.Must(logging.Config{}).Fatal("failed to load configuration", logging.Error(err))
	}

	logger := logging.Must(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	defer func() { _ = logger.Sync() }()

	components, err := bootstrap.NewComponents(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("failed to build analysis stack", logging.Error(err))
	}
	defer func() { _ = components.Close() }()

	in, out, err := openStreams(*inPath, *outPath)
	if err != nil {
		logger.Fatal("failed to open streams", logging.Error(err))
	}
	defer in.Close()
	defer out.Close()

	scored, failed, err := run(context.Background(), components, in, out, *workers)
	if err != nil {
		logger.Fatal("batch run failed", logging.Error(err))
	}

	logger.Info("batch run completed",
		logging.Int("scored", scored),
		logging.Int("failed", failed))
	if failed > 0 {
		os.Exit(1)
	}
}

func openStreams(inPath, outPath string) (io.ReadCloser, io.WriteCloser, error) {
	in := io.ReadCloser(os.Stdin)
	if inPath != "" {
		f, err := os.Open(inPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open input: %w", err)
		}
		in = f
	}

	out := io.WriteCloser(os.Stdout)
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			in.Close()
			return nil, nil, fmt.Errorf("create output: %w", err)
		}
		out = f
	}
	return in, out, nil
}

// run fans postings out to a bounded worker pool and writes one output line
// per input line. Output order follows completion, not input.
func run(ctx context.Context, components *bootstrap.Components, in io.Reader, out io.Writer, workers int) (scored, failed int, err error) {
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	encoder := json.NewEncoder(out)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		line := batchLine{Line: lineNo}
		var posting domain.JobPosting
		if unmarshalErr := json.Unmarshal(raw, &posting); unmarshalErr != nil {
			line.Error = fmt.Sprintf("parse posting: %v", unmarshalErr)
			mu.Lock()
			failed++
			writeErr := encoder.Encode(&line)
			mu.Unlock()
			if writeErr != nil {
				return scored, failed, writeErr
			}
			continue
		}
		line.posting = &posting

		g.Go(func() error {
			result, analyzeErr := components.Engine.Analyze(gctx, line.posting)
			if analyzeErr != nil {
				line.Error = analyzeErr.Error()
			} else {
				line.Result = result
			}

			mu.Lock()
			defer mu.Unlock()
			if analyzeErr != nil {
				failed++
			} else {
				scored++
			}
			return encoder.Encode(&line)
		})
	}

	if scanErr := scanner.Err(); scanErr != nil {
		_ = g.Wait()
		return scored, failed, fmt.Errorf("read input: %w", scanErr)
	}

	if waitErr := g.Wait(); waitErr != nil {
		return scored, failed, waitErr
	}
	return scored, failed, nil
}
