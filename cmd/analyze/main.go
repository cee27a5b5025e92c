package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spacesedan/sentireview/internal/logging"
	"github.com/spacesedan/sentireview/internal/sentiment"
)

func main() {
	stripMarkdown := flag.Bool("markdown", false, "strip markdown before scoring")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-markdown] [review text...]\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "Reads the review from stdin when no text is given.")
		flag.PrintDefaults()
	}
	flag.Parse()

	logging.InitLogger(slog.LevelWarn, false)

	if err := run(os.Stdin, os.Stdout, flag.Args(), *stripMarkdown); err != nil {
		slog.Error("[Analyze] Failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(stdin io.Reader, stdout io.Writer, args []string, stripMarkdown bool) error {
	text := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = strings.TrimRight(string(data), "\r\n")
	}

	analyzer, err := sentiment.NewAnalyzer(sentiment.WithMarkdownStripping(stripMarkdown))
	if err != nil {
		return err
	}

	result, err := analyzer.Analyze(context.Background(), text)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
