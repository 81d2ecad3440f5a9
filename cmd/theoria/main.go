// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/theoria"
	"github.com/poiesic/theoria/ai"
	"github.com/poiesic/theoria/ingest"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "theoria",
		Usage: "Theory-usage analysis over a business case corpus",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "import",
				Usage:  "Import case records from a JSONL file",
				Action: importCommand,
				Flags: append(storeFlags(),
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Path to JSONL file, one case per line",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Worker pool size for embedding",
						Value: 4,
					},
				),
			},
			{
				Name:   "build-mapping",
				Usage:  "Rebuild the canonical theory-name mapping from the stored corpus",
				Action: buildMappingCommand,
				Flags: append(storeFlags(),
					&cli.IntFlag{
						Name:  "threshold",
						Usage: "Fuzzy-merge similarity threshold (0-100)",
						Value: 92,
					},
					&cli.StringFlag{
						Name:  "names",
						Usage: "Optional file of supplementary theory names, one per line",
					},
				),
			},
			{
				Name:      "match",
				Usage:     "Match theory names against historical usage",
				ArgsUsage: "NAME [NAME...]",
				Action:    matchCommand,
				Flags:     storeFlags(),
			},
			{
				Name:   "analyze",
				Usage:  "Analyze cases from a JSONL file against the stored corpus",
				Action: analyzeCommand,
				Flags: append(storeFlags(),
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Path to JSONL file, one case per line",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "top",
						Usage: "Number of similar cases to report",
						Value: 5,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "mapping",
			Usage: "Path to the canonical mapping artifact",
			Value: "mapping.yaml",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
	}
}

func openAnalyzer(c *cli.Context, extra ...theoria.AnalyzerOption) (*theoria.Analyzer, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	analyzer, err := theoria.NewAnalyzer(c.String("db"),
		append([]theoria.AnalyzerOption{
			theoria.WithAIConfig(aiConfig),
			theoria.WithMappingArtifact(c.String("mapping")),
		}, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to open analyzer: %w", err)
	}
	return analyzer, nil
}

func importCommand(c *cli.Context) error {
	ctx := context.Background()

	records, err := ingest.LoadJSONL(c.String("input"))
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "nothing to import")
		return nil
	}

	analyzer, err := openAnalyzer(c)
	if err != nil {
		return err
	}
	defer analyzer.Close()

	pipeline, err := analyzer.NewIngestPipeline(ingest.WithPoolSize(c.Int("pool-size")))
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	added, err := pipeline.Ingest(ctx, records...)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	pipeline.Wait()

	fmt.Fprintf(os.Stderr, "imported %d cases from %s\n", len(added), c.String("input"))
	return nil
}

func buildMappingCommand(c *cli.Context) error {
	ctx := context.Background()

	var supplementary []string
	if namesPath := c.String("names"); namesPath != "" {
		var err error
		supplementary, err = readLines(namesPath)
		if err != nil {
			return fmt.Errorf("failed to read supplementary names: %w", err)
		}
	}

	analyzer, err := openAnalyzer(c, theoria.WithSimilarityThreshold(c.Int("threshold")))
	if err != nil {
		return err
	}
	defer analyzer.Close()

	built, err := analyzer.RebuildMapping(ctx, supplementary...)
	if err != nil {
		return fmt.Errorf("mapping rebuild failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "built %d groups covering %d variants -> %s\n",
		len(built), built.VariantCount(), c.String("mapping"))
	return nil
}

func matchCommand(c *cli.Context) error {
	ctx := context.Background()

	names := c.Args().Slice()
	if len(names) == 0 {
		return fmt.Errorf("at least one theory name is required")
	}

	analyzer, err := openAnalyzer(c)
	if err != nil {
		return err
	}
	defer analyzer.Close()

	result, err := analyzer.MatchTheories(ctx, names)
	if err != nil {
		return fmt.Errorf("match failed: %w", err)
	}

	for name, m := range result.Normalized {
		fmt.Printf("%s -> %s  uses=%d tier=%s\n", name, m.Theory, m.UsageCount, m.Tier)
	}
	for name, m := range result.Fuzzy {
		fmt.Printf("%s ~> %s  uses=%d tier=%s (fuzzy)\n", name, m.Theory, m.UsageCount, m.Tier)
	}
	for _, name := range result.Unmatched {
		fmt.Printf("%s: no prior usage\n", name)
	}
	return nil
}

func analyzeCommand(c *cli.Context) error {
	ctx := context.Background()

	records, err := ingest.LoadJSONL(c.String("input"))
	if err != nil {
		return err
	}

	analyzer, err := openAnalyzer(c)
	if err != nil {
		return err
	}
	defer analyzer.Close()

	for _, record := range records {
		report, err := analyzer.AnalyzeCase(ctx, record, c.Int("top"))
		if err != nil {
			return fmt.Errorf("analysis of %q failed: %w", record.Name, err)
		}

		fmt.Printf("== %s ==\n", record.Name)
		fmt.Printf("innovation: %.1f (novel=%d common=%d high-freq=%d)\n",
			report.Innovation.Score,
			len(report.Innovation.NovelTheories),
			len(report.Innovation.CommonTheories),
			len(report.Innovation.HighFreqTheories))
		for name, m := range report.Matches {
			fmt.Printf("  %s -> %s  uses=%d tier=%s\n", name, m.Theory, m.UsageCount, m.Tier)
		}
		for name, m := range report.FuzzyMatches {
			fmt.Printf("  %s ~> %s  uses=%d tier=%s (fuzzy)\n", name, m.Theory, m.UsageCount, m.Tier)
		}
		for _, name := range report.Unmatched {
			fmt.Printf("  %s: no prior usage\n", name)
		}
		for i, similar := range report.Similar {
			fmt.Printf("  #%d %s score=%.3f theories=%s\n",
				i+1, similar.Case.Name, similar.Scores.FinalScore,
				strings.Join(similar.Scores.MatchedTheories, ","))
		}
	}
	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
