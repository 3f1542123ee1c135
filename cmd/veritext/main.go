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
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/veritext"
	"github.com/poiesic/veritext/ai"
	"github.com/poiesic/veritext/check"
	"github.com/poiesic/veritext/core"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "veritext",
		Usage: "Multi-stage plagiarism detection over reference corpora",
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
				Name:  "corpus",
				Usage: "Manage reference corpora",
				Subcommands: []*cli.Command{
					{
						Name:   "create",
						Usage:  "Build a corpus from a text file and store it",
						Action: corpusCreateCommand,
						Flags: append(engineFlags(),
							&cli.StringFlag{
								Name:     "name",
								Aliases:  []string{"n"},
								Usage:    "Display name for the corpus",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "mode",
								Usage: "Split mode (sentence, paragraph, auto)",
								Value: "auto",
							},
							&cli.StringFlag{
								Name:    "file",
								Aliases: []string{"f"},
								Usage:   "Path to the corpus text file (reads stdin if omitted)",
							},
							&cli.BoolFlag{
								Name:  "activate",
								Usage: "Activate the corpus after building it",
							},
						),
					},
					{
						Name:   "list",
						Usage:  "List stored corpora, newest first",
						Action: corpusListCommand,
						Flags:  engineFlags(),
					},
					{
						Name:   "activate",
						Usage:  "Mark a corpus as the default query target",
						Action: corpusActivateCommand,
						Flags: append(engineFlags(),
							&cli.Uint64Flag{
								Name:     "id",
								Usage:    "Corpus ID",
								Required: true,
							},
						),
					},
					{
						Name:   "delete",
						Usage:  "Delete a corpus and all its segments",
						Action: corpusDeleteCommand,
						Flags: append(engineFlags(),
							&cli.Uint64Flag{
								Name:     "id",
								Usage:    "Corpus ID",
								Required: true,
							},
						),
					},
				},
			},
			{
				Name:   "check",
				Usage:  "Check text against a corpus with the hybrid pipeline",
				Action: checkCommand,
				Flags:  checkFlags(),
			},
			{
				Name:   "check-multistage",
				Usage:  "Check text with the additional pairwise re-ranking stage",
				Action: checkMultiStageCommand,
				Flags: append(checkFlags(),
					&cli.StringFlag{
						Name:  "rerank-host",
						Usage: "Re-ranking service host URL (defaults to embedding-host)",
					},
					&cli.StringFlag{
						Name:  "rerank-model",
						Usage: "Pairwise re-ranking model name",
						Value: "qwen2.5:3b",
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func engineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
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

func checkFlags() []cli.Flag {
	return append(engineFlags(),
		&cli.Uint64Flag{
			Name:  "corpus",
			Usage: "Corpus ID to query (defaults to the active corpus)",
		},
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Path to the query text file (reads stdin if omitted)",
		},
		&cli.Float64Flag{
			Name:  "alpha",
			Usage: "Lexical weight in score fusion, in [0,1]",
			Value: 0.4,
		},
		&cli.IntFlag{
			Name:  "top-k-lexical",
			Usage: "Lexical candidates to retrieve",
			Value: check.DefaultLexicalTopK,
		},
		&cli.IntFlag{
			Name:  "top-k-semantic",
			Usage: "Semantic candidates to retrieve",
			Value: check.DefaultSemanticTopK,
		},
		&cli.IntFlag{
			Name:  "top-n",
			Usage: "Results to return",
			Value: check.DefaultTopN,
		},
		&cli.Float64Flag{
			Name:  "threshold",
			Usage: "Final score at or above which a result is flagged",
			Value: check.DefaultThreshold,
		},
	)
}

// openEngine builds an engine from the shared flags. The rerank model
// is only wired for commands that declare the rerank flags.
func openEngine(c *cli.Context) (*veritext.Engine, error) {
	configOpts := []ai.ConfigOption{
		ai.WithEmbeddingHost(c.String("embedding-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	}
	if c.String("rerank-model") != "" {
		rerankHost := c.String("rerank-host")
		if rerankHost == "" {
			rerankHost = c.String("embedding-host")
		}
		configOpts = append(configOpts,
			ai.WithRerankHost(rerankHost),
			ai.WithRerankModel(c.String("rerank-model")),
		)
	}

	config := ai.NewConfig(configOpts...)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	return veritext.NewEngine(c.String("db"), veritext.WithAIConfig(config))
}

// readText returns the contents of --file, or stdin when absent.
func readText(c *cli.Context) (string, error) {
	if path := c.String("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func corpusCreateCommand(c *cli.Context) error {
	mode, err := core.ParseSplitMode(c.String("mode"))
	if err != nil {
		return err
	}

	text, err := readText(c)
	if err != nil {
		return err
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	manager := engine.CorpusManager()
	meta, err := manager.Create(c.Context, c.String("name"), text, mode)
	if err != nil {
		return fmt.Errorf("corpus build failed: %w", err)
	}

	fmt.Printf("Created corpus %d (%s): %d segments, dim %d\n",
		meta.Id, meta.Name, meta.SegmentCount, meta.EmbeddingDim)

	if c.Bool("activate") {
		if err := manager.Activate(c.Context, meta.Id); err != nil {
			return err
		}
		fmt.Printf("Activated corpus %d\n", meta.Id)
	}
	return nil
}

func corpusListCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	infos, err := engine.CorpusManager().List(c.Context)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("No corpora stored.")
		return nil
	}

	for _, info := range infos {
		marker := " "
		if info.Active {
			marker = "*"
		}
		fmt.Printf("%s %d  %-24s  %s  %d segments  created %s\n",
			marker, info.Meta.Id, info.Meta.Name, info.Meta.SplitMode,
			info.Meta.SegmentCount, info.Meta.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func corpusActivateCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	id := core.ID(c.Uint64("id"))
	if err := engine.CorpusManager().Activate(c.Context, id); err != nil {
		return err
	}
	fmt.Printf("Activated corpus %d\n", id)
	return nil
}

func corpusDeleteCommand(c *cli.Context) error {
	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	id := core.ID(c.Uint64("id"))
	if err := engine.CorpusManager().Delete(c.Context, id); err != nil {
		return err
	}
	fmt.Printf("Deleted corpus %d\n", id)
	return nil
}

func checkCommand(c *cli.Context) error {
	return runCheck(c, false)
}

func checkMultiStageCommand(c *cli.Context) error {
	return runCheck(c, true)
}

func runCheck(c *cli.Context, multiStage bool) error {
	text, err := readText(c)
	if err != nil {
		return err
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	checker, err := engine.NewChecker()
	if err != nil {
		return err
	}

	req := check.NewCheckRequest(text)
	req.CorpusID = core.ID(c.Uint64("corpus"))
	req.Alpha = c.Float64("alpha")
	req.LexicalTopK = c.Int("top-k-lexical")
	req.SemanticTopK = c.Int("top-k-semantic")
	req.TopN = c.Int("top-n")
	req.Threshold = c.Float64("threshold")

	var resp *check.CheckResponse
	if multiStage {
		resp, err = checker.CheckMultiStage(c.Context, req)
	} else {
		resp, err = checker.Check(c.Context, req)
	}
	if err != nil {
		return err
	}

	printResponse(resp, req.Threshold, multiStage)
	return nil
}

func printResponse(resp *check.CheckResponse, threshold float64, multiStage bool) {
	fmt.Printf("Corpus: %s (id %d)\n", resp.CorpusName, resp.CorpusID)
	if multiStage {
		fmt.Printf("Re-ranker used: %v\n", resp.RerankerUsed)
	}
	if len(resp.Results) == 0 {
		fmt.Println("No matching segments.")
		return
	}

	fmt.Printf("%-4s %-9s %-9s %-9s %-10s %s\n",
		"#", "final", "lexical", "semantic", "suspected", "segment")
	for i, result := range resp.Results {
		text := result.Text
		if len(text) > 80 {
			text = text[:77] + "..."
		}
		text = strings.ReplaceAll(text, "\n", " ")
		fmt.Printf("%-4d %-9.4f %-9.4f %-9.4f %-10v %s\n",
			i+1, result.FinalScore, result.LexicalNorm, result.SemanticNorm,
			result.Suspected, text)
	}

	suspected := 0
	for _, result := range resp.Results {
		if result.Suspected {
			suspected++
		}
	}
	fmt.Printf("\n%d of %d results at or above threshold %.2f\n",
		suspected, len(resp.Results), threshold)
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
