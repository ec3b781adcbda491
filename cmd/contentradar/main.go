package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/bytedance/gg/gson"

	"contentradar/internal/calendar"
	"contentradar/internal/config"
	"contentradar/internal/history"
	"contentradar/internal/llm"
	"contentradar/internal/logger"
	"contentradar/internal/model"
	"contentradar/internal/pipeline"
	"contentradar/internal/sources/analytics"
	"contentradar/internal/sources/crawler"
	"contentradar/internal/sources/feeds"
	"contentradar/internal/sources/searchconsole"
	"contentradar/internal/sources/trends"
	"contentradar/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration")
	mode := flag.String("mode", "ideas", "pipeline to run: ideas | content | evaluate")
	ideaTitle := flag.String("idea", "", "idea title (content and evaluate modes)")
	ideaDesc := flag.String("desc", "", "idea description (evaluate mode)")
	flag.Parse()

	// 1. Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// 2. Initialize logging
	appLog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	appLog.Info("starting contentradar...")

	ctx := context.Background()

	// 3. Initialize the LLM client (rate-limited, retrying)
	client, err := llm.New(ctx, cfg.LLM, cfg.Concurrency, appLog)
	if err != nil {
		appLog.Fatalf("init llm client: %v", err)
	}

	// 4. Optional Postgres run archive
	archive, err := storage.Open(cfg.DB)
	if err != nil {
		appLog.Fatalf("init run archive: %v", err)
	}
	defer archive.Close()
	if archive.Enabled() {
		appLog.Info("run archive enabled")
	}

	// 5. Wire the data providers and the engine
	siteURL := cfg.Sources.SearchConsole.SiteURL
	engine := pipeline.NewEngine(pipeline.Deps{
		Config:        *cfg,
		Generator:     client,
		Analytics:     analytics.NewClient(cfg.Sources.Analytics),
		SearchConsole: searchconsole.NewClient(cfg.Sources.SearchConsole),
		Feeds:         feeds.NewClient(cfg.Sources.Feeds, cfg.Sources.FeedMaxItems),
		Trends:        trends.NewClient(cfg.Sources.Trends),
		Crawler:       crawler.New(siteURL, cfg.Sources.CrawlTopPages),
		History:       history.NewStore(cfg.History.Path, cfg.History.Limit),
		Archive:       archive,
		Log:           appLog,
	})

	status := func(msg string) { fmt.Println("› " + msg) }

	// 6. Run the requested pipeline
	switch *mode {
	case "ideas":
		res, err := engine.RunIdeas(ctx, status, nil)
		if err != nil {
			printWarnings(res.Warnings)
			appLog.Fatalf("idea pipeline failed: %v", err)
		}
		printWarnings(res.Warnings)
		appLog.Debugf("idea run: %s", gson.ToString(res))
		printJSON(res.Ideas)

		// Editorial calendar over the fresh ideas, 4 weeks from next Monday.
		plan := calendar.Plan(res.Ideas, res.Snapshot.Trends, time.Now())
		monday := calendar.NextMonday(time.Now())
		for _, entry := range plan {
			fmt.Printf("%s  KW %s  [%s]  %s\n",
				entry.PublishDate.Format("02.01.2006"),
				calendar.WeekLabel(entry.Week, monday),
				entry.UrgencyLabel, entry.Idea.Title)
		}

	case "content":
		if *ideaTitle == "" {
			appLog.Fatal("content mode needs -idea")
		}
		res, err := engine.RunContent(ctx, pipeline.ContentInput{
			Idea: pickIdea(cfg, *ideaTitle),
		}, status)
		if err != nil {
			appLog.Fatalf("content pipeline failed: %v", err)
		}
		printWarnings(res.Warnings)
		printJSON(res)

	case "evaluate":
		if *ideaTitle == "" {
			appLog.Fatal("evaluate mode needs -idea")
		}
		verdict, err := engine.RunEvaluation(ctx, pipeline.EvaluateInput{
			Title:       *ideaTitle,
			Description: *ideaDesc,
		}, status)
		if err != nil {
			appLog.Fatalf("evaluation pipeline failed: %v", err)
		}
		printWarnings(verdict.Warnings)
		printJSON(verdict)

	default:
		appLog.Errorf("unknown mode %q", *mode)
		os.Exit(2)
	}
}

// pickIdea reuses the most recent matching history entry so a content run
// keeps the signals of the idea run that proposed it. An unknown title still
// works; the idea just carries no signals.
func pickIdea(cfg *config.Config, title string) model.Idea {
	store := history.NewStore(cfg.History.Path, cfg.History.Limit)
	entries := store.Load()
	for i := len(entries) - 1; i >= 0; i-- {
		for _, idea := range entries[i].Ideas {
			if strings.EqualFold(idea.Title, title) {
				return idea
			}
		}
	}
	return model.Idea{Title: title}
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(gson.ToString(v))
		return
	}
	fmt.Println(string(data))
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Println("⚠ " + w)
	}
}
