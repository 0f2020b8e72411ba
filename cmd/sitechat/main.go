package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"google.golang.org/genai"

	"github.com/sitechat/sitechat"
	"github.com/sitechat/sitechat/agent"
	"github.com/sitechat/sitechat/crawl"
	"github.com/sitechat/sitechat/gemini"
	"github.com/sitechat/sitechat/htmltomarkdown"
	schttp "github.com/sitechat/sitechat/http"
	"github.com/sitechat/sitechat/pdf"
	scslog "github.com/sitechat/sitechat/slog"
	"github.com/sitechat/sitechat/sqlite"
	"github.com/sitechat/sitechat/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database backing the vector store.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("sitechat"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitechat --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set SITECHAT_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	embedder := gemini.NewEmbedder(client, os.Getenv("SITECHAT_EMBEDDING_MODEL"))
	store, err := sqlite.NewVectorStore(ctx, m.DB, embedder)
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	deps.Store = scslog.NewLoggingVectorStore(store, logger)

	switch cmd {
	case "crawl":
		sitemaps := scslog.NewLoggingSitemapService(
			schttp.NewSitemapService(schttp.WithSitemapLogger(logger)),
			logger,
		)
		fetcher := schttp.NewPageFetcher(
			trafilatura.NewExtractor(),
			htmltomarkdown.NewConverter(),
			pdf.NewConverter(),
			schttp.WithRequestsPerSecond(cli.Crawl.RateLimit),
			schttp.WithFetcherLogger(logger),
		)
		deps.Crawler = &crawl.Crawler{
			Sitemaps: sitemaps,
			Fetcher:  fetcher,
			Store:    deps.Store,
			Chunker:  sitechat.NewChunker(0, 0),
			Logger:   logger,
		}

	case "ask":
		cfg, err := sitechat.LoadConfig(cli.Ask.Config)
		if err != nil {
			return fmt.Errorf("failed to load websites config: %w", err)
		}

		model := gemini.NewChatModel(client, os.Getenv("SITECHAT_CHAT_MODEL"))
		reviewer, err := agent.NewBrandReviewer(model, os.Getenv("SITECHAT_BRAND_GUIDELINES"))
		if err != nil {
			return err
		}

		deps.Workflow = &agent.Workflow{
			Model:    model,
			Tools:    agent.NewToolSet(cfg, deps.Store),
			Reviewer: reviewer,
			Logger:   logger,
		}
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("SITECHAT_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "sitechat.db"
	}
	dir := filepath.Join(home, ".sitechat")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "sitechat.db")
}
