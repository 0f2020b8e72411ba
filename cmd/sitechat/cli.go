package main

import (
	"context"
	"io"

	"github.com/sitechat/sitechat"
	"github.com/sitechat/sitechat/agent"
	"github.com/sitechat/sitechat/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Store    sitechat.VectorStore
	Crawler  *crawl.Crawler
	Workflow *agent.Workflow
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Crawl      CrawlCmd      `cmd:"" help:"Crawl configured websites into the vector index"`
	Ask        AskCmd        `cmd:"" help:"Ask a question about indexed websites"`
	Namespaces NamespacesCmd `cmd:"" help:"List indexed namespaces"`
	Delete     DeleteCmd     `cmd:"" help:"Delete a namespace and all its indexed content"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Config    string  `arg:"" help:"Path to the websites config file (JSON or YAML)"`
	Recrawl   bool    `short:"r" help:"Delete and rebuild namespaces that already exist"`
	RateLimit float64 `default:"5" help:"Maximum page fetches per second"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to ask about the indexed websites"`
	Config   string `short:"c" default:"websites.json" help:"Path to the websites config file"`
}

// NamespacesCmd is the "namespaces" subcommand.
type NamespacesCmd struct{}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	Namespace string `arg:"" help:"Namespace to delete"`
	Force     bool   `help:"Confirm deletion"`
}
