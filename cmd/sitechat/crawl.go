package main

import (
	"fmt"

	"github.com/sitechat/sitechat"
	"github.com/sitechat/sitechat/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	cfg, err := sitechat.LoadConfig(c.Config)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitechat.ErrorMessage(err))
		return err
	}

	results := deps.Crawler.CrawlAll(deps.Ctx, cfg, c.Recrawl)

	var failed int
	for _, res := range results {
		switch res.Status {
		case crawl.StatusSuccess:
			fmt.Fprintf(deps.Stdout, "%s: indexed %d pages (%d chunks) into %q\n",
				res.Website, res.PagesCrawled, res.ChunksIndexed, res.Namespace)
		case crawl.StatusSkipped:
			fmt.Fprintf(deps.Stdout, "%s: skipped (%s)\n", res.Website, res.Reason)
		default:
			failed++
			if res.Err != nil {
				fmt.Fprintf(deps.Stdout, "%s: failed (%s): %v\n", res.Website, res.Reason, res.Err)
			} else {
				fmt.Fprintf(deps.Stdout, "%s: failed (%s)\n", res.Website, res.Reason)
			}
		}
	}

	if failed == len(results) && len(results) > 0 {
		return sitechat.Errorf(sitechat.EINTERNAL, "all %d crawls failed", failed)
	}
	return nil
}
