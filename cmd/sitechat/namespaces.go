package main

import (
	"fmt"

	"github.com/sitechat/sitechat"
)

// Run executes the namespaces command.
func (c *NamespacesCmd) Run(deps *Dependencies) error {
	namespaces, err := deps.Store.ListNamespaces(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitechat.ErrorMessage(err))
		return err
	}

	if len(namespaces) == 0 {
		fmt.Fprintln(deps.Stdout, "No namespaces indexed. Run 'sitechat crawl' first.")
		return nil
	}

	for _, ns := range namespaces {
		fmt.Fprintln(deps.Stdout, ns)
	}
	return nil
}
