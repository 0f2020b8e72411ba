package main

import (
	"fmt"

	"github.com/sitechat/sitechat"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return sitechat.Errorf(sitechat.EINVALID, "use --force to confirm deletion")
	}

	namespaces, err := deps.Store.ListNamespaces(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitechat.ErrorMessage(err))
		return err
	}

	if !containsNamespace(namespaces, c.Namespace) {
		fmt.Fprintf(deps.Stderr, "error: namespace %q not found. Use 'sitechat namespaces' to see what is indexed.\n", c.Namespace)
		return sitechat.Errorf(sitechat.ENOTFOUND, "namespace %q not found", c.Namespace)
	}

	if err := deps.Store.DeleteNamespace(deps.Ctx, c.Namespace); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitechat.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted namespace %q\n", c.Namespace)
	return nil
}

func containsNamespace(list []string, ns string) bool {
	for _, item := range list {
		if item == ns {
			return true
		}
	}
	return false
}
