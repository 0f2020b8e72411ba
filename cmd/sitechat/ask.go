package main

import (
	"fmt"

	"github.com/sitechat/sitechat"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	answer, err := deps.Workflow.Answer(deps.Ctx, c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitechat.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer.Response)
	if len(answer.Sources) > 0 {
		fmt.Fprintln(deps.Stdout, "\nSources:")
		for _, src := range answer.Sources {
			fmt.Fprintf(deps.Stdout, "- %s\n", src)
		}
	}
	return nil
}
