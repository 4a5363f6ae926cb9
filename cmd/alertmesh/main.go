// alertmesh is the command line entry point of the alert investigation
// service.
//
// Usage:
//
//	alertmesh serve [--addr=:8080] [--memory=inmemory|redis] [--summarizer=rule|openai|anthropic]
//	alertmesh investigate --type=high_cpu --service=payment-api [--summarize]
//	alertmesh tools
package main

import (
	"fmt"
	"os"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
