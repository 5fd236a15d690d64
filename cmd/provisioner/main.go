// Command provisioner is the startup gate for the movies search platform.
// It waits for Postgres and Elasticsearch, ensures the search indexes exist,
// then execs the wrapped command:
//
//	provisioner uvicorn main:app --host 0.0.0.0
//
// With no arguments it provisions and exits.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/movieforge/search-provisioner/internal/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.Start(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "search-provisioner: %v\n", err)
		os.Exit(1)
	}
}
