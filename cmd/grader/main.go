// Command grader checks an HTML file or URL for elements matching the
// selectors in a checks file and prints a JSON report.
//
// Usage:
//
//	grader -c checks.json -f index.html
//	grader -c checks.json -u http://example.com
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hamed0406/pagegrader/internal/cli"
	"github.com/hamed0406/pagegrader/internal/config"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cli.Execute(ctx, os.Args[1:], cli.Options{
		Config:  config.FromEnv(),
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Version: version,
	})
	stop()
	if err == nil {
		return
	}

	code := 1
	var ee *cli.ExitError
	if errors.As(err, &ee) {
		code = ee.Code
		if ee.Message != "" {
			fmt.Fprintln(os.Stderr, ee.Message)
		}
	}
	os.Exit(code)
}
