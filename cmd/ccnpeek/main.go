// Command ccnpeek demonstrates std/ccn end to end: express a single
// Interest for a name given on the command line, wait for the
// matching ContentObject, and print its Content payload.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xuzhw/ccn-go/std/ccn"
	"github.com/xuzhw/ccn-go/std/ccnlog"
	"github.com/xuzhw/ccn-go/std/wire"
)

var (
	timeoutMs  int
	socketPath string
)

func main() {
	root := &cobra.Command{
		Use:     "ccnpeek NAME",
		Short:   "Fetch one piece of content by name and print it",
		Args:    cobra.ExactArgs(1),
		Example: "  ccnpeek /example/data",
		RunE:    run,
	}
	root.Flags().IntVarP(&timeoutMs, "timeout", "t", 3000, "fetch timeout, in milliseconds")
	root.Flags().StringVarP(&socketPath, "socket", "s", "", "override the daemon socket path (defaults to CCN_CLIENT_CONFIG/env)")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(_ *cobra.Command, args []string) error {
	name, err := parseName(args[0])
	if err != nil {
		return fmt.Errorf("invalid name %q: %w", args[0], err)
	}

	var opts []ccn.HandleOption
	if socketPath != "" {
		opts = append(opts, ccn.WithSocketPath(socketPath))
	}

	h, err := ccn.Create(opts...)
	if err != nil {
		return fmt.Errorf("create handle: %w", err)
	}
	defer h.Destroy()

	if err := h.Connect(); err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	ccnlog.Info("ccnpeek", "expressing interest", "name", args[0])
	pco, _, err := h.Get(name, -1, nil, timeoutMs)
	if err != nil {
		return fmt.Errorf("get: %w", err)
	}
	if pco == nil {
		return fmt.Errorf("timed out waiting for %s", args[0])
	}

	os.Stdout.Write(pco.Content())
	return nil
}

// parseName splits a slash-separated human name ("/a/b/c") into a Name
// element; an empty leading/trailing segment (from a leading or
// trailing slash) is ignored.
func parseName(s string) ([]byte, error) {
	parts := strings.Split(s, "/")
	var comps [][]byte
	for _, p := range parts {
		if p == "" {
			continue
		}
		comps = append(comps, []byte(p))
	}
	return wire.BuildName(comps, false)
}
