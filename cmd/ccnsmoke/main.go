// Command ccnsmoke is a smoke test for std/ccn's client/forwarder
// protocol: connect to a daemon socket, express a single Interest with
// a short timeout, and report whether a matching ContentObject came
// back before the deadline (adapted from the original client library's
// smoketestclientlib.c, which drove the same connect/express/run
// sequence against a live daemon).
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

func main() {
	var (
		socketPath string
		timeoutMs  int
		name       string
	)

	root := &cobra.Command{
		Use:   "ccnsmoke",
		Short: "Smoke-test a ccnd connection: express one Interest and report the outcome",
		RunE: func(_ *cobra.Command, _ []string) error {
			return smoke(socketPath, name, timeoutMs)
		},
	}
	root.Flags().StringVarP(&socketPath, "socket", "s", "", "override the daemon socket path")
	root.Flags().StringVarP(&name, "name", "n", "/ccnsmoke/probe", "name to express as a human-readable path")
	root.Flags().IntVarP(&timeoutMs, "timeout", "t", 1000, "fetch timeout, in milliseconds")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func smoke(socketPath, humanName string, timeoutMs int) error {
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

	return probe(h, humanName, timeoutMs)
}

// probe expresses a single Interest for humanName over an already
// connected Handle and reports the outcome; split out from smoke so
// tests can drive it over an in-memory connection.
func probe(h *ccn.Handle, humanName string, timeoutMs int) error {
	name, err := parseName(humanName)
	if err != nil {
		return fmt.Errorf("invalid name %q: %w", humanName, err)
	}

	ccnlog.Info("ccnsmoke", "expressing interest", "name", humanName)
	pco, _, err := h.Get(name, -1, nil, timeoutMs)
	if err != nil {
		return fmt.Errorf("get: %w", err)
	}
	if pco == nil {
		fmt.Printf("ccnsmoke: timeout waiting for %s\n", humanName)
		return fmt.Errorf("timeout")
	}

	fmt.Printf("ccnsmoke: got %d bytes of content for %s\n", len(pco.Content()), humanName)
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
