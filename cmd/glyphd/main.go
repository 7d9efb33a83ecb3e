// Command glyphd is the reference binary for this module: it embeds the
// in-memory storage engine and RPC dispatcher and exposes serve/query/
// version subcommands, the way the teacher's cmd/snapsql CLI wraps its
// engine in a kong.Parse-driven command set.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/glyphdb/glyph/config"
	"github.com/glyphdb/glyph/enginekv"
	"github.com/glyphdb/glyph/gql"
	"github.com/glyphdb/glyph/rpc"
	"github.com/glyphdb/glyph/session"
	"github.com/glyphdb/glyph/value"
)

// Context carries the flags every subcommand shares.
type Context struct {
	Config string
}

// CLI is glyphd's top-level command set.
var CLI struct {
	Config  string     `help:"Configuration file path" default:"glyphd.yaml"`
	Serve   ServeCmd   `cmd:"" help:"Run the RPC dispatcher over the embedded storage engine"`
	Query   QueryCmd   `cmd:"" help:"Execute one query against a fresh embedded engine and print the result"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// ServeCmd builds the dispatcher, runs a ping self-check, prints the
// engine status and returns; this reference build has no network
// transport (spec.md §1 places the transport binding out of scope), so
// it does not block or accept connections.
type ServeCmd struct{}

func (cmd *ServeCmd) Run(ctx *Context) error {
	cfg, err := config.Load(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	d := newDispatcher(cfg)
	ping, err := d.Dispatch(context.Background(), session.New(), "ping", nil)
	if err != nil {
		return fmt.Errorf("engine self-check failed: %w", err)
	}

	color.Blue("glyphd %s ready on %s (namespace=%s database=%s)", rpc.Version, cfg.Bind, cfg.Namespace, cfg.Database)
	color.Blue("live_queries=%t graphql=%t ping=%v", cfg.Capabilities.LiveQueries, cfg.Capabilities.GraphQL, ping)
	color.Yellow("no network transport is wired into this reference build; use 'glyphd query' for one-shot execution")

	return nil
}

// QueryCmd runs a single query string against a fresh embedded engine
// and prints the result, useful for smoke-testing a build without a
// transport.
type QueryCmd struct {
	Query string `arg:"" help:"Query text to execute"`
}

func (cmd *QueryCmd) Run(ctx *Context) error {
	cfg, err := config.Load(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	d := newDispatcher(cfg)
	sess := session.New()
	sess.Namespace = cfg.Namespace
	sess.Database = cfg.Database

	result, err := d.Dispatch(context.Background(), sess, "query", value.Array{value.Strand(cmd.Query)})
	if err != nil {
		color.Red("query failed: %v", err)
		return err
	}

	fmt.Printf("%v\n", result)

	return nil
}

// VersionCmd prints the build identifier.
type VersionCmd struct{}

func (cmd *VersionCmd) Run() error {
	fmt.Println(rpc.Version)
	return nil
}

func newDispatcher(cfg *config.Config) *rpc.Dispatcher {
	ds := enginekv.New()
	d := rpc.New(ds, enginekv.NewIAM())
	d.LQSupport = cfg.Capabilities.LiveQueries
	d.GQLSupport = cfg.Capabilities.GraphQL

	if cfg.Capabilities.GraphQL {
		bridge, err := gql.New(ds)
		if err != nil {
			color.Red("graphql bridge disabled: %v", err)
			d.GQLSupport = false
		} else {
			d.GraphQL = bridge
		}
	}

	return d
}

func main() {
	ctx := kong.Parse(&CLI)

	appCtx := &Context{Config: CLI.Config}
	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
