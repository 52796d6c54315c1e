// Command wishbonectl is Wishbone's CLI entrypoint: it loads a declarative
// topology, builds the component registry, and either runs the pipeline in
// the foreground (start) or inspects the configuration/registry (list,
// doc, validate). Structurally grounded on the teacher's cmd/slctl
// (root flag.FlagSet, switch over os.Args[1], per-subcommand handlers).
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/wishbone-run/wishbone/internal/builtin"
	"github.com/wishbone-run/wishbone/internal/introspect"
	"github.com/wishbone-run/wishbone/internal/registry"
	"github.com/wishbone-run/wishbone/internal/router"
	"github.com/wishbone-run/wishbone/internal/wbconfig"
	"github.com/wishbone-run/wishbone/internal/wblog"
	"github.com/wishbone-run/wishbone/internal/wbmetrics"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// A missing .env is not fatal -- it is an optional bootstrap the way
	// the teacher's services treat local environment overrides.
	_ = godotenv.Load()

	if len(args) == 0 {
		printUsage()
		return fmt.Errorf("no command specified")
	}

	switch args[0] {
	case "start":
		return cmdStart(args[1:])
	case "list":
		return cmdList(args[1:])
	case "doc":
		return cmdDoc(args[1:])
	case "validate":
		return cmdValidate(args[1:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printUsage() {
	fmt.Println(`wishbonectl - Wishbone event-pipeline server

Usage:
  wishbonectl start -config <path> [-introspect-addr addr] [-introspect-secret secret]
  wishbonectl validate -config <path>
  wishbonectl list [-kind module|protocol|function|lookup]
  wishbonectl doc -name <qualified.component.name>`)
}

func newRegistry() *registry.Registry {
	reg := registry.New()
	builtin.Register(reg)
	return reg
}

func cmdValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to the topology YAML file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		return fmt.Errorf("validate: -config is required")
	}
	if _, err := wbconfig.Load(*configPath); err != nil {
		return err
	}
	fmt.Println("configuration is valid")
	return nil
}

func cmdList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	kind := fs.String("kind", "", "filter by component kind: module, protocol, function, lookup")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reg := newRegistry()
	for _, name := range reg.List(registry.Kind(strings.ToLower(*kind))) {
		title, _ := reg.GetTitle(name)
		fmt.Printf("%s\t%s\n", name, title)
	}
	return nil
}

func cmdDoc(args []string) error {
	fs := flag.NewFlagSet("doc", flag.ContinueOnError)
	name := fs.String("name", "", "qualified component name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("doc: -name is required")
	}

	reg := newRegistry()
	title, err := reg.GetTitle(*name)
	if err != nil {
		return err
	}
	doc, _ := reg.GetDoc(*name)
	version, _ := reg.GetVersion(*name)
	fmt.Printf("%s (%s) v%s\n\n%s\n", title, *name, version, doc)
	return nil
}

func cmdStart(args []string) error {
	fs := flag.NewFlagSet("start", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to the topology YAML file")
	introspectAddr := fs.String("introspect-addr", "", "address for the introspection HTTP server, e.g. :8090 (disabled if empty)")
	introspectSecret := fs.String("introspect-secret", "", "HMAC secret gating the introspection server (env WISHBONE_INTROSPECT_SECRET)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		return fmt.Errorf("start: -config is required")
	}
	if *introspectSecret == "" {
		*introspectSecret = os.Getenv("WISHBONE_INTROSPECT_SECRET")
	}

	cfg, err := wbconfig.Load(*configPath)
	if err != nil {
		return err
	}

	reg := newRegistry()
	collectors := wbmetrics.New()
	r := router.New(cfg, reg, collectors)
	if err := r.Build(); err != nil {
		return fmt.Errorf("start: build: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := r.Start(ctx); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	var introspectServer *http.Server
	if *introspectAddr != "" {
		var auth *introspect.Authenticator
		if *introspectSecret != "" {
			auth = introspect.NewAuthenticator(*introspectSecret)
		}
		srv := introspect.New(r, auth)
		introspectServer = &http.Server{Addr: *introspectAddr, Handler: srv.Router()}
		go func() {
			if err := introspectServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				wblog.NewFromEnv("wishbonectl").Entry().WithField("error", err.Error()).Error("introspection server failed")
			}
		}()
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if introspectServer != nil {
		_ = introspectServer.Shutdown(stopCtx)
	}

	return r.Stop(stopCtx)
}
