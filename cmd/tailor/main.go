package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"tailorai/internal/client"
	"tailorai/internal/domain"
	"tailorai/internal/history"
	"tailorai/internal/infra"
)

const usage = `usage: tailor <command> [flags]

commands:
  styles                              list the styles the relay accepts
  generate -image FILE -style ID      restyle a photo and record it in history
  history list                        list past generations, newest first
  history show -id ID [-out-dir DIR]  show a past generation without calling the relay
  history clear -yes                  delete every history entry
  history export -out FILE.zip        archive every entry's images`

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		exitWithError(err)
	}
}

type env struct {
	cfg    *infra.ClientConfig
	logger infra.Logger
	stdout io.Writer
	relay  *client.RelayClient
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(stderr, usage)
		return errors.New("a command is required")
	}
	cfg, err := infra.LoadClientConfig()
	if err != nil {
		return err
	}
	logger := infra.NewLogger(cfg.AppEnv, "tailor", stderr)
	relay, err := client.NewRelayClient(client.Options{
		BaseURL:    cfg.APIURL,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
		Logger:     &logger,
	})
	if err != nil {
		return err
	}
	e := &env{cfg: cfg, logger: logger, stdout: stdout, relay: relay}

	switch args[0] {
	case "styles":
		return e.styles(ctx)
	case "generate":
		return e.generate(ctx, args[1:])
	case "history":
		if len(args) < 2 {
			fmt.Fprintln(stderr, usage)
			return errors.New("history needs a subcommand")
		}
		return e.history(ctx, args[1], args[2:])
	case "help", "-h", "--help":
		fmt.Fprintln(stdout, usage)
		return nil
	default:
		fmt.Fprintln(stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (e *env) styles(ctx context.Context) error {
	styles, err := e.relay.Styles(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL\tDESCRIPTION")
	for _, s := range styles {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ID, s.Label, s.Description)
	}
	return tw.Flush()
}

// openController loads history from the configured backend. The caller
// closes the returned store.
func (e *env) openController(ctx context.Context) (*client.Controller, history.Store, error) {
	store, err := history.OpenStore(ctx, e.cfg, e.logger)
	if err != nil {
		return nil, nil, err
	}
	h, err := history.New(store)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	if err := h.Load(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}
	ctrl, err := client.NewController(client.ControllerOptions{
		Relay:   e.relay,
		History: h,
		Logger:  &e.logger,
		OnTransition: func(_, to client.State) {
			switch to {
			case client.StatePreparingImage:
				fmt.Fprintln(e.stdout, "Preparing your image...")
			case client.StateAwaitingResponse:
				fmt.Fprintln(e.stdout, "Generating your look...")
			}
		},
	})
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return ctrl, store, nil
}

func (e *env) generate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	imageFlag := fs.String("image", "", "path of the photo to restyle")
	styleFlag := fs.String("style", "", "style id, see `tailor styles`")
	outFlag := fs.String("out", "", "write the generated image to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctrl, store, err := e.openController(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	ctrl.SelectImage(strings.TrimSpace(*imageFlag))
	if err := ctrl.SelectStyle(strings.TrimSpace(*styleFlag)); err != nil {
		return err
	}
	generated, err := ctrl.Generate(ctx)
	if generated == "" {
		return err
	}
	if err != nil {
		e.logger.Warn().Err(err).Msg("generation succeeded but history was not saved")
	}

	if entries := ctrl.History(); len(entries) > 0 && err == nil {
		fmt.Fprintf(e.stdout, "Saved to history as %s\n", entries[0].ID)
	}
	if *outFlag != "" {
		if err := writeImage(*outFlag, generated); err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "Wrote %s\n", *outFlag)
	}
	return nil
}

func (e *env) history(ctx context.Context, sub string, args []string) error {
	ctrl, store, err := e.openController(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	switch sub {
	case "list":
		entries := ctrl.History()
		if len(entries) == 0 {
			fmt.Fprintln(e.stdout, "No history yet.")
			return nil
		}
		tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSTYLE\tCREATED")
		for _, entry := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", entry.ID, entry.Style, entry.Time().Format(time.RFC3339))
		}
		return tw.Flush()

	case "show":
		fs := flag.NewFlagSet("history show", flag.ContinueOnError)
		idFlag := fs.String("id", "", "history entry id")
		outDir := fs.String("out-dir", "", "write the original and generated images into this directory")
		if err := fs.Parse(args); err != nil {
			return err
		}
		entry, err := ctrl.Restore(strings.TrimSpace(*idFlag))
		if err != nil {
			return fmt.Errorf("history entry %q: %w", *idFlag, err)
		}
		fmt.Fprintf(e.stdout, "ID:      %s\nStyle:   %s\nCreated: %s\n", entry.ID, entry.Style, entry.Time().Format(time.RFC3339))
		if *outDir == "" {
			return nil
		}
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			return err
		}
		for name, url := range map[string]string{"original": entry.OriginalImage, "generated": entry.GeneratedImage} {
			data, ext, err := history.DecodeImage(url)
			if err != nil {
				return fmt.Errorf("decode %s image: %w", name, err)
			}
			path := filepath.Join(*outDir, name+ext)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(e.stdout, "Wrote %s\n", path)
		}
		return nil

	case "clear":
		fs := flag.NewFlagSet("history clear", flag.ContinueOnError)
		yes := fs.Bool("yes", false, "confirm deleting every entry")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := ctrl.ClearHistory(ctx, *yes); err != nil {
			if errors.Is(err, client.ErrNotConfirmed) {
				return errors.New("refusing to clear history without -yes")
			}
			return err
		}
		fmt.Fprintln(e.stdout, "History cleared.")
		return nil

	case "export":
		fs := flag.NewFlagSet("history export", flag.ContinueOnError)
		out := fs.String("out", "tailorai-history.zip", "archive path")
		if err := fs.Parse(args); err != nil {
			return err
		}
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		if err := history.Export(f, ctrl.History()); err != nil {
			f.Close()
			os.Remove(*out)
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "Exported %d entries to %s\n", len(ctrl.History()), *out)
		return nil

	default:
		return fmt.Errorf("unknown history command %q", sub)
	}
}

func writeImage(path, dataURL string) error {
	data, _, err := history.DecodeImage(dataURL)
	if err != nil {
		return fmt.Errorf("decode generated image: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, domain.Localize(domain.DefaultLocale, err))
	os.Exit(1)
}
