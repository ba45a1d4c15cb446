// Command doodleboard colors a line-art page with brush, eraser and bucket
// tools and exports the result composited with the original lines.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"DoodleBoard/internal/export"
	share "DoodleBoard/internal/net"
	"DoodleBoard/internal/raster"
	"DoodleBoard/internal/source"
	"DoodleBoard/internal/state"
	"DoodleBoard/internal/ui"
)

const DefaultPort = 8888

// fillSpec is one -fill argument: a buffer position and optional color.
type fillSpec struct {
	At    image.Point
	Color *color.RGBA
}

type fillList []fillSpec

func (l *fillList) String() string { return fmt.Sprint(*l) }

func (l *fillList) Set(v string) error {
	parts := strings.Split(v, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return fmt.Errorf("want x,y[,#rrggbb], got %q", v)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return fmt.Errorf("bad x in %q: %w", v, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return fmt.Errorf("bad y in %q: %w", v, err)
	}
	spec := fillSpec{At: image.Pt(x, y)}
	if len(parts) == 3 {
		c, err := raster.ParseColor(parts[2])
		if err != nil {
			return err
		}
		spec.Color = &c
	}
	*l = append(*l, spec)
	return nil
}

type config struct {
	Image    string
	Out      string
	PDF      bool
	Fills    fillList
	Share    bool
	Port     int
	Verbose  bool
	Discover time.Duration
}

func parseFlags(args []string) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("doodleboard", flag.ContinueOnError)
	fs.StringVar(&cfg.Image, "image", "", "line art to color: file path, http(s) URL or data: URL")
	fs.StringVar(&cfg.Out, "out", "", "headless: apply -fill operations and write the export into this directory")
	fs.BoolVar(&cfg.PDF, "pdf", false, "headless: also write a printable PDF")
	fs.Var(&cfg.Fills, "fill", "headless: bucket fill at x,y[,#rrggbb] in buffer pixels (repeatable)")
	fs.BoolVar(&cfg.Share, "share", false, "serve the page live to viewers on the LAN")
	fs.IntVar(&cfg.Port, "port", DefaultPort, "port for -share")
	fs.BoolVar(&cfg.Verbose, "v", false, "log engine diagnostics")
	fs.DurationVar(&cfg.Discover, "discover", 0, "list live shares on the LAN for this long and exit")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if cfg.Discover > 0 {
		return cfg, nil
	}
	if cfg.Image == "" {
		return cfg, errors.New("-image is required")
	}
	if cfg.Out == "" && (len(cfg.Fills) > 0 || cfg.PDF) {
		return cfg, errors.New("-fill and -pdf need -out")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return cfg, fmt.Errorf("invalid -port %d", cfg.Port)
	}
	return cfg, nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("doodleboard: %v", err)
	}
	if cfg.Verbose {
		raster.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	if cfg.Discover > 0 {
		runDiscover(cfg.Discover)
		return
	}

	src, err := source.Parse(cfg.Image)
	if err != nil {
		log.Fatalf("doodleboard: %v", err)
	}

	if cfg.Out != "" {
		if err := runHeadless(context.Background(), cfg, src); err != nil {
			log.Fatalf("doodleboard: %v", err)
		}
		return
	}
	runWindow(cfg, src)
}

func runWindow(cfg config, src source.Source) {
	opts := ui.Options{Image: src}
	if cfg.Share {
		hub := share.NewHub()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			if err := share.Serve(ctx, cfg.Port, hub); err != nil {
				log.Printf("[SHARE] server stopped: %v", err)
			}
		}()
		server, err := share.Advertise(cfg.Port)
		if err != nil {
			log.Printf("[SHARE] not advertising: %v", err)
		} else {
			defer server.Shutdown()
		}
		opts.OnCommit = hub.Publish
		opts.ShareLink = share.ShareLink(cfg.Port)
		log.Printf("[SHARE] live page at %s", opts.ShareLink)
	}
	ui.RunApp(opts)
}

// runHeadless loads the page, applies the fills in order and writes the
// export. Fills run through the same deferred path as bucket clicks.
func runHeadless(ctx context.Context, cfg config, src source.Source) error {
	queue := &state.Queue{}
	session := state.NewSession(queue)
	defer session.Close()

	ref, err := source.Load(ctx, src, raster.Size, raster.Size)
	if err != nil {
		session.FailReference(err)
		return err
	}
	if err := session.SetReference(ref); err != nil {
		return err
	}

	for _, f := range cfg.Fills {
		c := session.Tool().Color
		if f.Color != nil {
			c = *f.Color
		}
		at := f.At
		queue.Post(func() {
			if err := session.Fill(at, c); err != nil {
				log.Printf("[SESSION] fill at %v: %v", at, err)
			}
		})
	}
	queue.RunPending()

	img, err := session.Export()
	if err != nil {
		return err
	}
	sink := export.Dir(cfg.Out)
	now := time.Now()
	name, err := export.Save(sink, img, now)
	if err != nil {
		return err
	}
	log.Printf("Saved %s", name)
	if cfg.PDF {
		name, err := export.SavePDF(sink, img, now)
		if err != nil {
			return err
		}
		log.Printf("Saved %s", name)
	}
	return nil
}

func runDiscover(d time.Duration) {
	log.Printf("[SHARE] looking for live pages for %s", d)
	err := share.Browse(d, func(addr string) {
		fmt.Printf("http://%s/snapshot.png\n", addr)
	})
	if err != nil {
		log.Fatalf("doodleboard: discover: %v", err)
	}
}
