// Package render implements render and css subcommands.
package render

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"lynxssr/css"
	"lynxssr/page"
	"lynxssr/state"
	"lynxssr/style"
)

func isPageDescription(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func isArchive(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".zip")
}

// collectSources returns page descriptions and archives with them: src itself
// or all such files under src directory in natural order.
func collectSources(src string) ([]string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("unable to access source: %w", err)
	}
	if !info.IsDir() {
		return []string{src}, nil
	}

	var files []string
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && (isPageDescription(path) || isArchive(path)) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to list source directory: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no page descriptions found in %s", src)
	}
	sort.Sort(natural.StringSlice(files))
	return files, nil
}

func renderAll(ctx context.Context, files []string, dst string, overwrite bool) (err error) {
	env := state.EnvFromContext(ctx)
	for _, f := range files {
		var er error
		if isArchive(f) {
			_, er = Archive(ctx, f, dst, overwrite)
		} else {
			_, er = Page(ctx, f, dst, overwrite)
		}
		if er != nil {
			if errors.Is(er, context.Canceled) {
				return multierr.Append(err, er)
			}
			env.Log.Error("Unable to render page", zap.String("source", f), zap.Error(er))
			err = multierr.Append(err, fmt.Errorf("%s: %w", f, er))
		}
	}
	return err
}

// Run is the render subcommand action.
func Run(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() == 0 {
		return errors.New("no page description specified")
	}
	if cmd.Args().Len() > 2 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	env.Overwrite = cmd.Bool("overwrite")
	env.EntryName = cmd.String("entry")

	src := cmd.Args().Get(0)
	dst := cmd.Args().Get(1)
	if dst == "" {
		var err error
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}

	files, err := collectSources(src)
	if err != nil {
		return err
	}
	env.Log.Info("Rendering started", zap.String("source", src), zap.String("destination", dst), zap.Int("pages", len(files)))

	err = renderAll(ctx, files, dst, env.Overwrite)
	if !cmd.Bool("watch") {
		return err
	}

	// output of the first pass is ours to replace
	return watch(ctx, files, env.Cfg.Render.WatchDelay, func(changed []string) {
		_ = renderAll(ctx, changed, dst, true)
	}, env.Log)
}

// RunCSS is the css subcommand action: it writes CSS generated for page
// stylesheets and, on request, dump of the style manager.
func RunCSS(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() == 0 {
		return errors.New("no page description specified")
	}
	env.EntryName = cmd.String("entry")

	d, err := page.Load(cmd.Args().Get(0))
	if err != nil {
		return err
	}

	cfg := &env.Cfg.Render
	m := style.NewManager(cfg.EnableCSSSelector, cfg.RemoveCSSScope, env.Log)
	m.Push(d.StyleInfo(css.NewParser(env.Log)), env.EntryNameFor(d.EntryName))

	data := m.CSS()
	if cmd.Bool("dump") {
		data = m.String()
	}

	out := os.Stdout
	fname := cmd.Args().Get(1)
	if fname != "" {
		if out, err = os.Create(fname); err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer func() {
			err = multierr.Append(err, out.Close())
		}()
	}
	if _, err := out.WriteString(data); err != nil {
		return fmt.Errorf("unable to write CSS: %w", err)
	}
	return nil
}
