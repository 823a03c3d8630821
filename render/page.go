package render

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"lynxssr/archive"
	"lynxssr/config"
	"lynxssr/page"
	"lynxssr/ssr"
	"lynxssr/state"
)

// ContextOptions returns server context options for configuration.
func ContextOptions(cfg *config.RenderConfig) ssr.Options {
	return ssr.Options{
		ViewAttributes:         cfg.ViewAttributes,
		EnableCSSSelector:      cfg.EnableCSSSelector,
		RemoveCSSScope:         cfg.RemoveCSSScope,
		DefaultDisplayLinear:   cfg.DefaultDisplayLinear,
		DefaultOverflowVisible: cfg.DefaultOverflowVisible,
	}
}

// Page renders single page description into html file under dst and returns
// output file name.
func Page(ctx context.Context, src, dst string, overwrite bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("unable to read page description: %w", err)
	}
	d, err := page.Decode(data, filepath.Dir(src))
	if err != nil {
		return "", fmt.Errorf("%s: %w", src, err)
	}
	return renderPage(ctx, d, src, data, dst, overwrite)
}

func renderPage(ctx context.Context, d *page.Description, src string, data []byte, dst string, overwrite bool) (string, error) {
	env := state.EnvFromContext(ctx)
	start := time.Now()

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("unable to generate render id: %w", err)
	}
	log := env.Log.With(zap.Stringer("render", id))
	entry := env.EntryNameFor(d.EntryName)

	c := ssr.NewContext(ContextOptions(&env.Cfg.Render), log)
	root := page.NewBuilder(log).Build(c, d, entry)

	out, err := c.GenerateHTML(root)
	switch {
	case errors.Is(err, ssr.ErrPotentialXSS):
		log.Warn("Page rendered with unsafe elements skipped", zap.String("page", d.Name), zap.Error(err))
	case err != nil:
		return "", fmt.Errorf("unable to render page %s: %w", d.Name, err)
	}

	base := path.Base(filepath.ToSlash(src))
	name, err := outputPath(dst, &env.Cfg.Render, Values{
		Name:       d.Name,
		Entry:      entry,
		SourceFile: strings.TrimSuffix(base, path.Ext(base)),
		RenderID:   id.String(),
	})
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(name); err == nil && !overwrite {
		return "", fmt.Errorf("output file already exists: %s", name)
	}
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return "", fmt.Errorf("unable to create output directory: %w", err)
	}
	if err := os.WriteFile(name, []byte(out), 0644); err != nil {
		return "", fmt.Errorf("unable to write output: %w", err)
	}

	if env.Rpt != nil {
		prefix := "pages/" + id.String() + "/"
		env.Rpt.StoreData(prefix+"source"+path.Ext(base), data)
		env.Rpt.StoreData(prefix+"styles.txt", []byte(c.Styles().String()))
		env.Rpt.StoreData(prefix+"elements.txt", []byte(c.Dump(root)))
		env.Rpt.StoreData(prefix+filepath.Base(name), []byte(out))
	}

	log.Info("Page rendered",
		zap.String("page", d.Name),
		zap.String("source", src),
		zap.String("entry", entry),
		zap.String("to", name),
		zap.Int("elements", c.Len()),
		zap.Duration("elapsed", time.Since(start)))
	return name, nil
}

// Archive renders every page description found in zip archive src. Stylesheet
// files are looked up inside the archive. Failed pages do not stop
// processing, all errors are returned together.
func Archive(ctx context.Context, src, dst string, overwrite bool) (names []string, err error) {
	env := state.EnvFromContext(ctx)

	werr := archive.Walk(src, isPageDescription, func(_ string, fsys fs.FS, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		name, er := archiveEntry(ctx, fsys, f.Name, dst, overwrite)
		if er == nil {
			names = append(names, name)
			return nil
		}
		if errors.Is(er, context.Canceled) {
			return er
		}
		env.Log.Error("Unable to render page", zap.String("archive", src), zap.String("source", f.Name), zap.Error(er))
		err = multierr.Append(err, fmt.Errorf("%s: %w", f.Name, er))
		return nil
	})
	if werr != nil {
		err = multierr.Append(err, fmt.Errorf("unable to process archive: %w", werr))
	}
	return names, err
}

func archiveEntry(ctx context.Context, fsys fs.FS, src, dst string, overwrite bool) (string, error) {
	data, err := fs.ReadFile(fsys, src)
	if err != nil {
		return "", fmt.Errorf("unable to read page description: %w", err)
	}
	d, err := page.DecodeFS(data, fsys, path.Dir(src))
	if err != nil {
		return "", err
	}
	return renderPage(ctx, d, src, data, dst, overwrite)
}
