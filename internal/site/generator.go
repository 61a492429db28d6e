package site

import (
	"bytes"
	"log/slog"
	"path"
	"path/filepath"
	"time"

	"github.com/choreworld/choreworld.github.io/internal/catalog"
	"github.com/choreworld/choreworld.github.io/internal/config"
	"github.com/choreworld/choreworld.github.io/internal/rotation"
)

// Generator builds the whole site for the current week.
type Generator struct {
	cfg      config.SiteConfig
	resolver *rotation.Resolver
	renderer *Renderer
	logger   *slog.Logger
}

// NewGenerator wires a Generator with the embedded template set.
func NewGenerator(cfg config.SiteConfig, resolver *rotation.Resolver, logger *slog.Logger) (*Generator, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	return &Generator{
		cfg:      cfg,
		resolver: resolver,
		renderer: renderer,
		logger:   logger,
	}, nil
}

// Generate renders every page plus the hosting fixtures into a staging
// tree and publishes it over outputDir. On any failure the previous output
// is left exactly as it was.
func (g *Generator) Generate(outputDir string) error {
	// Step 1: Resolve the week once so every page agrees on the rotation.
	sunday, offset := g.resolver.CurrentWeek()
	g.logger.Info("building site",
		"week_of", g.resolver.FormatDate(sunday),
		"offset", offset,
		"output", outputDir)

	builder, err := NewBuilder(outputDir, g.cfg.ArchivePrevious, g.logger)
	if err != nil {
		return err
	}
	defer builder.Abort()

	// Step 2: Copy the static trees.
	for _, dir := range g.cfg.StaticDirs {
		if err := builder.CopyDir(dir, "/"+filepath.Base(dir)); err != nil {
			return err
		}
	}

	// Step 3: Hosting fixtures. The empty .nojekyll keeps GitHub Pages from
	// running the tree through Jekyll.
	if err := builder.WriteFile("/CNAME", []byte(g.cfg.Domain+"\n")); err != nil {
		return err
	}
	if err := builder.WriteFile("/.nojekyll", nil); err != nil {
		return err
	}

	// Step 4: Render one page per flat.
	for _, page := range Pages() {
		if err := g.renderPage(builder, page, sunday, offset); err != nil {
			return err
		}
	}

	// Step 5: Swap the staged tree into place.
	return builder.Publish()
}

func (g *Generator) renderPage(builder *Builder, page Page, sunday time.Time, offset int) error {
	cat, err := catalog.Load(filepath.Join(g.cfg.ConfigDir, page.Config))
	if err != nil {
		return err
	}

	assignments, err := rotation.AssignAll(cat, offset)
	if err != nil {
		return err
	}

	choresJSON, err := ChoresJSON(cat.Groups)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	rctx := RenderContext{
		Groups:             cat.Groups,
		Assignments:        assignments,
		CurrentWeekendDate: g.resolver.FormatDate(sunday),
		CurrentWeekendISO:  sunday.Format(rotation.DateLayout),
		CurrentOffset:      offset,
		ChoresJSON:         choresJSON,
	}
	if err := g.renderer.Render(&buf, page.Template, rctx); err != nil {
		return err
	}

	g.logger.Info("rendered page", "path", page.Path, "config", page.Config)
	return builder.WriteFile(path.Join(page.Path, "index.html"), buf.Bytes())
}
