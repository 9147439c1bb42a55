package post

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path"
	"slices"
	"sync"
	"time"

	"github.com/byte4ever/postrender/datefmt"
	"github.com/byte4ever/postrender/descriptor"
	"github.com/byte4ever/postrender/digester"
	"github.com/byte4ever/postrender/fault"
	"github.com/byte4ever/postrender/feed"
	"github.com/byte4ever/postrender/location"
	"github.com/byte4ever/postrender/machine"
	"github.com/byte4ever/postrender/paragraph"
	"github.com/byte4ever/postrender/stamper"
	"github.com/byte4ever/postrender/templating"
)

// DefaultFeedParagraphs is the number of body paragraphs a feed item
// carries when Config.FeedParagraphs is nil.
const DefaultFeedParagraphs = 3

// Config holds all settings of a generation run.
type Config struct {
	// In is the blog source tree: the descriptor, the templates and a
	// "posts" directory.
	In location.Location

	// Out is the output directory. It is created when missing.
	Out location.Location

	// Version is substituted for {version} and recorded in machine
	// output and feeds.
	Version string

	// Generator is the feed <generator> text.
	Generator string

	// Stamps are extra blog-wide variables, usable in output names and
	// as data-KEY placeholders. Descriptor data wins over stamps.
	Stamps map[string]string

	// FeedParagraphs limits the body paragraphs of feed items, nil
	// meaning DefaultFeedParagraphs. Zero or less leaves item bodies
	// empty.
	FeedParagraphs *int

	// Parallelism bounds the posts rendered at once, 1 if not positive.
	Parallelism int

	// Now is the clock of generation dates, time.Now if nil.
	Now func() time.Time

	// Location is the local zone of post and generation dates,
	// time.Local if nil.
	Location *time.Location
}

func (c Config) feedParagraphs() int {
	if c.FeedParagraphs == nil {
		return DefaultFeedParagraphs
	}

	return max(*c.FeedParagraphs, 0)
}

// Rendered is the outcome of generating one post.
type Rendered struct {
	Post    *Post
	Context *templating.Context

	// Output is the HTML path relative to the output directory.
	Output string

	// Body is the converted markdown without header and footer.
	Body []byte

	// Assets lists the copied asset paths relative to the output
	// directory.
	Assets []string

	// Center is the rendered index center, nil without an index page.
	Center []byte
}

// Run generates every post of the blog at cfg.In into cfg.Out, then the
// configured feeds and the index page.
func Run(ctx context.Context, cfg Config) error {
	const errCtx = "generating blog"

	// Step 1: Load the descriptor and the post templates.
	blog, err := descriptor.ReadBlog(cfg.In)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	gen, err := NewGenerator(cfg, blog)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	// Step 2: List the posts.
	dirs, err := List(blog.Root.Join("posts"))
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	slog.Info(
		"generating blog",
		"name", blog.Name,
		"posts", len(dirs),
		"out", cfg.Out.Display,
	)

	// Step 3: Render the posts with bounded concurrency.
	results, err := gen.generateAll(ctx, dirs)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	// Step 4: Write the feeds, newest post first.
	slices.SortStableFunc(results, func(a, b *Rendered) int {
		return cmp.Compare(b.Post.Number, a.Post.Number)
	})

	for _, kind := range slices.Sorted(maps.Keys(blog.Feeds)) {
		if err := gen.WriteFeed(kind, blog.Feeds[kind], results); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	// Step 5: Write the index page.
	if blog.Index != nil {
		if err := gen.WriteIndex(results); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}
	}

	return nil
}

// Generator renders the posts of one blog.
type Generator struct {
	cfg    Config
	blog   *descriptor.Blog
	engine *templating.Engine

	header string
	footer string

	index *indexTemplates
}

type indexTemplates struct {
	header string
	center string
	footer string
}

// NewGenerator reads the post templates of blog and, when it has an
// index page, the index templates.
func NewGenerator(cfg Config, blog *descriptor.Blog) (*Generator, error) {
	header, err := blog.Header.ReadText("post header")
	if err != nil {
		return nil, err
	}

	footer, err := blog.Footer.ReadText("post footer")
	if err != nil {
		return nil, err
	}

	g := &Generator{
		cfg:  cfg,
		blog: blog,
		engine: &templating.Engine{
			Version:  cfg.Version,
			Now:      cfg.Now,
			Location: cfg.Location,
		},
		header: header,
		footer: footer,
	}

	if blog.Index != nil {
		g.index = &indexTemplates{}

		for _, part := range []struct {
			dst *string
			loc location.Location
			who string
		}{
			{&g.index.header, blog.Index.Header, "index header"},
			{&g.index.center, blog.Index.Center, "index center"},
			{&g.index.footer, blog.Index.Footer, "index footer"},
		} {
			if *part.dst, err = part.loc.ReadText(part.who); err != nil {
				return nil, err
			}
		}
	}

	return g, nil
}

func (g *Generator) generateAll(
	ctx context.Context,
	dirs []location.Location,
) ([]*Rendered, error) {
	parallelism := g.cfg.Parallelism
	if parallelism <= 0 {
		parallelism = 1
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	results := make([]*Rendered, len(dirs))
	sem := make(chan struct{}, parallelism)

	for i, dir := range dirs {
		if ctx.Err() != nil {
			mu.Lock()
			errs = append(errs, ctx.Err())
			mu.Unlock()

			break
		}

		wg.Add(1)
		sem <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			r, genErr := g.Generate(dir)
			if genErr != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf(
					"post %s: %w", dir.Display, genErr,
				))
				mu.Unlock()

				return
			}

			results[i] = r
		}()
	}

	wg.Wait()

	if len(errs) > 0 {
		return nil, fmt.Errorf(
			"%d errors, first: %w", len(errs), errs[0],
		)
	}

	return results, nil
}

// Generate renders the post at dir: its HTML page, its assets and its
// machine-readable records.
func (g *Generator) Generate(dir location.Location) (*Rendered, error) {
	p, err := New(dir, g.cfg.Location)
	if err != nil {
		return nil, err
	}

	md, err := descriptor.ReadMetadata(p.Source)
	if err != nil {
		return nil, err
	}

	extraTags, err := descriptor.ReadTags(p.Source)
	if err != nil {
		return nil, err
	}

	output, err := stamper.OutputName(
		g.blog.OutputName, stamper.Merge(g.cfg.Stamps, p.StampVars()),
	)
	if err != nil {
		return nil, err
	}

	src, err := p.Source.Join("post.md").ReadText("post text")
	if err != nil {
		return nil, err
	}

	var rewrite func(string) string
	if g.blog.AssetDir != "" {
		rewrite = func(link string) string {
			file, ok := assetPath(link)
			if !ok {
				return link
			}

			return relativeLink(path.Dir(output), g.blog.AssetDir+file)
		}
	}

	body, links, err := convert([]byte(src), rewrite)
	if err != nil {
		return nil, err
	}

	rc := g.renderContext(p, md, extraTags, output)

	page, err := g.page(rc, body)
	if err != nil {
		return nil, err
	}

	written, err := digester.WriteIfChanged(g.cfg.Out.Join(output).Path, page)
	if err != nil {
		return nil, fault.NewIO("write", "post HTML", err)
	}

	slog.Debug("post page", "output", output, "written", written)

	r := &Rendered{
		Post:    p,
		Context: rc,
		Output:  output,
		Body:    body,
	}

	if r.Assets, err = g.copyAssets(p, output, links); err != nil {
		return nil, err
	}

	if g.index != nil {
		var center bytes.Buffer
		if err := g.engine.Render(g.index.center, rc, &center); err != nil {
			return nil, err
		}

		r.Center = center.Bytes()
	}

	if err := g.writeMachineData(p, rc); err != nil {
		return nil, err
	}

	return r, nil
}

func (g *Generator) renderContext(
	p *Post,
	md descriptor.Metadata,
	extraTags []string,
	output string,
) *templating.Context {
	lang := cmp.Or(md.Language, g.blog.Language, descriptor.DefaultLanguage())
	author := cmp.Or(md.Author, g.blog.Author, os.Getenv("USER"))

	return &templating.Context{
		Output:      output,
		BlogName:    g.blog.Name,
		Language:    lang,
		Author:      author,
		Title:       p.Name,
		RawPostName: p.RawName(),
		Number:      p.Number,
		PostDate:    datefmt.Normalize(p.Date),
		GlobalData:  stamper.Merge(g.cfg.Stamps, g.blog.Data),
		LocalData:   md.Data,
		Tags:        slices.Concat(md.Tags, extraTags),
		Styles:      slices.Concat(g.blog.Styles, md.Styles),
		Scripts:     slices.Concat(g.blog.Scripts, md.Scripts),
	}
}

// page renders the header template, the body and the footer template.
func (g *Generator) page(rc *templating.Context, body []byte) ([]byte, error) {
	var buf bytes.Buffer

	if err := g.engine.Render(g.header, rc, &buf); err != nil {
		return nil, err
	}

	buf.Write(body)

	if err := g.engine.Render(g.footer, rc, &buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// copyAssets copies the files behind the asset links of a post, either
// next to its page or into the blog asset directory. Links to files that
// do not exist, or that lead out of the post or output directory, are
// left alone.
func (g *Generator) copyAssets(
	p *Post,
	output string,
	links []string,
) ([]string, error) {
	var copied []string

	base := path.Dir(output)
	if g.blog.AssetDir != "" {
		base = g.blog.AssetDir
	}

	for _, link := range links {
		if !IsAssetLink(link) {
			continue
		}

		file, ok := assetPath(link)
		if !ok {
			continue
		}

		if !localPath(file) {
			slog.Warn("asset outside post directory", "post", p.RawName(), "link", link)

			continue
		}

		rel := path.Join(base, file)
		if !localPath(rel) {
			slog.Warn("asset outside output directory", "post", p.RawName(), "path", rel)

			continue
		}

		src := p.Source.Join(file)

		st, err := os.Stat(src.Path)
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("asset not found", "post", p.RawName(), "link", link)

			continue
		}

		if err != nil {
			return nil, fault.NewIO("stat", "asset", err)
		}

		if st.IsDir() {
			continue
		}

		written, err := digester.CopyIfChanged(
			src.Path, g.cfg.Out.Join(rel).Path,
		)
		if err != nil {
			return nil, fault.NewIO("copy", "asset", err)
		}

		slog.Debug("asset", "path", rel, "written", written)

		copied = append(copied, rel)
	}

	return copied, nil
}

func (g *Generator) writeMachineData(p *Post, rc *templating.Context) error {
	for _, kind := range slices.Sorted(maps.Keys(g.blog.MachineData)) {
		var buf bytes.Buffer

		if err := kind.Write(
			&buf, rc,
			machine.WithClock(g.cfg.Now),
			machine.WithLocation(g.cfg.Location),
			machine.WithVersion(g.cfg.Version),
		); err != nil {
			return err
		}

		rel := path.Join(
			g.blog.MachineData[kind],
			p.NormalisedName()+"."+kind.Extension(),
		)

		if _, err := digester.WriteIfChanged(
			g.cfg.Out.Join(rel).Path, buf.Bytes(),
		); err != nil {
			return fault.NewIO("write", kind.Name()+" machine output", err)
		}
	}

	return nil
}

// WriteFeed writes the feed of kind to file below the output directory,
// one item per rendered post in the given order.
func (g *Generator) WriteFeed(
	kind feed.Kind,
	file string,
	posts []*Rendered,
) error {
	fw, err := kind.Writer(feed.Config{
		Output:    file,
		Generator: g.cfg.Generator,
		Now:       g.cfg.Now,
		Location:  g.cfg.Location,
	})
	if err != nil {
		return err
	}

	var buf bytes.Buffer

	if err := fw.Header(&buf, feed.Channel{
		Title:    g.blog.Name,
		Author:   cmp.Or(g.blog.Author, os.Getenv("USER")),
		Language: cmp.Or(g.blog.Language, descriptor.DefaultLanguage()),
	}); err != nil {
		return err
	}

	for _, r := range posts {
		if err := g.feedItem(fw, &buf, r); err != nil {
			return err
		}
	}

	if err := fw.Footer(&buf); err != nil {
		return err
	}

	written, err := digester.WriteIfChanged(g.cfg.Out.Join(file).Path, buf.Bytes())
	if err != nil {
		return fault.NewIO("write", kind.Name()+" feed", err)
	}

	slog.Info("feed", "kind", kind.Name(), "file", file, "written", written)

	return nil
}

func (g *Generator) feedItem(fw feed.Writer, buf *bytes.Buffer, r *Rendered) error {
	if err := fw.ItemHeader(buf, feed.Item{
		Title:  r.Post.Name,
		GUID:   r.Post.NormalisedName(),
		Author: r.Context.Author,
		Link:   r.Output,
		Date:   r.Context.PostDate,
	}); err != nil {
		return err
	}

	lim := paragraph.NewLimiter(fw.ItemBody(buf), g.cfg.feedParagraphs())

	if _, err := lim.Write(r.Body); err != nil {
		return fault.Write(r.Output+" feed summary", err)
	}

	if err := lim.Flush(); err != nil {
		return fault.Write(r.Output+" feed summary", err)
	}

	return fw.ItemFooter(buf)
}

// IndexFile is the index page path below the output directory.
const IndexFile = "index.html"

// WriteIndex writes the index page: its header, the center of every
// rendered post in the configured order, then its footer.
func (g *Generator) WriteIndex(posts []*Rendered) error {
	if g.index == nil {
		return errors.New("writing index: blog has no index page")
	}

	ordered := slices.Clone(posts)
	slices.SortStableFunc(ordered, func(a, b *Rendered) int {
		if g.blog.Index.Order == descriptor.Backward {
			return cmp.Compare(b.Post.Number, a.Post.Number)
		}

		return cmp.Compare(a.Post.Number, b.Post.Number)
	})

	rc := g.indexContext(ordered)

	var buf bytes.Buffer

	if err := g.engine.Render(g.index.header, rc, &buf); err != nil {
		return err
	}

	for _, r := range ordered {
		buf.Write(r.Center)
	}

	if err := g.engine.Render(g.index.footer, rc, &buf); err != nil {
		return err
	}

	written, err := digester.WriteIfChanged(g.cfg.Out.Join(IndexFile).Path, buf.Bytes())
	if err != nil {
		return fault.NewIO("write", "index page", err)
	}

	slog.Info(
		"index",
		"posts", len(ordered),
		"order", g.blog.Index.Order,
		"written", written,
	)

	return nil
}

// indexContext is the blog-level context of the index header and
// footer. Its number is the post count and its date the newest post's.
func (g *Generator) indexContext(posts []*Rendered) *templating.Context {
	rc := &templating.Context{
		Output:     IndexFile,
		BlogName:   g.blog.Name,
		Language:   cmp.Or(g.blog.Language, descriptor.DefaultLanguage()),
		Author:     cmp.Or(g.blog.Author, os.Getenv("USER")),
		Title:      g.blog.Name,
		Number:     len(posts),
		GlobalData: stamper.Merge(g.cfg.Stamps, g.blog.Data),
		LocalData:  g.blog.Index.Data,
		Styles:     slices.Concat(g.blog.Styles, g.blog.Index.Styles),
		Scripts:    slices.Concat(g.blog.Scripts, g.blog.Index.Scripts),
	}

	for _, r := range posts {
		if d := r.Context.PostDate; d.After(rc.PostDate) {
			rc.PostDate = d
		}
	}

	return rc
}
