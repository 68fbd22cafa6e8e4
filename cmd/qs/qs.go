package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/niklasfasching/qs/sel"
	"github.com/niklasfasching/qs/soup"
	"github.com/niklasfasching/qs/util"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

type Config struct {
	UserAgent  string
	Cache      string
	Retries    int
	RetryDelay string
	RPS        float64
	Parallel   int
	LogLevel   string
}

type Match struct {
	Source     string            `json:"source" yaml:"source"`
	Tag        string            `json:"tag" yaml:"tag"`
	ID         string            `json:"id,omitempty" yaml:"id,omitempty"`
	Classes    []string          `json:"classes,omitempty" yaml:"classes,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"` // includes id and class
	Text       string            `json:"text" yaml:"text"`
	HTML       string            `json:"html" yaml:"html"`
}

var formats = []string{"html", "text", "yaml", "json"}

var usage = `usage: qs [flags] <selector> [file|url|- ...]

selectors are whitespace separated #id, .class, tag or tag?[key(=value)?] parts.
without inputs the document is read from stdin. defaults can be set via QS_* env vars
(QS_USER_AGENT, QS_CACHE, QS_RETRIES, QS_RETRY_DELAY, QS_RPS, QS_PARALLEL, QS_LOG_LEVEL).

flags:
`

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := Config{Cache: "-", RetryDelay: "1s", Parallel: 4, LogLevel: "WARN"}
	if err := util.LoadConfig("QS", &c); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	fs := flag.NewFlagSet("qs", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage); fs.PrintDefaults() }
	format := fs.String("f", "html", "output format: html, text, yaml or json")
	attr := fs.String("a", "", "print the value of this attribute for each match")
	within := fs.String("within", "", "only search below the matches of this selector (results stay in document order)")
	strictID := fs.Bool("strict-id", false, "do not resolve #ids outside of the -within matches")
	fs.StringVar(&c.Cache, "cache", c.Cache, "http cache: a directory, sqlite:<path> or - for none")
	fs.IntVar(&c.Retries, "retries", c.Retries, "http retries")
	fs.Float64Var(&c.RPS, "rps", c.RPS, "max http requests per second (0: unlimited)")
	fs.StringVar(&c.UserAgent, "ua", c.UserAgent, "http user agent")
	fs.IntVar(&c.Parallel, "p", c.Parallel, "max inputs loaded in parallel")
	fs.StringVar(&c.LogLevel, "v", c.LogLevel, "log level: DEBUG, INFO, WARN or ERROR")
	if err := fs.Parse(args); err != nil {
		return 2
	} else if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	ctx = util.WithLogger(ctx, util.WithLvl(util.ParseLvl(c.LogLevel), util.Writer(stderr)))
	if !slices.Contains(formats, *format) {
		util.Errorf(ctx, "bad format: %q", *format)
		return 2
	}

	s, err := sel.Compile(fs.Arg(0))
	if err != nil {
		util.Errorf(ctx, "%s", err)
		return 2
	}
	contexts := sel.Selector(nil)
	if *within != "" {
		if contexts, err = sel.Compile(*within); err != nil {
			util.Errorf(ctx, "-within: %s", err)
			return 2
		}
	}
	inputs := fs.Args()[1:]
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	client, closeClient, err := newClient(c)
	if err != nil {
		util.Errorf(ctx, "%s", err)
		return 1
	}
	defer closeClient()
	docs, err := loadAll(ctx, client, stdin, inputs, c.Parallel)
	if err != nil {
		util.Errorf(ctx, "%s", err)
		return 1
	}

	e, matches := sel.Engine{StrictIDScope: *strictID}, []Match{}
	for i, d := range docs {
		roots := soup.Nodes{d}
		if contexts != nil {
			roots = d.AllSel(contexts)
		}
		ns := roots.QuerySel(e, s)
		util.Infof(ctx, "%s: %d matches for %q", inputs[i], len(ns), s)
		for _, n := range ns {
			matches = append(matches, newMatch(inputs[i], n))
		}
	}
	if err := write(stdout, *format, *attr, matches); err != nil {
		util.Errorf(ctx, "%s", err)
		return 1
	}
	return 0
}

func newClient(c Config) (*http.Client, func() error, error) {
	delay, err := time.ParseDuration(c.RetryDelay)
	if err != nil {
		return nil, nil, fmt.Errorf("bad retry delay: %w", err)
	}
	t, closeCache := soup.Transport{RetryCount: c.Retries, RetryDelay: delay, UserAgent: c.UserAgent}, func() error { return nil }
	if c.RPS > 0 {
		t.RateLimiter = rate.NewLimiter(rate.Limit(c.RPS), 1)
	}
	switch {
	case c.Cache == "-" || c.Cache == "":
	case strings.HasPrefix(c.Cache, "sqlite:"):
		cache, err := soup.NewSQLiteCache(strings.TrimPrefix(c.Cache, "sqlite:"))
		if err != nil {
			return nil, nil, err
		}
		t.Cache, closeCache = cache, cache.Close
	default:
		t.Cache = &soup.FileCache{Root: c.Cache}
	}
	return t.Client(), closeCache, nil
}

// loadAll loads inputs concurrently. stdin is read once up front, every "-"
// parses its own copy of it.
func loadAll(ctx context.Context, client *http.Client, stdin io.Reader, inputs []string, parallel int) ([]*soup.Node, error) {
	docs, stdinBytes := make([]*soup.Node, len(inputs)), []byte(nil)
	if slices.Contains(inputs, "-") {
		bs, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("-: %w", err)
		}
		stdinBytes = bs
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(parallel, 1))
	for i, in := range inputs {
		g.Go(func() error {
			d, err := load(ctx, client, stdinBytes, in)
			if err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			util.Debugf(ctx, "loaded %s", in)
			docs[i] = d
			return nil
		})
	}
	return docs, g.Wait()
}

func load(ctx context.Context, client *http.Client, stdin []byte, in string) (*soup.Node, error) {
	switch {
	case in == "-":
		return soup.Parse(bytes.NewReader(stdin))
	case strings.HasPrefix(in, "http://") || strings.HasPrefix(in, "https://"):
		return soup.LoadContext(ctx, client, in)
	default:
		f, err := os.Open(in)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return soup.Parse(f)
	}
}

func newMatch(source string, n *soup.Node) Match {
	m := Match{
		Source:  source,
		Tag:     n.TagName(),
		ID:      n.ID(),
		Classes: n.Classes(),
		Text:    n.TrimmedText(),
		HTML:    n.OuterHTML(),
	}
	for _, a := range n.Attr {
		if m.Attributes == nil {
			m.Attributes = map[string]string{}
		}
		m.Attributes[a.Key] = a.Val
	}
	return m
}

func write(w io.Writer, format, attr string, matches []Match) error {
	switch {
	case attr != "":
		for _, m := range matches {
			if v, ok := m.Attributes[attr]; ok {
				fmt.Fprintln(w, v)
			}
		}
		return nil
	case format == "html":
		for _, m := range matches {
			fmt.Fprintln(w, m.HTML)
		}
		return nil
	case format == "text":
		for _, m := range matches {
			fmt.Fprintln(w, m.Text)
		}
		return nil
	case format == "yaml":
		bs, err := yaml.Marshal(matches)
		if err != nil {
			return err
		}
		_, err = w.Write(bs)
		return err
	case format == "json":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	default:
		return errors.New("bad format: " + format)
	}
}
