package soup

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha1"
	"crypto/tls"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/niklasfasching/qs/util"
	"golang.org/x/time/rate"
)

// Cache stores successful responses. Get returns a nil response (and a nil or
// os.ErrNotExist error) on a miss.
type Cache interface {
	Key(*http.Request) (string, error)
	Get(string, *http.Request) (*http.Response, error)
	Set(string, *http.Request, *http.Response) error
}

type Transport struct {
	Transport   http.RoundTripper
	RetryCount  int
	RetryDelay  time.Duration
	RateLimiter *rate.Limiter
	Cache       Cache
	UserAgent   string
	OnReq       func(*http.Request)
}

type FileCache struct{ Root string }

var DefaultClient = Transport{Cache: &FileCache{"http"}}.Client()
var invalidFileNameChars = regexp.MustCompile(`[^-_0-9a-zA-Z]+`)

func (t Transport) Client() *http.Client {
	if t.Transport == nil {
		// some websites block via low tls verions (go defaults to 1.2)
		t.Transport = &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS13},
		}
	}
	return &http.Client{Transport: &t}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, k := req.Context(), ""
	if t.Cache != nil {
		key, err := t.Cache.Key(req)
		if err != nil {
			return nil, err
		}
		k = key
		if res, err := t.Cache.Get(k, req); res != nil || (err != nil && !os.IsNotExist(err)) {
			util.Debugf(ctx, "cache hit: %s %s", req.Method, req.URL)
			return res, err
		}
	}
	if t.OnReq != nil {
		t.OnReq(req)
	}
	if t.UserAgent != "" {
		req.Header.Set("User-Agent", t.UserAgent)
	}
	res, err := util.RetryContext(ctx, func(ctx context.Context) (*http.Response, error) {
		if t.RateLimiter != nil {
			if err := t.RateLimiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		util.Debugf(ctx, "%s %s", req.Method, req.URL)
		res, err := t.Transport.RoundTrip(req)
		if err != nil {
			return nil, err
		} else if res.StatusCode >= 400 {
			res.Body.Close()
			return nil, fmt.Errorf("%s %s: status: %d", req.Method, req.URL, res.StatusCode)
		}
		return res, nil
	}, t.RetryCount, t.RetryDelay)
	if err != nil {
		return nil, err
	}
	if t.Cache != nil {
		if err := t.Cache.Set(k, req, res); err != nil {
			util.Errorf(ctx, "Cache.Set %s: %s", req.URL, err)
		}
	}
	return res, nil
}

// requestKey is a readable prefix followed by a hash of method, url and body.
// It restores req.Body after reading it.
func requestKey(req *http.Request) (string, error) {
	key := fmt.Sprintf("%s_%s_%s", req.Method, req.URL.Host, req.URL.Path)
	key = invalidFileNameChars.ReplaceAllString(key, "_")
	if len(key) > 40 {
		key = key[:40]
	}
	hash := sha1.New()
	hash.Write([]byte(req.Method + "::" + req.URL.String()))
	if req.Body != nil {
		bs, err := io.ReadAll(req.Body)
		if err != nil {
			return "", err
		}
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(bs))
		hash.Write(bs)
	}
	return key + hex.EncodeToString(hash.Sum(nil)), nil
}

// dumpResponse serializes res prefixed by the unescaped request url. res.Body
// stays readable.
func dumpResponse(req *http.Request, res *http.Response) ([]byte, error) {
	bs, err := httputil.DumpResponse(res, true)
	if err != nil {
		return nil, err
	}
	u, err := url.PathUnescape(req.URL.String())
	if err != nil {
		u = req.URL.String()
	}
	return append([]byte(u+"\n"), bs...), nil
}

func readResponse(bs []byte, req *http.Request) (*http.Response, error) {
	vs := bytes.SplitN(bs, []byte("\n"), 2)
	if len(vs) != 2 {
		return nil, fmt.Errorf("invalid cache entry")
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(vs[1])), req)
}

func (c *FileCache) Key(req *http.Request) (string, error) {
	k, err := requestKey(req)
	return filepath.Join(c.Root, k), err
}

func (c *FileCache) Get(k string, req *http.Request) (*http.Response, error) {
	bs, err := os.ReadFile(k)
	if err != nil {
		return nil, err
	}
	return readResponse(bs, req)
}

func (c *FileCache) Set(k string, req *http.Request, res *http.Response) error {
	bs, err := dumpResponse(req, res)
	if err != nil {
		return err
	}
	return errors.Join(os.MkdirAll(c.Root, 0755), os.WriteFile(k, bs, 0644))
}
