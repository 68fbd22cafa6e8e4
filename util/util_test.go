package util

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLogger(t *testing.T) {
	out, ctx := &bytes.Buffer{}, context.Background()
	Infof(ctx, "dropped without logger")
	ctx = WithLogger(ctx, WithLvl(INFO, Writer(out)))
	Debugf(ctx, "dropped below lvl")
	Infof(ctx, "resolved %d nodes", 3)
	Errorf(ctx, "failed: %s\n", "x")
	if actual, expected := out.String(), "[INFO] resolved 3 nodes\n[ERROR] failed: x\n"; actual != expected {
		t.Errorf("got %q, expected %q", actual, expected)
	}
	for s, expected := range map[string]Lvl{"error": ERROR, "WARNING": WARN, "Info": INFO, "": DEBUG} {
		if actual := ParseLvl(s); actual != expected {
			t.Errorf("%q: got %s, expected %s", s, actual, expected)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	type config struct {
		UserAgent string
		Retries   int
		RPS       float64
		Tags      []string
		Token     string `required:"true"`
		private   string
	}
	c := config{UserAgent: "default", Retries: 1, private: "x"}
	if err := LoadConfig("TEST", &c); err == nil || !strings.Contains(err.Error(), "TEST_TOKEN") {
		t.Errorf("got %v, expected missing TEST_TOKEN error", err)
	}
	t.Setenv("TEST_TOKEN", "secret")
	t.Setenv("TEST_RETRIES", "3")
	t.Setenv("TEST_RPS", "0.5")
	t.Setenv("TEST_TAGS", `["a", "b"]`)
	if err := LoadConfig("TEST", &c); err != nil {
		t.Fatal(err)
	}
	if c.UserAgent != "default" || c.Retries != 3 || c.RPS != 0.5 || strings.Join(c.Tags, ",") != "a,b" || c.Token != "secret" || c.private != "x" {
		t.Errorf("got %#v", c)
	}
	t.Setenv("TEST_RETRIES", "three")
	if err := LoadConfig("TEST", &c); err == nil {
		t.Errorf("expected unmarshal error")
	}
	if actual := EnvKey("", "RetryDelay"); actual != "RETRY_DELAY" {
		t.Errorf("got %q, expected RETRY_DELAY", actual)
	}
}

func TestRetry(t *testing.T) {
	calls := 0
	v, err := Retry(func() (int, error) {
		if calls++; calls < 3 {
			return 0, errors.New("not yet")
		}
		return calls, nil
	}, 5, time.Millisecond)
	if err != nil || v != 3 {
		t.Errorf("got %d %v, expected 3", v, err)
	}

	calls, fail := 0, errors.New("fail")
	_, err = Retry(func() (int, error) { calls++; return 0, fail }, 2, time.Millisecond)
	if !errors.Is(err, fail) || calls != 3 {
		t.Errorf("got %v after %d calls, expected fail after 3", err, calls)
	}

	calls = 0
	v, err = Retry(func() (int, error) { calls++; return 42, nil }, -1, time.Millisecond)
	if err != nil || v != 42 || calls != 1 {
		t.Errorf("got %d %v after %d calls, expected 42 after 1 call", v, err, calls)
	}
	calls = 0
	_, err = Retry(func() (int, error) { calls++; return 0, fail }, -3, time.Millisecond)
	if err != fail || calls != 1 {
		t.Errorf("got %v after %d calls, expected unwrapped fail after 1 call", err, calls)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = RetryContext(ctx, func(context.Context) (int, error) { return 0, fail }, 2, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, expected context.Canceled", err)
	}
}
