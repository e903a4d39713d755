package fetch

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/tengjizhang/bbopml/internal/model"
)

const summaryLimit = 280

// Target is a direct feed together with the guide it was found in.
type Target struct {
	Guide string
	Feed  *model.DirectFeed
}

// Targets lists the direct feeds of every guide in set, in order.
func Targets(set *model.GuideSet) []Target {
	if set == nil {
		return nil
	}
	var out []Target
	for _, g := range set.Guides {
		for _, f := range model.DirectFeeds(g.Feeds) {
			out = append(out, Target{Guide: g.Title, Feed: f})
		}
	}
	return out
}

type ProgressFn func(done, total int, result model.CheckResult)

// Checker probes direct feeds and reports whether they still parse.
type Checker struct {
	client      *Client
	renderer    *Renderer
	concurrency int
	log         *zap.Logger
}

func NewChecker(client *Client, renderer *Renderer, concurrency int, log *zap.Logger) *Checker {
	if log == nil {
		log = zap.NewNop()
	}
	if renderer == nil {
		renderer = NewRenderer()
	}
	return &Checker{
		client:      client,
		renderer:    renderer,
		concurrency: concurrency,
		log:         log,
	}
}

// Check returns one result per target, in target order.
func (c *Checker) Check(ctx context.Context, targets []Target, onResult ProgressFn) []model.CheckResult {
	results := make([]model.CheckResult, len(targets))
	total := len(targets)
	if total == 0 {
		return results
	}

	concurrency := c.concurrency
	if concurrency < 1 {
		concurrency = 8
	}
	if concurrency > total {
		concurrency = total
	}

	jobs := make(chan int)
	done := make(chan int, total)
	wg := sync.WaitGroup{}
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = c.checkSingle(ctx, targets[idx])
				done <- idx
			}
		}()
	}

	go func() {
		for i := range targets {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
		close(done)
	}()

	var finished int64
	for idx := range done {
		n := int(atomic.AddInt64(&finished, 1))
		if onResult != nil {
			onResult(n, total, results[idx])
		}
	}
	return results
}

func (c *Checker) checkSingle(ctx context.Context, target Target) model.CheckResult {
	result := model.CheckResult{
		Guide: target.Guide,
		URL:   target.Feed.XMLURL,
		Title: target.Feed.Title,
	}

	u, err := url.Parse(strings.TrimSpace(target.Feed.XMLURL))
	if err != nil || u.Scheme == "" {
		result.Error = "invalid feed url"
		return result
	}

	body, err := c.client.Fetch(ctx, u)
	if err != nil {
		c.log.Debug("feed fetch failed", zap.String("url", result.URL), zap.Error(err))
		result.Error = err.Error()
		return result
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		result.Error = err.Error()
		if alts := alternateFeeds(data, u); len(alts) > 0 {
			result.Alternate = alts[0]
		}
		return result
	}

	result.Title = fallback(strings.TrimSpace(parsed.Title), result.Title)
	result.Items = len(parsed.Items)
	result.Summary = c.renderer.Summarize(parsed.Description, summaryLimit)
	return result
}
