package selection

import (
	"context"
	"regexp"

	"github.com/go-nc/nc/internal/fsadapter"
	"github.com/go-nc/nc/internal/glob"
)

// DefaultResultCap bounds how many matches Find will yield before stopping
// itself, per spec.md §4.4 ("an upper result cap ... default ≥ 1,000").
const DefaultResultCap = 1000

// FindFlags configures one recursive find.
type FindFlags struct {
	Subdirs       bool
	Regex         bool
	CaseSensitive bool
	ResultCap     int // <= 0 uses DefaultResultCap
}

// FindResult is one streamed find hit, or a terminal error.
type FindResult struct {
	Path string
	Err  error
}

// Find traverses root breadth-first, yielding matches on the returned
// channel as they're discovered so the UI can display them incrementally
// (spec.md §4.4: "a lazy sequence of matching paths"). The channel is
// closed when traversal completes, the cancel token trips, or the result
// cap is reached. Find only uses Adapter.List, so it works against any
// Adapter implementation including test fakes.
func Find(ctx context.Context, adapter fsadapter.Adapter, root, pattern string, flags FindFlags, cancel *fsadapter.CancelToken) <-chan FindResult {
	out := make(chan FindResult)
	resultCap := flags.ResultCap
	if resultCap <= 0 {
		resultCap = DefaultResultCap
	}

	matcher, err := newMatcher(pattern, flags)
	if err != nil {
		go func() {
			out <- FindResult{Err: err}
			close(out)
		}()
		return out
	}

	go func() {
		defer close(out)
		queue := []string{root}
		count := 0
		for len(queue) > 0 {
			dir := queue[0]
			queue = queue[1:]

			select {
			case <-cancel.Done():
				return
			case <-ctx.Done():
				return
			default:
			}

			listing, err := adapter.List(ctx, dir, true)
			if err != nil {
				select {
				case out <- FindResult{Err: err}:
				case <-cancel.Done():
				case <-ctx.Done():
				}
				continue
			}
			for _, e := range listing.Entries {
				select {
				case <-cancel.Done():
					return
				case <-ctx.Done():
					return
				default:
				}
				if matcher(e.Name) {
					select {
					case out <- FindResult{Path: e.Path}:
						count++
					case <-cancel.Done():
						return
					case <-ctx.Done():
						return
					}
					if count >= resultCap {
						return
					}
				}
				if e.IsDir && flags.Subdirs {
					queue = append(queue, e.Path)
				}
			}
		}
	}()

	return out
}

func newMatcher(pattern string, flags FindFlags) (func(name string) bool, error) {
	if flags.Regex {
		reFlags := ""
		if !flags.CaseSensitive {
			reFlags = "(?i)"
		}
		re, err := regexp.Compile(reFlags + pattern)
		if err != nil {
			return nil, err
		}
		return re.MatchString, nil
	}
	return func(name string) bool {
		return glob.Match(name, pattern, flags.CaseSensitive)
	}, nil
}
