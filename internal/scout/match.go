package prowl

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// Match describes one file entry offered to the sink. It is constructed per
// entry and not retained.
type Match struct {
	Path string // Full path to the file
	Name string // Base name of the file
}

// MatchFunc reports whether a base name satisfies a pattern.
// Implementations must be safe for concurrent use.
type MatchFunc func(pattern, name string) (bool, error)

// Glob matches with shell glob semantics. Wildcards never cross a path
// separator, so a pattern only ever matches within one name component.
func Glob(pattern, name string) (bool, error) {
	return filepath.Match(pattern, name)
}

// Regexp compiles expr into a MatchFunc that tests base names against it,
// ignoring the configured glob pattern. The expression is NFC-normalized
// before compiling so that composed and decomposed forms compare equal.
func Regexp(expr string) (MatchFunc, error) {
	re, err := regexp.Compile(norm.NFC.String(expr))
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %w", err)
	}
	return func(_, name string) (bool, error) {
		return re.MatchString(norm.NFC.String(name)), nil
	}, nil
}

// sink applies the configured predicate to each offered entry and writes the
// full path of every match, one per line. The writer lock keeps a line from
// one worker from splicing into a line from another; ordering across workers
// is unspecified.
type sink struct {
	mu      sync.Mutex
	out     io.Writer
	pattern string
	match   MatchFunc
	matched *int64
	log     *zap.Logger
}

func (s *sink) offer(m Match) {
	ok, err := s.match(s.pattern, m.Name)
	if err != nil {
		s.log.Debug("match error", zap.String("path", m.Path), zap.Error(err))
		return
	}
	if !ok {
		s.log.Debug("no match", zap.String("pattern", s.pattern), zap.String("path", m.Path))
		return
	}
	atomic.AddInt64(s.matched, 1)
	s.mu.Lock()
	fmt.Fprintln(s.out, m.Path)
	s.mu.Unlock()
}
