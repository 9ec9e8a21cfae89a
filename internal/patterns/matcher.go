package patterns

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/1F47E/onion-gen/internal/onion"
	"github.com/1F47E/onion-gen/pkg/config"
)

var (
	ErrEmptyPatterns = errors.New("no patterns given")
	ErrInvalidPrefix = errors.New("invalid prefix")
)

// Kind of a compiled matcher.
type Kind string

const (
	KindPrefix Kind = "prefix"
	KindRegexp Kind = "regexp"
)

// Matcher is the read-only predicate shared by all workers.
type Matcher interface {
	Match(addr string) bool
	Kind() Kind
	Patterns() []string
}

// PrefixMatcher matches when any configured prefix starts the address.
type PrefixMatcher struct {
	prefixes []string
}

// NewPrefix lowercases every prefix once. Prefixes are not validated here,
// see ValidatePrefix.
func NewPrefix(prefixes []string) (*PrefixMatcher, error) {
	if len(prefixes) == 0 {
		return nil, ErrEmptyPatterns
	}
	out := make([]string, len(prefixes))
	for i, p := range prefixes {
		out[i] = strings.ToLower(p)
	}
	return &PrefixMatcher{prefixes: out}, nil
}

func (m *PrefixMatcher) Match(addr string) bool {
	for _, p := range m.prefixes {
		if strings.HasPrefix(addr, p) {
			return true
		}
	}
	return false
}

func (m *PrefixMatcher) Kind() Kind { return KindPrefix }

func (m *PrefixMatcher) Patterns() []string { return append([]string(nil), m.prefixes...) }

// RegexpMatcher matches when any expression matches anywhere in the address.
// Addresses are always lowercase, so expressions are used as written.
type RegexpMatcher struct {
	src []string
	res []*regexp.Regexp
}

// NewRegexp compiles every expression and fails on the first bad one.
func NewRegexp(exprs []string) (*RegexpMatcher, error) {
	if len(exprs) == 0 {
		return nil, ErrEmptyPatterns
	}
	m := &RegexpMatcher{
		src: append([]string(nil), exprs...),
		res: make([]*regexp.Regexp, 0, len(exprs)),
	}
	for _, e := range exprs {
		re, err := regexp.Compile(e)
		if err != nil {
			return nil, fmt.Errorf("invalid regex %q: %w", e, err)
		}
		m.res = append(m.res, re)
	}
	return m, nil
}

func (m *RegexpMatcher) Match(addr string) bool {
	for _, re := range m.res {
		if re.MatchString(addr) {
			return true
		}
	}
	return false
}

func (m *RegexpMatcher) Kind() Kind { return KindRegexp }

func (m *RegexpMatcher) Patterns() []string { return append([]string(nil), m.src...) }

// New builds a prefix or regexp matcher. Prefixes are checked against the
// base32 alphabet first.
func New(list []string, regex bool) (Matcher, error) {
	if regex {
		return NewRegexp(list)
	}
	for _, p := range list {
		if err := ValidatePrefix(p); err != nil {
			return nil, err
		}
	}
	return NewPrefix(list)
}

// FromConfig builds a matcher from a loaded patterns file.
func FromConfig(cfg *config.PatternsConfig) (Matcher, error) {
	if cfg.Regex {
		return New(cfg.Regexp, true)
	}
	return New(cfg.Prefixes, false)
}

// ValidatePrefix reports the first character outside a-z, 2-7.
func ValidatePrefix(p string) error {
	lower := strings.ToLower(p)
	if lower == "" {
		return fmt.Errorf("%w: empty", ErrInvalidPrefix)
	}
	if len(lower) > onion.AddressLen {
		return fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidPrefix, p, onion.AddressLen)
	}
	for _, c := range lower {
		if !strings.ContainsRune(onion.Alphabet, c) {
			return fmt.Errorf("%w: %q contains %q which is not in base32 alphabet (a-z, 2-7)", ErrInvalidPrefix, p, c)
		}
	}
	return nil
}
