package engine

import (
	"fmt"
	"strings"
)

// Kind selects the HTTP engine an application is built on.
type Kind string

const (
	Gin   Kind = "gin"   // primary engine, used when nothing else is configured
	Fiber Kind = "fiber" // alternate engine
)

const (
	aliasPrimary   = "primary"
	aliasAlternate = "alternate"
)

// ParseKind maps a configured engine name onto a Kind. The names "primary" and
// "alternate" are accepted as aliases of Gin and Fiber.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Gin), aliasPrimary:
		return Gin, nil
	case string(Fiber), aliasAlternate:
		return Fiber, nil
	default:
		return "", fmt.Errorf("engine: unrecognized engine: %q", s)
	}
}

func (k Kind) String() string {
	return string(k)
}
