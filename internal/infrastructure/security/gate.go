// Package security implements the danger gate consulted before running commands.
package security

import (
	"strings"

	"github.com/doeshing/linux-agent/internal/domain"
	"github.com/doeshing/linux-agent/internal/ports"
)

// Gate matches commands against a literal substring deny-list.
// There is no word-boundary or argument awareness: "chmod 777 f" matches,
// "chmod -R 777 f" does not, and "dd" matches inside "address".
type Gate struct {
	patterns []string
}

// NewGate builds a gate from patterns; empty input selects the built-in deny-list.
func NewGate(patterns []string) *Gate {
	var cleaned []string
	for _, pattern := range patterns {
		if pattern != "" {
			cleaned = append(cleaned, pattern)
		}
	}
	if len(cleaned) == 0 {
		cleaned = append(cleaned, domain.DefaultDangerousPatterns...)
	}
	return &Gate{patterns: cleaned}
}

// IsDangerous implements ports.DangerGate.
func (g *Gate) IsDangerous(command string) bool {
	for _, pattern := range g.patterns {
		if strings.Contains(command, pattern) {
			return true
		}
	}
	return false
}

// Matches returns every pattern found in command, in deny-list order.
func (g *Gate) Matches(command string) []string {
	var hits []string
	for _, pattern := range g.patterns {
		if strings.Contains(command, pattern) {
			hits = append(hits, pattern)
		}
	}
	return hits
}

// Patterns returns a copy of the active deny-list.
func (g *Gate) Patterns() []string {
	return append([]string(nil), g.patterns...)
}

var _ ports.DangerGate = (*Gate)(nil)
