package domain

import (
	"sort"
	"strings"
)

// ContextSnapshot describes the host once at startup; it is read-only afterwards.
type ContextSnapshot struct {
	OS                string
	WorkingDir        string
	PackageManager    string
	CriticalServices  []string
	DiskUsage         string
	NetworkInterfaces []InterfaceAddress
	CPUCores          int
	MemoryTotal       string
	EnvironmentVars   map[string]string
}

// InterfaceAddress pairs a network interface with its first reported address.
type InterfaceAddress struct {
	Name    string
	Address string
}

// PackageManager identifiers.
const (
	PackageManagerApt = "apt"
	PackageManagerRPM = "rpm"
)

// EnvironmentSummary renders the captured variables as sorted KEY=value lines.
func (s ContextSnapshot) EnvironmentSummary() string {
	keys := make([]string, 0, len(s.EnvironmentVars))
	for key := range s.EnvironmentVars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+s.EnvironmentVars[key])
	}
	return strings.Join(parts, "\n")
}

// ServicesSummary renders the running critical services one per line.
func (s ContextSnapshot) ServicesSummary() string {
	return strings.Join(s.CriticalServices, "\n")
}

// NetworkSummary renders "name address" pairs one per line.
func (s ContextSnapshot) NetworkSummary() string {
	lines := make([]string, 0, len(s.NetworkInterfaces))
	for _, iface := range s.NetworkInterfaces {
		lines = append(lines, strings.TrimSpace(iface.Name+" "+iface.Address))
	}
	return strings.Join(lines, "\n")
}
