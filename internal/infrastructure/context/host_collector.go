package contextcollector

import (
	"bufio"
	"context"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/doeshing/linux-agent/internal/domain"
	"github.com/doeshing/linux-agent/internal/ports"
)

const (
	osReleaseQuery = `cat /etc/os-release | grep PRETTY_NAME | cut -d'"' -f2`
	servicesQuery  = `systemctl list-units --type=service --state=running --no-legend | grep -E '(ssh|nginx|apache|postgres|mysql)' | cut -d' ' -f1`
	diskQuery      = `df -h --output=source,pcent,target | grep -v snap`
	networkQuery   = `ip -brief address`
)

// HostCollector captures the host snapshot through shell probes and /proc.
type HostCollector struct {
	prober      ports.Prober
	workDir     string
	envKeys     []string
	aptPath     string
	meminfoPath string
}

// NewHostCollector builds a collector for the given working directory.
func NewHostCollector(prober ports.Prober, workDir string) *HostCollector {
	return &HostCollector{
		prober:      prober,
		workDir:     workDir,
		envKeys:     []string{"PATH", "USER", "HOME", "LANG"},
		aptPath:     "/usr/bin/apt",
		meminfoPath: "/proc/meminfo",
	}
}

// Collect implements ports.ContextCollector. Failed queries leave fields empty.
func (c *HostCollector) Collect(ctx context.Context) domain.ContextSnapshot {
	return domain.ContextSnapshot{
		OS:                c.prober.Output(ctx, osReleaseQuery),
		WorkingDir:        c.workDir,
		PackageManager:    c.packageManager(),
		CriticalServices:  splitLines(c.prober.Output(ctx, servicesQuery)),
		DiskUsage:         c.prober.Output(ctx, diskQuery),
		NetworkInterfaces: parseInterfaces(c.prober.Output(ctx, networkQuery)),
		CPUCores:          runtime.NumCPU(),
		MemoryTotal:       c.memoryTotal(),
		EnvironmentVars:   c.environment(),
	}
}

func (c *HostCollector) packageManager() string {
	if _, err := os.Stat(c.aptPath); err == nil {
		return domain.PackageManagerApt
	}
	return domain.PackageManagerRPM
}

// memoryTotal reads MemTotal (kB) from /proc/meminfo and renders it like "15 GiB".
func (c *HostCollector) memoryTotal() string {
	file, err := os.Open(c.meminfoPath)
	if err != nil {
		return ""
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || fields[0] != "MemTotal:" {
			continue
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return ""
		}
		return humanize.IBytes(kb * 1024)
	}
	return ""
}

func (c *HostCollector) environment() map[string]string {
	env := make(map[string]string, len(c.envKeys))
	for _, key := range c.envKeys {
		value, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		env[key] = redact(value)
	}
	return env
}

func redact(value string) string {
	if len(value) > domain.EnvValueLimit {
		return "[...]"
	}
	return value
}

// parseInterfaces keeps the name and first address column of `ip -brief address`.
func parseInterfaces(output string) []domain.InterfaceAddress {
	var result []domain.InterfaceAddress
	for _, line := range splitLines(output) {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		entry := domain.InterfaceAddress{Name: fields[0]}
		if len(fields) >= 3 {
			entry.Address = fields[2]
		}
		result = append(result, entry)
	}
	return result
}

func splitLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

var _ ports.ContextCollector = (*HostCollector)(nil)
