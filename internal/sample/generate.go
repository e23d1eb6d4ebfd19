// SPDX-FileCopyrightText: 2026 SentinelSoft Security Labs
// SPDX-License-Identifier: Apache-2.0

// Package sample builds a deterministic demo inventory: a 40-server fleet
// (30 Windows, 10 Linux) with vulnerabilities drawn from a pool of
// well-known CVEs, plus matching threat-intel scores. The same seed always
// produces the same inventory.
package sample

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sentinelsoft/riskcalc/internal/input"
	"github.com/sentinelsoft/riskcalc/internal/types"
)

const (
	windowsServerCount = 30
	linuxServerCount   = 10
)

type role struct {
	code        string
	criticality types.Criticality
}

var windowsRoles = []role{
	{"DC", types.CriticalityMissionCritical},
	{"SQL", types.CriticalityMissionCritical},
	{"EXCH", types.CriticalityMissionCritical},
	{"WEB", types.CriticalityHigh},
	{"APP", types.CriticalityHigh},
	{"FILE", types.CriticalityMedium},
	{"PRINT", types.CriticalityLow},
}

var linuxRoles = []role{
	{"WEB", types.CriticalityHigh},
	{"DB", types.CriticalityMissionCritical},
	{"APP", types.CriticalityHigh},
	{"LOG", types.CriticalityMedium},
}

var locations = []string{"DC-1", "DC-2", "AWS us-east-1"}

// cve is a pool entry. intelScore is the exploited-in-the-wild score the
// generator emits for it; zero means no intel record.
type cve struct {
	id          string
	title       string
	severity    types.Severity
	cvss        float64
	vector      types.AttackVector
	exploit     bool
	public      bool
	active      bool
	patch       bool
	published   string
	windowsOnly bool
	linuxOnly   bool
	intelScore  float64
}

var cvePool = []cve{
	{id: "CVE-2017-0144", title: "SMBv1 remote code execution (EternalBlue)", severity: types.SeverityCritical, cvss: 8.1, vector: types.VectorNetwork, exploit: true, public: true, active: true, patch: true, published: "2017-03-14", windowsOnly: true, intelScore: 0.97},
	{id: "CVE-2019-0708", title: "RDP remote code execution (BlueKeep)", severity: types.SeverityCritical, cvss: 9.8, vector: types.VectorNetwork, exploit: true, public: true, patch: true, published: "2019-05-14", windowsOnly: true, intelScore: 0.9},
	{id: "CVE-2020-1472", title: "Netlogon privilege escalation (Zerologon)", severity: types.SeverityCritical, cvss: 10.0, vector: types.VectorNetwork, exploit: true, public: true, active: true, patch: true, published: "2020-08-11", windowsOnly: true, intelScore: 0.95},
	{id: "CVE-2021-34527", title: "Print Spooler remote code execution (PrintNightmare)", severity: types.SeverityCritical, cvss: 8.8, vector: types.VectorNetwork, exploit: true, public: true, patch: true, published: "2021-07-01", windowsOnly: true, intelScore: 0.85},
	{id: "CVE-2021-26855", title: "Exchange Server SSRF (ProxyLogon)", severity: types.SeverityCritical, cvss: 9.8, vector: types.VectorNetwork, exploit: true, public: true, active: true, patch: true, published: "2021-03-02", windowsOnly: true, intelScore: 0.96},
	{id: "CVE-2022-30190", title: "MSDT remote code execution (Follina)", severity: types.SeverityHigh, cvss: 7.8, vector: types.VectorLocal, exploit: true, public: true, patch: true, published: "2022-05-30", windowsOnly: true, intelScore: 0.8},
	{id: "CVE-2023-23397", title: "Outlook elevation of privilege", severity: types.SeverityCritical, cvss: 9.8, vector: types.VectorNetwork, exploit: true, active: true, patch: true, published: "2023-03-14", windowsOnly: true, intelScore: 0.88},
	{id: "CVE-2021-44228", title: "Log4j JNDI remote code execution (Log4Shell)", severity: types.SeverityCritical, cvss: 10.0, vector: types.VectorNetwork, exploit: true, public: true, active: true, patch: true, published: "2021-12-10", intelScore: 0.97},
	{id: "CVE-2023-44487", title: "HTTP/2 rapid reset denial of service", severity: types.SeverityHigh, cvss: 7.5, vector: types.VectorNetwork, exploit: true, public: true, patch: true, published: "2023-10-10", intelScore: 0.7},
	{id: "CVE-2014-0160", title: "OpenSSL heartbeat information disclosure (Heartbleed)", severity: types.SeverityHigh, cvss: 7.5, vector: types.VectorNetwork, exploit: true, public: true, patch: true, published: "2014-04-07", linuxOnly: true, intelScore: 0.75},
	{id: "CVE-2016-5195", title: "Kernel copy-on-write privilege escalation (Dirty COW)", severity: types.SeverityHigh, cvss: 7.8, vector: types.VectorLocal, exploit: true, public: true, patch: true, published: "2016-10-19", linuxOnly: true, intelScore: 0.65},
	{id: "CVE-2021-4034", title: "pkexec local privilege escalation (PwnKit)", severity: types.SeverityHigh, cvss: 7.8, vector: types.VectorLocal, exploit: true, public: true, patch: true, published: "2022-01-25", linuxOnly: true, intelScore: 0.8},
	{id: "CVE-2023-4911", title: "glibc ld.so buffer overflow (Looney Tunables)", severity: types.SeverityHigh, cvss: 7.8, vector: types.VectorLocal, exploit: true, public: true, patch: true, published: "2023-10-03", linuxOnly: true, intelScore: 0.6},
	{id: "CVE-2024-6387", title: "OpenSSH signal handler race (regreSSHion)", severity: types.SeverityHigh, cvss: 8.1, vector: types.VectorNetwork, exploit: true, patch: true, published: "2024-07-01", linuxOnly: true, intelScore: 0.45},
	{id: "CVE-2024-3400", title: "PAN-OS GlobalProtect command injection", severity: types.SeverityCritical, cvss: 10.0, vector: types.VectorNetwork, exploit: true, public: true, active: true, patch: true, published: "2024-04-12", intelScore: 0.94},
	{id: "CVE-2023-38831", title: "WinRAR archive spoofing", severity: types.SeverityHigh, cvss: 7.8, vector: types.VectorLocal, exploit: true, public: true, patch: true, published: "2023-08-23", windowsOnly: true, intelScore: 0.55},
	{id: "CVE-2022-22965", title: "Spring Framework remote code execution (Spring4Shell)", severity: types.SeverityCritical, cvss: 9.8, vector: types.VectorNetwork, exploit: true, public: true, patch: true, published: "2022-03-31", intelScore: 0.72},
	{id: "CVE-2023-34362", title: "MOVEit Transfer SQL injection", severity: types.SeverityCritical, cvss: 9.8, vector: types.VectorNetwork, exploit: true, active: true, patch: true, published: "2023-06-02", windowsOnly: true, intelScore: 0.9},
	{id: "CVE-2019-19781", title: "Citrix ADC path traversal", severity: types.SeverityCritical, cvss: 9.8, vector: types.VectorNetwork, exploit: true, public: true, patch: true, published: "2019-12-17", intelScore: 0.82},
	{id: "CVE-2018-13379", title: "FortiOS SSL VPN path traversal", severity: types.SeverityCritical, cvss: 9.8, vector: types.VectorNetwork, exploit: true, public: true, patch: true, published: "2019-06-04", intelScore: 0.78},
}

// Generate builds the demo inventory from the given seed.
func Generate(seed int64) *input.Inventory {
	rng := rand.New(rand.NewSource(seed))
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	inv := &input.Inventory{ThreatIntel: make(types.ThreatIntel)}

	var windowsVulns, linuxVulns []string
	for _, c := range cvePool {
		published, _ := time.Parse("2006-01-02", c.published)
		v := &types.Vulnerability{
			ID:                "vuln-" + c.id,
			CVEID:             c.id,
			Title:             c.title,
			Severity:          c.severity,
			CVSSScore:         c.cvss,
			AttackVector:      c.vector,
			ExploitAvailable:  c.exploit,
			ExploitPublic:     c.public,
			ActivelyExploited: c.active,
			PatchAvailable:    c.patch,
			PublishedDate:     published,
			DiscoveredDate:    now.AddDate(0, 0, -rng.Intn(90)),
		}
		inv.Vulnerabilities = append(inv.Vulnerabilities, v)
		if c.intelScore > 0 {
			inv.ThreatIntel[c.id] = c.intelScore
		}
		if !c.linuxOnly {
			windowsVulns = append(windowsVulns, v.ID)
		}
		if !c.windowsOnly {
			linuxVulns = append(linuxVulns, v.ID)
		}
	}

	exposed := 0
	for i := 1; i <= windowsServerCount; i++ {
		r := windowsRoles[i%len(windowsRoles)]
		isExposed := exposed < 2 && rng.Float64() < 0.15
		if isExposed {
			exposed++
		}
		inv.Assets = append(inv.Assets, &types.Asset{
			ID:                    fmt.Sprintf("win_server_%03d", i),
			Name:                  fmt.Sprintf("WIN-%s-%02d", r.code, i),
			Criticality:           r.criticality,
			ExposedToInternet:     isExposed,
			ContainsSensitiveData: r.criticality == types.CriticalityMissionCritical || r.criticality == types.CriticalityHigh,
			FirewallEnabled:       true,
			PatchLevel:            pick(rng, types.PatchLevelCurrent, types.PatchLevelCurrent, types.PatchLevelOutdated, types.PatchLevelOutdated, types.PatchLevelCritical),
			AntivirusStatus:       types.AntivirusActive,
			Location:              locations[rng.Intn(len(locations))],
			VulnerabilityIDs:      assign(rng, windowsVulns),
			LastScanDate:          now.AddDate(0, 0, -rng.Intn(7)),
		})
	}

	for i := 1; i <= linuxServerCount; i++ {
		r := linuxRoles[i%len(linuxRoles)]
		isExposed := exposed < 3 && rng.Float64() < 0.2
		if isExposed {
			exposed++
		}
		inv.Assets = append(inv.Assets, &types.Asset{
			ID:                    fmt.Sprintf("linux_server_%03d", i),
			Name:                  fmt.Sprintf("LNX-%s-%02d", r.code, i),
			Criticality:           r.criticality,
			ExposedToInternet:     isExposed,
			ContainsSensitiveData: r.criticality == types.CriticalityMissionCritical,
			FirewallEnabled:       true,
			PatchLevel:            pick(rng, types.PatchLevelCurrent, types.PatchLevelOutdated),
			AntivirusStatus:       types.AntivirusActive,
			Location:              locations[rng.Intn(2)],
			VulnerabilityIDs:      assign(rng, linuxVulns),
			LastScanDate:          now.AddDate(0, 0, -rng.Intn(7)),
		})
	}

	return inv
}

func pick[T any](rng *rand.Rand, choices ...T) T {
	return choices[rng.Intn(len(choices))]
}

// assign draws zero to five vulnerabilities from the pool without
// repeats, preserving pool order so the output is stable for a seed.
func assign(rng *rand.Rand, pool []string) []string {
	n := rng.Intn(6)
	if n == 0 {
		return nil
	}
	if n > len(pool) {
		n = len(pool)
	}
	picked := make(map[int]struct{}, n)
	for len(picked) < n {
		picked[rng.Intn(len(pool))] = struct{}{}
	}
	out := make([]string, 0, n)
	for i, id := range pool {
		if _, ok := picked[i]; ok {
			out = append(out, id)
		}
	}
	return out
}
