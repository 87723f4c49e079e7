package threatintel

import (
	"sort"

	"github.com/homielab/asnblock/pkg/output"
)

// number of countries shown in the diagnostic table
const topCountries = 10

// countries whose presence near the top of the blacklist triggers a warning
var highRiskCountries = []string{"RU", "CN", "KP", "IR"}

type blacklistResponse struct {
	Data []BlacklistEntry `json:"data"`
}

// BlacklistEntry is one record of the AbuseIPDB blacklist response.
type BlacklistEntry struct {
	IPAddress            string `json:"ipAddress"`
	CountryCode          string `json:"countryCode"`
	AbuseConfidenceScore int    `json:"abuseConfidenceScore"`
	LastReportedAt       string `json:"lastReportedAt"`
}

// CountryStats builds a per-country frequency table of the blacklist entries,
// sorted by descending count. Ties break on country code so the order is
// deterministic. Entries without a country code count as "Unknown".
func CountryStats(entries []BlacklistEntry) []output.TopCountry {
	counts := map[string]int{}
	for _, entry := range entries {
		code := entry.CountryCode
		if code == "" {
			code = "Unknown"
		}
		counts[code]++
	}

	stats := make([]output.TopCountry, 0, len(counts))
	for code, n := range counts {
		stats = append(stats, output.TopCountry{Code: code, IPs: n})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].IPs != stats[j].IPs {
			return stats[i].IPs > stats[j].IPs
		}
		return stats[i].Code < stats[j].Code
	})

	return stats
}

// HasHighRiskCountry reports whether one of the fixed high-risk countries
// appears among the top five blacklist countries.
func HasHighRiskCountry(stats []output.TopCountry) bool {
	top := stats
	if len(top) > 5 {
		top = top[:5]
	}
	for _, s := range top {
		for _, risk := range highRiskCountries {
			if s.Code == risk {
				return true
			}
		}
	}
	return false
}
