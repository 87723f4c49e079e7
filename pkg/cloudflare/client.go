// Package cloudflare removes stale managed rulesets through the Cloudflare
// v4 API so the Terraform apply that follows starts from a clean slate.
package cloudflare

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/homielab/asnblock/pkg/config"
	"github.com/homielab/asnblock/pkg/output"
)

// CustomFirewallPhase is the evaluation phase of custom WAF rulesets.
const CustomFirewallPhase = "http_request_firewall_custom"

// ZoneKind marks zone-scoped rulesets; account-level ones are never touched.
const ZoneKind = "zone"

// A ruleset is considered Terraform-managed when its name carries one of
// these keywords. The heuristic is brittle on purpose: it reproduces the
// naming convention of the workspace this tool cleans up after.
var managedKeywords = []string{"terraform", "waf", "managed"}

// IsManagedRuleset reports whether the ruleset name matches the
// managed-resource naming convention, case-insensitively.
func IsManagedRuleset(name string) bool {
	lower := strings.ToLower(name)
	for _, keyword := range managedKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// Ruleset is the subset of the Cloudflare ruleset resource this tool reads.
type Ruleset struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phase string `json:"phase"`
	Kind  string `json:"kind"`
}

type listResponse struct {
	Result []Ruleset `json:"result"`
}

type Client struct {
	token   string
	baseURL string
	dryRun  bool
	client  *http.Client
}

func NewClient(token, baseURL string, dryRun bool) *Client {
	return &Client{
		token:   token,
		baseURL: baseURL,
		dryRun:  dryRun,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// ZoneRulesets lists every ruleset of the given zone.
func (c *Client) ZoneRulesets(ctx context.Context, zoneID string) ([]Ruleset, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("%s/zones/%s/rulesets", c.baseURL, zoneID))
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list rulesets for zone %s: unexpected status %d", zoneID, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var list listResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decode ruleset listing: %w", err)
	}
	return list.Result, nil
}

// DeleteRuleset removes one ruleset. Cloudflare answers 200 or 204 on
// success depending on API version.
func (c *Client) DeleteRuleset(ctx context.Context, zoneID, rulesetID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, fmt.Sprintf("%s/zones/%s/rulesets/%s", c.baseURL, zoneID, rulesetID))
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("delete ruleset %s: unexpected status %d", rulesetID, resp.StatusCode)
	}
	return nil
}

// CleanupExistingRulesets walks the zone registry in order and deletes every
// zone-scoped custom-firewall ruleset that matches the managed naming
// convention. Failures are logged and never abort the pass: a half-cleaned
// zone list is acceptable, the next run picks up the leftovers.
func (c *Client) CleanupExistingRulesets(ctx context.Context, zones []config.Zone) {
	if c.token == "" {
		log.Warn("skipping ruleset cleanup, no Cloudflare API token")
		return
	}

	log.Info("cleaning up existing rulesets")

	var actions []output.RulesetAction

	for _, zone := range zones {
		log.Infof("zone: %s (%s)", zone.Name, zone.ID)

		rulesets, err := c.ZoneRulesets(ctx, zone.ID)
		if err != nil {
			log.Errorf("error fetching rulesets for zone %s: %v", zone.ID, err)
			continue
		}

		var custom []Ruleset
		for _, rs := range rulesets {
			if rs.Phase == CustomFirewallPhase && rs.Kind == ZoneKind {
				custom = append(custom, rs)
			}
		}

		if len(custom) == 0 {
			log.Infof("no custom WAF rulesets found in zone %s", zone.Name)
			continue
		}

		log.Infof("found %d custom WAF ruleset(s) in zone %s", len(custom), zone.Name)

		for _, rs := range custom {
			action := output.RulesetAction{Zone: zone.Name, ID: rs.ID, Name: rs.Name}

			switch {
			case !IsManagedRuleset(rs.Name):
				log.Infof("skipping %q (not managed by Terraform)", rs.Name)
				action.Outcome = output.ActionSkipped
			case c.dryRun:
				log.Infof("dry run, would delete %q (%s)", rs.Name, rs.ID)
				action.Outcome = output.ActionPlanned
			default:
				log.Infof("deleting %q (%s)", rs.Name, rs.ID)
				if err := c.DeleteRuleset(ctx, zone.ID, rs.ID); err != nil {
					log.Errorf("failed to delete ruleset %s: %v", rs.ID, err)
					action.Outcome = output.ActionFailed
				} else {
					log.Infof("successfully deleted ruleset %s", rs.ID)
					action.Outcome = output.ActionDeleted
				}
			}

			actions = append(actions, action)
		}
	}

	if err := output.WriteCleanupTable(actions); err != nil {
		log.Debugf("failed to render cleanup table: %v", err)
	}

	if c.dryRun {
		log.Infof("cleanup summary: %d would be deleted, %d skipped",
			output.CountOutcome(actions, output.ActionPlanned),
			output.CountOutcome(actions, output.ActionSkipped))
		return
	}
	log.Infof("cleanup summary: %d deleted, %d skipped, %d failed",
		output.CountOutcome(actions, output.ActionDeleted),
		output.CountOutcome(actions, output.ActionSkipped),
		output.CountOutcome(actions, output.ActionFailed))
}
