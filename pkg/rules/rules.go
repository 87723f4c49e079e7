// Package rules rewrites the declarative rules document consumed by the
// Terraform workspace. The document is loaded in full, ASN rules are replaced
// in memory and the file is written back in one pass, so the on-disk copy is
// never left half-edited.
package rules

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/homielab/asnblock/pkg/catalog"
	"github.com/homielab/asnblock/utils"
)

// BlockRuleName is the fixed name of the generated rule. Any pre-existing
// rule whose name mentions ASN is considered a stale predecessor.
const BlockRuleName = "Block Known Bad ASNs (AbuseIPDB)"

const asnRuleMarker = "ASN"

type Rule struct {
	Name       string `yaml:"name"`
	Action     string `yaml:"action"`
	Expression string `yaml:"expression"`
}

// Document is the rules file. Top-level keys other than rules are carried
// through the rewrite untouched via the inline map.
type Document struct {
	Rules []Rule                 `yaml:"rules"`
	Extra map[string]interface{} `yaml:",inline"`
}

func Load(path string) (*Document, error) {
	if !utils.PathExists(path) {
		return nil, fmt.Errorf("rules document %s does not exist", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules document: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rules document: %w", err)
	}
	return &doc, nil
}

func (d *Document) Save(path string) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("serialize rules document: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// RemoveASNRules drops every rule whose name contains the ASN marker and
// returns how many were removed.
func (d *Document) RemoveASNRules() int {
	kept := d.Rules[:0]
	removed := 0
	for _, rule := range d.Rules {
		if strings.Contains(rule.Name, asnRuleMarker) {
			removed++
			continue
		}
		kept = append(kept, rule)
	}
	d.Rules = kept
	return removed
}

// BlockExpression renders the set-membership match for the given ASNs in
// Cloudflare's rule language, e.g. "(ip.geoip.asnum in {64512 64513})".
func BlockExpression(asns []catalog.ASN) string {
	nums := make([]string, 0, len(asns))
	for _, asn := range asns {
		nums = append(nums, strconv.Itoa(asn.Number))
	}
	return fmt.Sprintf("(ip.geoip.asnum in {%s})", strings.Join(nums, " "))
}

// Updater rewrites the rules document at a fixed path.
type Updater struct {
	path string
}

func NewUpdater(path string) *Updater {
	return &Updater{path: path}
}

// Update replaces any stale ASN rules with a single fresh blocking rule,
// appended at the end of the rule sequence. An empty ASN set leaves the
// document without any ASN rule. File and parse errors propagate; there is
// no fallback for a broken rules document.
func (u *Updater) Update(asns []catalog.ASN) error {
	doc, err := Load(u.path)
	if err != nil {
		return err
	}

	if removed := doc.RemoveASNRules(); removed > 0 {
		log.Debugf("removed %d existing ASN rule(s) from %s", removed, u.path)
	}

	if len(asns) > 0 {
		doc.Rules = append(doc.Rules, Rule{
			Name:       BlockRuleName,
			Action:     "block",
			Expression: BlockExpression(asns),
		})
		log.Infof("added ASN blocking rule with %d ASNs", len(asns))
	} else {
		log.Warn("no ASN data available, skipping ASN rule creation")
	}

	return doc.Save(u.path)
}
