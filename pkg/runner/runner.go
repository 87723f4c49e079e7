package runner

import (
	"context"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"

	"github.com/homielab/asnblock/pkg/catalog"
	"github.com/homielab/asnblock/pkg/cloudflare"
	"github.com/homielab/asnblock/pkg/config"
	"github.com/homielab/asnblock/pkg/rules"
	"github.com/homielab/asnblock/pkg/threatintel"
)

type RulesetCleaner interface {
	CleanupExistingRulesets(ctx context.Context, zones []config.Zone)
}

type ASNFetcher interface {
	FetchASNs(ctx context.Context) []catalog.ASN
}

type RulesUpdater interface {
	Update(asns []catalog.ASN) error
}

// Runner executes one sync pass: cleanup, fetch, update, in that order.
// Cleanup and fetch absorb their own failures; only a rules-file error
// aborts the run.
type Runner struct {
	zones     []config.Zone
	cleaner   RulesetCleaner
	fetcher   ASNFetcher
	updater   RulesUpdater
	rulesFile string
}

func New(zones []config.Zone, cleaner RulesetCleaner, fetcher ASNFetcher, updater RulesUpdater, rulesFile string) *Runner {
	return &Runner{
		zones:     zones,
		cleaner:   cleaner,
		fetcher:   fetcher,
		updater:   updater,
		rulesFile: rulesFile,
	}
}

// StartSync wires the production components from options and configuration
// and runs a single pass.
func StartSync(ctx context.Context, opts *config.Options, cfg *config.Config) error {
	r := New(
		cfg.Zones,
		cloudflare.NewClient(*opts.CloudflareToken, cfg.Cloudflare.BaseURL, *opts.DryRun),
		threatintel.New(*opts.AbuseIPDBKey, cfg.AbuseIPDB.BaseURL, *opts.MaxASNs),
		rules.NewUpdater(*opts.RulesFile),
		*opts.RulesFile,
	)
	return r.Run(ctx)
}

func (r *Runner) Run(ctx context.Context) error {
	r.cleaner.CleanupExistingRulesets(ctx, r.zones)

	log.Info(color.BlueString("fetching AbuseIPDB ASN blacklist..."))
	asns := r.fetcher.FetchASNs(ctx)
	log.Infof("fetched %d unique ASNs", len(asns))

	if err := r.updater.Update(asns); err != nil {
		return err
	}

	log.Info(color.GreenString("updated %s successfully", r.rulesFile))
	return nil
}
