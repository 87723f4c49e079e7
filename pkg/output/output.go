package output

import (
	"os"
	"strconv"

	"github.com/rs/zerolog/log"

	tw "github.com/olekukonko/tablewriter"
)

// TopCountry is one row of the blacklist geography summary.
type TopCountry struct {
	Code string
	IPs  int
}

// cleanup actions
const (
	ActionDeleted = "deleted"
	ActionSkipped = "skipped"
	ActionFailed  = "failed"
	ActionPlanned = "would delete"
)

// RulesetAction records what the cleanup pass did with one remote ruleset.
type RulesetAction struct {
	Zone    string
	ID      string
	Name    string
	Outcome string
}

func WriteCountryTable(countries []TopCountry) error {
	if len(countries) == 0 {
		log.Debug().Msg("no country statistics to render")
		return nil
	}

	table := tw.NewWriter(os.Stdout)
	table.Header("Country", "Blacklisted IPs")

	for _, c := range countries {
		table.Append(c.Code, strconv.Itoa(c.IPs))
	}
	return table.Render()
}

func WriteCleanupTable(actions []RulesetAction) error {
	if len(actions) == 0 {
		log.Debug().Msg("no ruleset actions to render")
		return nil
	}

	table := tw.NewWriter(os.Stdout)
	table.Header("Zone", "Ruleset ID", "Name", "Outcome")

	for _, a := range actions {
		table.Append(a.Zone, a.ID, a.Name, a.Outcome)
	}
	return table.Render()
}

// CountOutcome tallies cleanup actions with the given outcome.
func CountOutcome(actions []RulesetAction, outcome string) int {
	n := 0
	for _, a := range actions {
		if a.Outcome == outcome {
			n++
		}
	}
	return n
}
