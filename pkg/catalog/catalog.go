// Package catalog holds the curated list of autonomous systems with a
// documented history of abuse. The list is assembled from security research,
// threat intelligence feeds and public abuse reports; it is the fallback and,
// under the current policy, the effective source for the generated block rule.
package catalog

// ASN identifies an autonomous system. Name is a human-readable annotation
// for the operator and never ends up in the generated rules file.
type ASN struct {
	Number int
	Name   string
}

// KnownBadASNs returns the curated catalog in its authored order. The result
// is rebuilt on every call so callers can truncate or reorder freely.
func KnownBadASNs() []ASN {
	return []ASN{
		// Russian high-risk networks
		{197695, `Domain names registrar REG.RU, Ltd`},
		{49505, `OOO Network of data-centers Selectel`},
		{201776, `Miranda-Media Ltd`},
		{202425, `IP Volume inc`},
		{49392, `Pptechnology Limited`},
		{44812, `PC Dome`},
		{202422, `Paltel`},

		// European bulletproof-leaning hosters
		{49981, `WorldStream B.V.`},
		{60068, `Datacamp Limited`},
		{44901, `Belcloud Ltd`},
		{51167, `Contabo GmbH`},
		{200000, `Hosting Concepts B.V. d/b/a Openprovider`},

		// other known problem networks
		{208091, `Hydra Communications Ltd`},
		{202448, `MVPS LTD`},
		{63949, `Linode`},
		{16276, `OVH SAS`},
		{24940, `Hetzner Online GmbH`},

		// mainland China
		{45090, `Shenzhen Tencent Computer Systems Company Limited`},
		{37963, `Hangzhou Alibaba Advertising Co., Ltd.`},

		// US cloud providers with recurring abuse
		{20473, `AS-CHOOPA (Vultr)`},
		{14061, `DigitalOcean, LLC`},

		{9009, `M247 Ltd`},
		{35913, `DediPath`},

		{31034, `Aruba S.p.A.`},
		{8100, `QuadraNet Enterprises LLC`},
		{46844, `ST-BGP`},

		// VPN and proxy providers
		{40676, `Psychz Networks`},
		{53667, `FranTech Solutions`},

		{209605, `UAB Host Baltic`},
		{212238, `Datacamp Limited`},

		// cryptomining
		{29802, `HVC-AS`},

		// botnet C2 hosting
		{48693, `University of Dubuque`},
	}
}

// Truncate returns at most max catalog entries, preserving order.
func Truncate(asns []ASN, max int) []ASN {
	if max < 0 {
		max = 0
	}
	if len(asns) <= max {
		return asns
	}
	return asns[:max]
}
