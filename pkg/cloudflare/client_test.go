package cloudflare

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homielab/asnblock/pkg/config"
)

type fakeAPI struct {
	mu          sync.Mutex
	listStatus  int
	rulesets    map[string][]Ruleset // zoneID -> rulesets
	deleteFails map[string]bool      // rulesetID -> answer 500
	listedZones []string
	deleted     []string
	calls       int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		listStatus:  http.StatusOK,
		rulesets:    map[string][]Ruleset{},
		deleteFails: map[string]bool{},
	}
}

func (f *fakeAPI) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.calls++

		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		// zones/{zone}/rulesets[/{id}]
		require.GreaterOrEqual(f.t(), len(parts), 3)
		zoneID := parts[1]

		switch r.Method {
		case http.MethodGet:
			f.listedZones = append(f.listedZones, zoneID)
			if f.listStatus != http.StatusOK {
				w.WriteHeader(f.listStatus)
				return
			}
			fmt.Fprint(w, `{"result":[`)
			for i, rs := range f.rulesets[zoneID] {
				if i > 0 {
					fmt.Fprint(w, ",")
				}
				fmt.Fprintf(w, `{"id":%q,"name":%q,"phase":%q,"kind":%q}`, rs.ID, rs.Name, rs.Phase, rs.Kind)
			}
			fmt.Fprint(w, `]}`)
		case http.MethodDelete:
			id := parts[3]
			if f.deleteFails[id] {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			f.deleted = append(f.deleted, id)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

// require needs a TestingT; the fake only uses it for malformed paths,
// which means a bug in the test itself.
func (f *fakeAPI) t() require.TestingT { return panicT{} }

type panicT struct{}

func (panicT) Errorf(format string, args ...interface{}) { panic(fmt.Sprintf(format, args...)) }
func (panicT) FailNow()                                  { panic("unexpected request path") }

var testZones = []config.Zone{
	{Name: "homieyeng.top", ID: "zone-a"},
	{Name: "homieyang.dpdns.org", ID: "zone-b"},
}

func TestCleanupDeletesManagedRulesetsOnly(t *testing.T) {
	api := newFakeAPI()
	api.rulesets["zone-a"] = []Ruleset{
		{ID: "rs-1", Name: "Terraform Managed WAF", Phase: CustomFirewallPhase, Kind: ZoneKind},
		{ID: "rs-2", Name: "Custom Rule", Phase: CustomFirewallPhase, Kind: ZoneKind},
	}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c := NewClient("token", srv.URL, false)
	c.CleanupExistingRulesets(context.Background(), testZones)

	assert.Equal(t, []string{"rs-1"}, api.deleted)
}

func TestCleanupIgnoresOtherPhasesAndKinds(t *testing.T) {
	api := newFakeAPI()
	api.rulesets["zone-a"] = []Ruleset{
		{ID: "rs-1", Name: "Terraform Managed WAF", Phase: "http_request_transform", Kind: ZoneKind},
		{ID: "rs-2", Name: "Terraform Managed WAF", Phase: CustomFirewallPhase, Kind: "account"},
	}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c := NewClient("token", srv.URL, false)
	c.CleanupExistingRulesets(context.Background(), testZones)

	assert.Empty(t, api.deleted)
}

func TestCleanupContinuesAfterDeleteFailure(t *testing.T) {
	api := newFakeAPI()
	api.rulesets["zone-a"] = []Ruleset{
		{ID: "rs-1", Name: "Terraform Managed WAF", Phase: CustomFirewallPhase, Kind: ZoneKind},
		{ID: "rs-2", Name: "managed waf v2", Phase: CustomFirewallPhase, Kind: ZoneKind},
	}
	api.deleteFails["rs-1"] = true
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c := NewClient("token", srv.URL, false)
	c.CleanupExistingRulesets(context.Background(), testZones)

	assert.Equal(t, []string{"rs-2"}, api.deleted)
}

func TestCleanupTreatsListErrorAsEmpty(t *testing.T) {
	api := newFakeAPI()
	api.listStatus = http.StatusForbidden
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c := NewClient("token", srv.URL, false)
	c.CleanupExistingRulesets(context.Background(), testZones)

	assert.Empty(t, api.deleted)
	// both zones were still attempted
	assert.Equal(t, []string{"zone-a", "zone-b"}, api.listedZones)
}

func TestCleanupWithoutTokenMakesNoCalls(t *testing.T) {
	api := newFakeAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c := NewClient("", srv.URL, false)
	c.CleanupExistingRulesets(context.Background(), testZones)

	assert.Zero(t, api.calls)
}

func TestCleanupDryRunDeletesNothing(t *testing.T) {
	api := newFakeAPI()
	api.rulesets["zone-a"] = []Ruleset{
		{ID: "rs-1", Name: "Terraform Managed WAF", Phase: CustomFirewallPhase, Kind: ZoneKind},
	}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	c := NewClient("token", srv.URL, true)
	c.CleanupExistingRulesets(context.Background(), testZones)

	assert.Empty(t, api.deleted)
	assert.Equal(t, []string{"zone-a", "zone-b"}, api.listedZones)
}

func TestCleanupWalksZonesInConfigOrder(t *testing.T) {
	api := newFakeAPI()
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	zones := []config.Zone{
		{Name: "c", ID: "zone-c"}, {Name: "a", ID: "zone-a"}, {Name: "b", ID: "zone-b"},
	}
	c := NewClient("token", srv.URL, false)
	c.CleanupExistingRulesets(context.Background(), zones)

	assert.Equal(t, []string{"zone-c", "zone-a", "zone-b"}, api.listedZones)
}

func TestIsManagedRuleset(t *testing.T) {
	cases := map[string]bool{
		"Terraform Managed WAF": true,
		"terraform rules":       true,
		"My WAF ruleset":        true,
		"MANAGED by ops":        true,
		"Custom Rule":           false,
		"default":               false,
		"":                      false,
	}
	for name, want := range cases {
		assert.Equal(t, want, IsManagedRuleset(name), "name %q", name)
	}
}

func TestDeleteRulesetStatusHandling(t *testing.T) {
	statuses := []int{http.StatusOK, http.StatusNoContent}
	for _, status := range statuses {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		c := NewClient("token", srv.URL, false)
		assert.NoError(t, c.DeleteRuleset(context.Background(), "z", "r"), "status %d", status)
		srv.Close()
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	c := NewClient("token", srv.URL, false)
	assert.Error(t, c.DeleteRuleset(context.Background(), "z", "r"))
}

func TestZoneRulesetsSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"result":[]}`)
	}))
	defer srv.Close()

	c := NewClient("secret-token", srv.URL, false)
	rulesets, err := c.ZoneRulesets(context.Background(), "zone-a")
	require.NoError(t, err)

	assert.Empty(t, rulesets)
	assert.Equal(t, "Bearer secret-token", gotAuth)
}
