package pack

import (
	"errors"
	"testing"

	"mercator-hq/huntquery/pkg/config"
	qerrors "mercator-hq/huntquery/pkg/query/errors"
	"mercator-hq/huntquery/pkg/query/param"
	"mercator-hq/huntquery/pkg/query/render"

	"github.com/google/go-cmp/cmp"
)

var windowCmp = cmp.AllowUnexported(param.TimeWindow{})

func TestTemplate_Layering(t *testing.T) {
	defaults := config.NewDefaultConfig().Defaults
	defaults.MultiDestinationBeaconing.Window = "3m"
	defaults.MultiDestinationBeaconing.MinUniqueDestinations = intPtr(6)
	defaults.GeographicBeaconing.MinCountries = intPtr(4)

	tests := []struct {
		name string
		hunt Hunt
		want render.Template
	}{
		{
			name: "config defaults override built-ins",
			hunt: Hunt{Pattern: "multi-destination-beaconing"},
			want: render.MultiDestinationBeaconing{
				MinUniqueDestinations: 6,
				Window:                param.MustTimeWindow(3, param.Minutes),
				ExcludeStandardPorts:  true,
			},
		},
		{
			name: "hunt params override config defaults",
			hunt: Hunt{
				Pattern: "multi-destination-beaconing",
				Params: Params{
					MinUniqueDestinations: intPtr(10),
					Window:                "1h",
					ExcludeStandardPorts:  boolPtr(false),
				},
			},
			want: render.MultiDestinationBeaconing{
				MinUniqueDestinations: 10,
				Window:                param.MustTimeWindow(1, param.Hours),
				ExcludeStandardPorts:  false,
			},
		},
		{
			name: "network from application",
			hunt: Hunt{
				Pattern: "network-from-application",
				Params: Params{
					AppNames:          []string{"outlook.exe"},
					ExcludeSystemUser: boolPtr(false),
				},
			},
			want: render.NetworkFromApplication{
				AppNames:          []string{"outlook.exe"},
				Window:            param.MustTimeWindow(10, param.Seconds),
				ExcludeSystemUser: false,
			},
		},
		{
			name: "multi parent child network",
			hunt: Hunt{
				Pattern: "multi-parent-child-network",
				Params:  Params{ChildWindow: "30s"},
			},
			want: render.MultiParentChildNetwork{
				MinParentCount: 2,
				ChildWindow:    param.MustTimeWindow(30, param.Seconds),
			},
		},
		{
			name: "suspicious child has no parameters",
			hunt: Hunt{Pattern: "suspicious-child-from-office-app"},
			want: render.SuspiciousChildFromOfficeApp{},
		},
		{
			name: "geographic beaconing",
			hunt: Hunt{Pattern: "geographic-beaconing"},
			want: render.GeographicBeaconing{
				MinCountries: 4,
				Window:       param.MustTimeWindow(5, param.Minutes),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Template(tt.hunt, defaults)
			if err != nil {
				t.Fatalf("Template() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got, windowCmp); diff != "" {
				t.Errorf("Template() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTemplate_ZeroDefaultsUseBuiltins(t *testing.T) {
	got, err := Template(Hunt{Pattern: "geographic-beaconing"}, config.DefaultsConfig{})
	if err != nil {
		t.Fatalf("Template() error = %v", err)
	}
	if diff := cmp.Diff(render.Template(render.DefaultGeographicBeaconing()), got, windowCmp); diff != "" {
		t.Errorf("Template() mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplate_Errors(t *testing.T) {
	_, err := Template(Hunt{Pattern: "dns-tunnel"}, config.DefaultsConfig{})
	if !errors.Is(err, qerrors.ErrUnknownPattern) {
		t.Errorf("Template() error = %v, want ErrUnknownPattern", err)
	}

	_, err = Template(Hunt{
		Pattern: "geographic-beaconing",
		Params:  Params{Window: "-5m"},
	}, config.DefaultsConfig{})
	if !errors.Is(err, qerrors.ErrInvalidParameter) {
		t.Errorf("Template() error = %v, want ErrInvalidParameter", err)
	}
}
