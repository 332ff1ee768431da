package query

import (
	"errors"
	"strings"
	"testing"

	qerrors "mercator-hq/huntquery/pkg/query/errors"
	"mercator-hq/huntquery/pkg/query/param"
	"mercator-hq/huntquery/pkg/query/render"
)

func TestRender(t *testing.T) {
	w, err := param.NewTimeWindow(30, param.Seconds)
	if err != nil {
		t.Fatalf("NewTimeWindow() error = %v", err)
	}

	text, err := Render(render.NetworkFromApplication{
		AppNames:          []string{"winword.exe"},
		Window:            w,
		ExcludeSystemUser: true,
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(text, "within 30s: network_connection") {
		t.Errorf("Render() = %q, want 30s window", text)
	}
}

func TestRenderDefault(t *testing.T) {
	text, err := RenderDefault("geographic-beaconing")
	if err != nil {
		t.Fatalf("RenderDefault() error = %v", err)
	}
	if !strings.Contains(text, ">= 3") {
		t.Errorf("RenderDefault() = %q, want >= 3", text)
	}

	if _, err := RenderDefault("network-from-application"); !errors.Is(err, qerrors.ErrInvalidParameter) {
		t.Errorf("RenderDefault(network-from-application) error = %v, want ErrInvalidParameter", err)
	}
	if _, err := RenderDefault("unknown"); !errors.Is(err, qerrors.ErrUnknownPattern) {
		t.Errorf("RenderDefault(unknown) error = %v, want ErrUnknownPattern", err)
	}
}

func TestMustRender_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustRender() with invalid template did not panic")
		}
	}()
	MustRender(render.MultiDestinationBeaconing{MinUniqueDestinations: -1})
}
