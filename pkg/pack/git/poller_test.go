package git

import (
	"context"
	"testing"
	"time"
)

func TestTouches(t *testing.T) {
	tests := []struct {
		name    string
		changed []string
		pack    string
		want    bool
	}{
		{name: "exact file", changed: []string{"hunts.yaml"}, pack: "hunts.yaml", want: true},
		{name: "nested file", changed: []string{"packs/windows.yaml"}, pack: "packs/windows.yaml", want: true},
		{name: "under directory", changed: []string{"packs/windows.yaml"}, pack: "packs", want: true},
		{name: "cleaned path", changed: []string{"packs/windows.yaml"}, pack: "./packs/windows.yaml", want: true},
		{name: "other file", changed: []string{"README.md"}, pack: "hunts.yaml", want: false},
		{name: "shared prefix", changed: []string{"packs-old/a.yaml"}, pack: "packs", want: false},
		{name: "nothing changed", changed: nil, pack: "hunts.yaml", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := touches(tt.changed, tt.pack); got != tt.want {
				t.Errorf("touches(%v, %q) = %v, want %v", tt.changed, tt.pack, got, tt.want)
			}
		})
	}
}

func TestPoller_Check(t *testing.T) {
	remote, remoteRepo := initRemote(t)
	r := cloneRemote(t, remote)
	p := NewPoller(r, time.Second, nil)
	ctx := context.Background()

	changed, err := p.Check(ctx, "hunts.yaml")
	if err != nil || changed {
		t.Fatalf("Check() = %v, %v; want false, nil", changed, err)
	}

	commitFile(t, remoteRepo, remote, "README.md", "docs\n", "docs only")
	changed, err = p.Check(ctx, "hunts.yaml")
	if err != nil || changed {
		t.Fatalf("Check() after unrelated commit = %v, %v; want false, nil", changed, err)
	}

	commitFile(t, remoteRepo, remote, "hunts.yaml", testPack+"# edit\n", "edit pack")
	changed, err = p.Check(ctx, "hunts.yaml")
	if err != nil || !changed {
		t.Fatalf("Check() after pack commit = %v, %v; want true, nil", changed, err)
	}
}

func TestPoller_Poll(t *testing.T) {
	remote, remoteRepo := initRemote(t)
	r := cloneRemote(t, remote)

	// Commit before polling starts so the first pull sees it.
	commitFile(t, remoteRepo, remote, "hunts.yaml", testPack+"# edit\n", "edit pack")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	called := make(chan struct{}, 1)
	done := make(chan error, 1)
	p := NewPoller(r, 10*time.Millisecond, nil)
	go func() {
		done <- p.Poll(ctx, "hunts.yaml", func() error {
			select {
			case called <- struct{}{}:
			default:
			}
			return nil
		})
	}()

	select {
	case <-called:
	case <-time.After(10 * time.Second):
		t.Fatal("onChange was not called")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Poll() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Poll did not return after cancel")
	}
}

func TestPoller_PollRequiresClone(t *testing.T) {
	r, err := NewRepository(testConfig("https://example.com/hunts.git", t.TempDir()))
	if err != nil {
		t.Fatalf("NewRepository() error = %v", err)
	}
	if err := NewPoller(r, time.Second, nil).Poll(context.Background(), "hunts.yaml", func() error { return nil }); err == nil {
		t.Error("Poll() error = nil, want error before Clone")
	}
}
