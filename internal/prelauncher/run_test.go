package prelauncher

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quasar/mclauncher/internal/cache"
	"github.com/quasar/mclauncher/internal/httpx"
	"github.com/quasar/mclauncher/internal/mods"
	"github.com/quasar/mclauncher/internal/progress"
)

func TestRunLoadsProfileWithoutInheritance(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/version_manifest_v2.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"versions":[]}`))
	})
	mux.HandleFunc("/profile.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"1.20.1","mainClass":"net.minecraft.client.main.Main"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	var events []progress.Event
	agg := progress.New(progress.SinkFunc(func(e progress.Event) { events = append(events, e) }))

	p := &Pipeline{
		HTTP:                httpx.New(),
		Cache:               cache.NewRoot(dir),
		Mods:                &mods.Installer{Cache: cache.NewRoot(dir)},
		Progress:            agg,
		UpstreamManifestURL: srv.URL + "/version_manifest_v2.json",
	}

	lm := LaunchManifest{
		Build:               Build{Branch: "vanilla", MinecraftVersion: "1.20.1", Subsystem: SubsystemForge},
		ManifestURLTemplate: srv.URL + "/profile.json",
	}

	result, err := p.Run(lm, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Profile.ID != "1.20.1" {
		t.Errorf("got profile id %q", result.Profile.ID)
	}
	if len(events) == 0 {
		t.Error("expected progress events to be emitted")
	}
}

func TestRunFailsOnMissingInheritedParent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/version_manifest_v2.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"versions":[]}`))
	})
	mux.HandleFunc("/profile.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"fabric-loader-1.20.1","inheritsFrom":"1.20.1"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	agg := progress.New(progress.SinkFunc(func(progress.Event) {}))
	p := &Pipeline{
		HTTP:                httpx.New(),
		Cache:               cache.NewRoot(dir),
		Mods:                &mods.Installer{Cache: cache.NewRoot(dir)},
		Progress:            agg,
		UpstreamManifestURL: srv.URL + "/version_manifest_v2.json",
	}
	lm := LaunchManifest{
		Build:               Build{Branch: "fabric", MinecraftVersion: "1.20.1", Subsystem: SubsystemForge},
		ManifestURLTemplate: srv.URL + "/profile.json",
	}

	if _, err := p.Run(lm, Options{}); err == nil {
		t.Fatal("expected error when inherited parent is absent from upstream manifest")
	}
}
