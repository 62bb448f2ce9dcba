package launcher

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/quasar/mclauncher/internal/cache"
	"github.com/quasar/mclauncher/internal/httpx"
	"github.com/quasar/mclauncher/internal/jre"
	"github.com/quasar/mclauncher/internal/manifest"
	"github.com/quasar/mclauncher/internal/platform"
	"github.com/quasar/mclauncher/internal/progress"
	"github.com/quasar/mclauncher/internal/scheduler"
)

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestPrepareBuildsClasspathAndArgs(t *testing.T) {
	clientJarBytes := "client-jar-bytes"
	clientSHA1 := sha1Hex(clientJarBytes)

	mux := http.NewServeMux()
	mux.HandleFunc("/client.jar", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(clientJarBytes))
	})
	mux.HandleFunc("/assets/index.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"objects":{}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	root := cache.NewRoot(dir)
	info, err := platform.Current("")
	if err != nil {
		t.Fatalf("platform.Current: %v", err)
	}

	l := &Launcher{
		HTTP:     httpx.New(),
		Cache:    root,
		Platform: info,
		JRE:      &jre.Resolver{HTTP: httpx.New(), Root: root, Info: info},
		Scheduler: &scheduler.Scheduler{HTTP: httpx.New(), Concurrency: 2},
		Progress: progress.New(progress.SinkFunc(func(progress.Event) {})),
	}

	profile := &manifest.VersionProfile{
		ID:        "1.20.1",
		MainClass: "net.minecraft.client.main.Main",
		Assets:    "1.20",
		Downloads: manifest.Downloads{
			Client: &manifest.Artifact{URL: srv.URL + "/client.jar", SHA1: clientSHA1},
		},
		AssetIndex:         &manifest.AssetIndexRef{ID: "1.20", URL: srv.URL + "/assets/index.json"},
		MinecraftArguments: "--username ${auth_player_name} --version ${version_name}",
	}

	sp := StartParameter{
		MemoryMiB: 2048,
		Identity:  Identity{PlayerName: "Steve", PlayerUUID: "uuid-1", AccessToken: "tok"},
		JRESelection: jre.Selection{Mode: jre.Custom, CustomPath: "/usr/bin/java"},
	}

	prepared, err := l.Prepare(context.Background(), profile, "vanilla", 17, sp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prepared.JavaBinary != "/usr/bin/java" {
		t.Errorf("expected custom java binary to short-circuit, got %q", prepared.JavaBinary)
	}
	found := false
	for _, a := range prepared.Args {
		if a == "Steve" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected substituted player name in args, got %v", prepared.Args)
	}
}

func TestPrepareResolvesLibraryWithoutArtifactViaMavenURLFallback(t *testing.T) {
	jarBytes := "old-format-library-bytes"
	jarSHA1 := sha1Hex(jarBytes)
	mavenPath := "net/fabricmc/fabric-loader/0.14.22/fabric-loader-0.14.22.jar"

	mux := http.NewServeMux()
	mux.HandleFunc("/"+mavenPath, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(jarBytes))
	})
	mux.HandleFunc("/"+mavenPath+".sha1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(jarSHA1))
	})
	mux.HandleFunc("/client.jar", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("client-bytes"))
	})
	mux.HandleFunc("/assets/index.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"objects":{}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	root := cache.NewRoot(dir)
	info, err := platform.Current("")
	if err != nil {
		t.Fatalf("platform.Current: %v", err)
	}

	l := &Launcher{
		HTTP:      httpx.New(),
		Cache:     root,
		Platform:  info,
		JRE:       &jre.Resolver{HTTP: httpx.New(), Root: root, Info: info},
		Scheduler: &scheduler.Scheduler{HTTP: httpx.New(), Concurrency: 2},
		Progress:  progress.New(progress.SinkFunc(func(progress.Event) {})),
	}

	profile := &manifest.VersionProfile{
		ID:        "1.20.1-fabric",
		MainClass: "net.fabricmc.loader.impl.launch.knot.KnotClient",
		Assets:    "1.20",
		Downloads: manifest.Downloads{
			Client: &manifest.Artifact{URL: srv.URL + "/client.jar", SHA1: sha1Hex("client-bytes")},
		},
		Libraries: []manifest.Library{
			{Name: "net.fabricmc:fabric-loader:0.14.22", URL: srv.URL + "/"},
		},
		AssetIndex:         &manifest.AssetIndexRef{ID: "1.20", URL: srv.URL + "/assets/index.json"},
		MinecraftArguments: "--username ${auth_player_name} --version ${version_name}",
	}

	sp := StartParameter{
		Identity:     Identity{PlayerName: "Alex"},
		JRESelection: jre.Selection{Mode: jre.Custom, CustomPath: "/usr/bin/java"},
	}

	prepared, err := l.Prepare(context.Background(), profile, "fabric", 17, sp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	libPath := root.LibraryPath(mavenPath)
	if _, err := os.Stat(libPath); err != nil {
		t.Fatalf("expected fallback library to be downloaded to %q: %v", libPath, err)
	}

	foundOnClasspath := false
	for _, arg := range prepared.Args {
		if strings.Contains(arg, libPath) {
			foundOnClasspath = true
		}
	}
	if !foundOnClasspath {
		t.Errorf("expected fallback library path %q on classpath, args: %v", libPath, prepared.Args)
	}

	sidecar := root.LibrarySHA1SidecarPath(mavenPath)
	data, err := os.ReadFile(sidecar)
	if err != nil {
		t.Fatalf("expected sha1 sidecar to be cached at %q: %v", sidecar, err)
	}
	if string(data) != jarSHA1 {
		t.Errorf("expected cached sidecar sha1 %q, got %q", jarSHA1, string(data))
	}
}
