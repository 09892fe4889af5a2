package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jarcoal/httpmock"
)

const (
	manifestURL  = "https://meta.example.com/manifest.json"
	librariesURL = "https://libs.example.com"
	resourcesURL = "https://res.example.com"
)

type installFixture struct {
	store     *Store
	transport *httpmock.MockTransport
	installer *Installer
}

func newInstallFixture(t *testing.T, platform Platform) *installFixture {
	t.Helper()
	s := newDiskStore(t)
	client, transport := newMockClient()

	nativeJar := zipBytes(t, map[string]string{
		"liblwjgl.so":          "native code",
		"META-INF/MANIFEST.MF": "Manifest-Version: 1.0",
	})
	libJar := []byte("lwjgl classes")
	loaderJar := []byte("loader classes")
	clientJar := []byte("client classes")
	assetA, assetB := []byte("sound"), []byte("texture")
	assetIndex := mustJSON(t, AssetIndex{Objects: map[string]AssetObject{
		"minecraft/sounds/a.ogg":   {Hash: HashBytes(assetA), Size: int64(len(assetA))},
		"minecraft/sounds/a2.ogg":  {Hash: HashBytes(assetA), Size: int64(len(assetA))},
		"minecraft/textures/b.png": {Hash: HashBytes(assetB), Size: int64(len(assetB))},
	}})

	vanilla := mustJSON(t, VersionDescriptor{
		ID:        "1.20.1",
		Type:      "release",
		MainClass: "net.minecraft.client.main.Main",
		Assets:    "5",
		AssetIndex: &AssetIndexRef{
			ID: "5", URL: "https://meta.example.com/indexes/5.json", SHA1: HashBytes(assetIndex),
		},
		Downloads: &VersionDownloads{Client: &Artifact{URL: "https://meta.example.com/client.jar", SHA1: HashBytes(clientJar)}},
		Libraries: []Library{
			{
				Name: "org.lwjgl:lwjgl:3.3.1",
				Downloads: &LibraryDownloads{
					Artifact: &Artifact{Path: "org/lwjgl/lwjgl/3.3.1/lwjgl-3.3.1.jar", URL: "https://libs.example.com/lwjgl.jar", SHA1: HashBytes(libJar)},
					Classifiers: map[string]Artifact{
						"natives-linux-64": {Path: "org/lwjgl/lwjgl/3.3.1/lwjgl-3.3.1-natives-linux.jar", URL: "https://libs.example.com/natives.jar", SHA1: HashBytes(nativeJar)},
					},
				},
				Natives: map[string]string{PlatformLinux: "natives-linux-${arch}"},
				Extract: &ExtractRules{Exclude: []string{"META-INF/"}},
			},
			{
				Name:  "com.example:windows-only:1",
				Rules: RuleSet{{Action: ActionAllow, OS: &OSConstraint{Name: PlatformWindows}}},
			},
		},
	})
	modded := mustJSON(t, VersionDescriptor{
		ID:           "modded-1.20.1",
		InheritsFrom: "1.20.1",
		MainClass:    "Knot",
		Libraries:    []Library{{Name: "net.fabricmc:loader:0.15.0"}},
	})

	catalog := VersionCatalog{Versions: []CatalogEntry{
		{ID: "1.20.1", Type: "release", URL: "https://meta.example.com/1.20.1.json", SHA1: HashBytes(vanilla)},
		{ID: "1.20", Type: "release", URL: "https://meta.example.com/1.20.json"},
		{ID: "modded-1.20.1", Type: "release", URL: "https://meta.example.com/modded.json"},
	}}
	catalog.Latest.Release = "1.20.1"

	transport.RegisterResponder("GET", manifestURL, httpmock.NewBytesResponder(200, mustJSON(t, catalog)))
	transport.RegisterResponder("GET", "https://meta.example.com/1.20.1.json", httpmock.NewBytesResponder(200, vanilla))
	transport.RegisterResponder("GET", "https://meta.example.com/modded.json", httpmock.NewBytesResponder(200, modded))
	transport.RegisterResponder("GET", "https://meta.example.com/indexes/5.json", httpmock.NewBytesResponder(200, assetIndex))
	transport.RegisterResponder("GET", "https://meta.example.com/client.jar", httpmock.NewBytesResponder(200, clientJar))
	transport.RegisterResponder("GET", "https://libs.example.com/lwjgl.jar", httpmock.NewBytesResponder(200, libJar))
	transport.RegisterResponder("GET", "https://libs.example.com/natives.jar", httpmock.NewBytesResponder(200, nativeJar))
	transport.RegisterResponder("GET", librariesURL+"/net/fabricmc/loader/0.15.0/loader-0.15.0.jar", httpmock.NewBytesResponder(200, loaderJar))
	transport.RegisterResponder("GET", resourcesURL+"/"+HashBytes(assetA)[:2]+"/"+HashBytes(assetA), httpmock.NewBytesResponder(200, assetA))
	transport.RegisterResponder("GET", resourcesURL+"/"+HashBytes(assetB)[:2]+"/"+HashBytes(assetB), httpmock.NewBytesResponder(200, assetB))

	installer := NewInstaller(s, platform,
		WithHTTPClient(client),
		WithEndpoints(Endpoints{ManifestURL: manifestURL, LibrariesURL: librariesURL, ResourcesURL: resourcesURL}),
		WithConcurrency(2),
	)
	return &installFixture{store: s, transport: transport, installer: installer}
}

func TestInstallVersion(t *testing.T) {
	f := newInstallFixture(t, linux64)
	var events []ProgressEvent
	if err := f.installer.InstallVersion(context.Background(), "1.20.1", func(e ProgressEvent) {
		events = append(events, e)
	}); err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{
		"versions/1.20.1/1.20.1.json",
		"versions/1.20.1/1.20.1.jar",
		"versions/1.20.1/natives/liblwjgl.so",
		"libraries/org/lwjgl/lwjgl/3.3.1/lwjgl-3.3.1.jar",
		"libraries/org/lwjgl/lwjgl/3.3.1/lwjgl-3.3.1-natives-linux.jar",
		"assets/indexes/5.json",
	} {
		if ok, err := f.store.Exists(p); err != nil || !ok {
			t.Errorf("expected %s to be installed", p)
		}
	}
	if ok, _ := f.store.Exists("versions/1.20.1/natives/META-INF/MANIFEST.MF"); ok {
		t.Error("excluded native entries should not be extracted")
	}
	if ok, _ := f.store.Exists("libraries/com/example/windows-only/1/windows-only-1.jar"); ok {
		t.Error("libraries for other platforms should not be installed")
	}
	if got := string(readFile(t, f.store, "versions/1.20.1/natives/liblwjgl.so")); got != "native code" {
		t.Errorf("unexpected native content %q", got)
	}

	// manifest, descriptor, two libraries, index, two distinct assets, client
	if n := f.transport.GetTotalCallCount(); n != 8 {
		t.Errorf("expected 8 downloads, got %d", n)
	}
	if len(events) == 0 || events[0].Status != "Fetching version manifest..." || events[len(events)-1].Status != "Installation finished." {
		t.Errorf("unexpected progress events %v", events)
	}
	var assetMax int
	for _, e := range events {
		if e.Status == "Downloading assets..." {
			assetMax = e.Max
		}
		if e.Error {
			t.Error("no error event expected")
		}
	}
	if assetMax != 2 {
		t.Errorf("expected 2 distinct assets, got %d", assetMax)
	}
}

func TestInstallVersionIsIdempotent(t *testing.T) {
	f := newInstallFixture(t, linux64)
	if err := f.installer.InstallVersion(context.Background(), "1.20.1", nil); err != nil {
		t.Fatal(err)
	}
	first := f.transport.GetTotalCallCount()

	if err := f.installer.InstallVersion(context.Background(), "1.20.1", nil); err != nil {
		t.Fatal(err)
	}
	if n := f.transport.GetTotalCallCount(); n != first {
		t.Errorf("second install made %d network requests", n-first)
	}
}

func TestInstallVersionInstallsParent(t *testing.T) {
	f := newInstallFixture(t, linux64)
	if err := f.installer.InstallVersion(context.Background(), "modded-1.20.1", nil); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{
		"versions/1.20.1/1.20.1.json",
		"versions/1.20.1/1.20.1.jar",
		"versions/modded-1.20.1/modded-1.20.1.jar",
		"versions/modded-1.20.1/natives/liblwjgl.so",
		"libraries/net/fabricmc/loader/0.15.0/loader-0.15.0.jar",
	} {
		if ok, err := f.store.Exists(p); err != nil || !ok {
			t.Errorf("expected %s to be installed", p)
		}
	}

	cmd, err := GetLaunchCommand(f.store, linux64, "modded-1.20.1", RuntimeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if cmd[len(cmd)-1] != "Knot" {
		t.Errorf("expected child main class, got %v", cmd)
	}
}

func TestInstallVersionAlias(t *testing.T) {
	f := newInstallFixture(t, linux64)
	if err := f.installer.InstallVersion(context.Background(), AliasLatestRelease, nil); err != nil {
		t.Fatal(err)
	}
	if ok, _ := f.store.Exists("versions/1.20.1/1.20.1.jar"); !ok {
		t.Error("alias should install the latest release")
	}
}

func TestInstallVersionNotFound(t *testing.T) {
	f := newInstallFixture(t, linux64)
	err := f.installer.InstallVersion(context.Background(), "modded-1.20", nil)
	var notFound *VersionNotFoundError
	if !errors.As(err, &notFound) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected version not found, got %v", err)
	}
	if len(notFound.Suggestions) == 0 || notFound.Suggestions[0] != "modded-1.20.1" {
		t.Errorf("expected modded-1.20.1 to be suggested, got %v", notFound.Suggestions)
	}
}

func TestInstallVersionUsesLocalDescriptor(t *testing.T) {
	f := newInstallFixture(t, linux64)
	writeDescriptor(t, f.store, VersionDescriptor{
		ID:           "hand-installed",
		InheritsFrom: "1.20.1",
		MainClass:    "Custom",
	})
	if err := f.installer.InstallVersion(context.Background(), "hand-installed", nil); err != nil {
		t.Fatal(err)
	}
	if ok, _ := f.store.Exists("versions/hand-installed/hand-installed.jar"); !ok {
		t.Error("expected client archive for locally described version")
	}
}

func TestInstallVersionChecksumFailureAborts(t *testing.T) {
	f := newInstallFixture(t, linux64)
	f.transport.RegisterResponder("GET", "https://libs.example.com/lwjgl.jar", httpmock.NewStringResponder(200, "tampered"))
	err := f.installer.InstallVersion(context.Background(), "1.20.1", nil)
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("expected checksum mismatch, got %v", err)
	}
	if ok, _ := f.store.Exists("versions/1.20.1/1.20.1.jar"); ok {
		t.Error("install should abort before the client archive")
	}
}

func TestInstallerCatalogCache(t *testing.T) {
	f := newInstallFixture(t, linux64)
	if _, err := f.installer.Catalog(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := f.installer.Catalog(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := f.transport.GetCallCountInfo()["GET "+manifestURL]; n != 1 {
		t.Errorf("expected the catalog to be fetched once, got %d", n)
	}

	f.installer.CatalogTTL = 0
	if _, err := f.installer.Catalog(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := f.transport.GetCallCountInfo()["GET "+manifestURL]; n != 2 {
		t.Errorf("expected the catalog to be fetched again, got %d", n)
	}
}

func TestInstallVersionManyLibrariesConcurrently(t *testing.T) {
	s := newDiskStore(t)
	client, transport := newMockClient()

	var libs []Library
	for i := 0; i < 60; i++ {
		name := fmt.Sprintf("com.example:lib%d:1.0", i)
		coord, err := ParseCoordinate(name)
		if err != nil {
			t.Fatal(err)
		}
		body := []byte(name)
		transport.RegisterResponder("GET", librariesURL+"/"+coord.Path(), httpmock.NewBytesResponder(200, body))
		libs = append(libs, Library{Name: name, SHA1: HashBytes(body)})
	}
	clientJar := []byte("client classes")
	desc := mustJSON(t, VersionDescriptor{
		ID:        "wide",
		MainClass: "Main",
		Downloads: &VersionDownloads{Client: &Artifact{URL: "https://meta.example.com/wide.jar", SHA1: HashBytes(clientJar)}},
		Libraries: libs,
	})
	catalog := VersionCatalog{Versions: []CatalogEntry{{ID: "wide", Type: "release", URL: "https://meta.example.com/wide.json"}}}
	transport.RegisterResponder("GET", manifestURL, httpmock.NewBytesResponder(200, mustJSON(t, catalog)))
	transport.RegisterResponder("GET", "https://meta.example.com/wide.json", httpmock.NewBytesResponder(200, desc))
	transport.RegisterResponder("GET", "https://meta.example.com/wide.jar", httpmock.NewBytesResponder(200, clientJar))

	installer := NewInstaller(s, linux64,
		WithHTTPClient(client),
		WithEndpoints(Endpoints{ManifestURL: manifestURL, LibrariesURL: librariesURL, ResourcesURL: resourcesURL}),
		WithConcurrency(DefaultConcurrency),
	)
	if err := installer.InstallVersion(context.Background(), "wide", nil); err != nil {
		t.Fatal(err)
	}
	for _, lib := range libs {
		coord, _ := ParseCoordinate(lib.Name)
		if ok, err := s.Exists(s.LibraryPath(coord.Path())); err != nil || !ok {
			t.Errorf("expected %s to be installed", lib.Name)
		}
	}
	if n := transport.GetTotalCallCount(); n != 63 {
		t.Errorf("expected 63 requests, got %d", n)
	}
}

func TestInstallerResolveID(t *testing.T) {
	f := newInstallFixture(t, linux64)
	id, err := f.installer.ResolveID(context.Background(), "1.20")
	if err != nil || id != "1.20" {
		t.Fatalf("expected 1.20 unchanged, got %q (%v)", id, err)
	}
	if n := f.transport.GetTotalCallCount(); n != 0 {
		t.Errorf("concrete ids should not fetch the catalog, made %d requests", n)
	}

	id, err = f.installer.ResolveID(context.Background(), AliasLatestRelease)
	if err != nil {
		t.Fatal(err)
	}
	if id != "1.20.1" {
		t.Errorf("expected latest-release to resolve to 1.20.1, got %s", id)
	}
}
