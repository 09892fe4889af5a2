package core

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/exp/slices"
)

// DefaultLibrariesURL is the Maven repository used for libraries without explicit download URLs
const DefaultLibrariesURL = "https://libraries.minecraft.net"

// DefaultCatalogTTL is how long an installer reuses a fetched version catalog
const DefaultCatalogTTL = 10 * time.Minute

// Endpoints are the upstream hosts an installer downloads from
type Endpoints struct {
	ManifestURL  string
	LibrariesURL string
	ResourcesURL string
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		ManifestURL:  DefaultManifestURL,
		LibrariesURL: DefaultLibrariesURL,
		ResourcesURL: DefaultResourcesURL,
	}
}

// ProgressEvent reports installation progress. Status announces a new phase; Max, when set,
// is the number of items in that phase, and Progress the number completed so far. Error is set
// only on the final event of a failed installation.
type ProgressEvent struct {
	Status   string `json:"status,omitempty"`
	Max      int    `json:"max,omitempty"`
	Progress int    `json:"progress,omitempty"`
	Error    bool   `json:"error,omitempty"`
}

type ProgressFunc func(ProgressEvent)

// NoProgress discards progress events
func NoProgress(ProgressEvent) {}

// Installer populates a Store with everything needed to launch a version
type Installer struct {
	Store       *Store
	Platform    Platform
	Endpoints   Endpoints
	Concurrency int
	Client      *http.Client
	Logger      hclog.Logger
	CatalogTTL  time.Duration

	fetcher *Fetcher
	now     func() time.Time

	catalogLock sync.Mutex
	catalog     *VersionCatalog
	catalogAt   time.Time
}

// InstallerOption configures an Installer
type InstallerOption func(*Installer)

func WithEndpoints(e Endpoints) InstallerOption {
	return func(i *Installer) {
		if e.ManifestURL != "" {
			i.Endpoints.ManifestURL = e.ManifestURL
		}
		if e.LibrariesURL != "" {
			i.Endpoints.LibrariesURL = e.LibrariesURL
		}
		if e.ResourcesURL != "" {
			i.Endpoints.ResourcesURL = e.ResourcesURL
		}
	}
}

// WithConcurrency sets the download batch size
func WithConcurrency(n int) InstallerOption {
	return func(i *Installer) {
		if n > 0 {
			i.Concurrency = n
		}
	}
}

func WithHTTPClient(c *http.Client) InstallerOption {
	return func(i *Installer) {
		if c != nil {
			i.Client = c
		}
	}
}

func WithLogger(l hclog.Logger) InstallerOption {
	return func(i *Installer) {
		if l != nil {
			i.Logger = l
		}
	}
}

// WithCatalogTTL sets how long a fetched catalog is reused; zero disables reuse
func WithCatalogTTL(ttl time.Duration) InstallerOption {
	return func(i *Installer) {
		i.CatalogTTL = ttl
	}
}

// NewInstaller returns an Installer for the given store and platform
func NewInstaller(store *Store, platform Platform, opts ...InstallerOption) *Installer {
	i := &Installer{
		Store:       store,
		Platform:    platform,
		Endpoints:   DefaultEndpoints(),
		Concurrency: DefaultConcurrency,
		Client:      http.DefaultClient,
		Logger:      hclog.NewNullLogger(),
		CatalogTTL:  DefaultCatalogTTL,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.fetcher = NewFetcher(store.FS, i.Client, i.Logger.Named("fetcher"))
	return i
}

// Catalog returns the version catalog, fetching it unless a copy younger than CatalogTTL is held
func (i *Installer) Catalog(ctx context.Context) (VersionCatalog, error) {
	i.catalogLock.Lock()
	defer i.catalogLock.Unlock()
	if i.catalog != nil && i.now().Sub(i.catalogAt) < i.CatalogTTL {
		return *i.catalog, nil
	}
	catalog, err := FetchCatalog(ctx, i.Client, i.Endpoints.ManifestURL)
	if err != nil {
		return VersionCatalog{}, err
	}
	i.catalog = &catalog
	i.catalogAt = i.now()
	return catalog, nil
}

// InstallVersion downloads the descriptor, libraries, natives, assets and client archive of a
// version, installing its parent first if the parent's descriptor is missing. Files already present
// with the right checksum are not downloaded again, so an interrupted install can be rerun.
func (i *Installer) InstallVersion(ctx context.Context, id string, progress ProgressFunc) error {
	if progress == nil {
		progress = NoProgress
	}
	return i.installVersion(ctx, id, progress, nil)
}

// ResolveID maps an alias onto a concrete version id using the catalog. Other ids are
// returned unchanged without touching the network.
func (i *Installer) ResolveID(ctx context.Context, id string) (string, error) {
	if !IsAlias(id) {
		return id, nil
	}
	catalog, err := i.Catalog(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch version manifest: %w", err)
	}
	return catalog.ResolveAlias(id), nil
}

func (i *Installer) installVersion(ctx context.Context, id string, progress ProgressFunc, chain []string) error {
	progress(ProgressEvent{Status: "Fetching version manifest..."})
	catalog, err := i.Catalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch version manifest: %w", err)
	}
	id = catalog.ResolveAlias(id)
	if slices.Contains(chain, id) {
		return fmt.Errorf("inheritance cycle through version %s: %w", id, ErrParse)
	}

	descPath := i.Store.VersionJSONPath(id)
	if entry, ok := catalog.Find(id); ok {
		progress(ProgressEvent{Status: fmt.Sprintf("Downloading %s.json...", id)})
		if err := i.fetcher.Fetch(ctx, entry.URL, descPath, entry.SHA1); err != nil {
			return fmt.Errorf("failed to download descriptor for %s: %w", id, err)
		}
	} else {
		exists, err := i.Store.Exists(descPath)
		if err != nil {
			return err
		}
		if !exists {
			return &VersionNotFoundError{ID: id, Suggestions: catalog.Suggest(id)}
		}
		i.Logger.Info("version not in catalog, using local descriptor", "version", id)
	}

	desc, err := i.Store.LoadVersion(id)
	if err != nil {
		return err
	}
	if desc.InheritsFrom != "" {
		progress(ProgressEvent{Status: fmt.Sprintf("Handling inheritance from %s", desc.InheritsFrom)})
		parentExists, err := i.Store.Exists(i.Store.VersionJSONPath(desc.InheritsFrom))
		if err != nil {
			return err
		}
		if !parentExists {
			if err := i.installVersion(ctx, desc.InheritsFrom, NoProgress, append(chain, id)); err != nil {
				return fmt.Errorf("failed to install parent %s of %s: %w", desc.InheritsFrom, id, err)
			}
		}
		desc, err = i.Store.ResolveVersion(id)
		if err != nil {
			return err
		}
	}

	if err := i.installLibraries(ctx, desc, progress); err != nil {
		return err
	}
	if err := i.installAssets(ctx, desc, progress); err != nil {
		return err
	}
	if desc.Downloads != nil && desc.Downloads.Client != nil {
		progress(ProgressEvent{Status: "Downloading client.jar..."})
		client := desc.Downloads.Client
		if err := i.fetcher.Fetch(ctx, client.URL, i.Store.VersionJarPath(id), client.SHA1); err != nil {
			return fmt.Errorf("failed to download client archive for %s: %w", id, err)
		}
	}
	progress(ProgressEvent{Status: "Installation finished."})
	return nil
}

func (i *Installer) installLibraries(ctx context.Context, desc VersionDescriptor, progress ProgressFunc) error {
	libs := FilterLibraries(desc.Libraries, i.Platform)
	progress(ProgressEvent{Status: "Downloading libraries...", Max: len(libs)})
	nativesDir := i.Store.NativesPath(desc.ID)

	return RunBatches(libs, i.Concurrency, func(lib Library) error {
		artifact, ok, err := lib.MainArtifact(i.Endpoints.LibrariesURL)
		if err != nil {
			return err
		}
		if ok {
			if err := i.fetcher.Fetch(ctx, artifact.URL, i.Store.LibraryPath(artifact.Path), artifact.SHA1); err != nil {
				return fmt.Errorf("failed to download library %s: %w", lib.Name, err)
			}
		}

		native, ok, err := lib.NativeArtifact(i.Platform)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		nativePath := i.Store.LibraryPath(native.Path)
		if err := i.fetcher.Fetch(ctx, native.URL, nativePath, native.SHA1); err != nil {
			return fmt.Errorf("failed to download natives of %s: %w", lib.Name, err)
		}
		var exclude []string
		if lib.Extract != nil {
			exclude = lib.Extract.Exclude
		}
		if err := ExtractNatives(i.Store.FS, nativePath, nativesDir, exclude); err != nil {
			i.Logger.Warn("could not extract natives", "library", lib.Name, "error", err)
		}
		return nil
	}, func(completed int) {
		progress(ProgressEvent{Progress: completed})
	})
}

func (i *Installer) installAssets(ctx context.Context, desc VersionDescriptor, progress ProgressFunc) error {
	if desc.AssetIndex == nil {
		return nil
	}
	name := desc.Assets
	if name == "" {
		name = desc.AssetIndex.ID
	}
	if err := i.fetcher.Fetch(ctx, desc.AssetIndex.URL, i.Store.AssetIndexPath(name), desc.AssetIndex.SHA1); err != nil {
		return fmt.Errorf("failed to download asset index %s: %w", name, err)
	}
	idx, err := i.Store.loadAssetIndex(name)
	if err != nil {
		return err
	}
	objects := idx.DistinctObjects()
	progress(ProgressEvent{Status: "Downloading assets...", Max: len(objects)})

	return RunBatches(objects, i.Concurrency, func(obj AssetObject) error {
		u, err := JoinURL(i.Endpoints.ResourcesURL, obj.Hash[:2]+"/"+obj.Hash)
		if err != nil {
			return err
		}
		if err := i.fetcher.Fetch(ctx, u, i.Store.AssetObjectPath(obj.Hash), obj.Hash); err != nil {
			return fmt.Errorf("failed to download asset %s: %w", obj.Hash, err)
		}
		return nil
	}, func(completed int) {
		progress(ProgressEvent{Progress: completed})
	})
}
