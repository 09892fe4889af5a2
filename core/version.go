package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// VersionDescriptor is the per-version JSON document stored at versions/<id>/<id>.json
type VersionDescriptor struct {
	ID           string `json:"id"`
	InheritsFrom string `json:"inheritsFrom,omitempty"`
	MainClass    string `json:"mainClass,omitempty"`
	Type         string `json:"type,omitempty"`
	// Assets is the name of the asset index
	Assets string `json:"assets,omitempty"`
	// MinecraftArguments is the legacy space-separated game argument template
	MinecraftArguments string            `json:"minecraftArguments,omitempty"`
	Arguments          *Arguments        `json:"arguments,omitempty"`
	Libraries          []Library         `json:"libraries,omitempty"`
	Downloads          *VersionDownloads `json:"downloads,omitempty"`
	AssetIndex         *AssetIndexRef    `json:"assetIndex,omitempty"`
	JavaVersion        *JavaVersion      `json:"javaVersion,omitempty"`
	ReleaseTime        string            `json:"releaseTime,omitempty"`
	Time               string            `json:"time,omitempty"`
}

// Arguments holds the structured argument lists of modern descriptors
type Arguments struct {
	JVM  []ArgumentItem `json:"jvm"`
	Game []ArgumentItem `json:"game"`
}

// VersionDownloads lists the downloadable archives of a version; only the client is used
type VersionDownloads struct {
	Client *Artifact `json:"client,omitempty"`
	Server *Artifact `json:"server,omitempty"`
}

// AssetIndexRef points to the asset index document of a version
type AssetIndexRef struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	SHA1      string `json:"sha1,omitempty"`
	Size      int64  `json:"size,omitempty"`
	TotalSize int64  `json:"totalSize,omitempty"`
}

type JavaVersion struct {
	Component    string `json:"component,omitempty"`
	MajorVersion int    `json:"majorVersion,omitempty"`
}

// Artifact is a single downloadable file
type Artifact struct {
	Path string `json:"path,omitempty"`
	URL  string `json:"url"`
	SHA1 string `json:"sha1,omitempty"`
	Size int64  `json:"size,omitempty"`
}

// Library is a single classpath entry of a version, optionally carrying native payloads
type Library struct {
	// Name is the Maven coordinate, group:artifact:version[:classifier][@extension]
	Name      string            `json:"name"`
	Downloads *LibraryDownloads `json:"downloads,omitempty"`
	// Natives maps a platform name to the classifier holding its native payload
	Natives map[string]string `json:"natives,omitempty"`
	Extract *ExtractRules     `json:"extract,omitempty"`
	Rules   RuleSet           `json:"rules,omitempty"`
	// URL is the Maven repository base for libraries without a downloads block
	URL  string `json:"url,omitempty"`
	SHA1 string `json:"sha1,omitempty"`
}

type LibraryDownloads struct {
	Artifact    *Artifact           `json:"artifact,omitempty"`
	Classifiers map[string]Artifact `json:"classifiers,omitempty"`
}

// ExtractRules lists path prefixes that are not extracted from a native archive
type ExtractRules struct {
	Exclude []string `json:"exclude,omitempty"`
}

// ArgumentItem is an entry of a structured argument list: either a literal string, or
// a conditional value guarded by rules
type ArgumentItem struct {
	Value StringList
	Rules RuleSet
}

// StringList decodes from either a single JSON string or an array of strings
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = StringList{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("argument value must be a string or a list of strings: %w", err)
	}
	*s = list
	return nil
}

func (s StringList) MarshalJSON() ([]byte, error) {
	if len(s) == 1 {
		return json.Marshal(s[0])
	}
	return json.Marshal([]string(s))
}

func (a *ArgumentItem) UnmarshalJSON(data []byte) error {
	var literal string
	if err := json.Unmarshal(data, &literal); err == nil {
		*a = ArgumentItem{Value: StringList{literal}}
		return nil
	}
	var obj struct {
		Value StringList `json:"value"`
		Rules RuleSet    `json:"rules"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid argument entry: %w", err)
	}
	*a = ArgumentItem{Value: obj.Value, Rules: obj.Rules}
	return nil
}

func (a ArgumentItem) MarshalJSON() ([]byte, error) {
	if len(a.Rules) == 0 && len(a.Value) == 1 {
		return json.Marshal(a.Value[0])
	}
	return json.Marshal(struct {
		Value StringList `json:"value"`
		Rules RuleSet    `json:"rules,omitempty"`
	}{a.Value, a.Rules})
}

// Literal returns an unconditional argument item
func Literal(s string) ArgumentItem {
	return ArgumentItem{Value: StringList{s}}
}

// MainArtifact returns the library's main jar as a path relative to the libraries directory,
// along with its download URL and checksum. ok is false for natives-only entries.
func (l Library) MainArtifact(librariesURL string) (a Artifact, ok bool, err error) {
	if l.Downloads != nil {
		if l.Downloads.Artifact == nil {
			return Artifact{}, false, nil
		}
		a = *l.Downloads.Artifact
		if a.Path == "" {
			coord, err := ParseCoordinate(l.Name)
			if err != nil {
				return Artifact{}, false, err
			}
			a.Path = coord.Path()
		}
		return a, true, nil
	}
	coord, err := ParseCoordinate(l.Name)
	if err != nil {
		return Artifact{}, false, err
	}
	base := l.URL
	if base == "" {
		base = librariesURL
	}
	u, err := JoinURL(base, coord.Path())
	if err != nil {
		return Artifact{}, false, err
	}
	return Artifact{Path: coord.Path(), URL: u, SHA1: l.SHA1}, true, nil
}

// NativeClassifier returns the classifier holding this library's native payload for the platform
func (l Library) NativeClassifier(p Platform) (string, bool) {
	classifier, ok := l.Natives[p.Name]
	if !ok || classifier == "" {
		return "", false
	}
	return strings.ReplaceAll(classifier, "${arch}", p.ArchBits()), true
}

// NativeArtifact returns the native archive for the platform, if this library has one
func (l Library) NativeArtifact(p Platform) (Artifact, bool, error) {
	classifier, ok := l.NativeClassifier(p)
	if !ok {
		return Artifact{}, false, nil
	}
	if l.Downloads == nil {
		return Artifact{}, false, nil
	}
	a, ok := l.Downloads.Classifiers[classifier]
	if !ok {
		return Artifact{}, false, nil
	}
	if a.Path == "" {
		coord, err := ParseCoordinate(l.Name)
		if err != nil {
			return Artifact{}, false, err
		}
		coord.Classifier = classifier
		a.Path = coord.Path()
	}
	return a, true, nil
}

// Coordinate is a parsed Maven coordinate
type Coordinate struct {
	Group      string
	Artifact   string
	Version    string
	Classifier string
	Extension  string
}

// ParseCoordinate parses group:artifact:version[:classifier][@extension]
func ParseCoordinate(name string) (Coordinate, error) {
	c := Coordinate{Extension: "jar"}
	if at := strings.LastIndex(name, "@"); at >= 0 {
		c.Extension = name[at+1:]
		name = name[:at]
	}
	parts := strings.Split(name, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return Coordinate{}, fmt.Errorf("invalid library coordinate %q: %w", name, ErrParse)
	}
	for _, p := range parts {
		if p == "" {
			return Coordinate{}, fmt.Errorf("invalid library coordinate %q: %w", name, ErrParse)
		}
	}
	c.Group, c.Artifact, c.Version = parts[0], parts[1], parts[2]
	if len(parts) == 4 {
		c.Classifier = parts[3]
	}
	return c, nil
}

// Path returns the repository-relative path of the coordinate, using forward slashes
func (c Coordinate) Path() string {
	file := c.Artifact + "-" + c.Version
	if c.Classifier != "" {
		file += "-" + c.Classifier
	}
	file += "." + c.Extension
	return strings.Join([]string{strings.ReplaceAll(c.Group, ".", "/"), c.Artifact, c.Version, file}, "/")
}
