package update

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	semver3 "github.com/blang/semver"
	semver "github.com/blang/semver/v4"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

// Slug is the GitHub repository releases are published to.
const Slug = "droidaudit/droidaudit"

const (
	cacheFileName = "update.json"
	cacheTTL      = 24 * time.Hour
)

type cache struct {
	LastChecked time.Time `json:"last_checked"`
	Latest      string    `json:"latest"`
}

// Checker looks up the latest release and remembers the answer for a day.
type Checker struct {
	// Dir holds the cache file; empty disables caching.
	Dir string
	// Detect finds the latest release; defaults to selfupdate.DetectLatest.
	Detect func(slug string) (*selfupdate.Release, bool, error)
	Now    func() time.Time
}

// ConfigDir is the per-user directory the update cache lives in.
func ConfigDir() string {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "droidaudit")
	}
	home, _ := os.UserHomeDir()
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "droidaudit")
}

// Check returns (latest, isNewer, error) using the default Checker. It never
// touches the network in CI or when noNetwork is set.
func Check(current string, noNetwork bool) (string, bool, error) {
	if os.Getenv("CI") != "" || noNetwork {
		return "", false, nil
	}
	return (&Checker{Dir: ConfigDir()}).Check(current)
}

// Check compares current against the latest release, consulting the cache
// before the network. A failed lookup leaves the cached answer in place.
func (c *Checker) Check(current string) (string, bool, error) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	detect := selfupdate.DetectLatest
	if c.Detect != nil {
		detect = c.Detect
	}

	st, _ := c.load()
	var lookupErr error
	if st.Latest == "" || now().Sub(st.LastChecked) > cacheTTL {
		rel, found, err := detect(Slug)
		switch {
		case err != nil:
			lookupErr = err
		case found:
			st = cache{LastChecked: now(), Latest: rel.Version.String()}
			c.save(st)
		}
	}
	if st.Latest == "" {
		return "", false, lookupErr
	}
	return st.Latest, Newer(st.Latest, current), nil
}

// Newer reports whether latest is a higher semantic version than current.
// Unparseable versions are never newer.
func Newer(latest, current string) bool {
	l, err := semver.ParseTolerant(latest)
	if err != nil {
		return false
	}
	c, err := semver.ParseTolerant(current)
	if err != nil {
		return false
	}
	return l.GT(c)
}

// Apply replaces the running executable with the latest release and returns
// the version now installed.
func Apply(current string) (string, error) {
	v, err := semver.ParseTolerant(current)
	if err != nil {
		v = semver.MustParse("0.0.0")
	}
	rel, err := selfupdate.UpdateSelf(semver3.MustParse(v.String()), Slug)
	if err != nil {
		return "", err
	}
	return rel.Version.String(), nil
}

func (c *Checker) load() (cache, error) {
	var st cache
	if c.Dir == "" {
		return st, errors.New("no config dir")
	}
	b, err := os.ReadFile(filepath.Join(c.Dir, cacheFileName))
	if err != nil {
		return st, err
	}
	err = json.Unmarshal(b, &st)
	return st, err
}

func (c *Checker) save(st cache) {
	if c.Dir == "" {
		return
	}
	_ = os.MkdirAll(c.Dir, 0o755)
	b, _ := json.MarshalIndent(st, "", "  ")
	_ = os.WriteFile(filepath.Join(c.Dir, cacheFileName), b, 0o644)
}
