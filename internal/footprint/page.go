package footprint

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Site identifiers.
const (
	SiteEsa     = "esa"
	SiteKibela  = "kibela"
	SiteUnknown = "unknown"
)

// Content kinds.
const (
	KindPost         = "post"
	KindCategory     = "category"
	KindTop          = "top"
	KindNote         = "note"
	KindFolderTop    = "folderTop"
	KindFolderOthers = "folderOthers"
	KindUnknown      = "unknown"
)

// PageMetaData describes which site, team and kind of page a URL points at.
// ContentKind and TeamID are empty when SiteID is SiteUnknown.
type PageMetaData struct {
	SiteID      string `json:"siteId"`
	ContentKind string `json:"contentKind,omitempty"`
	TeamID      string `json:"teamId,omitempty"`
}

// Scope returns the history scope the page belongs to.
func (m PageMetaData) Scope() Scope {
	return Scope{SiteID: m.SiteID, TeamID: m.TeamID}
}

// Scope identifies one history list: a team on a site.
type Scope struct {
	SiteID string `json:"siteId"`
	TeamID string `json:"teamId"`
}

// FootprintsKey is the storage key of the scope's history.
func (s Scope) FootprintsKey() string {
	return fmt.Sprintf("footprints_%s_%s", s.SiteID, s.TeamID)
}

func (s Scope) String() string {
	return s.SiteID + "/" + s.TeamID
}

// Validate checks that the scope names a supported site and a team.
func (s Scope) Validate() error {
	if s.SiteID != SiteEsa && s.SiteID != SiteKibela {
		return fmt.Errorf("%w: %q", ErrUnknownSite, s.SiteID)
	}
	if s.TeamID == "" {
		return fmt.Errorf("team is required")
	}
	return nil
}

// ParseFootprintsKey is the inverse of Scope.FootprintsKey.
func ParseFootprintsKey(key string) (Scope, bool) {
	rest, ok := strings.CutPrefix(key, "footprints_")
	if !ok {
		return Scope{}, false
	}
	site, team, ok := strings.Cut(rest, "_")
	if !ok || site == "" || team == "" {
		return Scope{}, false
	}
	return Scope{SiteID: site, TeamID: team}, true
}

var (
	esaHost    = regexp.MustCompile(`^([^.]+)\.esa\.io$`)
	kibelaHost = regexp.MustCompile(`^([^.]+)\.kibe\.la$`)
	esaPost    = regexp.MustCompile(`^/posts/\d+$`)
	kibelaNote = regexp.MustCompile(`^/notes/\d+$`)
)

// ClassifyPage inspects a page URL.
func ClassifyPage(rawURL string) PageMetaData {
	u, err := url.Parse(rawURL)
	if err != nil {
		return PageMetaData{SiteID: SiteUnknown}
	}
	host := u.Hostname()
	path := u.EscapedPath()

	if m := esaHost.FindStringSubmatch(host); m != nil {
		meta := PageMetaData{SiteID: SiteEsa, TeamID: m[1], ContentKind: KindUnknown}
		switch {
		case esaPost.MatchString(path):
			meta.ContentKind = KindPost
		case (path == "" || path == "/") && strings.HasPrefix(u.Fragment, "path="):
			meta.ContentKind = KindCategory
		case path == "" || path == "/":
			meta.ContentKind = KindTop
		}
		return meta
	}

	if m := kibelaHost.FindStringSubmatch(host); m != nil {
		meta := PageMetaData{SiteID: SiteKibela, TeamID: m[1], ContentKind: KindUnknown}
		switch {
		case kibelaNote.MatchString(path):
			meta.ContentKind = KindNote
		case path == "/notes/folder":
			meta.ContentKind = KindFolderTop
		case strings.HasPrefix(path, "/notes/folder/"):
			meta.ContentKind = KindFolderOthers
		}
		return meta
	}

	return PageMetaData{SiteID: SiteUnknown}
}

// NormalizePageURL keeps only the origin and path of a page URL.
func NormalizePageURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse page url: %w", err)
	}
	return origin(u) + u.EscapedPath(), nil
}

func origin(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

// SplitKibelaFolderPath splits the text of a Kibela folder indicator into
// folder names.
func SplitKibelaFolderPath(text string) []string {
	dirs := []string{}
	for _, part := range strings.Split(text, "/") {
		if p := strings.TrimSpace(part); p != "" {
			dirs = append(dirs, p)
		}
	}
	return dirs
}

// EsaCategoryFootprint builds the footprint of an esa category page from the
// page origin and its "#path=..." hash.
func EsaCategoryFootprint(pageOrigin, hash string) (Footprint, error) {
	encoded := strings.TrimPrefix(strings.TrimPrefix(hash, "#"), "path=")
	categoryPath, err := url.PathUnescape(encoded)
	if err != nil {
		return Footprint{}, fmt.Errorf("decode esa category path: %w", err)
	}
	if !strings.HasPrefix(hash, "#") {
		hash = "#" + hash
	}
	return Footprint{
		Directories: SplitKibelaFolderPath(categoryPath),
		URL:         strings.TrimSuffix(pageOrigin, "/") + "/" + hash,
	}, nil
}

// KibelaFolderFootprint builds the footprint of a Kibela folder page. Only the
// group_id query parameter is kept in the URL since folder paths are unique
// per group.
func KibelaFolderFootprint(rawURL string) (Footprint, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Footprint{}, fmt.Errorf("parse kibela folder url: %w", err)
	}
	escaped := strings.TrimPrefix(u.EscapedPath(), "/notes/folder/")
	folder, err := url.PathUnescape(escaped)
	if err != nil {
		return Footprint{}, fmt.Errorf("decode kibela folder path: %w", err)
	}
	query := ""
	if groupID := u.Query().Get("group_id"); groupID != "" {
		query = "?group_id=" + url.QueryEscape(groupID)
	}
	return Footprint{
		Directories: SplitKibelaFolderPath(folder),
		URL:         origin(u) + u.EscapedPath() + query,
	}, nil
}

// Visit is a page visit reported by the browser.
type Visit struct {
	URL         string   `json:"url"`
	Name        string   `json:"name,omitempty"`
	Directories []string `json:"directories,omitempty"`
}

// FromVisit classifies the visited page and builds its footprint. Category and
// folder pages derive their footprint from the URL; posts and notes need the
// scraped name.
func FromVisit(v Visit) (Scope, Footprint, error) {
	meta := ClassifyPage(v.URL)
	scope := meta.Scope()
	switch meta.SiteID {
	case SiteEsa:
		switch meta.ContentKind {
		case KindPost:
			fp, err := namedFootprint(v)
			return scope, fp, err
		case KindCategory:
			u, err := url.Parse(v.URL)
			if err != nil {
				return scope, Footprint{}, fmt.Errorf("parse esa url: %w", err)
			}
			fp, err := EsaCategoryFootprint(origin(u), "#"+u.EscapedFragment())
			return scope, fp, err
		}
	case SiteKibela:
		switch meta.ContentKind {
		case KindNote:
			fp, err := namedFootprint(v)
			return scope, fp, err
		case KindFolderOthers:
			fp, err := KibelaFolderFootprint(v.URL)
			return scope, fp, err
		}
	default:
		return scope, Footprint{}, fmt.Errorf("%w: %s", ErrUnknownSite, v.URL)
	}
	return scope, Footprint{}, fmt.Errorf("%w: %s %s", ErrUnknownPage, meta.SiteID, meta.ContentKind)
}

func namedFootprint(v Visit) (Footprint, error) {
	if strings.TrimSpace(v.Name) == "" {
		return Footprint{}, ErrMissingName
	}
	pageURL, err := NormalizePageURL(v.URL)
	if err != nil {
		return Footprint{}, err
	}
	dirs := make([]string, 0, len(v.Directories))
	for _, d := range v.Directories {
		if d = strings.TrimSpace(d); d != "" {
			dirs = append(dirs, d)
		}
	}
	return Footprint{Directories: dirs, Name: v.Name, URL: pageURL}, nil
}
