package docsync

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/gestiongasto/internal/graph"
)

// fakeDrive is an in-memory document library keyed by logical path.
type fakeDrive struct {
	sites   []graph.Site
	siteErr error

	items  map[string]*graph.DriveItem
	byID   map[string]string
	nextID int

	thumbs   map[string][]graph.ThumbnailSet
	thumbErr error

	getErr     error
	createErr  error
	searchErr  error
	listErr    error
	putFailOn  map[int]error
	searchHits map[string][]graph.DriveItem

	creates  int
	puts     int
	searches []string
	deleted  []string
	siteIDs  []string
}

func newFakeDrive() *fakeDrive {
	return &fakeDrive{
		sites:  []graph.Site{{ID: "site-1", Name: "gestiongasto"}},
		items:  map[string]*graph.DriveItem{},
		byID:   map[string]string{},
		thumbs: map[string][]graph.ThumbnailSet{},
	}
}

func decodePath(enc string) string {
	if enc == "" {
		return ""
	}
	parts := strings.Split(enc, "/")
	for i, p := range parts {
		d, err := url.PathUnescape(p)
		if err != nil {
			panic(err)
		}
		parts[i] = d
	}
	return strings.Join(parts, "/")
}

func notFound() error {
	return &graph.Error{StatusCode: http.StatusNotFound, Code: "itemNotFound"}
}

func (f *fakeDrive) add(logical string, folder bool, mime string) *graph.DriveItem {
	f.nextID++
	it := &graph.DriveItem{
		ID:              fmt.Sprintf("item-%d", f.nextID),
		Name:            path.Base(logical),
		WebURL:          "https://contoso.sharepoint.com/" + logical,
		CreatedDateTime: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
	}
	if folder {
		it.Folder = &graph.FolderFacet{}
	} else {
		it.File = &graph.FileFacet{MimeType: mime}
		it.DownloadURL = "https://download.example/" + it.ID
	}
	f.items[logical] = it
	f.byID[it.ID] = logical
	return it
}

// mkdirAll seeds folders without counting creations.
func (f *fakeDrive) mkdirAll(logical string) *graph.DriveItem {
	var cur string
	var it *graph.DriveItem
	for _, s := range strings.Split(logical, "/") {
		if cur == "" {
			cur = s
		} else {
			cur += "/" + s
		}
		if existing, ok := f.items[cur]; ok {
			it = existing
			continue
		}
		it = f.add(cur, true, "")
	}
	return it
}

func (f *fakeDrive) children(parent string) []graph.DriveItem {
	var out []graph.DriveItem
	for p, it := range f.items {
		dir := path.Dir(p)
		if dir == "." {
			dir = ""
		}
		if dir == parent {
			c := *it
			c.Thumbnails = f.thumbs[it.ID]
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (f *fakeDrive) SearchSites(_ context.Context, _ string) ([]graph.Site, error) {
	return f.sites, f.siteErr
}

func (f *fakeDrive) GetItemByPath(_ context.Context, siteID, encodedPath string) (*graph.DriveItem, error) {
	f.siteIDs = append(f.siteIDs, siteID)
	if f.getErr != nil {
		return nil, f.getErr
	}
	it, ok := f.items[decodePath(encodedPath)]
	if !ok {
		return nil, notFound()
	}
	c := *it
	return &c, nil
}

func (f *fakeDrive) CreateFolder(_ context.Context, _, encodedParent, name string) (*graph.DriveItem, error) {
	f.creates++
	if f.createErr != nil {
		return nil, f.createErr
	}
	parent := decodePath(encodedParent)
	under := func(n string) string {
		if parent == "" {
			return n
		}
		return parent + "/" + n
	}
	logical := under(name)
	for i := 1; ; i++ {
		if _, ok := f.items[logical]; !ok {
			break
		}
		logical = under(fmt.Sprintf("%s %d", name, i))
	}
	c := *f.add(logical, true, "")
	return &c, nil
}

func (f *fakeDrive) PutContent(_ context.Context, _, encodedPath string, content []byte) (*graph.DriveItem, error) {
	f.puts++
	if err := f.putFailOn[f.puts]; err != nil {
		return nil, err
	}
	logical := decodePath(encodedPath)
	if _, ok := f.items[path.Dir(logical)]; !ok {
		return nil, notFound()
	}
	mime := "application/octet-stream"
	if strings.HasSuffix(logical, ".png") {
		mime = "image/png"
	}
	it := f.add(logical, false, mime)
	it.Size = int64(len(content))
	c := *it
	return &c, nil
}

func (f *fakeDrive) GetItem(_ context.Context, _, itemID string) (*graph.DriveItem, error) {
	p, ok := f.byID[itemID]
	if !ok {
		return nil, notFound()
	}
	c := *f.items[p]
	return &c, nil
}

func (f *fakeDrive) GetThumbnails(_ context.Context, _, itemID string) ([]graph.ThumbnailSet, error) {
	if f.thumbErr != nil {
		return nil, f.thumbErr
	}
	return f.thumbs[itemID], nil
}

func (f *fakeDrive) ListChildrenByPath(_ context.Context, _, encodedPath string) ([]graph.DriveItem, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	logical := decodePath(encodedPath)
	if _, ok := f.items[logical]; !ok && logical != "" {
		return nil, notFound()
	}
	return f.children(logical), nil
}

func (f *fakeDrive) ListChildren(_ context.Context, _, itemID string) ([]graph.DriveItem, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	p, ok := f.byID[itemID]
	if !ok {
		return nil, notFound()
	}
	return f.children(p), nil
}

// SearchItems matches names containing the query below the folder, unless
// canned hits were registered for the query.
func (f *fakeDrive) SearchItems(_ context.Context, _, encodedFolder, query string) ([]graph.DriveItem, error) {
	f.searches = append(f.searches, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if hits, ok := f.searchHits[query]; ok {
		return hits, nil
	}
	base := decodePath(encodedFolder) + "/"
	var out []graph.DriveItem
	for p, it := range f.items {
		if strings.HasPrefix(p, base) && strings.Contains(strings.ToLower(it.Name), strings.ToLower(query)) {
			out = append(out, *it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeDrive) DeleteItem(_ context.Context, _, itemID string) error {
	p, ok := f.byID[itemID]
	if !ok {
		return notFound()
	}
	delete(f.items, p)
	delete(f.byID, itemID)
	f.deleted = append(f.deleted, itemID)
	return nil
}
