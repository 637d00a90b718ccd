package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gestiongasto/internal/client/config"
	"github.com/dmitrijs2005/gestiongasto/internal/common"
	"github.com/dmitrijs2005/gestiongasto/internal/logging"
	"github.com/dmitrijs2005/gestiongasto/internal/models"
)

type fakeStore struct {
	Store

	uploaded  []string
	basePath  string
	entityID  string
	failNames map[string]bool
	files     map[string][]models.RemoteFile
	items     map[string]models.RemoteFile
	folderFor map[string]string
	deleted   []string
	created   []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		failNames: map[string]bool{},
		files:     map[string][]models.RemoteFile{},
		items:     map[string]models.RemoteFile{},
		folderFor: map[string]string{},
	}
}

func (f *fakeStore) UploadMultipleFiles(_ context.Context, files []models.Upload, basePath, entityID string) *models.BatchResult {
	f.basePath, f.entityID = basePath, entityID
	res := &models.BatchResult{Succeeded: []models.RemoteFile{}, Failed: []models.UploadFailure{}}
	for _, u := range files {
		b, _ := io.ReadAll(u.Content)
		if f.failNames[u.Name] {
			res.Failed = append(res.Failed, models.UploadFailure{Name: u.Name, Error: "upload failed"})
			continue
		}
		f.uploaded = append(f.uploaded, u.Name+"="+string(b))
		res.Succeeded = append(res.Succeeded, models.RemoteFile{ID: "id-" + u.Name, Name: u.Name, Size: int64(len(b))})
	}
	return res
}

func (f *fakeStore) ListFiles(_ context.Context, folderPath string) ([]models.RemoteFile, error) {
	files, ok := f.files[folderPath]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return files, nil
}

func (f *fakeStore) GetFile(_ context.Context, id string) (*models.RemoteFile, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &it, nil
}

func (f *fakeStore) DeleteFile(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) CreateFolderIfNotExists(_ context.Context, folderPath string) error {
	f.created = append(f.created, folderPath)
	return nil
}

func (f *fakeStore) FindFolderForEntity(_ context.Context, entityID, _ string) (string, bool, error) {
	if entityID == "" {
		return "", false, common.ErrInvalidEntityID
	}
	id, ok := f.folderFor[entityID]
	return id, ok, nil
}

func (f *fakeStore) ListFilesForEntity(_ context.Context, entityID, _ string) ([]models.RemoteFile, error) {
	return f.files["entity:"+entityID], nil
}

func newTestApp(store Store, input string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return &App{
		config: cfg,
		store:  store,
		logger: logging.Discard(),
		reader: rdr(input),
		out:    &out,
	}, &out
}

func stubFiles(t *testing.T, contents map[string]string) {
	t.Helper()
	old := openFile
	t.Cleanup(func() { openFile = old })
	openFile = func(name string) (io.ReadCloser, error) {
		c, ok := contents[name]
		if !ok {
			return nil, errors.New("open " + name + ": no such file")
		}
		return io.NopCloser(strings.NewReader(c)), nil
	}
}

func TestRun_Upload(t *testing.T) {
	stubFiles(t, map[string]string{"/tmp/a.pdf": "AAA", "/tmp/b.png": "BB"})
	st := newFakeStore()
	app, out := newTestApp(st, "")

	err := app.Run(context.Background(), []string{"upload", "42", "/tmp/a.pdf", "/tmp/b.png"}, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.pdf=AAA", "b.png=BB"}, st.uploaded)
	assert.Equal(t, "/GestionGasto/Archivos", st.basePath)
	assert.Equal(t, "42", st.entityID)
	assert.Contains(t, out.String(), "id-a.pdf")
	assert.Contains(t, out.String(), "id-b.png")
}

func TestRun_UploadPartialFailure(t *testing.T) {
	stubFiles(t, map[string]string{"a.pdf": "A", "bad.pdf": "B"})
	st := newFakeStore()
	st.failNames["bad.pdf"] = true
	app, out := newTestApp(st, "")

	err := app.Run(context.Background(), []string{"upload", "42", "a.pdf", "bad.pdf"}, false)
	assert.ErrorContains(t, err, "1 of 2 uploads failed")
	assert.Contains(t, out.String(), "FAILED\tbad.pdf\tupload failed")
}

func TestRun_UploadMissingFile(t *testing.T) {
	stubFiles(t, map[string]string{})
	app, _ := newTestApp(newFakeStore(), "")

	err := app.Run(context.Background(), []string{"upload", "42", "nope.pdf"}, false)
	assert.ErrorContains(t, err, "no such file")
}

func TestRun_ListAndFiles(t *testing.T) {
	st := newFakeStore()
	st.files["/Docs"] = []models.RemoteFile{{ID: "f1", Name: "2024", MimeType: ""}, {ID: "f2", Name: "a.pdf", MimeType: "application/pdf", Size: 10}}
	st.files["entity:42"] = []models.RemoteFile{{ID: "f3", Name: "x.png"}}
	app, out := newTestApp(st, "")

	require.NoError(t, app.Run(context.Background(), []string{"list", "/Docs"}, false))
	assert.Contains(t, out.String(), "f1")
	assert.Contains(t, out.String(), "application/pdf")

	out.Reset()
	require.NoError(t, app.Run(context.Background(), []string{"files", "42"}, false))
	assert.Contains(t, out.String(), "x.png")

	err := app.Run(context.Background(), []string{"list", "/Missing"}, false)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRun_Find(t *testing.T) {
	st := newFakeStore()
	st.folderFor["42"] = "folder-42"
	app, out := newTestApp(st, "")

	require.NoError(t, app.Run(context.Background(), []string{"find", "42"}, false))
	assert.Equal(t, "folder-42\n", out.String())

	out.Reset()
	require.NoError(t, app.Run(context.Background(), []string{"find", "7"}, false))
	assert.Equal(t, "no folder for 7\n", out.String())
}

func TestRun_Get(t *testing.T) {
	st := newFakeStore()
	st.items["i1"] = models.RemoteFile{ID: "i1", Name: "a.png", ThumbnailURL: "https://thumb/1"}
	app, out := newTestApp(st, "")

	require.NoError(t, app.Run(context.Background(), []string{"get", "i1"}, false))
	assert.Contains(t, out.String(), "thumbnail: https://thumb/1")

	assert.ErrorIs(t, app.Run(context.Background(), []string{"get", "zz"}, false), common.ErrorNotFound)
}

func TestRun_DeleteConfirmation(t *testing.T) {
	st := newFakeStore()

	app, out := newTestApp(st, "n\n")
	require.NoError(t, app.Run(context.Background(), []string{"delete", "i1"}, false))
	assert.Empty(t, st.deleted)
	assert.Contains(t, out.String(), "cancelled")

	app, _ = newTestApp(st, "y\n")
	require.NoError(t, app.Run(context.Background(), []string{"delete", "i1"}, false))
	assert.Equal(t, []string{"i1"}, st.deleted)

	app, _ = newTestApp(st, "")
	require.NoError(t, app.Run(context.Background(), []string{"delete", "i2"}, true))
	assert.Equal(t, []string{"i1", "i2"}, st.deleted)
}

func TestRun_Mkdir(t *testing.T) {
	st := newFakeStore()
	app, out := newTestApp(st, "")

	require.NoError(t, app.Run(context.Background(), []string{"mkdir", "/A/B"}, false))
	assert.Equal(t, []string{"/A/B"}, st.created)
	assert.Equal(t, "ok /A/B\n", out.String())
}

func TestRun_Usage(t *testing.T) {
	app, _ := newTestApp(newFakeStore(), "")

	for _, args := range [][]string{
		{},
		{"frobnicate"},
		{"upload", "42"},
		{"list"},
		{"find"},
		{"files", "a", "b"},
		{"get"},
		{"delete"},
		{"mkdir"},
	} {
		err := app.Run(context.Background(), args, false)
		assert.ErrorIs(t, err, errUsage, "args %v", args)
	}
}

func stubStore(t *testing.T, st Store, gotToken *string) {
	t.Helper()
	old := newStore
	t.Cleanup(func() { newStore = old })
	newStore = func(_ context.Context, cfg *config.Config, _ logging.Logger) (Store, error) {
		if gotToken != nil {
			*gotToken = cfg.Token
		}
		if st == nil {
			return nil, common.ErrSiteNotFound
		}
		return st, nil
	}
}

func cliConfig(token string) *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.GraphTimeout = time.Second
	cfg.Token = token
	return cfg
}

func TestMain_UsesConfiguredToken(t *testing.T) {
	st := newFakeStore()
	var token string
	stubStore(t, st, &token)

	var out, errOut bytes.Buffer
	code := Main(context.Background(), cliConfig("cfg-token"), []string{"-token", "cfg-token", "mkdir", "/A"}, rdr(""), &out, &errOut)

	assert.Equal(t, 0, code, errOut.String())
	assert.Equal(t, "cfg-token", token)
	assert.Equal(t, []string{"/A"}, st.created)
}

func TestMain_PromptsForToken(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return []byte("typed"), nil }

	var token string
	stubStore(t, newFakeStore(), &token)

	var out, errOut bytes.Buffer
	code := Main(context.Background(), cliConfig(""), []string{"find", "42"}, rdr(""), &out, &errOut)

	assert.Equal(t, 0, code, errOut.String())
	assert.Equal(t, "typed", token)
}

func TestMain_EmptyPromptedToken(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return []byte("  "), nil }
	stubStore(t, newFakeStore(), nil)

	var out, errOut bytes.Buffer
	code := Main(context.Background(), cliConfig(""), []string{"find", "42"}, rdr(""), &out, &errOut)

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), errNoToken.Error())
}

func TestMain_ForceDelete(t *testing.T) {
	st := newFakeStore()
	stubStore(t, st, nil)

	var out, errOut bytes.Buffer
	code := Main(context.Background(), cliConfig("t"), []string{"delete", "-y", "i9"}, rdr(""), &out, &errOut)

	assert.Equal(t, 0, code, errOut.String())
	assert.Equal(t, []string{"i9"}, st.deleted)
}

func TestMain_ExitCodes(t *testing.T) {
	stubStore(t, newFakeStore(), nil)

	var out, errOut bytes.Buffer
	assert.Equal(t, 2, Main(context.Background(), cliConfig("t"), []string{"-n", "site"}, rdr(""), &out, &errOut))
	assert.Contains(t, errOut.String(), "usage:")

	errOut.Reset()
	assert.Equal(t, 2, Main(context.Background(), cliConfig("t"), []string{"nope"}, rdr(""), &out, &errOut))

	errOut.Reset()
	assert.Equal(t, 1, Main(context.Background(), cliConfig("t"), []string{"get", "missing"}, rdr(""), &out, &errOut))
	assert.Contains(t, errOut.String(), "not found")

	stubStore(t, nil, nil)
	errOut.Reset()
	assert.Equal(t, 1, Main(context.Background(), cliConfig("t"), []string{"find", "42"}, rdr(""), &out, &errOut))
	assert.Contains(t, errOut.String(), "site not found")

	cfg := cliConfig("t")
	cfg.LogLevel = "loud"
	assert.Equal(t, 1, Main(context.Background(), cfg, []string{"find", "42"}, rdr(""), &out, &errOut))
}
