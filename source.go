package marionette

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
)

// FileSource reads resource files by slash-separated path relative to the
// resources root.
type FileSource interface {
	ReadFile(ctx context.Context, name string) ([]byte, error)
}

// DirSource reads resources from an fs.FS (os.DirFS, embed.FS, fstest.MapFS).
type DirSource struct {
	FS fs.FS
}

// ReadFile implements FileSource.
func (s DirSource) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fs.ReadFile(s.FS, strings.TrimPrefix(name, "/"))
}

// maxResourceSize caps a single HTTP resource read.
const maxResourceSize = 64 << 20

// HTTPSource fetches resources relative to a base URL.
type HTTPSource struct {
	Base   string
	Client *http.Client
}

// ReadFile implements FileSource.
func (s HTTPSource) ReadFile(ctx context.Context, name string) ([]byte, error) {
	u, err := url.JoinPath(s.Base, name)
	if err != nil {
		return nil, fmt.Errorf("resource url %q: %w", name, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", u, resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxResourceSize))
}

// SourceFor picks an HTTPSource for http(s) roots and a DirSource over
// fsys otherwise.
func SourceFor(root string, fsys fs.FS) FileSource {
	if strings.HasPrefix(root, "http://") || strings.HasPrefix(root, "https://") {
		return HTTPSource{Base: root}
	}
	return DirSource{FS: fsys}
}
