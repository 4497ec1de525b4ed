package nameday

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tartampluch/hellodays/internal/config"
	"github.com/tartampluch/hellodays/internal/fetch"
)

//go:embed data/namedays.json
var embeddedCatalog []byte

// EmbeddedSource serves the dataset bundled with the binary.
type EmbeddedSource struct{}

func (EmbeddedSource) Load(_ context.Context) (Data, error) {
	return decode(bytes.NewReader(embeddedCatalog))
}

// FileSource reads a catalog from a local JSON file.
type FileSource struct {
	Path string
}

func (s FileSource) Load(_ context.Context) (Data, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCatalogLoad, err)
	}
	defer func() { _ = f.Close() }()
	return decode(f)
}

// HTTPSource downloads a catalog.
type HTTPSource struct {
	URL     string
	Fetcher fetch.Fetcher
}

func (s HTTPSource) Load(ctx context.Context) (Data, error) {
	rc, err := s.Fetcher.Fetch(ctx, fetch.Request{URL: s.URL, Accept: config.MimeJSON})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCatalogLoad, err)
	}
	defer func() { _ = rc.Close() }()
	return decode(rc)
}

// NewSource picks a source from the configuration value: "embedded" (or
// empty), an http(s) URL, or a file path.
func NewSource(location string, f fetch.Fetcher) Source {
	switch {
	case location == "" || location == config.CatalogEmbedded:
		return EmbeddedSource{}
	case strings.HasPrefix(location, config.SchemeHTTP+"://"), strings.HasPrefix(location, config.SchemeHTTPS+"://"):
		if f == nil {
			f = fetch.NewHTTPFetcher()
		}
		return HTTPSource{URL: location, Fetcher: f}
	default:
		return FileSource{Path: location}
	}
}

func decode(r io.Reader) (Data, error) {
	var data Data
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCatalogDecode, err)
	}
	return data, nil
}
