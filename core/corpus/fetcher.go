package corpus

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/conlawai/conlaw/core/common"
	"github.com/conlawai/conlaw/core/config"
	"github.com/conlawai/conlaw/core/errors"
	"github.com/conlawai/conlaw/core/file_store"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/net/gclient"
)

// FileResult reports the outcome of one corpus file download.
type FileResult struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Success  bool   `json:"success"`
	Size     int64  `json:"size"`
	Checksum string `json:"checksum,omitempty"`
	Error    string `json:"error,omitempty"`
}

// FetchResult aggregates one corpus fetch run.
type FetchResult struct {
	Skipped    bool         `json:"skipped"`
	Message    string       `json:"message"`
	Downloaded int          `json:"downloaded"`
	Failed     int          `json:"failed"`
	Files      []FileResult `json:"files,omitempty"`
}

// Fetcher downloads the constitution source files into the corpus store.
type Fetcher struct {
	store   file_store.Store
	baseURL string
	workers int
	client  *gclient.Client
}

// NewFetcher creates a corpus fetcher writing through the given store.
func NewFetcher(cfg *config.Config, store file_store.Store) (*Fetcher, error) {
	if store == nil {
		return nil, errors.New(errors.ErrInvalidParameter, "corpus store is nil")
	}
	if !common.IsURL(cfg.Corpus.BaseURL) {
		return nil, errors.Newf(errors.ErrInvalidParameter, "corpus.baseURL must be an http(s) URL, got %q", cfg.Corpus.BaseURL)
	}

	workers := cfg.Corpus.FetchWorkers
	if workers <= 0 {
		workers = 5
	}
	timeout := cfg.Corpus.FetchTimeout
	if timeout <= 0 {
		timeout = 30
	}

	client := g.Client()
	client.SetTimeout(time.Duration(timeout) * time.Second)

	return &Fetcher{
		store:   store,
		baseURL: cfg.Corpus.BaseURL,
		workers: workers,
		client:  client,
	}, nil
}

// Fetch downloads every manifest file with a bounded worker pool. Each file's
// outcome is collected independently; one failed download never aborts the
// others. When the corpus is already present and force is false, nothing is
// downloaded.
func (f *Fetcher) Fetch(ctx context.Context, force bool) (*FetchResult, error) {
	if !force {
		exists, err := f.store.Exists(ctx, SentinelFile)
		if err != nil {
			return nil, err
		}
		if exists {
			g.Log().Infof(ctx, "Constitution files already exist, skipping download")
			return &FetchResult{
				Skipped: true,
				Message: "constitution files already exist, use force to redownload",
			}, nil
		}
	}

	names := Manifest()
	g.Log().Infof(ctx, "Starting download of %d constitution source files", len(names))

	results := make([]FileResult, len(names))
	for i, name := range names {
		results[i] = FileResult{Name: FileName(name), URL: FileURL(f.baseURL, name)}
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, f.workers)
	for i, name := range names {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, fileName string) {
			defer wg.Done()
			defer func() { <-sem }()
			defer common.RecoverPanic(ctx, "corpus download "+fileName)
			results[idx] = f.fetchOne(ctx, fileName)
		}(i, name)
	}
	wg.Wait()

	downloaded, failed := 0, 0
	for _, r := range results {
		if r.Success {
			downloaded++
		} else {
			failed++
		}
	}
	g.Log().Infof(ctx, "Downloaded %d of %d constitution files (%d failed)", downloaded, len(names), failed)

	return &FetchResult{
		Message:    fmt.Sprintf("downloaded %d of %d constitution files", downloaded, len(names)),
		Downloaded: downloaded,
		Failed:     failed,
		Files:      results,
	}, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, name string) FileResult {
	result := FileResult{Name: FileName(name), URL: FileURL(f.baseURL, name)}

	resp, err := f.client.Get(ctx, result.URL)
	if err != nil {
		g.Log().Warningf(ctx, "Failed to download %s: %v", result.URL, err)
		result.Error = errors.Newf(errors.ErrCorpusFetch, "failed to download %s: %v", result.URL, err).Error()
		return result
	}
	defer resp.Close()

	if resp.StatusCode != http.StatusOK {
		g.Log().Warningf(ctx, "Download %s returned status %d", result.URL, resp.StatusCode)
		result.Error = errors.Newf(errors.ErrCorpusFetch, "download %s returned status %d", result.URL, resp.StatusCode).Error()
		return result
	}

	content := resp.ReadAll()
	if len(content) == 0 {
		result.Error = errors.Newf(errors.ErrCorpusFetch, "downloaded %s is empty", result.URL).Error()
		return result
	}

	if _, err := f.store.Save(ctx, result.Name, content); err != nil {
		result.Error = err.Error()
		return result
	}

	result.Success = true
	result.Size = int64(len(content))
	result.Checksum = common.SHA256Sum(content)
	return result
}
