// services/url_cache_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"
)

// Store image CDNs rotate their links, so resolved URLs are only trusted
// for a bounded window.
const resolvedURLExpiration = 15 * time.Minute

type URLCacheServiceProvider interface {
	GetImageURL(ctx context.Context, rawURL string) (string, error)
}

// URLCacheService memoizes garment image resolution. A miss probes the
// source URL once; unreachable images collapse to a placeholder tile so a
// dead store link never blanks an outfit card.
type URLCacheService struct {
	cache *cache.LoadableCache[string]
}

func NewURLCacheService(httpClient *http.Client) (*URLCacheService, error) {
	ristrettoCache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e6,
		MaxCost:     1 << 24, // 16MB of URLs is plenty
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ristretto cache: %w", err)
	}

	ristrettoStore := ristretto_store.NewRistretto(ristrettoCache, store.WithExpiration(resolvedURLExpiration))

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	loadFunction := func(ctx context.Context, key any) (string, error) {
		rawURL, ok := key.(string)
		if !ok {
			return "", fmt.Errorf("invalid key type provided to URL cache: expected string, got %T", key)
		}

		log.Printf("CACHE MISS for image URL: %s. Probing source.", rawURL)
		resolved := probeImageURL(ctx, httpClient, rawURL)
		return resolved, nil
	}

	loadableCache := cache.NewLoadable[string](
		loadFunction,
		cache.New[string](ristrettoStore),
	)
	fmt.Println("Initialized URLCacheService with Ristretto cache!")
	return &URLCacheService{cache: loadableCache}, nil
}

func (s *URLCacheService) GetImageURL(ctx context.Context, rawURL string) (string, error) {
	if rawURL == "" {
		return "", nil
	}

	return s.cache.Get(ctx, rawURL)
}

// probeImageURL issues a HEAD request and swaps in the placeholder when the
// source is gone. Resolution never errors; the worst case is a placeholder.
func probeImageURL(ctx context.Context, client *http.Client, rawURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return PlaceholderImageURL("")
	}
	resp, err := client.Do(req)
	if err != nil {
		return PlaceholderImageURL("")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return PlaceholderImageURL("")
	}
	return rawURL
}
