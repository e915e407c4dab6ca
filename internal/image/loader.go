package imagepkg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/youruser/boardgen/internal/util"
)

// DefaultCacheDir is where downloaded images are kept unless configured otherwise.
const DefaultCacheDir = ".cache/images"

// ErrInvalidURL is returned for image URLs that cannot be fetched or cached.
var ErrInvalidURL = errors.New("invalid image url")

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	CacheDir string
	// Client defaults to util.NewHTTPClient().
	Client *retryablehttp.Client
	Logger *slog.Logger
	// AllowHTTP keeps plain http URLs instead of upgrading them to https.
	AllowHTTP bool
}

// Loader loads images from local paths or http(s) URLs, caching downloads on disk.
type Loader struct {
	cacheDir  string
	client    *retryablehttp.Client
	log       *slog.Logger
	allowHTTP bool
}

// NewLoader creates the cache directory and returns a ready Loader.
func NewLoader(opts LoaderOptions) (*Loader, error) {
	if opts.CacheDir == "" {
		opts.CacheDir = DefaultCacheDir
	}
	cacheDir, err := filepath.Abs(opts.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("resolve cache dir: %w", err)
	}
	if wd, err := os.Getwd(); err == nil && filepath.Clean(wd) == cacheDir {
		return nil, fmt.Errorf("image cache may not be the current directory")
	}
	if err := util.EnsureDir(cacheDir); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	if opts.Client == nil {
		opts.Client = util.NewHTTPClient()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Loader{
		cacheDir:  cacheDir,
		client:    opts.Client,
		log:       opts.Logger,
		allowHTTP: opts.AllowHTTP,
	}, nil
}

// Load treats location as an http(s) URL when it parses as one and as a file
// path otherwise.
func (l *Loader) Load(ctx context.Context, location string) (*image.NRGBA, error) {
	if u, err := url.Parse(location); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return l.LoadURL(ctx, location)
	}
	return l.LoadFile(location)
}

// LoadURL returns the image at rawURL, downloading it into the cache on a miss.
func (l *Loader) LoadURL(ctx context.Context, rawURL string) (*image.NRGBA, error) {
	u, rel, err := CachePath(rawURL, l.allowHTTP)
	if err != nil {
		return nil, err
	}
	cachePath := filepath.Join(l.cacheDir, rel)
	if fi, err := os.Stat(cachePath); err == nil && fi.Mode().IsRegular() {
		l.log.Debug("image cache hit", "path", cachePath)
		return l.LoadFile(cachePath)
	}

	l.log.Info("downloading image", "url", u.String())
	body, err := util.GetBytes(ctx, l.client, u.String())
	if err != nil {
		return nil, err
	}
	img, err := decode(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", u, err)
	}
	if err := util.EnsureDir(filepath.Dir(cachePath)); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	if err := util.WriteFileAtomic(cachePath, body, 0o644); err != nil {
		// the image is usable even if caching failed
		l.log.Warn("caching image failed", "path", cachePath, "error", err)
	} else {
		l.log.Debug("cached image", "path", cachePath)
	}
	return img, nil
}

// LoadFile decodes the image at path.
func (l *Loader) LoadFile(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return imaging.Clone(img), nil
}

func decode(b []byte) (*image.NRGBA, error) {
	img, err := imaging.Decode(bytes.NewReader(b), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	return imaging.Clone(img), nil
}

// CachePath validates rawURL and returns the URL to fetch together with its
// cache location relative to the cache directory: the host split on dots
// followed by the path segments. Unless allowHTTP is set, http is upgraded to https.
func CachePath(rawURL string, allowHTTP bool) (*url.URL, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "http" && !allowHTTP {
		u.Scheme = "https"
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return nil, "", fmt.Errorf("%w: must be an http or https URL", ErrInvalidURL)
	}
	host := u.Hostname()
	if host == "" {
		return nil, "", fmt.Errorf("%w: must specify a hostname", ErrInvalidURL)
	}
	if u.Path == "" || u.Path == "/" || path.Ext(u.Path) == "" {
		return nil, "", fmt.Errorf("%w: must specify a path to a file", ErrInvalidURL)
	}

	parts := strings.Split(host, ".")
	for _, seg := range strings.Split(strings.Trim(u.Path, "/"), "/") {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		parts = append(parts, seg)
	}
	return u, filepath.Join(parts...), nil
}
