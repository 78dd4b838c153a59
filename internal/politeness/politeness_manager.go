package politeness

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/temoto/robotstxt"

	"github.com/quimicadatos/cuadro-search/internal/config"
)

// ErrDisallowed is returned by Acquire when robots.txt forbids the URL.
var ErrDisallowed = errors.New("disallowed by robots.txt")

// PolitenessManager spaces out requests to the same host and honours
// robots.txt for the corpus pages.
type PolitenessManager struct {
	config config.PolitenessConfig
	logger *logrus.Entry
	client *http.Client
	now    func() time.Time

	mu          sync.Mutex
	lastRequest map[string]time.Time
	robotsCache map[string]*RobotsEntry

	stats Statistics
}

// RobotsEntry caches robots.txt data
type RobotsEntry struct {
	robots    *robotstxt.RobotsData
	fetchTime time.Time
}

// Statistics holds politeness manager statistics
type Statistics struct {
	Granted    int64         `json:"granted"`
	Disallowed int64         `json:"disallowed"`
	Waited     time.Duration `json:"waited"`
}

// NewPolitenessManager creates a new politeness manager
func NewPolitenessManager(cfg config.PolitenessConfig, logger *logrus.Entry) *PolitenessManager {
	if logger == nil {
		logger = logrus.WithField("component", "politeness_manager")
	}

	return &PolitenessManager{
		config:      cfg,
		logger:      logger,
		client:      &http.Client{Timeout: 10 * time.Second},
		now:         time.Now,
		lastRequest: make(map[string]time.Time),
		robotsCache: make(map[string]*RobotsEntry),
	}
}

// Acquire blocks until a request to rawURL may be sent. It returns
// ErrDisallowed when robots.txt forbids the path, or the context error if ctx
// ends while waiting.
func (pm *PolitenessManager) Acquire(ctx context.Context, rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("URL must have a host: %s", rawURL)
	}

	allowed, err := pm.IsURLAllowed(ctx, parsedURL)
	if err != nil {
		// An unreachable robots.txt does not block indexing.
		pm.logger.WithError(err).WithField("host", parsedURL.Host).Warn("Robots check failed, allowing request")
	} else if !allowed {
		pm.mu.Lock()
		pm.stats.Disallowed++
		pm.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrDisallowed, rawURL)
	}

	wait := pm.reserve(parsedURL.Host)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// reserve books the next slot for host and returns how long the caller must
// wait for it.
func (pm *PolitenessManager) reserve(host string) time.Duration {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	now := pm.now()
	slot := now
	if last, ok := pm.lastRequest[host]; ok {
		if next := last.Add(pm.config.MinDelay); next.After(now) {
			slot = next
		}
	}
	pm.lastRequest[host] = slot

	wait := slot.Sub(now)
	pm.stats.Granted++
	pm.stats.Waited += wait
	return wait
}

// IsURLAllowed checks if URL is allowed according to robots.txt
func (pm *PolitenessManager) IsURLAllowed(ctx context.Context, u *url.URL) (bool, error) {
	if !pm.config.EnableRobotsCheck {
		return true, nil
	}

	robots, err := pm.robotsFor(ctx, u)
	if err != nil {
		return true, err
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return robots.TestAgent(path, pm.config.UserAgent), nil
}

func (pm *PolitenessManager) robotsFor(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	key := u.Scheme + "://" + u.Host

	pm.mu.Lock()
	entry, ok := pm.robotsCache[key]
	pm.mu.Unlock()
	if ok && pm.now().Sub(entry.fetchTime) < pm.config.RobotsCacheDuration {
		return entry.robots, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key+"/robots.txt", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create robots request: %w", err)
	}
	req.Header.Set("User-Agent", pm.config.UserAgent)

	resp, err := pm.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	robots, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse robots.txt: %w", err)
	}

	pm.mu.Lock()
	pm.robotsCache[key] = &RobotsEntry{robots: robots, fetchTime: pm.now()}
	pm.mu.Unlock()

	pm.logger.WithFields(logrus.Fields{
		"host":   u.Host,
		"status": resp.StatusCode,
	}).Debug("Fetched robots.txt")
	return robots, nil
}

// GetStatistics returns a copy of the current statistics
func (pm *PolitenessManager) GetStatistics() Statistics {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.stats
}
