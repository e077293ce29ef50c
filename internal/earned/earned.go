// Package earned reports how much the token sale contract has raised, in whole dollars.
package earned

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cryptostarter/cryptostarter/internal/logging"
	"github.com/cryptostarter/cryptostarter/internal/metrics"
)

// weiPattern finds the earnedEthWei value on the contract read page
var weiPattern = regexp.MustCompile(`earnedEthWei.*?</i>(.*?)<i>`)

var ErrNotFound = errors.New("earnedEthWei not found on contract page")

const maxPageBytes = 4 << 20

// Config describes where the raised amount is read from
type Config struct {
	Contract   string
	BaseURL    string
	EtherPrice float64
	CacheTTL   time.Duration
	Timeout    time.Duration
}

// Service fetches the raised amount and caches it
type Service struct {
	cfg    Config
	client *http.Client
	cache  Cache
	logger *logging.Logger
}

func NewService(cfg Config, client *http.Client, cache Cache, logger *logging.Logger) *Service {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Service{cfg: cfg, client: client, cache: cache, logger: logger}
}

// Dollars returns the raised amount. Any failure yields 0 and is logged, never returned.
func (s *Service) Dollars(ctx context.Context) int64 {
	if cached, err := s.cache.Get(ctx, s.cfg.Contract); err == nil {
		return cached
	} else if !errors.Is(err, ErrCacheMiss) {
		s.logger.Warn("earned cache read failed", "error", err.Error())
	}

	dollars, err := s.fetch(ctx)
	if err != nil {
		s.logger.Warn("failed to fetch raised amount", "contract", s.cfg.Contract, "error", err.Error())
		metrics.RecordEarnedFailure()
		return 0
	}

	if err := s.cache.Set(ctx, s.cfg.Contract, dollars, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("earned cache write failed", "error", err.Error())
	}
	return dollars
}

func (s *Service) pageURL() string {
	return s.cfg.BaseURL + "?a=" + url.QueryEscape(s.cfg.Contract)
}

func (s *Service) fetch(ctx context.Context) (int64, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.pageURL(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch contract page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("contract page returned status %d", resp.StatusCode)
	}

	page, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return 0, fmt.Errorf("failed to read contract page: %w", err)
	}

	return ParsePage(page, s.cfg.EtherPrice)
}

// ParsePage extracts earnedEthWei from page and converts it to whole dollars at etherPrice
func ParsePage(page []byte, etherPrice float64) (int64, error) {
	match := weiPattern.FindSubmatch(page)
	if match == nil {
		return 0, ErrNotFound
	}

	wei, err := strconv.ParseFloat(strings.TrimSpace(string(match[1])), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid earnedEthWei value: %w", err)
	}

	ether := wei / 1e18
	return int64(math.Trunc(ether * etherPrice)), nil
}

// Readable formats dollars for the landing page: 123456 -> "$123 456".
// The amount is right-aligned in six columns and split after the third one.
func Readable(dollars int64) string {
	formed := fmt.Sprintf("%6d", dollars)
	left := strings.TrimSpace(formed[0:3])
	right := formed[3:6]
	return "$" + left + " " + right
}
