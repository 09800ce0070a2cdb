package instances

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
)

// DefaultSourceURL is the community-maintained census of Lemmy instances
const DefaultSourceURL = "https://raw.githubusercontent.com/maltfield/awesome-lemmy-instances/main/awesome-lemmy-instances.csv"

// The Instance column holds markdown links: [name](https://host)
var markdownURLPattern = regexp.MustCompile(`\[.*?\]\((.*?)\)`)

// Fetcher refreshes the instance allowlist from the public CSV census.
// Intended to run as a standalone job (daily cron), not inside the server.
type Fetcher struct {
	repo      Repository
	client    *retryablehttp.Client
	sourceURL string
	logger    *slog.Logger
}

// NewFetcher creates a fetcher pulling from sourceURL (DefaultSourceURL when empty)
func NewFetcher(repo Repository, sourceURL string, logger *slog.Logger) *Fetcher {
	if sourceURL == "" {
		sourceURL = DefaultSourceURL
	}
	if logger == nil {
		logger = slog.Default()
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.Logger = nil // retryablehttp's own logging is too chatty for a cron job

	return &Fetcher{
		repo:      repo,
		client:    client,
		sourceURL: sourceURL,
		logger:    logger,
	}
}

// Refresh downloads the census CSV and upserts every instance host
func (f *Fetcher) Refresh(ctx context.Context) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, f.sourceURL, nil)
	if err != nil {
		return fmt.Errorf("building census request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching instance census: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching instance census: unexpected status %d", resp.StatusCode)
	}

	hosts, err := parseInstanceCSV(resp.Body)
	if err != nil {
		return fmt.Errorf("parsing instance census: %w", err)
	}

	added, err := f.repo.UpsertHosts(ctx, hosts)
	if err != nil {
		return fmt.Errorf("storing instance hosts: %w", err)
	}

	f.logger.Info("instance allowlist refreshed",
		"source", f.sourceURL,
		"hosts", len(hosts),
		"added", added)
	return nil
}

// parseInstanceCSV extracts instance hosts from the census CSV's markdown
// Instance column. Rows without a parseable link are skipped.
func parseInstanceCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // the census occasionally grows columns

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	instanceCol := -1
	for i, name := range header {
		if name == "Instance" {
			instanceCol = i
			break
		}
	}
	if instanceCol == -1 {
		return nil, fmt.Errorf("no Instance column in header %v", header)
	}

	var hosts []string
	seen := make(map[string]bool)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}
		if instanceCol >= len(record) {
			continue
		}

		match := markdownURLPattern.FindStringSubmatch(record[instanceCol])
		if match == nil {
			continue
		}

		host := strings.TrimPrefix(match[1], "https://")
		host = strings.TrimSuffix(host, "/")
		if host == "" || seen[host] {
			continue
		}
		seen[host] = true
		hosts = append(hosts, host)
	}

	return hosts, nil
}
