package holidays

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Planning-Inspectorate/appeals-back-office-sub005/pkg/calendar"
)

// Division identifies a holiday calendar division in the gov.uk feed.
type Division string

const (
	DivisionEnglandAndWales Division = "england-and-wales"
	DivisionScotland        Division = "scotland"
	DivisionNorthernIreland Division = "northern-ireland"
)

// DefaultFeedURL is the public gov.uk bank holiday feed.
const DefaultFeedURL = "https://www.gov.uk/bank-holidays.json"

// feed mirrors the gov.uk JSON document: one entry per division.
type feed map[string]struct {
	Division string `json:"division"`
	Events   []struct {
		Title string `json:"title"`
		Date  string `json:"date"`
	} `json:"events"`
}

// Client fetches bank holiday dates from the gov.uk feed.
type Client struct {
	feedURL    string
	httpClient *http.Client
}

// NewClient creates a feed client. An empty feedURL falls back to DefaultFeedURL.
func NewClient(feedURL string) *Client {
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	return &Client{
		feedURL:    feedURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Fetch downloads the feed and returns the holiday set for one division.
func (c *Client) Fetch(ctx context.Context, division Division) (calendar.HolidaySet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build holiday feed request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch holiday feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday feed returned status %d", resp.StatusCode)
	}

	var doc feed
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode holiday feed: %w", err)
	}

	entry, ok := doc[string(division)]
	if !ok {
		return nil, fmt.Errorf("holiday feed has no division %q", division)
	}

	set := make(calendar.HolidaySet, len(entry.Events))
	for _, ev := range entry.Events {
		d, err := time.Parse("2006-01-02", ev.Date)
		if err != nil {
			return nil, fmt.Errorf("holiday feed date %q: %w", ev.Date, err)
		}
		set.Add(d)
	}
	return set, nil
}
