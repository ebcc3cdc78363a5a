package screening

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	safeBrowsingSource   = "google-safe-browsing"
	safeBrowsingEndpoint = "https://safebrowsing.googleapis.com/v4/threatMatches:find"
)

// SafeBrowsing is a minimal client for the Google Safe Browsing v4
// threatMatches:find endpoint.
type SafeBrowsing struct {
	apiKey        string
	endpoint      string
	clientID      string
	clientVersion string
	httpClient    *http.Client
}

func NewSafeBrowsing(apiKey, clientID, clientVersion string) *SafeBrowsing {
	return &SafeBrowsing{
		apiKey:        apiKey,
		endpoint:      safeBrowsingEndpoint,
		clientID:      clientID,
		clientVersion: clientVersion,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *SafeBrowsing) Name() string { return safeBrowsingSource }

type threatEntry struct {
	URL string `json:"url"`
}

type findThreatsRequest struct {
	Client struct {
		ClientID      string `json:"clientId"`
		ClientVersion string `json:"clientVersion"`
	} `json:"client"`
	ThreatInfo struct {
		ThreatTypes      []string      `json:"threatTypes"`
		PlatformTypes    []string      `json:"platformTypes"`
		ThreatEntryTypes []string      `json:"threatEntryTypes"`
		ThreatEntries    []threatEntry `json:"threatEntries"`
	} `json:"threatInfo"`
}

type findThreatsResponse struct {
	Matches []struct {
		ThreatType string      `json:"threatType"`
		Threat     threatEntry `json:"threat"`
	} `json:"matches"`
}

// LookupMatching implements URLTester against the Safe Browsing API.
func (s *SafeBrowsing) LookupMatching(ctx context.Context, urls []string) ([]Match, error) {
	if len(urls) == 0 {
		return nil, nil
	}

	var req findThreatsRequest
	req.Client.ClientID = s.clientID
	req.Client.ClientVersion = s.clientVersion
	req.ThreatInfo.ThreatTypes = []string{"MALWARE", "SOCIAL_ENGINEERING", "UNWANTED_SOFTWARE"}
	req.ThreatInfo.PlatformTypes = []string{"ANY_PLATFORM"}
	req.ThreatInfo.ThreatEntryTypes = []string{"URL"}
	for _, u := range urls {
		req.ThreatInfo.ThreatEntries = append(req.ThreatInfo.ThreatEntries, threatEntry{URL: u})
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodPost, s.endpoint+"?key="+s.apiKey, bytes.NewReader(body),
	)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("safe browsing lookup returned status %d", resp.StatusCode)
	}

	var parsed findThreatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	var matches []Match
	for _, m := range parsed.Matches {
		matches = append(matches, Match{Source: safeBrowsingSource, URL: m.Threat.URL})
	}
	return matches, nil
}
