package corrector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

type clientImpl struct {
	baseURL    string
	language   string
	httpClient *http.Client
}

type Config struct {
	BaseURL  string
	Language string
}

// NewClient talks to a LanguageTool server's /v2/check endpoint.
func NewClient(cfg *Config) (API, error) {
	if cfg == nil {
		return nil, errors.New("missing parameter: cfg")
	}

	if cfg.BaseURL == "" {
		return nil, errors.New("missing parameter: cfg.BaseURL")
	}

	language := cfg.Language
	if language == "" {
		language = "en-US"
	}

	return &clientImpl{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		language:   language,
		httpClient: &http.Client{},
	}, nil
}

type ltReplacement struct {
	Value string `json:"value"`
}

type ltMatch struct {
	Message      string          `json:"message"`
	Replacements []ltReplacement `json:"replacements"`
	Offset       int             `json:"offset"`
	Length       int             `json:"length"`
}

type ltResponse struct {
	Matches []ltMatch `json:"matches"`
}

func (client *clientImpl) Correct(ctx context.Context, text string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+"/v2/check", nil)
	if err != nil {
		return "", err
	}

	q := req.URL.Query()
	q.Add("language", client.language)
	q.Add("text", text)
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Accept", "application/json")

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return "", err
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("languagetool returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed ltResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse languagetool response: %w", err)
	}

	return applyMatches(text, parsed.Matches), nil
}

// applyMatches replaces each flagged span with its first suggested
// replacement, working from the end of the string so earlier offsets stay
// valid. Offsets and lengths are in runes.
func applyMatches(text string, matches []ltMatch) string {
	if len(matches) == 0 {
		return text
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Offset > matches[j].Offset
	})

	runes := []rune(text)

	for _, m := range matches {
		if len(m.Replacements) == 0 {
			continue
		}

		if m.Offset < 0 || m.Length < 0 || m.Offset+m.Length > len(runes) {
			continue
		}

		replacement := []rune(m.Replacements[0].Value)

		updated := make([]rune, 0, len(runes)-m.Length+len(replacement))
		updated = append(updated, runes[:m.Offset]...)
		updated = append(updated, replacement...)
		updated = append(updated, runes[m.Offset+m.Length:]...)
		runes = updated
	}

	return string(runes)
}

// Ping checks that the server is reachable and answering, used at startup to
// decide whether the correction pass is available at all.
func (client *clientImpl) Ping(ctx context.Context) error {
	checkURL := client.baseURL + "/v2/check?language=" + url.QueryEscape(client.language) + "&text=" + url.QueryEscape("hello")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, checkURL, nil)
	if err != nil {
		return err
	}

	resp, err := client.httpClient.Do(req)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("languagetool returned status %d", resp.StatusCode)
	}

	return nil
}
