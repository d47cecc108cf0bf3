package dictionary

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// LibreOffice hunspell word lists, fetched once and cached on disk.
var dictionaryURLs = map[string]string{
	"en": "https://raw.githubusercontent.com/LibreOffice/dictionaries/master/en/en_US.dic",
	"fr": "https://raw.githubusercontent.com/LibreOffice/dictionaries/master/fr_FR/fr.dic",
}

type Config struct {
	FileSys   afero.Fs
	CacheDir  string
	Languages []string
}

// Load builds the dictionary for the configured languages, downloading and
// caching each word list the first time it is needed. A language with no
// known source is an error; everything else that fails here is fatal at
// startup by design, since the merge pass cannot run without its dictionary.
func Load(cfg *Config) (*Dictionary, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.FileSys == nil {
		return nil, fmt.Errorf("fileSys is nil")
	}

	if len(cfg.Languages) == 0 {
		return nil, fmt.Errorf("no languages configured")
	}

	if err := cfg.FileSys.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create dictionary cache dir: %w", err)
	}

	d := newDictionary()

	for _, lang := range cfg.Languages {
		url, ok := dictionaryURLs[lang]
		if !ok {
			return nil, fmt.Errorf("no dictionary source for language %q", lang)
		}

		content, err := cachedOrDownload(cfg.FileSys, filepath.Join(cfg.CacheDir, lang+".dic"), url)
		if err != nil {
			return nil, fmt.Errorf("load %s dictionary: %w", lang, err)
		}

		for _, word := range parseHunspell(content) {
			d.add(word)
		}

		for _, word := range commonWords[lang] {
			d.add(word)
			d.addCommon(word)
		}
	}

	return d, nil
}

func cachedOrDownload(fs afero.Fs, path, url string) (string, error) {
	if exists, _ := afero.Exists(fs, path); exists {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return "", fmt.Errorf("read cached dictionary: %w", err)
		}

		return string(data), nil
	}

	client := &http.Client{Timeout: 60 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return "", fmt.Errorf("download dictionary: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download dictionary: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read dictionary body: %w", err)
	}

	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("cache dictionary: %w", err)
	}

	return string(data), nil
}

// parseHunspell extracts the words from a hunspell .dic file: the first line
// is the entry count, and each entry may carry affix flags after a slash.
func parseHunspell(content string) []string {
	lines := strings.Split(content, "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}

	seen := make(map[string]struct{}, len(lines))
	words := make([]string, 0, len(lines))

	for _, line := range lines {
		word := line
		if idx := strings.IndexByte(line, '/'); idx >= 0 {
			word = line[:idx]
		}

		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}

		if _, dup := seen[word]; dup {
			continue
		}

		seen[word] = struct{}{}
		words = append(words, word)
	}

	return words
}
