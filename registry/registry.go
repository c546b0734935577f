package registry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ernesto27/go-nip/version"
	"github.com/tidwall/gjson"
)

// ErrNotFound means the registry has no installable version for a package.
var ErrNotFound = errors.New("no version found on registry")

// abbreviated metadata is a fraction of the full packument
const acceptHeader = "application/vnd.npm.install-v1+json; q=1.0, application/json; q=0.8, */*"

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	version    *version.Info
}

func New(baseURL string) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{},
		version:    version.New(),
	}
}

// Latest returns the latest published version of name.
func (c *Client) Latest(ctx context.Context, name string) (string, error) {
	body, err := c.fetch(ctx, name)
	if err != nil {
		return "", err
	}

	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("invalid metadata for %s", name)
	}
	doc := gjson.ParseBytes(body)

	var versions []string
	doc.Get("versions").ForEach(func(key, _ gjson.Result) bool {
		versions = append(versions, key.String())
		return true
	})

	latest, ok := c.version.Latest(doc.Get("dist-tags.latest").String(), versions)
	if !ok {
		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return latest, nil
}

func (c *Client) fetch(ctx context.Context, name string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+packagePath(name), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %s, %d %s", req.URL, resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata for %s: %w", name, err)
	}
	return body, nil
}

// packagePath escapes a package name for the registry, keeping the scope's "@".
// "@scope/name" becomes "@scope%2Fname".
func packagePath(name string) string {
	if strings.HasPrefix(name, "@") {
		return "@" + url.PathEscape(strings.TrimPrefix(name, "@"))
	}
	return url.PathEscape(name)
}
