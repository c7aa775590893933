package yahoo

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"github.com/skatz510/foliosim/date"
)

// diskCache is a RoundTripper that stores successful responses on disk. The
// cache key includes the current day, so every entry expires at midnight and
// each endpoint is hit at most once per day.
type diskCache struct {
	base http.RoundTripper
}

// daily returns an HTTP client backed by the disk cache.
func daily() *http.Client {
	return &http.Client{Transport: &diskCache{base: http.DefaultTransport}}
}

func cacheKey(req *http.Request) string {
	sum := sha1.Sum([]byte(date.Today().String() + " " + req.Method + " " + req.URL.String()))
	return fmt.Sprintf("%x", sum)
}

// cacheDir is where responses live. The user cache dir survives reboots,
// unlike /tmp on some distributions, but either works since entries expire
// with the day anyway.
func cacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return os.TempDir()
	}
	dir = filepath.Join(dir, "foliosim")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return os.TempDir()
	}
	return dir
}

func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	file := filepath.Join(cacheDir(), cacheKey(req))

	if content, err := os.ReadFile(file); err == nil {
		return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v/%v %v", req.Method, req.URL.Host, req.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		// Errors are not cached, a retry might succeed.
		return resp, nil
	}

	// DumpResponse drains and restores the body.
	content, err := httputil.DumpResponse(resp, true)
	if err == nil {
		err = os.WriteFile(file, content, 0o644)
	}
	if err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	return resp, nil
}

// jwget GETs the address and unmarshals the JSON response into data.
func jwget(client *http.Client, addr string, data any) error {
	req, err := http.NewRequest(http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	// Yahoo rejects Go's default user agent with a 429.
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; foliosim)")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v/%v: %v", req.URL.Host, req.URL.Path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(data)
}
