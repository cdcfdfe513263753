package accounts

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseCookies accepts a session-cookie blob in either of the two forms the
// platform tooling produces: a delimited string ("auth_token=x; ct0=y") or a
// JSON object ({"auth_token": "x", "ct0": "y"}). Both parse to the same map.
func ParseCookies(blob string) (map[string]string, error) {
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return nil, fmt.Errorf("cookie blob is empty")
	}

	if strings.HasPrefix(blob, "{") {
		var cookies map[string]string
		if err := json.Unmarshal([]byte(blob), &cookies); err != nil {
			return nil, fmt.Errorf("failed to parse cookie JSON: %w", err)
		}
		if len(cookies) == 0 {
			return nil, fmt.Errorf("cookie JSON contains no cookies")
		}
		return cookies, nil
	}

	cookies := make(map[string]string)
	for _, pair := range strings.Split(blob, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, found := strings.Cut(pair, "=")
		if !found || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("malformed cookie pair %q", pair)
		}
		cookies[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}

	if len(cookies) == 0 {
		return nil, fmt.Errorf("cookie string contains no cookies")
	}
	return cookies, nil
}
