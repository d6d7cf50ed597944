package database

import (
	"net/url"
	"strings"
)

// ConstructDatabaseURL combines a server URL with a database name. An empty
// name returns baseURL unchanged. sslmode=disable is added unless the URL
// already picks an sslmode.
func ConstructDatabaseURL(baseURL, databaseName string) string {
	if databaseName == "" {
		return baseURL
	}

	base, query, _ := strings.Cut(strings.TrimRight(baseURL, "/"), "?")
	// TrimRight above only handles a slash at the very end
	base = strings.TrimRight(base, "/")

	params, err := url.ParseQuery(query)
	if err != nil {
		params = url.Values{}
	}
	if params.Get("sslmode") == "" {
		params.Set("sslmode", "disable")
	}

	return base + "/" + databaseName + "?" + params.Encode()
}
