package restyutil

import (
	"net/http"
	"net/url"
	"strings"
)

const redacted = "<REDACTED>"

// headers that carry credentials for the scorpion api and the data sources.
var sensitiveHeaders = []string{
	"X-Api-Key",
	"Xc-Token",
	"Authorization",
}

// form and query fields that carry credentials.
var sensitiveFields = []string{
	"token_auth",
}

// RedactHeaders returns a copy of headers with credential values replaced.
func RedactHeaders(headers http.Header) http.Header {
	out := headers.Clone()
	for _, h := range sensitiveHeaders {
		if out.Get(h) != "" {
			out.Set(h, redacted)
		}
	}
	return out
}

// RedactForm replaces credential fields in a url encoded string, which
// covers both query strings and form bodies. Anything that does not parse
// as a form is returned unchanged.
func RedactForm(encoded string) string {
	values, err := url.ParseQuery(encoded)
	if err != nil {
		return encoded
	}
	changed := false
	for _, f := range sensitiveFields {
		if values.Has(f) {
			values.Set(f, redacted)
			changed = true
		}
	}
	if !changed {
		return encoded
	}
	return values.Encode()
}

// RedactURL redacts credential fields in the query of a raw url.
func RedactURL(raw string) string {
	base, query, found := strings.Cut(raw, "?")
	if !found {
		return raw
	}
	return base + "?" + RedactForm(query)
}
