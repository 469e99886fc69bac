package restyutil

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
)

func formatHeaders(headers http.Header) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out strings.Builder
	for _, k := range keys {
		for _, v := range headers[k] {
			out.WriteString(fmt.Sprintf("%s: %s\n", k, v))
		}
	}
	return strings.TrimSuffix(out.String(), "\n")
}

func formatRequestBody(req *http.Request) string {
	if req == nil || req.GetBody == nil {
		return "<NO BODY AVAILABLE>"
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Sprintf("failed to get request body: %s", err.Error())
	}
	readBody, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("failed to read request body: %s", err.Error())
	}
	return RedactForm(string(readBody))
}

// 1: request method
// 2: request url
// 3: request headers in ("Key: Value" format)
// 4: request body
// 5: response status
// 6: response headers in ("Key: Value" format)
// 7: response body
const messageInfoTemplate = `---- REQUEST ----

%s %s

%s

%s

---- RESPONSE ----

%s

%s

%s`

// FormatMessage renders a full request/response exchange with credentials
// redacted.
func FormatMessage(res *resty.Response) string {
	raw := res.Request.RawRequest

	requestUrl := res.Request.URL
	requestHeaders := http.Header{}
	if raw != nil {
		requestUrl = raw.URL.String()
		requestHeaders = raw.Header
	}

	return fmt.Sprintf(
		messageInfoTemplate,

		res.Request.Method, RedactURL(requestUrl),
		formatHeaders(RedactHeaders(requestHeaders)),
		formatRequestBody(raw),

		strconv.Itoa(res.StatusCode()),
		formatHeaders(RedactHeaders(res.Header())),
		res.String(),
	)
}
