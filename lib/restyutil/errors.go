package restyutil

import (
	"fmt"

	"github.com/go-resty/resty/v2"
)

// HTTPError is returned for any response with a non-2xx status code.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

const maxErrorBody = 512

func (e *HTTPError) Error() string {
	body := string(e.Body)
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody] + "..."
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, body)
}

// CheckResponse returns an *HTTPError unless res has a 2xx status code.
func CheckResponse(res *resty.Response) error {
	if res.IsSuccess() {
		return nil
	}
	return &HTTPError{
		Method:     res.Request.Method,
		URL:        RedactURL(res.Request.URL),
		StatusCode: res.StatusCode(),
		Body:       res.Body(),
	}
}
