package restyutil

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type Output interface {
	Write(id string, contents string)
}

type dumper struct {
	name      string
	output    Output
	idcounter *uint64
}

// AttachOutput writes every completed exchange made by client to output,
// ids are "<name>-<n>.txt" where n counts up from 1.
// `output` can be nil, if it is, then the function is a no-op
func AttachOutput(client *resty.Client, name string, output Output) {
	if output == nil {
		return
	}
	var idcounter uint64
	d := dumper{name: name, output: output, idcounter: &idcounter}
	client.OnAfterResponse(d.onAfterResponse)
}

func (d dumper) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	id := fmt.Sprintf("%s-%d.txt", d.name, atomic.AddUint64(d.idcounter, 1))
	d.output.Write(id, FormatMessage(res))
	slog.DebugContext(
		res.Request.Context(), "request dumped",
		"method", res.Request.Method,
		"url", RedactURL(res.Request.URL),
		"status", res.StatusCode(),
		"message_id", id,
	)
	return nil
}
