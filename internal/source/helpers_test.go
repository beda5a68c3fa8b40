package source

import (
	"io"
	"strings"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/jobmatch/internal/models"
)

type fakeDoer struct {
	status   int
	body     string
	err      error
	requests []*fhttp.Request
	payloads []string
}

func (f *fakeDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	f.requests = append(f.requests, req)
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		f.payloads = append(f.payloads, string(data))
	}
	if f.err != nil {
		return nil, f.err
	}
	status := f.status
	if status == 0 {
		status = 200
	}
	return &fhttp.Response{
		StatusCode: status,
		Header:     fhttp.Header{},
		Body:       io.NopCloser(strings.NewReader(f.body)),
	}, nil
}

func fixedNow() time.Time {
	return time.Date(2024, 1, 12, 12, 0, 0, 0, time.UTC)
}

func keyed(id string) models.SourceConfig {
	return models.SourceConfig{
		ID:      id,
		Enabled: true,
		Params:  map[string]string{models.ParamAPIKey: "secret"},
	}
}

func newTestSource(mapping Mapping, doer *fakeDoer) *APISource {
	src := NewAPISource(mapping, doer)
	src.now = fixedNow
	return src
}
