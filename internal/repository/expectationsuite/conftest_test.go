package expectationsuite

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/logicalclocks/hopsworks-go/internal/rest"
)

// fakeTransport records requests and replies with canned responses.
type fakeTransport struct {
	session  rest.Session
	requests []rest.Request
	respond  func(r rest.Request) ([]byte, error)
}

func newFakeTransport(respond func(r rest.Request) ([]byte, error)) *fakeTransport {
	return &fakeTransport{
		session: rest.Session{ProjectID: 119, ProjectName: "demo"},
		respond: respond,
	}
}

func (f *fakeTransport) Do(_ context.Context, r rest.Request) ([]byte, error) {
	f.requests = append(f.requests, r)
	if f.respond == nil {
		return []byte(`{}`), nil
	}
	return f.respond(r)
}

func (f *fakeTransport) DoJSON(ctx context.Context, r rest.Request, out any) error {
	data, err := f.Do(ctx, r)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

func (f *fakeTransport) Session() rest.Session { return f.session }

func (f *fakeTransport) last() rest.Request {
	return f.requests[len(f.requests)-1]
}

func notFound() error {
	return &rest.APIError{StatusCode: http.StatusNotFound}
}
