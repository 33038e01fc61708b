package inline

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/videocatcher/videocatcher/failure"
	"github.com/videocatcher/videocatcher/media"
	"github.com/videocatcher/videocatcher/platform"
)

type Item struct {
	// URL is the page URL as given.
	URL      string        `json:"url"`
	Platform string        `json:"platform"`
	Result   *media.Result `json:"result,omitempty"`
	// File is the saved path when an output directory was given.
	File  string `json:"file,omitempty"`
	Error string `json:"error,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

type Output struct {
	Items []*Item `json:"items"`
}

func newItem(url string, explicit platform.Platform) *Item {
	return &Item{URL: url, Platform: platform.Resolve(url, explicit).String()}
}

func (i *Item) fail(err error) {
	i.Error = failure.Message(err)
	var ferr *failure.Error
	if errors.As(err, &ferr) {
		i.Kind = ferr.Kind.String()
	}
}

func writeJson(out io.Writer, items []*Item) error {
	if items == nil {
		items = []*Item{}
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(&Output{Items: items})
}

// Schema returns the JSON schema of the output written in JSON mode.
func Schema() *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Namer = func(t reflect.Type) string {
		return t.Name()
	}
	return reflector.Reflect(&Output{})
}
