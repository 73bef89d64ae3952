package sliderule

import (
	"context"
	"time"

	"github.com/aalemi-dev/sliderule-go/schema"
)

type definitionRequest struct {
	RecType string `json:"rectype"`
}

// Definition fetches the layout of rectype from the service, bypassing the
// registry cache.
func (c *Client) Definition(ctx context.Context, rectype string) (*schema.RecordSchema, error) {
	start := time.Now()

	var raw rawDefinition
	if err := c.Request(ctx, "definition", definitionRequest{RecType: rectype}, &raw); err != nil {
		c.observeOperation("definition", rectype, "", time.Since(start), err, 0, nil)
		return nil, err
	}
	s, err := schema.ParseDefinition(rectype, raw)
	c.observeOperation("definition", rectype, "", time.Since(start), err, int64(len(raw)), nil)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// rawDefinition keeps the body verbatim so field order survives.
type rawDefinition []byte

func (r *rawDefinition) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

// DefinitionResolver resolves record layouts through the definition endpoint.
type DefinitionResolver struct {
	Client *Client
}

var _ schema.Resolver = DefinitionResolver{}

// ResolveSchema implements schema.Resolver.
func (d DefinitionResolver) ResolveSchema(ctx context.Context, name string) (*schema.RecordSchema, error) {
	return d.Client.Definition(ctx, name)
}
