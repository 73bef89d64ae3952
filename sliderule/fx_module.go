package sliderule

import (
	"go.uber.org/fx"

	"github.com/aalemi-dev/sliderule-go/logger"
	"github.com/aalemi-dev/sliderule-go/observability"
	"github.com/aalemi-dev/sliderule-go/tracer"
)

// FXModule provides a *Client built from Config.
//
// Dependencies required by this module:
//   - sliderule.Config
//
// Optional dependencies:
//   - *logger.LoggerClient
//   - observability.Observer
//   - tracer.Tracer
var FXModule = fx.Module("sliderule",
	fx.Provide(NewClientWithDI),
)

// ClientParams groups the dependencies of NewClientWithDI.
type ClientParams struct {
	fx.In

	Config   Config
	Logger   *logger.LoggerClient   `optional:"true"`
	Observer observability.Observer `optional:"true"`
	Tracer   tracer.Tracer          `optional:"true"`
}

// NewClientWithDI builds a Client from injected dependencies.
func NewClientWithDI(params ClientParams) (*Client, error) {
	client, err := NewClient(params.Config)
	if err != nil {
		return nil, err
	}
	if params.Logger != nil {
		client.WithLogger(params.Logger)
	}
	if params.Observer != nil {
		client.WithObserver(params.Observer)
	}
	if params.Tracer != nil {
		client.WithTracer(params.Tracer)
	}
	return client, nil
}
