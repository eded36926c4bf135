// SPDX-License-Identifier: MPL-2.0

package env

import (
	"context"
	"io"

	"golang.org/x/sync/singleflight"
)

// Ensurer serializes concurrent builds of the same environment within
// one process. Callers that race on an unbuilt environment share a
// single build; distinct environments build independently.
type Ensurer struct {
	group singleflight.Group
}

// NewEnsurer creates an Ensurer.
func NewEnsurer() *Ensurer {
	return &Ensurer{}
}

// EnsureBuilt makes sure the provider's environment exists, building it
// when missing. The existence check runs inside the flight so losers of
// a race observe the winner's result instead of starting a duplicate
// build. onBuild, when non-nil, fires only when an actual build is
// about to start, before any build output reaches logw.
func (e *Ensurer) EnsureBuilt(ctx context.Context, p Provider, logw io.Writer, onBuild func()) error {
	name, err := p.EnvName()
	if err != nil {
		return err
	}

	_, err, _ = e.group.Do(name, func() (interface{}, error) {
		built, err := p.IsBuilt(ctx)
		if err != nil {
			return nil, err
		}
		if built {
			return nil, nil
		}
		if onBuild != nil {
			onBuild()
		}
		return nil, p.Build(ctx, logw)
	})
	return err
}
