// SPDX-License-Identifier: MPL-2.0

package env

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"nodeforge/internal/container"
)

// ContainerWorkDir is the fixed mount point inside the container where
// the node's working directory is bound. Command lines executed in a
// container see their files under this path.
const ContainerWorkDir = "/node_folder"

// DockerProvider runs node commands inside a container image built from
// the spec's build file. The image is tagged with the environment name,
// so existence checks are a local image lookup.
type DockerProvider struct {
	spec   Spec
	engine container.Engine
	gpus   bool
	name   lazyName
}

// NewDockerProvider creates a container-backed provider.
func NewDockerProvider(spec Spec, engine container.Engine, gpus bool) *DockerProvider {
	return &DockerProvider{spec: spec, engine: engine, gpus: gpus}
}

// Kind returns KindDocker.
func (p *DockerProvider) Kind() Kind { return KindDocker }

// EnvName returns the content-derived image tag.
func (p *DockerProvider) EnvName() (string, error) {
	return p.name.get(p.spec)
}

// IsBuilt checks the local image list for the environment tag.
func (p *DockerProvider) IsBuilt(ctx context.Context) (bool, error) {
	name, err := p.EnvName()
	if err != nil {
		return false, err
	}
	exists, err := p.engine.ImageExists(ctx, name)
	if err != nil {
		return false, &QueryError{Name: name, Cause: err}
	}
	return exists, nil
}

// Build builds the image using the spec file and its containing
// directory as context.
func (p *DockerProvider) Build(ctx context.Context, logw io.Writer) error {
	name, err := p.EnvName()
	if err != nil {
		return err
	}

	slog.Info("building container environment", "name", name, "file", p.spec.Path)

	err = p.engine.Build(ctx, container.BuildOptions{
		ContextDir: filepath.Dir(p.spec.Path),
		BuildFile:  p.spec.Path,
		Tag:        name,
		Stdout:     logw,
		Stderr:     logw,
	})
	if err != nil {
		return &BuildError{Name: name, Cause: err}
	}
	return nil
}

// CommandPrefix runs the image interactively with auto-removal, binds
// the current working directory into the fixed in-container mount
// point, and requests GPU passthrough when enabled. The $(pwd) is left
// for the executing shell to expand in the node's working directory.
func (p *DockerProvider) CommandPrefix() (string, error) {
	name, err := p.EnvName()
	if err != nil {
		return "", err
	}

	gpuFlag := ""
	if p.gpus {
		gpuFlag = "--gpus all "
	}
	mount := fmt.Sprintf(`--mount type=bind,source="$(pwd)",target=%s `, ContainerWorkDir)
	return fmt.Sprintf("%s run -i --rm %s%s%s ", p.engine.Name(), gpuFlag, mount, name), nil
}
