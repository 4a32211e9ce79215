// CI pipeline of the assessment service.
//
// Runs the test suite, builds the service binary for linux/amd64 and
// linux/arm64 and publishes multi-platform images. The rtconv and docsgen
// tools are shipped in the same image.

package main

import (
	"context"
	"dagger/assessment/internal/dagger"
	"fmt"
)

type Assessment struct{}

func (m *Assessment) GoBuildEnv(source *dagger.Directory) *dagger.Container {
	goCache := dag.CacheVolume("go")
	return dag.Container().
		From("golang:alpine").
		WithDirectory("/src", source, dagger.ContainerWithDirectoryOpts{Exclude: []string{"dagger-ci/", "_examples/"}}).
		WithWorkdir("/src").
		WithEnvVariable("GOOS", "linux").
		WithEnvVariable("CGO_ENABLED", "0").
		WithMountedCache("/go/pkg/mod", goCache).
		WithExec([]string{"go", "mod", "download"})
}

// Test runs unit tests on in-memory sqlite.
func (m *Assessment) Test(ctx context.Context, source *dagger.Directory) (string, error) {
	return m.GoBuildEnv(source).
		WithExec([]string{"go", "vet", "./..."}).
		WithExec([]string{"go", "test", "./..."}).
		Stdout(ctx)
}

func (m *Assessment) BackEnv(platform dagger.Platform, bins *dagger.Directory, docs *dagger.File) *dagger.Container {
	return dag.Container(dagger.ContainerOpts{
		Platform: platform,
	}).
		From("alpine").
		WithEnvVariable("TZ", "Europe/Moscow").
		WithExec([]string{"apk", "add", "--no-cache", "tzdata"}).
		WithWorkdir("/app").
		WithDirectory("/app/bin", bins).
		WithFile("/app/docs/api_errors.md", docs).
		WithEnvVariable("DATABASE_URL", "/app/data/assessment.db").
		WithEntrypoint([]string{"/app/bin/assessment"})
}

func (m *Assessment) Build(version string, source *dagger.Directory) []*dagger.Container {
	buildMatrix := []struct {
		Arch     string
		Platform dagger.Platform
	}{
		{
			Arch:     "amd64",
			Platform: dagger.Platform("linux/amd64"),
		},
		{
			Arch:     "arm64",
			Platform: dagger.Platform("linux/arm64/v8"),
		},
	}

	ldflags := fmt.Sprintf("-s -w -X main.version=%s", version)

	var images []*dagger.Container
	for _, buildParam := range buildMatrix {
		builder := m.GoBuildEnv(source).
			WithEnvVariable("GOARCH", buildParam.Arch).
			WithExec([]string{"go", "build", "-o", "/build/assessment", "-ldflags", ldflags, "./cmd/assessment"}).
			WithExec([]string{"go", "build", "-o", "/build/rtconv", "-ldflags", "-s -w", "./cmd/rtconv"})

		docs := m.GoBuildEnv(source).
			WithExec([]string{"go", "run", "./cmd/docsgen", "-out", "/build/api_errors.md"}).
			File("/build/api_errors.md")

		image := m.BackEnv(
			buildParam.Platform,
			builder.Directory("/build"),
			docs,
		).
			WithLabel("org.opencontainers.image.source", "https://github.com/aisa-it/assessment").
			WithAnnotation("org.opencontainers.image.source", "https://github.com/aisa-it/assessment")
		images = append(images, image)
	}
	return images
}

func (m *Assessment) Publish(
	ctx context.Context,
	images []*dagger.Container,
	registrySecret *dagger.Secret,
	registryUser string,
	imageName string,
) (string, error) {
	registry := dag.Container().
		WithRegistryAuth("ghcr.io", registryUser, registrySecret)

	return registry.
		Publish(ctx, "ghcr.io/"+imageName, dagger.ContainerPublishOpts{PlatformVariants: images})
}

func (m *Assessment) Export(
	ctx context.Context,
	images []*dagger.Container,
	imageName string,
) (string, error) {
	return dag.Container().
		Export(ctx, imageName, dagger.ContainerExportOpts{PlatformVariants: images})
}

func (m *Assessment) BuildLocal(ctx context.Context, name string, source *dagger.Directory) (string, error) {
	return m.Export(ctx, m.Build("v0.1.0", source), name)
}

func (m *Assessment) BuildApp(ctx context.Context, version string, source *dagger.Directory,
	registrySecret *dagger.Secret,
	registryUser string,
	imageName string,
) error {
	if _, err := m.Test(ctx, source); err != nil {
		return err
	}

	back := m.Build(version, source)

	for _, tag := range []string{version, "latest"} {
		ref, err := m.Publish(ctx, back, registrySecret, registryUser, fmt.Sprintf("%s:%s", imageName, tag))
		if err != nil {
			return err
		}
		fmt.Println(ref)
	}
	return nil
}
