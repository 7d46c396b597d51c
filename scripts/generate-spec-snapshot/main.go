package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	formspec "github.com/goliatone/go-formspec"
	"github.com/goliatone/go-formspec/pkg/orchestrator"
	"github.com/goliatone/go-formspec/pkg/render"
	"github.com/goliatone/go-formspec/pkg/source"
	"github.com/goliatone/go-formspec/pkg/spec"
)

const snapshotRendererName = "spec-snapshot"

// snapshotRenderer writes the decoded spec as JSON, in field order.
type snapshotRenderer struct {
	path string
}

func (r *snapshotRenderer) Name() string {
	return snapshotRendererName
}

func (r *snapshotRenderer) ContentType() string {
	return "application/json"
}

func (r *snapshotRenderer) Render(_ context.Context, form *spec.FormSpec, _ render.RenderOptions) ([]byte, error) {
	payload, err := json.MarshalIndent(form, "", "  ")
	if err != nil {
		return nil, err
	}
	payload = append(payload, '\n')
	if err := os.WriteFile(r.path, payload, 0o644); err != nil {
		return nil, err
	}
	return payload, nil
}

func main() {
	var (
		specPath   = flag.String("spec", "examples/fixtures/contact.toml", "spec TOML path")
		outputPath = flag.String("output", "examples/fixtures/contact.json", "output path for the serialized spec")
	)
	flag.Parse()

	registry := render.NewRegistry()
	registry.MustRegister(&snapshotRenderer{path: *outputPath})

	orch := orchestrator.New(
		orchestrator.WithLoader(formspec.NewLoader()),
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(snapshotRendererName),
	)

	_, err := orch.Generate(context.Background(), orchestrator.Request{
		Source: source.FromFile(*specPath),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to snapshot spec: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote spec snapshot to %s\n", *outputPath)
}
