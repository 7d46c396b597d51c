package main

import (
	"context"
	"fmt"
	"os"

	formspec "github.com/goliatone/go-formspec"
	"github.com/goliatone/go-formspec/pkg/source"
)

func main() {
	ctx := context.Background()

	const (
		specPath   = "examples/fixtures/contact.toml"
		submitURL  = "https://forms.example.com/digest/contact"
		outputPath = "examples/fixtures/contact.html"
	)

	html, err := formspec.GenerateHTML(ctx, source.FromFile(specPath), "html", formspec.RenderOptions{SubmitURL: submitURL})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate form: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(outputPath, html, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", outputPath)
}
