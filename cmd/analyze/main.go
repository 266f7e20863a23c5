package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"dentalAssistant/internal/config"
	"dentalAssistant/internal/dental"
	"dentalAssistant/internal/llm"
	"dentalAssistant/internal/media"
)

func main() {
	var (
		imagePath = flag.String("image", "", "Path to a PNG or JPEG photo of teeth")
		model     = flag.String("model", "", "Override OPENROUTER_MODEL")
		baseURL   = flag.String("base-url", "", "Override OPENROUTER_BASE_URL")
	)
	flag.Parse()

	if *imagePath == "" {
		log.Fatal("image is required (use -image)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *model != "" {
		cfg.AI.Model = *model
	}
	if *baseURL != "" {
		cfg.AI.BaseURL = *baseURL
	}

	file, err := os.Open(*imagePath)
	if err != nil {
		log.Fatalf("open image: %v", err)
	}
	defer file.Close()

	img, err := media.Ingest(file, file.Name())
	if err != nil {
		var decodeErr *media.DecodeError
		if errors.As(err, &decodeErr) {
			fmt.Fprintln(os.Stderr, decodeErr.Error())
			os.Exit(1)
		}
		log.Fatalf("read image: %v", err)
	}

	client := llm.NewOpenAIClient(llm.Options{
		APIKey:  cfg.AI.APIKey(),
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.Model,
	})
	report := dental.NewAnalyzer(client).Analyze(context.Background(), img)

	fmt.Println(report.Display())
	if report.Failed() {
		os.Exit(1)
	}
}
