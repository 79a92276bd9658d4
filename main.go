package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/clipmark/article-extractor/internal/extract"
)

func main() {
	app := &cli.App{
		Name:  "article-extractor",
		Usage: "Extract clean, canonical articles from web pages or raw markup",
		Commands: []*cli.Command{
			extract.Command(),
			extract.BatchCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
