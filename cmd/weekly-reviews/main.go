package main

import "github.com/Afrawles/weekly/internal/cli"

func main() {
	cli.Execute(cli.NewReviewsCommand())
}
