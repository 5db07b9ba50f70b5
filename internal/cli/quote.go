package cli

import (
	"context"
	"fmt"

	"habitd/internal/model"
)

type QuoteCmd struct {
	Category string `short:"c" help:"Restrict to a quote category."`
}

func (c *QuoteCmd) Run(appCtx *Context) error {
	ctx := context.Background()

	var quote model.Quote
	var err error
	if c.Category != "" {
		quote, err = appCtx.Quotes.DailyByCategory(ctx, c.Category)
	} else {
		quote, err = appCtx.Quotes.Daily(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Printf("%q\n", quote.Text)
	if quote.Author != "" {
		fmt.Printf("  - %s\n", quote.Author)
	}
	return nil
}
