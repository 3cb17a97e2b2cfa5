package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/threadscope/threadscope/internal/models"
)

const (
	MIN_PAGE_TEXT = 100
	MAX_PAGE_TEXT = 15000
)

const extractionPrompt = `You are given the visible text of a web page that may contain an online discussion.

Extract the discussion and return ONLY a JSON object, no other text, with exactly these keys:
{
  "title": "the thread title",
  "content": "the opening post body, empty string if none",
  "comments": [{"author": "name or Unknown", "content": "comment text"}]
}

Rules:
- Use only what appears in the page text below. Do not invent content.
- Skip navigation, ads, and boilerplate.
- If the page has no discussion, return {"title": "", "content": "", "comments": []}.

PAGE TEXT:
%s`

// fetchGeneric extracts an arbitrary page: render it in a browser, hand the
// visible text to the model, and parse the JSON it returns. Every failure
// along the way collapses to nil.
func (e *Extractor) fetchGeneric(ctx context.Context, url string) *models.DiscussionRecord {
	rendered, err := e.browser.Render(ctx, url)
	if err != nil {
		slog.Warn("[GenericExtractor] Render failed",
			slog.String("url", url),
			slog.String("error", err.Error()))
		return nil
	}

	text := []rune(rendered.Text)
	if len(text) < MIN_PAGE_TEXT {
		slog.Warn("[GenericExtractor] Page text too short to extract",
			slog.String("url", url),
			slog.Int("chars", len(text)))
		return nil
	}
	if len(text) > MAX_PAGE_TEXT {
		text = text[:MAX_PAGE_TEXT]
	}

	reply, err := e.ai.Complete(ctx, fmt.Sprintf(extractionPrompt, string(text)))
	if err != nil {
		slog.Warn("[GenericExtractor] Model call failed",
			slog.String("url", url),
			slog.String("error", err.Error()))
		return nil
	}

	payload, ok := ExtractJSON(reply)
	if !ok {
		slog.Warn("[GenericExtractor] Model reply contained no valid JSON",
			slog.String("url", url))
		return nil
	}

	record, err := models.ParseModelRecord(payload)
	if err != nil {
		slog.Warn("[GenericExtractor] Failed to parse model record",
			slog.String("url", url),
			slog.String("error", err.Error()))
		return nil
	}
	return record
}
