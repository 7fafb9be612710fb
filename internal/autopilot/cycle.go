package autopilot

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/TobiSchelling/LookTrending/internal/database"
	"github.com/TobiSchelling/LookTrending/internal/generate"
)

// RunCycle runs one generation cycle and blocks until it is done. It returns
// false without doing anything when a cycle is already running.
func (a *Autopilot) RunCycle(ctx context.Context) bool {
	a.mu.Lock()
	started := a.beginLocked()
	a.mu.Unlock()
	if !started {
		return false
	}
	a.execute(ctx)
	return true
}

// ForceRun starts a cycle in the background. A request that arrives while
// a cycle is running is dropped.
func (a *Autopilot) ForceRun() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.logf("Manual research triggered.")
	if !a.beginLocked() {
		a.logf("Cycle already in progress, manual trigger dropped.")
		return false
	}
	go a.execute(a.ctx)
	return true
}

// beginLocked claims the single-flight guard. Callers hold a.mu and must
// call execute exactly once when it returns true.
func (a *Autopilot) beginLocked() bool {
	if a.generating || a.closed {
		return false
	}
	a.generating = true
	// The pending deadline is consumed; finish computes the next one.
	a.nextRun = nil
	a.wg.Add(1)
	a.logf("Starting news research cycle...")
	return true
}

func (a *Autopilot) execute(ctx context.Context) {
	start := a.now()
	defer a.finish(start)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[autopilot] cycle panic: %v", r)
			a.logf("Error: %v", r)
		}
	}()

	if err := a.cycle(ctx); err != nil {
		a.logf("Error: %v", err)
	}
}

// finish releases the guard and schedules the next deadline. It runs once
// per cycle whatever the outcome.
func (a *Autopilot) finish(start time.Time) {
	a.mu.Lock()
	now := a.now()
	a.generating = false
	a.lastRun = &now
	if a.active {
		next := now.Add(a.interval)
		a.nextRun = &next
	} else {
		a.nextRun = nil
	}
	a.logf("Cycle finished in %s.", now.Sub(start).Round(time.Millisecond))
	a.mu.Unlock()

	a.wg.Done()
}

func (a *Autopilot) cycle(ctx context.Context) error {
	if err := a.gen.Configured(); err != nil {
		return err
	}

	a.logf("Scouring the web for trending topics...")
	exclusions := Exclusions(a.Articles(), a.exclusionLimit)
	content, err := a.gen.Generate(ctx, exclusions)
	if err != nil {
		return err
	}
	a.logf(`Trend found: "%s"`, content.Title)

	imageURL, imagePrompt := a.illustrate(ctx, content.ImagePrompt)

	article := database.Article{
		ID:          a.newID(),
		Title:       content.Title,
		Excerpt:     content.Excerpt,
		Content:     content.Content,
		Author:      content.Author,
		ReadTime:    content.ReadTime,
		Tags:        content.Tags,
		Date:        a.now().UTC(),
		ImageURL:    imageURL,
		ImagePrompt: imagePrompt,
	}
	if article.Tags == nil {
		article.Tags = []string{}
	}

	a.logf("Publishing article to database...")
	if err := a.store.CreateArticle(article); err != nil {
		return fmt.Errorf("publishing article: %w", err)
	}
	a.publish(article)
	a.logf("Article published successfully.")
	return nil
}

// illustrate requests a cover image. Failures only cost the image; the
// prompt is returned whenever an attempt was made.
func (a *Autopilot) illustrate(ctx context.Context, prompt string) (imageURL, imagePrompt *string) {
	if prompt == "" {
		return nil, nil
	}
	if a.images == nil {
		a.logf("Image generation disabled, publishing without cover.")
		return nil, nil
	}

	a.logf("Generating editorial image...")
	ref, err := a.images.GenerateImage(ctx, generate.EditorialImagePrompt(prompt))
	switch {
	case err != nil:
		a.logf("Image generation failed (%v), using fallback.", err)
	case ref == "":
		a.logf("Image generation returned no data, using fallback.")
	default:
		a.logf("Image acquired.")
		imageURL = &ref
	}
	return imageURL, &prompt
}
