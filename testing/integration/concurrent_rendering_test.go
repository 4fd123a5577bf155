package integration_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/wikiz"
	"github.com/zoobzio/wikiz/render"
)

func TestConcurrentPageRendering(t *testing.T) {
	s := newSite(t, "en", true)

	const workers = 16
	const perWorker = 50

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				title := fmt.Sprintf("Page %d-%d", w, i)
				out, err := s.engine.Page("show", s.page(typeWikiPage, title), render.Options{})
				if err != nil {
					errs <- err
					continue
				}
				if want := "<h1>" + title + "</h1>"; !assert.Contains(t, out, want) {
					return
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int64(workers*perWorker), s.registry.Metrics().Invocations)
}

func TestRegistrationDuringRendering(t *testing.T) {
	s := newSite(t, "en", false)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			s.registry.Register(typeTalkPage, "page.sidebar", func(self wikiz.Hookable, args ...any) (any, error) {
				return "<nav></nav>", nil
			})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_ = wikiz.ContentHook(s.page(typeTalkPage, "Talk"), "page.sidebar")
		}
	}()
	wg.Wait()

	out := wikiz.ContentHook(s.page(typeTalkPage, "Talk"), "page.sidebar")
	assert.Len(t, string(out), 100*len("<nav></nav>"))
}
