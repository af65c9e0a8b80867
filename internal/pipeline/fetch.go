package pipeline

import (
	"context"

	"github.com/nao1215/fgscrap/internal/metrics"
	"github.com/nao1215/fgscrap/internal/model"
)

// fetchLoop receives page numbers until the page queue is closed, the
// content queue is abandoned, or the flag is set.
//
// Design decision: A failed fetch drops the page. There is no retry and no
// requeue, so the page is lost for this run and picked up by the next one.
func (p *Pipeline) fetchLoop(ctx context.Context, id int, pages *queue[model.PageNumber], contents *queue[string]) {
	logger := p.logger.With("fetch_worker", id)

	for {
		n, ok := pages.receive()
		if !ok {
			return
		}

		content, err := p.fetcher.Page(ctx, n)
		if err != nil {
			logger.Warn("dropping page",
				"page", n,
				"error", err,
			)
			p.stats.pagesDropped.Add(1)
			metrics.PagesDropped.Inc()
		} else {
			logger.Debug("fetched page", "page", n)
			p.stats.pagesFetched.Add(1)
			metrics.PagesFetched.Inc()

			if !contents.send(content) {
				return
			}
		}

		if p.flag.Stopped() {
			return
		}
	}
}
