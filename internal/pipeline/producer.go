package pipeline

import "github.com/nao1215/fgscrap/internal/model"

// produce emits StartPage through EndPage in ascending order and closes the
// page queue. The flag is checked before every emission.
func (p *Pipeline) produce(pages *queue[model.PageNumber]) {
	defer pages.close()

	// The loop tests n == EndPage before incrementing, so an EndPage of
	// MaxPageNumber never wraps around.
	for n := p.cfg.StartPage; ; n++ {
		if p.flag.Stopped() {
			p.logger.Debug("producer stopped", "next_page", n)
			return
		}
		if !pages.send(n) {
			p.logger.Debug("page queue abandoned", "next_page", n)
			return
		}
		if n == p.cfg.EndPage {
			p.logger.Debug("producer reached end page", "end_page", n)
			return
		}
	}
}
