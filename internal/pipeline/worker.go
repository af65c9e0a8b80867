package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/fgscrap/internal/metrics"
	"github.com/nao1215/fgscrap/internal/model"
	"github.com/nao1215/fgscrap/internal/paste"
)

// decryptLoop receives page contents until the content queue is closed or
// the flag is set after a batch. An extraction or persistence failure ends
// the worker and is returned.
func (p *Pipeline) decryptLoop(ctx context.Context, id int, contents *queue[string]) error {
	logger := p.logger.With("decrypt_worker", id)

	for {
		content, ok := contents.receive()
		if !ok {
			return nil
		}

		if err := p.processPage(ctx, logger, content); err != nil {
			logger.Error("decrypt worker terminated", "error", err)
			return err
		}

		if p.flag.Stopped() {
			return nil
		}
	}
}

// processPage extracts the candidates of one page and processes them as a
// single batch.
func (p *Pipeline) processPage(ctx context.Context, logger *slog.Logger, content string) error {
	result, err := p.extractor.Extract(content)
	if err != nil {
		return fmt.Errorf("failed to extract page: %w", err)
	}

	if result.End {
		metrics.EndMarkersSeen.Inc()
		p.stats.endReached.Store(true)
		if p.flag.Stop() {
			logger.Info("end of listing reached, stopping")
		}
		return nil
	}

	if len(result.Candidates) == 0 {
		return nil
	}
	p.stats.candidates.Add(int64(len(result.Candidates)))
	metrics.CandidatesExtracted.Add(float64(len(result.Candidates)))

	return p.processBatch(ctx, logger, result.Candidates)
}

// processBatch skips saved candidates, decodes the rest, and commits one
// dedup batch.
//
// Design decision: The store is read once and written once per batch. The
// write happens after every decode of the batch has finished so the
// dedup update for a page is atomic. Store calls use a context detached
// from cancellation so a soft stop still commits the batch in hand.
func (p *Pipeline) processBatch(ctx context.Context, logger *slog.Logger, candidates []model.Candidate) error {
	storeCtx := context.WithoutCancel(ctx)

	titles := make([]string, 0, len(candidates))
	for _, c := range candidates {
		titles = append(titles, c.Title)
	}

	saved, err := p.store.Lookup(storeCtx, titles)
	if err != nil {
		return fmt.Errorf("failed to look up saved titles: %w", err)
	}

	records := make([]model.Record, 0, len(candidates))
	for _, c := range candidates {
		if name, ok := saved[c.Title]; ok && p.artifactExists(name) {
			logger.Debug("skipping saved title", "title", c.Title, "torrent", name)
			p.stats.skipped.Add(1)
			metrics.CandidatesSkipped.Inc()
			continue
		}

		name, ok := p.decodeAndWrite(ctx, logger, c)
		if !ok {
			continue
		}
		records = append(records, model.Record{Title: c.Title, Torrent: name})
	}

	if len(records) == 0 {
		return nil
	}

	if err := p.store.Save(storeCtx, records); err != nil {
		return fmt.Errorf("failed to save %d records: %w", len(records), err)
	}
	p.stats.recorded.Add(int64(len(records)))
	metrics.BatchesCommitted.Inc()

	return nil
}

// decodeAndWrite decodes one candidate and writes its artifact unless a
// file of that name already exists. It returns the artifact name and
// whether the candidate should be recorded.
func (p *Pipeline) decodeAndWrite(ctx context.Context, logger *slog.Logger, c model.Candidate) (string, bool) {
	start := time.Now()
	artifact, err := p.decoder.Decode(ctx, c.PasteReference)
	metrics.DecodeDuration.Observe(time.Since(start).Seconds())

	switch {
	case errors.Is(err, paste.ErrAttachmentMissing):
		logger.Warn("attachment is missing",
			"title", c.Title,
			"reference", c.PasteReference,
		)
		p.stats.missingAttach.Add(1)
		metrics.DecodeFailures.WithLabelValues(metrics.ReasonMissing).Inc()
		return "", false
	case err != nil:
		logger.Error("failed to decode paste",
			"title", c.Title,
			"reference", c.PasteReference,
			"error", err,
		)
		p.stats.decodeFailed.Add(1)
		metrics.DecodeFailures.WithLabelValues(metrics.ReasonError).Inc()
		return "", false
	}

	name, err := artifact.SafeName()
	if err != nil {
		logger.Error("refusing artifact name",
			"title", c.Title,
			"name", artifact.Name,
			"error", err,
		)
		p.stats.decodeFailed.Add(1)
		metrics.DecodeFailures.WithLabelValues(metrics.ReasonError).Inc()
		return "", false
	}

	written, err := p.writeArtifact(name, artifact.Data)
	switch {
	case err != nil:
		// The record is still written; the missing file makes the next run
		// decode this title again.
		logger.Error("failed to write artifact",
			"title", c.Title,
			"torrent", name,
			"error", err,
		)
	case written:
		logger.Info("saved artifact", "title", c.Title, "torrent", name)
		p.stats.saved.Add(1)
		metrics.ArtifactsSaved.Inc()
	default:
		logger.Debug("artifact file already exists", "title", c.Title, "torrent", name)
	}

	return name, true
}

// artifactExists reports whether name exists in the save directory.
func (p *Pipeline) artifactExists(name string) bool {
	safe, err := (&model.Artifact{Name: name}).SafeName()
	if err != nil {
		return false
	}
	_, err = os.Stat(filepath.Join(p.cfg.SaveDir, safe))
	return err == nil
}

// writeArtifact creates name in the save directory. An existing file is
// left untouched and reported as not written.
func (p *Pipeline) writeArtifact(name string, data []byte) (bool, error) {
	path := filepath.Join(p.cfg.SaveDir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()       //nolint:errcheck // write error takes precedence
		_ = os.Remove(path) //nolint:errcheck // best effort cleanup
		return false, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path) //nolint:errcheck // best effort cleanup
		return false, err
	}

	return true, nil
}
