// Package core contains the reading logic of PaperRead.
// It has no HTTP or storage framework dependencies; collaborators are
// injected through the interfaces package.
//
// The core package is organized into several sub-packages:
//
// - domain: pages, sentence spans, annotations, playback and dictation models
// - text: sentence segmentation, fingerprints and word counting
// - annotation: the per-page annotation store and cached translations
// - pagination: page loading with stale-response suppression
// - readaloud: the read-aloud sequencer over a speech engine
// - reader: sessions tying the above together, and the session registry
// - storage: per-user progress, sentence annotations and preferences
// - workers: the ordered annotation save queue
// - catalog, importer, dictation: library listing, article import and practice
// - errors: typed errors mapped to HTTP statuses by the api package
// - interfaces: contracts for the backend, cache, HTTP, speech and logging
//
// # Usage Example
//
//	registry := reader.NewRegistry(reader.Dependencies{
//	    Backend: backend,                      // implements interfaces.ArticleBackend
//	    Storage: storage.NewAdapter(cache, logger),
//	    Logger:  logger,
//	}, config.WithPageSize(8))
//
//	session, view, err := registry.Open(ctx, "alice", 42)
//	view, err = session.NextPage(ctx)
//	view, err = session.ToggleWordAnnotation(ctx, "data", "")
package core
