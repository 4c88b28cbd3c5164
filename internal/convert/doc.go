// Package convert orchestrates the AutoEq-to-FiiO conversion pipeline.
//
// Manager ties the collaborators together: the HTTP client fetches the
// index (revalidated against a cached ETag, with offline fallback) and the
// per-headphone EQ files (text first, CSV on 404), the autoeq parser turns
// them into normalized profiles, and the fiio package renders the final
// XML which Save writes to disk.
//
// Progress and warnings flow through ProgressEvent callbacks so the CLI
// and TUI front ends can render them however they like:
//
//	manager := convert.NewManager(settings, func(e convert.ProgressEvent) {
//	    fmt.Println(e.Message)
//	})
//
//	if err := manager.LoadIndex(ctx); err != nil { ... }
//	matches := manager.Search("hd 650")
//	result, err := manager.Convert(ctx, matches[0])
//	if err == nil {
//	    manager.Save(result)
//	}
package convert
