// Package lists reads seed lists and hosts-style blocklists and renders the
// generated section that discovery appends.
//
// A blocklist is kept as its exact lines. Comment and blank lines are
// preserved verbatim; domain lines ("0.0.0.0 host" or bare "host") are keyed
// by their last token, and a hostname repeated later in the file is dropped.
// At most one generated section exists. It starts at the marker line
//
//	# DISCOVERED DOMAINS — generated 2006-01-02
//
// and runs to the end of the file. Rendering removes the previous section,
// together with the blank lines above it, before appending a fresh one.
//
// # Example Usage
//
//	doc, err := lists.ParseFile(path)
//	if err != nil {
//	    return err
//	}
//	if len(report.New) > 0 {
//	    out := doc.Render(report.New, time.Now(), lists.RenderOptions{})
//	    err = lists.WriteFile(path, out)
//	}
package lists
