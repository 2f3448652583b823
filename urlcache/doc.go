// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package urlcache stores packed URLs on disk so repeated inputs skip parsing.
//
// Entries are keyed by the SHA-256 of the raw URL text and written atomically.
// Each entry records when it was written and the cache version, so a Manager
// configured with a TTL or a new Version treats stale entries as misses.
//
//	m := urlcache.NewManager(urlcache.Options{Dir: dir, TTL: 24 * time.Hour, Version: version.Version})
//	p, ok, err := m.Get(raw)
//	if !ok {
//		u, err := urlparse.Parse(raw)
//		...
//		p = urlpack.Encode(u)
//		_ = m.Set(raw, p)
//	}
package urlcache
