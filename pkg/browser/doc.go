// Package browser keeps warm Playwright sessions, one per target website,
// and executes intent commands against them.
//
// A hot session pairs an isolated browser context and page with the site's
// precomputed description. Because the page is already loaded, an intent
// command (a keyword set plus optional booking data) turns into page
// interaction in milliseconds instead of paying navigation cost per request.
//
// # Architecture
//
// The package is built around three core concepts:
//
//  1. Session: an isolated browser context and page bound to one site id,
//     together with the site's description
//  2. SessionManager: the explicit registry owning the shared Chromium
//     engine and all active sessions
//  3. Executors: the per-action operations (form fill, click, price and
//     contact answers, navigation, observation) that run against a session
//
// One Chromium instance serves the whole process; sessions isolate state
// from each other through their browser contexts.
//
// # Session Lifecycle
//
//  1. Prepare: open a context and page for a site id, navigate to the
//     site, and store the session with its description
//  2. Execute: commands reuse the warm session; a failed liveness probe
//     triggers one transparent rebuild before the command runs
//  3. Close: explicit release of the session's browser resources
//  4. Eviction: at capacity the least recently used session is evicted;
//     a background sweep closes sessions idle past the timeout
//
// The single-shot path (Interact) synthesizes a session on first use by
// deriving a description from the live page, then follows the same
// lifecycle.
//
// # Concurrency
//
// All operations for one site id are serialized through a per-session
// mutex, so two commands against the same site cannot interleave page
// interactions. The store mutex only guards the session map and is never
// held while a session mutex is being acquired.
package browser
