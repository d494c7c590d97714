// Package parser is the body-parsing layer. Once installed on a router it
// reads request bodies up to a size limit, optionally verifies the raw bytes,
// decodes JSON, URL-encoded, or plain-text payloads, and exposes the result to
// downstream handlers through FromContext. The raw body is replaced with a
// re-readable copy so handlers can still consume it directly.
package parser
