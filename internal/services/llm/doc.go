// Package llm provides an OpenAI-compatible chat client used for vision captioning.
//
// The online captioner sends a single still frame, encoded as a base64 data
// URL, to the configured model together with CaptionPrompt and expects a JSON
// reply of the form {"caption": "..."}. The caption is returned as plain text;
// turning it into a filename-safe token is the caller's job.
//
// Requires api_key and model, and optionally base_url, referer, title and
// timeout. When unconfigured, callers should fall back to offline captioning.
//
// Requests are retried on HTTP 408/429/5xx, empty completions and network
// timeouts with exponential backoff (1s doubling up to 10s, five attempts by
// default). A Retry-After header overrides the computed delay. Errors carry
// services markers so callers can classify them with services.Kind.
package llm
