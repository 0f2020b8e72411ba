// Package sitechat crawls websites into a namespaced vector index and answers
// questions about their content with retrieval-augmented generation.
//
// The pipeline resolves XML sitemaps, fetches and converts pages, chunks the
// text, and embeds it into a vector store partitioned by website. The answer
// workflow routes a question to per-website retrieval tools, synthesizes a
// structured answer from retrieved context, and reviews it against brand
// guidelines before returning it.
//
// This package contains domain types and capability interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in subdirectories
// named after their primary dependency (e.g., http/, sqlite/, gemini/).
package sitechat
