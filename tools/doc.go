// Package tools defines tool contracts and implementations.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - Network tools: search (Jina search index), scrape (Jina reader,
//     optionally reranked against the task).
//   - Dispatcher: bounded concurrent fan-out with retry/backoff; failures
//     become output text, never errors the loop must handle.
package tools
