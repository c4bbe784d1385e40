// Package types provides shared data structures for the chat gateway.
//
// This package defines core types used across all components, ensuring
// consistent shapes between the HTTP surface, the generation loop, and
// the tool catalog.
//
// Core Types:
//   - ChatMessage: One turn of the admin conversation
//   - ChatRequest: Inbound chat payload (messages + optional image)
//   - Service: Tool provider definition
//   - Tool: Model-invocable operation definition
//   - Parameter: Typed, constrained tool input field
//   - Context: Per-request execution context (auth token, user id)
//   - Result: Uniform tool execution envelope
//
// Example Usage:
//
//	res := &types.Result{
//	    Success: true,
//	    Data:    map[string]interface{}{"id": 42},
//	}
package types
