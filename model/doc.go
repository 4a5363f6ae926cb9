// Package model defines the provider-agnostic text generation abstraction
// used to summarize investigations, plus a MockModel for tests.
//
// Providers (OpenAI, Anthropic) implement the Model interface in their own
// sub-packages so higher layers stay decoupled from vendor SDKs.
package model
