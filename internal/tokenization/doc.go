/*
Package tokenization replaces sensitive field maps with opaque, revocable, time-limited
token handles.

# Architecture

  - domain: Token, field maps, bulk results and the lifecycle error taxonomy
  - service: handle generation and plaintext fingerprinting
  - repository: token persistence (PostgreSQL, MySQL)
  - usecase: create, retrieve, extend, revoke and bulk orchestration
  - http: gin handlers and DTOs

# Lifecycle

A token is created Active with an expiry of now plus the requested hours (24 by
default). It becomes Expired once the current time passes its expiry. Revocation forces
the expiry to the current instant; extension adds hours to the current expiry and is
refused once the token has expired. Rows are never deleted so the audit trail remains
resolvable.

# Storage Format

Fields are serialized as JSON with sorted keys and sealed with the envelope codec from
internal/crypto. Only the envelope, a keyed fingerprint of the serialized fields, and the
key generation are persisted.

Callers should zero plaintext buffers they obtain through the envelope codec; the field
maps returned by Retrieve are plain Go strings and cannot be zeroed.
*/
package tokenization
