// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export converts conversations into shareable documents.
//
// Three formats are supported: markdown for pasting into docs and
// issues, HTML for a standalone styled page, and JSON for downstream
// tooling. Reasoning spans are separated from visible text so an
// export never interleaves chain-of-thought with the answer; whether
// reasoning is included at all is an option.
package export
