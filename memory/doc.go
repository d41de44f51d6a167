/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package memory persists small pieces of bot state inside GitHub comment
// and pull request bodies.
//
// GitHub is the only store the bot has, so state rides along in an HTML
// comment marker that renders invisibly:
//
//	<!-- joe-gemini:state {"issueNumber":42} -->
//
// Notes are typed: a Notes[T] embeds and extracts one JSON value of T per
// body, replacing any previous note on re-embed.
package memory
