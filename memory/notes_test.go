/*
Copyright 2026 The joe-gemini Authors
SPDX-License-Identifier: Apache-2.0
*/

package memory

import (
	"strings"
	"testing"
)

type prState struct {
	IssueNumber int    `json:"issueNumber"`
	HeadSHA     string `json:"headSHA,omitempty"`
}

func TestEmbedExtractRoundTrip(t *testing.T) {
	notes, err := NewNotes[prState]("joe-gemini")
	if err != nil {
		t.Fatalf("NewNotes() = %v", err)
	}

	body, err := notes.Embed("Fixes the flaky test.", prState{IssueNumber: 42})
	if err != nil {
		t.Fatalf("Embed() = %v", err)
	}
	if !strings.Contains(body, "Fixes the flaky test.") {
		t.Errorf("Embed() dropped the original body: %q", body)
	}
	if !strings.Contains(body, `<!-- joe-gemini:state {"issueNumber":42} -->`) {
		t.Errorf("Embed() missing state note: %q", body)
	}

	got, ok, err := notes.Extract(body)
	if err != nil {
		t.Fatalf("Extract() = %v", err)
	}
	if !ok {
		t.Fatal("Extract() found no note")
	}
	if got.IssueNumber != 42 {
		t.Errorf("Extract() IssueNumber = %d, want 42", got.IssueNumber)
	}
}

func TestEmbedReplacesExistingNote(t *testing.T) {
	notes, err := NewNotes[prState]("joe-gemini")
	if err != nil {
		t.Fatalf("NewNotes() = %v", err)
	}

	body, err := notes.Embed("body", prState{IssueNumber: 1})
	if err != nil {
		t.Fatalf("Embed() = %v", err)
	}
	body, err = notes.Embed(body, prState{IssueNumber: 2, HeadSHA: "abc123"})
	if err != nil {
		t.Fatalf("second Embed() = %v", err)
	}

	if n := strings.Count(body, "joe-gemini:state"); n != 1 {
		t.Errorf("body has %d notes, want 1: %q", n, body)
	}
	got, ok, err := notes.Extract(body)
	if err != nil || !ok {
		t.Fatalf("Extract() = %v, ok=%v", err, ok)
	}
	if got.IssueNumber != 2 || got.HeadSHA != "abc123" {
		t.Errorf("Extract() = %+v, want issue 2 / abc123", got)
	}
}

func TestExtractNoNote(t *testing.T) {
	notes, err := NewNotes[prState]("joe-gemini")
	if err != nil {
		t.Fatalf("NewNotes() = %v", err)
	}
	_, ok, err := notes.Extract("a body with no markers at all")
	if err != nil {
		t.Fatalf("Extract() = %v", err)
	}
	if ok {
		t.Error("Extract() reported a note in a plain body")
	}
}

func TestMarkersAreNamespaced(t *testing.T) {
	a, _ := NewNotes[prState]("joe-gemini")
	b, _ := NewNotes[prState]("joe-gemini-review")

	body, err := a.Embed("", prState{IssueNumber: 7})
	if err != nil {
		t.Fatalf("Embed() = %v", err)
	}
	if _, ok, _ := b.Extract(body); ok {
		t.Error("review notes extracted a thread note")
	}
}

func TestStrip(t *testing.T) {
	notes, _ := NewNotes[prState]("joe-gemini")
	body, _ := notes.Embed("visible text", prState{IssueNumber: 3})
	got := notes.Strip(body)
	if got != "visible text" {
		t.Errorf("Strip() = %q, want %q", got, "visible text")
	}
}

func TestNewNotesValidation(t *testing.T) {
	if _, err := NewNotes[prState](""); err == nil {
		t.Error("NewNotes(\"\") should fail")
	}
	if _, err := NewNotes[prState]("has space"); err == nil {
		t.Error("NewNotes with whitespace should fail")
	}
}
