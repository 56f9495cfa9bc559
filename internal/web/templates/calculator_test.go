package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/louisbranch/reckon.space/internal/web/i18n"
)

func TestDisplayRendersRegister(t *testing.T) {
	var b strings.Builder
	err := Display(CalculatorView{Display: "3.5", Copy: i18n.For(i18n.Default())}).Render(context.Background(), &b)
	if err != nil {
		t.Fatalf("Display() = %v", err)
	}
	got := b.String()
	if !strings.Contains(got, `id="display"`) {
		t.Fatalf("expected display id, got %q", got)
	}
	if !strings.Contains(got, ">3.5<") {
		t.Fatalf("expected register contents, got %q", got)
	}
	if strings.Contains(got, "display-error") {
		t.Fatalf("unexpected error class, got %q", got)
	}
}

func TestDisplayRendersErrorState(t *testing.T) {
	var b strings.Builder
	copy := i18n.For(i18n.Default())
	err := Display(CalculatorView{Display: "Error", Errored: true, Copy: copy}).Render(context.Background(), &b)
	if err != nil {
		t.Fatalf("Display() = %v", err)
	}
	got := b.String()
	if !strings.Contains(got, "display-error") {
		t.Fatalf("expected error class, got %q", got)
	}
	if !strings.Contains(got, copy.ErrorHint) {
		t.Fatalf("expected error hint, got %q", got)
	}
}

func TestHistoryRendersRows(t *testing.T) {
	var b strings.Builder
	view := HistoryView{
		Rows: []HistoryRow{{Expression: "5 + 3", Result: "8", When: "2026-08-20 12:00"}},
		Copy: i18n.For(i18n.Default()),
	}
	if err := History(view).Render(context.Background(), &b); err != nil {
		t.Fatalf("History() = %v", err)
	}
	got := b.String()
	if !strings.Contains(got, "5 + 3") {
		t.Fatalf("expected expression, got %q", got)
	}
	if !strings.Contains(got, `hx-post="/history/clear"`) {
		t.Fatalf("expected clear button, got %q", got)
	}
}

func TestHistoryRendersEmptyState(t *testing.T) {
	var b strings.Builder
	copy := i18n.For(i18n.Default())
	if err := History(HistoryView{Copy: copy}).Render(context.Background(), &b); err != nil {
		t.Fatalf("History() = %v", err)
	}
	if got := b.String(); !strings.Contains(got, copy.HistoryEmpty) {
		t.Fatalf("expected empty-state copy, got %q", got)
	}
}

func TestKeypadPostsKeys(t *testing.T) {
	var b strings.Builder
	if err := Keypad().Render(context.Background(), &b); err != nil {
		t.Fatalf("Keypad() = %v", err)
	}
	got := b.String()
	for _, key := range []string{"0", "9", "÷", "×", "=", "AC", "CE", "."} {
		if !strings.Contains(got, ">"+key+"<") {
			t.Fatalf("expected key %q, got %q", key, got)
		}
	}
	if !strings.Contains(got, `hx-post="/keys"`) {
		t.Fatalf("expected keys endpoint wiring, got %q", got)
	}
}

func TestPageComposesSections(t *testing.T) {
	var b strings.Builder
	copy := i18n.For(i18n.Default())
	page := Page(CalculatorView{Display: "0", Copy: copy}, HistoryView{Copy: copy})
	if err := page.Render(context.Background(), &b); err != nil {
		t.Fatalf("Page() = %v", err)
	}
	got := b.String()
	for _, want := range []string{"<!DOCTYPE html>", `id="display"`, `class="keypad"`, `id="history"`} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in page, got %q", want, got)
		}
	}
}
