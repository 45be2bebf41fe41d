package app

import (
	"context"

	t "example.com/fixture/i18n"
)

const greeting = "Hello"

func label(term t.MsgKey, value string) string { return string(term) + value }

func labels(terms ...t.MsgKey) int { return len(terms) }

func Render(ctx context.Context, name string, n int) []string {
	return []string{
		t.Tr(ctx, greeting+", world"),
		t.Tr(ctx, "Hello"),
		t.Tr(ctx, "Hello"),
		t.Tr(ctx, name),
		t.TrN(ctx, "{{.Count}} page", "{{.Count}} pages", n, "Count", n),
		t.MsgKey("Next").Tr(ctx),
		label("Status", "ok"),
		label(t.MsgKey(name), "dynamic"),
		string(rune(labels("First", "Second"))),
	}
}
