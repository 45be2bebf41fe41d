package i18n

import "context"

type MsgKey string

func (s MsgKey) Tr(ctx context.Context) string { return Tr(ctx, string(s)) }

func Tr(_ context.Context, msgid string, _ ...any) string { return msgid }

func TrN(_ context.Context, singular, plural string, n int, _ ...any) string {
	if n == 1 {
		return singular
	}

	return plural
}
