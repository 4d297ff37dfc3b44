package otel

import (
	"context"

	"github.com/adrianliechti/typst-bot/pkg/auth"

	"go.opentelemetry.io/otel/attribute"
)

type KeyValue = attribute.KeyValue

func String(key string, val string) KeyValue {
	return attribute.String(key, val)
}

func Int(key string, val int) KeyValue {
	return attribute.Int(key, val)
}

func KeyValues(attrs ...[]KeyValue) []KeyValue {
	var result []KeyValue

	for _, a := range attrs {
		result = append(result, a...)
	}

	return result
}

func EndUserAttrs(ctx context.Context) []KeyValue {
	var attrs []KeyValue

	if user, ok := auth.UserFromContext(ctx); ok {
		attrs = append(attrs, attribute.String("enduser.id", user))
	}

	if email, ok := auth.EmailFromContext(ctx); ok {
		attrs = append(attrs, attribute.String("enduser.email", email))
	}

	return attrs
}
