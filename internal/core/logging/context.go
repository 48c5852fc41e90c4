package logging

import "context"

type contextKey string

const (
	fileKey     contextKey = "file"
	templateKey contextKey = "template"
)

// WithFile adds the source file being processed to the context.
func WithFile(ctx context.Context, file string) context.Context {
	return context.WithValue(ctx, fileKey, file)
}

// WithTemplate adds a template name to the context.
func WithTemplate(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, templateKey, name)
}

// GetFile retrieves the source file from the context.
// Returns empty string if not present.
func GetFile(ctx context.Context) string {
	if f, ok := ctx.Value(fileKey).(string); ok {
		return f
	}
	return ""
}

// GetTemplate retrieves the template name from the context.
// Returns empty string if not present.
func GetTemplate(ctx context.Context) string {
	if name, ok := ctx.Value(templateKey).(string); ok {
		return name
	}
	return ""
}
