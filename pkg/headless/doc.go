// Package headless provides the request validation and content resolution
// pipeline behind a read-only headless CMS API.
//
// A Service answers four operations: pages by hierarchical path, items by
// slug and type, paginated archives, and options pages. Content comes from a
// Repository; custom fields, locales, full-text search and media URLs are
// optional collaborators supplied through Options. Repository
// implementations (memory, Postgres) and media resolvers (static prefix,
// S3) are provided under subpackages.
//
// Locale
//
// The requested locale is validated once per request and carried through the
// call chain as a context value (see WithLocale). Nothing in this package
// holds per-request state.
//
// Filters
//
// Named filter chains (format_post, format_archive_post, ...) reshape values
// before they are serialized. An empty chain returns its input unchanged.
package headless
