package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/tendant/simple-headless/pkg/headless"
	"github.com/tendant/simple-headless/pkg/headless/config"
	repopg "github.com/tendant/simple-headless/pkg/headless/repo/postgres"
)

const usage = `Simple Headless Admin CLI

Resolves content the same way the HTTP routes do, straight from the database.

USAGE:
  admin <command> [options]

COMMANDS:
  page      Resolve a page by its hierarchical path
  post      Resolve a post by slug and post type
  archive   List posts of one or more post types
  options   Print the options pages
  migrate   Apply the Postgres schema

ENVIRONMENT VARIABLES:
  DATABASE_URL      PostgreSQL connection string (default: in-memory store)
  DB_SCHEMA         PostgreSQL schema name (default: headless)
  LOCALES           Comma-separated locale codes
  MEDIA_URL         Base URL or s3:// location for attachment URLs

  Configuration can be loaded from a .env file in the current directory.
  Command line environment variables override .env file values.

EXAMPLES:
  # Resolve a nested page
  admin page --path=/about/team

  # Resolve a post in Finnish
  admin post --slug=hello-world --post_type=post --lang=fi

  # Second page of posts ordered by title
  admin archive --post_type=post --posts_per_page=10 --paged=2 --orderby=title --order=ASC

  # Output as JSON
  admin archive --post_type=post --posts_per_page=10 --paged=1 --json

OPTIONS:
  Every --key=value option is passed on as the query parameter of the same
  name (path, slug, post_type, posts_per_page, paged, orderby, order,
  meta_key, s, tax_query, lang).
  --json                       Output as JSON
`

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Print(usage + "\n")
		os.Exit(1)
	}

	command := os.Args[1]

	// Check for help
	if command == "help" || command == "--help" || command == "-h" {
		fmt.Print(usage + "\n")
		os.Exit(0)
	}

	cfg, err := config.Load(config.WithEnv(""))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	params, useJSON := parseParams(os.Args[2:])

	if command == "migrate" {
		if err := runMigrate(ctx, cfg); err != nil {
			log.Fatalf("Failed to migrate: %v", err)
		}
		fmt.Printf("Schema applied to %s\n", cfg.DBSchema)
		return
	}

	svc, err := cfg.BuildService()
	if err != nil {
		log.Fatalf("Failed to create service: %v", err)
	}

	if err := run(ctx, os.Stdout, svc, command, params, useJSON); err != nil {
		if headless.IsRequestError(err) {
			fmt.Fprintf(os.Stderr, "%s: %v\n", headless.Kind(err), err)
			os.Exit(2)
		}
		log.Fatalf("Command %s failed: %v", command, err)
	}
}

// run executes one resolution command and prints the result to out
func run(ctx context.Context, out io.Writer, svc headless.Service, command string, params url.Values, useJSON bool) error {
	switch command {
	case "page":
		req, err := headless.ParsePageRequest(params)
		if err != nil {
			return err
		}
		content, err := svc.GetPage(ctx, req)
		if err != nil {
			return err
		}
		return printItem(out, content, useJSON)

	case "post":
		req, err := headless.ParsePostRequest(params)
		if err != nil {
			return err
		}
		content, err := svc.GetPost(ctx, req)
		if err != nil {
			return err
		}
		return printItem(out, content, useJSON)

	case "archive":
		req, err := headless.ParseArchiveRequest(params)
		if err != nil {
			return err
		}
		resp, err := svc.GetArchive(ctx, req)
		if err != nil {
			return err
		}
		if useJSON {
			return printJSON(out, resp)
		}
		printArchive(out, resp)
		return nil

	case "options":
		content, err := svc.GetOptions(ctx, headless.ParseOptionsRequest(params))
		if err != nil {
			return err
		}
		return printJSON(out, content)

	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func runMigrate(ctx context.Context, cfg *config.ServerConfig) error {
	if cfg.DatabaseType != "postgres" {
		return fmt.Errorf("migrate requires DATABASE_URL to point at Postgres")
	}
	pool, err := config.NewPool(ctx, cfg.DatabaseURL, cfg.DBSchema)
	if err != nil {
		return err
	}
	defer pool.Close()
	return repopg.Migrate(ctx, pool)
}

// parseParams turns --key=value arguments into query parameters
func parseParams(args []string) (url.Values, bool) {
	params := url.Values{}
	useJSON := false

	for _, arg := range args {
		if arg == "--json" {
			useJSON = true
			continue
		}

		key, value := parseFlag(arg)
		if key == "" {
			continue
		}
		params.Add(key, value)
	}

	return params, useJSON
}

func parseFlag(arg string) (string, string) {
	if len(arg) > 2 && arg[:2] == "--" {
		arg = arg[2:]
		if i := strings.IndexByte(arg, '='); i >= 0 {
			return arg[:i], arg[i+1:]
		}
		return arg, ""
	}
	return "", ""
}

func printJSON(out io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

func printItem(out io.Writer, content interface{}, useJSON bool) error {
	item, ok := content.(*headless.ContentItem)
	if useJSON || !ok {
		return printJSON(out, content)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\t%d\n", item.ID)
	fmt.Fprintf(w, "TYPE\t%s\n", item.Type)
	fmt.Fprintf(w, "SLUG\t%s\n", item.Slug)
	fmt.Fprintf(w, "TITLE\t%s\n", item.Title)
	fmt.Fprintf(w, "STATUS\t%s\n", item.Status)
	fmt.Fprintf(w, "DATE\t%s\n", item.Date.Format("2006-01-02 15:04:05"))
	if item.Locale != "" {
		fmt.Fprintf(w, "LANG\t%s\n", item.Locale)
	}
	if item.SourceURL != "" {
		fmt.Fprintf(w, "SOURCE\t%s\n", item.SourceURL)
	}
	for name, entry := range item.Taxonomies {
		fmt.Fprintf(w, "%s\t%d terms\n", strings.ToUpper(name), len(entry.Terms))
	}
	return w.Flush()
}

func printArchive(out io.Writer, resp *headless.ArchiveResponse) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tTYPE\tSLUG\tTITLE\tDATE\n")
	fmt.Fprintf(w, "──────\t────────────\t────────────────────\t────────────────────\t───────────────────\n")

	for _, post := range resp.Posts {
		item, ok := post.(*headless.ContentItem)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			item.ID,
			truncate(item.Type, 12),
			truncate(item.Slug, 20),
			truncate(item.Title, 20),
			item.Date.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nShowing: %d of %d\n", len(resp.Posts), resp.FoundPosts)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
