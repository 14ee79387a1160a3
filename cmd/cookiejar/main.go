// Command cookiejar exercises a cookiejar.Jar from the shell: set and get
// cookies against a URL, list or export whatever a store holds, and pick
// a backend (in-memory, BadgerDB, or SQLite3) with --db. It is the same
// mow.cli-scaffolded single-binary shape the teacher's crawl tooling uses
// for its own operational commands, adapted to a cookie jar's operations
// instead of a crawl's.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	cli "github.com/jawher/mow.cli"

	"github.com/jkfb/tough-cookie"
	"github.com/jkfb/tough-cookie/filter"
	"github.com/jkfb/tough-cookie/logger"
	"github.com/jkfb/tough-cookie/store/badger"
	"github.com/jkfb/tough-cookie/store/mem"
	"github.com/jkfb/tough-cookie/store/sqlite3"
	"github.com/jkfb/tough-cookie/urlinput"
)

// ------------------------------------------------------------------------

func main() {
	app := cli.App("cookiejar", "Inspect and manipulate an RFC 6265 cookie jar from the command line")

	dbKind := app.StringOpt("db", "mem", "storage backend: mem, badger, or sqlite3")
	dbPath := app.StringOpt("db-path", "", "path to the database file/directory (required for badger and sqlite3)")
	loose := app.BoolOpt("loose", false, "parse Set-Cookie headers leniently")
	verbose := app.BoolOpt("v verbose", false, "log jar activity to stderr")

	app.Command("set", "store a cookie from a Set-Cookie header", func(cmd *cli.Cmd) {
		cmd.Spec = "URL HEADER"

		rawURL := cmd.StringArg("URL", "", "the request URL the cookie is being set for")
		header := cmd.StringArg("HEADER", "", "the Set-Cookie header value")

		cmd.Action = func() {
			jar, closeFn := openJar(*dbKind, *dbPath, *loose, *verbose)
			defer closeFn()

			u, err := urlinput.NewSimpleParser().Parse(*rawURL)
			fatalIf(err)

			c, err := jar.Set(*header, u, cookiejar.SetOptions{})
			fatalIf(err)

			fmt.Printf("stored %s=%s for %s%s\n", c.Key, c.Value, c.Domain, c.Path)
		}
	})

	app.Command("get", "print the Cookie header a request to URL would send", func(cmd *cli.Cmd) {
		cmd.Spec = "URL"

		rawURL := cmd.StringArg("URL", "", "the request URL")

		cmd.Action = func() {
			jar, closeFn := openJar(*dbKind, *dbPath, *loose, *verbose)
			defer closeFn()

			u, err := urlinput.NewSimpleParser().Parse(*rawURL)
			fatalIf(err)

			s, err := jar.GetCookieString(u, cookiejar.GetOptions{})
			fatalIf(err)

			fmt.Println(s)
		}
	})

	app.Command("list", "list stored cookies, optionally filtered by domain glob", func(cmd *cli.Cmd) {
		domains := cmd.StringsOpt("domain", nil, "glob pattern(s) to filter by Domain, e.g. '*.example.com'")

		cmd.Action = func() {
			jar, closeFn := openJar(*dbKind, *dbPath, *loose, *verbose)
			defer closeFn()

			cookies, err := listAll(jar)
			fatalIf(err)

			if len(*domains) > 0 {
				f, err := filter.NewDomainFilter(*domains)
				fatalIf(err)

				cookies, err = f.Select(cookies)
				fatalIf(err)
			}

			for _, c := range cookies {
				fmt.Println(c.String())
			}
		}
	})

	app.Command("export", "serialize the jar to stdout as JSON", func(cmd *cli.Cmd) {
		cmd.Action = func() {
			jar, closeFn := openJar(*dbKind, *dbPath, *loose, *verbose)
			defer closeFn()

			blob, err := jar.Serialize()
			fatalIf(err)

			os.Stdout.Write(blob)
			fmt.Println()
		}
	})

	app.Command("import", "load a jar previously written by export", func(cmd *cli.Cmd) {
		cmd.Spec = "FILE"

		path := cmd.StringArg("FILE", "", "path to a JSON blob produced by export")

		cmd.Action = func() {
			blob, err := os.ReadFile(*path)
			fatalIf(err)

			s, closeFn := openStore(*dbKind, *dbPath)
			defer closeFn()

			var opts []cookiejar.ConfigSetter
			if *verbose {
				opts = append(opts, cookiejar.WithLogger(stderrLogger{}))
			}

			_, err = cookiejar.Deserialize(blob, s, cookiejar.NewJarConfig(opts...))
			fatalIf(err)

			fmt.Println("import complete")
		}
	})

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ------------------------------------------------------------------------

func fatalIf(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "cookiejar:", err)
		os.Exit(1)
	}
}

// ------------------------------------------------------------------------

// openStore opens the requested backend, returning a close func that is
// always safe to defer (a no-op for the in-memory store).
func openStore(kind, path string) (cookiejar.Store, func()) {
	switch kind {
	case "mem":
		return mem.New(), func() {}
	case "badger":
		s, err := badger.New(path)
		fatalIf(err)

		return s, func() { s.Close() }
	case "sqlite3":
		s, err := sqlite3.New(path, "cookies")
		fatalIf(err)

		return s, func() { s.Close() }
	default:
		fatalIf(fmt.Errorf("unknown --db %q (want mem, badger, or sqlite3)", kind))

		return nil, func() {}
	}
}

// ------------------------------------------------------------------------

func openJar(kind, path string, loose, verbose bool) (*cookiejar.Jar, func()) {
	s, closeFn := openStore(kind, path)

	opts := []cookiejar.ConfigSetter{cookiejar.WithLooseMode(loose)}
	if verbose {
		opts = append(opts, cookiejar.WithLogger(stderrLogger{}))
	}

	jar, err := cookiejar.NewJar(s, cookiejar.NewJarConfig(opts...))
	fatalIf(err)

	return jar, closeFn
}

// ------------------------------------------------------------------------

// listAll enumerates every cookie a jar's store holds, requiring the
// store to implement cookiejar.Enumerator, by round-tripping through
// Serialize and decoding its per-cookie JSON records.
func listAll(jar *cookiejar.Jar) ([]*cookiejar.Cookie, error) {
	blob, err := jar.Serialize()
	if err != nil {
		return nil, err
	}

	var wire struct {
		Cookies []json.RawMessage `json:"cookies"`
	}
	if err := json.Unmarshal(blob, &wire); err != nil {
		return nil, err
	}

	out := make([]*cookiejar.Cookie, 0, len(wire.Cookies))
	for _, raw := range wire.Cookies {
		c, err := cookiejar.CookieFromJSON(raw)
		if err != nil {
			continue
		}
		out = append(out, c)
	}

	return out, nil
}

// ------------------------------------------------------------------------

// stderrLogger prints jar events to stderr, satisfying logger.Logger.
type stderrLogger struct{}

func (stderrLogger) Log(level logger.Level, e *logger.Event) {
	fmt.Fprintf(os.Stderr, "[%s] %s host=%s %v\n", levelName(level), e.Op, e.Host, e.Values)
}

// ------------------------------------------------------------------------

func levelName(l logger.Level) string {
	switch l {
	case logger.DEBUG_LEVEL:
		return "DEBUG"
	case logger.INFO_LEVEL:
		return "INFO"
	case logger.WARN_LEVEL:
		return "WARN"
	case logger.ERR_LEVEL:
		return "ERROR"
	default:
		return "?"
	}
}
