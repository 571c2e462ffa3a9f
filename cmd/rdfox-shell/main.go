// Command rdfox-shell is an interactive SPARQL shell over a local RDFox
// server. It starts the engine in-process, connects to a data store and
// reads statements from a line-edited prompt. Backslash commands cover the
// common non-SPARQL chores: importing files, counting triples, inspecting
// the server.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	rdfox "github.com/semihalev/go-rdfox"
)

var rootCmd = &cobra.Command{
	Use:   "rdfox-shell",
	Short: "Interactive SPARQL shell for the RDFox engine",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell()
	},
	SilenceUsage: true,
}

var (
	flagDatastore string
	flagRole      string
	flagPassword  string
	flagServerDir string
	flagLibDir    string
	flagLicense   string
)

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&flagDatastore, "datastore", "", "data store to connect to")
	flags.StringVar(&flagRole, "role", "", "server role name")
	flags.StringVar(&flagPassword, "password", "", "server role password")
	flags.StringVar(&flagServerDir, "server-dir", "", "server persistence directory")
	flags.StringVar(&flagLibDir, "lib-dir", "", "directory holding the shared engine library")
	flags.StringVar(&flagLicense, "license-dir", "", "directory holding the license file")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Start the engine and print its version",
		RunE: func(cmd *cobra.Command, args []string) error {
			shell, err := connect()
			if err != nil {
				return err
			}
			defer shell.close()
			version, err := shell.sc.Version()
			if err != nil {
				return err
			}
			fmt.Println(version)
			return nil
		},
		SilenceUsage: true,
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// shellSession bundles the engine handles the REPL works with.
type shellSession struct {
	server *rdfox.Server
	sc     *rdfox.ServerConnection
	conn   *rdfox.DataStoreConnection
	store  string
}

func (s *shellSession) close() {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.sc != nil {
		s.sc.Close()
	}
}

// connect loads the configuration, applies flag overrides, starts the local
// server and opens a connection to the configured data store.
func connect() (*shellSession, error) {
	cfg, err := rdfox.LoadConfig()
	if err != nil {
		return nil, err
	}
	if flagDatastore != "" {
		cfg.Shell.Datastore = flagDatastore
	}
	if flagRole != "" {
		cfg.Server.Role = flagRole
	}
	if flagPassword != "" {
		cfg.Server.Password = flagPassword
	}
	if flagServerDir != "" {
		cfg.Server.Directory = flagServerDir
	}
	if flagLibDir != "" {
		cfg.Lib.Dir = flagLibDir
	}
	if flagLicense != "" {
		cfg.License.Dir = flagLicense
	}

	server, err := rdfox.StartServerFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	sc, err := server.ConnectionWithDefaultRole()
	if err != nil {
		return nil, err
	}
	ds := rdfox.DefineDataStore(cfg.Shell.Datastore)
	// The store may already exist from a previous run.
	_, _ = sc.CreateDataStore(ds)
	conn, err := sc.Connect(ds)
	if err != nil {
		sc.Close()
		return nil, err
	}
	return &shellSession{server: server, sc: sc, conn: conn, store: cfg.Shell.Datastore}, nil
}

func runShell() error {
	shell, err := connect()
	if err != nil {
		return err
	}
	defer shell.close()

	version, err := shell.sc.Version()
	if err != nil {
		return err
	}
	fmt.Printf("RDFox %s, data store %q. Type \\help for commands.\n", version, shell.store)

	prompt := liner.NewLiner()
	defer prompt.Close()
	prompt.SetCtrlCAborts(true)

	for {
		input, err := prompt.Prompt("rdfox> ")
		if err == liner.ErrPromptAborted {
			continue
		}
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		prompt.AppendHistory(input)

		if strings.HasPrefix(input, `\`) {
			if quit := shell.command(input); quit {
				return nil
			}
			continue
		}
		shell.statement(input)
	}
}

// command dispatches a backslash command; it reports whether the shell
// should exit.
func (s *shellSession) command(input string) bool {
	fields := strings.Fields(input)
	switch fields[0] {
	case `\quit`, `\exit`, `\q`:
		return true
	case `\help`:
		fmt.Print(`Commands:
  \help                 show this help
  \quit                 exit the shell
  \count                count triples, subjects, predicates, ontologies
  \import <path>        import a Turtle/N-Triples file or directory
  \stats                show server memory use and thread count
  \version              show the engine version
Any other input is evaluated as a SPARQL statement.
`)
	case `\count`:
		s.counts()
	case `\import`:
		if len(fields) < 2 {
			fmt.Println(`usage: \import <path>`)
			break
		}
		s.importPath(strings.Join(fields[1:], " "))
	case `\stats`:
		s.stats()
	case `\version`:
		version, err := s.sc.Version()
		if err != nil {
			fmt.Println("error:", err)
			break
		}
		fmt.Println(version)
	default:
		fmt.Printf("unknown command %s, try \\help\n", fields[0])
	}
	return false
}

func (s *shellSession) counts() {
	for _, c := range []struct {
		name  string
		count func(rdfox.FactDomain) (uint64, error)
	}{
		{"triples", s.conn.TriplesCount},
		{"subjects", s.conn.SubjectsCount},
		{"predicates", s.conn.PredicatesCount},
		{"ontologies", s.conn.OntologiesCount},
	} {
		n, err := c.count(rdfox.FactDomainAll)
		if err != nil {
			fmt.Printf("%-11s error: %v\n", c.name, err)
			continue
		}
		fmt.Printf("%-11s %d\n", c.name, n)
	}
}

func (s *shellSession) importPath(path string) {
	info, err := os.Stat(path)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if info.IsDir() {
		n, err := s.conn.ImportFromDirectory(path, rdfox.Graph{})
		if err != nil {
			fmt.Printf("imported %d files, then failed: %v\n", n, err)
			return
		}
		fmt.Printf("imported %d files\n", n)
		return
	}
	if err := s.conn.ImportFile(rdfox.Graph{}, path, ""); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("imported 1 file")
}

func (s *shellSession) stats() {
	maxUsed, available, err := s.sc.MemoryUse()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	threads, err := s.sc.NumberOfThreads()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("memory used (max): %d bytes\navailable:         %d bytes\nthreads:           %d\n",
		maxUsed, available, threads)
}

// queryVerbs are the SPARQL forms evaluated read-only; everything else runs
// as an update inside a read-write transaction.
var queryVerbs = map[string]bool{
	"SELECT": true, "ASK": true, "CONSTRUCT": true, "DESCRIBE": true,
}

// statementVerb scans past PREFIX and BASE declarations to the first
// keyword that decides how the statement is evaluated.
func statementVerb(text string) string {
	fields := strings.Fields(strings.ToUpper(text))
	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "PREFIX":
			// PREFIX name: <iri>
			i += 2
		case "BASE":
			// BASE <iri>
			i++
		default:
			return fields[i]
		}
	}
	return ""
}

func (s *shellSession) statement(text string) {
	ns, err := rdfox.NewNamespaces()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer ns.Close()
	params, err := rdfox.NewParameters()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer params.Close()
	if err := params.SetFactDomain(rdfox.FactDomainAll); err != nil {
		fmt.Println("error:", err)
		return
	}

	statement := rdfox.NewStatement(ns, text)
	cursor, err := statement.Cursor(s.conn, params)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer cursor.Destroy()

	if queryVerbs[statementVerb(text)] {
		s.query(cursor)
		return
	}
	count, err := cursor.UpdateAndCommit(rdfox.DefaultMaxRows, func(rdfox.ResultRow) error { return nil })
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("ok, %d rows\n", count)
}

// query prints the answer rows in Turtle form, one line per logical row,
// duplicates shown by their multiplicity.
func (s *shellSession) query(cursor *rdfox.Cursor) {
	headerDone := false
	count, err := cursor.ExecuteAndRollback(rdfox.DefaultMaxRows, func(row rdfox.ResultRow) error {
		if !headerDone {
			names, err := row.VariableNames()
			if err != nil {
				return err
			}
			fmt.Println("?" + strings.Join(names, "\t?"))
			headerDone = true
		}
		values, err := row.Values()
		if err != nil {
			return err
		}
		rendered := make([]string, len(values))
		for i, v := range values {
			rendered[i] = v.Turtle()
		}
		line := strings.Join(rendered, "\t")
		if row.Multiplicity > 1 {
			line = fmt.Sprintf("%s\t(x%d)", line, row.Multiplicity)
		}
		fmt.Println(line)
		return nil
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("%d answers\n", count)
}
