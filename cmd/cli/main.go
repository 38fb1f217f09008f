package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nickyhof/FlatDB"
	"github.com/nickyhof/FlatDB/core"
	"github.com/nickyhof/FlatDB/db"
	"github.com/nickyhof/FlatDB/logger"
	"github.com/nickyhof/FlatDB/op"
	"github.com/nickyhof/FlatDB/ps"
	"github.com/nickyhof/FlatDB/sql"
)

const (
	PromptColor  = "\033[36m" // Cyan
	ErrorColor   = "\033[31m" // Red
	SuccessColor = "\033[32m" // Green
	ResetColor   = "\033[0m"
	BoldColor    = "\033[1m"
)

// Version is set at build time via -ldflags
var Version = "dev"

const maxHistory = 1000

// CLI holds the CLI state
type CLI struct {
	engine      *db.Engine
	catalog     *op.CatalogOp
	out         io.Writer
	history     []string
	historyFile string
}

func main() {
	defaultData := os.Getenv("FLATDB_DATA")
	if defaultData == "" {
		defaultData = "mem://"
	}

	data := flag.String("data", defaultData, "Storage data source (mem://, git://dir, pebble://dir, s3://bucket/prefix, or a directory)")
	sqlFile := flag.String("sqlFile", "", "SQL file to execute (non-interactive)")
	userName := flag.String("name", "FlatDB", "User name recorded with versioned writes")
	userEmail := flag.String("email", "cli@flatdb.local", "User email recorded with versioned writes")
	version := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *version {
		fmt.Printf("FlatDB version %s\n", Version)
		return
	}

	instance, err := FlatDB.OpenDSN(context.Background(), *data)
	if err != nil {
		fmt.Printf("%sError: %v%s\n", ErrorColor, err, ResetColor)
		os.Exit(1)
	}
	defer instance.Close()
	logger.Info("storage opened", "data", *data)

	cli := NewCLI(instance, core.Identity{Name: *userName, Email: *userEmail}, os.Stdout)
	cli.historyFile = getHistoryPath()

	if *sqlFile != "" {
		if err := cli.importFile(*sqlFile); err != nil {
			fmt.Printf("%sError importing file: %v%s\n", ErrorColor, err, ResetColor)
			os.Exit(1)
		}
		return
	}

	cli.loadHistory()
	cli.printBanner(*data)
	cli.run(os.Stdin)
	cli.saveHistory()
}

func NewCLI(instance *FlatDB.Instance, identity core.Identity, out io.Writer) *CLI {
	return &CLI{
		engine:  instance.Engine(identity),
		catalog: op.GetCatalog(instance.Storage),
		out:     out,
		history: make([]string, 0),
	}
}

func (cli *CLI) printBanner(data string) {
	fmt.Fprintln(cli.out)
	bannerWidth := 39 // inner width of the banner box
	versionLine := fmt.Sprintf("FlatDB v%s", Version)
	padding := bannerWidth - len(versionLine) - 2
	if padding < 0 {
		padding = 0
	}
	leftPad := padding / 2
	rightPad := padding - leftPad

	fmt.Fprintf(cli.out, "%s%s╔═══════════════════════════════════════╗%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Fprintf(cli.out, "%s%s║ %*s%s%*s ║%s\n", BoldColor, PromptColor, leftPad, "", versionLine, rightPad, "", ResetColor)
	fmt.Fprintf(cli.out, "%s%s║   SQL over delimited text tables      ║%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Fprintf(cli.out, "%s%s╚═══════════════════════════════════════╝%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Fprintln(cli.out)
	fmt.Fprintf(cli.out, "%sStorage: %s%s\n", SuccessColor, data, ResetColor)
	fmt.Fprintln(cli.out, "Type .help for commands, exit to quit")
	fmt.Fprintln(cli.out)
}

// run reads statements until EOF or an exit command. A statement ends at a
// line ending in ';' or at a blank line. A first line that already parses as
// a whole statement runs without either.
func (cli *CLI) run(in io.Reader) {
	reader := bufio.NewReader(in)
	var buffer strings.Builder

	for {
		fmt.Fprint(cli.out, cli.getPrompt(buffer.Len() > 0))

		input, err := reader.ReadString('\n')
		if err != nil && input == "" {
			if statement := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(buffer.String()), ";")); statement != "" {
				fmt.Fprintln(cli.out)
				cli.addToHistory(statement + ";")
				cli.execute(statement)
			}
			fmt.Fprintf(cli.out, "\n%sGoodbye!%s\n", SuccessColor, ResetColor)
			return
		}

		input = strings.TrimRight(input, "\r\n")
		trimmed := strings.TrimSpace(input)

		if buffer.Len() == 0 {
			if trimmed == "" {
				continue
			}
			if strings.EqualFold(trimmed, "exit") || strings.EqualFold(trimmed, "quit") {
				fmt.Fprintf(cli.out, "%sGoodbye!%s\n", SuccessColor, ResetColor)
				return
			}
			if strings.HasPrefix(trimmed, ".") {
				if quit := cli.handleCommand(trimmed); quit {
					return
				}
				continue
			}
		}

		if trimmed != "" {
			buffer.WriteString(input)
			buffer.WriteString(" ")
			if !strings.HasSuffix(trimmed, ";") && !cli.isComplete(buffer.String(), trimmed) {
				continue
			}
		}

		statement := strings.TrimSpace(buffer.String())
		buffer.Reset()
		statement = strings.TrimSpace(strings.TrimSuffix(statement, ";"))
		if statement == "" {
			continue
		}

		cli.addToHistory(statement + ";")
		cli.execute(statement)
	}
}

// isComplete reports whether a single buffered line is a statement that
// parses on its own.
func (cli *CLI) isComplete(buffered, line string) bool {
	if strings.TrimSpace(buffered) != line {
		return false
	}
	_, err := sql.Parse(line)
	return err == nil
}

func (cli *CLI) execute(statement string) {
	result, err := cli.engine.Execute(statement)
	if err != nil {
		fmt.Fprintf(cli.out, "%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		return
	}
	result.Display(cli.out)
}

func (cli *CLI) getPrompt(multiLine bool) string {
	if multiLine {
		return fmt.Sprintf("%s ...>%s ", PromptColor, ResetColor)
	}
	return fmt.Sprintf("%sSQL>%s ", PromptColor, ResetColor)
}

// handleCommand runs a dot command and reports whether the CLI should exit.
func (cli *CLI) handleCommand(input string) bool {
	parts := strings.Fields(strings.TrimSpace(input))
	if len(parts) == 0 {
		return false
	}

	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit", ".q":
		fmt.Fprintf(cli.out, "%sGoodbye!%s\n", SuccessColor, ResetColor)
		return true

	case ".help", ".h", ".?":
		cli.printHelp()

	case ".tables":
		cli.showTables()

	case ".load":
		if len(parts) < 2 {
			fmt.Fprintf(cli.out, "%s✗ Usage: .load <file.csv|file.tsv> [table]%s\n", ErrorColor, ResetColor)
			break
		}
		table := ""
		if len(parts) > 2 {
			table = parts[2]
		}
		if err := cli.loadFile(parts[1], table); err != nil {
			fmt.Fprintf(cli.out, "%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		}

	case ".log":
		limit := 10
		if len(parts) > 1 {
			n, err := strconv.Atoi(parts[1])
			if err != nil || n <= 0 {
				fmt.Fprintf(cli.out, "%s✗ Usage: .log [count]%s\n", ErrorColor, ResetColor)
				break
			}
			limit = n
		}
		cli.showLog(limit)

	case ".clear", ".cls":
		fmt.Fprint(cli.out, "\033[H\033[2J")

	case ".history":
		cli.printHistory()

	case ".version":
		fmt.Fprintf(cli.out, "FlatDB version %s\n", Version)

	case ".import":
		if len(parts) < 2 {
			fmt.Fprintf(cli.out, "%s✗ Usage: .import <file.sql>%s\n", ErrorColor, ResetColor)
			break
		}
		if err := cli.importFile(parts[1]); err != nil {
			fmt.Fprintf(cli.out, "%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		}

	default:
		fmt.Fprintf(cli.out, "%s✗ Unknown command: %s (type .help for commands)%s\n", ErrorColor, parts[0], ResetColor)
	}

	return false
}

func (cli *CLI) printHelp() {
	fmt.Fprintln(cli.out)
	fmt.Fprintf(cli.out, "%s%sSpecial Commands:%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Fprintln(cli.out, "  .help, .h              Show this help message")
	fmt.Fprintln(cli.out, "  .quit, .exit, exit     Exit the CLI")
	fmt.Fprintln(cli.out, "  .tables                List tables")
	fmt.Fprintln(cli.out, "  .load <file> [table]   Load a CSV or TSV file as a table")
	fmt.Fprintln(cli.out, "  .import <file>         Execute SQL statements from a file")
	fmt.Fprintln(cli.out, "  .log [n]               Show the last n transactions")
	fmt.Fprintln(cli.out, "  .history               Show command history")
	fmt.Fprintln(cli.out, "  .clear                 Clear the screen")
	fmt.Fprintln(cli.out, "  .version               Show version info")
	fmt.Fprintln(cli.out)
	fmt.Fprintf(cli.out, "%s%sSQL Commands:%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Fprintln(cli.out, "  SELECT [DISTINCT] <cols> FROM <table> [[INNER|LEFT|RIGHT] JOIN <table> ON <a> = <b>]")
	fmt.Fprintln(cli.out, "         [WHERE ...] [GROUP BY ...] [ORDER BY ... [ASC|DESC]] [LIMIT n];")
	fmt.Fprintln(cli.out, "  INSERT INTO <table> (<cols>) VALUES (<vals>);")
	fmt.Fprintln(cli.out, "  DELETE FROM <table> [WHERE ...];")
	fmt.Fprintln(cli.out)
	fmt.Fprintf(cli.out, "%s%sOperators:%s =, !=, <, <=, >, >=, LIKE with AND / OR\n", BoldColor, PromptColor, ResetColor)
	fmt.Fprintf(cli.out, "%s%sAggregates:%s SUM, AVG, MIN, MAX, COUNT, GROUP BY\n", BoldColor, PromptColor, ResetColor)
	fmt.Fprintln(cli.out)
}

func (cli *CLI) showTables() {
	names, err := cli.catalog.TableNames(context.Background())
	if err != nil {
		fmt.Fprintf(cli.out, "%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		return
	}
	if len(names) == 0 {
		fmt.Fprintln(cli.out, "No tables")
		return
	}

	table := db.NewTable(cli.out)
	table.Header([]string{"Table"})
	for _, name := range names {
		table.Row([]string{name})
	}
	table.Render()
}

func (cli *CLI) showLog(limit int) {
	history, err := cli.catalog.History(limit)
	if errors.Is(err, ps.ErrNotSupported) {
		fmt.Fprintln(cli.out, "Storage keeps no transaction history")
		return
	}
	if err != nil {
		fmt.Fprintf(cli.out, "%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		return
	}
	if len(history) == 0 {
		fmt.Fprintln(cli.out, "No transactions")
		return
	}

	table := db.NewTable(cli.out)
	table.Header([]string{"Transaction", "When", "Author", "Message"})
	for _, txn := range history {
		id := txn.Id
		if len(id) > 8 {
			id = id[:8]
		}
		table.Row([]string{id, txn.When.Format("2006-01-02 15:04:05"), txn.Author, txn.Message})
	}
	table.Render()
}

// loadFile imports a delimited file as a table named after the file unless
// table is given. Files ending in .tsv are read as TSV.
func (cli *CLI) loadFile(filename, table string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	codec := ps.CSV
	if strings.EqualFold(filepath.Ext(filename), ps.TSV.Extension()) {
		codec = ps.TSV
	}
	if table == "" {
		table = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}

	n, err := cli.catalog.Import(context.Background(), table, file, codec)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s✓ Loaded %d rows into %s%s\n", SuccessColor, n, table, ResetColor)
	return nil
}

func (cli *CLI) addToHistory(cmd string) {
	// Don't add duplicates of the last command
	if len(cli.history) > 0 && cli.history[len(cli.history)-1] == cmd {
		return
	}
	cli.history = append(cli.history, cmd)

	if len(cli.history) > maxHistory {
		cli.history = cli.history[len(cli.history)-maxHistory:]
	}
}

func (cli *CLI) printHistory() {
	if len(cli.history) == 0 {
		fmt.Fprintln(cli.out, "No command history")
		return
	}

	start := 0
	if len(cli.history) > 20 {
		start = len(cli.history) - 20
	}

	for i := start; i < len(cli.history); i++ {
		fmt.Fprintf(cli.out, "  %3d  %s\n", i+1, cli.history[i])
	}
}

func getHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".flatdb_history")
}

func (cli *CLI) loadHistory() {
	if cli.historyFile == "" {
		return
	}

	file, err := os.Open(cli.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		cli.history = append(cli.history, scanner.Text())
	}
}

func (cli *CLI) saveHistory() {
	if cli.historyFile == "" {
		return
	}

	file, err := os.Create(cli.historyFile)
	if err != nil {
		logger.Warn("failed to save history", "file", cli.historyFile, "error", err)
		return
	}
	defer file.Close()

	start := 0
	if len(cli.history) > maxHistory {
		start = len(cli.history) - maxHistory
	}

	for i := start; i < len(cli.history); i++ {
		_, _ = file.WriteString(cli.history[i] + "\n")
	}
}

// importFile reads and executes SQL statements from a file
func (cli *CLI) importFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	successCount := 0
	errorCount := 0

	for i, stmt := range splitStatements(string(data)) {
		result, err := cli.engine.Execute(stmt)
		if err != nil {
			fmt.Fprintf(cli.out, "%s[%d] ✗ %s%s\n", ErrorColor, i+1, truncate(stmt, 50), ResetColor)
			fmt.Fprintf(cli.out, "      Error: %v\n", err)
			errorCount++
			continue
		}

		successCount++
		switch r := result.(type) {
		case db.CommitResult:
			fmt.Fprintf(cli.out, "%s[%d] ✓ %s (%s)%s\n", SuccessColor, i+1, truncate(stmt, 50), r.Summary(), ResetColor)
		case db.QueryResult:
			fmt.Fprintf(cli.out, "%s[%d] ✓ %s (%d rows)%s\n", SuccessColor, i+1, truncate(stmt, 50), r.RecordsRead, ResetColor)
		default:
			fmt.Fprintf(cli.out, "%s[%d] ✓ %s%s\n", SuccessColor, i+1, truncate(stmt, 50), ResetColor)
		}
	}

	fmt.Fprintf(cli.out, "\n%s✓ Import complete: %d succeeded, %d failed%s\n",
		SuccessColor, successCount, errorCount, ResetColor)

	return nil
}

// splitStatements splits a script on semicolons outside single-quoted
// literals and drops "--" line comments.
func splitStatements(content string) []string {
	var statements []string
	var current strings.Builder
	inString := false

	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	for i := 0; i < len(content); i++ {
		ch := content[i]

		switch {
		case ch == '\'':
			inString = !inString
		case !inString && ch == '-' && i+1 < len(content) && content[i+1] == '-':
			for i < len(content) && content[i] != '\n' {
				i++
			}
			current.WriteByte('\n')
			continue
		case !inString && ch == ';':
			flush()
			continue
		}

		current.WriteByte(ch)
	}
	flush()

	return statements
}

// truncate shortens a string to max length with ellipsis
func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
