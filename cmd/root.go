package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oakwood-commons/gridx/internal/config"
	"github.com/oakwood-commons/gridx/internal/filter"
	"github.com/oakwood-commons/gridx/internal/grid"
	"github.com/oakwood-commons/gridx/internal/schema"
	"github.com/oakwood-commons/gridx/internal/store"
	"github.com/oakwood-commons/gridx/internal/ui"
	"github.com/oakwood-commons/gridx/pkg/logger"
	"github.com/oakwood-commons/gridx/pkg/settings"
)

var (
	dataPath   string
	dbPath     string
	entitySlug string
	demoData   bool
	configFile string
	themeName  string
	noColor    bool
	readOnly   bool
	logLevel   int8

	outputFormat string
	exprSource   string
	whereFlags   []string
	sortFlags    []string
	limitRows    int
	offsetRows   int

	rootCtx = context.Background()
)

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&dataPath, "file", "f", "", "YAML data file with entities and records")
	f.StringVar(&dbPath, "db", "", "sqlite database path")
	f.StringVarP(&entitySlug, "entity", "e", "", "entity slug to open (default: first entity)")
	f.BoolVar(&demoData, "demo", false, "use the built-in demo dataset")
	f.StringVarP(&configFile, "config-file", "c", "", "config file path")
	f.StringVar(&themeName, "theme", "", "theme name from the config")
	f.BoolVar(&noColor, "no-color", false, "disable colors")
	f.BoolVar(&readOnly, "read-only", false, "open the grid without editing")
	f.Int8Var(&logLevel, "log-level", 0, "zap log level (-1 debug, 0 info)")

	f.StringVarP(&outputFormat, "output", "o", "", "non-interactive output format: json, yaml, csv, toml")
	f.StringVar(&exprSource, "filter", "", "CEL row filter, e.g. '_.employees > 50.0'")
	f.StringArrayVar(&whereFlags, "where", nil, "declarative filter column:operator[:value[:end]], repeatable")
	f.StringArrayVar(&sortFlags, "sort", nil, "sort column[:asc|desc], repeatable")
	f.IntVar(&limitRows, "limit", 0, "limit output rows (0 = all)")
	f.IntVar(&offsetRows, "offset", 0, "skip output rows")
}

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName,
	Short: "Terminal data grid for entity records",
	Long: settings.CliBinaryName + ` opens a spreadsheet-style grid over entity records:
typed columns, multi-column sorting, filtering, cell editing with
optimistic saves, clipboard copy/paste, and keyboard navigation.

Without a terminal (or with --output) it prints the filtered, sorted
rows instead of opening the grid.`,
	Example: "\n  " + settings.CliBinaryName + " --demo" +
		"\n  " + settings.CliBinaryName + " -f crm.yaml -e companies" +
		"\n  " + settings.CliBinaryName + " --db crm.db -e companies -o csv --where stage:is:customer" +
		"\n  " + settings.CliBinaryName + " --demo -o json --filter '_.employees > 50.0' --sort employees:desc\n",
	Version:       settings.VersionInformation.BuildVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		lgr := logger.Get(logLevel)
		lgr = logger.WithValues(lgr, "command", settings.CliBinaryName, "subcommand", cmd.Name())
		rootCtx = logger.WithLogger(context.Background(), lgr)
	},
	RunE: runRoot,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func runRoot(cmd *cobra.Command, _ []string) error {
	lgr := logger.FromContext(rootCtx)

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	svc, entities, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	entity, err := pickEntity(entities)
	if err != nil {
		return err
	}
	lgr.V(1).Info("opening entity", "entity", entity.Slug, "attributes", len(entity.Attributes))

	interactive := outputFormat == "" && term.IsTerminal(int(os.Stdout.Fd()))
	if !interactive {
		return runOutput(cmd, svc, entity)
	}
	if exprSource != "" || len(whereFlags) > 0 || len(sortFlags) > 0 || limitRows > 0 || offsetRows > 0 {
		return fmt.Errorf("--filter, --where, --sort, --limit, and --offset require an output format (use --output)")
	}

	theme := ui.NewTheme(cfg.Theme(themeName), noColor || boolVal(cfg.UI.Display.NoColor))
	model := ui.NewModel(ui.Options{
		Service:  svc,
		Entity:   entity,
		Config:   cfg,
		Theme:    theme,
		ReadOnly: readOnly,
		Logger:   *logger.WithComponent(lgr, "ui"),
	})
	_, err = tea.NewProgram(model, tea.WithContext(rootCtx)).Run()
	return err
}

// openStore picks the data source: --db, --file, or the demo dataset.
func openStore() (store.Service, []schema.Entity, func(), error) {
	noop := func() {}
	sources := 0
	for _, set := range []bool{dbPath != "", dataPath != "", demoData} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return nil, nil, noop, fmt.Errorf("--db, --file, and --demo are mutually exclusive")
	}

	switch {
	case dbPath != "":
		db, err := store.OpenSQLite(dbPath)
		if err != nil {
			return nil, nil, noop, err
		}
		entities, err := db.Entities(rootCtx)
		if err != nil {
			db.Close()
			return nil, nil, noop, err
		}
		if len(entities) == 0 {
			db.Close()
			return nil, nil, noop, fmt.Errorf("database %s holds no entities", dbPath)
		}
		return db, entities, func() { db.Close() }, nil

	case dataPath != "":
		mem, entities, err := loadDataFile(dataPath)
		return mem, entities, noop, err

	default:
		mem, entities, err := buildDemoStore()
		return mem, entities, noop, err
	}
}

func pickEntity(entities []schema.Entity) (schema.Entity, error) {
	if entitySlug == "" {
		return entities[0], nil
	}
	for _, entity := range entities {
		if entity.Slug == entitySlug {
			return entity, nil
		}
	}
	known := make([]string, len(entities))
	for i, entity := range entities {
		known[i] = entity.Slug
	}
	return schema.Entity{}, fmt.Errorf("unknown entity %q (have: %s)", entitySlug, strings.Join(known, ", "))
}

// runOutput is the non-interactive path: fetch, filter, sort, encode.
func runOutput(cmd *cobra.Command, svc store.Service, entity schema.Entity) error {
	format := outputFormat
	if format == "" {
		format = "json"
	}
	if !validOutputFormat(format) {
		return fmt.Errorf("unknown output format %q (expected one of %s)", format, strings.Join(outputFormats, ", "))
	}

	conds := make([]filter.Condition, 0, len(whereFlags))
	for _, raw := range whereFlags {
		cond, err := parseWhereFlag(entity, raw)
		if err != nil {
			return err
		}
		conds = append(conds, cond)
	}
	sorts := make([]grid.SortEntry, 0, len(sortFlags))
	for _, raw := range sortFlags {
		entry, err := parseSortFlag(entity, raw)
		if err != nil {
			return err
		}
		sorts = append(sorts, entry)
	}
	var expr *filter.ExprFilter
	if exprSource != "" {
		var err error
		if expr, err = filter.CompileExpr(exprSource); err != nil {
			return fmt.Errorf("invalid --filter expression: %w", err)
		}
	}

	records, err := svc.FetchRows(rootCtx, entity.ID, store.RowQuery{})
	if err != nil {
		return err
	}
	records = queryRecords(entity, records, conds, expr, sorts, limitRows, offsetRows)
	return writeRecords(cmd.OutOrStdout(), format, entity, records)
}

func boolVal(p *bool) bool {
	return p != nil && *p
}
